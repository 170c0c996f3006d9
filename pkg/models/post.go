package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PostType string

const (
	PostTypePublic         PostType = "public"
	PostTypeConnectionOnly PostType = "connection-only"
)

type MediaType string

const (
	MediaTypeImage    MediaType = "image"
	MediaTypeVideo    MediaType = "video"
	MediaTypeDocument MediaType = "document"
)

// Media is one attachment on a post: an opaque blob-store URL plus a coarse
// type tag. Stored as a JSON array column, not a normalized table.
type Media struct {
	URL  string    `json:"url"`
	Type MediaType `json:"type"`
}

// MediaTypeFromContentType classifies an upload by its MIME prefix.
// Anything that is not an image or a video counts as a document.
func MediaTypeFromContentType(contentType string) MediaType {
	switch {
	case strings.HasPrefix(contentType, "image"):
		return MediaTypeImage
	case strings.HasPrefix(contentType, "video"):
		return MediaTypeVideo
	default:
		return MediaTypeDocument
	}
}

type Post struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	UserID         uint                        `gorm:"not null;index" json:"user_id"`
	Content        string                      `gorm:"type:text" json:"content"`
	Media          datatypes.JSONSlice[Media]  `json:"media"`
	Hashtags       string                      `gorm:"index" json:"hashtags"`
	IsRepost       bool                        `gorm:"not null;default:false;index" json:"is_repost"`
	OriginalPostID *uint                       `gorm:"index" json:"original_post_id,omitempty"`
	RepostComment  *string                     `json:"repost_comment,omitempty"`
	LikeCount      int                         `gorm:"not null;default:0" json:"like_count"`
	CommentCount   int                         `gorm:"not null;default:0" json:"comment_count"`
	RepostCount    int                         `gorm:"not null;default:0" json:"repost_count"`
	LastActivityAt time.Time                   `gorm:"not null" json:"last_activity_at"`
	PostType       PostType                    `gorm:"type:varchar(20);not null;default:'public'" json:"post_type"`
	CreatedAt      time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`

	Author User `gorm:"foreignKey:UserID" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.LastActivityAt.IsZero() {
		p.LastActivityAt = time.Now()
	}
	if p.PostType == "" {
		p.PostType = PostTypePublic
	}
	return nil
}
