package models

import (
	"time"
)

// Repost is the ledger entry behind the de-duplication rules: at most one
// plain repost (nil Content) per (post, user), and at most one quote repost
// per (post, user, exact comment). The feed-visible repost is a separate
// Post row snapshotting the original.
type Repost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_reposts_post_user_content" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_reposts_post_user_content" json:"user_id"`
	Content   *string   `gorm:"uniqueIndex:idx_post_reposts_post_user_content" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}

func (Repost) TableName() string {
	return "post_reposts"
}
