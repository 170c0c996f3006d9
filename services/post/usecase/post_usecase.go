package usecase

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"linkup/pkg/database"
	"linkup/pkg/logger"
	"linkup/pkg/models"
	"linkup/services/post/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxContentLength = 3000

// Uploader is the blob-store collaborator. pkg/s3.Client satisfies it.
type Uploader interface {
	UploadFile(key string, file io.Reader, contentType string) (string, error)
}

type CreatePostInput struct {
	Content        string
	Hashtags       string
	PostType       string
	OriginalPostID *uint
	RepostComment  *string
}

type RepostType string

const (
	RepostTypeSimple      RepostType = "simple"
	RepostTypeWithThought RepostType = "with_thought"
)

type RepostResult struct {
	Type          RepostType `json:"type"`
	RepostCount   int        `json:"repost_count"`
	RepostID      uint       `json:"repost_id"`
	RepostComment *string    `json:"repost_comment,omitempty"`
}

// FeedPost is a root post annotated with author identity and the viewer's
// own like/repost state.
type FeedPost struct {
	models.Post
	AuthorName            string `json:"author_name"`
	AuthorEmail           string `json:"author_email"`
	LikedByCurrentUser    bool   `json:"liked_by_current_user"`
	RepostedByCurrentUser bool   `json:"reposted_by_current_user"`
}

type LikeEntry struct {
	UserID    uint      `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentEntry struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type RepostEntry struct {
	UserID    uint      `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type OriginalPostView struct {
	ID          uint                       `json:"id"`
	Content     string                     `json:"content"`
	Media       datatypes.JSONSlice[models.Media] `json:"media"`
	AuthorName  string                     `json:"author_name"`
	AuthorEmail string                     `json:"author_email"`
}

type RepostListing struct {
	OriginalPost *OriginalPostView `json:"original_post"`
	Reposts      []*RepostEntry    `json:"reposts"`
}

type PostUseCase interface {
	CreatePost(userID uint, input CreatePostInput, files []*multipart.FileHeader) (*models.Post, error)
	ToggleLike(postID, userID uint) (liked bool, likeCount int, err error)
	AddComment(postID, userID uint, content string) (*models.Comment, error)
	Repost(postID, userID uint, comment string) (*RepostResult, error)
	GetFeed(viewerID uint, page, limit int) ([]*FeedPost, error)
	GetPostLikes(postID uint) ([]*LikeEntry, error)
	GetPostComments(postID uint) ([]*CommentEntry, error)
	GetPostReposts(postID uint) (*RepostListing, error)
}

type postUseCase struct {
	db          *gorm.DB
	postRepo    repository.PostRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
	repostRepo  repository.RepostRepository
	uploader    Uploader
	logger      *logger.Logger
}

func NewPostUseCase(
	db *gorm.DB,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
	repostRepo repository.RepostRepository,
	uploader Uploader,
	log *logger.Logger,
) PostUseCase {
	return &postUseCase{
		db:          db,
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		repostRepo:  repostRepo,
		uploader:    uploader,
		logger:      log,
	}
}

func (uc *postUseCase) CreatePost(userID uint, input CreatePostInput, files []*multipart.FileHeader) (*models.Post, error) {
	content := strings.TrimSpace(input.Content)
	if len(content) > maxContentLength {
		return nil, ErrContentTooLong
	}

	var media []models.Media
	for _, file := range files {
		url, mediaType, err := uc.uploadMedia(userID, file)
		if err != nil {
			// Upload failure aborts creation entirely; no post row is written.
			uc.logger.Error("Failed to upload media: %v", err)
			return nil, fmt.Errorf("failed to upload media: %w", err)
		}
		media = append(media, models.Media{URL: url, Type: mediaType})
	}

	if content == "" && len(media) == 0 && input.OriginalPostID == nil {
		return nil, ErrEmptyPost
	}

	post := &models.Post{
		UserID:         userID,
		Content:        content,
		Media:          datatypes.NewJSONSlice(media),
		Hashtags:       strings.TrimSpace(input.Hashtags),
		OriginalPostID: input.OriginalPostID,
		RepostComment:  input.RepostComment,
		PostType:       models.PostType(input.PostType),
	}

	if err := uc.postRepo.Create(post); err != nil {
		uc.logger.Error("Failed to create post: %v", err)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

func (uc *postUseCase) uploadMedia(userID uint, file *multipart.FileHeader) (string, models.MediaType, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open file %s: %w", file.Filename, err)
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("posts/%d/%s%s", userID, uuid.New().String(), filepath.Ext(file.Filename))
	url, err := uc.uploader.UploadFile(key, src, contentType)
	if err != nil {
		return "", "", err
	}

	return url, models.MediaTypeFromContentType(contentType), nil
}

func (uc *postUseCase) ToggleLike(postID, userID uint) (bool, int, error) {
	var liked bool
	var likeCount int

	err := database.WithTransaction(uc.db, func(tx *gorm.DB) error {
		posts := uc.postRepo.WithTx(tx)
		likes := uc.likeRepo.WithTx(tx)

		if _, err := posts.GetByIDForUpdate(postID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to load post: %w", err)
		}

		_, err := likes.Get(postID, userID)
		switch {
		case err == nil:
			if err := likes.Delete(postID, userID); err != nil {
				return fmt.Errorf("failed to delete like: %w", err)
			}
			if err := posts.DecrementLikeCount(postID); err != nil {
				return fmt.Errorf("failed to decrement like count: %w", err)
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := likes.Create(&models.Like{PostID: postID, UserID: userID}); err != nil {
				return fmt.Errorf("failed to create like: %w", err)
			}
			if err := posts.IncrementLikeCount(postID); err != nil {
				return fmt.Errorf("failed to increment like count: %w", err)
			}
			liked = true
		default:
			return fmt.Errorf("failed to check like status: %w", err)
		}

		post, err := posts.GetByID(postID)
		if err != nil {
			return fmt.Errorf("failed to reload post: %w", err)
		}
		likeCount = post.LikeCount
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	return liked, likeCount, nil
}

func (uc *postUseCase) AddComment(postID, userID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	comment := &models.Comment{PostID: postID, UserID: userID, Content: content}

	err := database.WithTransaction(uc.db, func(tx *gorm.DB) error {
		posts := uc.postRepo.WithTx(tx)
		comments := uc.commentRepo.WithTx(tx)

		if _, err := posts.GetByIDForUpdate(postID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to load post: %w", err)
		}

		if err := comments.Create(comment); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		if err := posts.IncrementCommentCount(postID); err != nil {
			return fmt.Errorf("failed to increment comment count: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (uc *postUseCase) Repost(postID, userID uint, comment string) (*RepostResult, error) {
	comment = strings.TrimSpace(comment)
	withThought := comment != ""

	var result RepostResult

	err := database.WithTransaction(uc.db, func(tx *gorm.DB) error {
		posts := uc.postRepo.WithTx(tx)
		reposts := uc.repostRepo.WithTx(tx)

		original, err := posts.GetByIDForUpdate(postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to load post: %w", err)
		}

		var ledgerComment *string
		if withThought {
			ledgerComment = &comment
			if _, err := reposts.GetByComment(postID, userID, comment); err == nil {
				return ErrDuplicateThought
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check repost ledger: %w", err)
			}
		} else {
			if _, err := reposts.GetPlain(postID, userID); err == nil {
				return ErrAlreadyReposted
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check repost ledger: %w", err)
			}
		}

		// Snapshot the original at repost time; later edits to the original
		// do not propagate.
		repostPost := &models.Post{
			UserID:         userID,
			Content:        original.Content,
			Media:          original.Media,
			Hashtags:       original.Hashtags,
			PostType:       original.PostType,
			IsRepost:       true,
			OriginalPostID: &original.ID,
			RepostComment:  ledgerComment,
		}
		if err := posts.Create(repostPost); err != nil {
			return fmt.Errorf("failed to create repost: %w", err)
		}

		if err := reposts.Create(&models.Repost{PostID: postID, UserID: userID, Content: ledgerComment}); err != nil {
			return fmt.Errorf("failed to create repost ledger entry: %w", err)
		}

		if err := posts.IncrementRepostCount(postID); err != nil {
			return fmt.Errorf("failed to increment repost count: %w", err)
		}

		updated, err := posts.GetByID(postID)
		if err != nil {
			return fmt.Errorf("failed to reload post: %w", err)
		}

		result = RepostResult{
			Type:          RepostTypeSimple,
			RepostCount:   updated.RepostCount,
			RepostID:      repostPost.ID,
			RepostComment: ledgerComment,
		}
		if withThought {
			result.Type = RepostTypeWithThought
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (uc *postUseCase) GetFeed(viewerID uint, page, limit int) ([]*FeedPost, error) {
	offset := (page - 1) * limit

	posts, err := uc.postRepo.ListRoot(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	// The viewer's full like/repost history is loaded per call. Linear in the
	// viewer's total engagement, so fine at small scale only.
	likedIDs, err := uc.likeRepo.ListPostIDsByUser(viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer likes: %w", err)
	}
	repostedIDs, err := uc.repostRepo.ListPostIDsByUser(viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer reposts: %w", err)
	}

	liked := make(map[uint]struct{}, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = struct{}{}
	}
	reposted := make(map[uint]struct{}, len(repostedIDs))
	for _, id := range repostedIDs {
		reposted[id] = struct{}{}
	}

	feed := make([]*FeedPost, 0, len(posts))
	for _, post := range posts {
		entry := &FeedPost{Post: *post, AuthorEmail: post.Author.Email}
		if post.Author.Profile != nil {
			entry.AuthorName = post.Author.Profile.Name
		}
		if _, ok := liked[post.ID]; ok {
			entry.LikedByCurrentUser = true
		}
		if _, ok := reposted[post.ID]; ok {
			entry.RepostedByCurrentUser = true
		}
		feed = append(feed, entry)
	}

	return feed, nil
}

func (uc *postUseCase) GetPostLikes(postID uint) ([]*LikeEntry, error) {
	if err := uc.ensurePostExists(postID); err != nil {
		return nil, err
	}

	likes, err := uc.likeRepo.ListByPost(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}

	entries := make([]*LikeEntry, 0, len(likes))
	for _, like := range likes {
		entry := &LikeEntry{UserID: like.UserID, Email: like.User.Email, CreatedAt: like.CreatedAt}
		if like.User.Profile != nil {
			entry.Name = like.User.Profile.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (uc *postUseCase) GetPostComments(postID uint) ([]*CommentEntry, error) {
	if err := uc.ensurePostExists(postID); err != nil {
		return nil, err
	}

	comments, err := uc.commentRepo.ListByPost(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	entries := make([]*CommentEntry, 0, len(comments))
	for _, comment := range comments {
		entry := &CommentEntry{
			ID:        comment.ID,
			UserID:    comment.UserID,
			Email:     comment.User.Email,
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
		}
		if comment.User.Profile != nil {
			entry.Name = comment.User.Profile.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (uc *postUseCase) GetPostReposts(postID uint) (*RepostListing, error) {
	post, err := uc.postRepo.GetWithAuthor(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	reposts, err := uc.repostRepo.ListByPost(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reposts: %w", err)
	}

	original := &OriginalPostView{
		ID:          post.ID,
		Content:     post.Content,
		Media:       post.Media,
		AuthorEmail: post.Author.Email,
	}
	if post.Author.Profile != nil {
		original.AuthorName = post.Author.Profile.Name
	}

	entries := make([]*RepostEntry, 0, len(reposts))
	for _, repost := range reposts {
		entry := &RepostEntry{
			UserID:    repost.UserID,
			Email:     repost.User.Email,
			Comment:   repost.Content,
			CreatedAt: repost.CreatedAt,
		}
		if repost.User.Profile != nil {
			entry.Name = repost.User.Profile.Name
		}
		entries = append(entries, entry)
	}

	return &RepostListing{OriginalPost: original, Reposts: entries}, nil
}

func (uc *postUseCase) ensurePostExists(postID uint) error {
	if _, err := uc.postRepo.GetByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to load post: %w", err)
	}
	return nil
}
