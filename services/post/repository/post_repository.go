package repository

import (
	"linkup/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id uint) (*models.Post, error)
	// GetByIDForUpdate locks the post row for the rest of the transaction so
	// concurrent counter updates and de-duplication checks serialize.
	GetByIDForUpdate(id uint) (*models.Post, error)
	GetWithAuthor(id uint) (*models.Post, error)
	ListRoot(limit, offset int) ([]*models.Post, error)
	IncrementLikeCount(id uint) error
	DecrementLikeCount(id uint) error
	IncrementCommentCount(id uint) error
	IncrementRepostCount(id uint) error
	WithTx(tx *gorm.DB) PostRepository
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	return &postRepository{db: tx}
}

func (r *postRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByIDForUpdate(id uint) (*models.Post, error) {
	query := r.db
	// SQLite (used in tests) has no FOR UPDATE; its single-writer lock
	// already serializes the transaction.
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var post models.Post
	if err := query.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetWithAuthor(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.
		Preload("Author").
		Preload("Author.Profile").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListRoot(limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.
		Preload("Author").
		Preload("Author.Profile").
		Where("is_repost = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) IncrementLikeCount(id uint) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
}

func (r *postRepository) DecrementLikeCount(id uint) error {
	// Floored at zero to guard against counter drift.
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).Error
}

func (r *postRepository) IncrementCommentCount(id uint) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
}

func (r *postRepository) IncrementRepostCount(id uint) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"repost_count":     gorm.Expr("repost_count + 1"),
			"last_activity_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}
