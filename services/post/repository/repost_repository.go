package repository

import (
	"linkup/pkg/models"

	"gorm.io/gorm"
)

type RepostRepository interface {
	// GetPlain finds the ledger entry for a plain (no comment) repost.
	GetPlain(postID, userID uint) (*models.Repost, error)
	// GetByComment finds a quote repost with this exact comment text.
	GetByComment(postID, userID uint, comment string) (*models.Repost, error)
	Create(repost *models.Repost) error
	ListByPost(postID uint) ([]*models.Repost, error)
	ListPostIDsByUser(userID uint) ([]uint, error)
	WithTx(tx *gorm.DB) RepostRepository
}

type repostRepository struct {
	db *gorm.DB
}

func NewRepostRepository(db *gorm.DB) RepostRepository {
	return &repostRepository{db: db}
}

func (r *repostRepository) WithTx(tx *gorm.DB) RepostRepository {
	return &repostRepository{db: tx}
}

func (r *repostRepository) GetPlain(postID, userID uint) (*models.Repost, error) {
	var repost models.Repost
	if err := r.db.Where("post_id = ? AND user_id = ? AND content IS NULL", postID, userID).First(&repost).Error; err != nil {
		return nil, err
	}
	return &repost, nil
}

func (r *repostRepository) GetByComment(postID, userID uint, comment string) (*models.Repost, error) {
	var repost models.Repost
	if err := r.db.Where("post_id = ? AND user_id = ? AND content = ?", postID, userID, comment).First(&repost).Error; err != nil {
		return nil, err
	}
	return &repost, nil
}

func (r *repostRepository) Create(repost *models.Repost) error {
	return r.db.Create(repost).Error
}

func (r *repostRepository) ListByPost(postID uint) ([]*models.Repost, error) {
	var reposts []*models.Repost
	err := r.db.
		Preload("User").
		Preload("User.Profile").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&reposts).Error
	if err != nil {
		return nil, err
	}
	return reposts, nil
}

func (r *repostRepository) ListPostIDsByUser(userID uint) ([]uint, error) {
	var postIDs []uint
	err := r.db.Model(&models.Repost{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &postIDs).Error
	if err != nil {
		return nil, err
	}
	return postIDs, nil
}
