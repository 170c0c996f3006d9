package repository

import (
	"linkup/pkg/models"

	"gorm.io/gorm"
)

type LikeRepository interface {
	Get(postID, userID uint) (*models.Like, error)
	Create(like *models.Like) error
	Delete(postID, userID uint) error
	ListByPost(postID uint) ([]*models.Like, error)
	ListPostIDsByUser(userID uint) ([]uint, error)
	WithTx(tx *gorm.DB) LikeRepository
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) WithTx(tx *gorm.DB) LikeRepository {
	return &likeRepository{db: tx}
}

func (r *likeRepository) Get(postID, userID uint) (*models.Like, error) {
	var like models.Like
	if err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&like).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) Create(like *models.Like) error {
	return r.db.Create(like).Error
}

func (r *likeRepository) Delete(postID, userID uint) error {
	return r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{}).Error
}

func (r *likeRepository) ListByPost(postID uint) ([]*models.Like, error) {
	var likes []*models.Like
	err := r.db.
		Preload("User").
		Preload("User.Profile").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}

func (r *likeRepository) ListPostIDsByUser(userID uint) ([]uint, error) {
	var postIDs []uint
	err := r.db.Model(&models.Like{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &postIDs).Error
	if err != nil {
		return nil, err
	}
	return postIDs, nil
}
