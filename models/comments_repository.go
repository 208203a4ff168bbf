package models

import "gorm.io/gorm"

type CommentsRepository struct {
	db *gorm.DB
}

func NewCommentsRepository(db *gorm.DB) *CommentsRepository {
	return &CommentsRepository{db: db}
}

func (r *CommentsRepository) CreateComment(comment *Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentsRepository) GetByProduct(productID uint) ([]Comment, error) {
	var comments []Comment
	if err := r.db.Where("product_id = ?", productID).Order("id asc").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
