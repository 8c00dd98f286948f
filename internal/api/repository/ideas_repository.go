package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tradeidea/internal/entity"
)

type ideasRepository struct {
	db *gorm.DB
}

func NewIdeasRepository(db *gorm.DB) IdeasRepository {
	return &ideasRepository{db: db}
}

func (r *ideasRepository) GetByID(ctx context.Context, id uint) (*entity.Idea, error) {
	var idea entity.Idea
	err := r.db.WithContext(ctx).Preload("Owner").First(&idea, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &idea, nil
}
