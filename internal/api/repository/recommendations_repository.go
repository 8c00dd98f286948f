package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tradeidea/internal/entity"
)

type recommendationsRepository struct {
	db *gorm.DB
}

func NewRecommendationsRepository(db *gorm.DB) RecommendationsRepository {
	return &recommendationsRepository{db: db}
}

func (r *recommendationsRepository) GetAll(ctx context.Context) ([]entity.Recommendation, error) {
	var recommendations []entity.Recommendation
	if err := r.db.WithContext(ctx).Order("symbol ASC").Find(&recommendations).Error; err != nil {
		return nil, err
	}
	return recommendations, nil
}

func (r *recommendationsRepository) GetBySymbol(ctx context.Context, symbol string) (*entity.Recommendation, error) {
	var recommendation entity.Recommendation
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&recommendation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recommendation, nil
}
