package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradeidea/internal/entity"
)

type RecommendationsRepository interface {
	Upsert(ctx context.Context, recommendation *entity.Recommendation) error
	GetBySymbol(ctx context.Context, symbol string) (*entity.Recommendation, error)
	GetAll(ctx context.Context) ([]entity.Recommendation, error)
}

type recommendationsRepository struct {
	db *gorm.DB
}

func NewRecommendationsRepository(db *gorm.DB) RecommendationsRepository {
	return &recommendationsRepository{db: db}
}

// Upsert writes the latest sweep output for a symbol, replacing any
// previous recommendation row.
func (r *recommendationsRepository) Upsert(ctx context.Context, recommendation *entity.Recommendation) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"results", "stale", "generated_at", "updated_at"}),
	}).Create(recommendation).Error
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

func (r *recommendationsRepository) GetAll(ctx context.Context) ([]entity.Recommendation, error) {
	var recommendations []entity.Recommendation
	if err := r.db.WithContext(ctx).Order("symbol ASC").Find(&recommendations).Error; err != nil {
		return nil, err
	}
	return recommendations, nil
}
