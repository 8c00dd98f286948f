package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tradeidea/internal/entity"
)

type snapshotsRepository struct {
	db *gorm.DB
}

func NewSnapshotsRepository(db *gorm.DB) SnapshotsRepository {
	return &snapshotsRepository{db: db}
}

func (r *snapshotsRepository) GetLatestTechnical(ctx context.Context, symbol string) (*entity.TechnicalSnapshot, error) {
	var snapshot entity.TechnicalSnapshot
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("updated_at DESC").
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *snapshotsRepository) GetLatestFundamental(ctx context.Context, symbol string) (*entity.FundamentalSnapshot, error) {
	var snapshot entity.FundamentalSnapshot
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("updated_at DESC").
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
