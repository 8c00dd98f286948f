package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tradeidea/internal/entity"
)

type SnapshotRepository interface {
	GetSymbols(ctx context.Context) ([]string, error)
	GetLatestTechnical(ctx context.Context, symbol string) (*entity.TechnicalSnapshot, error)
	GetLatestFundamental(ctx context.Context, symbol string) (*entity.FundamentalSnapshot, error)
}

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// GetSymbols lists every symbol with at least one technical snapshot.
func (r *snapshotRepository) GetSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := r.db.WithContext(ctx).
		Model(&entity.TechnicalSnapshot{}).
		Distinct("symbol").
		Order("symbol ASC").
		Pluck("symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// GetLatestTechnical returns the most recent technical snapshot for the
// symbol, or nil when none exists.
func (r *snapshotRepository) GetLatestTechnical(ctx context.Context, symbol string) (*entity.TechnicalSnapshot, error) {
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

// GetLatestFundamental returns the most recent fundamental snapshot for
// the symbol, or nil when none exists.
func (r *snapshotRepository) GetLatestFundamental(ctx context.Context, symbol string) (*entity.FundamentalSnapshot, error) {
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
