package repository

import (
	"context"

	"gorm.io/gorm"

	"tradeidea/internal/entity"
)

type positionsRepository struct {
	db *gorm.DB
}

func NewPositionsRepository(db *gorm.DB) PositionsRepository {
	return &positionsRepository{db: db}
}

func (r *positionsRepository) GetOpenByUser(ctx context.Context, userID uint) ([]entity.Position, error) {
	var positions []entity.Position
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, entity.PositionStatusOpen).
		Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}
