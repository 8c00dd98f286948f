package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tradeidea/internal/entity"
	"tradeidea/internal/engine/dto"
)

type PositionsRepository interface {
	Get(ctx context.Context, param dto.GetPositionsParam) ([]entity.Position, error)
	UpdateCurrentPrice(ctx context.Context, id uint, price float64) error
}

type positionsRepository struct {
	db *gorm.DB
}

func NewPositionsRepository(db *gorm.DB) PositionsRepository {
	return &positionsRepository{db: db}
}

func (r *positionsRepository) Get(ctx context.Context, param dto.GetPositionsParam) ([]entity.Position, error) {
	var positions []entity.Position

	qFilter := []string{}
	qFilterParam := []interface{}{}

	if len(param.IDs) > 0 {
		qFilter = append(qFilter, "id IN (?)")
		qFilterParam = append(qFilterParam, param.IDs)
	}

	if len(param.UserIDs) > 0 {
		qFilter = append(qFilter, "user_id IN (?)")
		qFilterParam = append(qFilterParam, param.UserIDs)
	}

	if len(param.Symbols) > 0 {
		qFilter = append(qFilter, "symbol IN (?)")
		qFilterParam = append(qFilterParam, param.Symbols)
	}

	if param.Status != nil {
		qFilter = append(qFilter, "status = ?")
		qFilterParam = append(qFilterParam, *param.Status)
	}

	if len(qFilter) == 0 {
		return nil, fmt.Errorf("no filter provided")
	}

	if err := r.db.WithContext(ctx).Preload("User").Where(strings.Join(qFilter, " AND "), qFilterParam...).Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (r *positionsRepository) UpdateCurrentPrice(ctx context.Context, id uint, price float64) error {
	return r.db.WithContext(ctx).
		Model(&entity.Position{}).
		Where("id = ?", id).
		Update("current_price", price).Error
}
