package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tradeidea/internal/entity"
	"tradeidea/internal/engine/dto"
)

type IdeasRepository interface {
	Get(ctx context.Context, param dto.GetIdeasParam) ([]entity.Idea, error)
	UpdateStatus(ctx context.Context, id uint, from, to entity.IdeaStatus) error
	UpdateCurrentPrice(ctx context.Context, id uint, price float64) error
}

type ideasRepository struct {
	db *gorm.DB
}

func NewIdeasRepository(db *gorm.DB) IdeasRepository {
	return &ideasRepository{db: db}
}

func (r *ideasRepository) Get(ctx context.Context, param dto.GetIdeasParam) ([]entity.Idea, error) {
	var ideas []entity.Idea

	qFilter := []string{}
	qFilterParam := []interface{}{}

	if len(param.IDs) > 0 {
		qFilter = append(qFilter, "id IN (?)")
		qFilterParam = append(qFilterParam, param.IDs)
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

	if err := r.db.WithContext(ctx).Preload("Owner").Preload("Followers").Where(strings.Join(qFilter, " AND "), qFilterParam...).Find(&ideas).Error; err != nil {
		return nil, err
	}

	return ideas, nil
}

// UpdateStatus moves an idea along its one-way lifecycle. The update is
// guarded twice: the transition table rejects backward moves, and the
// WHERE clause on the current status makes the write a no-op when a
// concurrent sweep already advanced the idea.
func (r *ideasRepository) UpdateStatus(ctx context.Context, id uint, from, to entity.IdeaStatus) error {
	if !entity.CanTransitionIdeaStatus(from, to) {
		return fmt.Errorf("invalid idea status transition %s -> %s", from, to)
	}

	result := r.db.WithContext(ctx).
		Model(&entity.Idea{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("idea %d no longer in status %s", id, from)
	}
	return nil
}

func (r *ideasRepository) UpdateCurrentPrice(ctx context.Context, id uint, price float64) error {
	return r.db.WithContext(ctx).
		Model(&entity.Idea{}).
		Where("id = ?", id).
		Update("current_price", price).Error
}
