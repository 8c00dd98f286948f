package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tradeidea/internal/entity"
)

type dailyReturnsRepository struct {
	db *gorm.DB
}

func NewDailyReturnsRepository(db *gorm.DB) DailyReturnsRepository {
	return &dailyReturnsRepository{db: db}
}

func (r *dailyReturnsRepository) GetSeries(ctx context.Context, symbols []string, since time.Time) (map[string][]float64, error) {
	var rows []entity.DailyReturn
	if err := r.db.WithContext(ctx).
		Where("symbol IN (?) AND date >= ?", symbols, since).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	series := make(map[string][]float64, len(symbols))
	for _, row := range rows {
		series[row.Symbol] = append(series[row.Symbol], row.Return)
	}
	return series, nil
}
