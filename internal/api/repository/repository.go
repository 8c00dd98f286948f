package repository

import (
	"context"
	"time"

	"tradeidea/internal/entity"
)

// Read-side data access for the API service. The engine service owns the
// writes; these interfaces only query.

type RecommendationsRepository interface {
	GetAll(ctx context.Context) ([]entity.Recommendation, error)
	GetBySymbol(ctx context.Context, symbol string) (*entity.Recommendation, error)
}

type IdeasRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Idea, error)
}

type PositionsRepository interface {
	GetOpenByUser(ctx context.Context, userID uint) ([]entity.Position, error)
}

type SnapshotsRepository interface {
	GetLatestTechnical(ctx context.Context, symbol string) (*entity.TechnicalSnapshot, error)
	GetLatestFundamental(ctx context.Context, symbol string) (*entity.FundamentalSnapshot, error)
}

type DailyReturnsRepository interface {
	GetSeries(ctx context.Context, symbols []string, since time.Time) (map[string][]float64, error)
}
