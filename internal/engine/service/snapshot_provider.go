package service

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"tradeidea/internal/entity"
	"tradeidea/internal/engine/repository"
)

// SnapshotProvider memoizes latest-snapshot lookups for the duration of a
// sweep so each symbol hits the database once even when ideas, positions
// and recommendations all read it.
type SnapshotProvider struct {
	repo  repository.SnapshotRepository
	cache *gocache.Cache
}

func NewSnapshotProvider(repo repository.SnapshotRepository, ttl time.Duration) *SnapshotProvider {
	return &SnapshotProvider{
		repo:  repo,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Symbols lists every symbol with snapshot data.
func (p *SnapshotProvider) Symbols(ctx context.Context) ([]string, error) {
	return p.repo.GetSymbols(ctx)
}

// Technical returns the latest technical snapshot for the symbol, nil
// when none exists. Misses are cached too.
func (p *SnapshotProvider) Technical(ctx context.Context, symbol string) (*entity.TechnicalSnapshot, error) {
	key := "tech:" + symbol
	if cached, found := p.cache.Get(key); found {
		return cached.(*entity.TechnicalSnapshot), nil
	}
	snapshot, err := p.repo.GetLatestTechnical(ctx, symbol)
	if err != nil {
		return nil, err
	}
	p.cache.SetDefault(key, snapshot)
	return snapshot, nil
}

// Fundamental returns the latest fundamental snapshot for the symbol, nil
// when none exists.
func (p *SnapshotProvider) Fundamental(ctx context.Context, symbol string) (*entity.FundamentalSnapshot, error) {
	key := "fund:" + symbol
	if cached, found := p.cache.Get(key); found {
		return cached.(*entity.FundamentalSnapshot), nil
	}
	snapshot, err := p.repo.GetLatestFundamental(ctx, symbol)
	if err != nil {
		return nil, err
	}
	p.cache.SetDefault(key, snapshot)
	return snapshot, nil
}
