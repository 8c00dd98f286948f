package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeidea/internal/engine/config"
	"tradeidea/internal/entity"
	"tradeidea/pkg/logger"
)

type fakeRecsRepo struct {
	mu       sync.Mutex
	upserted map[string]*entity.Recommendation
}

func (f *fakeRecsRepo) Upsert(_ context.Context, recommendation *entity.Recommendation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upserted == nil {
		f.upserted = make(map[string]*entity.Recommendation)
	}
	f.upserted[recommendation.Symbol] = recommendation
	return nil
}

func (f *fakeRecsRepo) GetBySymbol(_ context.Context, symbol string) (*entity.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upserted[symbol], nil
}

func (f *fakeRecsRepo) GetAll(context.Context) ([]entity.Recommendation, error) {
	return nil, nil
}

func newRecommendationFixture(t *testing.T, snaps *fakeSnapshotRepo) (RecommendationService, *fakeRecsRepo) {
	t.Helper()

	log, err := logger.New("error", "console")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Engine.MaxConcurrentSymbols = 2
	cfg.Engine.SnapshotMaxAge = 72 * time.Hour
	cfg.Engine.SnapshotCacheTTL = time.Minute

	recs := &fakeRecsRepo{}
	svc := NewRecommendationService(cfg, log, NewSnapshotProvider(snaps, cfg.Engine.SnapshotCacheTTL), recs)
	return svc, recs
}

func TestGenerateFlagsOldSnapshotStale(t *testing.T) {
	snaps := &fakeSnapshotRepo{tech: map[string]*entity.TechnicalSnapshot{
		"INFY": {Symbol: "INFY", LastPrice: price(250), UpdatedAt: time.Now().Add(-80 * time.Hour)},
	}}
	svc, recs := newRecommendationFixture(t, snaps)

	recommendation, err := svc.Generate(context.Background(), "INFY")
	require.NoError(t, err)
	require.NotNil(t, recommendation)

	assert.True(t, recommendation.Stale)
	assert.NotEmpty(t, recommendation.Results)
	require.Contains(t, recs.upserted, "INFY")
	assert.True(t, recs.upserted["INFY"].Stale)
}

func TestGenerateFreshSnapshotIsNotStale(t *testing.T) {
	snaps := &fakeSnapshotRepo{tech: map[string]*entity.TechnicalSnapshot{
		"INFY": {Symbol: "INFY", LastPrice: price(250), UpdatedAt: time.Now().Add(-time.Hour)},
	}}
	svc, _ := newRecommendationFixture(t, snaps)

	recommendation, err := svc.Generate(context.Background(), "INFY")
	require.NoError(t, err)
	require.NotNil(t, recommendation)

	assert.False(t, recommendation.Stale)
}

func TestGenerateMissingTechnicalSnapshotIsStale(t *testing.T) {
	snaps := &fakeSnapshotRepo{fund: map[string]*entity.FundamentalSnapshot{
		"INFY": {Symbol: "INFY", UpdatedAt: time.Now()},
	}}
	svc, _ := newRecommendationFixture(t, snaps)

	recommendation, err := svc.Generate(context.Background(), "INFY")
	require.NoError(t, err)
	require.NotNil(t, recommendation)

	assert.True(t, recommendation.Stale)
}
