package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/datatypes"

	"tradeidea/internal/engine/config"
	"tradeidea/internal/engine/repository"
	"tradeidea/internal/entity"
	"tradeidea/internal/signal"
	"tradeidea/pkg/logger"
	"tradeidea/pkg/utils"
)

// RecommendationService generates and serves per-symbol archetype
// recommendations.
type RecommendationService interface {
	GenerateAll(ctx context.Context) error
	Generate(ctx context.Context, symbol string) (*entity.Recommendation, error)
	Get(ctx context.Context, symbol string) (*entity.Recommendation, error)
}

type recommendationService struct {
	cfg        *config.Config
	log        *logger.Logger
	snapshots  *SnapshotProvider
	recsRepo   repository.RecommendationsRepository
	localCache *gocache.Cache
}

func NewRecommendationService(cfg *config.Config, log *logger.Logger,
	snapshots *SnapshotProvider,
	recsRepo repository.RecommendationsRepository) RecommendationService {
	return &recommendationService{
		cfg:        cfg,
		log:        log,
		snapshots:  snapshots,
		recsRepo:   recsRepo,
		localCache: gocache.New(cfg.Engine.SnapshotCacheTTL, 2*cfg.Engine.SnapshotCacheTTL),
	}
}

// GenerateAll scores every known symbol with bounded concurrency. A
// failing symbol is logged and skipped so one bad row cannot sink the
// whole sweep.
func (s *recommendationService) GenerateAll(ctx context.Context) error {
	symbols, err := s.snapshots.Symbols(ctx)
	if err != nil {
		return err
	}

	s.log.Info("Generating recommendations", logger.IntField("symbols", len(symbols)))

	sem := make(chan struct{}, s.cfg.Engine.MaxConcurrentSymbols)
	var wg sync.WaitGroup
	for _, symbol := range symbols {
		symbol := symbol
		wg.Add(1)
		sem <- struct{}{}
		utils.GoSafe(func() {
			defer wg.Done()
			defer func() { <-sem }()
			if _, err := s.Generate(ctx, symbol); err != nil {
				s.log.Error("Failed to generate recommendation",
					logger.StringField("symbol", symbol), logger.ErrorField(err))
			}
		})
	}
	wg.Wait()
	return nil
}

// Generate scores one symbol and persists the result. A snapshot older
// than the configured maximum age marks the recommendation stale; it is
// still served, flagged.
func (s *recommendationService) Generate(ctx context.Context, symbol string) (*entity.Recommendation, error) {
	tech, err := s.snapshots.Technical(ctx, symbol)
	if err != nil {
		return nil, err
	}
	fund, err := s.snapshots.Fundamental(ctx, symbol)
	if err != nil {
		return nil, err
	}

	results := signal.ScoreArchetypes(tech, fund)
	payload, err := json.Marshal(results)
	if err != nil {
		return nil, err
	}

	now := utils.TimeNowIST()
	recommendation := &entity.Recommendation{
		Symbol:      symbol,
		Results:     datatypes.JSON(payload),
		Stale:       s.isStale(tech, now),
		GeneratedAt: now,
	}
	if err := s.recsRepo.Upsert(ctx, recommendation); err != nil {
		return nil, err
	}

	s.localCache.SetDefault(symbol, recommendation)
	return recommendation, nil
}

// Get serves a recommendation from the local cache, falling back to the
// database.
func (s *recommendationService) Get(ctx context.Context, symbol string) (*entity.Recommendation, error) {
	if cached, found := s.localCache.Get(symbol); found {
		return cached.(*entity.Recommendation), nil
	}

	recommendation, err := s.recsRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if recommendation != nil {
		s.localCache.SetDefault(symbol, recommendation)
	}
	return recommendation, nil
}

func (s *recommendationService) isStale(tech *entity.TechnicalSnapshot, now time.Time) bool {
	if tech == nil {
		return true
	}
	return now.Sub(tech.UpdatedAt) > s.cfg.Engine.SnapshotMaxAge
}
