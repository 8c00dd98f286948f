package service

import (
	"context"
	"encoding/json"

	gocache "github.com/patrickmn/go-cache"

	"tradeidea/internal/api/config"
	"tradeidea/internal/api/dto"
	"tradeidea/internal/api/repository"
	"tradeidea/internal/entity"
	"tradeidea/pkg/logger"
)

// RecommendationService serves the persisted archetype recommendations.
type RecommendationService interface {
	GetAll(ctx context.Context) ([]dto.RecommendationResponse, error)
	GetBySymbol(ctx context.Context, symbol string) (*dto.RecommendationResponse, error)
}

type recommendationService struct {
	log        *logger.Logger
	recsRepo   repository.RecommendationsRepository
	localCache *gocache.Cache
}

func NewRecommendationService(cfg *config.Config, log *logger.Logger,
	recsRepo repository.RecommendationsRepository) RecommendationService {
	return &recommendationService{
		log:        log,
		recsRepo:   recsRepo,
		localCache: gocache.New(cfg.Risk.SnapshotCacheTTL, 2*cfg.Risk.SnapshotCacheTTL),
	}
}

func (s *recommendationService) GetAll(ctx context.Context) ([]dto.RecommendationResponse, error) {
	recommendations, err := s.recsRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.RecommendationResponse, 0, len(recommendations))
	for _, rec := range recommendations {
		out = append(out, toRecommendationResponse(rec))
	}
	return out, nil
}

func (s *recommendationService) GetBySymbol(ctx context.Context, symbol string) (*dto.RecommendationResponse, error) {
	if cached, found := s.localCache.Get(symbol); found {
		response := cached.(dto.RecommendationResponse)
		return &response, nil
	}

	recommendation, err := s.recsRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if recommendation == nil {
		return nil, nil
	}

	response := toRecommendationResponse(*recommendation)
	s.localCache.SetDefault(symbol, response)
	return &response, nil
}

func toRecommendationResponse(rec entity.Recommendation) dto.RecommendationResponse {
	return dto.RecommendationResponse{
		Symbol:      rec.Symbol,
		Results:     json.RawMessage(rec.Results),
		Stale:       rec.Stale,
		GeneratedAt: rec.GeneratedAt,
	}
}
