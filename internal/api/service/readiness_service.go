package service

import (
	"context"
	"fmt"

	"tradeidea/internal/api/dto"
	"tradeidea/internal/api/repository"
	"tradeidea/internal/signal"
	"tradeidea/pkg/logger"
)

// ReadinessService classifies an idea's entry readiness from its latest
// snapshots.
type ReadinessService interface {
	ForIdea(ctx context.Context, ideaID uint) (*dto.ReadinessResponse, error)
}

type readinessService struct {
	log       *logger.Logger
	ideasRepo repository.IdeasRepository
	snapsRepo repository.SnapshotsRepository
}

func NewReadinessService(log *logger.Logger,
	ideasRepo repository.IdeasRepository,
	snapsRepo repository.SnapshotsRepository) ReadinessService {
	return &readinessService{
		log:       log,
		ideasRepo: ideasRepo,
		snapsRepo: snapsRepo,
	}
}

// ForIdea returns nil when the idea does not exist. Missing snapshots are
// not an error: the classifier degrades to WAITING.
func (s *readinessService) ForIdea(ctx context.Context, ideaID uint) (*dto.ReadinessResponse, error) {
	idea, err := s.ideasRepo.GetByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea == nil {
		return nil, nil
	}
	if idea.EntryPrice <= 0 {
		return nil, fmt.Errorf("idea %d has no entry price", ideaID)
	}

	tech, err := s.snapsRepo.GetLatestTechnical(ctx, idea.Symbol)
	if err != nil {
		return nil, err
	}
	fund, err := s.snapsRepo.GetLatestFundamental(ctx, idea.Symbol)
	if err != nil {
		return nil, err
	}

	badge := signal.ClassifyReadiness(&idea.EntryPrice, tech, fund)

	response := &dto.ReadinessResponse{
		IdeaID:     idea.ID,
		Symbol:     idea.Symbol,
		EntryPrice: idea.EntryPrice,
		Badge:      badge,
	}
	if tech != nil {
		response.CurrentPrice = tech.LastPrice
	}
	return response, nil
}
