package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tradeidea/internal/api/config"
	"tradeidea/internal/api/dto"
	"tradeidea/internal/api/repository"
	"tradeidea/internal/signal"
	"tradeidea/pkg/logger"
	"tradeidea/pkg/utils"
)

// RiskService serves per-user portfolio risk reports and position
// evaluations.
type RiskService interface {
	ReportForUser(ctx context.Context, userID uint) (*signal.RiskReport, error)
	EvaluatePositions(ctx context.Context, userID uint) ([]dto.PositionEvaluationResponse, error)
}

type riskService struct {
	cfg           *config.Config
	log           *logger.Logger
	positionsRepo repository.PositionsRepository
	snapsRepo     repository.SnapshotsRepository
	returnsRepo   repository.DailyReturnsRepository
}

func NewRiskService(cfg *config.Config, log *logger.Logger,
	positionsRepo repository.PositionsRepository,
	snapsRepo repository.SnapshotsRepository,
	returnsRepo repository.DailyReturnsRepository) RiskService {
	return &riskService{
		cfg:           cfg,
		log:           log,
		positionsRepo: positionsRepo,
		snapsRepo:     snapsRepo,
		returnsRepo:   returnsRepo,
	}
}

func (s *riskService) ReportForUser(ctx context.Context, userID uint) (*signal.RiskReport, error) {
	positions, err := s.positionsRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	exposures := make([]signal.PositionExposure, 0, len(positions))
	symbolSet := make(map[string]struct{})
	for _, pos := range positions {
		exposures = append(exposures, signal.PositionExposure{
			Symbol:     pos.Symbol,
			TotalValue: pos.TotalValue(),
		})
		symbolSet[pos.Symbol] = struct{}{}
	}
	symbols := make([]string, 0, len(symbolSet))
	for sym := range symbolSet {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	meta, missing := s.loadMeta(ctx, symbols)

	var returnsBySymbol map[string][]float64
	var benchmarkReturns []float64
	if len(symbols) > 0 {
		since := utils.TimeNowIST().AddDate(0, 0, -s.cfg.Risk.ReturnLookbackDays)
		series, err := s.returnsRepo.GetSeries(ctx, append(append([]string{}, symbols...), s.cfg.Risk.BenchmarkSymbol), since)
		if err != nil {
			s.log.Error("Failed to load return series", logger.ErrorField(err))
		} else {
			benchmarkReturns = series[s.cfg.Risk.BenchmarkSymbol]
			delete(series, s.cfg.Risk.BenchmarkSymbol)
			returnsBySymbol = series
		}
	}

	report, err := signal.AnalyzeRisk(exposures, meta, returnsBySymbol, benchmarkReturns, s.cfg.Risk.RiskFreeRatePct)
	if err != nil {
		return nil, err
	}
	for _, sym := range missing {
		report.Warnings = append(report.Warnings, fmt.Sprintf("metadata unavailable for %s", sym))
	}
	if len(benchmarkReturns) == 0 {
		report.Warnings = append(report.Warnings, "benchmark return series unavailable")
	}
	return report, nil
}

// loadMeta fetches fundamental metadata per symbol with bounded
// concurrency. A failed or empty lookup leaves the symbol out of the meta
// map; the analytics then file it under the Unknown buckets.
func (s *riskService) loadMeta(ctx context.Context, symbols []string) (map[string]signal.SymbolMeta, []string) {
	var (
		mu      sync.Mutex
		meta    = make(map[string]signal.SymbolMeta, len(symbols))
		missing []string
		wg      sync.WaitGroup
	)
	sem := make(chan struct{}, s.cfg.Risk.MaxConcurrentSymbols)
	for _, symbol := range symbols {
		symbol := symbol
		wg.Add(1)
		sem <- struct{}{}
		utils.GoSafe(func() {
			defer wg.Done()
			defer func() { <-sem }()

			fund, err := s.snapsRepo.GetLatestFundamental(ctx, symbol)
			if err != nil {
				s.log.Error("Failed to load fundamental snapshot",
					logger.StringField("symbol", symbol), logger.ErrorField(err))
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil || fund == nil {
				missing = append(missing, symbol)
				return
			}
			meta[symbol] = signal.SymbolMeta{
				Sector:    fund.Sector,
				MarketCap: fund.MarketCap,
				Beta:      fund.Beta,
			}
		})
	}
	wg.Wait()
	sort.Strings(missing)
	return meta, missing
}

// EvaluatePositions runs the exit/accumulate evaluator over every open
// position of the user.
func (s *riskService) EvaluatePositions(ctx context.Context, userID uint) ([]dto.PositionEvaluationResponse, error) {
	positions, err := s.positionsRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PositionEvaluationResponse, 0, len(positions))
	for i := range positions {
		pos := positions[i]
		tech, err := s.snapsRepo.GetLatestTechnical(ctx, pos.Symbol)
		if err != nil {
			s.log.Error("Failed to load technical snapshot",
				logger.StringField("symbol", pos.Symbol), logger.ErrorField(err))
			continue
		}
		eval := signal.EvaluateExit(&pos, tech)
		out = append(out, dto.PositionEvaluationResponse{
			PositionID: pos.ID,
			Symbol:     pos.Symbol,
			Action:     eval.Action,
			Reasons:    eval.Reasons,
		})
	}
	return out, nil
}
