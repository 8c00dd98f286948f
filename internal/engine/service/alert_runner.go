package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"tradeidea/internal/engine/config"
	"tradeidea/internal/engine/dto"
	"tradeidea/internal/engine/repository"
	"tradeidea/internal/entity"
	"tradeidea/internal/signal"
	"tradeidea/pkg/logger"
	"tradeidea/pkg/telegram"
	"tradeidea/pkg/utils"
)

// AlertRunnerService runs the daily alert sweep: price alerts for ideas
// and open positions, the cooking to active idea transition, and the exit
// and accumulate digest.
type AlertRunnerService interface {
	RunDailySweep(ctx context.Context) error
}

type alertRunnerService struct {
	cfg           *config.Config
	log           *logger.Logger
	snapshots     *SnapshotProvider
	ideasRepo     repository.IdeasRepository
	positionsRepo repository.PositionsRepository
	alertLogRepo  repository.AlertLogRepository
	telegramBot   telegram.Notifier
}

func NewAlertRunnerService(cfg *config.Config, log *logger.Logger,
	snapshots *SnapshotProvider,
	ideasRepo repository.IdeasRepository,
	positionsRepo repository.PositionsRepository,
	alertLogRepo repository.AlertLogRepository,
	telegramBot telegram.Notifier) AlertRunnerService {
	return &alertRunnerService{
		cfg:           cfg,
		log:           log,
		snapshots:     snapshots,
		ideasRepo:     ideasRepo,
		positionsRepo: positionsRepo,
		alertLogRepo:  alertLogRepo,
		telegramBot:   telegramBot,
	}
}

func (s *alertRunnerService) RunDailySweep(ctx context.Context) error {
	s.log.Info("Starting daily alert sweep")

	if err := s.sweepIdeas(ctx); err != nil {
		s.log.Error("Idea sweep failed", logger.ErrorField(err))
		return err
	}

	digest, err := s.sweepPositions(ctx)
	if err != nil {
		s.log.Error("Position sweep failed", logger.ErrorField(err))
		return err
	}

	if len(digest) > 0 {
		if err := s.telegramBot.SendMessage(formatDigest(digest)); err != nil {
			s.log.Error("Failed to send daily digest", logger.ErrorField(err))
		}
	}

	s.log.Info("Daily alert sweep finished")
	return nil
}

// sweepIdeas checks every cooking idea against its entry price and moves
// the ones that reached it to active.
func (s *alertRunnerService) sweepIdeas(ctx context.Context) error {
	ideas, err := s.ideasRepo.Get(ctx, dto.GetIdeasParam{
		Status: utils.ToPointer(entity.IdeaStatusCooking),
	})
	if err != nil {
		return err
	}

	s.log.Debug("Sweeping ideas", logger.IntField("count", len(ideas)))

	sem := make(chan struct{}, s.cfg.Engine.MaxConcurrentSymbols)
	var wg sync.WaitGroup
	for i := range ideas {
		idea := ideas[i]
		wg.Add(1)
		sem <- struct{}{}
		utils.GoSafe(func() {
			defer wg.Done()
			defer func() { <-sem }()
			s.processIdea(ctx, idea)
		})
	}
	wg.Wait()
	return nil
}

func (s *alertRunnerService) processIdea(ctx context.Context, idea entity.Idea) {
	fields := []zap.Field{
		logger.StringField("symbol", idea.Symbol),
		logger.Field("idea_id", idea.ID),
	}

	tech, err := s.snapshots.Technical(ctx, idea.Symbol)
	if err != nil {
		s.log.Error("Failed to load technical snapshot", append(fields, logger.ErrorField(err))...)
		return
	}
	if tech != nil && tech.LastPrice != nil {
		idea.CurrentPrice = tech.LastPrice
		if err := s.ideasRepo.UpdateCurrentPrice(ctx, idea.ID, *tech.LastPrice); err != nil {
			s.log.Error("Failed to refresh idea price", append(fields, logger.ErrorField(err))...)
		}
	}

	event, transition := signal.EvaluateIdeaEntry(&idea)
	if event == nil {
		return
	}

	delivered, err := s.deliver(ctx, *event)
	if err != nil {
		s.log.Error("Failed to deliver idea alert", append(fields, logger.ErrorField(err))...)
		return
	}
	if !delivered || !transition {
		return
	}

	if err := s.ideasRepo.UpdateStatus(ctx, idea.ID, entity.IdeaStatusCooking, entity.IdeaStatusActive); err != nil {
		s.log.Error("Failed to activate idea", append(fields, logger.ErrorField(err))...)
		return
	}
	s.log.Info("Idea activated", fields...)
}

// sweepPositions fires price alerts for open positions and collects the
// exit and accumulate digest lines.
func (s *alertRunnerService) sweepPositions(ctx context.Context) ([]string, error) {
	positions, err := s.positionsRepo.Get(ctx, dto.GetPositionsParam{
		Status: utils.ToPointer(entity.PositionStatusOpen),
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("Sweeping positions", logger.IntField("count", len(positions)))

	var (
		mu     sync.Mutex
		digest []string
		wg     sync.WaitGroup
	)
	sem := make(chan struct{}, s.cfg.Engine.MaxConcurrentSymbols)
	for i := range positions {
		pos := positions[i]
		wg.Add(1)
		sem <- struct{}{}
		utils.GoSafe(func() {
			defer wg.Done()
			defer func() { <-sem }()
			if line := s.processPosition(ctx, pos); line != "" {
				mu.Lock()
				digest = append(digest, line)
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	return digest, nil
}

func (s *alertRunnerService) processPosition(ctx context.Context, pos entity.Position) string {
	fields := []zap.Field{
		logger.StringField("symbol", pos.Symbol),
		logger.Field("position_id", pos.ID),
	}

	tech, err := s.snapshots.Technical(ctx, pos.Symbol)
	if err != nil {
		s.log.Error("Failed to load technical snapshot", append(fields, logger.ErrorField(err))...)
		return ""
	}
	if tech != nil && tech.LastPrice != nil {
		pos.CurrentPrice = tech.LastPrice
		if err := s.positionsRepo.UpdateCurrentPrice(ctx, pos.ID, *tech.LastPrice); err != nil {
			s.log.Error("Failed to refresh position price", append(fields, logger.ErrorField(err))...)
		}
	}

	for _, event := range signal.EvaluatePositionAlerts(&pos, tech) {
		if _, err := s.deliver(ctx, event); err != nil {
			s.log.Error("Failed to deliver position alert", append(fields, logger.ErrorField(err))...)
		}
	}

	eval := signal.EvaluateExit(&pos, tech)
	if eval.Action == signal.ActionHold {
		return ""
	}
	return digestLine(pos, eval)
}

// deliver fires one alert event at most once per dedup window. The Redis
// key is the check-and-set; the alert_logs row backs it when Redis state
// was lost. A failed send releases the key so the alert can retry, and so
// does an alert-log suppression: the window must stay anchored to the
// recorded fire, not to a re-acquired key.
func (s *alertRunnerService) deliver(ctx context.Context, event signal.AlertEvent) (bool, error) {
	acquired, err := s.alertLogRepo.TryAcquire(ctx, event, signal.DedupWindow)
	if err != nil {
		return false, err
	}
	if !acquired {
		s.log.Debug("Alert suppressed by dedup window", logger.StringField("key", event.DedupKey()))
		return false, nil
	}

	lastFired, err := s.alertLogRepo.LastFired(ctx, event)
	if err != nil {
		return false, err
	}
	now := utils.TimeNowIST()
	if !signal.ShouldFire(lastFired, now) {
		s.log.Debug("Alert suppressed by alert log", logger.StringField("key", event.DedupKey()))
		if releaseErr := s.alertLogRepo.Release(ctx, event); releaseErr != nil {
			s.log.Error("Failed to release dedup key", logger.ErrorField(releaseErr))
		}
		return false, nil
	}

	if err := s.send(event); err != nil {
		if releaseErr := s.alertLogRepo.Release(ctx, event); releaseErr != nil {
			s.log.Error("Failed to release dedup key", logger.ErrorField(releaseErr))
		}
		return false, err
	}

	if err := s.alertLogRepo.Record(ctx, event, now); err != nil {
		s.log.Error("Failed to record alert log", logger.ErrorField(err))
	}

	s.log.Info("Alert fired",
		logger.StringField("key", event.DedupKey()),
		logger.StringField("symbol", event.Symbol))
	return true, nil
}

func (s *alertRunnerService) send(event signal.AlertEvent) error {
	if len(event.Recipients) == 0 {
		return s.telegramBot.SendMessage(event.Message)
	}
	for _, chatID := range event.Recipients {
		if err := s.telegramBot.SendMessageUser(event.Message, chatID); err != nil {
			return err
		}
	}
	return nil
}

func digestLine(pos entity.Position, eval signal.ExitEvaluation) string {
	if eval.Action == signal.ActionAccumulate {
		return fmt.Sprintf("*%s*: consider accumulating", pos.Symbol)
	}
	return fmt.Sprintf("*%s*: consider exiting (%s)", pos.Symbol, strings.Join(eval.Reasons, ", "))
}

func formatDigest(lines []string) string {
	var b strings.Builder
	b.WriteString("*Daily Position Digest*\n")
	b.WriteString(utils.PrettyDate(utils.TimeNowIST()))
	b.WriteString("\n\n")
	for _, line := range lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
