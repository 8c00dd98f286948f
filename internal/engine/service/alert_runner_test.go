package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeidea/internal/engine/config"
	"tradeidea/internal/engine/dto"
	"tradeidea/internal/entity"
	"tradeidea/internal/signal"
	"tradeidea/pkg/logger"
)

type fakeSnapshotRepo struct {
	mu   sync.Mutex
	tech map[string]*entity.TechnicalSnapshot
	fund map[string]*entity.FundamentalSnapshot
}

func (f *fakeSnapshotRepo) GetSymbols(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	symbols := make([]string, 0, len(f.tech))
	for sym := range f.tech {
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

func (f *fakeSnapshotRepo) GetLatestTechnical(_ context.Context, symbol string) (*entity.TechnicalSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tech[symbol], nil
}

func (f *fakeSnapshotRepo) GetLatestFundamental(_ context.Context, symbol string) (*entity.FundamentalSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fund[symbol], nil
}

type fakeIdeasRepo struct {
	mu          sync.Mutex
	ideas       []entity.Idea
	transitions []string
}

func (f *fakeIdeasRepo) Get(_ context.Context, param dto.GetIdeasParam) ([]entity.Idea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Idea
	for _, idea := range f.ideas {
		if param.Status != nil && idea.Status != *param.Status {
			continue
		}
		out = append(out, idea)
	}
	return out, nil
}

func (f *fakeIdeasRepo) UpdateStatus(_ context.Context, id uint, from, to entity.IdeaStatus) error {
	if !entity.CanTransitionIdeaStatus(from, to) {
		return fmt.Errorf("invalid transition")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions = append(f.transitions, fmt.Sprintf("%d:%s->%s", id, from, to))
	return nil
}

func (f *fakeIdeasRepo) UpdateCurrentPrice(context.Context, uint, float64) error { return nil }

type fakePositionsRepo struct {
	mu        sync.Mutex
	positions []entity.Position
}

func (f *fakePositionsRepo) Get(_ context.Context, param dto.GetPositionsParam) ([]entity.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Position
	for _, pos := range f.positions {
		if param.Status != nil && pos.Status != *param.Status {
			continue
		}
		out = append(out, pos)
	}
	return out, nil
}

func (f *fakePositionsRepo) UpdateCurrentPrice(context.Context, uint, float64) error { return nil }

type fakeAlertLogRepo struct {
	mu        sync.Mutex
	held      map[string]bool
	lastFired map[string]time.Time
	recorded  []signal.AlertEvent
	released  []string
}

func newFakeAlertLogRepo() *fakeAlertLogRepo {
	return &fakeAlertLogRepo{
		held:      make(map[string]bool),
		lastFired: make(map[string]time.Time),
	}
}

func (f *fakeAlertLogRepo) TryAcquire(_ context.Context, event signal.AlertEvent, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := event.DedupKey()
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeAlertLogRepo) Release(_ context.Context, event signal.AlertEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := event.DedupKey()
	delete(f.held, key)
	f.released = append(f.released, key)
	return nil
}

func (f *fakeAlertLogRepo) LastFired(_ context.Context, event signal.AlertEvent) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fired, ok := f.lastFired[event.DedupKey()]; ok {
		return &fired, nil
	}
	return nil, nil
}

func (f *fakeAlertLogRepo) Record(_ context.Context, event signal.AlertEvent, firedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFired[event.DedupKey()] = firedAt
	f.recorded = append(f.recorded, event)
	return nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []sentMessage
	failAll bool
}

func (f *fakeNotifier) SendMessage(text string) error {
	return f.SendMessageUser(text, 0)
}

func (f *fakeNotifier) SendMessageUser(text string, chatID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return fmt.Errorf("telegram unavailable")
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeNotifier) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type runnerFixture struct {
	runner    AlertRunnerService
	ideas     *fakeIdeasRepo
	positions *fakePositionsRepo
	alertLogs *fakeAlertLogRepo
	notifier  *fakeNotifier
}

func newRunnerFixture(t *testing.T, snaps *fakeSnapshotRepo) *runnerFixture {
	t.Helper()

	log, err := logger.New("error", "console")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Engine.MaxConcurrentSymbols = 2
	cfg.Engine.SnapshotCacheTTL = time.Minute

	fixture := &runnerFixture{
		ideas:     &fakeIdeasRepo{},
		positions: &fakePositionsRepo{},
		alertLogs: newFakeAlertLogRepo(),
		notifier:  &fakeNotifier{},
	}
	fixture.runner = NewAlertRunnerService(cfg, log,
		NewSnapshotProvider(snaps, cfg.Engine.SnapshotCacheTTL),
		fixture.ideas, fixture.positions, fixture.alertLogs, fixture.notifier)
	return fixture
}

func price(v float64) *float64 { return &v }

func TestRunDailySweepActivatesIdeaAtEntryPrice(t *testing.T) {
	snaps := &fakeSnapshotRepo{tech: map[string]*entity.TechnicalSnapshot{
		"INFY": {Symbol: "INFY", LastPrice: price(252.4)},
	}}
	fixture := newRunnerFixture(t, snaps)
	fixture.ideas.ideas = []entity.Idea{{
		ID:         42,
		Symbol:     "INFY",
		EntryPrice: 250,
		Status:     entity.IdeaStatusCooking,
		Owner:      entity.User{ID: 1, TelegramID: 111},
		Followers:  []entity.User{{ID: 2, TelegramID: 222}},
	}}

	require.NoError(t, fixture.runner.RunDailySweep(context.Background()))

	messages := fixture.notifier.messages()
	require.Len(t, messages, 2)
	for _, msg := range messages {
		assert.Equal(t, "INFY reached entry price! Current: ₹252.4, Entry: ₹250 - TradeIdea", msg.text)
	}
	assert.ElementsMatch(t, []int64{111, 222}, []int64{messages[0].chatID, messages[1].chatID})

	assert.Equal(t, []string{"42:cooking->active"}, fixture.ideas.transitions)
	require.Len(t, fixture.alertLogs.recorded, 1)
	assert.Equal(t, "idea:42:ENTRY", fixture.alertLogs.recorded[0].DedupKey())
}

func TestRunDailySweepIdeaFarFromEntryStaysCooking(t *testing.T) {
	snaps := &fakeSnapshotRepo{tech: map[string]*entity.TechnicalSnapshot{
		"INFY": {Symbol: "INFY", LastPrice: price(300)},
	}}
	fixture := newRunnerFixture(t, snaps)
	fixture.ideas.ideas = []entity.Idea{{
		ID:         42,
		Symbol:     "INFY",
		EntryPrice: 250,
		Status:     entity.IdeaStatusCooking,
		Owner:      entity.User{TelegramID: 111},
	}}

	require.NoError(t, fixture.runner.RunDailySweep(context.Background()))

	assert.Empty(t, fixture.notifier.messages())
	assert.Empty(t, fixture.ideas.transitions)
}

func TestRunDailySweepDedupSuppressesRepeatAlert(t *testing.T) {
	snaps := &fakeSnapshotRepo{tech: map[string]*entity.TechnicalSnapshot{
		"TCS": {Symbol: "TCS", LastPrice: price(89)},
	}}
	fixture := newRunnerFixture(t, snaps)
	fixture.positions.positions = []entity.Position{{
		ID:         7,
		Symbol:     "TCS",
		EntryPrice: 100,
		StopLoss:   90,
		Target1:    120,
		Quantity:   10,
		Status:     entity.PositionStatusOpen,
		User:       entity.User{TelegramID: 111},
	}}

	require.NoError(t, fixture.runner.RunDailySweep(context.Background()))
	first := len(fixture.notifier.messages())
	require.NoError(t, fixture.runner.RunDailySweep(context.Background()))

	assert.Equal(t, first, len(fixture.notifier.messages()), "second sweep must not refire")
	assert.Len(t, fixture.alertLogs.recorded, 1)
}

func TestRunDailySweepAlertLogBacksLostDedupState(t *testing.T) {
	snaps := &fakeSnapshotRepo{tech: map[string]*entity.TechnicalSnapshot{
		"TCS": {Symbol: "TCS", LastPrice: price(89)},
	}}
	fixture := newRunnerFixture(t, snaps)
	fixture.positions.positions = []entity.Position{{
		ID:         7,
		Symbol:     "TCS",
		EntryPrice: 100,
		StopLoss:   90,
		Target1:    120,
		Quantity:   10,
		Status:     entity.PositionStatusOpen,
		User:       entity.User{TelegramID: 111},
	}}
	// Redis state lost, but the alert log remembers a recent fire.
	fixture.alertLogs.lastFired["position:7:STOP_LOSS"] = time.Now().Add(-time.Hour)

	require.NoError(t, fixture.runner.RunDailySweep(context.Background()))

	assert.Empty(t, fixture.notifier.messages())
	assert.Empty(t, fixture.alertLogs.recorded)
	// The re-acquired key must not restart the window; releasing it keeps
	// the window anchored to the recorded fire.
	assert.Equal(t, []string{"position:7:STOP_LOSS"}, fixture.alertLogs.released)
}

func TestRunDailySweepFailedSendReleasesDedupKey(t *testing.T) {
	snaps := &fakeSnapshotRepo{tech: map[string]*entity.TechnicalSnapshot{
		"INFY": {Symbol: "INFY", LastPrice: price(250)},
	}}
	fixture := newRunnerFixture(t, snaps)
	fixture.notifier.failAll = true
	fixture.ideas.ideas = []entity.Idea{{
		ID:         42,
		Symbol:     "INFY",
		EntryPrice: 250,
		Status:     entity.IdeaStatusCooking,
		Owner:      entity.User{TelegramID: 111},
	}}

	require.NoError(t, fixture.runner.RunDailySweep(context.Background()))

	assert.Equal(t, []string{"idea:42:ENTRY"}, fixture.alertLogs.released)
	assert.Empty(t, fixture.alertLogs.recorded)
	assert.Empty(t, fixture.ideas.transitions, "failed delivery must not activate the idea")
}

func TestRunDailySweepSendsExitDigest(t *testing.T) {
	tech := &entity.TechnicalSnapshot{Symbol: "TCS", LastPrice: price(103), SMA200: price(105)}
	snaps := &fakeSnapshotRepo{tech: map[string]*entity.TechnicalSnapshot{"TCS": tech}}
	fixture := newRunnerFixture(t, snaps)
	pos := entity.Position{
		ID:         7,
		Symbol:     "TCS",
		EntryPrice: 100,
		StopLoss:   90,
		Target1:    120,
		Quantity:   10,
		Status:     entity.PositionStatusOpen,
		User:       entity.User{TelegramID: 111},
	}
	pos.ExitCriteria.ExitBelow200MA = true
	fixture.positions.positions = []entity.Position{pos}

	require.NoError(t, fixture.runner.RunDailySweep(context.Background()))

	messages := fixture.notifier.messages()
	var digest string
	for _, msg := range messages {
		if strings.Contains(msg.text, "Daily Position Digest") {
			digest = msg.text
		}
	}
	require.NotEmpty(t, digest, "digest must go to the broadcast chat")
	assert.Contains(t, digest, "*TCS*: consider exiting (below 200MA)")
}

func TestRunDailySweepClosedPositionsAreSkipped(t *testing.T) {
	snaps := &fakeSnapshotRepo{tech: map[string]*entity.TechnicalSnapshot{
		"TCS": {Symbol: "TCS", LastPrice: price(89)},
	}}
	fixture := newRunnerFixture(t, snaps)
	fixture.positions.positions = []entity.Position{{
		ID:         7,
		Symbol:     "TCS",
		EntryPrice: 100,
		StopLoss:   90,
		Quantity:   10,
		Status:     entity.PositionStatusClosed,
		User:       entity.User{TelegramID: 111},
	}}

	require.NoError(t, fixture.runner.RunDailySweep(context.Background()))
	assert.Empty(t, fixture.notifier.messages())
}
