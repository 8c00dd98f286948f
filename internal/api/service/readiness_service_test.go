package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeidea/internal/entity"
	"tradeidea/internal/signal"
	"tradeidea/pkg/logger"
)

type fakeIdeasRepo struct {
	ideas map[uint]*entity.Idea
}

func (f *fakeIdeasRepo) GetByID(_ context.Context, id uint) (*entity.Idea, error) {
	return f.ideas[id], nil
}

type fakeSnapshotsRepo struct {
	tech map[string]*entity.TechnicalSnapshot
	fund map[string]*entity.FundamentalSnapshot
}

func (f *fakeSnapshotsRepo) GetLatestTechnical(_ context.Context, symbol string) (*entity.TechnicalSnapshot, error) {
	return f.tech[symbol], nil
}

func (f *fakeSnapshotsRepo) GetLatestFundamental(_ context.Context, symbol string) (*entity.FundamentalSnapshot, error) {
	return f.fund[symbol], nil
}

func fptr(v float64) *float64 { return &v }

func newReadinessFixture(t *testing.T, ideas *fakeIdeasRepo, snaps *fakeSnapshotsRepo) ReadinessService {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return NewReadinessService(log, ideas, snaps)
}

func TestReadinessForUnknownIdea(t *testing.T) {
	svc := newReadinessFixture(t, &fakeIdeasRepo{ideas: map[uint]*entity.Idea{}}, &fakeSnapshotsRepo{})

	response, err := svc.ForIdea(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, response)
}

func TestReadinessMissingSnapshotsIsWaiting(t *testing.T) {
	ideas := &fakeIdeasRepo{ideas: map[uint]*entity.Idea{
		1: {ID: 1, Symbol: "INFY", EntryPrice: 100},
	}}
	svc := newReadinessFixture(t, ideas, &fakeSnapshotsRepo{})

	response, err := svc.ForIdea(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, response)
	assert.Equal(t, signal.BadgeWaiting, response.Badge)
	assert.Nil(t, response.CurrentPrice)
}

func TestReadinessReadyNearEntry(t *testing.T) {
	overall := entity.SignalBuy
	rating := entity.RatingGood
	ideas := &fakeIdeasRepo{ideas: map[uint]*entity.Idea{
		1: {ID: 1, Symbol: "INFY", EntryPrice: 100},
	}}
	snaps := &fakeSnapshotsRepo{
		tech: map[string]*entity.TechnicalSnapshot{
			"INFY": {Symbol: "INFY", LastPrice: fptr(101.5), OverallSignal: &overall},
		},
		fund: map[string]*entity.FundamentalSnapshot{
			"INFY": {Symbol: "INFY", FundamentalRating: &rating},
		},
	}
	svc := newReadinessFixture(t, ideas, snaps)

	response, err := svc.ForIdea(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, response)
	assert.Equal(t, signal.BadgeReady, response.Badge)
	assert.Equal(t, 101.5, *response.CurrentPrice)
	assert.Equal(t, "INFY", response.Symbol)
}

func TestReadinessCanEnterOnDiscountWithExcellentRating(t *testing.T) {
	rating := entity.RatingExcellent
	ideas := &fakeIdeasRepo{ideas: map[uint]*entity.Idea{
		1: {ID: 1, Symbol: "INFY", EntryPrice: 100},
	}}
	snaps := &fakeSnapshotsRepo{
		tech: map[string]*entity.TechnicalSnapshot{
			"INFY": {Symbol: "INFY", LastPrice: fptr(95)},
		},
		fund: map[string]*entity.FundamentalSnapshot{
			"INFY": {Symbol: "INFY", FundamentalRating: &rating},
		},
	}
	svc := newReadinessFixture(t, ideas, snaps)

	response, err := svc.ForIdea(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, response)
	assert.Equal(t, signal.BadgeCanEnter, response.Badge)
}

func TestReadinessRejectsIdeaWithoutEntryPrice(t *testing.T) {
	ideas := &fakeIdeasRepo{ideas: map[uint]*entity.Idea{
		1: {ID: 1, Symbol: "INFY"},
	}}
	svc := newReadinessFixture(t, ideas, &fakeSnapshotsRepo{})

	_, err := svc.ForIdea(context.Background(), 1)
	assert.Error(t, err)
}
