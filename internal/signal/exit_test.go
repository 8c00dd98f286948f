package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeidea/internal/entity"
)

func openPosition() *entity.Position {
	return &entity.Position{
		ID:         7,
		Symbol:     "TCS",
		TradeType:  entity.TradeTypeLong,
		EntryPrice: 100,
		StopLoss:   90,
		Target1:    120,
		Quantity:   10,
		Status:     entity.PositionStatusOpen,
		DateTaken:  time.Now().AddDate(0, -1, 0),
		User:       entity.User{ID: 1, TelegramID: 111},
	}
}

func TestEvaluateExitBelow200MACriterion(t *testing.T) {
	pos := openPosition()
	pos.ExitCriteria.ExitBelow200MA = true
	pos.CurrentPrice = f64(103)

	tech := &entity.TechnicalSnapshot{SMA200: f64(105)}

	eval := EvaluateExit(pos, tech)
	assert.Equal(t, ActionExit, eval.Action)
	assert.Equal(t, []string{ReasonBelow200MA}, eval.Reasons)
}

func TestEvaluateExitStopLossAlwaysEnabled(t *testing.T) {
	pos := openPosition()
	pos.ExitCriteria.ExitAtStopLoss = false // flag cannot disable the check
	pos.CurrentPrice = f64(89.5)

	eval := EvaluateExit(pos, &entity.TechnicalSnapshot{})
	assert.Equal(t, ActionExit, eval.Action)
	assert.Contains(t, eval.Reasons, ReasonStopLossHit)
}

func TestEvaluateExitTargetReached(t *testing.T) {
	pos := openPosition()
	pos.CurrentPrice = f64(120) // boundary counts

	eval := EvaluateExit(pos, &entity.TechnicalSnapshot{})
	assert.Equal(t, ActionExit, eval.Action)
	assert.Contains(t, eval.Reasons, ReasonTargetReached)
}

func TestEvaluateExitCollectsEveryTriggeredReason(t *testing.T) {
	pos := openPosition()
	pos.ExitCriteria.ExitBelow50EMA = true
	pos.ExitCriteria.ExitBelow100MA = true
	pos.ExitCriteria.ExitOnWeeklySupertrend = true
	pos.CurrentPrice = f64(95)

	tech := &entity.TechnicalSnapshot{
		EMA50:                   f64(98),
		SMA100:                  f64(97),
		WeeklySupertrendBullish: boolPtr(false),
	}

	eval := EvaluateExit(pos, tech)
	require.Equal(t, ActionExit, eval.Action)
	assert.ElementsMatch(t, []string{ReasonBelow50EMA, ReasonBelow100MA, ReasonWeeklySupertrendBearish}, eval.Reasons)
}

func TestEvaluateExitDisabledCriteriaAreIgnored(t *testing.T) {
	pos := openPosition()
	pos.CurrentPrice = f64(95)

	// Price sits below every moving average but no optional exit is on.
	tech := &entity.TechnicalSnapshot{
		EMA50:  f64(98),
		SMA100: f64(97),
		SMA200: f64(99),
	}

	eval := EvaluateExit(pos, tech)
	assert.Equal(t, ActionHold, eval.Action)
	assert.Empty(t, eval.Reasons)
}

func TestEvaluateExitAccumulate(t *testing.T) {
	pos := openPosition()
	pos.CurrentPrice = f64(105)

	tech := &entity.TechnicalSnapshot{
		EMA50:                   f64(100),
		SMA200:                  f64(95),
		WeeklySupertrendBullish: boolPtr(true),
		GoldenCross:             boolPtr(true),
	}

	eval := EvaluateExit(pos, tech)
	assert.Equal(t, ActionAccumulate, eval.Action)
}

func TestEvaluateExitAccumulateRequiresEveryCondition(t *testing.T) {
	base := func() (*entity.Position, *entity.TechnicalSnapshot) {
		pos := openPosition()
		pos.CurrentPrice = f64(105)
		tech := &entity.TechnicalSnapshot{
			EMA50:                   f64(100),
			SMA200:                  f64(95),
			WeeklySupertrendBullish: boolPtr(true),
			GoldenCross:             boolPtr(true),
		}
		return pos, tech
	}

	t.Run("no golden cross", func(t *testing.T) {
		pos, tech := base()
		tech.GoldenCross = boolPtr(false)
		assert.Equal(t, ActionHold, EvaluateExit(pos, tech).Action)
	})
	t.Run("weekly supertrend missing", func(t *testing.T) {
		pos, tech := base()
		tech.WeeklySupertrendBullish = nil
		assert.Equal(t, ActionHold, EvaluateExit(pos, tech).Action)
	})
	t.Run("below EMA50", func(t *testing.T) {
		pos, tech := base()
		tech.EMA50 = f64(110)
		assert.Equal(t, ActionHold, EvaluateExit(pos, tech).Action)
	})
}

func TestEvaluateExitMissingPriceHolds(t *testing.T) {
	pos := openPosition()
	eval := EvaluateExit(pos, &entity.TechnicalSnapshot{})
	assert.Equal(t, ActionHold, eval.Action)
}

func TestEvaluateExitFallsBackToSnapshotPrice(t *testing.T) {
	pos := openPosition()
	pos.ExitCriteria.ExitBelow200MA = true

	tech := &entity.TechnicalSnapshot{LastPrice: f64(103), SMA200: f64(105)}

	eval := EvaluateExit(pos, tech)
	assert.Equal(t, ActionExit, eval.Action)
	assert.Equal(t, []string{ReasonBelow200MA}, eval.Reasons)
}

func TestEvaluateExitIsDeterministic(t *testing.T) {
	pos := openPosition()
	pos.ExitCriteria.ExitBelow200MA = true
	pos.CurrentPrice = f64(103)
	tech := &entity.TechnicalSnapshot{SMA200: f64(105)}

	assert.Equal(t, EvaluateExit(pos, tech), EvaluateExit(pos, tech))
}
