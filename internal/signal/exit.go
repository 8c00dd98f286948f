package signal

import "tradeidea/internal/entity"

// PositionAction is the per-position recommendation.
type PositionAction string

const (
	ActionExit       PositionAction = "EXIT"
	ActionAccumulate PositionAction = "ACCUMULATE"
	ActionHold       PositionAction = "HOLD"
)

// Exit reason strings; the UI and alert messages key off these.
const (
	ReasonStopLossHit             = "stop loss hit"
	ReasonTargetReached           = "target reached"
	ReasonBelow50EMA              = "below 50EMA"
	ReasonBelow100MA              = "below 100MA"
	ReasonBelow200MA              = "below 200MA"
	ReasonWeeklySupertrendBearish = "weekly supertrend bearish"
)

// ExitEvaluation is the outcome of evaluating one open position.
type ExitEvaluation struct {
	Action  PositionAction `json:"action"`
	Reasons []string       `json:"reasons,omitempty"`
}

// EvaluateExit checks a position against its exit criteria and the
// accumulation conditions. EXIT is evaluated first and wins; ACCUMULATE
// requires every one of its conditions; anything else is HOLD. Missing
// snapshot fields fail the individual condition, never the call.
func EvaluateExit(pos *entity.Position, tech *entity.TechnicalSnapshot) ExitEvaluation {
	price, ok := positionPrice(pos, tech)
	if !ok {
		return ExitEvaluation{Action: ActionHold}
	}

	var reasons []string

	// Stop loss and target exits cannot be disabled.
	if pos.StopLoss > 0 && price <= pos.StopLoss {
		reasons = append(reasons, ReasonStopLossHit)
	}
	if pos.Target1 > 0 && price >= pos.Target1 {
		reasons = append(reasons, ReasonTargetReached)
	}

	crit := pos.ExitCriteria
	if crit.ExitBelow50EMA {
		if ema, ok := techF(tech, func(t *entity.TechnicalSnapshot) *float64 { return t.EMA50 }); ok && price < ema {
			reasons = append(reasons, ReasonBelow50EMA)
		}
	}
	if crit.ExitBelow100MA {
		if sma, ok := techF(tech, func(t *entity.TechnicalSnapshot) *float64 { return t.SMA100 }); ok && price < sma {
			reasons = append(reasons, ReasonBelow100MA)
		}
	}
	if crit.ExitBelow200MA {
		if sma, ok := techF(tech, func(t *entity.TechnicalSnapshot) *float64 { return t.SMA200 }); ok && price < sma {
			reasons = append(reasons, ReasonBelow200MA)
		}
	}
	if crit.ExitOnWeeklySupertrend && tech != nil && tech.WeeklySupertrendBullish != nil && !*tech.WeeklySupertrendBullish {
		reasons = append(reasons, ReasonWeeklySupertrendBearish)
	}

	if len(reasons) > 0 {
		return ExitEvaluation{Action: ActionExit, Reasons: reasons}
	}

	if shouldAccumulate(pos, tech, price) {
		return ExitEvaluation{Action: ActionAccumulate}
	}
	return ExitEvaluation{Action: ActionHold}
}

// shouldAccumulate requires every condition; any missing field vetoes it.
func shouldAccumulate(pos *entity.Position, tech *entity.TechnicalSnapshot, price float64) bool {
	if tech == nil {
		return false
	}
	if !(pos.StopLoss > 0 && price > pos.StopLoss) {
		return false
	}
	if !(pos.Target1 > 0 && price < pos.Target1) {
		return false
	}
	ema50, ok := fval(tech.EMA50)
	if !ok || price <= ema50 {
		return false
	}
	sma200, ok := fval(tech.SMA200)
	if !ok || price <= sma200 {
		return false
	}
	if tech.WeeklySupertrendBullish == nil || !*tech.WeeklySupertrendBullish {
		return false
	}
	if tech.GoldenCross == nil || !*tech.GoldenCross {
		return false
	}
	return true
}

// positionPrice prefers the refreshed position price and falls back to
// the snapshot's last price.
func positionPrice(pos *entity.Position, tech *entity.TechnicalSnapshot) (float64, bool) {
	if pos == nil {
		return 0, false
	}
	if p, ok := fval(pos.CurrentPrice); ok && p > 0 {
		return p, true
	}
	if tech != nil {
		if p, ok := fval(tech.LastPrice); ok && p > 0 {
			return p, true
		}
	}
	return 0, false
}

func techF(tech *entity.TechnicalSnapshot, field func(t *entity.TechnicalSnapshot) *float64) (float64, bool) {
	if tech == nil {
		return 0, false
	}
	return fval(field(tech))
}
