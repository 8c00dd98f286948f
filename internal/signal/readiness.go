package signal

import (
	"math"

	"tradeidea/internal/entity"
)

// Badge is the entry-readiness classification shown on an idea.
type Badge string

const (
	BadgeWaiting  Badge = "WAITING"
	BadgeCanEnter Badge = "CAN_ENTER"
	BadgeReady    Badge = "READY"
)

// readinessTolerance is the max |price-entry|/entry distance for READY.
const readinessTolerance = 0.02

// ClassifyReadiness computes the entry-readiness badge for an idea. The
// checks run in a fixed order: missing data wins, then the discounted
// excellent-fundamentals case, then the near-entry bullish case.
func ClassifyReadiness(entryPrice *float64, tech *entity.TechnicalSnapshot, fund *entity.FundamentalSnapshot) Badge {
	if tech == nil || fund == nil || entryPrice == nil {
		return BadgeWaiting
	}
	entry, ok := fval(entryPrice)
	if !ok || entry <= 0 {
		return BadgeWaiting
	}
	last, ok := fval(tech.LastPrice)
	if !ok {
		return BadgeWaiting
	}

	rating := fund.FundamentalRating

	// Below entry with excellent fundamentals beats the READY check.
	if last < entry && rating != nil && *rating == entity.RatingExcellent {
		return BadgeCanEnter
	}

	bullish := tech.OverallSignal != nil &&
		(*tech.OverallSignal == entity.SignalBuy || *tech.OverallSignal == entity.SignalStrongBuy)
	ratedOK := rating != nil &&
		(*rating == entity.RatingAverage || *rating == entity.RatingGood || *rating == entity.RatingExcellent)
	nearEntry := math.Abs(last-entry)/entry <= readinessTolerance

	if bullish && ratedOK && nearEntry {
		return BadgeReady
	}
	return BadgeWaiting
}
