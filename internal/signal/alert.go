package signal

import (
	"fmt"
	"time"

	"tradeidea/internal/entity"
)

// AlertKind identifies one alert stream per entity. Exit-criteria alerts
// carry the breached level in the kind so the dedup key keeps the levels
// independent of each other.
type AlertKind string

const (
	AlertEntry     AlertKind = "ENTRY"
	AlertTarget    AlertKind = "TARGET"
	AlertStopLoss  AlertKind = "STOP_LOSS"
	AlertExit50EMA AlertKind = "EXIT_50EMA"
	AlertExit100MA AlertKind = "EXIT_100MA"
	AlertExit200MA AlertKind = "EXIT_200MA"
)

// EntityType tags which record an alert belongs to.
type EntityType string

const (
	EntityIdea     EntityType = "idea"
	EntityPosition EntityType = "position"
)

// DedupWindow is the minimum interval before the same alert kind may
// refire for the same entity.
const DedupWindow = 24 * time.Hour

// entryTolerance is the max |price-entry|/entry distance that counts as
// "reached entry price" for the cooking→active transition.
const entryTolerance = 0.01

// AlertEvent is a single alert ready for delivery. Recipients are the
// Telegram chat IDs to notify; empty means the default broadcast chat.
type AlertEvent struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   uint       `json:"entity_id"`
	Kind       AlertKind  `json:"kind"`
	Symbol     string     `json:"symbol"`
	Message    string     `json:"message"`
	Recipients []int64    `json:"recipients,omitempty"`
}

// DedupKey is the (entity, kind) key an event is deduplicated on.
func (e AlertEvent) DedupKey() string {
	return fmt.Sprintf("%s:%d:%s", e.EntityType, e.EntityID, e.Kind)
}

// ShouldFire applies the dedup window: fire when the alert has never
// fired, or when at least the full window has passed.
func ShouldFire(lastFiredAt *time.Time, now time.Time) bool {
	return lastFiredAt == nil || now.Sub(*lastFiredAt) >= DedupWindow
}

// EvaluateIdeaEntry checks a cooking idea against its entry price. When
// the current price is within the entry tolerance it returns the ENTRY
// alert (owner plus all followers) and transition=true, instructing the
// caller to move the idea to active. The transition never reverses.
func EvaluateIdeaEntry(idea *entity.Idea) (event *AlertEvent, transition bool) {
	if idea == nil || idea.Status != entity.IdeaStatusCooking {
		return nil, false
	}
	if idea.EntryPrice <= 0 {
		return nil, false
	}
	current, ok := fval(idea.CurrentPrice)
	if !ok || current <= 0 {
		return nil, false
	}

	delta := (current - idea.EntryPrice) / idea.EntryPrice
	if delta < 0 {
		delta = -delta
	}
	if delta > entryTolerance {
		return nil, false
	}

	recipients := []int64{idea.Owner.TelegramID}
	for _, f := range idea.Followers {
		recipients = append(recipients, f.TelegramID)
	}

	return &AlertEvent{
		EntityType: EntityIdea,
		EntityID:   idea.ID,
		Kind:       AlertEntry,
		Symbol:     idea.Symbol,
		Message:    EntryMessage(idea.Symbol, current, idea.EntryPrice),
		Recipients: recipients,
	}, true
}

// EvaluatePositionAlerts produces every price-level alert an open
// position currently triggers: target, stop loss (with the 100MA
// fallback when no stop is set) and one alert per breached enabled
// exit-criteria level. Dedup is the caller's concern.
func EvaluatePositionAlerts(pos *entity.Position, tech *entity.TechnicalSnapshot) []AlertEvent {
	if pos == nil || pos.Status != entity.PositionStatusOpen {
		return nil
	}
	price, ok := positionPrice(pos, tech)
	if !ok {
		return nil
	}

	recipients := []int64{pos.User.TelegramID}
	event := func(kind AlertKind, message string) AlertEvent {
		return AlertEvent{
			EntityType: EntityPosition,
			EntityID:   pos.ID,
			Kind:       kind,
			Symbol:     pos.Symbol,
			Message:    message,
			Recipients: recipients,
		}
	}

	var events []AlertEvent

	if pos.Target1 > 0 && price >= pos.Target1 {
		events = append(events, event(AlertTarget, TargetMessage(pos.Symbol, price, pos.Target1)))
	}

	if pos.StopLoss > 0 {
		if price <= pos.StopLoss {
			events = append(events, event(AlertStopLoss, StopLossMessage(pos.Symbol, price, pos.StopLoss, "SL")))
		}
	} else if sma100, ok := techF(tech, func(t *entity.TechnicalSnapshot) *float64 { return t.SMA100 }); ok && price <= sma100 {
		events = append(events, event(AlertStopLoss, StopLossMessage(pos.Symbol, price, sma100, "100MA")))
	}

	crit := pos.ExitCriteria
	if crit.ExitBelow50EMA {
		if ema, ok := techF(tech, func(t *entity.TechnicalSnapshot) *float64 { return t.EMA50 }); ok && price < ema {
			events = append(events, event(AlertExit50EMA, LevelMessage(pos.Symbol, "50EMA", price, ema)))
		}
	}
	if crit.ExitBelow100MA {
		if sma, ok := techF(tech, func(t *entity.TechnicalSnapshot) *float64 { return t.SMA100 }); ok && price < sma {
			events = append(events, event(AlertExit100MA, LevelMessage(pos.Symbol, "100MA", price, sma)))
		}
	}
	if crit.ExitBelow200MA {
		if sma, ok := techF(tech, func(t *entity.TechnicalSnapshot) *float64 { return t.SMA200 }); ok && price < sma {
			events = append(events, event(AlertExit200MA, LevelMessage(pos.Symbol, "200MA", price, sma)))
		}
	}

	return events
}
