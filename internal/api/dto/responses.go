package dto

import (
	"encoding/json"
	"time"

	"tradeidea/internal/signal"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RecommendationResponse is one symbol's archetype scoring result.
type RecommendationResponse struct {
	Symbol      string          `json:"symbol"`
	Results     json.RawMessage `json:"results"`
	Stale       bool            `json:"stale"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// ReadinessResponse is the entry-readiness verdict for one idea.
type ReadinessResponse struct {
	IdeaID       uint         `json:"idea_id"`
	Symbol       string       `json:"symbol"`
	EntryPrice   float64      `json:"entry_price"`
	CurrentPrice *float64     `json:"current_price,omitempty"`
	Badge        signal.Badge `json:"badge"`
}

// PositionEvaluationResponse is the exit/accumulate verdict for one open
// position.
type PositionEvaluationResponse struct {
	PositionID uint                  `json:"position_id"`
	Symbol     string                `json:"symbol"`
	Action     signal.PositionAction `json:"action"`
	Reasons    []string              `json:"reasons,omitempty"`
}
