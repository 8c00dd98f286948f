package entity

import "time"

type TradeType string

const (
	TradeTypeLong  TradeType = "Long"
	TradeTypeShort TradeType = "Short"
)

type PositionStatus string

const (
	PositionStatusOpen   PositionStatus = "open"
	PositionStatusClosed PositionStatus = "closed"
)

// ExitCriteria holds the per-position exit toggles. Stop loss and target
// exits are always enabled regardless of the stored flags; see the
// evaluator in internal/signal.
type ExitCriteria struct {
	ExitAtStopLoss         bool   `gorm:"not null;default:true" json:"exit_at_stop_loss"`
	ExitAtTarget           bool   `gorm:"not null;default:true" json:"exit_at_target"`
	ExitBelow50EMA         bool   `gorm:"not null;default:false" json:"exit_below_50ema"`
	ExitBelow100MA         bool   `gorm:"not null;default:false" json:"exit_below_100ma"`
	ExitBelow200MA         bool   `gorm:"not null;default:false" json:"exit_below_200ma"`
	ExitOnWeeklySupertrend bool   `gorm:"not null;default:false" json:"exit_on_weekly_supertrend"`
	CustomNote             string `json:"custom_note"`
}

type Position struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null" json:"user_id"`
	Symbol       string         `gorm:"not null;index" json:"symbol"`
	TradeType    TradeType      `gorm:"not null;default:'Long'" json:"trade_type"`
	EntryPrice   float64        `gorm:"not null" json:"entry_price"`
	StopLoss     float64        `gorm:"not null" json:"stop_loss"`
	Target1      float64        `gorm:"not null" json:"target1"`
	Quantity     float64        `gorm:"not null" json:"quantity"`
	Status       PositionStatus `gorm:"not null;default:'open'" json:"status"`
	ExitCriteria ExitCriteria   `gorm:"embedded;embeddedPrefix:exit_criteria_" json:"exit_criteria"`
	DateTaken    time.Time      `gorm:"not null" json:"date_taken"`
	CurrentPrice *float64       `json:"current_price"`
	User         User           `gorm:"foreignKey:UserID;references:ID" json:"-"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Position) TableName() string {
	return "positions"
}

// TotalValue is the current market value of the position, falling back to
// the entry price when no refreshed price is available.
func (p Position) TotalValue() float64 {
	price := p.EntryPrice
	if p.CurrentPrice != nil && *p.CurrentPrice > 0 {
		price = *p.CurrentPrice
	}
	return price * p.Quantity
}
