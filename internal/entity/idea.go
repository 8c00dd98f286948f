package entity

import "time"

type IdeaStatus string

const (
	IdeaStatusCooking      IdeaStatus = "cooking"
	IdeaStatusActive       IdeaStatus = "active"
	IdeaStatusTriggered    IdeaStatus = "triggered"
	IdeaStatusProfitBooked IdeaStatus = "profit_booked"
	IdeaStatusStopLoss     IdeaStatus = "stop_loss"
	IdeaStatusExpired      IdeaStatus = "expired"
	IdeaStatusCancelled    IdeaStatus = "cancelled"
)

// ideaStatusRank orders statuses along the one-way lifecycle. Terminal
// statuses share a rank: once past active, no further transition applies.
var ideaStatusRank = map[IdeaStatus]int{
	IdeaStatusCooking:      0,
	IdeaStatusActive:       1,
	IdeaStatusTriggered:    2,
	IdeaStatusProfitBooked: 2,
	IdeaStatusStopLoss:     2,
	IdeaStatusExpired:      2,
	IdeaStatusCancelled:    2,
}

// CanTransitionIdeaStatus reports whether moving from one idea status to
// another respects the monotonic cooking→active→terminal lifecycle.
func CanTransitionIdeaStatus(from, to IdeaStatus) bool {
	fromRank, ok := ideaStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := ideaStatusRank[to]
	if !ok {
		return false
	}
	return toRank == fromRank+1
}

type Idea struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	OwnerID      uint       `gorm:"not null" json:"owner_id"`
	Symbol       string     `gorm:"not null;index" json:"symbol"`
	EntryPrice   float64    `gorm:"not null" json:"entry_price"`
	StopLoss     float64    `gorm:"not null" json:"stop_loss"`
	Target1      float64    `gorm:"not null" json:"target1"`
	Target2      *float64   `json:"target2"`
	Target3      *float64   `json:"target3"`
	Status       IdeaStatus `gorm:"not null;default:'cooking'" json:"status"`
	CurrentPrice *float64   `json:"current_price"`
	Owner        User       `gorm:"foreignKey:OwnerID;references:ID" json:"-"`
	Followers    []User     `gorm:"many2many:idea_followers" json:"-"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Idea) TableName() string {
	return "ideas"
}
