package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Recommendation is the persisted output of one archetype-scorer sweep
// for a symbol. Results holds the per-archetype verdicts as JSON.
type Recommendation struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Symbol      string         `gorm:"not null;uniqueIndex" json:"symbol"`
	Results     datatypes.JSON `gorm:"type:jsonb" json:"results"`
	Stale       bool           `gorm:"not null;default:false" json:"stale"`
	GeneratedAt time.Time      `gorm:"not null" json:"generated_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
