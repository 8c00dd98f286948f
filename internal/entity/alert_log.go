package entity

import "time"

// AlertLog records the last time an alert kind fired for an entity. The
// (entity_type, entity_id, kind) tuple is the dedup key.
type AlertLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EntityType  string    `gorm:"not null;uniqueIndex:idx_alert_logs_key" json:"entity_type"`
	EntityID    uint      `gorm:"not null;uniqueIndex:idx_alert_logs_key" json:"entity_id"`
	Kind        string    `gorm:"not null;uniqueIndex:idx_alert_logs_key" json:"kind"`
	Message     string    `json:"message"`
	LastFiredAt time.Time `gorm:"not null" json:"last_fired_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AlertLog) TableName() string {
	return "alert_logs"
}
