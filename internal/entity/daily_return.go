package entity

import "time"

// DailyReturn is one day's close-to-close return for a symbol, written by
// the ingestion job alongside the snapshots.
type DailyReturn struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"not null;uniqueIndex:idx_daily_returns_symbol_date" json:"symbol"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_daily_returns_symbol_date" json:"date"`
	Return    float64   `gorm:"not null" json:"return"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DailyReturn) TableName() string {
	return "daily_returns"
}
