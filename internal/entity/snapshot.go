package entity

import "time"

// OverallSignal is the aggregated technical signal for a symbol.
type OverallSignal string

const (
	SignalStrongBuy  OverallSignal = "STRONG_BUY"
	SignalBuy        OverallSignal = "BUY"
	SignalNeutral    OverallSignal = "NEUTRAL"
	SignalSell       OverallSignal = "SELL"
	SignalStrongSell OverallSignal = "STRONG_SELL"
)

// FundamentalRating is the bucketed fundamental quality rating.
type FundamentalRating string

const (
	RatingPoor      FundamentalRating = "POOR"
	RatingAverage   FundamentalRating = "AVERAGE"
	RatingGood      FundamentalRating = "GOOD"
	RatingExcellent FundamentalRating = "EXCELLENT"
)

// TechnicalSnapshot is one day of technical indicator data for a symbol.
// The ingestion job writes one row per symbol per trading day; every
// indicator column is nullable because the upstream feed can be partial.
type TechnicalSnapshot struct {
	ID                      uint           `gorm:"primaryKey" json:"id"`
	Symbol                  string         `gorm:"not null;index:idx_technical_symbol" json:"symbol"`
	LastPrice               *float64       `json:"last_price"`
	PriceChangePct          *float64       `json:"price_change_pct"`
	EMA9                    *float64       `json:"ema9"`
	EMA50                   *float64       `json:"ema50"`
	SMA20                   *float64       `json:"sma20"`
	SMA50                   *float64       `json:"sma50"`
	SMA100                  *float64       `json:"sma100"`
	SMA200                  *float64       `json:"sma200"`
	Supertrend              *float64       `json:"supertrend"`
	SupertrendDirection     *int           `json:"supertrend_direction"`
	WeeklySupertrendBullish *bool          `json:"weekly_supertrend_bullish"`
	RSI                     *float64       `json:"rsi"`
	MACD                    *float64       `json:"macd"`
	MACDSignal              *float64       `json:"macd_signal"`
	MACDHistogram           *float64       `json:"macd_histogram"`
	BollingerUpper          *float64       `json:"bollinger_upper"`
	BollingerMiddle         *float64       `json:"bollinger_middle"`
	BollingerLower          *float64       `json:"bollinger_lower"`
	GoldenCross             *bool          `json:"golden_cross"`
	OverallSignal           *OverallSignal `json:"overall_signal"`
	Volume                  *float64       `json:"volume"`
	VolumeMA20              *float64       `json:"volume_ma20"`
	VolumeMA50              *float64       `json:"volume_ma50"`
	UpdatedAt               time.Time      `gorm:"not null" json:"updated_at"`
	CreatedAt               time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (TechnicalSnapshot) TableName() string {
	return "technical_snapshots"
}

// FundamentalSnapshot is the fundamental data record for a symbol.
type FundamentalSnapshot struct {
	ID                      uint               `gorm:"primaryKey" json:"id"`
	Symbol                  string             `gorm:"not null;index:idx_fundamental_symbol" json:"symbol"`
	Sector                  string             `json:"sector"`
	Industry                string             `json:"industry"`
	MarketCap               *float64           `json:"market_cap"`
	Beta                    *float64           `json:"beta"`
	PERatioForward          *float64           `json:"pe_ratio_forward"`
	PERatioTrailing         *float64           `json:"pe_ratio_trailing"`
	PriceToBook             *float64           `json:"price_to_book"`
	PriceToSales            *float64           `json:"price_to_sales"`
	PEGRatio                *float64           `json:"peg_ratio"`
	ProfitMargin            *float64           `json:"profit_margin"`
	OperatingMargin         *float64           `json:"operating_margin"`
	ROE                     *float64           `json:"roe"`
	ROA                     *float64           `json:"roa"`
	DebtToEquity            *float64           `json:"debt_to_equity"`
	CurrentRatio            *float64           `json:"current_ratio"`
	DividendYield           *float64           `json:"dividend_yield"`
	PayoutRatio             *float64           `json:"payout_ratio"`
	EarningsGrowth          *float64           `json:"earnings_growth"`
	QuarterlyEarningsGrowth *float64           `json:"quarterly_earnings_growth"`
	RevenueGrowth           *float64           `json:"revenue_growth"`
	FundamentalScore        *float64           `json:"fundamental_score"`
	FundamentalRating       *FundamentalRating `json:"fundamental_rating"`
	UpdatedAt               time.Time          `gorm:"not null" json:"updated_at"`
	CreatedAt               time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

func (FundamentalSnapshot) TableName() string {
	return "fundamental_snapshots"
}
