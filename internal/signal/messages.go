package signal

import (
	"fmt"
	"strconv"
)

// brandSuffix is appended to every user-facing alert message.
const brandSuffix = " - TradeIdea"

// Price formats a rupee amount without trailing zero noise.
func Price(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EntryMessage is the idea entry-price alert.
func EntryMessage(symbol string, current, entry float64) string {
	return fmt.Sprintf("%s reached entry price! Current: ₹%s, Entry: ₹%s%s", symbol, Price(current), Price(entry), brandSuffix)
}

// TargetMessage is the position target-price alert.
func TargetMessage(symbol string, current, target float64) string {
	return fmt.Sprintf("%s reached target price! Current: ₹%s, Target: ₹%s%s", symbol, Price(current), Price(target), brandSuffix)
}

// StopLossMessage is the position stop-loss alert. trigger identifies
// which level fired: "SL" for the configured stop, "100MA" for the
// moving-average fallback used when no stop is set.
func StopLossMessage(symbol string, current, level float64, trigger string) string {
	return fmt.Sprintf("%s hit stop loss! Current: ₹%s, %s: ₹%s%s", symbol, Price(current), trigger, Price(level), brandSuffix)
}

// LevelMessage is the exit-criteria alert for a breached moving average.
// level is the display name, e.g. "50EMA", "100MA", "200MA".
func LevelMessage(symbol, level string, current, value float64) string {
	return fmt.Sprintf("%s went below %s! Current: ₹%s, %s: ₹%s%s", symbol, level, Price(current), level, Price(value), brandSuffix)
}
