package signal

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// tradingDaysPerYear is the annualization base for daily return series.
const tradingDaysPerYear = 252

// UnknownBucket collects positions whose metadata lookup failed or whose
// metadata is absent; they are reported, never dropped.
const UnknownBucket = "Unknown"

// Market-cap bucket cutoffs in rupees (1 crore = 1e7).
const (
	largeCapFloor = 20000 * 1e7
	midCapFloor   = 5000 * 1e7
)

var (
	ErrEmptyPortfolio   = errors.New("portfolio has no positions")
	ErrNonPositiveValue = errors.New("portfolio total value must be positive")
)

// PositionExposure is one position's contribution to the portfolio.
type PositionExposure struct {
	Symbol     string  `json:"symbol"`
	TotalValue float64 `json:"total_value"`
}

// SymbolMeta is the per-symbol metadata used for beta fallback and
// concentration grouping. A symbol absent from the meta map degrades to
// the Unknown bucket.
type SymbolMeta struct {
	Sector    string   `json:"sector"`
	MarketCap *float64 `json:"market_cap"`
	Beta      *float64 `json:"beta"`
}

// RiskReport is the portfolio risk summary.
type RiskReport struct {
	TotalValue             float64            `json:"total_value"`
	Weights                map[string]float64 `json:"weights"`
	PortfolioReturns       []float64          `json:"portfolio_returns"`
	AnnualizedStdDev       *float64           `json:"annualized_std_dev,omitempty"`
	SharpeRatio            *float64           `json:"sharpe_ratio,omitempty"`
	Beta                   *float64           `json:"beta,omitempty"`
	BetaSource             string             `json:"beta_source,omitempty"`
	SectorConcentration    map[string]float64 `json:"sector_concentration"`
	MarketCapConcentration map[string]float64 `json:"market_cap_concentration"`
	Warnings               []string           `json:"warnings,omitempty"`
}

// AnalyzeRisk computes portfolio-level risk statistics. returnsBySymbol
// and benchmarkReturns are optional; riskFreeRatePct is an annual
// percentage (5 means 5%).
func AnalyzeRisk(positions []PositionExposure, meta map[string]SymbolMeta, returnsBySymbol map[string][]float64, benchmarkReturns []float64, riskFreeRatePct float64) (*RiskReport, error) {
	if len(positions) == 0 {
		return nil, ErrEmptyPortfolio
	}

	// Positions may repeat a symbol; exposure aggregates per symbol.
	valueBySymbol := make(map[string]float64)
	order := make([]string, 0, len(positions))
	total := 0.0
	for _, p := range positions {
		if _, seen := valueBySymbol[p.Symbol]; !seen {
			order = append(order, p.Symbol)
		}
		valueBySymbol[p.Symbol] += p.TotalValue
		total += p.TotalValue
	}
	if total <= 0 {
		return nil, ErrNonPositiveValue
	}

	weights := make(map[string]float64, len(valueBySymbol))
	for sym, v := range valueBySymbol {
		weights[sym] = v / total
	}

	report := &RiskReport{
		TotalValue:             total,
		Weights:                weights,
		SectorConcentration:    sectorConcentration(order, valueBySymbol, meta, total),
		MarketCapConcentration: marketCapConcentration(order, valueBySymbol, meta, total),
	}

	series := portfolioReturns(order, weights, returnsBySymbol)
	report.PortfolioReturns = series

	if len(series) >= 2 {
		sd := stat.StdDev(series, nil) * math.Sqrt(tradingDaysPerYear)
		report.AnnualizedStdDev = &sd
		if sd > 0 {
			sharpe := (stat.Mean(series, nil)*tradingDaysPerYear - riskFreeRatePct/100) / sd
			report.SharpeRatio = &sharpe
		}
	}

	if beta, source, ok := portfolioBeta(series, benchmarkReturns, order, weights, meta); ok {
		report.Beta = &beta
		report.BetaSource = source
	}

	return report, nil
}

// portfolioReturns builds the weighted daily return series. The series
// length is the shortest per-symbol series; a symbol with no returns at
// all collapses the series to empty.
func portfolioReturns(symbols []string, weights map[string]float64, returnsBySymbol map[string][]float64) []float64 {
	if len(returnsBySymbol) == 0 {
		return nil
	}
	minLen := -1
	for _, sym := range symbols {
		n := len(returnsBySymbol[sym])
		if minLen < 0 || n < minLen {
			minLen = n
		}
	}
	if minLen <= 0 {
		return nil
	}

	series := make([]float64, minLen)
	for _, sym := range symbols {
		w := weights[sym]
		rets := returnsBySymbol[sym]
		for t := 0; t < minLen; t++ {
			series[t] += w * rets[t]
		}
	}
	return series
}

// portfolioBeta prefers regression against the benchmark series and
// falls back to the value-weighted average of stored metadata betas.
func portfolioBeta(series, benchmark []float64, symbols []string, weights map[string]float64, meta map[string]SymbolMeta) (float64, string, bool) {
	if len(benchmark) > 0 && len(benchmark) == len(series) {
		variance := stat.Variance(benchmark, nil)
		if variance > 0 {
			return stat.Covariance(series, benchmark, nil) / variance, "benchmark", true
		}
	}

	// Symbols without a stored beta drop out of both the numerator and
	// the weight normalization.
	sumW, sumWB := 0.0, 0.0
	for _, sym := range symbols {
		m, ok := meta[sym]
		if !ok || m.Beta == nil || math.IsNaN(*m.Beta) || math.IsInf(*m.Beta, 0) {
			continue
		}
		w := weights[sym]
		sumW += w
		sumWB += w * *m.Beta
	}
	if sumW > 0 {
		return sumWB / sumW, "metadata", true
	}
	return 0, "", false
}

func sectorConcentration(symbols []string, values map[string]float64, meta map[string]SymbolMeta, total float64) map[string]float64 {
	out := make(map[string]float64)
	for _, sym := range symbols {
		sector := UnknownBucket
		if m, ok := meta[sym]; ok && m.Sector != "" {
			sector = m.Sector
		}
		out[sector] += values[sym] / total * 100
	}
	return out
}

func marketCapConcentration(symbols []string, values map[string]float64, meta map[string]SymbolMeta, total float64) map[string]float64 {
	out := make(map[string]float64)
	for _, sym := range symbols {
		bucket := UnknownBucket
		if m, ok := meta[sym]; ok {
			bucket = marketCapBucket(m.MarketCap)
		}
		out[bucket] += values[sym] / total * 100
	}
	return out
}

func marketCapBucket(mc *float64) string {
	v, ok := fval(mc)
	if !ok || v <= 0 {
		return UnknownBucket
	}
	switch {
	case v >= largeCapFloor:
		return "Large Cap"
	case v >= midCapFloor:
		return "Mid Cap"
	default:
		return "Small Cap"
	}
}
