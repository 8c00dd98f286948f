package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoStockPortfolio() []PositionExposure {
	return []PositionExposure{
		{Symbol: "AAA", TotalValue: 6000},
		{Symbol: "BBB", TotalValue: 4000},
	}
}

func twoStockReturns() map[string][]float64 {
	return map[string][]float64{
		"AAA": {0.01, 0.02, -0.01},
		"BBB": {0.00, 0.01, 0.02},
	}
}

func TestAnalyzeRiskGoldenScenario(t *testing.T) {
	benchmark := []float64{0.005, 0.01, 0.0}

	report, err := AnalyzeRisk(twoStockPortfolio(), nil, twoStockReturns(), benchmark, 5)
	require.NoError(t, err)

	assert.Equal(t, 10000.0, report.TotalValue)
	assert.InDelta(t, 0.6, report.Weights["AAA"], 1e-12)
	assert.InDelta(t, 0.4, report.Weights["BBB"], 1e-12)

	// Weighted series: 0.6*AAA + 0.4*BBB per day.
	require.Len(t, report.PortfolioReturns, 3)
	assert.InDelta(t, 0.006, report.PortfolioReturns[0], 1e-12)
	assert.InDelta(t, 0.016, report.PortfolioReturns[1], 1e-12)
	assert.InDelta(t, 0.002, report.PortfolioReturns[2], 1e-12)

	// Sample stddev of the series is sqrt(5.2e-5), annualized by sqrt(252).
	require.NotNil(t, report.AnnualizedStdDev)
	assert.InDelta(t, 0.114473, *report.AnnualizedStdDev, 1e-5)

	// (mean*252 - 5%) / annualized stddev.
	require.NotNil(t, report.SharpeRatio)
	assert.InDelta(t, 17.174, *report.SharpeRatio, 1e-3)

	require.NotNil(t, report.Beta)
	assert.InDelta(t, 1.4, *report.Beta, 1e-9)
	assert.Equal(t, "benchmark", report.BetaSource)
}

func TestAnalyzeRiskBetaFallsBackToMetadata(t *testing.T) {
	meta := map[string]SymbolMeta{
		"AAA": {Beta: f64(1.2)},
		"BBB": {Beta: f64(0.8)},
	}

	report, err := AnalyzeRisk(twoStockPortfolio(), meta, twoStockReturns(), nil, 5)
	require.NoError(t, err)
	require.NotNil(t, report.Beta)
	assert.InDelta(t, 0.6*1.2+0.4*0.8, *report.Beta, 1e-12)
	assert.Equal(t, "metadata", report.BetaSource)
}

func TestAnalyzeRiskMetadataBetaRenormalizesOverKnownSymbols(t *testing.T) {
	meta := map[string]SymbolMeta{
		"AAA": {Beta: f64(1.5)},
		// BBB has no beta and drops out of the average.
	}

	report, err := AnalyzeRisk(twoStockPortfolio(), meta, nil, nil, 5)
	require.NoError(t, err)
	require.NotNil(t, report.Beta)
	assert.InDelta(t, 1.5, *report.Beta, 1e-12)
	assert.Equal(t, "metadata", report.BetaSource)
}

func TestAnalyzeRiskNoBetaWhenNothingAvailable(t *testing.T) {
	report, err := AnalyzeRisk(twoStockPortfolio(), nil, nil, nil, 5)
	require.NoError(t, err)
	assert.Nil(t, report.Beta)
	assert.Empty(t, report.BetaSource)
}

func TestAnalyzeRiskValidation(t *testing.T) {
	_, err := AnalyzeRisk(nil, nil, nil, nil, 5)
	assert.ErrorIs(t, err, ErrEmptyPortfolio)

	_, err = AnalyzeRisk([]PositionExposure{{Symbol: "AAA", TotalValue: 0}}, nil, nil, nil, 5)
	assert.ErrorIs(t, err, ErrNonPositiveValue)
}

func TestAnalyzeRiskStatsUnavailableWithoutReturns(t *testing.T) {
	report, err := AnalyzeRisk(twoStockPortfolio(), nil, nil, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, report.PortfolioReturns)
	assert.Nil(t, report.AnnualizedStdDev)
	assert.Nil(t, report.SharpeRatio)
}

func TestAnalyzeRiskSharpeUnavailableOnFlatSeries(t *testing.T) {
	returns := map[string][]float64{
		"AAA": {0.01, 0.01, 0.01},
		"BBB": {0.01, 0.01, 0.01},
	}

	report, err := AnalyzeRisk(twoStockPortfolio(), nil, returns, nil, 5)
	require.NoError(t, err)
	require.NotNil(t, report.AnnualizedStdDev)
	assert.Zero(t, *report.AnnualizedStdDev)
	assert.Nil(t, report.SharpeRatio, "zero stddev leaves Sharpe undefined")
}

func TestAnalyzeRiskSeriesTruncatedToShortestSymbol(t *testing.T) {
	returns := map[string][]float64{
		"AAA": {0.01, 0.02, -0.01},
		"BBB": {0.00, 0.01},
	}

	report, err := AnalyzeRisk(twoStockPortfolio(), nil, returns, nil, 5)
	require.NoError(t, err)
	assert.Len(t, report.PortfolioReturns, 2)
}

func TestAnalyzeRiskSymbolWithoutReturnsCollapsesSeries(t *testing.T) {
	returns := map[string][]float64{
		"AAA": {0.01, 0.02, -0.01},
	}

	report, err := AnalyzeRisk(twoStockPortfolio(), nil, returns, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, report.PortfolioReturns)
	assert.Nil(t, report.AnnualizedStdDev)
}

func TestAnalyzeRiskConcentration(t *testing.T) {
	positions := []PositionExposure{
		{Symbol: "AAA", TotalValue: 5000},
		{Symbol: "BBB", TotalValue: 3000},
		{Symbol: "CCC", TotalValue: 2000},
	}
	meta := map[string]SymbolMeta{
		"AAA": {Sector: "IT", MarketCap: f64(3e11)},      // large cap
		"BBB": {Sector: "IT", MarketCap: f64(6e10)},      // mid cap
		"CCC": {Sector: "", MarketCap: f64(1e10)},        // small cap, blank sector
	}

	report, err := AnalyzeRisk(positions, meta, nil, nil, 5)
	require.NoError(t, err)

	assert.InDelta(t, 80, report.SectorConcentration["IT"], 1e-9)
	assert.InDelta(t, 20, report.SectorConcentration[UnknownBucket], 1e-9)

	assert.InDelta(t, 50, report.MarketCapConcentration["Large Cap"], 1e-9)
	assert.InDelta(t, 30, report.MarketCapConcentration["Mid Cap"], 1e-9)
	assert.InDelta(t, 20, report.MarketCapConcentration["Small Cap"], 1e-9)
}

func TestAnalyzeRiskMissingMetadataGoesToUnknown(t *testing.T) {
	report, err := AnalyzeRisk(twoStockPortfolio(), map[string]SymbolMeta{}, nil, nil, 5)
	require.NoError(t, err)

	assert.InDelta(t, 100, report.SectorConcentration[UnknownBucket], 1e-9)
	assert.InDelta(t, 100, report.MarketCapConcentration[UnknownBucket], 1e-9)
}

func TestAnalyzeRiskAggregatesRepeatedSymbol(t *testing.T) {
	positions := []PositionExposure{
		{Symbol: "AAA", TotalValue: 3000},
		{Symbol: "AAA", TotalValue: 3000},
		{Symbol: "BBB", TotalValue: 4000},
	}

	report, err := AnalyzeRisk(positions, nil, nil, nil, 5)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, report.Weights["AAA"], 1e-12)
	assert.InDelta(t, 0.4, report.Weights["BBB"], 1e-12)
}

func TestMarketCapBucketBoundaries(t *testing.T) {
	assert.Equal(t, "Large Cap", marketCapBucket(f64(largeCapFloor)))
	assert.Equal(t, "Mid Cap", marketCapBucket(f64(largeCapFloor-1)))
	assert.Equal(t, "Mid Cap", marketCapBucket(f64(midCapFloor)))
	assert.Equal(t, "Small Cap", marketCapBucket(f64(midCapFloor-1)))
	assert.Equal(t, UnknownBucket, marketCapBucket(nil))
	assert.Equal(t, UnknownBucket, marketCapBucket(f64(0)))
}
