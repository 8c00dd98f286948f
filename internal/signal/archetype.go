package signal

import "tradeidea/internal/entity"

// Archetype is one of the five named investor profiles.
type Archetype string

const (
	ArchetypeValue    Archetype = "Value"
	ArchetypeGrowth   Archetype = "Growth"
	ArchetypeMomentum Archetype = "Momentum"
	ArchetypeQuality  Archetype = "Quality"
	ArchetypeDividend Archetype = "Dividend"
)

// Archetypes returns the profiles in their published order.
func Archetypes() []Archetype {
	return []Archetype{ArchetypeValue, ArchetypeGrowth, ArchetypeMomentum, ArchetypeQuality, ArchetypeDividend}
}

// ArchetypeResult is the suitability verdict for one profile.
type ArchetypeResult struct {
	Archetype        Archetype             `json:"archetype"`
	Suitable         bool                  `json:"suitable"`
	ScoreMet         int                   `json:"score_met"`
	ScoreTotal       int                   `json:"score_total"`
	SubScores        map[string]GroupScore `json:"sub_scores"`
	FailedCriteria   []string              `json:"failed_criteria,omitempty"`
	InsufficientData bool                  `json:"insufficient_data,omitempty"`
	Note             string                `json:"note,omitempty"`
}

// ScoreArchetypes evaluates a symbol's snapshots against all five
// profiles. Pure; both snapshots may be nil or partially filled, in which
// case individual criteria fail rather than the call erroring.
func ScoreArchetypes(tech *entity.TechnicalSnapshot, fund *entity.FundamentalSnapshot) []ArchetypeResult {
	in := ruleInput{tech: tech, fund: fund}
	results := make([]ArchetypeResult, 0, 5)
	for _, a := range Archetypes() {
		results = append(results, scoreArchetype(a, in))
	}
	return results
}

func scoreArchetype(a Archetype, in ruleInput) ArchetypeResult {
	groups := archetypeGroups(a)

	// The anchor field is the one input the profile cannot be judged
	// without. When it is absent the whole verdict is insufficient data,
	// not a sea of failed criteria.
	if field, ok := anchorMissing(a, in); ok {
		total := 0
		for _, g := range groups {
			total += len(g.criteria)
		}
		return ArchetypeResult{
			Archetype:        a,
			Suitable:         false,
			ScoreMet:         0,
			ScoreTotal:       total,
			SubScores:        map[string]GroupScore{},
			InsufficientData: true,
			Note:             "insufficient data: " + field + " missing",
		}
	}

	suitable, met, total, sub, failed := evalGroups(groups, in)
	return ArchetypeResult{
		Archetype:      a,
		Suitable:       suitable,
		ScoreMet:       met,
		ScoreTotal:     total,
		SubScores:      sub,
		FailedCriteria: failed,
	}
}

// anchorMissing reports the archetype's anchor field when it is absent.
func anchorMissing(a Archetype, in ruleInput) (string, bool) {
	switch a {
	case ArchetypeValue, ArchetypeQuality:
		if in.fund == nil {
			return "fundamentalScore", true
		}
		if _, ok := fval(in.fund.FundamentalScore); !ok {
			return "fundamentalScore", true
		}
	case ArchetypeGrowth, ArchetypeMomentum:
		if _, ok := lastPrice(in); !ok {
			return "lastPrice", true
		}
	case ArchetypeDividend:
		if in.fund == nil {
			return "dividendYield", true
		}
		if _, ok := fval(in.fund.DividendYield); !ok {
			return "dividendYield", true
		}
	}
	return "", false
}

func archetypeGroups(a Archetype) []group {
	switch a {
	case ArchetypeValue:
		return valueGroups()
	case ArchetypeGrowth:
		return growthGroups()
	case ArchetypeMomentum:
		return momentumGroups()
	case ArchetypeQuality:
		return qualityGroups()
	case ArchetypeDividend:
		return dividendGroups()
	}
	return nil
}

func valueGroups() []group {
	return []group{
		andGroup("valuation",
			fundBelow("P/B below 5", func(f *entity.FundamentalSnapshot) *float64 { return f.PriceToBook }, 5.0),
			fundBelow("P/S below 5", func(f *entity.FundamentalSnapshot) *float64 { return f.PriceToSales }, 5.0),
			fundBelow("forward P/E below 20", func(f *entity.FundamentalSnapshot) *float64 { return f.PERatioForward }, 20.0),
			fundBelow("trailing P/E below 25", func(f *entity.FundamentalSnapshot) *float64 { return f.PERatioTrailing }, 25.0),
			fundAtLeast("fundamental score at least 60", func(f *entity.FundamentalSnapshot) *float64 { return f.FundamentalScore }, 60),
			fundAtLeast("profit margin at least 15%", func(f *entity.FundamentalSnapshot) *float64 { return f.ProfitMargin }, 15.0),
			fundAtLeast("operating margin at least 20%", func(f *entity.FundamentalSnapshot) *float64 { return f.OperatingMargin }, 20.0),
			fundBelow("debt/equity below 1.0", func(f *entity.FundamentalSnapshot) *float64 { return f.DebtToEquity }, 1.0),
			priceWithinOfSMA200(1.10),
		),
		nOfM("technical confirmation", 2,
			priceAbove("price above SMA200", func(t *entity.TechnicalSnapshot) *float64 { return t.SMA200 }),
			rsiBetween(30, 60),
			belowBollingerUpper(),
		),
	}
}

func growthGroups() []group {
	return []group{
		nOfM("growth", 3,
			fundAtLeast("earnings growth at least 15%", func(f *entity.FundamentalSnapshot) *float64 { return f.EarningsGrowth }, 15.0),
			fundAtLeast("quarterly earnings growth at least 12%", func(f *entity.FundamentalSnapshot) *float64 { return f.QuarterlyEarningsGrowth }, 12.0),
			fundAtLeast("revenue growth at least 8%", func(f *entity.FundamentalSnapshot) *float64 { return f.RevenueGrowth }, 8.0),
			criterion{name: "positive price change", pass: func(in ruleInput) bool {
				if in.tech == nil {
					return false
				}
				c, ok := fval(in.tech.PriceChangePct)
				return ok && c > 0
			}},
		),
		nOfM("momentum", 4,
			goldenCross(),
			macdBullish(),
			macdHistAboveSignal(),
			rsiBetween(50, 70),
			priceAbove("price above EMA50", func(t *entity.TechnicalSnapshot) *float64 { return t.EMA50 }),
			supertrendBullish(),
		),
		andGroup("hard",
			// PEG absent counts as a pass here; the published guide only
			// documents the exception for the Growth profile. A present
			// but non-finite value still fails.
			criterion{name: "PEG below 2.0 or unavailable", pass: func(in ruleInput) bool {
				if in.fund == nil || in.fund.PEGRatio == nil {
					return true
				}
				peg, ok := fval(in.fund.PEGRatio)
				return ok && peg < 2.0
			}},
			priceAbove("price above SMA200", func(t *entity.TechnicalSnapshot) *float64 { return t.SMA200 }),
			volumeAtLeast("volume at least 50% of average", 0.5),
			overallSignalIn(entity.SignalBuy, entity.SignalStrongBuy),
		),
	}
}

func momentumGroups() []group {
	return []group{
		nOfM("momentum signals", 5,
			goldenCross(),
			macdBullish(),
			macdHistAboveSignal(),
			rsiBetween(50, 70),
			supertrendBullish(),
			criterion{name: "EMA50 above SMA200", pass: func(in ruleInput) bool {
				if in.tech == nil {
					return false
				}
				e, ok1 := fval(in.tech.EMA50)
				s, ok2 := fval(in.tech.SMA200)
				return ok1 && ok2 && e > s
			}},
			priceAbove("price above EMA9", func(t *entity.TechnicalSnapshot) *float64 { return t.EMA9 }),
		),
		andGroup("hard",
			priceAbove("price above SMA20", func(t *entity.TechnicalSnapshot) *float64 { return t.SMA20 }),
			priceAbove("price above SMA50", func(t *entity.TechnicalSnapshot) *float64 { return t.SMA50 }),
			criterion{name: "RSI below 70", pass: func(in ruleInput) bool {
				if in.tech == nil {
					return false
				}
				r, ok := fval(in.tech.RSI)
				return ok && r < 70
			}},
			withinBollingerBands(),
			volumeSpikeOrAtLeast(0.8),
			priceAbove("price above supertrend", func(t *entity.TechnicalSnapshot) *float64 { return t.Supertrend }),
		),
	}
}

func qualityGroups() []group {
	return []group{
		nOfM("quality", 5,
			fundAtLeast("operating margin at least 25%", func(f *entity.FundamentalSnapshot) *float64 { return f.OperatingMargin }, 25.0),
			fundAtLeast("profit margin at least 20%", func(f *entity.FundamentalSnapshot) *float64 { return f.ProfitMargin }, 20.0),
			ratingIn(entity.RatingGood, entity.RatingExcellent),
			fundAtLeast("fundamental score at least 65", func(f *entity.FundamentalSnapshot) *float64 { return f.FundamentalScore }, 65),
			fundBelow("debt/equity below 1.5", func(f *entity.FundamentalSnapshot) *float64 { return f.DebtToEquity }, 1.5),
			fundAtLeast("earnings growth at least 10%", func(f *entity.FundamentalSnapshot) *float64 { return f.EarningsGrowth }, 10.0),
			fundAbove("dividend yield above 0", func(f *entity.FundamentalSnapshot) *float64 { return f.DividendYield }, 0),
		),
		nOfM("technical confirmation", 3,
			priceAbove("price above SMA200", func(t *entity.TechnicalSnapshot) *float64 { return t.SMA200 }),
			macdBullish(),
			rsiBetween(45, 65),
			supertrendBullish(),
			overallSignalIn(entity.SignalBuy, entity.SignalStrongBuy),
		),
		nOfM("additional", 3,
			fundBelow("beta below 1.0", func(f *entity.FundamentalSnapshot) *float64 { return f.Beta }, 1.0),
			fundAtLeast("earnings growth at least 8%", func(f *entity.FundamentalSnapshot) *float64 { return f.EarningsGrowth }, 8.0),
			fundAtLeast("quarterly earnings growth at least 10%", func(f *entity.FundamentalSnapshot) *float64 { return f.QuarterlyEarningsGrowth }, 10.0),
			fundBelow("forward P/E below 50", func(f *entity.FundamentalSnapshot) *float64 { return f.PERatioForward }, 50.0),
			fundBelow("P/B below 10", func(f *entity.FundamentalSnapshot) *float64 { return f.PriceToBook }, 10.0),
		),
	}
}

func dividendGroups() []group {
	return []group{
		andGroup("income",
			fundAtLeast("dividend yield at least 2.5%", func(f *entity.FundamentalSnapshot) *float64 { return f.DividendYield }, 2.5),
			criterion{name: "payout ratio between 0% and 70%", pass: func(in ruleInput) bool {
				if in.fund == nil {
					return false
				}
				p, ok := fval(in.fund.PayoutRatio)
				return ok && p > 0 && p <= 70.0
			}},
			fundAtLeast("earnings growth at least 0%", func(f *entity.FundamentalSnapshot) *float64 { return f.EarningsGrowth }, 0),
			fundBelow("forward P/E below 25", func(f *entity.FundamentalSnapshot) *float64 { return f.PERatioForward }, 25.0),
			fundBelow("P/B below 5", func(f *entity.FundamentalSnapshot) *float64 { return f.PriceToBook }, 5.0),
		),
		nOfM("stability", 4,
			fundBelow("debt/equity below 1.2", func(f *entity.FundamentalSnapshot) *float64 { return f.DebtToEquity }, 1.2),
			fundBelow("beta below 0.8", func(f *entity.FundamentalSnapshot) *float64 { return f.Beta }, 0.8),
			fundAtLeast("profit margin at least 10%", func(f *entity.FundamentalSnapshot) *float64 { return f.ProfitMargin }, 10.0),
			fundAtLeast("fundamental score at least 60", func(f *entity.FundamentalSnapshot) *float64 { return f.FundamentalScore }, 60),
			fundAtLeast("current ratio at least 1.5", func(f *entity.FundamentalSnapshot) *float64 { return f.CurrentRatio }, 1.5),
		),
		nOfM("technical confirmation", 2,
			priceAbove("price above SMA200", func(t *entity.TechnicalSnapshot) *float64 { return t.SMA200 }),
			rsiBetween(35, 65),
			macdBullish(),
		),
	}
}
