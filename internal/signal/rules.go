package signal

import (
	"math"

	"tradeidea/internal/entity"
)

// ruleInput is the read-only view a criterion evaluates against.
type ruleInput struct {
	tech *entity.TechnicalSnapshot
	fund *entity.FundamentalSnapshot
}

// criterion is a single named pass/fail predicate. A predicate must
// return false for missing or non-finite data; it never panics.
type criterion struct {
	name string
	pass func(in ruleInput) bool
}

// group is an N-of-M set of criteria. need == len(criteria) makes the
// group a hard AND.
type group struct {
	name     string
	need     int
	criteria []criterion
}

func andGroup(name string, criteria ...criterion) group {
	return group{name: name, need: len(criteria), criteria: criteria}
}

func nOfM(name string, need int, criteria ...criterion) group {
	return group{name: name, need: need, criteria: criteria}
}

// GroupScore reports how one criteria group scored.
type GroupScore struct {
	Met   int `json:"met"`
	Need  int `json:"need"`
	Total int `json:"total"`
}

// evalGroups runs every group, counting each criterion exactly once.
func evalGroups(groups []group, in ruleInput) (suitable bool, met, total int, sub map[string]GroupScore, failed []string) {
	suitable = true
	sub = make(map[string]GroupScore, len(groups))
	for _, g := range groups {
		groupMet := 0
		for _, c := range g.criteria {
			total++
			if c.pass(in) {
				groupMet++
				met++
			} else {
				failed = append(failed, g.name+": "+c.name)
			}
		}
		sub[g.name] = GroupScore{Met: groupMet, Need: g.need, Total: len(g.criteria)}
		if groupMet < g.need {
			suitable = false
		}
	}
	return suitable, met, total, sub, failed
}

// fval unwraps an optional float. Missing, NaN and Inf all read as
// absent so a bad feed value fails the criterion instead of crashing.
func fval(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return 0, false
	}
	return *p, true
}

func bval(p *bool) (bool, bool) {
	if p == nil {
		return false, false
	}
	return *p, true
}

// ratio returns a/b, guarding the zero denominator.
func ratio(a, b float64) (float64, bool) {
	if b == 0 {
		return 0, false
	}
	r := a / b
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// ---- shared technical predicates ----

func lastPrice(in ruleInput) (float64, bool) {
	if in.tech == nil {
		return 0, false
	}
	return fval(in.tech.LastPrice)
}

// priceAbove builds a criterion checking price > the given level field.
func priceAbove(name string, level func(t *entity.TechnicalSnapshot) *float64) criterion {
	return criterion{name: name, pass: func(in ruleInput) bool {
		p, ok := lastPrice(in)
		if !ok {
			return false
		}
		l, ok := fval(level(in.tech))
		return ok && p > l
	}}
}

func rsiBetween(lo, hi float64) criterion {
	return criterion{name: rsiRangeName(lo, hi), pass: func(in ruleInput) bool {
		if in.tech == nil {
			return false
		}
		r, ok := fval(in.tech.RSI)
		return ok && r >= lo && r <= hi
	}}
}

func rsiRangeName(lo, hi float64) string {
	return "RSI " + trimFloat(lo) + "-" + trimFloat(hi)
}

func macdBullish() criterion {
	return criterion{name: "MACD bullish", pass: func(in ruleInput) bool {
		if in.tech == nil {
			return false
		}
		m, ok1 := fval(in.tech.MACD)
		s, ok2 := fval(in.tech.MACDSignal)
		return ok1 && ok2 && m > s
	}}
}

func macdHistAboveSignal() criterion {
	return criterion{name: "MACD histogram above signal", pass: func(in ruleInput) bool {
		if in.tech == nil {
			return false
		}
		h, ok1 := fval(in.tech.MACDHistogram)
		s, ok2 := fval(in.tech.MACDSignal)
		return ok1 && ok2 && h > s
	}}
}

func goldenCross() criterion {
	return criterion{name: "golden cross", pass: func(in ruleInput) bool {
		if in.tech == nil {
			return false
		}
		gc, ok := bval(in.tech.GoldenCross)
		return ok && gc
	}}
}

func supertrendBullish() criterion {
	return criterion{name: "supertrend bullish", pass: func(in ruleInput) bool {
		if in.tech == nil {
			return false
		}
		d := in.tech.SupertrendDirection
		return d != nil && *d > 0
	}}
}

func overallSignalIn(signals ...entity.OverallSignal) criterion {
	return criterion{name: "overall signal bullish", pass: func(in ruleInput) bool {
		if in.tech == nil || in.tech.OverallSignal == nil {
			return false
		}
		for _, s := range signals {
			if *in.tech.OverallSignal == s {
				return true
			}
		}
		return false
	}}
}

func withinBollingerBands() criterion {
	return criterion{name: "price within Bollinger Bands", pass: func(in ruleInput) bool {
		p, ok := lastPrice(in)
		if !ok {
			return false
		}
		up, ok1 := fval(in.tech.BollingerUpper)
		lo, ok2 := fval(in.tech.BollingerLower)
		return ok1 && ok2 && p >= lo && p <= up
	}}
}

func belowBollingerUpper() criterion {
	return criterion{name: "price below Bollinger upper", pass: func(in ruleInput) bool {
		p, ok := lastPrice(in)
		if !ok {
			return false
		}
		up, ok1 := fval(in.tech.BollingerUpper)
		return ok1 && p < up
	}}
}

// volumeAtLeast passes when volume ≥ frac × 20-day volume average.
func volumeAtLeast(name string, frac float64) criterion {
	return criterion{name: name, pass: func(in ruleInput) bool {
		if in.tech == nil {
			return false
		}
		v, ok1 := fval(in.tech.Volume)
		avg, ok2 := fval(in.tech.VolumeMA20)
		return ok1 && ok2 && avg > 0 && v >= frac*avg
	}}
}

// volumeSpikeOrAtLeast passes on a volume spike (≥1.5× average) or on
// volume ≥ frac × average.
func volumeSpikeOrAtLeast(frac float64) criterion {
	spike := volumeAtLeast("spike", 1.5)
	floor := volumeAtLeast("floor", frac)
	return criterion{name: "volume spike or near average", pass: func(in ruleInput) bool {
		return spike.pass(in) || floor.pass(in)
	}}
}

// priceWithinOfSMA200 passes when price/SMA200 < limit (e.g. 1.10).
func priceWithinOfSMA200(limit float64) criterion {
	return criterion{name: "price within 10% of SMA200", pass: func(in ruleInput) bool {
		p, ok := lastPrice(in)
		if !ok {
			return false
		}
		sma, ok1 := fval(in.tech.SMA200)
		if !ok1 {
			return false
		}
		r, ok2 := ratio(p, sma)
		return ok2 && r < limit
	}}
}

// ---- shared fundamental predicates ----

func fundBelow(name string, field func(f *entity.FundamentalSnapshot) *float64, limit float64) criterion {
	return criterion{name: name, pass: func(in ruleInput) bool {
		if in.fund == nil {
			return false
		}
		v, ok := fval(field(in.fund))
		return ok && v < limit
	}}
}

func fundAtLeast(name string, field func(f *entity.FundamentalSnapshot) *float64, min float64) criterion {
	return criterion{name: name, pass: func(in ruleInput) bool {
		if in.fund == nil {
			return false
		}
		v, ok := fval(field(in.fund))
		return ok && v >= min
	}}
}

func fundAbove(name string, field func(f *entity.FundamentalSnapshot) *float64, min float64) criterion {
	return criterion{name: name, pass: func(in ruleInput) bool {
		if in.fund == nil {
			return false
		}
		v, ok := fval(field(in.fund))
		return ok && v > min
	}}
}

func ratingIn(ratings ...entity.FundamentalRating) criterion {
	return criterion{name: "fundamental rating", pass: func(in ruleInput) bool {
		if in.fund == nil || in.fund.FundamentalRating == nil {
			return false
		}
		for _, r := range ratings {
			if *in.fund.FundamentalRating == r {
				return true
			}
		}
		return false
	}}
}

func trimFloat(v float64) string {
	return Price(v)
}
