package risk

import "github.com/morningtrading/sizer/market"

// Regime multipliers scale the operator-assigned coefficient before the
// volatility dampener. Values above 1 are allowed here because the symbol's
// coefficient cap is the backstop, not this table.
var regimeMultipliers = map[market.Regime]float64{
	market.Normal:         1.0,
	market.Bull:           1.1,
	market.Bear:           0.7,
	market.HighVolatility: 0.5,
}

// volDampFloor keeps extreme volatility readings from collapsing the
// effective coefficient to a degenerate zero size.
const volDampFloor = 0.2

// Adjust computes the effective coefficient for a request: regime
// multiplier, then continuous volatility dampening, then a hard clamp to
// [0, cap]. Pure function, no side effects.
func Adjust(base float64, cond market.Condition, cap float64) float64 {
	mult, ok := regimeMultipliers[cond.Regime]
	if !ok {
		mult = 1.0
	}

	vol := cond.VolatilityPercentile
	if vol < 0 {
		vol = 0
	} else if vol > 1 {
		vol = 1
	}
	damp := 1 - 0.5*vol
	if damp < volDampFloor {
		damp = volDampFloor
	}

	eff := base * mult * damp
	if eff < 0 {
		return 0
	}
	if eff > cap {
		return cap
	}
	return eff
}
