package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/morningtrading/sizer/market"
)

func TestAdjustRegimeTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		regime market.Regime
		vol    float64
		base   float64
		cap    float64
		want   float64
	}{
		{"normal mid vol", market.Normal, 0.5, 1.0, 5.0, 0.75},
		{"bull low vol", market.Bull, 0.0, 1.0, 5.0, 1.1},
		{"bear mid vol", market.Bear, 0.5, 1.0, 5.0, 0.525},
		{"high volatility", market.HighVolatility, 0.5, 2.0, 5.0, 0.75},
		{"zero base", market.Bull, 0.0, 0.0, 5.0, 0.0},
		{"unknown regime treated as normal", market.Regime("sideways"), 0.0, 1.0, 5.0, 1.0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Adjust(tt.base, market.Condition{Regime: tt.regime, VolatilityPercentile: tt.vol}, tt.cap)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestAdjustVolatilityDampeningFloor(t *testing.T) {
	t.Parallel()

	// full dampening would be 1 - 0.5*1.0 = 0.5, still above the 0.2 floor
	got := Adjust(1.0, market.Condition{Regime: market.Normal, VolatilityPercentile: 1.0}, 5.0)
	assert.InDelta(t, 0.5, got, 1e-12)

	// out-of-range percentiles are clamped, not rejected
	got = Adjust(1.0, market.Condition{Regime: market.Normal, VolatilityPercentile: 7.0}, 5.0)
	assert.InDelta(t, 0.5, got, 1e-12)

	got = Adjust(1.0, market.Condition{Regime: market.Normal, VolatilityPercentile: -3.0}, 5.0)
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestAdjustCapClamp(t *testing.T) {
	t.Parallel()

	// cap holds for every regime even with an aggressive base coefficient
	for regime := range regimeMultipliers {
		for _, vol := range []float64{0, 0.25, 0.5, 1} {
			cond := market.Condition{Regime: regime, VolatilityPercentile: vol}
			got := Adjust(50.0, cond, 1.0)
			assert.LessOrEqual(t, got, 1.0, "regime %s vol %g", regime, vol)
			assert.GreaterOrEqual(t, got, 0.0)
		}
	}
}

func TestAdjustScenarioBTCUSD(t *testing.T) {
	t.Parallel()

	// base 2.0 capped at 1.0 under normal conditions: the dampened value
	// 2.0*1.0*0.75 = 1.5 still exceeds the cap and clamps to 1.0
	got := Adjust(2.0, market.DefaultCondition(), 1.0)
	assert.InDelta(t, 1.0, got, 1e-12)
}
