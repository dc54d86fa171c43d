package market

import "fmt"

// Regime is a qualitative market-condition classification supplied per
// sizing request by an external signal source.
type Regime string

const (
	Normal         Regime = "normal"
	Bull           Regime = "bull"
	Bear           Regime = "bear"
	HighVolatility Regime = "high_volatility"
)

func ParseRegime(s string) (Regime, error) {
	switch Regime(s) {
	case Normal, Bull, Bear, HighVolatility:
		return Regime(s), nil
	}
	return "", fmt.Errorf("unknown market regime %q", s)
}

// Condition is a transient per-request market snapshot. It is never
// persisted by the sizing core, only echoed into audit records.
type Condition struct {
	Regime               Regime
	VolatilityPercentile float64 // 0..1
}

// DefaultCondition is assumed when a request carries no condition hint.
func DefaultCondition() Condition {
	return Condition{Regime: Normal, VolatilityPercentile: 0.5}
}
