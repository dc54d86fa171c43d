package market

import (
	"errors"
	"fmt"
)

// AssetClass classifies a symbol for coefficient defaults and reporting.
type AssetClass string

const (
	Forex         AssetClass = "forex"
	Crypto        AssetClass = "crypto"
	Index         AssetClass = "index"
	Commodity     AssetClass = "commodity"
	PreciousMetal AssetClass = "precious_metal"
)

// ParseAssetClass converts a config string into an AssetClass.
func ParseAssetClass(s string) (AssetClass, error) {
	switch AssetClass(s) {
	case Forex, Crypto, Index, Commodity, PreciousMetal:
		return AssetClass(s), nil
	}
	return "", fmt.Errorf("%w: unknown asset class %q", ErrInvalidSpec, s)
}

// SymbolSpec holds the per-symbol trading constraints used for sizing.
// Specs are immutable once registered; changes go through Registry.Update.
type SymbolSpec struct {
	Symbol       string
	Class        AssetClass
	MinLot       float64
	LotStep      float64
	MaxLot       float64
	ContractSize float64

	// BaseCoefficient is the operator-assigned risk multiplier applied to
	// MinLot. CoefficientCap is the hard ceiling no market condition may
	// push the effective coefficient past.
	BaseCoefficient float64
	CoefficientCap  float64
}

var (
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrInvalidSpec   = errors.New("invalid symbol spec")
)

// Validate checks the spec invariants enforced at registration time.
// MinLot > MaxLot is deliberately not checked here: that misconfiguration
// is surfaced as a BelowMinLot rejection at sizing time.
func (s SymbolSpec) Validate() error {
	if s.Symbol == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidSpec)
	}
	if _, err := ParseAssetClass(string(s.Class)); err != nil {
		return err
	}
	if s.MinLot <= 0 {
		return fmt.Errorf("%w: %s min_lot must be positive, got %g", ErrInvalidSpec, s.Symbol, s.MinLot)
	}
	if s.LotStep <= 0 {
		return fmt.Errorf("%w: %s lot_step must be positive, got %g", ErrInvalidSpec, s.Symbol, s.LotStep)
	}
	if s.MaxLot <= 0 {
		return fmt.Errorf("%w: %s max_lot must be positive, got %g", ErrInvalidSpec, s.Symbol, s.MaxLot)
	}
	if s.ContractSize <= 0 {
		return fmt.Errorf("%w: %s contract_size must be positive, got %g", ErrInvalidSpec, s.Symbol, s.ContractSize)
	}
	if s.BaseCoefficient < 0 {
		return fmt.Errorf("%w: %s coefficient must be non-negative, got %g", ErrInvalidSpec, s.Symbol, s.BaseCoefficient)
	}
	if s.CoefficientCap <= 0 {
		return fmt.Errorf("%w: %s coefficient_cap must be positive, got %g", ErrInvalidSpec, s.Symbol, s.CoefficientCap)
	}
	if s.BaseCoefficient > s.CoefficientCap {
		return fmt.Errorf("%w: %s coefficient %g exceeds cap %g",
			ErrInvalidSpec, s.Symbol, s.BaseCoefficient, s.CoefficientCap)
	}
	return nil
}
