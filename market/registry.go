package market

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the canonical store of validated symbol specs. Lookups are
// frequent and concurrent; registrations and updates are rare and exclusive.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]SymbolSpec
}

func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]SymbolSpec)}
}

// Lookup returns the spec for a symbol or ErrUnknownSymbol.
func (r *Registry) Lookup(symbol string) (SymbolSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.specs[symbol]
	if !ok {
		return SymbolSpec{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return spec, nil
}

// Register validates and stores a new spec. Registering an identical spec
// twice is a no-op; registering a different spec under an existing symbol is
// rejected so onboarding scripts cannot silently clobber live constraints.
func (r *Registry) Register(spec SymbolSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.specs[spec.Symbol]; ok {
		if existing == spec {
			return nil
		}
		return fmt.Errorf("%w: %s already registered with different constraints; use Update",
			ErrInvalidSpec, spec.Symbol)
	}
	r.specs[spec.Symbol] = spec
	return nil
}

// SpecPatch carries the fields Update may change. Nil fields are left as-is.
type SpecPatch struct {
	BaseCoefficient *float64
	CoefficientCap  *float64
	MinLot          *float64
	MaxLot          *float64
}

// Update applies a patch to an existing spec, re-validating the merged
// result before committing. Readers never observe a partially-applied
// patch: the swap happens under the write lock only after validation.
// The previous and new spec are returned for audit journaling.
func (r *Registry) Update(symbol string, patch SpecPatch) (old, updated SymbolSpec, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.specs[symbol]
	if !ok {
		return SymbolSpec{}, SymbolSpec{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}

	updated = old
	if patch.BaseCoefficient != nil {
		updated.BaseCoefficient = *patch.BaseCoefficient
	}
	if patch.CoefficientCap != nil {
		updated.CoefficientCap = *patch.CoefficientCap
	}
	if patch.MinLot != nil {
		updated.MinLot = *patch.MinLot
	}
	if patch.MaxLot != nil {
		updated.MaxLot = *patch.MaxLot
	}

	if err := updated.Validate(); err != nil {
		return SymbolSpec{}, SymbolSpec{}, err
	}
	r.specs[symbol] = updated
	return old, updated, nil
}

// Symbols returns the registered symbols in sorted order.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.specs))
	for s := range r.specs {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered symbols.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.specs)
}
