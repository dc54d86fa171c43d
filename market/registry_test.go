package market

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func btcSpec() SymbolSpec {
	return SymbolSpec{
		Symbol:          "BTCUSD",
		Class:           Crypto,
		MinLot:          0.01,
		LotStep:         0.01,
		MaxLot:          100,
		ContractSize:    1,
		BaseCoefficient: 1.0,
		CoefficientCap:  1.0,
	}
}

func TestSpecValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*SymbolSpec)
		wantErr bool
	}{
		{"valid", func(s *SymbolSpec) {}, false},
		{"missing symbol", func(s *SymbolSpec) { s.Symbol = "" }, true},
		{"bad class", func(s *SymbolSpec) { s.Class = "equity" }, true},
		{"zero min lot", func(s *SymbolSpec) { s.MinLot = 0 }, true},
		{"negative min lot", func(s *SymbolSpec) { s.MinLot = -0.01 }, true},
		{"zero lot step", func(s *SymbolSpec) { s.LotStep = 0 }, true},
		{"zero max lot", func(s *SymbolSpec) { s.MaxLot = 0 }, true},
		{"zero contract size", func(s *SymbolSpec) { s.ContractSize = 0 }, true},
		{"coefficient over cap", func(s *SymbolSpec) { s.BaseCoefficient = 2; s.CoefficientCap = 1 }, true},
		{"negative coefficient", func(s *SymbolSpec) { s.BaseCoefficient = -1 }, true},
		{"zero cap", func(s *SymbolSpec) { s.CoefficientCap = 0 }, true},
		// min_lot > max_lot is a sizing-time rejection, not a spec error
		{"min over max", func(s *SymbolSpec) { s.MinLot = 200 }, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			spec := btcSpec()
			tt.mutate(&spec)
			err := spec.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSpec)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegistryLookupUnknown(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, err := r.Lookup("FOO123")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestRegistryRegisterIdempotent(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register(btcSpec()))
	assert.NoError(t, r.Register(btcSpec()), "identical duplicate is a no-op")
	assert.Equal(t, 1, r.Len())

	changed := btcSpec()
	changed.BaseCoefficient = 0.5
	assert.ErrorIs(t, r.Register(changed), ErrInvalidSpec,
		"conflicting duplicate must be rejected")
}

func TestRegistryRegisterInvalid(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	bad := btcSpec()
	bad.MinLot = 0
	assert.ErrorIs(t, r.Register(bad), ErrInvalidSpec)
	assert.Equal(t, 0, r.Len(), "failed register must not mutate the registry")
}

func TestRegistryUpdate(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register(btcSpec()))

	coeff := 0.8
	old, updated, err := r.Update("BTCUSD", SpecPatch{BaseCoefficient: &coeff})
	require.NoError(t, err)
	assert.Equal(t, 1.0, old.BaseCoefficient)
	assert.Equal(t, 0.8, updated.BaseCoefficient)

	got, err := r.Lookup("BTCUSD")
	require.NoError(t, err)
	assert.Equal(t, 0.8, got.BaseCoefficient)
}

func TestRegistryUpdateInvalidKeepsOld(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register(btcSpec()))

	coeff := 5.0 // over the cap of 1.0
	_, _, err := r.Update("BTCUSD", SpecPatch{BaseCoefficient: &coeff})
	assert.ErrorIs(t, err, ErrInvalidSpec)

	got, lerr := r.Lookup("BTCUSD")
	require.NoError(t, lerr)
	assert.Equal(t, 1.0, got.BaseCoefficient, "registry must keep the prior valid spec")
}

func TestRegistryUpdateUnknown(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	coeff := 1.0
	_, _, err := r.Update("FOO123", SpecPatch{BaseCoefficient: &coeff})
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestRegistryConcurrentReaders(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register(btcSpec()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				spec, err := r.Lookup("BTCUSD")
				if assert.NoError(t, err) {
					// invariant must hold in every observed snapshot
					assert.LessOrEqual(t, spec.BaseCoefficient, spec.CoefficientCap)
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		coeff := float64(i%10) / 10.0
		_, _, err := r.Update("BTCUSD", SpecPatch{BaseCoefficient: &coeff})
		require.NoError(t, err)
	}
	wg.Wait()
}

func TestParseRegime(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"normal", "bull", "bear", "high_volatility"} {
		got, err := ParseRegime(s)
		assert.NoError(t, err)
		assert.Equal(t, Regime(s), got)
	}
	_, err := ParseRegime("sideways")
	assert.Error(t, err)
}
