package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morningtrading/sizer/exposure"
	"github.com/morningtrading/sizer/market"
	"github.com/morningtrading/sizer/risk"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('decisions','spec_changes')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["decisions"])
	assert.True(t, found["spec_changes"])
}

func TestSQLiteRecordDecisionRoundTrip(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	req := risk.SizingRequest{
		Symbol:        "BTCUSD",
		Direction:     "BUY",
		AccountEquity: 100_000,
		Condition: &market.Condition{
			Regime:               market.HighVolatility,
			VolatilityPercentile: 0.9,
		},
		ReferencePrice: 43_000,
	}
	d := risk.Decision{
		Approved:    true,
		Lot:         0.01,
		Coefficient: 0.275,
		Notional:    430,
	}
	before := exposure.Snapshot{Total: 1_000, PerSymbol: map[string]float64{"BTCUSD": 500}}
	after := exposure.Snapshot{Total: 1_430, PerSymbol: map[string]float64{"BTCUSD": 930}}

	j.Record(req, d, before, after)

	recs, err := j.ListDecisionsBetween(time.Now().UTC().Add(-time.Minute), time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.NotEmpty(t, rec.DecisionID)
	assert.Equal(t, "BTCUSD", rec.Symbol)
	assert.Equal(t, "BUY", rec.Direction)
	assert.Equal(t, "high_volatility", rec.Regime)
	assert.InDelta(t, 0.9, rec.VolatilityPercentile, 1e-9)
	assert.InDelta(t, 43_000, rec.ReferencePrice, 1e-6)
	assert.True(t, rec.Approved)
	assert.InDelta(t, 0.01, rec.Lot, 1e-9)
	assert.InDelta(t, 0.275, rec.Coefficient, 1e-9)
	assert.InDelta(t, 430, rec.Notional, 1e-6)
	assert.InDelta(t, 1_000, rec.TotalBefore, 1e-6)
	assert.InDelta(t, 1_430, rec.TotalAfter, 1e-6)
	assert.InDelta(t, 500, rec.SymbolBefore, 1e-6)
	assert.InDelta(t, 930, rec.SymbolAfter, 1e-6)
}

func TestSQLiteRecordRejection(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	req := risk.SizingRequest{Symbol: "FOO123", AccountEquity: 50_000}
	d := risk.Decision{
		Reason: risk.ReasonUnknownSymbol,
		Detail: "symbol FOO123 is not registered; onboard it first",
	}
	snap := exposure.Snapshot{PerSymbol: map[string]float64{}}

	j.Record(req, d, snap, snap)

	recs, err := j.ListDecisionsBetween(time.Now().UTC().Add(-time.Minute), time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.False(t, recs[0].Approved)
	assert.Equal(t, string(risk.ReasonUnknownSymbol), recs[0].Reason)
	assert.Equal(t, "", recs[0].Regime, "absent condition is journaled as empty")
}

func TestSQLiteRecordSpecChange(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	old := market.SymbolSpec{
		Symbol: "BTCUSD", Class: market.Crypto,
		MinLot: 0.01, LotStep: 0.01, MaxLot: 100, ContractSize: 1,
		BaseCoefficient: 1.0, CoefficientCap: 1.0,
	}
	updated := old
	updated.BaseCoefficient = 0.8

	require.NoError(t, j.RecordSpecChange(old, updated))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var symbol, oldSpec, newSpec string
	err = db.QueryRow(`SELECT symbol, old_spec, new_spec FROM spec_changes LIMIT 1`).
		Scan(&symbol, &oldSpec, &newSpec)
	require.NoError(t, err)

	assert.Equal(t, "BTCUSD", symbol)
	assert.Contains(t, oldSpec, `"BaseCoefficient":1`)
	assert.Contains(t, newSpec, `"BaseCoefficient":0.8`)
}
