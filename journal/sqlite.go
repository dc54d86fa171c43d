package journal

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/morningtrading/sizer/exposure"
	"github.com/morningtrading/sizer/market"
	"github.com/morningtrading/sizer/monitoring"
	"github.com/morningtrading/sizer/pkg/id"
	"github.com/morningtrading/sizer/risk"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// Record appends one decision row. Write failures are logged and counted
// but never surfaced: auditing must not block the trading path.
func (j *SQLite) Record(req risk.SizingRequest, d risk.Decision, before, after exposure.Snapshot) {
	rec := newRecord(req, d, before, after, id.New(), time.Now().UTC())
	if err := j.insert(rec); err != nil {
		log.Printf("journal: record decision %s: %v", rec.DecisionID, err)
		monitoring.RecordAuditError()
	}
}

func (j *SQLite) insert(rec AuditRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO decisions
		(decision_id, time, symbol, direction, equity, regime, volatility_percentile, reference_price,
		 approved, lot, reason, detail, coefficient, notional,
		 total_before, total_after, symbol_before, symbol_after)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.DecisionID, rec.Time, rec.Symbol, rec.Direction, rec.Equity,
		rec.Regime, rec.VolatilityPercentile, rec.ReferencePrice,
		rec.Approved, rec.Lot, rec.Reason, rec.Detail, rec.Coefficient, rec.Notional,
		rec.TotalBefore, rec.TotalAfter, rec.SymbolBefore, rec.SymbolAfter,
	)
	return err
}

// RecordSpecChange journals a registry update so coefficient history stays
// reconstructable. Unlike decision records this returns the error: a spec
// change that cannot be audited should fail loudly at onboarding time.
func (j *SQLite) RecordSpecChange(old, updated market.SymbolSpec) error {
	oldJSON, err := json.Marshal(old)
	if err != nil {
		return err
	}
	newJSON, err := json.Marshal(updated)
	if err != nil {
		return err
	}

	_, err = j.db.Exec(`
		INSERT INTO spec_changes (change_id, time, symbol, old_spec, new_spec)
		VALUES (?, ?, ?, ?, ?)`,
		id.New(), time.Now().UTC(), updated.Symbol, string(oldJSON), string(newJSON),
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
