package journal

import (
	"database/sql"
	"fmt"
	"time"
)

const decisionColumns = `decision_id, time, symbol, direction, equity, regime, volatility_percentile, reference_price,
	approved, lot, reason, detail, coefficient, notional,
	total_before, total_after, symbol_before, symbol_after`

func scanDecision(scan func(dest ...any) error) (AuditRecord, error) {
	var rec AuditRecord
	err := scan(
		&rec.DecisionID,
		&rec.Time,
		&rec.Symbol,
		&rec.Direction,
		&rec.Equity,
		&rec.Regime,
		&rec.VolatilityPercentile,
		&rec.ReferencePrice,
		&rec.Approved,
		&rec.Lot,
		&rec.Reason,
		&rec.Detail,
		&rec.Coefficient,
		&rec.Notional,
		&rec.TotalBefore,
		&rec.TotalAfter,
		&rec.SymbolBefore,
		&rec.SymbolAfter,
	)
	return rec, err
}

// GetDecision returns a single audit record by decision ID.
func (j *SQLite) GetDecision(decisionID string) (AuditRecord, error) {
	row := j.db.QueryRow(`
		SELECT `+decisionColumns+`
		FROM decisions
		WHERE decision_id = ?`, decisionID)

	rec, err := scanDecision(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return AuditRecord{}, fmt.Errorf("decision %q not found", decisionID)
		}
		return AuditRecord{}, err
	}
	return rec, nil
}

// ListDecisionsBetween returns decisions recorded within [start, end).
func (j *SQLite) ListDecisionsBetween(start, end time.Time) ([]AuditRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+decisionColumns+`
		FROM decisions
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, decision_id ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditRecord
	for rows.Next() {
		rec, err := scanDecision(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Cursor walks audit records lazily in time order. Callers restart a replay
// by asking for a fresh cursor from the last seen record's time.
type Cursor struct {
	rows *sql.Rows
	rec  AuditRecord
	err  error
}

// Replay returns a cursor over every decision recorded at or after since,
// ordered by time then decision ID so replays are deterministic.
func (j *SQLite) Replay(since time.Time) (*Cursor, error) {
	rows, err := j.db.Query(`
		SELECT `+decisionColumns+`
		FROM decisions
		WHERE time >= ?
		ORDER BY time ASC, decision_id ASC`, since)
	if err != nil {
		return nil, err
	}
	return &Cursor{rows: rows}, nil
}

// Next advances to the next record, returning false at the end of the
// sequence or on error.
func (c *Cursor) Next() bool {
	if !c.rows.Next() {
		c.err = c.rows.Err()
		return false
	}
	c.rec, c.err = scanDecision(c.rows.Scan)
	return c.err == nil
}

// Record returns the record the cursor currently points at.
func (c *Cursor) Record() AuditRecord { return c.rec }

func (c *Cursor) Err() error { return c.err }

func (c *Cursor) Close() error { return c.rows.Close() }
