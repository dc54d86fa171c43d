package journal

import (
	"time"

	"github.com/morningtrading/sizer/exposure"
	"github.com/morningtrading/sizer/risk"
)

// AuditRecord is one append-only row in the decision journal: the full
// request, the full decision, and the ledger totals around it. Records are
// never mutated after creation.
type AuditRecord struct {
	DecisionID string
	Time       time.Time

	// request
	Symbol               string
	Direction            string
	Equity               float64
	Regime               string
	VolatilityPercentile float64
	ReferencePrice       float64

	// decision
	Approved    bool
	Lot         float64
	Reason      string
	Detail      string
	Coefficient float64
	Notional    float64

	// ledger snapshots
	TotalBefore  float64
	TotalAfter   float64
	SymbolBefore float64
	SymbolAfter  float64
}

// Auditor persists sizing decisions. Backends must swallow their own write
// failures: an audit problem may be reported out-of-band but must never
// block a trading decision.
type Auditor interface {
	risk.Auditor
	Close() error
}

func newRecord(req risk.SizingRequest, d risk.Decision, before, after exposure.Snapshot, decisionID string, now time.Time) AuditRecord {
	cond := req.Condition
	regime := ""
	vol := 0.0
	if cond != nil {
		regime = string(cond.Regime)
		vol = cond.VolatilityPercentile
	}
	return AuditRecord{
		DecisionID:           decisionID,
		Time:                 now,
		Symbol:               req.Symbol,
		Direction:            req.Direction,
		Equity:               req.AccountEquity,
		Regime:               regime,
		VolatilityPercentile: vol,
		ReferencePrice:       req.ReferencePrice,
		Approved:             d.Approved,
		Lot:                  d.Lot,
		Reason:               string(d.Reason),
		Detail:               d.Detail,
		Coefficient:          d.Coefficient,
		Notional:             d.Notional,
		TotalBefore:          before.Total,
		TotalAfter:           after.Total,
		SymbolBefore:         before.PerSymbol[req.Symbol],
		SymbolAfter:          after.PerSymbol[req.Symbol],
	}
}
