package risk

import (
	"errors"
	"fmt"

	"github.com/morningtrading/sizer/exposure"
	"github.com/morningtrading/sizer/market"
	"github.com/morningtrading/sizer/monitoring"
)

// Auditor records every decision with its inputs and the ledger state
// around it. Implementations must never fail the trading path; see the
// journal package.
type Auditor interface {
	Record(req SizingRequest, d Decision, before, after exposure.Snapshot)
}

// Engine maps a sizing request to an approved lot size or a typed
// rejection. It holds no mutable state of its own: all state lives in the
// registry, ledger and session, so engines are cheap to re-instantiate and
// safe to call from many goroutines.
type Engine struct {
	registry *market.Registry
	ledger   *exposure.Ledger
	session  *Session
	auditor  Auditor
}

func NewEngine(reg *market.Registry, ledger *exposure.Ledger, session *Session, auditor Auditor) *Engine {
	return &Engine{
		registry: reg,
		ledger:   ledger,
		session:  session,
		auditor:  auditor,
	}
}

// Evaluate produces a complete sizing decision for one request. The
// contract is total: every failure mode is returned as a rejected decision,
// never as an error, and nothing retries internally.
func (e *Engine) Evaluate(req SizingRequest) Decision {
	before := e.ledger.Snapshot()

	d := e.evaluate(req)

	after := before
	if d.Approved {
		after = e.ledger.Snapshot()
	}
	if e.auditor != nil {
		e.auditor.Record(req, d, before, after)
	}
	monitoring.ObserveDecision(req.Symbol, d.Approved, string(d.Reason), d.Lot)
	monitoring.SetExposure(req.Symbol, after.PerSymbol[req.Symbol], after.Total)

	return d
}

func (e *Engine) evaluate(req SizingRequest) Decision {
	if e.session != nil && e.session.Breached() {
		return rejected(ReasonDailyLossLimitBreached,
			fmt.Sprintf("session realized P&L %.2f breached the %.0f%% daily loss limit; trading halted until session reset",
				e.session.Realized(), e.session.LossLimitPct()*100))
	}

	spec, err := e.registry.Lookup(req.Symbol)
	if err != nil {
		if errors.Is(err, market.ErrUnknownSymbol) {
			return rejected(ReasonUnknownSymbol,
				fmt.Sprintf("symbol %s is not registered; onboard it first", req.Symbol))
		}
		return rejected(ReasonUnknownSymbol, err.Error())
	}

	if spec.MinLot > spec.MaxLot {
		return rejected(ReasonBelowMinLot,
			fmt.Sprintf("%s min_lot %g exceeds max_lot %g; spec is misconfigured",
				spec.Symbol, spec.MinLot, spec.MaxLot))
	}

	coeff := Adjust(spec.BaseCoefficient, req.condition(), spec.CoefficientCap)
	monitoring.SetCoefficient(req.Symbol, coeff)

	rawLot := spec.MinLot * coeff
	lot := RoundToStep(rawLot, spec.LotStep)
	if lot == 0 && rawLot > 0 {
		// never silently emit an unfillable zero-size order
		lot = spec.MinLot
	}
	if lot > spec.MaxLot {
		lot = spec.MaxLot
	}

	notional := lot * spec.ContractSize * req.referencePrice()

	res := e.ledger.TryReserve(req.Symbol, notional, req.AccountEquity)
	if !res.OK {
		d := rejected(ReasonExceedsExposureLimit,
			fmt.Sprintf("reserving %.2f would breach caps (portfolio %.2f/%.2f, %s %.2f/%.2f)",
				notional, res.Total, res.PortfolioCap,
				req.Symbol, res.SymbolExposure, res.PerSymbolCap))
		d.Coefficient = coeff
		d.Notional = notional
		d.TotalExposure = res.Total
		d.SymbolExposure = res.SymbolExposure
		d.PortfolioCap = res.PortfolioCap
		d.PerSymbolCap = res.PerSymbolCap
		return d
	}

	d := approved(lot)
	d.Coefficient = coeff
	d.Notional = notional
	d.TotalExposure = res.Total
	d.SymbolExposure = res.SymbolExposure
	d.PortfolioCap = res.PortfolioCap
	d.PerSymbolCap = res.PerSymbolCap
	return d
}

// Release hands reserved notional back to the ledger once the execution
// collaborator confirms a close or cancellation for an approved decision.
func (e *Engine) Release(symbol string, notional float64) {
	e.ledger.Release(symbol, notional)
	snap := e.ledger.Snapshot()
	monitoring.SetExposure(symbol, snap.PerSymbol[symbol], snap.Total)
}
