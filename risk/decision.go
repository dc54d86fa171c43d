package risk

import "github.com/morningtrading/sizer/market"

// Reason identifies why a sizing request was rejected. Reasons are data,
// not errors: Evaluate always hands the caller a complete decision.
type Reason string

const (
	ReasonNone                   Reason = ""
	ReasonUnknownSymbol          Reason = "UNKNOWN_SYMBOL"
	ReasonBelowMinLot            Reason = "BELOW_MIN_LOT"
	ReasonExceedsExposureLimit   Reason = "EXCEEDS_EXPOSURE_LIMIT"
	ReasonDailyLossLimitBreached Reason = "DAILY_LOSS_LIMIT_BREACHED"
)

// SizingRequest is the input to one sizing decision. All market and account
// state is supplied by the caller up front; Evaluate never blocks on I/O.
type SizingRequest struct {
	Symbol        string
	Direction     string // "BUY" or "SELL", informational for auditing
	AccountEquity float64

	// Condition defaults to normal regime / 0.5 volatility when the
	// caller has no market-condition signal for this request.
	Condition *market.Condition

	// ReferencePrice converts lots to notional. Zero means no live price
	// was available and the documented 1.0 fallback applies.
	ReferencePrice float64
}

func (r SizingRequest) condition() market.Condition {
	if r.Condition == nil {
		return market.DefaultCondition()
	}
	return *r.Condition
}

func (r SizingRequest) referencePrice() float64 {
	if r.ReferencePrice <= 0 {
		return 1.0
	}
	return r.ReferencePrice
}

// Decision is the complete outcome of a sizing request. Rejections carry
// the numeric context needed to log and alert without re-deriving state.
type Decision struct {
	Approved bool
	Lot      float64
	Reason   Reason
	Detail   string

	// Numeric context, populated as far as evaluation progressed.
	Coefficient    float64 // effective coefficient after regime adjustment
	Notional       float64 // requested notional value
	TotalExposure  float64
	SymbolExposure float64
	PortfolioCap   float64
	PerSymbolCap   float64
}

func approved(lot float64) Decision {
	return Decision{Approved: true, Lot: lot}
}

func rejected(reason Reason, detail string) Decision {
	return Decision{Reason: reason, Detail: detail}
}
