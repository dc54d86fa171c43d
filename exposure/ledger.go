package exposure

import "sync"

// Caps configures the exposure ceilings as fractions of account equity.
type Caps struct {
	PortfolioPct float64
	PerSymbolPct float64
}

// DefaultCaps mirrors the stock risk configuration: no more than 25% of
// equity committed overall, no more than 15% in any single symbol.
func DefaultCaps() Caps {
	return Caps{PortfolioPct: 0.25, PerSymbolPct: 0.15}
}

// Ledger tracks reserved notional per symbol and in total. It is the only
// shared mutable state in the sizing core: every check-and-commit happens
// inside one critical section so concurrent reservations can never jointly
// exceed a cap.
type Ledger struct {
	mu        sync.Mutex
	caps      Caps
	perSymbol map[string]float64
	total     float64
}

func NewLedger(caps Caps) *Ledger {
	return &Ledger{
		caps:      caps,
		perSymbol: make(map[string]float64),
	}
}

// Snapshot is a consistent point-in-time read of the ledger.
type Snapshot struct {
	PerSymbol map[string]float64
	Total     float64
}

func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	per := make(map[string]float64, len(l.perSymbol))
	for s, v := range l.perSymbol {
		per[s] = v
	}
	return Snapshot{PerSymbol: per, Total: l.total}
}

// ReserveResult reports the outcome of TryReserve with enough numbers for
// the caller to log a rejection without re-deriving ledger state.
type ReserveResult struct {
	OK bool

	Requested      float64
	Total          float64 // portfolio exposure after (on success) or at rejection
	SymbolExposure float64 // same, for the requested symbol
	PortfolioCap   float64
	PerSymbolCap   float64
}

// TryReserve atomically checks both caps against the given equity and, when
// both hold, commits the increment. On rejection nothing changes.
func (l *Ledger) TryReserve(symbol string, notional, equity float64) ReserveResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	res := ReserveResult{
		Requested:      notional,
		Total:          l.total,
		SymbolExposure: l.perSymbol[symbol],
		PortfolioCap:   l.caps.PortfolioPct * equity,
		PerSymbolCap:   l.caps.PerSymbolPct * equity,
	}

	if notional < 0 {
		return res
	}
	if l.total+notional > res.PortfolioCap {
		return res
	}
	if l.perSymbol[symbol]+notional > res.PerSymbolCap {
		return res
	}

	l.total += notional
	l.perSymbol[symbol] += notional

	res.OK = true
	res.Total = l.total
	res.SymbolExposure = l.perSymbol[symbol]
	return res
}

// Release returns reserved notional to the pool, e.g. after a fill is closed
// or an approved order is cancelled. The decrement is floored at the
// symbol's current exposure so a double release can never drive the ledger
// negative or break total == sum(per symbol).
func (l *Ledger) Release(symbol string, notional float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if notional <= 0 {
		return
	}
	dec := notional
	if held := l.perSymbol[symbol]; dec > held {
		dec = held
	}
	l.perSymbol[symbol] -= dec
	l.total -= dec
	if l.perSymbol[symbol] == 0 {
		delete(l.perSymbol, symbol)
	}
}

// Reset clears all exposure. Called only at explicit session boundaries
// such as daily rollover, never implicitly.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.perSymbol = make(map[string]float64)
	l.total = 0
}
