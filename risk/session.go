package risk

import "sync"

// Session is the daily-loss circuit breaker. An external collaborator
// reports realized P&L as fills close; once cumulative loss crosses the
// limit the breaker latches and every subsequent request is rejected until
// an explicit Reset, typically at daily rollover. It never re-arms on its
// own, even if later profits pull the running total back under the limit.
type Session struct {
	mu           sync.Mutex
	lossLimitPct float64
	realized     float64
	breached     bool
}

// DefaultDailyLossLimitPct stops trading after losing 5% of equity in a day.
const DefaultDailyLossLimitPct = 0.05

func NewSession(lossLimitPct float64) *Session {
	if lossLimitPct <= 0 {
		lossLimitPct = DefaultDailyLossLimitPct
	}
	return &Session{lossLimitPct: lossLimitPct}
}

// ReportPnL adds a realized profit (positive) or loss (negative) to the
// session total and trips the breaker when the loss limit is crossed.
// Landing exactly on the limit trips it too: the boundary counts as
// breached rather than as the last tolerable loss.
func (s *Session) ReportPnL(pnl, equity float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.realized += pnl
	if s.realized <= -s.lossLimitPct*equity {
		s.breached = true
	}
}

// Breached reports whether the circuit breaker has tripped.
func (s *Session) Breached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.breached
}

// LossLimitPct returns the configured daily loss limit fraction.
func (s *Session) LossLimitPct() float64 {
	return s.lossLimitPct
}

// Realized returns the session's cumulative realized P&L.
func (s *Session) Realized() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.realized
}

// Reset clears the running total and re-arms the breaker. This is the only
// way out of rejection-only mode.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.realized = 0
	s.breached = false
}
