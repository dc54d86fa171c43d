package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	decisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sizer_decisions_total",
			Help: "Sizing decisions by symbol and outcome",
		},
		[]string{"symbol", "outcome"},
	)

	rejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sizer_rejections_total",
			Help: "Rejected sizing requests by reason",
		},
		[]string{"reason"},
	)

	approvedLot = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sizer_approved_lot",
			Help:    "Distribution of approved lot sizes",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"symbol"},
	)

	symbolExposure = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sizer_symbol_exposure",
			Help: "Reserved notional per symbol",
		},
		[]string{"symbol"},
	)

	totalExposure = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sizer_total_exposure",
			Help: "Total reserved notional across the portfolio",
		},
	)

	effectiveCoefficient = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sizer_effective_coefficient",
			Help: "Effective risk coefficient after market-condition adjustment",
		},
		[]string{"symbol"},
	)

	auditErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sizer_audit_errors_total",
			Help: "Audit records that failed to persist",
		},
	)
)

func init() {
	prometheus.MustRegister(decisionsTotal)
	prometheus.MustRegister(rejectionsTotal)
	prometheus.MustRegister(approvedLot)
	prometheus.MustRegister(symbolExposure)
	prometheus.MustRegister(totalExposure)
	prometheus.MustRegister(effectiveCoefficient)
	prometheus.MustRegister(auditErrorsTotal)
}

// ObserveDecision records the outcome of one sizing decision.
func ObserveDecision(symbol string, approved bool, reason string, lot float64) {
	if approved {
		decisionsTotal.WithLabelValues(symbol, "approved").Inc()
		approvedLot.WithLabelValues(symbol).Observe(lot)
		return
	}
	decisionsTotal.WithLabelValues(symbol, "rejected").Inc()
	rejectionsTotal.WithLabelValues(reason).Inc()
}

// SetExposure updates the per-symbol and portfolio exposure gauges.
func SetExposure(symbol string, value, total float64) {
	symbolExposure.WithLabelValues(symbol).Set(value)
	totalExposure.Set(total)
}

// SetCoefficient publishes the most recent effective coefficient.
func SetCoefficient(symbol string, coeff float64) {
	effectiveCoefficient.WithLabelValues(symbol).Set(coeff)
}

// RecordAuditError counts a swallowed audit failure so it still alerts.
func RecordAuditError() {
	auditErrorsTotal.Inc()
}

// Serve exposes /metrics on addr. Blocks; run it in a goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
