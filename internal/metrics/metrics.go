// Package metrics exposes ledger and HTTP metrics through Prometheus.
package metrics

import (
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "ngo_ledger"

// Recorder implements the service and HTTP observers on a Prometheus registry.
type Recorder struct {
	vouchersCreated     *prometheus.CounterVec
	voucherTransitions  *prometheus.CounterVec
	voucherRetries      prometheus.Counter
	trialBalanceDiff    prometheus.Gauge
	httpRequestDuration *prometheus.HistogramVec
}

var (
	_ portssvc.LedgerObserver = (*Recorder)(nil)
	_ middleware.HTTPObserver = (*Recorder)(nil)
)

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		vouchersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vouchers_created_total",
			Help:      "Vouchers created, by type.",
		}, []string{"type"}),
		voucherTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voucher_transitions_total",
			Help:      "Voucher status changes, by resulting status.",
		}, []string{"status"}),
		voucherRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voucher_tx_retries_total",
			Help:      "Voucher transactions retried after a serialization failure.",
		}),
		trialBalanceDiff: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "trial_balance_difference",
			Help:      "Debit minus credit of the last computed trial balance. Anything but 0 is a defect.",
		}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		r.vouchersCreated,
		r.voucherTransitions,
		r.voucherRetries,
		r.trialBalanceDiff,
		r.httpRequestDuration,
	)
	return r
}

func (r *Recorder) VoucherCreated(voucherType domain.VoucherType) {
	r.vouchersCreated.WithLabelValues(string(voucherType)).Inc()
}

func (r *Recorder) VoucherTransitioned(status domain.VoucherStatus) {
	r.voucherTransitions.WithLabelValues(string(status)).Inc()
}

// VoucherTxRetried counts a retried serializable transaction.
func (r *Recorder) VoucherTxRetried() {
	r.voucherRetries.Inc()
}

func (r *Recorder) TrialBalanceComputed(difference decimal.Decimal) {
	r.trialBalanceDiff.Set(difference.InexactFloat64())
}

func (r *Recorder) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	r.httpRequestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}
