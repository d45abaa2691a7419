package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const Subsystem = "paytrack"

var callbacksTotal = &Metric{
	ID:          "cbTotal",
	Name:        "callbacks_total",
	Description: "Provider callbacks received, partitioned by endpoint kind and handling outcome.",
	Type:        "counter_vec",
	Args:        []string{"kind", "outcome"},
}

var paymentsRegistered = &Metric{
	ID:          "payReg",
	Name:        "payments_registered_total",
	Description: "Payments registered as PENDING.",
	Type:        "counter",
}

var paymentsResolved = &Metric{
	ID:          "payRes",
	Name:        "payments_resolved_total",
	Description: "Payments moved to a terminal status.",
	Type:        "counter_vec",
	Args:        []string{"status", "cause"},
}

var pendingPayments = &Metric{
	ID:          "payPending",
	Name:        "pending_payments",
	Description: "Payments currently PENDING in the registry.",
	Type:        "gauge",
}

var waitDuration = &Metric{
	ID:          "waitDur",
	Name:        "wait_duration_ms",
	Description: "Time callers spent blocked waiting for a terminal status, in milliseconds.",
	Type:        "histogram_vec",
	Args:        []string{"outcome"},
}

// Business holds the domain collectors. A nil *Business is valid and records nothing.
type Business struct {
	callbacks  *prometheus.CounterVec
	registered prometheus.Counter
	resolved   *prometheus.CounterVec
	pending    prometheus.Gauge
	waitDur    *prometheus.HistogramVec
}

func NewBusiness() *Business {
	return &Business{
		callbacks:  NewMetric(callbacksTotal, Subsystem).(*prometheus.CounterVec),
		registered: NewMetric(paymentsRegistered, Subsystem).(prometheus.Counter),
		resolved:   NewMetric(paymentsResolved, Subsystem).(*prometheus.CounterVec),
		pending:    NewMetric(pendingPayments, Subsystem).(prometheus.Gauge),
		waitDur:    NewMetric(waitDuration, Subsystem).(*prometheus.HistogramVec),
	}
}

func (b *Business) Collectors() []prometheus.Collector {
	if b == nil {
		return nil
	}
	return []prometheus.Collector{b.callbacks, b.registered, b.resolved, b.pending, b.waitDur}
}

func (b *Business) ObserveCallback(kind, outcome string) {
	if b == nil {
		return
	}
	b.callbacks.WithLabelValues(kind, outcome).Inc()
}

func (b *Business) ObserveRegistered() {
	if b == nil {
		return
	}
	b.registered.Inc()
	b.pending.Inc()
}

func (b *Business) ObserveResolved(status, cause string) {
	if b == nil {
		return
	}
	b.resolved.WithLabelValues(status, cause).Inc()
	b.pending.Dec()
}

func (b *Business) ObserveWait(outcome string, d time.Duration) {
	if b == nil {
		return
	}
	b.waitDur.WithLabelValues(outcome).Observe(float64(d.Milliseconds()))
}
