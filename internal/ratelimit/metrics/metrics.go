package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejected      *prometheus.CounterVec
	CheckErrors   prometheus.Counter
	Degraded      prometheus.Gauge
	FallbackUsage *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flexcard_ratelimit_rejected_total",
			Help: "Requests answered with 429 by endpoint class",
		}, []string{"class"}),
		CheckErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "flexcard_ratelimit_check_errors_total",
			Help: "Primary limiter checks that failed",
		}),
		Degraded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "flexcard_ratelimit_degraded",
			Help: "1 while the limiter runs on its in-memory fallback",
		}),
		FallbackUsage: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flexcard_ratelimit_fallback_checks_total",
			Help: "Checks answered by the in-memory fallback by endpoint class",
		}, []string{"class"}),
	}
}

func (m *Metrics) IncRejected(class string) {
	m.Rejected.WithLabelValues(class).Inc()
}

func (m *Metrics) SetDegraded(degraded bool) {
	if degraded {
		m.Degraded.Set(1)
		return
	}
	m.Degraded.Set(0)
}
