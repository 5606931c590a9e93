package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons an analytics event is dropped.
const (
	DropQueueFull  = "queue_full"
	DropClosed     = "closed"
	DropStoreError = "store_error"
	DropLinkOwner  = "link_not_owned"
)

// Metrics tracks best-effort analytics recording.
type Metrics struct {
	Recorded      *prometheus.CounterVec
	Dropped       *prometheus.CounterVec
	PublishErrors prometheus.Counter
	QueueDepth    prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Recorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flexcard_analytics_events_recorded_total",
			Help: "Analytics events written to the counter store",
		}, []string{"type"}),
		Dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flexcard_analytics_events_dropped_total",
			Help: "Analytics events discarded without being counted",
		}, []string{"type", "reason"}),
		PublishErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "flexcard_analytics_publish_errors_total",
			Help: "Analytics events that could not be published to the event stream",
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "flexcard_analytics_queue_depth",
			Help: "Analytics events waiting to be recorded",
		}),
	}
}
