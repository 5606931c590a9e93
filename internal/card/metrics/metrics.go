package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Activation outcomes used as the "outcome" label.
const (
	OutcomeActivated       = "activated"
	OutcomeNotFound        = "card_not_found"
	OutcomeAlreadyActive   = "already_activated"
	OutcomeProfileRequired = "profile_required"
	OutcomeError           = "error"
)

// Metrics provides observability for the card module.
type Metrics struct {
	Activations        *prometheus.CounterVec
	ActivationDuration prometheus.Histogram
	CardsProvisioned   prometheus.Counter
}

// New registers the card metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Activations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flexcard_card_activations_total",
			Help: "Card activation attempts by outcome",
		}, []string{"outcome"}),
		ActivationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "flexcard_card_activation_duration_seconds",
			Help:    "Duration of Activate operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CardsProvisioned: factory.NewCounter(prometheus.CounterOpts{
			Name: "flexcard_cards_provisioned_total",
			Help: "Cards newly created by provisioning",
		}),
	}
}

// ObserveActivation records one attempt. Call with time.Now() taken at the start.
func (m *Metrics) ObserveActivation(outcome string, start time.Time) {
	m.Activations.WithLabelValues(outcome).Inc()
	m.ActivationDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) AddProvisioned(n int) {
	m.CardsProvisioned.Add(float64(n))
}
