package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "fitch"
	metricsSubsystem = "session"
)

// Metrics instruments a Registry.
type Metrics struct {
	// OpenProofs is the number of proofs currently registered.
	OpenProofs prometheus.Gauge

	// Verifications counts VerifyLine calls.
	// Labels: result (ok, parse, visibility, missing-rule, rule-shape, rule-mismatch, structural)
	Verifications *prometheus.CounterVec

	// LoadFailures counts documents Load refused.
	LoadFailures prometheus.Counter
}

// NewMetrics creates the session metrics and registers them on reg. A nil
// reg leaves them unregistered, which is what most tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OpenProofs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "open_proofs",
			Help:      "Number of proofs currently open",
		}),
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "verifications_total",
			Help:      "Line verifications by result",
		}, []string{"result"}),
		LoadFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "load_failures_total",
			Help:      "Documents that could not be loaded",
		}),
	}
}
