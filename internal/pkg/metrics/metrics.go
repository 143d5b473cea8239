package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "network_resolver"

// OutcomeResolved labels a successful resolution. Failures are labelled with their error kind.
const OutcomeResolved = "resolved"

// Metrics holds the resolver's Prometheus collectors.
type Metrics struct {
	resolutions *prometheus.CounterVec
	signers     *prometheus.GaugeVec
	reloads     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Network resolutions by network and outcome.",
		}, []string{"network", "outcome"}),
		signers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resolved_signers",
			Help:      "Signers attached to the last successful resolution of a network.",
		}, []string{"network"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_reloads_total",
			Help:      "Registry reloads by result.",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{m.resolutions, m.signers, m.reloads} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics collector: %w", err)
		}
	}
	return m, nil
}

// ObserveResolution records one resolution outcome. A nil Metrics is a no-op.
func (m *Metrics) ObserveResolution(network, outcome string, signers int) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(network, outcome).Inc()
	if outcome == OutcomeResolved {
		m.signers.WithLabelValues(network).Set(float64(signers))
	}
}

// ObserveReload records a registry reload.
func (m *Metrics) ObserveReload(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.reloads.WithLabelValues(result).Inc()
}

// WriteTextfile writes everything gathered by g in the node_exporter textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
