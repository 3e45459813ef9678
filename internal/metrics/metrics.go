// Package metrics exposes the connection and byte counters the relay
// engine increments, grounded on the prometheus/client_golang dependency
// shared by AmirulAndalib-outline-ss-server and postalsys-Muti-Metroo.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the counters one relay engine instance increments.
type Metrics struct {
	ConnectionsAccepted prometheus.Counter
	ConnectionsClosed   *prometheus.CounterVec // label: "reason"
	BytesTransferred    *prometheus.CounterVec // label: "direction" ("atob"/"btoa")
}

// New registers and returns a fresh Metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ssgo",
			Name:      "connections_accepted_total",
			Help:      "Total number of connections accepted by the relay engine.",
		}),
		ConnectionsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ssgo",
			Name:      "connections_closed_total",
			Help:      "Total number of connections closed, labeled by terminal reason.",
		}, []string{"reason"}),
		BytesTransferred: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ssgo",
			Name:      "bytes_transferred_total",
			Help:      "Total bytes copied by the relay engine, labeled by direction.",
		}, []string{"direction"}),
	}

	reg.MustRegister(m.ConnectionsAccepted, m.ConnectionsClosed, m.BytesTransferred)
	return m
}
