package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
)

var _ inventory.Metrics = (*Metrics)(nil)

// Metrics colectores Prometheus del libro de movimientos.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	units    *prometheus.CounterVec
}

// NewMetrics registra los colectores en reg. Con un Registry propio incluye también
// los colectores de proceso y runtime de Go.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventario",
			Name:      "movement_requests_total",
			Help:      "Solicitudes de movimiento por tipo y resultado.",
		}, []string{"kind", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "inventario",
			Name:      "movement_duration_seconds",
			Help:      "Duración de la transacción de registro de movimientos.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventario",
			Name:      "movement_units_total",
			Help:      "Unidades movidas por tipo (solo movimientos confirmados).",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.requests, m.latency, m.units)
	return m
}

// NewRegistry crea un Registry con los colectores estándar de proceso y Go.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func (m *Metrics) ObserveMovement(kind, outcome string, elapsed time.Duration) {
	m.requests.WithLabelValues(kind, outcome).Inc()
	m.latency.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Metrics) AddUnits(kind string, units int64) {
	m.units.WithLabelValues(kind).Add(float64(units))
}
