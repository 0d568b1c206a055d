package refresh

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records refresh outcomes
type Metrics struct {
	outcomes *prometheus.CounterVec
	prices   *prometheus.GaugeVec
}

// NewMetrics registers the refresh collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "motor_supplychain",
			Subsystem: "price_refresh",
			Name:      "materials_total",
			Help:      "Price refresh outcomes per material.",
		}, []string{"material", "outcome"}),
		prices: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "motor_supplychain",
			Subsystem: "price_refresh",
			Name:      "price_usd_per_kg",
			Help:      "Material price after the last refresh [USD/kg].",
		}, []string{"material"}),
	}
	reg.MustRegister(m.outcomes, m.prices)
	return m
}

func (m *Metrics) observe(u Update) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(u.Material, u.Outcome.String()).Inc()
	m.prices.WithLabelValues(u.Material).Set(u.Price)
}
