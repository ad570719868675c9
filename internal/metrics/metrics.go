package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomePlaced     = "placed"
	OutcomeOutOfStock = "out_of_stock"
	OutcomeRejected   = "rejected"
)

type CheckoutMetrics struct {
	OrdersStarted prometheus.Counter
	Placements    *prometheus.CounterVec
	PlaceDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *CheckoutMetrics {
	ordersStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "petsy",
		Subsystem: "checkout",
		Name:      "orders_started_total",
		Help:      "Total number of orders created.",
	})
	placements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petsy",
		Subsystem: "checkout",
		Name:      "placements_total",
		Help:      "Placement attempts by outcome.",
	}, []string{"outcome"})
	placeDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "petsy",
		Subsystem: "checkout",
		Name:      "place_duration_ms",
		Help:      "PlaceOrder latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	reg.MustRegister(ordersStarted, placements, placeDuration)
	return &CheckoutMetrics{
		OrdersStarted: ordersStarted,
		Placements:    placements,
		PlaceDuration: placeDuration,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
