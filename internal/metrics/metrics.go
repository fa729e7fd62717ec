package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marcovc/services/internal/contracts"
)

const namespace = "driver"

var (
	AuctionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auctions_prioritized_total",
			Help:      "Auctions whose orders were prioritized",
		},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_total",
			Help:      "Orders seen by the prioritizer, by stage (input, claimed, filled, selected)",
		},
		[]string{"stage"},
	)
	QuotaClaimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_claims_total",
			Help:      "Orders claimed by a strategy's quota",
		},
		[]string{"strategy"},
	)
	OverallocationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_overallocations_total",
			Help:      "Selections holding more orders than max_orders",
		},
	)
	SelectionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_duration_seconds",
			Help:      "Time spent ranking and selecting the orders of one auction",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)
	EngineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_requests_total",
			Help:      "Requests to the solver engine by endpoint and result",
		},
		[]string{"endpoint", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		AuctionsTotal,
		OrdersTotal,
		QuotaClaimsTotal,
		OverallocationsTotal,
		SelectionDuration,
		EngineRequestsTotal,
	)
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSelection records one prioritization
func RecordSelection(sel *contracts.Selection, duration time.Duration) {
	AuctionsTotal.Inc()
	SelectionDuration.Observe(duration.Seconds())

	OrdersTotal.WithLabelValues("input").Add(float64(sel.InputOrders))
	OrdersTotal.WithLabelValues("claimed").Add(float64(sel.Claimed()))
	OrdersTotal.WithLabelValues("filled").Add(float64(sel.Filled))
	OrdersTotal.WithLabelValues("selected").Add(float64(sel.Selected()))

	for _, c := range sel.QuotaClaims {
		QuotaClaimsTotal.WithLabelValues(c.Strategy).Add(float64(c.Claimed))
	}

	if sel.Selected() > sel.MaxOrders {
		OverallocationsTotal.Inc()
	}
}

// RecordEngineRequest records one solver engine call
func RecordEngineRequest(endpoint string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	EngineRequestsTotal.WithLabelValues(endpoint, result).Inc()
}
