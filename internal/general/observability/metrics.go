package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_orders_created_total",
		Help: "Orders created.",
	})
	OrdersAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_orders_accepted_total",
		Help: "Orders accepted by a driver.",
	})
	OrdersCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_orders_completed_total",
		Help: "Orders completed and settled.",
	})
	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_orders_cancelled_total",
		Help: "Orders cancelled by the customer.",
	})
	SettlementFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_settlement_failures_total",
		Help: "Completions rolled back because the wallet transfer failed.",
	})
	NearbySearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_nearby_search_seconds",
		Help:    "Latency of nearby-driver lookups.",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
