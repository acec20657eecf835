// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "omnipos_billing"

var (
	// GRPCRequestDuration is observed by the unary interceptor for every call.
	GRPCRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "request_duration_seconds",
			Help:      "Duration of gRPC unary calls in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "code"},
	)

	// CheckoutTotal counts checkouts by outcome: completed, rejected, failed.
	CheckoutTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "total",
			Help:      "Checkouts by outcome.",
		},
		[]string{"outcome"},
	)

	// StockWarningsTotal counts cart lines whose stock decrement failed after the bill was persisted.
	StockWarningsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "stock_warnings_total",
		Help:      "Stock decrements that failed during checkout reconciliation.",
	})

	// ReceiptsSentTotal counts receipt deliveries by channel and result.
	ReceiptsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "receipt",
			Name:      "sent_total",
			Help:      "Receipt deliveries by channel and result.",
		},
		[]string{"channel", "result"},
	)

	Registry = prometheus.NewRegistry()
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		GRPCRequestDuration,
		CheckoutTotal,
		StockWarningsTotal,
		ReceiptsSentTotal,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
