package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	allocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pin_allocations_total",
			Help: "Pin allocations by source and outcome (success/partial_success/error).",
		},
		[]string{"source", "status"},
	)

	pinsAllocated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pins_allocated_total",
			Help: "Individual pin units handed out, by source.",
		},
		[]string{"source"},
	)

	vendorCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendor_calls_total",
			Help: "External vendor requests by result (ok/no_stock/network/parse).",
		},
		[]string{"result"},
	)

	vendorLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vendor_call_latency_ms",
			Help:    "External vendor call latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
		[]string{"success"},
	)

	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Orders by final status (paid/unpaid/failed).",
		},
		[]string{"status"},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			allocationsTotal,
			pinsAllocated,
			vendorCallsTotal,
			vendorLatencyMs,
			ordersTotal,
		)
	})
}

// RecordAllocation counts one allocator call outcome.
func RecordAllocation(source, status string, obtained int) {
	allocationsTotal.WithLabelValues(source, status).Inc()
	if obtained > 0 {
		pinsAllocated.WithLabelValues(source).Add(float64(obtained))
	}
}

// RecordVendorCall counts one vendor request and its latency.
func RecordVendorCall(result string, elapsed time.Duration) {
	vendorCallsTotal.WithLabelValues(result).Inc()
	vendorLatencyMs.WithLabelValues(strconv.FormatBool(result == "ok")).
		Observe(float64(elapsed.Milliseconds()))
}

// RecordOrder counts one order by final status.
func RecordOrder(status string) {
	ordersTotal.WithLabelValues(status).Inc()
}
