package engine

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbourn/go-billing-errors/internal/failure"
)

// failuresTotal counts translated failures. Codes come from a closed set
// (plus trigger-derived codes), which keeps cardinality bounded.
var failuresTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "api_failures_total",
		Help: "Total number of request failures translated into error responses.",
	},
	[]string{"variant", "code", "status"},
)

func init() {
	prometheus.MustRegister(failuresTotal)
}

func record(ctx context.Context, f failure.Failure, facts failure.Facts) {
	failuresTotal.WithLabelValues(f.Variant(), facts.Code, strconv.Itoa(facts.Status)).Inc()
	markSpan(ctx, f, facts)
}
