package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var interactionsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "socialhub_interactions_processed_total",
	Help: "The total number of reaction and subscription writes",
}, []string{"kind", "operation", "status"})

func recordInteraction(kind, operation string, err error) {
	status := "ok"
	switch {
	case err == nil:
	case isDuplicateKey(err):
		status = "duplicate"
	default:
		status = "error"
	}
	interactionsProcessed.WithLabelValues(kind, operation, status).Inc()
}
