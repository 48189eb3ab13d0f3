// Package metrics registers the collector's Prometheus instrumentation.
//
// A storage failure after a batch was admitted is never surfaced to the
// HTTP caller; these counters are the only place such failures become
// visible besides the logs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// BatchesReceived counts batches admitted by the ingestion endpoint.
	BatchesReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nodepulse_batches_received_total",
		Help: "Batches accepted by the ingestion endpoint and queued for write.",
	})

	// PointsReceived counts data points admitted by the ingestion endpoint.
	PointsReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nodepulse_points_received_total",
		Help: "Data points accepted by the ingestion endpoint.",
	})

	// RequestsRejected counts rejected ingest requests by reason.
	RequestsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nodepulse_requests_rejected_total",
		Help: "Ingest requests rejected before admission, by reason.",
	}, []string{"reason"})

	// BatchesWritten counts batches committed by the writer actor.
	BatchesWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nodepulse_batches_written_total",
		Help: "Batches committed to the day shard.",
	})

	// BatchesFailed counts batches dropped due to a storage failure.
	BatchesFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nodepulse_batches_failed_total",
		Help: "Batches rolled back and dropped due to a storage failure.",
	})

	// PointsWritten counts rows committed by the writer actor.
	PointsWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nodepulse_points_written_total",
		Help: "Rows committed to the day shard.",
	})
)

func init() {
	prometheus.MustRegister(
		BatchesReceived,
		PointsReceived,
		RequestsRejected,
		BatchesWritten,
		BatchesFailed,
		PointsWritten,
	)
}
