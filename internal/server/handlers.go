package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/nodepulse/nodepulse/internal/metrics"
	"github.com/nodepulse/nodepulse/internal/telemetry"
)

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status              string `json:"status"`
	Version             string `json:"version"`
	MaxRequestSizeBytes int    `json:"max_request_size_bytes"`
}

// handleProbe implements POST /api/v1/probe.
//
// A 202 response means the batch has been queued for durable write, not
// that it has been committed; the write is asynchronous relative to the
// response. Re-submitting the same batch inserts duplicate rows; there
// is no deduplication.
func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Read at most one byte past the limit so the size guard can tell
	// "exactly at" from "over" without buffering an unbounded body.
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestSize+1))
	if err != nil {
		s.log.Error("read request body", "error", err)
		writeJSONError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	if err := ValidateRequestSize(len(body)); err != nil {
		s.log.Warn("request rejected", "error", err)
		metrics.RequestsRejected.WithLabelValues("too_large").Inc()
		writeJSONError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	var batch telemetry.Batch
	if err := json.Unmarshal(body, &batch); err != nil {
		s.log.Warn("request rejected", "error", err)
		metrics.RequestsRejected.WithLabelValues("bad_json").Inc()
		writeJSONError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if batch.Data == nil {
		metrics.RequestsRejected.WithLabelValues("bad_shape").Inc()
		writeJSONError(w, http.StatusBadRequest, "missing data field")
		return
	}
	for i := range batch.Data {
		if err := batch.Data[i].Validate(); err != nil {
			metrics.RequestsRejected.WithLabelValues("missing_field").Inc()
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	s.log.Debug("batch received", "points", len(batch.Data))

	if err := s.writer.InsertBatch(r.Context(), batch.Data); err != nil {
		s.log.Error("queue batch", "error", err)
		metrics.RequestsRejected.WithLabelValues("queue").Inc()
		writeJSONError(w, http.StatusInternalServerError, "failed to queue write")
		return
	}

	metrics.BatchesReceived.Inc()
	metrics.PointsReceived.Add(float64(len(batch.Data)))

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleHealth implements GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:              "healthy",
		Version:             s.version,
		MaxRequestSizeBytes: MaxRequestSize,
	})
}
