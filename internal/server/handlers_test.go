package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nodepulse/nodepulse/internal/telemetry"
)

// stubQueuer records queued batches and optionally fails.
type stubQueuer struct {
	batches [][]telemetry.Point
	err     error
}

func (q *stubQueuer) InsertBatch(ctx context.Context, points []telemetry.Point) error {
	if q.err != nil {
		return q.err
	}
	q.batches = append(q.batches, points)
	return nil
}

// stubStore serves canned query results.
type stubStore struct {
	metrics map[string][]telemetry.Point
	latest  map[string][]telemetry.Point
	ids     []string
}

func (s *stubStore) NodeMetrics(ctx context.Context, nodeID, pattern string, hours int) ([]telemetry.Point, error) {
	return s.metrics[nodeID], nil
}

func (s *stubStore) LatestNodeMetrics(ctx context.Context, nodeID string) ([]telemetry.Point, error) {
	return s.latest[nodeID], nil
}

func (s *stubStore) NodeIDs(ctx context.Context) ([]string, error) {
	return s.ids, nil
}

func newTestServer(q *stubQueuer, st *stubStore) *Server {
	if q == nil {
		q = &stubQueuer{}
	}
	if st == nil {
		st = &stubStore{}
	}
	return New(&Config{Addr: "127.0.0.1:0", Writer: q, Reader: st, Version: "test"})
}

func validBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(telemetry.Batch{Data: []telemetry.Point{{
		NodeID:     "n1",
		Timestamp:  "2026-08-24T10:00:00Z",
		ProbeType:  "sysinfo",
		ProbeName:  "cpu_core_count",
		ProbeValue: "4",
	}}})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestHandleProbeAccepts(t *testing.T) {
	q := &stubQueuer{}
	srv := newTestServer(q, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/probe", bytes.NewReader(validBody(t)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "accepted" {
		t.Errorf("status field = %q, want accepted", resp["status"])
	}
	if len(q.batches) != 1 || len(q.batches[0]) != 1 {
		t.Errorf("queued batches = %+v, want one batch of one point", q.batches)
	}
}

func TestHandleProbeRejections(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"invalid JSON", "{not json", http.StatusBadRequest},
		{"missing data field", `{"other": []}`, http.StatusBadRequest},
		{"missing point field", `{"data":[{"node_id":"n1","timestamp":"2026-08-24T10:00:00Z","probe_type":"sysinfo","probe_name":"x"}]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(nil, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/probe", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body)
			}
		})
	}
}

func TestHandleProbeEmptyBatchAccepted(t *testing.T) {
	q := &stubQueuer{}
	srv := newTestServer(q, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/probe", strings.NewReader(`{"data":[]}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202 for empty batch", rec.Code)
	}
}

// oversizedBody builds a syntactically valid JSON document of exactly the
// requested size by padding a string field.
func oversizedBody(size int) []byte {
	prefix := `{"data":[],"pad":"`
	suffix := `"}`
	pad := size - len(prefix) - len(suffix)
	var b bytes.Buffer
	b.Grow(size)
	b.WriteString(prefix)
	for i := 0; i < pad; i++ {
		b.WriteByte('x')
	}
	b.WriteString(suffix)
	return b.Bytes()
}

func TestHandleProbeSizeBoundary(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		wantStatus int
	}{
		{"exactly at limit", MaxRequestSize, http.StatusAccepted},
		{"one byte over", MaxRequestSize + 1, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(nil, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/probe", bytes.NewReader(oversizedBody(tt.size)))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("size %d: status = %d, want %d", tt.size, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleProbeQueueFailure(t *testing.T) {
	q := &stubQueuer{err: fmt.Errorf("writer stopped")}
	srv := newTestServer(q, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/probe", bytes.NewReader(validBody(t)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHandleProbeMethodNotAllowed(t *testing.T) {
	srv := newTestServer(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/probe", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	if resp.Version != "test" {
		t.Errorf("version = %q, want test", resp.Version)
	}
	if resp.MaxRequestSizeBytes != MaxRequestSize {
		t.Errorf("max_request_size_bytes = %d, want %d", resp.MaxRequestSizeBytes, MaxRequestSize)
	}
}

func TestHomeListsNodes(t *testing.T) {
	st := &stubStore{
		ids: []string{"node-aaaa-1111", "node-bbbb-2222"},
		latest: map[string][]telemetry.Point{
			"node-aaaa-1111": {{
				NodeID: "node-aaaa-1111", Timestamp: "2026-08-24T10:00:00Z",
				ProbeType: "sysinfo", ProbeName: "cpu_core_count", ProbeValue: "8",
			}},
			"node-bbbb-2222": {{
				NodeID: "node-bbbb-2222", Timestamp: "2026-08-24T10:05:00Z",
				ProbeType: "sysinfo", ProbeName: "cpu_core_count", ProbeValue: "4",
			}},
		},
	}
	srv := newTestServer(nil, st)

	req := httptest.NewRequest(http.MethodGet, "/ui", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "node-aaa") || !strings.Contains(body, "node-bbb") {
		t.Errorf("home page missing node rows: %s", body)
	}
}

func TestNodeChartServesSVG(t *testing.T) {
	st := &stubStore{
		metrics: map[string][]telemetry.Point{
			"n1": {{
				NodeID: "n1", Timestamp: "2026-08-24T10:00:00Z",
				ProbeType: "sysinfo", ProbeName: "cpu_core_0_usage_percent", ProbeValue: "42.0",
			}},
		},
	}
	srv := newTestServer(nil, st)

	req := httptest.NewRequest(http.MethodGet, "/ui/node/n1/cpu.svg", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("response is not an SVG document")
	}
}

func TestBuildNodeSummary(t *testing.T) {
	points := []telemetry.Point{
		{NodeID: "n1", Timestamp: "2026-08-24T10:00:00Z", ProbeType: "sysinfo", ProbeName: "cpu_core_count", ProbeValue: "8"},
		{NodeID: "n1", Timestamp: "2026-08-24T10:00:00Z", ProbeType: "sysinfo", ProbeName: "memory_total_bytes", ProbeValue: "17179869184"},
		{NodeID: "n1", Timestamp: "2026-08-24T10:00:00Z", ProbeType: "sysinfo", ProbeName: "temperature_sensor_count", ProbeValue: "3"},
	}

	s := buildNodeSummary("n1", points)

	if s.CPUCores != "8" {
		t.Errorf("cores = %q, want 8", s.CPUCores)
	}
	if s.MemoryTotalGB != "16.0 GB" {
		t.Errorf("memory = %q, want 16.0 GB", s.MemoryTotalGB)
	}
	if s.TempSensors != "3" {
		t.Errorf("sensors = %q, want 3", s.TempSensors)
	}
	if s.LastSeen != "2026-08-24 10:00:00" {
		t.Errorf("last seen = %q", s.LastSeen)
	}
}
