package telemetry

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nodepulse/nodepulse/internal/errors"
)

func validPoint() Point {
	return Point{
		NodeID:     "node-1",
		Timestamp:  "2026-08-24T10:00:00Z",
		ProbeType:  "sysinfo",
		ProbeName:  "cpu_core_count",
		ProbeValue: "8",
	}
}

func TestPointWireFieldNames(t *testing.T) {
	data, err := json.Marshal(validPoint())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	for _, field := range []string{
		`"node_id"`, `"timestamp"`, `"probe_type"`, `"probe_name"`, `"probe_value"`,
	} {
		if !strings.Contains(string(data), field) {
			t.Errorf("wire format missing field %s: %s", field, data)
		}
	}
}

func TestBatchUnmarshal(t *testing.T) {
	raw := `{"data":[{"node_id":"n1","timestamp":"2026-08-24T10:00:00Z","probe_type":"sysinfo","probe_name":"cpu_core_count","probe_value":"4"}]}`

	var batch Batch
	if err := json.Unmarshal([]byte(raw), &batch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(batch.Data) != 1 {
		t.Fatalf("expected 1 point, got %d", len(batch.Data))
	}
	if batch.Data[0].ProbeValue != "4" {
		t.Errorf("probe_value = %q, want %q", batch.Data[0].ProbeValue, "4")
	}
}

func TestPointValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Point)
		ok     bool
	}{
		{"all fields present", func(p *Point) {}, true},
		{"missing node_id", func(p *Point) { p.NodeID = "" }, false},
		{"missing timestamp", func(p *Point) { p.Timestamp = "" }, false},
		{"missing probe_type", func(p *Point) { p.ProbeType = "" }, false},
		{"missing probe_name", func(p *Point) { p.ProbeName = "" }, false},
		{"missing probe_value", func(p *Point) { p.ProbeValue = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPoint()
			tt.mutate(&p)

			err := p.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, errors.ErrMissingField) {
					t.Errorf("expected ErrMissingField, got %v", err)
				}
			}
		})
	}
}

func TestNewTimestampIsRFC3339UTC(t *testing.T) {
	ts := NewTimestamp()
	if !strings.HasSuffix(ts, "Z") {
		t.Errorf("timestamp not UTC: %s", ts)
	}
	if len(ts) != len("2026-08-24T10:00:00Z") {
		t.Errorf("unexpected timestamp shape: %s", ts)
	}
}
