package query

import (
	"testing"

	"github.com/nodepulse/nodepulse/internal/telemetry"
)

func point(name, value string) telemetry.Point {
	return telemetry.Point{
		NodeID:     "n1",
		Timestamp:  "2026-08-24T10:00:00Z",
		ProbeType:  "sysinfo",
		ProbeName:  name,
		ProbeValue: value,
	}
}

func TestGroupByIndex(t *testing.T) {
	points := []telemetry.Point{
		point("cpu_core_0_usage_percent", "12.5"),
		point("cpu_core_11_usage_percent", "99.0"),
		point("cpu_core_0_usage_percent", "13.0"),
	}

	groups := GroupByIndex(points, "cpu_core_")

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d: %v", len(groups), groups)
	}
	if got := len(groups["Core 0"]); got != 2 {
		t.Errorf("Core 0: expected 2 points, got %d", got)
	}
	if got := len(groups["Core 11"]); got != 1 {
		t.Errorf("Core 11: expected 1 point, got %d", got)
	}
	if v := groups["Core 11"][0].Value; v != 99.0 {
		t.Errorf("Core 11 value = %v, want 99.0", v)
	}
}

func TestGroupByIndexSkipsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		point telemetry.Point
	}{
		{"non-numeric index", point("cpu_core_x_usage_percent", "50")},
		{"wrong prefix", point("memory_used_bytes", "1024")},
		{"bad value", point("cpu_core_0_usage_percent", "not-a-number")},
		{"bad timestamp", telemetry.Point{
			NodeID: "n1", Timestamp: "yesterday", ProbeType: "sysinfo",
			ProbeName: "cpu_core_0_usage_percent", ProbeValue: "50",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := GroupByIndex([]telemetry.Point{tt.point}, "cpu_core_")
			if len(groups) != 0 {
				t.Errorf("expected malformed point to be skipped, got %v", groups)
			}
		})
	}
}

func TestGroupByIndexSensorLabels(t *testing.T) {
	groups := GroupByIndex([]telemetry.Point{
		point("temperature_sensor_1_celsius", "44.0"),
	}, "temperature_sensor_")

	if _, ok := groups["Sensor 1"]; !ok {
		t.Errorf("expected label %q, got %v", "Sensor 1", groups)
	}
}

func TestGroupByIndexGenericLabel(t *testing.T) {
	groups := GroupByIndex([]telemetry.Point{
		point("disk_2_used_bytes", "1024"),
	}, "disk_")

	if _, ok := groups["#2"]; !ok {
		t.Errorf("expected label %q, got %v", "#2", groups)
	}
}

func TestSeriesValues(t *testing.T) {
	points := []telemetry.Point{
		point("memory_used_bytes", "2147483648"),
		point("memory_used_bytes", "garbage"),
	}

	out := SeriesValues(points, 1.0/(1<<30))
	if len(out) != 1 {
		t.Fatalf("expected 1 point, got %d", len(out))
	}
	if out[0].Value != 2.0 {
		t.Errorf("scaled value = %v, want 2.0", out[0].Value)
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2026-08-24T10:00:00Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ts <= 0 {
		t.Errorf("unexpected unix seconds: %d", ts)
	}

	if _, err := ParseTimestamp("not a timestamp"); err == nil {
		t.Error("expected error for malformed timestamp")
	}
}
