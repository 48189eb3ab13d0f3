// Package query turns flat probe data into chart-ready series.
//
// Indexed metrics embed a numeric index in their name
// (cpu_core_3_usage_percent, temperature_sensor_1_celsius); grouping
// extracts that index and buckets points under a human label. Malformed
// names or values degrade gracefully: the point is skipped, never fatal.
package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/nodepulse/nodepulse/internal/telemetry"
)

// SeriesPoint is one (time, value) pair of a chart series.
type SeriesPoint struct {
	Timestamp int64 // Unix seconds
	Value     float64
}

// GroupByIndex buckets points by the numeric index embedded in their
// probe_name after the given prefix. Points whose name doesn't match the
// prefix+index pattern, or whose timestamp or value fails to parse, are
// silently skipped.
func GroupByIndex(points []telemetry.Point, prefix string) map[string][]SeriesPoint {
	groups := make(map[string][]SeriesPoint)

	for _, p := range points {
		idx, ok := extractIndex(p.ProbeName, prefix)
		if !ok {
			continue
		}

		ts, err := ParseTimestamp(p.Timestamp)
		if err != nil {
			continue
		}
		value, err := strconv.ParseFloat(p.ProbeValue, 64)
		if err != nil {
			continue
		}

		label := indexLabel(prefix, idx)
		groups[label] = append(groups[label], SeriesPoint{Timestamp: ts, Value: value})
	}

	return groups
}

// extractIndex pulls the numeric index out of an indexed metric name:
// "cpu_core_11_usage_percent" with prefix "cpu_core_" yields 11.
func extractIndex(name, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok {
		return 0, false
	}
	head, _, _ := strings.Cut(rest, "_")
	idx, err := strconv.Atoi(head)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// indexLabel derives the display label for an index under a prefix.
func indexLabel(prefix string, idx int) string {
	switch {
	case strings.Contains(prefix, "cpu"):
		return "Core " + strconv.Itoa(idx)
	case strings.Contains(prefix, "sensor"):
		return "Sensor " + strconv.Itoa(idx)
	default:
		return "#" + strconv.Itoa(idx)
	}
}

// ParseTimestamp parses a wire timestamp into Unix seconds.
func ParseTimestamp(s string) (int64, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// SeriesValues extracts (time, value) pairs from a flat result set for a
// single non-indexed metric, scaling each value by scale. Unparseable
// points are skipped.
func SeriesValues(points []telemetry.Point, scale float64) []SeriesPoint {
	var out []SeriesPoint
	for _, p := range points {
		ts, err := ParseTimestamp(p.Timestamp)
		if err != nil {
			continue
		}
		value, err := strconv.ParseFloat(p.ProbeValue, 64)
		if err != nil {
			continue
		}
		out = append(out, SeriesPoint{Timestamp: ts, Value: value * scale})
	}
	return out
}
