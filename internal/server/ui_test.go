package server

import (
	"testing"

	"github.com/nodepulse/nodepulse/internal/query"
)

func TestSortedLabelsNumericOrder(t *testing.T) {
	groups := map[string][]query.SeriesPoint{
		"Core 10": nil,
		"Core 2":  nil,
		"Core 0":  nil,
		"Core 1":  nil,
	}

	got := sortedLabels(groups)
	want := []string{"Core 0", "Core 1", "Core 2", "Core 10"}

	if len(got) != len(want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q (full order %v)", i, got[i], want[i], got)
		}
	}
}

func TestSortedLabelsMixedPrefixes(t *testing.T) {
	groups := map[string][]query.SeriesPoint{
		"Sensor 2": nil,
		"Core 11":  nil,
		"Core 3":   nil,
		"#1":       nil,
	}

	got := sortedLabels(groups)
	want := []string{"#1", "Core 3", "Core 11", "Sensor 2"}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels = %v, want %v", got, want)
		}
	}
}
