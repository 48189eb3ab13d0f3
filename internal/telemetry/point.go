// Package telemetry defines the data point contract shared by the node
// agent and the collector.
//
// A Point is the atomic unit of telemetry. Values are carried as text
// end-to-end; numeric interpretation is deferred entirely to consumers.
package telemetry

import (
	"time"

	"github.com/nodepulse/nodepulse/internal/errors"
)

// Point is a single measurement produced by a probe.
//
// All five fields are transmitted as JSON strings. The wire field names are
// part of the protocol and must not change.
type Point struct {
	// NodeID is an opaque node identifier. There is no central registry;
	// a node is known the instant its first point is stored.
	NodeID string `json:"node_id"`

	// Timestamp is an RFC 3339 UTC timestamp, assigned once per collection
	// cycle. All points of one cycle share the same timestamp.
	Timestamp string `json:"timestamp"`

	// ProbeType is the coarse source category (e.g. "sysinfo", "procfs").
	ProbeType string `json:"probe_type"`

	// ProbeName is the metric identifier. Indexed metrics embed a numeric
	// index between a literal prefix and suffix (e.g.
	// "cpu_core_3_usage_percent"); the index position is part of the
	// contract.
	ProbeName string `json:"probe_name"`

	// ProbeValue is the metric value serialized as text.
	ProbeValue string `json:"probe_value"`
}

// Batch is the request payload for probe data submission.
type Batch struct {
	Data []Point `json:"data"`
}

// Validate checks that all fields of the point are present.
func (p *Point) Validate() error {
	switch {
	case p.NodeID == "":
		return errors.NewMissingField("node_id")
	case p.Timestamp == "":
		return errors.NewMissingField("timestamp")
	case p.ProbeType == "":
		return errors.NewMissingField("probe_type")
	case p.ProbeName == "":
		return errors.NewMissingField("probe_name")
	case p.ProbeValue == "":
		return errors.NewMissingField("probe_value")
	}
	return nil
}

// NewTimestamp returns the current UTC time formatted for the wire.
// Called once at the start of a collection cycle and shared by every
// point the cycle produces.
func NewTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
