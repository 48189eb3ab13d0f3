// Package probes collects host metrics as typed name/value samples. Each
// probe returns bare samples; the collection loop stamps the node id and
// the cycle timestamp.
package probes

import (
	"context"
	"strconv"
)

// Probe type tags carried into every data point.
const (
	TypeSysinfo = "sysinfo"
	TypeProcfs  = "procfs"
)

// Sample is one collected metric before node and timestamp stamping.
type Sample struct {
	Type  string
	Name  string
	Value string
}

// Probe is one source of samples. Collect returns whatever it could
// gather; probes degrade to fewer samples rather than failing a whole
// cycle.
type Probe interface {
	Name() string
	Collect(ctx context.Context) ([]Sample, error)
}

func sysinfoSample(name, value string) Sample {
	return Sample{Type: TypeSysinfo, Name: name, Value: value}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}
