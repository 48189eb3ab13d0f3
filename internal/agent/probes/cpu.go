package probes

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/nodepulse/nodepulse/internal/errors"
)

// CPUProbe reports the logical core count and, per core, usage percent
// and current frequency.
type CPUProbe struct{}

func (CPUProbe) Name() string { return "cpu" }

// Warmup primes the usage counters. gopsutil computes usage as a delta
// against the previous reading, so the first Collect after process start
// would otherwise report garbage.
func (CPUProbe) Warmup(ctx context.Context) {
	_, _ = cpu.PercentWithContext(ctx, 0, true)
}

func (CPUProbe) Collect(ctx context.Context) ([]Sample, error) {
	usage, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		return nil, errors.Wrap(err, "cpu usage")
	}

	samples := make([]Sample, 0, 2*len(usage)+1)
	samples = append(samples, sysinfoSample("cpu_core_count", formatInt(len(usage))))
	for i, pct := range usage {
		name := fmt.Sprintf("cpu_core_%d_usage_percent", i)
		samples = append(samples, sysinfoSample(name, formatFloat(pct)))
	}

	// Frequency is best effort; some platforms report no per-core info.
	info, err := cpu.InfoWithContext(ctx)
	if err == nil {
		for i, ci := range info {
			if i >= len(usage) {
				break
			}
			name := fmt.Sprintf("cpu_core_%d_frequency_mhz", i)
			samples = append(samples, sysinfoSample(name, formatFloat(ci.Mhz)))
		}
	}

	return samples, nil
}
