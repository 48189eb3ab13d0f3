package probes

import (
	"context"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/nodepulse/nodepulse/internal/errors"
)

// MemoryProbe reports physical memory and swap usage.
type MemoryProbe struct{}

func (MemoryProbe) Name() string { return "memory" }

func (MemoryProbe) Collect(ctx context.Context) ([]Sample, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "virtual memory")
	}

	samples := []Sample{
		sysinfoSample("memory_total_bytes", formatUint(vm.Total)),
		sysinfoSample("memory_used_bytes", formatUint(vm.Used)),
		sysinfoSample("memory_usage_percent", formatFloat(vm.UsedPercent)),
	}

	swap, err := mem.SwapMemoryWithContext(ctx)
	if err == nil {
		samples = append(samples,
			sysinfoSample("swap_total_bytes", formatUint(swap.Total)),
			sysinfoSample("swap_used_bytes", formatUint(swap.Used)),
			sysinfoSample("swap_usage_percent", formatFloat(swap.UsedPercent)),
		)
	}

	return samples, nil
}
