package probes

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/nodepulse/nodepulse/internal/errors"
)

// DiskProbe reports usage per mounted physical partition, indexed in
// partition-enumeration order.
type DiskProbe struct{}

func (DiskProbe) Name() string { return "disk" }

func (DiskProbe) Collect(ctx context.Context) ([]Sample, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, errors.Wrap(err, "disk partitions")
	}

	var samples []Sample
	idx := 0
	for _, part := range parts {
		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			// Pseudo filesystems and stale mounts are expected to fail.
			continue
		}
		samples = append(samples,
			sysinfoSample(fmt.Sprintf("disk_%d_mount_point", idx), part.Mountpoint),
			sysinfoSample(fmt.Sprintf("disk_%d_total_bytes", idx), formatUint(usage.Total)),
			sysinfoSample(fmt.Sprintf("disk_%d_used_bytes", idx), formatUint(usage.Used)),
			sysinfoSample(fmt.Sprintf("disk_%d_usage_percent", idx), formatFloat(usage.UsedPercent)),
		)
		idx++
	}

	return samples, nil
}
