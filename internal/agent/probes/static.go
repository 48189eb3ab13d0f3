package probes

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/nodepulse/nodepulse/internal/errors"
)

// StaticInfoProbe reports slow-changing host identity. The values rarely
// change but are re-collected every cycle so the latest snapshot always
// carries them.
type StaticInfoProbe struct{}

func (StaticInfoProbe) Name() string { return "static_info" }

func (StaticInfoProbe) Collect(ctx context.Context) ([]Sample, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "host info")
	}

	arch := info.KernelArch
	if arch == "" {
		arch = runtime.GOARCH
	}

	return []Sample{
		sysinfoSample("system_hostname", info.Hostname),
		sysinfoSample("system_os_name", info.Platform+" "+info.PlatformVersion),
		sysinfoSample("system_kernel_version", info.KernelVersion),
		sysinfoSample("system_cpu_arch", arch),
	}, nil
}
