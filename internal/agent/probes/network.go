package probes

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/net"

	"github.com/nodepulse/nodepulse/internal/errors"
)

// NetworkProbe reports cumulative byte counters per interface, indexed
// in interface-enumeration order. Values are totals since boot; rates
// are derived at query time.
type NetworkProbe struct{}

func (NetworkProbe) Name() string { return "network" }

func (NetworkProbe) Collect(ctx context.Context) ([]Sample, error) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, errors.Wrap(err, "network counters")
	}

	samples := make([]Sample, 0, 3*len(counters))
	for i, c := range counters {
		samples = append(samples,
			sysinfoSample(fmt.Sprintf("network_interface_%d_name", i), c.Name),
			sysinfoSample(fmt.Sprintf("network_interface_%d_rx_bytes_total", i), formatUint(c.BytesRecv)),
			sysinfoSample(fmt.Sprintf("network_interface_%d_tx_bytes_total", i), formatUint(c.BytesSent)),
		)
	}

	return samples, nil
}
