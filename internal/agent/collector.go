package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/nodepulse/nodepulse/internal/agent/client"
	"github.com/nodepulse/nodepulse/internal/agent/probes"
	"github.com/nodepulse/nodepulse/internal/logging"
	"github.com/nodepulse/nodepulse/internal/telemetry"
)

// Collector runs the collection loop: every interval it gathers samples
// from the enabled probes, stamps them with the node id and one shared
// timestamp, and delivers the batch to the collector service.
type Collector struct {
	cfg    *Config
	sender client.Sender
	probes []probes.Probe
	now    func() time.Time
	log    *slog.Logger
}

// NewCollector builds a Collector from configuration. The probe set is
// fixed at construction from the enabled flags.
func NewCollector(cfg *Config) *Collector {
	return &Collector{
		cfg:    cfg,
		sender: client.New(cfg.CollectorAddr),
		probes: buildProbes(cfg.Probes),
		now:    time.Now,
		log:    logging.Node(cfg.NodeID),
	}
}

func buildProbes(cfg ProbesConfig) []probes.Probe {
	var ps []probes.Probe
	if cfg.Sysinfo.CPU {
		ps = append(ps, probes.CPUProbe{})
	}
	if cfg.Sysinfo.Memory {
		ps = append(ps, probes.MemoryProbe{})
	}
	if cfg.Sysinfo.Disk {
		ps = append(ps, probes.DiskProbe{})
	}
	if cfg.Sysinfo.Network {
		ps = append(ps, probes.NetworkProbe{})
	}
	if cfg.Sysinfo.Temperature {
		ps = append(ps, probes.TemperatureProbe{})
	}
	if cfg.Sysinfo.StaticInfo {
		ps = append(ps, probes.StaticInfoProbe{})
	}
	if cfg.Procfs.Forks {
		ps = append(ps, probes.ForksProbe{})
	}
	return ps
}

// Run collects immediately, then on every interval tick, until ctx is
// cancelled.
func (c *Collector) Run(ctx context.Context) error {
	interval := time.Duration(c.cfg.CollectionIntervalSecs) * time.Second
	c.log.Info("collection loop starting",
		"interval", interval,
		"probes", len(c.probes),
		"collector", c.cfg.CollectorAddr)

	// Prime delta-based counters so the first cycle reports real values.
	for _, p := range c.probes {
		if w, ok := p.(interface{ Warmup(context.Context) }); ok {
			w.Warmup(ctx)
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		c.runCycle(ctx)

		select {
		case <-ctx.Done():
			c.log.Info("collection loop stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// runCycle performs one collect-and-deliver cycle. Every point in the
// cycle carries the same timestamp. A batch that cannot be delivered
// after all retry attempts is dropped.
func (c *Collector) runCycle(ctx context.Context) {
	timestamp := c.now().UTC().Format(time.RFC3339)

	var points []telemetry.Point
	for _, p := range c.probes {
		samples, err := p.Collect(ctx)
		if err != nil {
			c.log.Warn("probe failed", "probe", p.Name(), "error", err)
			continue
		}
		for _, s := range samples {
			points = append(points, telemetry.Point{
				NodeID:     c.cfg.NodeID,
				Timestamp:  timestamp,
				ProbeType:  s.Type,
				ProbeName:  s.Name,
				ProbeValue: s.Value,
			})
		}
	}

	if len(points) == 0 {
		c.log.Warn("no samples collected, skipping send")
		return
	}

	if err := client.SendWithRetry(ctx, c.sender, points, c.cfg.MaxSendAttempts, c.log); err != nil {
		c.log.Error("dropping batch after exhausted retries",
			"points", len(points),
			"attempts", c.cfg.MaxSendAttempts,
			"error", err)
		return
	}

	c.log.Debug("batch delivered", "points", len(points))
}
