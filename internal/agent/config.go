// Package agent implements the node-side collection loop: it runs the
// enabled probes on a fixed interval and delivers each cycle's batch to
// the collector.
package agent

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nodepulse/nodepulse/internal/errors"
)

// Config is the agent's YAML configuration.
type Config struct {
	// NodeID identifies this node in every data point it produces.
	NodeID string `yaml:"node_id"`

	// CollectorAddr is the base URL of the collector, e.g.
	// "http://collector:8080".
	CollectorAddr string `yaml:"collector_addr"`

	// CollectionIntervalSecs is the fixed delay between collection
	// cycles.
	CollectionIntervalSecs int `yaml:"collection_interval_secs"`

	// MaxSendAttempts bounds delivery retries per batch. A batch that
	// exhausts its attempts is dropped, not requeued into the next cycle.
	MaxSendAttempts int `yaml:"max_send_attempts"`

	// Probes enables individual probe sources.
	Probes ProbesConfig `yaml:"probes"`
}

// ProbesConfig enables individual probe sources.
type ProbesConfig struct {
	Sysinfo SysinfoProbes `yaml:"sysinfo"`
	Procfs  ProcfsProbes  `yaml:"procfs"`
}

// SysinfoProbes enables the host-information probes.
type SysinfoProbes struct {
	CPU         bool `yaml:"cpu"`
	Memory      bool `yaml:"memory"`
	Disk        bool `yaml:"disk"`
	Network     bool `yaml:"network"`
	Temperature bool `yaml:"temperature"`
	StaticInfo  bool `yaml:"static_info"`
}

// ProcfsProbes enables the /proc-based probes.
type ProcfsProbes struct {
	Forks bool `yaml:"forks"`
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults. NodeID
// and CollectorAddr have no defaults; they must come from the file.
func DefaultConfig() *Config {
	return &Config{
		CollectionIntervalSecs: 60,
		MaxSendAttempts:        3,
		Probes: ProbesConfig{
			Sysinfo: SysinfoProbes{
				CPU:         true,
				Memory:      true,
				Disk:        true,
				Network:     true,
				Temperature: true,
				StaticInfo:  true,
			},
			Procfs: ProcfsProbes{Forks: true},
		},
	}
}

// Validate checks required fields and ranges.
func (c *Config) Validate() error {
	if c.NodeID == "" {
		return errors.NewMissingField("node_id")
	}
	if c.CollectorAddr == "" {
		return errors.NewMissingField("collector_addr")
	}
	if c.CollectionIntervalSecs < 1 {
		return errors.Wrapf(errors.ErrInvalidBatch, "collection_interval_secs must be >= 1, got %d", c.CollectionIntervalSecs)
	}
	if c.MaxSendAttempts < 1 {
		return errors.Wrapf(errors.ErrInvalidBatch, "max_send_attempts must be >= 1, got %d", c.MaxSendAttempts)
	}
	return nil
}
