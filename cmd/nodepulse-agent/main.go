// nodepulse-agent collects host metrics and ships them to a collector.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nodepulse/nodepulse/internal/agent"
	"github.com/nodepulse/nodepulse/internal/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfgPath := flag.String("config", "agent.yaml", "config file path")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logJSON := flag.Bool("log-json", false, "log as JSON")
	flag.Parse()

	logging.Init(logging.ParseLevel(*logLevel), *logJSON)
	log := logging.Component("main")
	log.Info("nodepulse-agent starting", "version", Version, "config", *cfgPath)

	cfg, err := agent.Load(*cfgPath)
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := agent.NewCollector(cfg)
	if err := collector.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "nodepulse-agent: %v\n", err)
		os.Exit(1)
	}
	log.Info("nodepulse-agent stopped")
}
