// nodepulsed is the fleet telemetry collector daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nodepulse/nodepulse/internal/logging"
	"github.com/nodepulse/nodepulse/internal/server"
	"github.com/nodepulse/nodepulse/internal/store"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	listen := flag.String("listen", "0.0.0.0:8080", "listen address")
	dataDir := flag.String("data-dir", "./data", "directory for metric database files")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logJSON := flag.Bool("log-json", false, "log as JSON")
	flag.Parse()

	logging.Init(logging.ParseLevel(*logLevel), *logJSON)
	log := logging.Component("main")
	log.Info("nodepulsed starting", "version", Version, "data_dir", *dataDir)

	writer, handle, err := store.NewWriter(*dataDir)
	if err != nil {
		log.Error("open writer", "error", err)
		os.Exit(1)
	}
	go writer.Run()

	reader := store.NewReaderPool(*dataDir)

	srv := server.New(&server.Config{
		Addr:    *listen,
		Writer:  handle,
		Reader:  reader,
		Version: Version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	err = g.Wait()

	// The HTTP surface is down; no new batches can arrive. Flush the
	// writer's queue, then close the read pools.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if shutdownErr := handle.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Warn("writer shutdown", "error", shutdownErr)
	} else {
		select {
		case <-handle.Done():
		case <-shutdownCtx.Done():
			log.Warn("writer drain timed out")
		}
	}

	if closeErr := reader.Close(); closeErr != nil {
		log.Warn("close readers", "error", closeErr)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "nodepulsed: %v\n", err)
		os.Exit(1)
	}
	log.Info("nodepulsed stopped")
}
