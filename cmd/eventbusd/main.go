// Package main is a small demonstration daemon that wires the event bus,
// its middleware stack, and the Prometheus collector together. It emits
// synthetic heartbeat events on a ticker until interrupted, then logs a
// final statistics snapshot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dshills/eventbus"
	"github.com/dshills/eventbus/config"
	"github.com/dshills/eventbus/metrics"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to YAML config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	interval := flag.Duration("interval", time.Second, "heartbeat emission interval")
	flag.Parse()

	if *showVersion {
		fmt.Printf("eventbusd %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}

	logger := newLogger(cfg.Log)
	bus := eventbus.NewBus(cfg.BusOptions(logger)...)

	if cfg.Metrics.Enabled {
		if err := prometheus.Register(metrics.NewCollector(bus)); err != nil {
			logger.Error().Err(err).Msg("failed to register metrics collector")
			return 1
		}
		go serveMetrics(cfg.Metrics.Addr, logger)
	}

	sub, err := bus.SubscribeFunc("bus.heartbeat", func(ctx context.Context, e *eventbus.Event) error {
		logger.Info().Str("event_id", e.ID).Time("at", e.Timestamp).Msg("heartbeat")
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to subscribe heartbeat handler")
		return 1
	}
	defer sub.Unsubscribe()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	logger.Info().Str("version", version).Msg("eventbusd started")

	ctx := context.Background()
	seq := 0
	for {
		select {
		case <-ticker.C:
			seq++
			evt := eventbus.NewEvent("bus.heartbeat", "eventbusd", map[string]any{"seq": seq})
			if err := bus.Emit(ctx, evt); err != nil {
				logger.Warn().Err(err).Msg("heartbeat emission failed")
			}
		case sig := <-signals:
			logger.Info().Str("signal", sig.String()).Msg("shutting down")
			stats := bus.Stats()
			logger.Info().
				Uint64("events_emitted", stats.TotalEventsEmitted).
				Int("active_subscriptions", stats.ActiveSubscriptions).
				Int("errors", len(stats.Errors)).
				Strs("event_types", stats.EventTypes).
				Msg("final bus statistics")
			return 0
		}
	}
}

// newLogger builds the process logger from config.
func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.Console {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}

// serveMetrics exposes /metrics on addr.
func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Info().Str("addr", addr).Msg("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server failed")
	}
}
