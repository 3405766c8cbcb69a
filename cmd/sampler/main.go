package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/signalsfoundry/mostlyharmless/core"
	"github.com/signalsfoundry/mostlyharmless/internal/camera"
	"github.com/signalsfoundry/mostlyharmless/internal/config"
	"github.com/signalsfoundry/mostlyharmless/internal/logging"
	"github.com/signalsfoundry/mostlyharmless/internal/observability"
	"github.com/signalsfoundry/mostlyharmless/internal/record"
	"github.com/signalsfoundry/mostlyharmless/internal/sampler"
	"github.com/signalsfoundry/mostlyharmless/internal/sensors"
	"github.com/signalsfoundry/mostlyharmless/kb"
	"github.com/signalsfoundry/mostlyharmless/timectrl"
)

func main() {
	os.Exit(runMain(os.Args[1:], os.Stderr))
}

// runMain parses flags, sets up logging and observability, runs the
// sampler and returns the process exit code. Every cleanup is deferred
// here so it runs before main exits.
func runMain(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("sampler", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a YAML run configuration")
	duration := fs.Duration("duration", config.DefaultDuration, "total sampling duration (0 runs until interrupted)")
	interval := fs.Duration("interval", config.DefaultInterval, "time between samples")
	outDir := fs.String("out", ".", "directory for photos, the data file and the log file")
	metricsAddr := fs.String("metrics-addr", "", "HTTP address for Prometheus /metrics (disabled when empty)")
	healthAddr := fs.String("health-addr", "", "TCP address for the gRPC health service (disabled when empty)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Run.Duration = *duration
		case "interval":
			cfg.Run.Interval = *interval
		case "out":
			cfg.Run.OutputDir = *outDir
		case "metrics-addr":
			cfg.Observability.MetricsAddr = *metricsAddr
		case "health-addr":
			cfg.Observability.HealthAddr = *healthAddr
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 1
	}
	if err := os.MkdirAll(cfg.Run.OutputDir, 0o755); err != nil {
		fmt.Fprintf(stderr, "create output dir: %v\n", err)
		return 1
	}

	logFile, err := os.OpenFile(filepath.Join(cfg.Run.OutputDir, cfg.Run.LogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(stderr, "open log file: %v\n", err)
		return 1
	}
	defer logFile.Close()
	log := logging.NewFromEnv(logFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracing := observability.TracingConfigFrom(cfg.Observability.Tracing, cfg.Satellite.Name)
	shutdownTracing, err := observability.InitTracing(ctx, tracing, log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		return 1
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	reg := prometheus.NewRegistry()
	metricsSrv := serveMetrics(cfg.Observability.MetricsAddr, reg, log)
	if metricsSrv != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	if cfg.Observability.HealthAddr != "" {
		health := observability.NewHealthServer(log)
		if err := health.ListenAndServe(cfg.Observability.HealthAddr); err != nil {
			log.Error(ctx, "failed to listen for gRPC health", logging.String("addr", cfg.Observability.HealthAddr), logging.Err(err))
			return 1
		}
		defer health.Stop()
		health.SetServing(true)
	}

	photos, err := run(ctx, cfg, log, clockwork.NewRealClock(), reg)
	if err != nil {
		log.Error(ctx, "sampling run failed", logging.Err(err))
		return 1
	}
	log.Info(ctx, "sampling complete", logging.Int("photos", photos))
	return 0
}

// run wires the sampling pipeline from cfg and blocks until the run ends.
func run(ctx context.Context, cfg config.Config, log logging.Logger, clock clockwork.Clock, reg prometheus.Registerer) (int, error) {
	orbit, err := core.NewSGP4Source(cfg.Satellite.Name, cfg.Satellite.TLE1, cfg.Satellite.TLE2)
	if err != nil {
		return 0, fmt.Errorf("orbit source: %w", err)
	}

	samplerMetrics, err := observability.NewSamplerCollector(reg)
	if err != nil {
		return 0, fmt.Errorf("sampler metrics: %w", err)
	}
	clockMetrics, err := observability.NewClockCollector(reg)
	if err != nil {
		return 0, fmt.Errorf("clock metrics: %w", err)
	}

	w, err := record.Create(filepath.Join(cfg.Run.OutputDir, cfg.Run.DataFile))
	if err != nil {
		return 0, fmt.Errorf("data file: %w", err)
	}
	defer w.Close()

	mag := sensors.StaticMagnetometer{Field: sensors.RawField{
		X: cfg.Magnetometer.X,
		Y: cfg.Magnetometer.Y,
		Z: cfg.Magnetometer.Z,
	}}
	s := sampler.New(orbit, mag, camera.SidecarCamera{}, w, kb.Default(),
		sampler.WithLogger(log.With(logging.String("satellite", orbit.Name()))),
		sampler.WithRunID(uuid.NewString()),
		sampler.WithMetrics(samplerMetrics),
		sampler.WithClock(clock),
		sampler.WithPhotoDir(cfg.Run.OutputDir),
	)

	log.Info(ctx, "writing samples", logging.String("data_file", w.Path()))
	ctrl := timectrl.NewController(clock, cfg.Run.Interval)
	return sampler.Run(ctx, s, ctrl, cfg.Run.Duration, clockMetrics)
}

func serveMetrics(addr string, gatherer prometheus.Gatherer, log logging.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.HandlerFor(gatherer))

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
