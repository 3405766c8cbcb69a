package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sampler.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Run.Duration != DefaultDuration || cfg.Run.Interval != DefaultInterval {
		t.Fatalf("run = %+v", cfg.Run)
	}
	if cfg.Satellite.Name != DefaultSatelliteName || cfg.Satellite.TLE1 != DefaultTLE1 {
		t.Fatalf("satellite = %+v", cfg.Satellite)
	}
	if cfg.Run.DataFile != "data.csv" || cfg.Run.OutputDir != "." {
		t.Fatalf("files = %+v", cfg.Run)
	}
}

func TestLoad_OverridesAndDurations(t *testing.T) {
	path := writeTempConfig(t, `
run:
  duration: 5m
  interval: 2s
  output_dir: /tmp/run
magnetometer:
  x: 1.5
  y: -2
  z: 0.25
observability:
  metrics_addr: ":9090"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Run.Duration != 5*time.Minute || cfg.Run.Interval != 2*time.Second {
		t.Fatalf("run = %+v", cfg.Run)
	}
	if cfg.Run.OutputDir != "/tmp/run" || cfg.Run.LogFile != DefaultLogFile {
		t.Fatalf("files = %+v", cfg.Run)
	}
	if cfg.Magnetometer.X != 1.5 || cfg.Magnetometer.Y != -2 || cfg.Magnetometer.Z != 0.25 {
		t.Fatalf("magnetometer = %+v", cfg.Magnetometer)
	}
	if cfg.Observability.MetricsAddr != ":9090" {
		t.Fatalf("metrics addr = %q", cfg.Observability.MetricsAddr)
	}
}

func TestLoad_CustomSatellite(t *testing.T) {
	path := writeTempConfig(t, `
satellite:
  tle1: "1 x"
  tle2: "2 y"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Satellite.Name != "satellite" || cfg.Satellite.TLE1 != "1 x" {
		t.Fatalf("satellite = %+v", cfg.Satellite)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"half tle", "satellite:\n  tle1: \"1 x\"\n", "satellite.tle1 and satellite.tle2 must be set together"},
		{"negative duration", "run:\n  duration: -1s\n", "run.duration must not be negative"},
		{"interval too long", "run:\n  duration: 1s\n  interval: 1m\n", "run.interval 1m0s exceeds run.duration 1s"},
		{"unknown exporter", "observability:\n  tracing:\n    exporter: zipkin\n", `observability.tracing.exporter "zipkin" is not stdout or otlp`},
		{"ratio above one", "observability:\n  tracing:\n    sample_ratio: 2\n", "observability.tracing.sample_ratio 2 is outside [0, 1]"},
	}
	for _, tc := range cases {
		_, err := Load(writeTempConfig(t, tc.body))
		if err == nil {
			t.Fatalf("%s: expected error %q", tc.name, tc.want)
		}
		if err.Error() != tc.want {
			t.Fatalf("%s: error=%q want %q", tc.name, err.Error(), tc.want)
		}
	}
}

func TestValidate_ZeroDurationRunsUntilCancelled(t *testing.T) {
	cfg := Default()
	cfg.Run.Duration = 0
	cfg.Run.Interval = time.Minute
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() with zero duration: %v", err)
	}
}

func TestLoad_Tracing(t *testing.T) {
	path := writeTempConfig(t, `
observability:
  tracing:
    enabled: true
    exporter: otlp
    endpoint: collector:4317
    sample_ratio: 0.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := TracingConfig{Enabled: true, Exporter: "otlp", Endpoint: "collector:4317", ServiceName: DefaultTraceService, SampleRatio: 0.5}
	if diff := cmp.Diff(want, cfg.Observability.Tracing); diff != "" {
		t.Fatalf("tracing mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeTempConfig(t, "run: [\n")); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestDefault_FullShape(t *testing.T) {
	want := Config{
		Satellite: SatelliteConfig{Name: DefaultSatelliteName, TLE1: DefaultTLE1, TLE2: DefaultTLE2},
		Run: RunConfig{
			Duration:  DefaultDuration,
			Interval:  DefaultInterval,
			OutputDir: ".",
			DataFile:  DefaultDataFile,
			LogFile:   DefaultLogFile,
		},
		Observability: ObservabilityConfig{
			Tracing: TracingConfig{Exporter: DefaultTraceExporter, ServiceName: DefaultTraceService, SampleRatio: 1},
		},
	}
	if diff := cmp.Diff(want, Default()); diff != "" {
		t.Fatalf("Default() mismatch (-want +got):\n%s", diff)
	}
}
