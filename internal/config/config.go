package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults match the 2020 ISS deployment: a little under three hours of
// sampling, one sample every ten seconds.
const (
	DefaultDuration = 178 * time.Minute
	DefaultInterval = 10 * time.Second
	DefaultDataFile = "data.csv"
	DefaultLogFile  = "mostlyharmless.log"

	DefaultTraceExporter = "stdout"
	DefaultTraceService  = "mostlyharmless-sampler"

	DefaultSatelliteName = "ISS (ZARYA)"
	DefaultTLE1          = "1 25544U 98067A   20014.55106447  .00001081  00000-0  27319-4 0  9995"
	DefaultTLE2          = "2 25544  51.6449  33.6082 0005001 130.1836   8.0955 15.49563139208048"
)

type Config struct {
	Satellite     SatelliteConfig     `yaml:"satellite"`
	Run           RunConfig           `yaml:"run"`
	Magnetometer  MagnetometerConfig  `yaml:"magnetometer"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type SatelliteConfig struct {
	Name string `yaml:"name"`
	TLE1 string `yaml:"tle1"`
	TLE2 string `yaml:"tle2"`
}

type RunConfig struct {
	Duration  time.Duration `yaml:"duration"`
	Interval  time.Duration `yaml:"interval"`
	OutputDir string        `yaml:"output_dir"`
	DataFile  string        `yaml:"data_file"`
	LogFile   string        `yaml:"log_file"`
}

// MagnetometerConfig supplies a fixed field reading for runs without
// sensor hardware.
type MagnetometerConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type ObservabilityConfig struct {
	MetricsAddr string        `yaml:"metrics_addr"`
	HealthAddr  string        `yaml:"health_addr"`
	Tracing     TracingConfig `yaml:"tracing"`
}

// TracingConfig selects the span exporter. A zero sample_ratio means the
// default of sampling every tick.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Exporter    string  `yaml:"exporter"` // stdout | otlp
	Endpoint    string  `yaml:"endpoint"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML file, fills in defaults and validates the result. An
// empty path yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Satellite.TLE1 == "" && c.Satellite.TLE2 == "" {
		c.Satellite.TLE1 = DefaultTLE1
		c.Satellite.TLE2 = DefaultTLE2
		if c.Satellite.Name == "" {
			c.Satellite.Name = DefaultSatelliteName
		}
	}
	if c.Satellite.Name == "" {
		c.Satellite.Name = "satellite"
	}
	if c.Run.Duration == 0 {
		c.Run.Duration = DefaultDuration
	}
	if c.Run.Interval == 0 {
		c.Run.Interval = DefaultInterval
	}
	if c.Run.OutputDir == "" {
		c.Run.OutputDir = "."
	}
	if c.Run.DataFile == "" {
		c.Run.DataFile = DefaultDataFile
	}
	if c.Run.LogFile == "" {
		c.Run.LogFile = DefaultLogFile
	}
	tr := &c.Observability.Tracing
	if tr.Exporter == "" {
		tr.Exporter = DefaultTraceExporter
	}
	if tr.ServiceName == "" {
		tr.ServiceName = DefaultTraceService
	}
	if tr.SampleRatio == 0 {
		tr.SampleRatio = 1
	}
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	if (c.Satellite.TLE1 == "") != (c.Satellite.TLE2 == "") {
		return errors.New("satellite.tle1 and satellite.tle2 must be set together")
	}
	if c.Run.Duration < 0 {
		return errors.New("run.duration must not be negative")
	}
	if c.Run.Interval < 0 {
		return errors.New("run.interval must not be negative")
	}
	// A zero duration samples until the run is cancelled.
	if c.Run.Duration > 0 && c.Run.Interval > c.Run.Duration {
		return fmt.Errorf("run.interval %s exceeds run.duration %s", c.Run.Interval, c.Run.Duration)
	}
	switch strings.ToLower(c.Observability.Tracing.Exporter) {
	case "stdout", "otlp", "otlpgrpc":
	default:
		return fmt.Errorf("observability.tracing.exporter %q is not stdout or otlp", c.Observability.Tracing.Exporter)
	}
	if r := c.Observability.Tracing.SampleRatio; r < 0 || r > 1 {
		return fmt.Errorf("observability.tracing.sample_ratio %v is outside [0, 1]", r)
	}
	return nil
}
