package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sample failure stages, used as the "stage" label of sample_errors_total.
const (
	StageCapture = "capture"
	StageSensor  = "magnetometer"
	StageOrbit   = "orbit"
	StageParse   = "parse"
	StageRecord  = "record"
	StageUnknown = "unknown"
)

// SamplerCollector bundles the Prometheus metrics of a sampling run.
type SamplerCollector struct {
	gatherer prometheus.Gatherer

	Samples        *prometheus.CounterVec
	SampleErrors   *prometheus.CounterVec
	SampleDuration prometheus.Histogram

	SubLatitude  prometheus.Gauge
	SubLongitude prometheus.Gauge
	FieldTotal   prometheus.Gauge
}

// NewSamplerCollector registers sampler metrics against reg, defaulting to
// the global Prometheus registry when nil.
func NewSamplerCollector(reg prometheus.Registerer) (*SamplerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	samples, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "samples_total",
		Help: "Completed samples, labeled by land/ocean status and the ocean region matched.",
	}, []string{"status", "region"}), "samples_total")
	if err != nil {
		return nil, err
	}

	sampleErrors, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sample_errors_total",
		Help: "Samples abandoned, labeled by the stage that failed.",
	}, []string{"stage"}), "sample_errors_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sample_duration_seconds",
		Help:    "Wall time spent producing one sample.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}), "sample_duration_seconds")
	if err != nil {
		return nil, err
	}

	lat, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "subpoint_latitude_degrees",
		Help: "Latitude of the most recent sub-satellite point.",
	}), "subpoint_latitude_degrees")
	if err != nil {
		return nil, err
	}
	lon, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "subpoint_longitude_degrees",
		Help: "Longitude of the most recent sub-satellite point.",
	}), "subpoint_longitude_degrees")
	if err != nil {
		return nil, err
	}
	field, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "magnetic_field_total_microtesla",
		Help: "Total magnetic field intensity of the most recent sample.",
	}), "magnetic_field_total_microtesla")
	if err != nil {
		return nil, err
	}

	return &SamplerCollector{
		gatherer:       gatherer,
		Samples:        samples,
		SampleErrors:   sampleErrors,
		SampleDuration: duration,
		SubLatitude:    lat,
		SubLongitude:   lon,
		FieldTotal:     field,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SamplerCollector) Handler() http.Handler {
	return HandlerFor(c.gatherer)
}

// HandlerFor serves gatherer in the Prometheus exposition format, falling
// back to the default gatherer when nil.
func HandlerFor(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveSample records a completed sample. A nil collector is a no-op so
// callers need not guard optional metrics.
func (c *SamplerCollector) ObserveSample(status, region string, lat, lon, field, seconds float64) {
	if c == nil {
		return
	}
	if region == "" {
		region = "none"
	}
	c.Samples.WithLabelValues(status, region).Inc()
	c.SampleDuration.Observe(seconds)
	c.SubLatitude.Set(lat)
	c.SubLongitude.Set(lon)
	c.FieldTotal.Set(field)
}

// ObserveError records an abandoned sample.
func (c *SamplerCollector) ObserveError(stage string, seconds float64) {
	if c == nil {
		return
	}
	if stage == "" {
		stage = StageUnknown
	}
	c.SampleErrors.WithLabelValues(stage).Inc()
	c.SampleDuration.Observe(seconds)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
