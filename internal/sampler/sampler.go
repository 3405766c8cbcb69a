// Package sampler runs the per-tick sampling pipeline: locate the
// sub-satellite point, classify it as land or ocean, photograph it with
// matching GPS tags, read the magnetometer and append a CSV row.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/signalsfoundry/mostlyharmless/core"
	"github.com/signalsfoundry/mostlyharmless/internal/camera"
	"github.com/signalsfoundry/mostlyharmless/internal/logging"
	"github.com/signalsfoundry/mostlyharmless/internal/observability"
	"github.com/signalsfoundry/mostlyharmless/internal/record"
	"github.com/signalsfoundry/mostlyharmless/internal/sensors"
	"github.com/signalsfoundry/mostlyharmless/model"
	"go.opentelemetry.io/otel/attribute"
)

// Recorder persists one row per successful sample.
type Recorder interface {
	Append(record.Row) error
}

// StageError reports which step of a sample failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// StageOf returns the failing stage recorded in err, or "unknown".
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return observability.StageUnknown
}

// Sampler owns the collaborators of a sampling run. Sample may be called
// from one goroutine at a time; the photo counter is guarded regardless.
type Sampler struct {
	orbit    core.OrbitSource
	mag      sensors.Magnetometer
	cam      camera.Camera
	rec      Recorder
	regions  core.PolygonSet
	photoDir string
	runID    string

	log     logging.Logger
	clock   clockwork.Clock
	metrics *observability.SamplerCollector

	mu     sync.Mutex
	photos int
}

// Option configures optional Sampler collaborators.
type Option func(*Sampler)

// WithLogger sets the base logger; each sample logs through a child
// annotated with its sequence number.
func WithLogger(log logging.Logger) Option {
	return func(s *Sampler) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics records per-sample metrics.
func WithMetrics(c *observability.SamplerCollector) Option {
	return func(s *Sampler) { s.metrics = c }
}

// WithClock overrides the clock used for row timestamps and durations.
func WithClock(c clockwork.Clock) Option {
	return func(s *Sampler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithPhotoDir sets where photos are written. Defaults to the working
// directory.
func WithPhotoDir(dir string) Option {
	return func(s *Sampler) { s.photoDir = dir }
}

// WithRunID tags every sample's logs and span with the identifier of the
// run that produced it.
func WithRunID(id string) Option {
	return func(s *Sampler) { s.runID = id }
}

// New wires a sampler. regions is usually kb.Default().
func New(orbit core.OrbitSource, mag sensors.Magnetometer, cam camera.Camera, rec Recorder, regions core.PolygonSet, opts ...Option) *Sampler {
	s := &Sampler{
		orbit:   orbit,
		mag:     mag,
		cam:     cam,
		rec:     rec,
		regions: regions,
		log:     logging.Noop(),
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runID != "" {
		s.log = s.log.With(logging.String("run_id", s.runID))
	}
	return s
}

// Photos returns how many samples have completed.
func (s *Sampler) Photos() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.photos
}

// Observation is the outcome of one successful sample.
type Observation struct {
	Row    record.Row
	Region model.RegionName
	Tags   camera.GPSTags
	Path   string
}

// Sample runs the pipeline once for the instant at. Failures are returned
// as *StageError and leave the photo counter unchanged.
func (s *Sampler) Sample(ctx context.Context, at time.Time) (Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.photos
	ctx, log := logging.WithSample(ctx, s.log, n)
	ctx, span := observability.StartSampleSpan(ctx, n, at)
	if s.runID != "" {
		span.SetAttributes(attribute.String("sample.run_id", s.runID))
	}
	began := s.clock.Now()

	obs, err := s.sample(ctx, n, at)
	elapsed := s.clock.Since(began).Seconds()
	if err != nil {
		stage := StageOf(err)
		observability.EndSampleSpan(span, stage, err)
		s.metrics.ObserveError(stage, elapsed)
		log.Error(ctx, "sample failed", logging.String("stage", stage), logging.Err(err))
		return Observation{}, err
	}

	s.photos++
	observability.EndSampleSpan(span, "", nil,
		attribute.String("sample.status", obs.Row.Status.String()),
		attribute.String("sample.region", string(obs.Region)),
		attribute.Float64("sample.latitude", obs.Row.Latitude),
		attribute.Float64("sample.longitude", obs.Row.Longitude),
	)
	s.metrics.ObserveSample(obs.Row.Status.String(), string(obs.Region),
		obs.Row.Latitude, obs.Row.Longitude, obs.Row.MagTotal, elapsed)
	log.Info(ctx, "sample recorded",
		logging.Float("lat", obs.Row.Latitude),
		logging.Float("lon", obs.Row.Longitude),
		logging.String("status", obs.Row.Status.String()),
		logging.String("region", string(obs.Region)),
		logging.Float("mag_total", obs.Row.MagTotal),
		logging.String("photo", obs.Path),
	)
	return obs, nil
}

func (s *Sampler) sample(ctx context.Context, n int, at time.Time) (Observation, error) {
	sub, err := s.orbit.SubPoint(at)
	if err != nil {
		return Observation{}, &StageError{Stage: observability.StageOrbit, Err: err}
	}

	latDMS, err := core.ParseDMS(sub.Latitude.String())
	if err != nil {
		return Observation{}, &StageError{Stage: observability.StageParse, Err: err}
	}
	lonDMS, err := core.ParseDMS(sub.Longitude.String())
	if err != nil {
		return Observation{}, &StageError{Stage: observability.StageParse, Err: err}
	}
	pos := model.GeodeticPosition{
		Latitude:  core.ToDecimalDegrees(float64(sub.Latitude)),
		Longitude: core.ToDecimalDegrees(float64(sub.Longitude)),
	}
	status, region := core.Locate(s.regions, pos)
	tags := camera.TagsFor(latDMS, lonDMS)

	path := filepath.Join(s.photoDir, camera.PhotoName(n))
	if err := s.cam.Capture(ctx, path, tags); err != nil {
		return Observation{}, &StageError{Stage: observability.StageCapture, Err: err}
	}

	reading, err := sensors.Sample(ctx, s.mag)
	if err != nil {
		return Observation{}, &StageError{Stage: observability.StageSensor, Err: err}
	}

	row := record.Row{
		Time:      s.clock.Now(),
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Status:    status,
		MagX:      reading.X,
		MagY:      reading.Y,
		MagZ:      reading.Z,
		MagTotal:  reading.Total,
		Photo:     n,
	}
	if err := s.rec.Append(row); err != nil {
		return Observation{}, &StageError{Stage: observability.StageRecord, Err: err}
	}
	return Observation{Row: row, Region: region, Tags: tags, Path: path}, nil
}
