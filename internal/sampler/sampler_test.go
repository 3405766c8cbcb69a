package sampler

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/signalsfoundry/mostlyharmless/core"
	"github.com/signalsfoundry/mostlyharmless/internal/camera"
	"github.com/signalsfoundry/mostlyharmless/internal/observability"
	"github.com/signalsfoundry/mostlyharmless/internal/record"
	"github.com/signalsfoundry/mostlyharmless/internal/sensors"
	"github.com/signalsfoundry/mostlyharmless/kb"
	"github.com/signalsfoundry/mostlyharmless/model"
)

type fixedOrbit struct {
	lat, lon float64 // degrees
	err      error
}

func (o *fixedOrbit) SubPoint(t time.Time) (core.SubPoint, error) {
	if o.err != nil {
		return core.SubPoint{}, o.err
	}
	return core.SubPoint{
		Time:      t,
		Latitude:  core.Angle(o.lat * math.Pi / 180),
		Longitude: core.Angle(o.lon * math.Pi / 180),
	}, nil
}

type memRecorder struct {
	rows []record.Row
	err  error
}

func (m *memRecorder) Append(r record.Row) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, r)
	return nil
}

type fakeCamera struct {
	paths []string
	tags  []camera.GPSTags
	err   error
}

func (c *fakeCamera) Capture(_ context.Context, path string, tags camera.GPSTags) error {
	if c.err != nil {
		return c.err
	}
	c.paths = append(c.paths, path)
	c.tags = append(c.tags, tags)
	return nil
}

var sampleTime = time.Date(2020, 1, 14, 13, 13, 32, 0, time.UTC)

func TestSample_OceanRow(t *testing.T) {
	orbit := &fixedOrbit{lat: -30, lon: -30}
	cam := &fakeCamera{}
	rec := &memRecorder{}
	clock := clockwork.NewFakeClockAt(sampleTime)
	s := New(orbit, sensors.StaticMagnetometer{Field: sensors.RawField{X: 6, Y: 8}}, cam, rec, kb.Default(),
		WithClock(clock), WithPhotoDir("/photos"))

	obs, err := s.Sample(context.Background(), sampleTime)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}

	want := record.Row{
		Time: sampleTime, Latitude: -30, Longitude: -30, Status: model.Ocean,
		MagX: 6, MagY: 8, MagZ: 0, MagTotal: 10, Photo: 0,
	}
	if diff := cmp.Diff(want, obs.Row); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
	if obs.Region != model.RegionAtlantic {
		t.Fatalf("region = %q, want atlantic", obs.Region)
	}
	wantTags := camera.GPSTags{LatitudeRef: "S", Latitude: "30/1,0/1,0/10", LongitudeRef: "W", Longitude: "30/1,0/1,0/10"}
	if len(cam.tags) != 1 || cam.tags[0] != wantTags {
		t.Fatalf("captured tags = %+v, want %+v", cam.tags, wantTags)
	}
	if cam.paths[0] != filepath.Join("/photos", "photo_000.jpg") {
		t.Fatalf("photo path = %q", cam.paths[0])
	}
	if len(rec.rows) != 1 || s.Photos() != 1 {
		t.Fatalf("rows = %d photos = %d, want 1/1", len(rec.rows), s.Photos())
	}
}

func TestSample_LandRowAndCounter(t *testing.T) {
	orbit := &fixedOrbit{lat: 48.85, lon: 2.35}
	rec := &memRecorder{}
	s := New(orbit, sensors.StaticMagnetometer{}, &fakeCamera{}, rec, kb.Default())

	for i := 0; i < 3; i++ {
		if _, err := s.Sample(context.Background(), sampleTime.Add(time.Duration(i)*10*time.Second)); err != nil {
			t.Fatalf("Sample %d: %v", i, err)
		}
	}
	for i, row := range rec.rows {
		if row.Photo != i || row.Status != model.Land {
			t.Fatalf("row %d = %+v", i, row)
		}
		if row.Latitude != 48.85 || row.Longitude != 2.35 {
			t.Fatalf("row %d position = %v,%v", i, row.Latitude, row.Longitude)
		}
	}
}

func TestSample_StageFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		orbit *fixedOrbit
		cam   *fakeCamera
		mag   sensors.Magnetometer
		rec   *memRecorder
		stage string
	}{
		{"orbit", &fixedOrbit{err: boom}, &fakeCamera{}, sensors.StaticMagnetometer{}, &memRecorder{}, observability.StageOrbit},
		{"parse", &fixedOrbit{lat: math.NaN()}, &fakeCamera{}, sensors.StaticMagnetometer{}, &memRecorder{}, observability.StageParse},
		{"capture", &fixedOrbit{}, &fakeCamera{err: boom}, sensors.StaticMagnetometer{}, &memRecorder{}, observability.StageCapture},
		{"magnetometer", &fixedOrbit{}, &fakeCamera{}, brokenMagnetometer{}, &memRecorder{}, observability.StageSensor},
		{"record", &fixedOrbit{}, &fakeCamera{}, sensors.StaticMagnetometer{}, &memRecorder{err: boom}, observability.StageRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			metrics, err := observability.NewSamplerCollector(reg)
			if err != nil {
				t.Fatalf("NewSamplerCollector: %v", err)
			}
			s := New(tt.orbit, tt.mag, tt.cam, tt.rec, kb.Default(), WithMetrics(metrics))

			_, err = s.Sample(context.Background(), sampleTime)
			if err == nil {
				t.Fatalf("expected failure")
			}
			if got := StageOf(err); got != tt.stage {
				t.Fatalf("StageOf = %q, want %q", got, tt.stage)
			}
			if s.Photos() != 0 {
				t.Fatalf("photo counter advanced on failure")
			}
			if got := testutil.ToFloat64(metrics.SampleErrors.WithLabelValues(tt.stage)); got != 1 {
				t.Fatalf("sample_errors_total{%s} = %v, want 1", tt.stage, got)
			}
		})
	}
}

type brokenMagnetometer struct{}

func (brokenMagnetometer) Read(context.Context) (sensors.RawField, error) {
	return sensors.RawField{}, errors.New("i2c nack")
}

func TestSample_FailureThenSuccessKeepsNumbering(t *testing.T) {
	orbit := &fixedOrbit{err: errors.New("decayed")}
	rec := &memRecorder{}
	cam := &fakeCamera{}
	s := New(orbit, sensors.StaticMagnetometer{}, cam, rec, kb.Default())

	if _, err := s.Sample(context.Background(), sampleTime); err == nil {
		t.Fatalf("expected orbit failure")
	}
	orbit.err = nil
	obs, err := s.Sample(context.Background(), sampleTime)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if obs.Row.Photo != 0 || cam.paths[0] != "photo_000.jpg" {
		t.Fatalf("first successful sample numbered %d at %q", obs.Row.Photo, cam.paths[0])
	}
}

func TestStageOfUnknown(t *testing.T) {
	if got := StageOf(errors.New("plain")); got != observability.StageUnknown {
		t.Fatalf("StageOf(plain) = %q", got)
	}
	wrapped := &StageError{Stage: observability.StageParse, Err: core.ErrParse}
	if !errors.Is(wrapped, core.ErrParse) {
		t.Fatalf("StageError does not unwrap")
	}
}

func TestSample_WritesCSVAndSidecar(t *testing.T) {
	dir := t.TempDir()
	w, err := record.Create(filepath.Join(dir, "data.csv"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s := New(&fixedOrbit{lat: -10, lon: 75}, sensors.StaticMagnetometer{Field: sensors.RawField{X: 1}},
		camera.SidecarCamera{}, w, kb.Default(),
		WithClock(clockwork.NewFakeClockAt(sampleTime)), WithPhotoDir(dir))

	if _, err := s.Sample(context.Background(), sampleTime); err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "data.csv"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d, want 2:\n%s", len(lines), b)
	}
	if lines[1] != "2020-01-14 13:13:32.000000,-10,75,Ocean,1,0,0,1,0" {
		t.Fatalf("row = %q", lines[1])
	}
	if _, err := os.Stat(filepath.Join(dir, "photo_000.json")); err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
}
