package sensors

import (
	"context"
	"errors"
	"testing"
)

func TestNewReading(t *testing.T) {
	got := NewReading(RawField{X: 3.00049, Y: -4.0004, Z: 0})
	want := Reading{X: 3, Y: -4, Z: 0, Total: 5}
	if got != want {
		t.Fatalf("NewReading = %+v, want %+v", got, want)
	}

	got = NewReading(RawField{X: 1.23456, Y: 1, Z: 1})
	if got.X != 1.235 || got.Total != 1.878 {
		t.Fatalf("NewReading = %+v", got)
	}
}

type failingMagnetometer struct{}

func (failingMagnetometer) Read(context.Context) (RawField, error) {
	return RawField{}, errors.New("i2c timeout")
}

func TestSample(t *testing.T) {
	r, err := Sample(context.Background(), StaticMagnetometer{Field: RawField{X: 6, Y: 8}})
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if r.Total != 10 {
		t.Fatalf("Total = %v, want 10", r.Total)
	}

	if _, err := Sample(context.Background(), failingMagnetometer{}); err == nil {
		t.Fatalf("expected error from failing sensor")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Sample(ctx, StaticMagnetometer{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Sample on cancelled ctx = %v", err)
	}
}
