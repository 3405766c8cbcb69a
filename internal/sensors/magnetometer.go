package sensors

import (
	"context"
	"math"
)

// RawField is one uncalibrated magnetometer sample in microtesla.
type RawField struct {
	X, Y, Z float64
}

// Reading is a sample rounded for logging, with its total intensity.
type Reading struct {
	X, Y, Z float64
	Total   float64
}

// Magnetometer samples the local magnetic field.
type Magnetometer interface {
	Read(ctx context.Context) (RawField, error)
}

// NewReading rounds each axis to three decimals and derives the field
// magnitude from the rounded axes, also to three decimals.
func NewReading(f RawField) Reading {
	x, y, z := round3(f.X), round3(f.Y), round3(f.Z)
	return Reading{
		X:     x,
		Y:     y,
		Z:     z,
		Total: round3(math.Sqrt(x*x + y*y + z*z)),
	}
}

// Sample reads m once and converts the result.
func Sample(ctx context.Context, m Magnetometer) (Reading, error) {
	raw, err := m.Read(ctx)
	if err != nil {
		return Reading{}, err
	}
	return NewReading(raw), nil
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// StaticMagnetometer always reports the same field. It backs runs on
// machines without the sensor board.
type StaticMagnetometer struct {
	Field RawField
}

// Read implements Magnetometer.
func (s StaticMagnetometer) Read(ctx context.Context) (RawField, error) {
	if err := ctx.Err(); err != nil {
		return RawField{}, err
	}
	return s.Field, nil
}
