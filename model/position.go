package model

import "math"

// GeodeticPosition is a point on the Earth's surface in decimal degrees.
// Longitude is never normalised here; callers pass values in [-180, 180].
type GeodeticPosition struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether both fields are finite and within range.
func (p GeodeticPosition) Valid() bool {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
		return false
	}
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// Vertex returns the position in polygon order: (lon, lat).
func (p GeodeticPosition) Vertex() Vertex {
	return Vertex{Lon: p.Longitude, Lat: p.Latitude}
}

// Sign carries the hemisphere of an angle separately from its magnitude.
type Sign int

const (
	Positive Sign = iota
	Negative
)

func (s Sign) String() string {
	if s == Negative {
		return "negative"
	}
	return "positive"
}

// DMSComponents holds the unsigned degree/minute/second magnitudes of an
// angle plus its sign.
type DMSComponents struct {
	Degrees int
	Minutes int
	Seconds float64
	Sign    Sign
}

// Decimal folds the components back into signed decimal degrees.
func (d DMSComponents) Decimal() float64 {
	v := float64(d.Degrees) + float64(d.Minutes)/60 + d.Seconds/3600
	if d.Sign == Negative {
		return -v
	}
	return v
}

// Classification is the land/ocean verdict for a position.
type Classification int

const (
	Land Classification = iota
	Ocean
)

// String renders the label written to the CSV Status column.
func (c Classification) String() string {
	if c == Ocean {
		return "Ocean"
	}
	return "Land"
}
