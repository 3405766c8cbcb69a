package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// Angle is a bearing in radians. Its String form is the sexagesimal
// "d:mm:ss.s" text that ParseDMS consumes.
type Angle float64

// Degrees returns the unrounded angle in degrees.
func (a Angle) Degrees() float64 { return float64(a) * 180 / math.Pi }

func (a Angle) String() string { return FormatSexagesimal(a.Degrees()) }

// SubPoint is the point on the surface directly beneath the satellite.
type SubPoint struct {
	Time      time.Time
	Latitude  Angle
	Longitude Angle
}

// OrbitSource yields the sub-satellite point for an instant.
type OrbitSource interface {
	SubPoint(t time.Time) (SubPoint, error)
}

// ErrPropagation is returned when SGP4 cannot produce a finite state,
// typically because the element set has decayed or t is far from epoch.
var ErrPropagation = errors.New("sgp4 propagation failed")

// SGP4Source propagates a two-line element set with SGP4 (WGS72).
type SGP4Source struct {
	name string
	sat  satellite.Satellite
}

// NewSGP4Source validates the TLE lines and builds a propagator.
func NewSGP4Source(name, line1, line2 string) (*SGP4Source, error) {
	line1 = strings.TrimRight(line1, "\r\n ")
	line2 = strings.TrimRight(line2, "\r\n ")
	if err := ValidateTLELine(line1, '1'); err != nil {
		return nil, fmt.Errorf("tle %q: %w", name, err)
	}
	if err := ValidateTLELine(line2, '2'); err != nil {
		return nil, fmt.Errorf("tle %q: %w", name, err)
	}
	return &SGP4Source{
		name: name,
		sat:  satellite.TLEToSat(line1, line2, satellite.GravityWGS72),
	}, nil
}

// Name returns the object name the source was built with.
func (s *SGP4Source) Name() string { return s.name }

// SubPoint propagates to t (whole seconds, UTC) and projects the ECI
// position onto geodetic latitude and longitude.
func (s *SGP4Source) SubPoint(t time.Time) (SubPoint, error) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	pos, _ := satellite.Propagate(s.sat, year, int(month), day, hour, min, sec)
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		(pos.X == 0 && pos.Y == 0 && pos.Z == 0) {
		return SubPoint{}, fmt.Errorf("%s at %s: %w", s.name, t.Format(time.RFC3339), ErrPropagation)
	}

	gmst := satellite.GSTimeFromDate(year, int(month), day, hour, min, sec)
	_, _, lla := satellite.ECIToLLA(pos, gmst)

	return SubPoint{
		Time:      t,
		Latitude:  Angle(lla.Latitude),
		Longitude: Angle(wrapPi(lla.Longitude)),
	}, nil
}

func wrapPi(rad float64) float64 {
	for rad < -math.Pi {
		rad += 2 * math.Pi
	}
	for rad > math.Pi {
		rad -= 2 * math.Pi
	}
	return rad
}

// ValidateTLELine checks length, line number and the modulo-10 checksum of
// a TLE line. Malformed lines are rejected up front because the
// propagator does not report parse failures.
func ValidateTLELine(line string, number byte) error {
	if len(line) != 69 {
		return fmt.Errorf("line %c: length %d, want 69", number, len(line))
	}
	if line[0] != number || line[1] != ' ' {
		return fmt.Errorf("line %c: bad line number prefix %q", number, line[:2])
	}
	sum := 0
	for i := 0; i < 68; i++ {
		switch c := line[i]; {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	want := line[68]
	if want < '0' || want > '9' || int(want-'0') != sum%10 {
		return fmt.Errorf("line %c: checksum %c, computed %d", number, want, sum%10)
	}
	return nil
}
