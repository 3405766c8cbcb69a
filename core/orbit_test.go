package core

import (
	"math"
	"strings"
	"testing"
	"time"
)

// ISS element set from January 2020.
const (
	issLine1 = "1 25544U 98067A   20014.55106447  .00001081  00000-0  27319-4 0  9995"
	issLine2 = "2 25544  51.6449  33.6082 0005001 130.1836   8.0955 15.49563139208048"
)

func TestSGP4Source_SubPointWithinInclination(t *testing.T) {
	src, err := NewSGP4Source("ISS (ZARYA)", issLine1, issLine2)
	if err != nil {
		t.Fatalf("NewSGP4Source: %v", err)
	}
	if src.Name() != "ISS (ZARYA)" {
		t.Fatalf("Name = %q", src.Name())
	}

	start := time.Date(2020, 1, 14, 14, 0, 0, 0, time.UTC)
	var prev SubPoint
	for i := 0; i < 12; i++ {
		sp, err := src.SubPoint(start.Add(time.Duration(i) * 10 * time.Minute))
		if err != nil {
			t.Fatalf("SubPoint: %v", err)
		}
		lat := sp.Latitude.Degrees()
		lon := sp.Longitude.Degrees()
		// Sub-satellite latitude never exceeds the orbit inclination.
		if math.Abs(lat) > 52 {
			t.Fatalf("latitude %v exceeds inclination", lat)
		}
		if lon < -180 || lon > 180 {
			t.Fatalf("longitude %v not normalised", lon)
		}
		if i > 0 && sp.Latitude == prev.Latitude && sp.Longitude == prev.Longitude {
			t.Fatalf("sub-point did not move between samples")
		}
		prev = sp
	}
}

func TestSGP4Source_TextFeedsParser(t *testing.T) {
	src, err := NewSGP4Source("ISS", issLine1, issLine2)
	if err != nil {
		t.Fatalf("NewSGP4Source: %v", err)
	}
	sp, err := src.SubPoint(time.Date(2020, 1, 14, 15, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SubPoint: %v", err)
	}
	for _, a := range []Angle{sp.Latitude, sp.Longitude} {
		dms, err := ParseDMS(a.String())
		if err != nil {
			t.Fatalf("ParseDMS(%q): %v", a.String(), err)
		}
		if math.Abs(dms.Decimal()-a.Degrees()) > 0.01 {
			t.Fatalf("text %q decodes to %v, want %v", a.String(), dms.Decimal(), a.Degrees())
		}
		if math.Abs(ToDecimalDegrees(float64(a))-a.Degrees()) > 0.005+1e-9 {
			t.Fatalf("ToDecimalDegrees drifted for %v", a)
		}
	}
}

func TestNewSGP4Source_RejectsMalformedLines(t *testing.T) {
	corrupted := issLine1[:68] + "0"
	cases := map[string][2]string{
		"bad checksum":   {corrupted, issLine2},
		"short":          {issLine1[:40], issLine2},
		"swapped lines":  {issLine2, issLine1},
		"wrong line two": {issLine1, strings.Replace(issLine2, "2 ", "3 ", 1)},
	}
	for name, lines := range cases {
		if _, err := NewSGP4Source("x", lines[0], lines[1]); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestAngleString(t *testing.T) {
	a := Angle(-45.504166 * math.Pi / 180)
	if got := a.String(); got != "-45:30:15.0" {
		t.Fatalf("String = %q", got)
	}
}
