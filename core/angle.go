package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/signalsfoundry/mostlyharmless/model"
)

// ToDecimalDegrees converts radians to degrees rounded to two decimals
// (half away from zero). NaN and Inf pass through unchanged.
func ToDecimalDegrees(rad float64) float64 {
	return math.Round(rad*180/math.Pi*100) / 100
}

// ParseDMS splits "degrees:minutes:seconds" text into unsigned components
// and a sign. The sign comes from the degree field's text, so "-0:30:00"
// is negative even though -0 == 0 numerically.
func ParseDMS(text string) (model.DMSComponents, error) {
	fields := strings.Split(strings.TrimSpace(text), ":")
	if len(fields) != 3 {
		return model.DMSComponents{}, &ParseError{
			Input:  text,
			Reason: fmt.Sprintf("want 3 colon-separated fields, got %d", len(fields)),
		}
	}

	var vals [3]float64
	for i, f := range fields {
		f = strings.TrimSpace(f)
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return model.DMSComponents{}, &ParseError{
				Input:  text,
				Reason: fmt.Sprintf("field %d (%q) is not a finite number", i+1, f),
			}
		}
		if i > 0 && (strings.HasPrefix(f, "-") || strings.HasPrefix(f, "+")) {
			return model.DMSComponents{}, &ParseError{
				Input:  text,
				Reason: fmt.Sprintf("field %d (%q) must be unsigned", i+1, f),
			}
		}
		vals[i] = v
	}

	minutes, seconds := vals[1], vals[2]
	if minutes >= 60 {
		return model.DMSComponents{}, &ParseError{Input: text, Reason: "minutes out of range [0,60)"}
	}
	if seconds >= 60 {
		return model.DMSComponents{}, &ParseError{Input: text, Reason: "seconds out of range [0,60)"}
	}

	sign := model.Positive
	if strings.HasPrefix(strings.TrimSpace(fields[0]), "-") {
		sign = model.Negative
	}

	return model.DMSComponents{
		Degrees: int(math.Abs(vals[0])),
		Minutes: int(minutes),
		Seconds: seconds,
		Sign:    sign,
	}, nil
}

// DMSFromDecimal splits signed decimal degrees into components. Seconds
// are kept at full precision; a carry at 60 is pushed into the minutes.
func DMSFromDecimal(deg float64) model.DMSComponents {
	sign := model.Positive
	if math.Signbit(deg) {
		sign = model.Negative
	}
	abs := math.Abs(deg)

	d := math.Floor(abs)
	m := math.Floor((abs - d) * 60)
	s := (abs - d - m/60) * 3600
	if s >= 60 {
		s -= 60
		m++
	}
	if s < 0 {
		s = 0
	}
	if m >= 60 {
		m -= 60
		d++
	}

	return model.DMSComponents{
		Degrees: int(d),
		Minutes: int(m),
		Seconds: s,
		Sign:    sign,
	}
}

// FormatSexagesimal renders decimal degrees as "d:mm:ss.s", the text form
// handed out by the orbit source. Non-finite input renders as Go prints
// it, which ParseDMS rejects.
func FormatSexagesimal(deg float64) string {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return strconv.FormatFloat(deg, 'f', -1, 64)
	}
	prefix := ""
	if math.Signbit(deg) {
		prefix = "-"
	}
	tenths := int64(math.Round(math.Abs(deg) * 36000))
	d := tenths / 36000
	m := (tenths % 36000) / 600
	s := float64(tenths%600) / 10
	return fmt.Sprintf("%s%d:%02d:%04.1f", prefix, d, m, s)
}
