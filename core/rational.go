package core

import (
	"fmt"

	"github.com/signalsfoundry/mostlyharmless/model"
)

// EncodeRational renders dms as the GPS metadata rational triple
// "D/1,M/1,S/10" with seconds scaled by ten, and picks the hemisphere
// reference from dms.Sign. Components are trusted to be in range.
// Seconds are truncated to tenths so the field stays below 60.
func EncodeRational(dms model.DMSComponents, positiveLabel, negativeLabel string) (ref, tag string) {
	ref = positiveLabel
	if dms.Sign == model.Negative {
		ref = negativeLabel
	}
	tenths := int64(dms.Seconds*10 + 1e-6)
	if tenths > 599 {
		tenths = 599
	}
	tag = fmt.Sprintf("%d/1,%d/1,%d/10", dms.Degrees, dms.Minutes, tenths)
	return ref, tag
}

// LatitudeTag encodes a latitude with the N/S references.
func LatitudeTag(dms model.DMSComponents) (ref, tag string) {
	return EncodeRational(dms, "N", "S")
}

// LongitudeTag encodes a longitude with the E/W references.
func LongitudeTag(dms model.DMSComponents) (ref, tag string) {
	return EncodeRational(dms, "E", "W")
}
