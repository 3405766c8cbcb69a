package camera

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/signalsfoundry/mostlyharmless/core"
	"github.com/signalsfoundry/mostlyharmless/model"
)

// GPSTags is the positional metadata attached to each photo, in the EXIF
// GPS convention: hemisphere reference plus a D/1,M/1,S/10 rational triple.
type GPSTags struct {
	LatitudeRef  string `json:"GPS.GPSLatitudeRef"`
	Latitude     string `json:"GPS.GPSLatitude"`
	LongitudeRef string `json:"GPS.GPSLongitudeRef"`
	Longitude    string `json:"GPS.GPSLongitude"`
}

// TagsFor encodes latitude and longitude components as GPS tags.
func TagsFor(lat, lon model.DMSComponents) GPSTags {
	var t GPSTags
	t.LatitudeRef, t.Latitude = core.LatitudeTag(lat)
	t.LongitudeRef, t.Longitude = core.LongitudeTag(lon)
	return t
}

// Map returns the tags keyed by their EXIF names.
func (t GPSTags) Map() map[string]string {
	return map[string]string{
		"GPS.GPSLatitudeRef":  t.LatitudeRef,
		"GPS.GPSLatitude":     t.Latitude,
		"GPS.GPSLongitudeRef": t.LongitudeRef,
		"GPS.GPSLongitude":    t.Longitude,
	}
}

// PhotoName returns the zero-padded file name of the n-th photo.
func PhotoName(n int) string { return fmt.Sprintf("photo_%03d.jpg", n) }

// Camera captures one frame to path with the given tags embedded.
type Camera interface {
	Capture(ctx context.Context, path string, tags GPSTags) error
}

// SidecarCamera stands in for camera hardware: it writes the tags that
// would have been embedded to a JSON file next to path ("photo_001.jpg"
// becomes "photo_001.json") and no image.
type SidecarCamera struct{}

// Capture implements Camera.
func (SidecarCamera) Capture(ctx context.Context, path string, tags GPSTags) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(tags, "", "  ")
	if err != nil {
		return err
	}
	side := SidecarPath(path)
	if err := os.WriteFile(side, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write tags for %s: %w", filepath.Base(path), err)
	}
	return nil
}

// SidecarPath returns where SidecarCamera stores the tags for path.
func SidecarPath(path string) string {
	return path[:len(path)-len(filepath.Ext(path))] + ".json"
}
