package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/signalsfoundry/mostlyharmless/core"
	"github.com/signalsfoundry/mostlyharmless/internal/camera"
	"github.com/signalsfoundry/mostlyharmless/kb"
	"github.com/signalsfoundry/mostlyharmless/model"
)

type result struct {
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Status    string            `json:"status"`
	Region    string            `json:"region,omitempty"`
	Tags      map[string]string `json:"tags"`
}

func main() {
	if err := classify(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "classify: %v\n", err)
		os.Exit(1)
	}
}

func classify(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	lat := fs.Float64("lat", math.NaN(), "latitude in decimal degrees")
	lon := fs.Float64("lon", math.NaN(), "longitude in decimal degrees")
	sexLat := fs.String("sexagesimal-lat", "", `latitude as "d:mm:ss.s"`)
	sexLon := fs.String("sexagesimal-lon", "", `longitude as "d:mm:ss.s"`)
	asJSON := fs.Bool("json", false, "print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var pos model.GeodeticPosition
	var latDMS, lonDMS model.DMSComponents
	switch {
	case *sexLat != "" || *sexLon != "":
		if *sexLat == "" || *sexLon == "" {
			return errors.New("-sexagesimal-lat and -sexagesimal-lon must be given together")
		}
		var err error
		if latDMS, err = core.ParseDMS(*sexLat); err != nil {
			return err
		}
		if lonDMS, err = core.ParseDMS(*sexLon); err != nil {
			return err
		}
		pos = model.GeodeticPosition{
			Latitude:  round2(latDMS.Decimal()),
			Longitude: round2(lonDMS.Decimal()),
		}
	case !math.IsNaN(*lat) && !math.IsNaN(*lon):
		pos = model.GeodeticPosition{Latitude: *lat, Longitude: *lon}
		latDMS = core.DMSFromDecimal(*lat)
		lonDMS = core.DMSFromDecimal(*lon)
	default:
		return errors.New("either -lat/-lon or -sexagesimal-lat/-sexagesimal-lon is required")
	}
	if !pos.Valid() {
		return fmt.Errorf("position %v,%v out of range", pos.Latitude, pos.Longitude)
	}

	status, region := core.Locate(kb.Default(), pos)
	res := result{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Status:    status.String(),
		Region:    string(region),
		Tags:      camera.TagsFor(latDMS, lonDMS).Map(),
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	name := res.Region
	if name == "" {
		name = "-"
	}
	_, err := fmt.Fprintf(out, "%s %s lat=%.2f lon=%.2f %s %s %s %s\n",
		res.Status, name, pos.Latitude, pos.Longitude,
		res.Tags["GPS.GPSLatitudeRef"], res.Tags["GPS.GPSLatitude"],
		res.Tags["GPS.GPSLongitudeRef"], res.Tags["GPS.GPSLongitude"],
	)
	return err
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
