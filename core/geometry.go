package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/mostlyharmless/model"
)

// edgeEpsilon is the tolerance, in squared-degree units of the cross
// product, for treating a point as lying on a polygon edge.
const edgeEpsilon = 1e-9

// Polygon is an immutable closed boundary in (lon, lat) space. The last
// vertex connects back to the first.
type Polygon struct {
	name     model.RegionName
	vertices []model.Vertex

	minLon, maxLon float64
	minLat, maxLat float64
}

// NewPolygon validates vertices and returns a polygon owning a private
// copy of them.
func NewPolygon(name model.RegionName, vertices []model.Vertex) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, &ConfigurationError{
			Region: name,
			Reason: fmt.Sprintf("need at least 3 vertices, got %d", len(vertices)),
		}
	}

	p := &Polygon{
		name:     name,
		vertices: make([]model.Vertex, len(vertices)),
		minLon:   math.Inf(1),
		maxLon:   math.Inf(-1),
		minLat:   math.Inf(1),
		maxLat:   math.Inf(-1),
	}
	copy(p.vertices, vertices)

	for i, v := range p.vertices {
		if !(model.GeodeticPosition{Latitude: v.Lat, Longitude: v.Lon}).Valid() {
			return nil, &ConfigurationError{
				Region: name,
				Reason: fmt.Sprintf("vertex %d (%g, %g) outside lon/lat range", i, v.Lon, v.Lat),
			}
		}
		next := p.vertices[(i+1)%len(p.vertices)]
		if v == next {
			return nil, &ConfigurationError{
				Region: name,
				Reason: fmt.Sprintf("vertex %d (%g, %g) repeats its successor", i, v.Lon, v.Lat),
			}
		}
		p.minLon = math.Min(p.minLon, v.Lon)
		p.maxLon = math.Max(p.maxLon, v.Lon)
		p.minLat = math.Min(p.minLat, v.Lat)
		p.maxLat = math.Max(p.maxLat, v.Lat)
	}
	return p, nil
}

// Name returns the region the polygon was built for.
func (p *Polygon) Name() model.RegionName { return p.name }

// Len returns the number of vertices.
func (p *Polygon) Len() int { return len(p.vertices) }

// Vertices returns a copy of the boundary.
func (p *Polygon) Vertices() []model.Vertex {
	out := make([]model.Vertex, len(p.vertices))
	copy(out, p.vertices)
	return out
}

// Contains reports whether pt lies inside the polygon using even-odd ray
// casting. Points on an edge or vertex count as inside.
func (p *Polygon) Contains(pt model.Vertex) bool {
	if pt.Lon < p.minLon || pt.Lon > p.maxLon || pt.Lat < p.minLat || pt.Lat > p.maxLat {
		return false
	}

	inside := false
	n := len(p.vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.vertices[j], p.vertices[i]
		if onSegment(a, b, pt) {
			return true
		}
		// Half-open rule on latitude so a ray through a vertex is counted once.
		if (b.Lat > pt.Lat) != (a.Lat > pt.Lat) {
			x := b.Lon + (pt.Lat-b.Lat)*(a.Lon-b.Lon)/(a.Lat-b.Lat)
			if pt.Lon < x {
				inside = !inside
			}
		}
	}
	return inside
}

// onSegment reports whether pt lies on the closed segment ab.
func onSegment(a, b, pt model.Vertex) bool {
	cross := (b.Lon-a.Lon)*(pt.Lat-a.Lat) - (b.Lat-a.Lat)*(pt.Lon-a.Lon)
	if math.Abs(cross) > edgeEpsilon {
		return false
	}
	return pt.Lon >= math.Min(a.Lon, b.Lon) && pt.Lon <= math.Max(a.Lon, b.Lon) &&
		pt.Lat >= math.Min(a.Lat, b.Lat) && pt.Lat <= math.Max(a.Lat, b.Lat)
}
