package core

import "github.com/signalsfoundry/mostlyharmless/model"

// PolygonSet is the read-only view of the region registry the classifier
// needs.
type PolygonSet interface {
	Polygons() []*Polygon
}

// Classify returns Ocean when pos falls inside any polygon of set and Land
// otherwise. It holds no state and is safe for concurrent use.
func Classify(set PolygonSet, pos model.GeodeticPosition) model.Classification {
	c, _ := Locate(set, pos)
	return c
}

// Locate is Classify that also names the first region containing pos. The
// region is empty for Land.
func Locate(set PolygonSet, pos model.GeodeticPosition) (model.Classification, model.RegionName) {
	pt := pos.Vertex()
	for _, poly := range set.Polygons() {
		if poly.Contains(pt) {
			return model.Ocean, poly.Name()
		}
	}
	return model.Land, ""
}
