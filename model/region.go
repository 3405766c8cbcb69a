package model

// Vertex is a polygon corner in decimal degrees. Fields are named so a
// (lat, lon) pair can never be passed where (lon, lat) is expected.
type Vertex struct {
	Lon float64
	Lat float64
}

// RegionName identifies one of the ocean basins known to the registry.
type RegionName string

const (
	RegionAtlantic    RegionName = "atlantic"
	RegionIndian      RegionName = "indian"
	RegionPacificEast RegionName = "pacific-east"
	RegionPacificWest RegionName = "pacific-west"
)

// Region is the raw boundary data of a named basin. The vertex chain is
// implicitly closed from the last vertex back to the first.
type Region struct {
	Name     RegionName
	Vertices []Vertex
}
