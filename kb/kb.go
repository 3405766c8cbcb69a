package kb

import (
	"fmt"
	"sync"

	"github.com/signalsfoundry/mostlyharmless/core"
	"github.com/signalsfoundry/mostlyharmless/model"
)

// Registry is an immutable set of named ocean polygons. It is built once
// and may then be shared by any number of goroutines without locking.
type Registry struct {
	polys  []*core.Polygon
	byName map[model.RegionName]*core.Polygon
}

// NewRegistry validates regions and builds their polygons. Any boundary
// that cannot classify correctly aborts construction with a
// *core.ConfigurationError.
func NewRegistry(regions ...model.Region) (*Registry, error) {
	r := &Registry{
		polys:  make([]*core.Polygon, 0, len(regions)),
		byName: make(map[model.RegionName]*core.Polygon, len(regions)),
	}
	for _, reg := range regions {
		if _, exists := r.byName[reg.Name]; exists {
			return nil, &core.ConfigurationError{Region: reg.Name, Reason: "duplicate region name"}
		}
		poly, err := core.NewPolygon(reg.Name, reg.Vertices)
		if err != nil {
			return nil, err
		}
		r.polys = append(r.polys, poly)
		r.byName[reg.Name] = poly
	}
	return r, nil
}

// Build constructs the registry of the four ocean basins.
func Build() (*Registry, error) {
	return NewRegistry(OceanRegions()...)
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide ocean registry, building it on first
// use. The embedded data is static, so a build failure is a programming
// error and panics.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Build()
		if err != nil {
			panic(fmt.Sprintf("kb: embedded ocean regions: %v", err))
		}
		defaultReg = reg
	})
	return defaultReg
}

// Polygons returns the polygons in registration order. The slice is shared;
// callers must not modify it.
func (r *Registry) Polygons() []*core.Polygon { return r.polys }

// Polygon returns the named polygon, or nil if the registry has no such
// region.
func (r *Registry) Polygon(name model.RegionName) *core.Polygon {
	return r.byName[name]
}

// Names lists region names in registration order.
func (r *Registry) Names() []model.RegionName {
	names := make([]model.RegionName, 0, len(r.polys))
	for _, p := range r.polys {
		names = append(names, p.Name())
	}
	return names
}

// Len returns the number of regions.
func (r *Registry) Len() int { return len(r.polys) }
