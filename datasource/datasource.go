// seehuhn.de/go/carto - a cartographic rendering library
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


// Package datasource defines the contract between the renderer and the
// providers of features, together with a few simple providers.
package datasource

import (
	"context"
	"errors"
	"strconv"

	"seehuhn.de/go/carto/feature"
	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/value"
)

// GeometryType describes the kind of features a data source provides.
type GeometryType int

// These are the supported geometry types.
const (
	Point GeometryType = iota + 1
	Line
	Polygon
	Raster
)

func (t GeometryType) String() string {
	switch t {
	case Point:
		return "point"
	case Line:
		return "line"
	case Polygon:
		return "polygon"
	case Raster:
		return "raster"
	default:
		return "geometry_type(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseGeometryType converts the result of [GeometryType.String] back to
// a GeometryType.
func ParseGeometryType(s string) (GeometryType, error) {
	for t := Point; t <= Raster; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, errors.New("datasource: unknown geometry type " + strconv.Quote(s))
}

// Query selects features from a data source.
type Query struct {
	// Envelope restricts the result to features whose envelope intersects
	// it. The zero Envelope selects all features.
	Envelope geometry.Envelope

	// Properties lists the attributes to include in the result. If
	// Properties is nil, all attributes are included.
	Properties []string
}

// matches reports whether the envelope e passes the spatial part of q.
func (q *Query) matches(e geometry.Envelope) bool {
	if q.Envelope == (geometry.Envelope{}) {
		return true
	}
	return q.Envelope.Intersects(e)
}

// Datasource provides features to the renderer.
// Implementations must be safe for concurrent use.
type Datasource interface {
	Type() GeometryType
	Envelope() geometry.Envelope

	// Features returns the features selected by q. All features of one
	// result share the same schema.
	Features(ctx context.Context, q Query) (feature.Featureset, error)
}

// projection copies attributes from one schema to another.
type projection struct {
	schema *feature.Schema
	src    []int
}

// newProjection prepares copying the named attributes out of features
// with schema from. If names is nil, all attributes of from are kept.
func newProjection(from *feature.Schema, names []string) *projection {
	if names == nil {
		names = from.Names()
	}
	to := feature.NewSchema(names...)
	p := &projection{schema: to, src: make([]int, to.Len())}
	for i, name := range to.Names() {
		p.src[i] = from.Index(name)
	}
	return p
}

// apply returns a feature with the projected attributes. The geometry
// and raster of f are shared.
func (p *projection) apply(f *feature.Feature, vals func(i int) value.Value) *feature.Feature {
	var out *feature.Feature
	if f.IsRaster() {
		out = feature.NewRaster(f.ID(), f.Raster(), p.schema)
	} else {
		out = feature.New(f.ID(), f.Geometry(), p.schema)
	}
	for i, j := range p.src {
		if j >= 0 {
			out.SetAt(i, vals(j))
		}
	}
	return out
}
