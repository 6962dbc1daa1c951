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

// Package feature defines the records produced by data sources: an id,
// either a vector geometry or a raster tile, and named attributes.
package feature

import (
	"image"
	"slices"

	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/value"
)

// Schema is an ordered list of distinct attribute names. A Schema is
// immutable and is normally shared by all features of one query result, so
// that attribute positions can be resolved once per query.
type Schema struct {
	names []string
	index map[string]int
}

// NewSchema returns a schema for the given names. Duplicate names keep
// their first position.
func NewSchema(names ...string) *Schema {
	s := &Schema{index: make(map[string]int, len(names))}
	for _, n := range names {
		if _, dup := s.index[n]; dup {
			continue
		}
		s.index[n] = len(s.names)
		s.names = append(s.names, n)
	}
	return s
}

// Len returns the number of attributes in s.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the attribute names in positional order.
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.names)
}

// Index returns the position of name, or -1 if s does not contain it.
func (s *Schema) Index(name string) int {
	if s == nil {
		return -1
	}
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// with returns a schema which extends s by name.
func (s *Schema) with(name string) *Schema {
	return NewSchema(append(s.Names(), name)...)
}

// Raster is an image tile together with the map extent it covers.
type Raster struct {
	Extent geometry.Envelope
	Image  *image.RGBA
}

// Feature is a single record of a query result. A feature carries either a
// geometry or a raster tile, never both.
type Feature struct {
	id     int64
	geom   *geometry.Geometry
	raster *Raster
	schema *Schema
	values []value.Value
}

// New returns a vector feature. The schema may be nil if the feature has
// no attributes yet.
func New(id int64, geom *geometry.Geometry, schema *Schema) *Feature {
	return &Feature{
		id:     id,
		geom:   geom,
		schema: schema,
		values: make([]value.Value, schema.Len()),
	}
}

// NewRaster returns a raster feature.
func NewRaster(id int64, r *Raster, schema *Schema) *Feature {
	return &Feature{
		id:     id,
		raster: r,
		schema: schema,
		values: make([]value.Value, schema.Len()),
	}
}

// ID returns the feature identifier.
func (f *Feature) ID() int64 { return f.id }

// Geometry returns the vector geometry, or nil for raster features.
func (f *Feature) Geometry() *geometry.Geometry { return f.geom }

// Raster returns the raster tile, or nil for vector features.
func (f *Feature) Raster() *Raster { return f.raster }

// IsRaster reports whether f carries a raster tile.
func (f *Feature) IsRaster() bool { return f.raster != nil }

// Schema returns the attribute schema of f.
func (f *Feature) Schema() *Schema { return f.schema }

// Set stores an attribute. If the name is not part of the feature's schema,
// the feature switches to a private extended copy of the schema.
func (f *Feature) Set(name string, v value.Value) {
	i := f.schema.Index(name)
	if i < 0 {
		if f.schema == nil {
			f.schema = NewSchema(name)
		} else {
			f.schema = f.schema.with(name)
		}
		f.values = append(f.values, v)
		return
	}
	f.values[i] = v
}

// SetAt stores the attribute at position i of the schema.
func (f *Feature) SetAt(i int, v value.Value) {
	f.values[i] = v
}

// At returns the attribute at position i of the schema.
func (f *Feature) At(i int) value.Value {
	if i < 0 || i >= len(f.values) {
		return value.Null()
	}
	return f.values[i]
}

// AttributeByName returns the named attribute. A missing attribute yields
// the Null value.
func (f *Feature) AttributeByName(name string) value.Value {
	return f.At(f.schema.Index(name))
}

// Has reports whether f defines the named attribute.
func (f *Feature) Has(name string) bool {
	return f.schema.Index(name) >= 0
}

// Attributes returns a copy of the attributes as a map.
func (f *Feature) Attributes() map[string]value.Value {
	out := make(map[string]value.Value, len(f.values))
	for i, n := range f.schema.Names() {
		out[n] = f.values[i]
	}
	return out
}

// Featureset is a finite, single-pass sequence of features.
// Next returns nil once the sequence is exhausted.
type Featureset interface {
	Next() *Feature
}

// SliceSet is a Featureset over a slice.
type SliceSet struct {
	features []*Feature
	pos      int
}

// NewSliceSet returns a Featureset which yields the given features in order.
func NewSliceSet(features []*Feature) *SliceSet {
	return &SliceSet{features: features}
}

// Next implements Featureset.
func (s *SliceSet) Next() *Feature {
	if s.pos >= len(s.features) {
		return nil
	}
	f := s.features[s.pos]
	s.pos++
	return f
}

// Collect drains fs into a slice.
func Collect(fs Featureset) []*Feature {
	var out []*Feature
	for f := fs.Next(); f != nil; f = fs.Next() {
		out = append(out, f)
	}
	return out
}
