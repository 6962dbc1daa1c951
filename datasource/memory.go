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


package datasource

import (
	"context"
	"sync"

	"seehuhn.de/go/carto/feature"
	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/value"
)

// Memory is a data source which holds its features in memory.
type Memory struct {
	typ GeometryType

	mu       sync.RWMutex
	schema   *feature.Schema
	features []*feature.Feature
	extent   geometry.Envelope
}

// NewMemory returns an empty in-memory data source whose features all use
// the given schema.
func NewMemory(typ GeometryType, schema *feature.Schema) *Memory {
	return &Memory{typ: typ, schema: schema}
}

// Add appends features. Features with a different schema have their
// attributes looked up by name at query time.
func (m *Memory) Add(features ...*feature.Feature) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range features {
		e := featureEnvelope(f)
		if len(m.features) == 0 {
			m.extent = e
		} else {
			m.extent.ExpandToIncludeEnvelope(e)
		}
		m.features = append(m.features, f)
	}
}

// Type implements the [Datasource] interface.
func (m *Memory) Type() GeometryType { return m.typ }

// Envelope implements the [Datasource] interface.
func (m *Memory) Envelope() geometry.Envelope {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.extent
}

// Features implements the [Datasource] interface.
func (m *Memory) Features(ctx context.Context, q Query) (feature.Featureset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	proj := newProjection(m.schema, q.Properties)
	names := m.schema.Names()
	var out []*feature.Feature
	for _, f := range m.features {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !q.matches(featureEnvelope(f)) {
			continue
		}
		out = append(out, proj.apply(f, func(i int) value.Value {
			if f.Schema() == m.schema {
				return f.At(i)
			}
			return f.AttributeByName(names[i])
		}))
	}
	return feature.NewSliceSet(out), nil
}

func featureEnvelope(f *feature.Feature) geometry.Envelope {
	if f.IsRaster() {
		return f.Raster().Extent
	}
	if g := f.Geometry(); g != nil {
		return g.Envelope()
	}
	return geometry.Envelope{}
}
