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

	"seehuhn.de/go/carto/feature"
	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/pool"
)

// Pooled spreads queries over a bounded pool of data source instances,
// for example one per database connection. When all instances are busy,
// Features fails with [pool.ErrExhausted].
type Pooled struct {
	typ    GeometryType
	extent geometry.Envelope
	pool   *pool.Pool[Datasource]
}

// NewPooled creates a pool of at most maxSize data sources made by
// factory. One instance is created immediately to learn the geometry type
// and extent.
func NewPooled(factory func() (Datasource, error), maxSize int) (*Pooled, error) {
	p, err := pool.New(factory, 1, maxSize)
	if err != nil {
		return nil, err
	}
	res := &Pooled{pool: p}
	err = p.Do(func(ds Datasource) error {
		res.typ = ds.Type()
		res.extent = ds.Envelope()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Type implements the [Datasource] interface.
func (p *Pooled) Type() GeometryType { return p.typ }

// Envelope implements the [Datasource] interface.
func (p *Pooled) Envelope() geometry.Envelope { return p.extent }

// Features implements the [Datasource] interface. The features are read
// completely before the instance is returned to the pool.
func (p *Pooled) Features(ctx context.Context, q Query) (feature.Featureset, error) {
	var res []*feature.Feature
	err := p.pool.Do(func(ds Datasource) error {
		fs, err := ds.Features(ctx, q)
		if err != nil {
			return err
		}
		res = feature.Collect(fs)
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return feature.NewSliceSet(res), nil
}

// Stats returns the usage counters of the underlying pool.
func (p *Pooled) Stats() pool.Stats {
	return p.pool.Stats()
}
