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

package wkb

import (
	"encoding/binary"
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/carto/geometry"
)

// Marshal encodes g as WKB using the given byte order.
// Nested geometries use the same byte order as the outer header.
func Marshal(g *geometry.Geometry, order binary.ByteOrder) []byte {
	w := &writer{order: order}
	if order == binary.BigEndian {
		w.marker = xdr
	} else {
		w.marker = ndr
	}

	w.header(g.Type())
	switch g.Type() {
	case geometry.Point:
		w.point(g.Anchor())
	case geometry.LineString:
		sub := g.Subpaths()
		if len(sub) == 0 {
			w.uint32(0)
		} else {
			w.points(sub[0])
		}
	case geometry.Polygon:
		polys := g.Polygons()
		if len(polys) == 0 {
			w.uint32(0)
		} else {
			w.rings(polys[0])
		}
	case geometry.MultiPoint:
		pts := g.Subpaths()
		w.uint32(uint32(len(pts)))
		for _, p := range pts {
			w.header(geometry.Point)
			w.point(p[0])
		}
	case geometry.MultiLineString:
		lines := g.Subpaths()
		w.uint32(uint32(len(lines)))
		for _, l := range lines {
			w.header(geometry.LineString)
			w.points(l)
		}
	case geometry.MultiPolygon:
		polys := g.Polygons()
		w.uint32(uint32(len(polys)))
		for _, p := range polys {
			w.header(geometry.Polygon)
			w.rings(p)
		}
	}
	return w.buf
}

type writer struct {
	buf    []byte
	order  binary.ByteOrder
	marker byte
}

func (w *writer) header(tp geometry.Type) {
	w.buf = append(w.buf, w.marker)
	w.uint32(uint32(tp))
}

func (w *writer) uint32(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) point(p vec.Vec2) {
	var b [16]byte
	w.order.PutUint64(b[:8], math.Float64bits(p.X))
	w.order.PutUint64(b[8:], math.Float64bits(p.Y))
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) points(pts []vec.Vec2) {
	w.uint32(uint32(len(pts)))
	for _, p := range pts {
		w.point(p)
	}
}

func (w *writer) rings(rings [][]vec.Vec2) {
	w.uint32(uint32(len(rings)))
	for _, r := range rings {
		w.points(r)
	}
}
