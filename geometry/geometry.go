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

// Package geometry implements the vector geometries rendered by carto.
//
// A Geometry stores its coordinates as a path of move-to and line-to
// commands. Every subpath (point, line string or polygon ring) starts with
// a move-to. Polygon rings keep their explicit closing point, so the last
// vertex of a ring equals its first vertex.
package geometry

import (
	"fmt"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Type identifies the kind of a Geometry. The numeric values are the OGC
// simple feature type codes used in WKB.
type Type uint32

// The supported geometry types.
const (
	Point           Type = 1
	LineString      Type = 2
	Polygon         Type = 3
	MultiPoint      Type = 4
	MultiLineString Type = 5
	MultiPolygon    Type = 6
)

func (t Type) String() string {
	switch t {
	case Point:
		return "Point"
	case LineString:
		return "LineString"
	case Polygon:
		return "Polygon"
	case MultiPoint:
		return "MultiPoint"
	case MultiLineString:
		return "MultiLineString"
	case MultiPolygon:
		return "MultiPolygon"
	default:
		return fmt.Sprintf("Type(%d)", uint32(t))
	}
}

// IsPolygonal reports whether t describes an area.
func (t Type) IsPolygonal() bool { return t == Polygon || t == MultiPolygon }

// IsLineal reports whether t describes a curve.
func (t Type) IsLineal() bool { return t == LineString || t == MultiLineString }

// IsPuntal reports whether t describes points.
func (t Type) IsPuntal() bool { return t == Point || t == MultiPoint }

// Geometry is a vector geometry. The coordinate storage is owned by the
// Geometry; methods never modify it after construction.
type Geometry struct {
	typ    Type
	cmds   []path.Command
	coords []vec.Vec2

	// rings holds the number of rings of each polygon of a MultiPolygon.
	rings []int
}

// NewPoint returns a point geometry.
func NewPoint(x, y float64) *Geometry {
	g := &Geometry{typ: Point}
	g.moveTo(vec.Vec2{X: x, Y: y})
	return g
}

// NewLineString returns a line string through pts.
func NewLineString(pts []vec.Vec2) *Geometry {
	g := &Geometry{typ: LineString}
	g.addLine(pts)
	return g
}

// NewPolygon returns a polygon with the given rings. The first ring is the
// exterior ring. Rings that do not repeat their first point at the end are
// closed by appending it.
func NewPolygon(rings ...[]vec.Vec2) *Geometry {
	g := &Geometry{typ: Polygon}
	for _, r := range rings {
		g.addRing(r)
	}
	return g
}

// NewMultiPoint returns a multi-point geometry.
func NewMultiPoint(pts []vec.Vec2) *Geometry {
	g := &Geometry{typ: MultiPoint}
	for _, p := range pts {
		g.moveTo(p)
	}
	return g
}

// NewMultiLineString returns a geometry made of several line strings.
func NewMultiLineString(lines [][]vec.Vec2) *Geometry {
	g := &Geometry{typ: MultiLineString}
	for _, l := range lines {
		g.addLine(l)
	}
	return g
}

// NewMultiPolygon returns a geometry made of several polygons, each given
// as a list of rings.
func NewMultiPolygon(polys [][][]vec.Vec2) *Geometry {
	g := &Geometry{typ: MultiPolygon}
	for _, rings := range polys {
		n := 0
		for _, r := range rings {
			if len(r) > 0 {
				g.addRing(r)
				n++
			}
		}
		g.rings = append(g.rings, n)
	}
	return g
}

func (g *Geometry) moveTo(p vec.Vec2) {
	g.cmds = append(g.cmds, path.CmdMoveTo)
	g.coords = append(g.coords, p)
}

func (g *Geometry) lineTo(p vec.Vec2) {
	g.cmds = append(g.cmds, path.CmdLineTo)
	g.coords = append(g.coords, p)
}

func (g *Geometry) addLine(pts []vec.Vec2) {
	for i, p := range pts {
		if i == 0 {
			g.moveTo(p)
		} else {
			g.lineTo(p)
		}
	}
}

func (g *Geometry) addRing(pts []vec.Vec2) {
	if len(pts) == 0 {
		return
	}
	g.addLine(pts)
	if pts[len(pts)-1] != pts[0] {
		g.lineTo(pts[0])
	}
}

// Type returns the kind of g.
func (g *Geometry) Type() Type { return g.typ }

// Path iterates over the move-to and line-to segments of g.
func (g *Geometry) Path() path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		for i, cmd := range g.cmds {
			if !yield(cmd, g.coords[i:i+1]) {
				return
			}
		}
	}
}

// Points returns all stored vertices in order. The returned slice aliases
// the geometry's storage and must not be modified.
func (g *Geometry) Points() []vec.Vec2 { return g.coords }

// NumPoints returns the number of stored vertices, including the closing
// vertex of each polygon ring.
func (g *Geometry) NumPoints() int { return len(g.coords) }

// IsEmpty reports whether g has no vertices.
func (g *Geometry) IsEmpty() bool { return len(g.coords) == 0 }

// Subpaths returns the vertices of each point, line string or ring of g,
// in storage order. The returned slices alias the geometry's storage and
// must not be modified.
func (g *Geometry) Subpaths() [][]vec.Vec2 {
	var out [][]vec.Vec2
	start := -1
	for i, cmd := range g.cmds {
		if cmd == path.CmdMoveTo {
			if start >= 0 {
				out = append(out, g.coords[start:i])
			}
			start = i
		}
	}
	if start >= 0 {
		out = append(out, g.coords[start:])
	}
	return out
}

// Polygons groups the rings of a Polygon or MultiPolygon by polygon. For
// other geometry types it returns nil.
func (g *Geometry) Polygons() [][][]vec.Vec2 {
	switch g.typ {
	case Polygon:
		rings := g.Subpaths()
		if len(rings) == 0 {
			return nil
		}
		return [][][]vec.Vec2{rings}
	case MultiPolygon:
		rings := g.Subpaths()
		out := make([][][]vec.Vec2, 0, len(g.rings))
		pos := 0
		for _, n := range g.rings {
			out = append(out, rings[pos:pos+n])
			pos += n
		}
		return out
	}
	return nil
}

// Envelope returns the bounding box of g. An empty geometry has the zero
// Envelope.
func (g *Geometry) Envelope() Envelope {
	if len(g.coords) == 0 {
		return Envelope{}
	}
	p0 := g.coords[0]
	e := Envelope{MinX: p0.X, MinY: p0.Y, MaxX: p0.X, MaxY: p0.Y}
	for _, p := range g.coords[1:] {
		e.ExpandToInclude(p.X, p.Y)
	}
	return e
}

// Anchor returns the point where markers are placed for g: the first
// vertex of a point geometry, the envelope center otherwise.
func (g *Geometry) Anchor() vec.Vec2 {
	if g.typ == Point && len(g.coords) > 0 {
		return g.coords[0]
	}
	return g.Envelope().Center()
}

// Transform returns a new geometry with fn applied to every vertex.
// g itself is not modified.
func (g *Geometry) Transform(fn func(vec.Vec2) vec.Vec2) *Geometry {
	out := &Geometry{
		typ: g.typ,
		cmds:   slices.Clone(g.cmds),
		coords: make([]vec.Vec2, len(g.coords)),
		rings:  slices.Clone(g.rings),
	}
	for i, p := range g.coords {
		out.coords[i] = fn(p)
	}
	return out
}

// Clone returns a deep copy of g.
func (g *Geometry) Clone() *Geometry {
	return g.Transform(func(p vec.Vec2) vec.Vec2 { return p })
}

// Equal reports whether g and o have the same type and the same vertices
// in the same order.
func (g *Geometry) Equal(o *Geometry) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.typ == o.typ &&
		slices.Equal(g.cmds, o.cmds) &&
		slices.Equal(g.coords, o.coords) &&
		slices.Equal(g.rings, o.rings)
}
