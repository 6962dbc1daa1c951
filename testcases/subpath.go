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


package testcases

import (
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/carto/geometry"
)

// subpathCases contain geometries made of several parts: multi-polygons,
// polygons with holes and multi-line strings.
var subpathCases = []TestCase{
	{
		Name:     "two_triangles",
		Geometry: twoTriangles(16, 32, 48, 32, 12),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "overlapping_rect_nonzero",
		Geometry: overlappingRectangles(10, 10, 40, 40, 24, 24, 54, 54),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "overlapping_rect_evenodd",
		Geometry: overlappingRectangles(10, 10, 40, 40, 24, 24, 54, 54),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: EvenOdd},
	},
	{
		Name:     "polygon_with_hole",
		Geometry: ringShape(32, 32, 25, 12),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: EvenOdd},
	},
	{
		Name:     "polygon_with_hole_nonzero",
		Geometry: ringShape(32, 32, 25, 12),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "multiple_rings",
		Geometry: multipleRings(64, 64),
		Width:    128,
		Height:   128,
		Op:       Fill{Rule: EvenOdd},
	},
	{
		Name:     "many_small_shapes",
		Geometry: manySmallShapes(8, 8),
		Width:    128,
		Height:   128,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "hole_outline",
		Geometry: ringShape(32, 32, 25, 12),
		Width:    64,
		Height:   64,
		Op: Stroke{
			Width:      3,
			Join:       graphics.LineJoinRound,
			MiterLimit: 10,
		},
	},
	{
		Name: "parallel_lines",
		Geometry: geometry.NewMultiLineString([][]vec.Vec2{
			{pt(8, 16), pt(56, 16)},
			{pt(8, 32), pt(56, 32)},
			{pt(8, 48), pt(56, 48)},
		}),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 4, MiterLimit: 10},
	},
}

func twoTriangles(cx1, cy1, cx2, cy2 float64, size float64) *geometry.Geometry {
	tri := func(cx, cy float64) [][]vec.Vec2 {
		return [][]vec.Vec2{{pt(cx, cy-size), pt(cx+size, cy+size), pt(cx-size, cy+size)}}
	}
	return geometry.NewMultiPolygon([][][]vec.Vec2{tri(cx1, cy1), tri(cx2, cy2)})
}

func overlappingRectangles(x1a, y1a, x2a, y2a, x1b, y1b, x2b, y2b float64) *geometry.Geometry {
	return geometry.NewMultiPolygon([][][]vec.Vec2{
		{rectRing(x1a, y1a, x2a, y2a)},
		{rectRing(x1b, y1b, x2b, y2b)},
	})
}

// ringShape returns a square with a square hole. The hole has the
// opposite orientation, so both fill rules leave it empty.
func ringShape(cx, cy, outerSize, innerSize float64) *geometry.Geometry {
	outer := rectRing(cx-outerSize, cy-outerSize, cx+outerSize, cy+outerSize)
	inner := []vec.Vec2{
		pt(cx-innerSize, cy-innerSize),
		pt(cx-innerSize, cy+innerSize),
		pt(cx+innerSize, cy+innerSize),
		pt(cx+innerSize, cy-innerSize),
	}
	return geometry.NewPolygon(outer, inner)
}

func multipleRings(cx, cy float64) *geometry.Geometry {
	rings := []struct{ cx, cy, outer, inner float64 }{
		{cx - 30, cy - 30, 20, 10},
		{cx + 30, cy - 30, 20, 10},
		{cx, cy + 30, 20, 10},
	}
	var polys [][][]vec.Vec2
	for _, r := range rings {
		polys = append(polys, [][]vec.Vec2{
			rectRing(r.cx-r.outer, r.cy-r.outer, r.cx+r.outer, r.cy+r.outer),
			rectRing(r.cx-r.inner, r.cy-r.inner, r.cx+r.inner, r.cy+r.inner),
		})
	}
	return geometry.NewMultiPolygon(polys)
}

// manySmallShapes returns a grid of small diamonds.
func manySmallShapes(rows, cols int) *geometry.Geometry {
	const cell = 16.0
	var polys [][][]vec.Vec2
	for row := range rows {
		for col := range cols {
			cx := (float64(col) + 0.5) * cell
			cy := (float64(row) + 0.5) * cell
			polys = append(polys, [][]vec.Vec2{{
				pt(cx, cy-6), pt(cx+6, cy), pt(cx, cy+6), pt(cx-6, cy),
			}})
		}
	}
	return geometry.NewMultiPolygon(polys)
}
