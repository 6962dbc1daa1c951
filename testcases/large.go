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

	"seehuhn.de/go/carto/geometry"
)

// largeCases have bounding boxes of more than 65536 pixels, so that the
// rasterizer uses its active edge list instead of the coverage buffer.
var largeCases = []TestCase{
	{
		Name:     "large_rectangle",
		Geometry: rectangle(50, 50, 462, 462),
		Width:    512,
		Height:   512,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "large_concentric_nonzero",
		Geometry: concentricRectangles(256, 256, 200, 100),
		Width:    512,
		Height:   512,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "large_concentric_evenodd",
		Geometry: concentricRectangles(256, 256, 200, 100),
		Width:    512,
		Height:   512,
		Op:       Fill{Rule: EvenOdd},
	},
	{
		Name: "large_diamond",
		Geometry: geometry.NewPolygon([]vec.Vec2{
			pt(256, 76), pt(436, 256), pt(256, 436), pt(76, 256),
		}),
		Width:  512,
		Height: 512,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:     "large_grid",
		Geometry: rectangleGrid(8, 8, 512, 512, 4),
		Width:    512,
		Height:   512,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "large_clipped",
		Geometry: rectangle(-100, 100, 612, 400),
		Width:    512,
		Height:   512,
		Op:       Fill{Rule: NonZero},
	},
}

// concentricRectangles returns two nested squares of the same orientation
// as one polygon. Non-zero filling covers the inner square, even-odd
// leaves it empty.
func concentricRectangles(cx, cy, outer, inner float64) *geometry.Geometry {
	return geometry.NewPolygon(
		rectRing(cx-outer, cy-outer, cx+outer, cy+outer),
		rectRing(cx-inner, cy-inner, cx+inner, cy+inner),
	)
}

// rectangleGrid returns a grid of rectangles as a multi-polygon.
func rectangleGrid(rows, cols, width, height int, gap float64) *geometry.Geometry {
	cellW := float64(width) / float64(cols)
	cellH := float64(height) / float64(rows)

	var polys [][][]vec.Vec2
	for row := range rows {
		for col := range cols {
			x1 := float64(col)*cellW + gap
			y1 := float64(row)*cellH + gap
			x2 := float64(col+1)*cellW - gap
			y2 := float64(row+1)*cellH - gap
			polys = append(polys, [][]vec.Vec2{rectRing(x1, y1, x2, y2)})
		}
	}
	return geometry.NewMultiPolygon(polys)
}
