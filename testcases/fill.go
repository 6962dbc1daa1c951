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
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/carto/geometry"
)

var fillCases = []TestCase{
	{
		Name:     "triangle_nonzero",
		Geometry: triangle(10, 50, 32, 10, 54, 50),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "triangle_evenodd",
		Geometry: triangle(10, 50, 32, 10, 54, 50),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: EvenOdd},
	},
	{
		Name:     "star_nonzero",
		Geometry: fivePointStar(32, 32, 25),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "star_evenodd",
		Geometry: fivePointStar(32, 32, 25),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: EvenOdd},
	},
	{
		Name:     "rectangle",
		Geometry: rectangle(10, 10, 44, 44),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "rectangle_reversed",
		Geometry: geometry.NewPolygon([]vec.Vec2{pt(10, 10), pt(10, 44), pt(44, 44), pt(44, 10)}),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	},
}

// triangle returns a triangular polygon.
func triangle(x1, y1, x2, y2, x3, y3 float64) *geometry.Geometry {
	return geometry.NewPolygon([]vec.Vec2{pt(x1, y1), pt(x2, y2), pt(x3, y3)})
}

// fivePointStar returns a self-intersecting five-pointed star.
func fivePointStar(cx, cy, r float64) *geometry.Geometry {
	var ring []vec.Vec2
	for _, i := range []int{0, 2, 4, 1, 3} {
		angle := float64(i)*2*math.Pi/5 - math.Pi/2
		ring = append(ring, pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle)))
	}
	return geometry.NewPolygon(ring)
}

// rectangle returns an axis-parallel rectangle.
func rectangle(x1, y1, x2, y2 float64) *geometry.Geometry {
	return geometry.NewPolygon(rectRing(x1, y1, x2, y2))
}
