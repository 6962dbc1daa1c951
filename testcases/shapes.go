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
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/carto/geometry"
)

// shapeCases contain round shapes. Geometries have no curve segments, so
// circles and arcs are given as polygons with many short edges.
var shapeCases = []TestCase{
	{
		Name:     "circle",
		Geometry: geometry.NewPolygon(ellipsePoints(32, 32, 24, 24, 0, 2*math.Pi, 96)),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "circle_small",
		Geometry: geometry.NewPolygon(ellipsePoints(32, 32, 3, 3, 0, 2*math.Pi, 16)),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "circle_large",
		Geometry: geometry.NewPolygon(ellipsePoints(128, 128, 120, 120, 0, 2*math.Pi, 360)),
		Width:    256,
		Height:   256,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "circle_coarse",
		Geometry: geometry.NewPolygon(ellipsePoints(32, 32, 24, 24, 0, 2*math.Pi, 8)),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "ellipse",
		Geometry: geometry.NewPolygon(ellipsePoints(64, 32, 56, 20, 0, 2*math.Pi, 128)),
		Width:    128,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "circle_stroked",
		Geometry: geometry.NewPolygon(ellipsePoints(32, 32, 22, 22, 0, 2*math.Pi, 96)),
		Width:    64,
		Height:   64,
		Op: Stroke{
			Width:      4,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 10,
		},
	},
	{
		Name:     "arc",
		Geometry: geometry.NewLineString(ellipsePoints(32, 32, 22, 22, math.Pi/4, 7*math.Pi/4, 72)),
		Width:    64,
		Height:   64,
		Op: Stroke{
			Width:      5,
			Cap:        graphics.LineCapRound,
			Join:       graphics.LineJoinRound,
			MiterLimit: 10,
		},
	},
	{
		Name:     "arc_dashed",
		Geometry: geometry.NewLineString(ellipsePoints(32, 32, 22, 22, 0, 3*math.Pi/2, 72)),
		Width:    64,
		Height:   64,
		Op: Stroke{
			Width:      3,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 10,
			Dash:       []float64{6, 3},
		},
	},
}

// ellipsePoints samples an elliptic arc from angle a0 to a1 with n
// segments. A full turn yields an open ring; the polygon constructor
// closes it.
func ellipsePoints(cx, cy, rx, ry, a0, a1 float64, n int) []vec.Vec2 {
	full := math.Abs(a1-a0) >= 2*math.Pi
	count := n + 1
	if full {
		count = n
	}
	pts := make([]vec.Vec2, count)
	for i := range pts {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		pts[i] = pt(cx+rx*math.Cos(a), cy+ry*math.Sin(a))
	}
	return pts
}
