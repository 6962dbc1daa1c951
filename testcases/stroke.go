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

var strokeCases = []TestCase{
	stroked("line_butt", horizontalLine(10, 32, 54), 8, graphics.LineCapButt, graphics.LineJoinMiter),
	stroked("line_round", horizontalLine(10, 32, 54), 8, graphics.LineCapRound, graphics.LineJoinMiter),
	stroked("line_square", horizontalLine(10, 32, 54), 8, graphics.LineCapSquare, graphics.LineJoinMiter),
	stroked("corner_miter", corner(10, 50, 32, 14, 54, 50), 6, graphics.LineCapButt, graphics.LineJoinMiter),
	stroked("corner_round", corner(10, 50, 32, 14, 54, 50), 6, graphics.LineCapButt, graphics.LineJoinRound),
	stroked("corner_bevel", corner(10, 50, 32, 14, 54, 50), 6, graphics.LineCapButt, graphics.LineJoinBevel),
	{
		Name:     "miter_limit_exceeded",
		Geometry: cornerAngle(8, 48, 32, 16, 75),
		Width:    64,
		Height:   64,
		Op: Stroke{
			Width:      6,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 1.5,
		},
	},
	stroked("closed_square", closedSquare(16, 16, 32), 4, graphics.LineCapButt, graphics.LineJoinMiter),
	stroked("closed_triangle_round", triangle(10, 50, 32, 10, 54, 50), 5, graphics.LineCapButt, graphics.LineJoinRound),
	stroked("hairline", corner(4, 60, 32, 4, 60, 60), 1, graphics.LineCapButt, graphics.LineJoinMiter),
	stroked("hairline_square", closedSquare(8.4, 8.4, 47), 0.5, graphics.LineCapButt, graphics.LineJoinMiter),
	stroked("thin_diagonal", geometry.NewLineString([]vec.Vec2{pt(4, 8), pt(60, 56)}), 1.5, graphics.LineCapButt, graphics.LineJoinMiter),
	{
		Name:     "dashed",
		Geometry: horizontalLine(5, 32, 59),
		Width:    64,
		Height:   64,
		Op: Stroke{
			Width:      4,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 10,
			Dash:       []float64{8, 4},
		},
	},
}

// stroked returns a solid stroke scene on a 64x64 canvas with miter limit 10.
func stroked(name string, g *geometry.Geometry, width float64, lineCap graphics.LineCapStyle, join graphics.LineJoinStyle) TestCase {
	return TestCase{
		Name:     name,
		Geometry: g,
		Width:    64,
		Height:   64,
		Op: Stroke{
			Width:      width,
			Cap:        lineCap,
			Join:       join,
			MiterLimit: 10,
		},
	}
}

// horizontalLine returns a horizontal line string.
func horizontalLine(x1, y, x2 float64) *geometry.Geometry {
	return geometry.NewLineString([]vec.Vec2{pt(x1, y), pt(x2, y)})
}

// corner returns a line string with two segments meeting at (x2, y2).
func corner(x1, y1, x2, y2, x3, y3 float64) *geometry.Geometry {
	return geometry.NewLineString([]vec.Vec2{pt(x1, y1), pt(x2, y2), pt(x3, y3)})
}

// cornerAngle returns a corner at (cx, cy). The second segment has length
// 30 and leaves the corner at the given angle, measured counter-clockwise
// on screen.
func cornerAngle(x1, y1, cx, cy float64, angleDeg float64) *geometry.Geometry {
	a := angleDeg * math.Pi / 180
	return corner(x1, y1, cx, cy, cx+30*math.Cos(a), cy-30*math.Sin(a))
}

// closedSquare returns a square polygon, which is stroked as a closed line.
func closedSquare(x, y, side float64) *geometry.Geometry {
	return rectangle(x, y, x+side, y+side)
}
