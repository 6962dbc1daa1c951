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

var precisionCases = []TestCase{
	// subpixel positioning
	subpixelSquare("subpixel_offset_00", 0),
	subpixelSquare("subpixel_offset_25", 0.25),
	subpixelSquare("subpixel_offset_50", 0.5),
	subpixelSquare("subpixel_offset_75", 0.75),
	subpixelSquare("subpixel_offset_003", 1.0/256),

	// lines of width 1 are hairlines on rounded pixel positions
	{
		Name:     "thin_line_y_integer",
		Geometry: horizontalLine(5, 10, 59),
		Width:    64,
		Height:   64,
		Op:       Stroke{Width: 1, Cap: graphics.LineCapButt, MiterLimit: 10},
	},
	{
		Name:     "thin_line_y_half",
		Geometry: horizontalLine(5, 10.5, 59),
		Width:    64,
		Height:   64,
		Op:       Stroke{Width: 1, Cap: graphics.LineCapButt, MiterLimit: 10},
	},
	{
		Name:     "just_above_hairline",
		Geometry: horizontalLine(5, 10.5, 59),
		Width:    64,
		Height:   64,
		Op:       Stroke{Width: 1.01, Cap: graphics.LineCapButt, MiterLimit: 10},
	},
	{
		Name:     "float64_precision",
		Geometry: float64PrecisionShape(),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "sliver",
		Geometry: triangle(4, 30, 60, 30.1, 4, 30.2),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	},
}

// subpixelSquare returns a 24x24 square at (20, 20), shifted diagonally by
// offset pixels.
func subpixelSquare(name string, offset float64) TestCase {
	x, y := 20+offset, 20+offset
	return TestCase{
		Name:     name,
		Geometry: rectangle(x, y, x+24, y+24),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	}
}

// float64PrecisionShape returns a square whose corners differ only in
// the low bits of their coordinates.
func float64PrecisionShape() *geometry.Geometry {
	const base = 32.0
	const d1, d2 = 0.123456789012345, 0.123456789012346
	return geometry.NewPolygon([]vec.Vec2{
		pt(base-10+d1, base-10+d1),
		pt(base+10+d2, base-10+d1),
		pt(base+10+d2, base+10+d2),
		pt(base-10+d1, base+10+d2),
	})
}
