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

// projectedCases give geometry in map units. The map y axis points up,
// and extents whose aspect ratio differs from the canvas are centred.
var projectedCases = []TestCase{
	{
		Name:     "extent_scale_2x",
		Geometry: rectangle(4, 4, 28, 28),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
		Extent:   geometry.NewEnvelope(0, 0, 32, 32),
	},
	{
		Name:     "extent_scale_half",
		Geometry: rectangle(16, 16, 112, 112),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
		Extent:   geometry.NewEnvelope(0, 0, 128, 128),
	},
	{
		Name:     "extent_scale_10x",
		Geometry: rectangle(2, 2, 4, 4),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
		Extent:   geometry.NewEnvelope(0, 0, 6.4, 6.4),
	},
	{
		Name:     "extent_y_up",
		Geometry: triangle(-20, -15, 20, -15, 0, 20),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
		Extent:   geometry.NewEnvelope(-32, -32, 32, 32),
	},
	{
		Name:     "extent_wide_canvas",
		Geometry: rectangle(-10, -10, 10, 10),
		Width:    128,
		Height:   64,
		Op:       Fill{Rule: NonZero},
		Extent:   geometry.NewEnvelope(-16, -16, 16, 16),
	},
	{
		Name:     "extent_tall_canvas",
		Geometry: rectangle(-10, -10, 10, 10),
		Width:    64,
		Height:   128,
		Op:       Fill{Rule: NonZero},
		Extent:   geometry.NewEnvelope(-16, -16, 16, 16),
	},
	{
		Name:     "lonlat_world",
		Geometry: geometry.NewPolygon(continent()),
		Width:    128,
		Height:   64,
		Op:       Fill{Rule: NonZero},
		Extent:   geometry.NewEnvelope(-180, -90, 180, 90),
	},
	{
		Name: "utm_block",
		Geometry: geometry.NewPolygon([]vec.Vec2{
			pt(500010, 5400010), pt(500090, 5400010),
			pt(500090, 5400060), pt(500050, 5400090),
			pt(500010, 5400060),
		}),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Extent: geometry.NewEnvelope(500000, 5400000, 500100, 5400100),
	},
	{
		Name:     "small_shape_large_offset",
		Geometry: rectangle(1e7-1, 1e7-1, 1e7+1, 1e7+1),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
		Extent:   geometry.NewEnvelope(1e7-32, 1e7-32, 1e7+32, 1e7+32),
	},
	{
		Name: "utm_road",
		Geometry: geometry.NewLineString([]vec.Vec2{
			pt(500005, 5400020), pt(500040, 5400030),
			pt(500060, 5400070), pt(500095, 5400080),
		}),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      4,
			Cap:        graphics.LineCapRound,
			Join:       graphics.LineJoinRound,
			MiterLimit: 10,
		},
		Extent: geometry.NewEnvelope(500000, 5400000, 500100, 5400100),
	},
}

// continent returns a rough outline in longitude and latitude.
func continent() []vec.Vec2 {
	return []vec.Vec2{
		pt(-10, 35), pt(5, 37), pt(30, 32), pt(45, 12),
		pt(51, 11), pt(40, -15), pt(20, -35), pt(12, -5),
		pt(-17, 15), pt(-10, 35),
	}
}
