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

var (
	dashLine   = horizontalLine(5, 32, 59)
	dashCorner = corner(10, 50, 32, 20, 54, 50)
	dashSquare = closedSquare(16, 16, 32)
)

var dashCases = []TestCase{
	// pattern shapes
	dashed("dash_single_element", dashLine, 4, graphics.LineCapButt, []float64{10}, 0),
	dashed("dash_three_element", dashLine, 4, graphics.LineCapButt, []float64{5, 3, 8}, 0),
	dashed("dash_long_short", dashLine, 4, graphics.LineCapButt, []float64{20, 2}, 0),
	dashed("dash_short_long", dashLine, 4, graphics.LineCapButt, []float64{2, 20}, 0),
	dashed("dash_equal", dashLine, 4, graphics.LineCapButt, []float64{10, 10}, 0),
	dashed("dash_many_elements", dashLine, 4, graphics.LineCapButt, []float64{2, 2, 6, 2, 2, 10}, 0),

	// phase
	dashed("dash_phase_zero", dashLine, 4, graphics.LineCapButt, []float64{10, 5}, 0),
	dashed("dash_phase_half", dashLine, 4, graphics.LineCapButt, []float64{10, 5}, 5),
	dashed("dash_phase_dash_len", dashLine, 4, graphics.LineCapButt, []float64{10, 5}, 10),
	dashed("dash_phase_pattern_len", dashLine, 4, graphics.LineCapButt, []float64{10, 5}, 15),
	dashed("dash_phase_negative", dashLine, 4, graphics.LineCapButt, []float64{10, 5}, -5),
	dashed("dash_phase_large_neg", dashLine, 4, graphics.LineCapButt, []float64{10, 5}, -30),

	// zero-length dashes draw only their caps
	dashed("dash_zero_round", dashLine, 4, graphics.LineCapRound, []float64{0, 5}, 0),
	dashed("dash_zero_butt", dashLine, 4, graphics.LineCapButt, []float64{0, 5}, 0),
	dashed("dash_zero_square", dashLine, 4, graphics.LineCapSquare, []float64{0, 5}, 0),
	dashed("dash_zero_mixed", dashLine, 4, graphics.LineCapRound, []float64{0, 5, 10, 5}, 0),

	// corners; the first segment of dashCorner is about 36.4 long
	dashed("dash_corner_in_dash", dashCorner, 4, graphics.LineCapButt, []float64{40, 5}, 0),
	dashed("dash_corner_in_gap", dashCorner, 4, graphics.LineCapButt, []float64{5, 40}, 20),
	dashed("dash_end_at_corner", dashCorner, 4, graphics.LineCapButt, []float64{33, 10}, 0),
	dashed("dash_start_at_corner", dashCorner, 4, graphics.LineCapButt, []float64{10, 23}, 0),
	dashed("dash_short_at_corner", dashCorner, 8, graphics.LineCapButt, []float64{2, 8}, 0),
	dashed("dash_overlap_tight", cornerAngle(32, 50, 32, 32, 60), 10, graphics.LineCapButt, []float64{15, 5}, 0),
	dashed("dash_multi_corner", geometry.NewLineString([]vec.Vec2{
		pt(10, 50), pt(22, 14), pt(32, 50), pt(42, 14), pt(54, 50),
	}), 6, graphics.LineCapButt, []float64{50, 10}, 0),
	{
		Name:     "dash_overlap_caps",
		Geometry: cornerAngle(32, 54, 32, 32, 45),
		Width:    64,
		Height:   64,
		Op: Stroke{
			Width:      8,
			Cap:        graphics.LineCapRound,
			Join:       graphics.LineJoinRound,
			MiterLimit: 10,
			Dash:       []float64{10, 5},
		},
	},

	// closed rings; the perimeter of dashSquare is 128
	dashed("dash_closed_square", dashSquare, 4, graphics.LineCapButt, []float64{10, 5}, 0),
	dashed("dash_closed_join", dashSquare, 4, graphics.LineCapButt, []float64{32, 5}, 0),
	dashed("dash_closed_cap_gap", dashSquare, 4, graphics.LineCapButt, []float64{20, 20}, 10),
	dashed("dash_closed_same_dash", dashSquare, 4, graphics.LineCapButt, []float64{64, 10}, 32),
}

// dashed returns a dashed stroke scene with miter joins on a 64x64 canvas.
func dashed(name string, g *geometry.Geometry, width float64, lineCap graphics.LineCapStyle, dash []float64, phase float64) TestCase {
	tc := stroked(name, g, width, lineCap, graphics.LineJoinMiter)
	op := tc.Op.(Stroke)
	op.Dash = dash
	op.DashPhase = phase
	tc.Op = op
	return tc
}
