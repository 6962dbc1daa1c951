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

// roundStroke returns a solid stroke with round caps and joins.
func roundStroke(width float64) Stroke {
	return Stroke{
		Width:      width,
		Cap:        graphics.LineCapRound,
		Join:       graphics.LineJoinRound,
		MiterLimit: 10,
	}
}

var complexCases = []TestCase{
	{
		Name:     "coastline",
		Geometry: geometry.NewPolygon(coastline(32, 32, 24, 7)),
		Width:    64,
		Height:   64,
		Op:       Fill{Rule: NonZero},
	},
	{
		Name:     "coastline_stroked",
		Geometry: geometry.NewPolygon(coastline(32, 32, 24, 7)),
		Width:    64,
		Height:   64,
		Op:       roundStroke(3),
	},
	{
		Name:     "spiral_overlap",
		Geometry: geometry.NewLineString(spiral(32, 32, 5, 25, 3)),
		Width:    64,
		Height:   64,
		Op:       roundStroke(4),
	},
	{
		Name:     "figure_eight",
		Geometry: geometry.NewLineString(figureEight(32, 32, 20)),
		Width:    64,
		Height:   64,
		Op:       roundStroke(4),
	},
	{
		Name:     "thick_tight_curve",
		Geometry: geometry.NewLineString(tightCurve(32, 32, 15)),
		Width:    64,
		Height:   64,
		Op:       roundStroke(10),
	},
	{
		Name:     "zigzag_thick",
		Geometry: geometry.NewLineString(zigzag(10, 32, 54, 20)),
		Width:    64,
		Height:   64,
		Op:       roundStroke(8),
	},
}

// coastline returns a wobbly closed ring, similar to a small island.
func coastline(cx, cy, r float64, lobes int) []vec.Vec2 {
	const n = 120
	pts := make([]vec.Vec2, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / n
		rr := r * (0.8 + 0.12*math.Sin(float64(lobes)*a) + 0.06*math.Cos(3*float64(lobes)*a+1))
		pts[i] = pt(cx+rr*math.Cos(a), cy+rr*math.Sin(a))
	}
	return pts
}

// spiral returns an Archimedean spiral that overlaps itself when stroked.
func spiral(cx, cy, rMin, rMax float64, turns float64) []vec.Vec2 {
	steps := max(int(turns*32), 8)
	total := turns * 2 * math.Pi
	growth := (rMax - rMin) / total

	pts := make([]vec.Vec2, steps+1)
	for i := range pts {
		a := float64(i) / float64(steps) * total
		r := rMin + growth*a
		pts[i] = pt(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	return pts
}

// figureEight returns a lemniscate of Gerono, which crosses itself at
// (cx, cy).
func figureEight(cx, cy, size float64) []vec.Vec2 {
	const n = 96
	pts := make([]vec.Vec2, n+1)
	for i := range pts {
		t := 2*math.Pi*float64(i)/n + math.Pi/2
		pts[i] = pt(cx+size/2*math.Sin(2*t), cy-size*math.Cos(t))
	}
	return pts
}

// tightCurve returns a U-turn whose inner radius is small compared to a
// thick stroke, so that the inner outline folds over itself.
func tightCurve(cx, cy, size float64) []vec.Vec2 {
	pts := []vec.Vec2{pt(cx-size, cy-size)}
	pts = append(pts, ellipsePoints(cx, cy, size, size, math.Pi, 0, 24)...)
	return append(pts, pt(cx+size, cy-size))
}

// zigzag returns five segments alternating above and below cy.
func zigzag(x1, cy, x2, amplitude float64) []vec.Vec2 {
	const segments = 5
	w := (x2 - x1) / segments
	pts := []vec.Vec2{pt(x1, cy)}
	for i := 1; i <= segments; i++ {
		y := cy + amplitude
		if i%2 == 1 {
			y = cy - amplitude
		}
		pts = append(pts, pt(x1+float64(i)*w, y))
	}
	return pts
}
