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


package raster

import (
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// DrawLine draws a one pixel wide line between the integer device points
// (x0, y0) and (x1, y1), both included. The line is not anti-aliased.
// Only the part of the line near the image is walked.
func DrawLine(img *Image, x0, y0, x1, y1 int, c Color) {
	a := vec.Vec2{X: float64(x0), Y: float64(y0)}
	b := vec.Vec2{X: float64(x1), Y: float64(y1)}
	a, b, ok := clipSegment(a, b, img.lineClip())
	if !ok {
		return
	}
	x0, y0 = round(a)
	x1, y1 = round(b)
	bresenham(img, x0, y0, x1, y1, c)
}

// lineClip is the image area, padded by one pixel on every side.
func (img *Image) lineClip() rect.Rect {
	return rect.Rect{LLx: -1, LLy: -1, URx: float64(img.Width + 1), URy: float64(img.Height + 1)}
}

func bresenham(img *Image, x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		img.BlendPixel(x0, y0, c, 1)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// clipSegment returns the part of the segment from a to b inside box,
// using the Liang-Barsky algorithm. The result is false if the segment
// misses the box. Endpoints inside the box are returned unchanged.
func clipSegment(a, b vec.Vec2, box rect.Rect) (vec.Vec2, vec.Vec2, bool) {
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0
	for _, pq := range [4][2]float64{
		{-d.X, a.X - box.LLx},
		{d.X, box.URx - a.X},
		{-d.Y, a.Y - box.LLy},
		{d.Y, box.URy - a.Y},
	} {
		p, q := pq[0], pq[1]
		if math.IsNaN(q) {
			return a, b, false
		}
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = min(t1, t)
		}
	}
	ca, cb := a, b
	if t0 > 0 {
		ca = a.Add(d.Mul(t0))
	}
	if t1 < 1 {
		cb = a.Add(d.Mul(t1))
	}
	return ca, cb, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
