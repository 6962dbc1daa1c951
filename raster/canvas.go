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
	"image"
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// StrokeStyle describes how lines are drawn. All lengths are in device
// pixels.
type StrokeStyle struct {
	Width      float64
	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64
	Dash       []float64
	DashPhase  float64
}

// Canvas draws device-space geometry onto an [Image].
type Canvas struct {
	Image *Image

	r    *Rasterizer
	path Path
}

// NewCanvas returns a canvas drawing onto img.
func NewCanvas(img *Image) *Canvas {
	return &Canvas{
		Image: img,
		r:     NewRasterizer(rect.Rect{URx: float64(img.Width), URy: float64(img.Height)}),
	}
}

// Fill fills the given rings with col. Coordinates are device
// pixels and are rounded to 24.8 fixed point before rasterization.
func (cv *Canvas) Fill(rings [][]vec.Vec2, col Color, evenOdd bool) {
	cv.path.Reset()
	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		cv.path.MoveTo(ToSubpixel(ring[0]))
		for _, p := range ring[1:] {
			cv.path.LineTo(ToSubpixel(p))
		}
		cv.path.Close()
	}

	emit := func(y, xMin int, coverage []float32) {
		cv.Image.BlendSpan(y, xMin, coverage, col)
	}
	if evenOdd {
		cv.r.FillEvenOdd(cv.path.All(), emit)
	} else {
		cv.r.FillNonZero(cv.path.All(), emit)
	}
}

// FillRect fills an axis-parallel rectangle given in device pixels.
func (cv *Canvas) FillRect(x0, y0, x1, y1 float64, col Color) {
	cv.Fill([][]vec.Vec2{{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
	}}, col, false)
}

// Stroke draws the given lines. Lines of width up to one pixel are drawn
// as hairlines between the rounded integer vertex positions. Wider lines
// are outlined and filled with anti-aliasing, using the unrounded device
// coordinates.
func (cv *Canvas) Stroke(lines [][]vec.Vec2, closed bool, st StrokeStyle, col Color) {
	if st.Width <= 1 {
		for _, l := range lines {
			cv.hairline(l, closed, col)
		}
		return
	}

	cv.path.Reset()
	for _, l := range lines {
		if len(l) == 0 {
			continue
		}
		cv.path.MoveTo(l[0])
		for _, p := range l[1:] {
			cv.path.LineTo(p)
		}
		if closed && len(l) > 1 {
			cv.path.Close()
		}
	}

	r := cv.r
	r.Width = st.Width
	r.Cap = st.Cap
	r.Join = st.Join
	r.MiterLimit = st.MiterLimit
	if r.MiterLimit < 1 {
		r.MiterLimit = defaultMiterLimit
	}
	r.Dash = st.Dash
	r.DashPhase = st.DashPhase
	r.Stroke(cv.path.All(), func(y, xMin int, coverage []float32) {
		cv.Image.BlendSpan(y, xMin, coverage, col)
	})
}

func (cv *Canvas) hairline(pts []vec.Vec2, closed bool, col Color) {
	if len(pts) == 1 {
		x, y := round(pts[0])
		cv.Image.BlendPixel(x, y, col, 1)
		return
	}
	box := cv.Image.lineClip()
	for i := 1; i < len(pts); i++ {
		cv.hairSegment(pts[i-1], pts[i], box, col)
	}
	if closed && len(pts) > 2 && pts[0] != pts[len(pts)-1] {
		cv.hairSegment(pts[len(pts)-1], pts[0], box, col)
	}
}

// hairSegment clips the segment before rounding, so that far away
// vertices neither overflow int nor cost time.
func (cv *Canvas) hairSegment(a, b vec.Vec2, box rect.Rect, col Color) {
	a, b, ok := clipSegment(a, b, box)
	if !ok {
		return
	}
	x0, y0 := round(a)
	x1, y1 := round(b)
	bresenham(cv.Image, x0, y0, x1, y1, col)
}

func round(p vec.Vec2) (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

// DrawImage draws src centred on the device point p.
func (cv *Canvas) DrawImage(src image.Image, p vec.Vec2) {
	b := src.Bounds()
	x := int(math.Round(p.X - float64(b.Dx())/2))
	y := int(math.Round(p.Y - float64(b.Dy())/2))
	cv.Image.Composite(src, image.Rect(x, y, x+b.Dx(), y+b.Dy()))
}
