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

// Package raster turns device-space geometry into pixels.
//
// The [Rasterizer] computes anti-aliased coverage for filled polygons and
// stroked lines and hands it out one pixel row at a time. [Image] is the
// RGBA pixel buffer which receives the coverage, blended in linear light.
// [Canvas] connects the two and is what symbolizers draw on.
//
// Two coordinate precisions are in use:
//
//   - Polygon fills take paths in 24.8 fixed point: device pixel
//     coordinates multiplied by [SubpixelScale] and rounded, see
//     [ToSubpixel].
//   - Strokes wider than one pixel take plain device coordinates, hairlines
//     ([DrawLine]) take integer device pixels.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Sub-pixel precision of polygon fill coordinates.
const (
	SubpixelShift = 8
	SubpixelScale = 1 << SubpixelShift
)

// ToSubpixel converts a device point to the 24.8 fixed point
// representation expected by [Rasterizer.FillNonZero] and
// [Rasterizer.FillEvenOdd].
func ToSubpixel(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: math.Round(p.X * SubpixelScale),
		Y: math.Round(p.Y * SubpixelScale),
	}
}

// edge is a non-horizontal line segment in device pixels.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // inverse slope
}

// Rasterizer computes pixel coverage for paths. Coverage is the fraction
// of a pixel's area inside the shape, from 0 to 1.
//
// A Rasterizer keeps its scratch buffers between calls, so that rendering
// many features with one Rasterizer does not allocate once the buffers
// have grown. It is not safe for concurrent use.
type Rasterizer struct {
	// Clip restricts the output to an integer-aligned device rectangle.
	Clip rect.Rect

	// Flatness is the maximal deviation, in pixels, of the polygons used
	// for round caps and joins from the true arcs.
	Flatness float64

	// Width is the stroke width in device pixels.
	Width float64

	// Cap is the shape of the ends of open stroked lines.
	Cap graphics.LineCapStyle

	// Join is the shape of stroked corners.
	Join graphics.LineJoinStyle

	// MiterLimit is the maximal ratio of miter length to stroke width
	// before a miter join is replaced by a bevel. Must be at least 1.
	MiterLimit float64

	// Dash alternates lengths of drawn and skipped stroke parts, in device
	// pixels. Nil gives a solid line.
	Dash []float64

	// DashPhase is the distance into the dash pattern at which each line
	// starts.
	DashPhase float64

	// smallArea is the largest bounding box area, in pixels, for which the
	// full 2D accumulation buffer is used.
	smallArea int

	// unit converts input coordinates of the current operation to pixels.
	unit float64

	cover    []float32
	area     []float32
	edges    []edge
	active   []int
	rowUsed  []bool
	bboxInit bool
	bbox     rect.Rect

	// stroke outlines, all polygons stored back to back
	outline      []vec.Vec2
	outlineStart []int

	// stroke input, split into runs of segments
	segs       []strokeSegment
	runStart   []int
	runClosed  []bool
	dots       []vec.Vec2 // subpaths without length
	dashSegs   []strokeSegment
	dashStarts []int
}

// NewRasterizer returns a Rasterizer which clips to the given rectangle.
// Strokes default to one pixel wide butt-capped lines with miter joins.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		Clip:       clip,
		Flatness:   defaultFlatness,
		Width:      1,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: defaultMiterLimit,
		smallArea:  smallAreaLimit,
		unit:       1,
	}
}

// Reset changes the clip rectangle and restores the default stroke
// parameters. Scratch buffers are kept.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit
	r.Dash = nil
	r.DashPhase = 0
}

// FillNonZero fills p using the nonzero winding rule. The coordinates of p
// are 24.8 fixed point, see [ToSubpixel]. Coverage is passed to emit one
// row at a time; the slice is only valid during the call.
func (r *Rasterizer) FillNonZero(p path.Path, emit func(y, xMin int, coverage []float32)) {
	r.fill(p, nonZero, emit)
}

// FillEvenOdd fills p using the even-odd rule. The coordinates of p are
// 24.8 fixed point, see [ToSubpixel].
func (r *Rasterizer) FillEvenOdd(p path.Path, emit func(y, xMin int, coverage []float32)) {
	r.fill(p, evenOdd, emit)
}

type fillRule int

const (
	nonZero fillRule = iota
	evenOdd
)

func (r *Rasterizer) fill(p path.Path, rule fillRule, emit func(y, xMin int, coverage []float32)) {
	r.unit = 1.0 / SubpixelScale
	r.startEdges()
	r.pathEdges(p)
	r.unit = 1
	r.sweep(rule, emit)
}

// sweep converts the collected edges into coverage rows.
func (r *Rasterizer) sweep(rule fillRule, emit func(y, xMin int, coverage []float32)) {
	x0, x1, y0, y1, ok := r.edgeBounds()
	if !ok {
		return
	}
	if (x1-x0)*(y1-y0) < r.smallArea {
		r.sweepBuffered(x0, x1, y0, y1, rule, emit)
	} else {
		r.sweepActive(x0, x1, y0, y1, rule, emit)
	}
}

// pathEdges adds the edges of p. Every subpath is closed implicitly, as
// required for filling. Curve segments are replaced by their chords.
func (r *Rasterizer) pathEdges(p path.Path) {
	var cur, start vec.Vec2
	open := false
	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				r.addEdge(cur, start)
			}
			cur = pts[0]
			start = cur
			open = true
		case path.CmdLineTo, path.CmdQuadTo, path.CmdCubeTo:
			to := pts[len(pts)-1]
			r.addEdge(cur, to)
			cur = to
		case path.CmdClose:
			r.addEdge(cur, start)
			cur = start
			open = false
		}
	}
	if open {
		r.addEdge(cur, start)
	}
}

func (r *Rasterizer) startEdges() {
	r.edges = r.edges[:0]
	r.bboxInit = false
}

// addEdge records the segment from a to b, given in input units.
func (r *Rasterizer) addEdge(a, b vec.Vec2) {
	a, b = a.Mul(r.unit), b.Mul(r.unit)

	dy := b.Y - a.Y
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: a.X, y0: a.Y,
		x1: b.X, y1: b.Y,
		dxdy: (b.X - a.X) / dy,
	})

	box := rect.Rect{
		LLx: min(a.X, b.X), LLy: min(a.Y, b.Y),
		URx: max(a.X, b.X), URy: max(a.Y, b.Y),
	}
	if !r.bboxInit {
		r.bbox = box
		r.bboxInit = true
		return
	}
	r.bbox.LLx = min(r.bbox.LLx, box.LLx)
	r.bbox.LLy = min(r.bbox.LLy, box.LLy)
	r.bbox.URx = max(r.bbox.URx, box.URx)
	r.bbox.URy = max(r.bbox.URy, box.URy)
}

// edgeBounds returns the pixel range touched by the edges, clipped.
func (r *Rasterizer) edgeBounds() (x0, x1, y0, y1 int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}
	x0 = max(int(math.Floor(r.bbox.LLx)), int(r.Clip.LLx))
	x1 = min(int(math.Floor(r.bbox.URx))+1, int(r.Clip.URx))
	y0 = max(int(math.Floor(r.bbox.LLy)), int(r.Clip.LLy))
	y1 = min(int(math.Floor(r.bbox.URy))+1, int(r.Clip.URy))
	if x0 >= x1 || y0 >= y1 {
		return 0, 0, 0, 0, false
	}
	return x0, x1, y0, y1, true
}

// Each pixel of a row collects two numbers while the edges are scanned:
//
//	cover: the signed height of edge pieces inside the pixel column,
//	       positive for downward edges
//	area:  cover weighted by the part of the pixel right of the edge
//
// Summing cover from the left gives the winding number just left of each
// pixel; adding the pixel's own area gives its signed coverage.
// Contributions left of the clip are folded into the first column.

// accumulate adds the part of e inside row y to the row buffers, which
// cover the columns [xLo, xHi).
func (r *Rasterizer) accumulate(e *edge, y int, cover, area []float32, xLo, xHi int) {
	top := max(float64(y), min(e.y0, e.y1))
	bot := min(float64(y+1), max(e.y0, e.y1))
	if bot <= top {
		return
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xTop := e.x0 + e.dxdy*(top-e.y0)
	xBot := e.x0 + e.dxdy*(bot-e.y0)
	left, right := min(xTop, xBot), max(xTop, xBot)
	colL := int(math.Floor(max(left, float64(xLo-1))))
	colR := int(math.Floor(min(right, float64(xHi))))

	switch {
	case colR < xLo:
		h := sign * float32(bot-top)
		cover[0] += h
		area[0] += h
		return
	case colL >= xHi:
		return
	case colL == colR:
		r.addPiece(e, top, bot, sign, colL, cover, area, xLo, xHi)
		return
	}

	// The edge crosses several columns: split it at the column borders.
	dydx := 1 / e.dxdy
	if colL < xLo {
		// everything left of the clip goes into the first column at once
		yLeft := top
		if xBot < xTop {
			yLeft = bot
		}
		yClip := e.y0 + dydx*(float64(xLo)-e.x0)
		lo := max(min(yLeft, yClip), top)
		hi := min(max(yLeft, yClip), bot)
		if hi > lo {
			h := sign * float32(hi-lo)
			cover[0] += h
			area[0] += h
		}
		colL = xLo
	}
	colR = min(colR, xHi-1)
	for col := colL; col <= colR; col++ {
		ya := e.y0 + dydx*(float64(col)-e.x0)
		yb := e.y0 + dydx*(float64(col+1)-e.x0)
		lo := max(min(ya, yb), top)
		hi := min(max(ya, yb), bot)
		if hi <= lo {
			continue
		}
		r.addPiece(e, lo, hi, sign, col, cover, area, xLo, xHi)
	}
}

// addPiece adds the part of e between heights top and bot, which lies in
// pixel column col.
func (r *Rasterizer) addPiece(e *edge, top, bot float64, sign float32, col int, cover, area []float32, xLo, xHi int) {
	h := sign * float32(bot-top)
	switch {
	case col < xLo:
		cover[0] += h
		area[0] += h
	case col < xHi:
		xMid := e.x0 + e.dxdy*((top+bot)/2-e.y0)
		frac := xMid - float64(col)
		cover[col-xLo] += h
		area[col-xLo] += h * float32(1-frac)
	}
}

// resolveNonZero turns one row of accumulated values into coverage, in
// place.
func resolveNonZero(cover, area []float32) {
	var wind float32
	for i := range cover {
		v := wind + area[i]
		wind += cover[i]
		if v < 0 {
			v = -v
		}
		cover[i] = min(v, 1)
	}
}

// resolveEvenOdd is like resolveNonZero, but folds the winding number
// modulo 2.
func resolveEvenOdd(cover, area []float32) {
	var wind float32
	for i := range cover {
		v := wind + area[i]
		wind += cover[i]
		if v < 0 {
			v = -v
		}
		m := v - 2*float32(int(v/2))
		if m > 1 {
			m = 2 - m
		}
		cover[i] = m
	}
}

func resolve(rule fillRule, cover, area []float32) {
	if rule == nonZero {
		resolveNonZero(cover, area)
	} else {
		resolveEvenOdd(cover, area)
	}
}

// nonZeroRun returns the part of row between the first and last non-zero
// entries, and the index where it starts.
func nonZeroRun(row []float32) ([]float32, int) {
	lo, hi := 0, len(row)
	for lo < hi && row[lo] == 0 {
		lo++
	}
	for hi > lo && row[hi-1] == 0 {
		hi--
	}
	if lo == hi {
		return nil, 0
	}
	return row[lo:hi], lo
}

// sweepBuffered handles small shapes: all rows are accumulated in one 2D
// buffer, edge by edge.
func (r *Rasterizer) sweepBuffered(x0, x1, y0, y1 int, rule fillRule, emit func(y, xMin int, coverage []float32)) {
	w, h := x1-x0, y1-y0
	n := w * h
	r.cover = slices.Grow(r.cover[:0], n)[:n]
	r.area = slices.Grow(r.area[:0], n)[:n]
	r.rowUsed = slices.Grow(r.rowUsed[:0], h)[:h]
	clear(r.cover)
	clear(r.area)
	clear(r.rowUsed)

	for i := range r.edges {
		e := &r.edges[i]
		top := max(int(math.Floor(min(e.y0, e.y1))), y0)
		bot := min(int(math.Floor(max(e.y0, e.y1)))+1, y1)
		for y := top; y < bot; y++ {
			row := y - y0
			off := row * w
			r.accumulate(e, y, r.cover[off:off+w], r.area[off:off+w], x0, x1)
			r.rowUsed[row] = true
		}
	}

	for row := range h {
		if !r.rowUsed[row] {
			continue
		}
		off := row * w
		line := r.cover[off : off+w]
		resolve(rule, line, r.area[off:off+w])
		if run, start := nonZeroRun(line); run != nil {
			emit(y0+row, x0+start, run)
		}
	}
}

// sweepActive handles large shapes: rows are processed top to bottom with
// a list of the edges crossing the current row.
func (r *Rasterizer) sweepActive(x0, x1, y0, y1 int, rule fillRule, emit func(y, xMin int, coverage []float32)) {
	w := x1 - x0
	r.cover = slices.Grow(r.cover[:0], w)[:w]
	r.area = slices.Grow(r.area[:0], w)[:w]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(min(a.y0, a.y1), min(b.y0, b.y1))
	})
	r.active = r.active[:0]
	next := 0

	for y := y0; y < y1; y++ {
		top, bot := float64(y), float64(y+1)
		for next < len(r.edges) && min(r.edges[next].y0, r.edges[next].y1) < bot {
			r.active = append(r.active, next)
			next++
		}
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.active); {
			e := &r.edges[r.active[i]]
			if max(e.y0, e.y1) <= top {
				last := len(r.active) - 1
				r.active[i] = r.active[last]
				r.active = r.active[:last]
				continue
			}
			r.accumulate(e, y, r.cover, r.area, x0, x1)
			touched = true
			i++
		}
		if !touched {
			continue
		}

		resolve(rule, r.cover, r.area)
		if run, start := nonZeroRun(r.cover); run != nil {
			emit(y, x0+start, run)
		}
	}
}

const (
	// defaultFlatness is the arc approximation tolerance in pixels.
	defaultFlatness = 0.25

	// defaultMiterLimit turns corners sharper than about 11.5 degrees
	// into bevels.
	defaultMiterLimit = 10.0

	// edges with a smaller vertical extent, in pixels, are dropped
	horizontalEdgeThreshold = 1e-10

	smallAreaLimit = 65536

	zeroLengthThreshold   = 1e-10
	collinearityThreshold = 1e-6

	// cos(179.43°): segments turning back by more than this form a cusp
	cuspCosineThreshold = -0.9999
)
