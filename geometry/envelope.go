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

package geometry

import (
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Envelope is an axis-aligned rectangle in map coordinates.
// The zero value is the degenerate envelope at the origin.
type Envelope struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewEnvelope returns the envelope spanned by two corner points,
// in any order.
func NewEnvelope(x0, y0, x1, y1 float64) Envelope {
	return Envelope{
		MinX: math.Min(x0, x1),
		MinY: math.Min(y0, y1),
		MaxX: math.Max(x0, x1),
		MaxY: math.Max(y0, y1),
	}
}

// FromRect converts a rect.Rect into an Envelope.
func FromRect(r rect.Rect) Envelope {
	return NewEnvelope(r.LLx, r.LLy, r.URx, r.URy)
}

// Rect converts e into a rect.Rect.
func (e Envelope) Rect() rect.Rect {
	return rect.Rect{LLx: e.MinX, LLy: e.MinY, URx: e.MaxX, URy: e.MaxY}
}

// Width returns the horizontal extent of e.
func (e Envelope) Width() float64 { return e.MaxX - e.MinX }

// Height returns the vertical extent of e.
func (e Envelope) Height() float64 { return e.MaxY - e.MinY }

// Center returns the midpoint of e.
func (e Envelope) Center() vec.Vec2 {
	return vec.Vec2{X: 0.5 * (e.MinX + e.MaxX), Y: 0.5 * (e.MinY + e.MaxY)}
}

// IsValid reports whether e has positive width and height and finite
// coordinates.
func (e Envelope) IsValid() bool {
	for _, v := range []float64{e.MinX, e.MinY, e.MaxX, e.MaxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return e.MaxX > e.MinX && e.MaxY > e.MinY
}

// Contains reports whether the point (x, y) lies inside e or on its border.
func (e Envelope) Contains(x, y float64) bool {
	return x >= e.MinX && x <= e.MaxX && y >= e.MinY && y <= e.MaxY
}

// ContainsEnvelope reports whether o lies completely inside e.
func (e Envelope) ContainsEnvelope(o Envelope) bool {
	return o.MinX >= e.MinX && o.MaxX <= e.MaxX && o.MinY >= e.MinY && o.MaxY <= e.MaxY
}

// Intersects reports whether e and o share at least one point.
func (e Envelope) Intersects(o Envelope) bool {
	return !(o.MinX > e.MaxX || o.MaxX < e.MinX || o.MinY > e.MaxY || o.MaxY < e.MinY)
}

// Intersect returns the common part of e and o. The result is only
// meaningful if e.Intersects(o).
func (e Envelope) Intersect(o Envelope) Envelope {
	return Envelope{
		MinX: math.Max(e.MinX, o.MinX),
		MinY: math.Max(e.MinY, o.MinY),
		MaxX: math.Min(e.MaxX, o.MaxX),
		MaxY: math.Min(e.MaxY, o.MaxY),
	}
}

// ExpandToInclude grows e so that it contains the point (x, y).
func (e *Envelope) ExpandToInclude(x, y float64) {
	e.MinX = math.Min(e.MinX, x)
	e.MinY = math.Min(e.MinY, y)
	e.MaxX = math.Max(e.MaxX, x)
	e.MaxY = math.Max(e.MaxY, y)
}

// ExpandToIncludeEnvelope grows e so that it contains o.
func (e *Envelope) ExpandToIncludeEnvelope(o Envelope) {
	e.ExpandToInclude(o.MinX, o.MinY)
	e.ExpandToInclude(o.MaxX, o.MaxY)
}

// ReCenter moves e so that its center is (cx, cy), keeping its size.
func (e *Envelope) ReCenter(cx, cy float64) {
	hw := 0.5 * e.Width()
	hh := 0.5 * e.Height()
	e.MinX, e.MaxX = cx-hw, cx+hw
	e.MinY, e.MaxY = cy-hh, cy+hh
}

// SetWidth changes the width of e, keeping its center.
func (e *Envelope) SetWidth(w float64) {
	c := e.Center()
	e.MinX, e.MaxX = c.X-0.5*w, c.X+0.5*w
}

// SetHeight changes the height of e, keeping its center.
func (e *Envelope) SetHeight(h float64) {
	c := e.Center()
	e.MinY, e.MaxY = c.Y-0.5*h, c.Y+0.5*h
}

// Scale multiplies width and height of e by f, keeping its center.
func (e *Envelope) Scale(f float64) {
	w, h := e.Width()*f, e.Height()*f
	e.SetWidth(w)
	e.SetHeight(h)
}
