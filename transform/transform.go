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

// Package transform maps between map coordinates and device pixels.
//
// The map extent is scaled uniformly to fit the device and centred on it.
// The y axis is flipped: map y grows upwards, device y grows downwards.
package transform

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/carto/geometry"
)

// Transform is the affine map from map coordinates to device pixels.
type Transform struct {
	width, height float64
	extent        geometry.Envelope
	scale         float64
	cx, cy        float64
}

// New returns the transform which fits extent into a device of the given
// size.
func New(width, height int, extent geometry.Envelope) *Transform {
	t := &Transform{
		width:  float64(width),
		height: float64(height),
		extent: extent,
	}
	sx := t.width / extent.Width()
	sy := t.height / extent.Height()
	t.scale = min(sx, sy)
	c := extent.Center()
	t.cx, t.cy = c.X, c.Y
	return t
}

// Scale returns the number of device pixels per map unit.
func (t *Transform) Scale() float64 { return t.scale }

// Extent returns the map extent the transform was built from.
func (t *Transform) Extent() geometry.Envelope { return t.extent }

// Forward maps a point from map coordinates to device coordinates.
func (t *Transform) Forward(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: (p.X-t.cx)*t.scale + 0.5*t.width,
		Y: -(p.Y-t.cy)*t.scale + 0.5*t.height,
	}
}

// Backward maps a point from device coordinates to map coordinates.
func (t *Transform) Backward(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: (p.X-0.5*t.width)/t.scale + t.cx,
		Y: -(p.Y-0.5*t.height)/t.scale + t.cy,
	}
}

// ForwardEnvelope maps an envelope to device coordinates.
// The result is normalized, so MinY refers to the top edge on the device.
func (t *Transform) ForwardEnvelope(e geometry.Envelope) geometry.Envelope {
	a := t.Forward(vec.Vec2{X: e.MinX, Y: e.MinY})
	b := t.Forward(vec.Vec2{X: e.MaxX, Y: e.MaxY})
	return geometry.NewEnvelope(a.X, a.Y, b.X, b.Y)
}

// BackwardEnvelope maps a device rectangle to map coordinates.
func (t *Transform) BackwardEnvelope(e geometry.Envelope) geometry.Envelope {
	a := t.Backward(vec.Vec2{X: e.MinX, Y: e.MinY})
	b := t.Backward(vec.Vec2{X: e.MaxX, Y: e.MaxY})
	return geometry.NewEnvelope(a.X, a.Y, b.X, b.Y)
}

// ForwardPoints maps pts to device coordinates. The slice is modified in
// place.
func (t *Transform) ForwardPoints(pts []vec.Vec2) {
	for i, p := range pts {
		pts[i] = t.Forward(p)
	}
}

// BackwardPoints maps pts to map coordinates. The slice is modified in
// place.
func (t *Transform) BackwardPoints(pts []vec.Vec2) {
	for i, p := range pts {
		pts[i] = t.Backward(p)
	}
}

// ForwardGeometry returns a copy of g in device coordinates.
func (t *Transform) ForwardGeometry(g *geometry.Geometry) *geometry.Geometry {
	return g.Transform(t.Forward)
}

// Matrix returns the forward transform as an affine matrix.
func (t *Transform) Matrix() matrix.Matrix {
	s := t.scale
	return matrix.Matrix{
		s, 0,
		0, -s,
		0.5*t.width - t.cx*s, 0.5*t.height + t.cy*s,
	}
}
