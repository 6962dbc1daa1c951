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


// Package testcases holds declarative drawing scenes shared by the raster
// tests, the benchmarks and the export command.
//
// Each scene is a geometry together with an operation. Geometry is given
// in device pixels unless the scene sets an Extent, in which case the
// coordinates are map units and are projected onto the canvas with the
// same transform the map renderer uses.
package testcases

import (
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/raster"
	"seehuhn.de/go/carto/transform"
)

// TestCase defines a single rendering scene.
type TestCase struct {
	Name     string             // lowercase a-z, 0-9 and _ only
	Geometry *geometry.Geometry // the geometry to render
	Width    int                // canvas width in pixels
	Height   int                // canvas height in pixels
	Op       Operation          // fill or stroke

	// Extent, if valid, is the map window shown on the canvas.
	Extent geometry.Envelope
}

// Operation is the drawing operation applied to the geometry.
type Operation interface {
	isOperation()
}

// FillRule specifies the rule for determining interior points.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

func (r FillRule) String() string {
	if r == EvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

// Fill fills the rings of a polygonal geometry.
type Fill struct {
	Rule FillRule
}

func (Fill) isOperation() {}

// Stroke draws the outline of a geometry. Polygon rings are stroked as
// closed lines.
type Stroke struct {
	Width      float64                // line width in pixels
	Cap        graphics.LineCapStyle  // LineCapButt, LineCapRound, LineCapSquare
	Join       graphics.LineJoinStyle // LineJoinMiter, LineJoinRound, LineJoinBevel
	MiterLimit float64
	Dash       []float64 // dash pattern (nil for solid)
	DashPhase  float64
}

func (Stroke) isOperation() {}

// Style returns the stroke parameters in the form used by [raster.Canvas].
func (s Stroke) Style() raster.StrokeStyle {
	return raster.StrokeStyle{
		Width:      s.Width,
		Cap:        s.Cap,
		Join:       s.Join,
		MiterLimit: s.MiterLimit,
		Dash:       s.Dash,
		DashPhase:  s.DashPhase,
	}
}

// DeviceGeometry returns the geometry of tc in device pixels.
func (tc TestCase) DeviceGeometry() *geometry.Geometry {
	if !tc.Extent.IsValid() {
		return tc.Geometry
	}
	return transform.New(tc.Width, tc.Height, tc.Extent).ForwardGeometry(tc.Geometry)
}

// Render draws the scene in black onto a transparent image.
func (tc TestCase) Render() *raster.Image {
	img := raster.NewImage(tc.Width, tc.Height)
	tc.Draw(raster.NewCanvas(img), raster.Black)
	return img
}

// Draw draws the scene onto cv using the colour col.
func (tc TestCase) Draw(cv *raster.Canvas, col raster.Color) {
	g := tc.DeviceGeometry()
	switch op := tc.Op.(type) {
	case Fill:
		var rings [][]vec.Vec2
		for _, poly := range g.Polygons() {
			rings = append(rings, poly...)
		}
		cv.Fill(rings, col, op.Rule == EvenOdd)
	case Stroke:
		lines := g.Subpaths()
		closed := g.Type().IsPolygonal()
		if closed {
			for i, l := range lines {
				if n := len(l); n > 1 && l[0] == l[n-1] {
					lines[i] = l[:n-1]
				}
			}
		}
		cv.Stroke(lines, closed, op.Style(), col)
	}
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// rectRing returns the closed ring of an axis-parallel rectangle.
func rectRing(x1, y1, x2, y2 float64) []vec.Vec2 {
	return []vec.Vec2{pt(x1, y1), pt(x2, y1), pt(x2, y2), pt(x1, y2), pt(x1, y1)}
}
