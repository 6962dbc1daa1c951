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


package style

import (
	"errors"
	"image"
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/raster"
)

// ErrGeometryType is returned by a symbolizer which cannot draw the given
// kind of geometry.
var ErrGeometryType = errors.New("style: symbolizer does not apply to geometry type")

// Symbolizer paints one geometry onto a canvas. The geometry is given in
// device pixels.
type Symbolizer interface {
	Render(g *geometry.Geometry, cv *raster.Canvas) error
}

// PolygonSymbolizer fills polygons.
type PolygonSymbolizer struct {
	Fill    raster.Color
	Opacity float64 // multiplies the alpha of Fill
	EvenOdd bool    // use the even-odd rule instead of non-zero winding
}

// NewPolygonSymbolizer returns an opaque non-zero fill with the given colour.
func NewPolygonSymbolizer(fill raster.Color) *PolygonSymbolizer {
	return &PolygonSymbolizer{Fill: fill, Opacity: 1}
}

// Render implements the [Symbolizer] interface.
// Only Polygon and MultiPolygon geometries can be filled.
func (s *PolygonSymbolizer) Render(g *geometry.Geometry, cv *raster.Canvas) error {
	if !g.Type().IsPolygonal() {
		return ErrGeometryType
	}
	var rings [][]vec.Vec2
	for _, poly := range g.Polygons() {
		rings = append(rings, poly...)
	}
	cv.Fill(rings, s.Fill.WithOpacity(s.Opacity), s.EvenOdd)
	return nil
}

// LineSymbolizer strokes line strings and the rings of polygons.
type LineSymbolizer struct {
	Stroke  raster.Color
	Opacity float64

	raster.StrokeStyle
}

// NewLineSymbolizer returns an opaque solid line with butt caps and miter
// joins.
func NewLineSymbolizer(stroke raster.Color, width float64) *LineSymbolizer {
	return &LineSymbolizer{
		Stroke:  stroke,
		Opacity: 1,
		StrokeStyle: raster.StrokeStyle{
			Width:      width,
			MiterLimit: 4,
		},
	}
}

// Render implements the [Symbolizer] interface.
func (s *LineSymbolizer) Render(g *geometry.Geometry, cv *raster.Canvas) error {
	col := s.Stroke.WithOpacity(s.Opacity)
	switch {
	case g.Type().IsLineal():
		cv.Stroke(g.Subpaths(), false, s.StrokeStyle, col)
	case g.Type().IsPolygonal():
		rings := g.Subpaths()
		for i, r := range rings {
			if n := len(r); n > 1 && r[0] == r[n-1] {
				rings[i] = r[:n-1]
			}
		}
		cv.Stroke(rings, true, s.StrokeStyle, col)
	default:
		return ErrGeometryType
	}
	return nil
}

// PointSymbolizer draws a marker centred on each point. Geometries other
// than points are marked at their anchor.
//
// If Image is set, it is drawn at its natural size. Otherwise a square of
// side Size is filled with Fill.
type PointSymbolizer struct {
	Image image.Image
	Size  float64
	Fill  raster.Color
}

// Render implements the [Symbolizer] interface.
func (s *PointSymbolizer) Render(g *geometry.Geometry, cv *raster.Canvas) error {
	var pts []vec.Vec2
	if g.Type().IsPuntal() {
		for _, sp := range g.Subpaths() {
			pts = append(pts, sp...)
		}
	} else if !g.IsEmpty() {
		pts = append(pts, g.Anchor())
	}

	for _, p := range pts {
		if s.Image != nil {
			cv.DrawImage(s.Image, p)
			continue
		}
		size := s.Size
		if size <= 0 {
			size = defaultMarkerSize
		}
		d := size / 2
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			continue
		}
		cv.FillRect(p.X-d, p.Y-d, p.X+d, p.Y+d, s.Fill)
	}
	return nil
}

const defaultMarkerSize = 4
