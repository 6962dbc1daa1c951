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


package carto

import (
	"fmt"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/raster"
	"seehuhn.de/go/carto/transform"
)

// MaxSize is the largest supported width or height of a map, in pixels.
const MaxSize = 16384

// Map is the description of one rendered image: its size in pixels, the
// part of the world it shows and the layers drawn on it.
//
// The viewport always has the aspect ratio of the image. Operations which
// change the viewport widen it in one direction as needed.
type Map struct {
	width, height int
	srid          int
	extent        geometry.Envelope

	// Background is the color the image is cleared to before any layer
	// is drawn.
	Background raster.Color

	layers []*Layer
}

// NewMap returns an empty map with a transparent background.
// The srid identifies the spatial reference system of the map
// coordinates; carto does not interpret it.
func NewMap(width, height, srid int) *Map {
	return &Map{width: width, height: height, srid: srid}
}

// Width returns the width of the map in pixels.
func (m *Map) Width() int { return m.width }

// Height returns the height of the map in pixels.
func (m *Map) Height() int { return m.height }

// SRID returns the spatial reference id given to NewMap.
func (m *Map) SRID() int { return m.srid }

// Envelope returns the current viewport in map coordinates.
func (m *Map) Envelope() geometry.Envelope { return m.extent }

// AddLayer appends a layer. Layers are drawn in the order they were
// added.
func (m *Map) AddLayer(l *Layer) {
	m.layers = append(m.layers, l)
}

// Layers returns the layers of m. The layers are shared with m.
func (m *Map) Layers() []*Layer {
	return m.layers
}

// Layer returns the first layer with the given name.
func (m *Map) Layer(name string) (*Layer, bool) {
	for _, l := range m.layers {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// RemoveLayer removes the layer at index i.
func (m *Map) RemoveLayer(i int) {
	m.layers = append(m.layers[:i], m.layers[i+1:]...)
}

// Resize changes the image size. The viewport keeps its center and is
// widened to the new aspect ratio.
func (m *Map) Resize(width, height int) {
	m.width, m.height = width, height
	m.fixAspect()
}

// ZoomToBox sets the viewport to the smallest envelope with the image
// aspect ratio which contains box and has the same center.
func (m *Map) ZoomToBox(box geometry.Envelope) {
	m.extent = box
	m.fixAspect()
}

// Zoom scales the viewport by factor around its center. Factors greater
// than one zoom out.
func (m *Map) Zoom(factor float64) {
	m.extent.Scale(factor)
	m.fixAspect()
}

// Pan moves the viewport so that the device pixel (x, y) becomes the
// center of the image.
func (m *Map) Pan(x, y int) {
	c := m.Transform().Backward(vec.Vec2{X: float64(x), Y: float64(y)})
	m.extent.ReCenter(c.X, c.Y)
}

// PanAndZoom pans to the device pixel (x, y) and then zooms by factor.
func (m *Map) PanAndZoom(x, y int, factor float64) {
	m.Pan(x, y)
	m.Zoom(factor)
}

// ZoomAll sets the viewport to the union of the extents of all active
// layers.
func (m *Map) ZoomAll() error {
	var ext geometry.Envelope
	found := false
	for _, l := range m.layers {
		if !l.Active {
			continue
		}
		e := l.Envelope()
		if e == (geometry.Envelope{}) {
			continue
		}
		if !found {
			ext, found = e, true
		} else {
			ext.ExpandToIncludeEnvelope(e)
		}
	}
	if !found || (ext.Width() <= 0 && ext.Height() <= 0) {
		return fmt.Errorf("%w: no layer has an extent", ErrInvalidMap)
	}
	// a single point or a straight line still needs some area
	if ext.Width() <= 0 {
		ext.SetWidth(ext.Height())
	} else if ext.Height() <= 0 {
		ext.SetHeight(ext.Width())
	}
	m.ZoomToBox(ext)
	return nil
}

func (m *Map) fixAspect() {
	if m.width <= 0 || m.height <= 0 || m.extent.Width() <= 0 || m.extent.Height() <= 0 {
		return
	}
	ratio1 := float64(m.width) / float64(m.height)
	ratio2 := m.extent.Width() / m.extent.Height()
	if ratio2 > ratio1 {
		m.extent.SetHeight(m.extent.Width() / ratio1)
	} else if ratio2 < ratio1 {
		m.extent.SetWidth(m.extent.Height() * ratio1)
	}
}

// Transform returns the map to device transform for the current viewport.
func (m *Map) Transform() *transform.Transform {
	return transform.New(m.width, m.height, m.extent)
}

// Scale returns the current scale denominator, in map units per pixel.
// Layer and style visibility is decided by this value.
func (m *Map) Scale() float64 {
	if m.width <= 0 {
		return 0
	}
	return m.extent.Width() / float64(m.width)
}

// Validate checks that m can be rendered.
func (m *Map) Validate() error {
	if m.width < 1 || m.height < 1 || m.width > MaxSize || m.height > MaxSize {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidMap, m.width, m.height)
	}
	if !m.extent.IsValid() {
		return fmt.Errorf("%w: empty extent %v", ErrInvalidMap, m.extent)
	}
	for i, l := range m.layers {
		if l == nil {
			return fmt.Errorf("%w: layer %d is nil", ErrInvalidMap, i)
		}
		if l.Datasource == nil {
			return fmt.Errorf("%w: layer %q has no data source", ErrInvalidMap, l.Name)
		}
	}
	return nil
}

// Clone returns a copy of m. The layers are copied, their data sources
// are shared.
func (m *Map) Clone() *Map {
	c := *m
	c.layers = make([]*Layer, len(m.layers))
	for i, l := range m.layers {
		c.layers[i] = l.clone()
	}
	return &c
}
