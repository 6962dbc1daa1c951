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
	"math"
	"slices"

	"seehuhn.de/go/carto/datasource"
	"seehuhn.de/go/carto/feature"
	"seehuhn.de/go/carto/geometry"
)

// Layer draws the features of one data source.
type Layer struct {
	Name     string
	Title    string
	Abstract string

	Datasource datasource.Datasource

	// MinZoom and MaxZoom give the range [MinZoom, MaxZoom) of scale
	// denominators at which the layer is visible.
	MinZoom, MaxZoom float64

	Active     bool
	Selectable bool

	// SelectionStyle names the style used for the selected features.
	SelectionStyle string

	styles    []string
	selection []*feature.Feature
}

// NewLayer returns an active layer which is visible at all scales.
func NewLayer(name string, ds datasource.Datasource) *Layer {
	return &Layer{
		Name:       name,
		Datasource: ds,
		MaxZoom:    math.Inf(1),
		Active:     true,
	}
}

// AddStyle appends a style name. Styles are drawn in the order they
// were added.
func (l *Layer) AddStyle(name string) {
	l.styles = append(l.styles, name)
}

// Styles returns the style names of l.
func (l *Layer) Styles() []string {
	return slices.Clone(l.styles)
}

// IsVisible reports whether l is drawn at the given scale denominator.
func (l *Layer) IsVisible(scale float64) bool {
	return l.Active && l.MinZoom <= scale && scale < l.MaxZoom
}

// Envelope returns the extent of the layer's data, or the zero envelope if
// the layer has no data source.
func (l *Layer) Envelope() geometry.Envelope {
	if l.Datasource == nil {
		return geometry.Envelope{}
	}
	return l.Datasource.Envelope()
}

// AddToSelection marks features to be drawn with the selection style
// during the next render.
func (l *Layer) AddToSelection(fs ...*feature.Feature) {
	l.selection = append(l.selection, fs...)
}

// Selection returns the currently selected features.
func (l *Layer) Selection() []*feature.Feature {
	return slices.Clone(l.selection)
}

// ClearSelection empties the selection.
func (l *Layer) ClearSelection() {
	clear(l.selection)
	l.selection = l.selection[:0]
}

func (l *Layer) clone() *Layer {
	c := *l
	c.styles = slices.Clone(l.styles)
	c.selection = slices.Clone(l.selection)
	return &c
}
