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


// Package carto renders maps.
//
// A [Map] is an ordered list of layers over a viewport. Each [Layer] draws
// the features of one data source with one or more named styles. Styles,
// data sources and image decoders are looked up through a [Context], which
// can be shared by concurrent renders. A [Renderer] walks the layers of a
// map and draws them into a [raster.Image].
package carto

//go:generate go run ./testcases/export

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"seehuhn.de/go/carto/datasource"
	"seehuhn.de/go/carto/imageio"
	"seehuhn.de/go/carto/raster"
	"seehuhn.de/go/carto/style"
)

var (
	// ErrInvalidMap is returned when a map cannot be rendered,
	// for example because it has no valid extent.
	ErrInvalidMap = errors.New("carto: invalid map")

	// ErrStyleNotFound is returned when a layer refers to a style which
	// is not registered in the [Context].
	ErrStyleNotFound = errors.New("carto: style not found")
)

// Recorder receives render statistics.
type Recorder interface {
	ObserveRender(seconds float64)
	AddFeatures(layer string, n int)
	IncFeatureError(kind string)
}

// Context holds the registries shared between renders. After setup, a
// Context is safe for concurrent use.
type Context struct {
	Datasources *datasource.Registry
	Images      *imageio.Factory
	Gamma       *raster.Gamma
	Logger      zerolog.Logger

	// Metrics may be nil.
	Metrics Recorder

	mu     sync.RWMutex
	styles map[string]*style.Style
}

// NewContext returns a context with the default image decoders, the
// default gamma of 2.2 and a logger which discards all output.
func NewContext() *Context {
	images := imageio.NewFactory()
	log := zerolog.Nop()
	return &Context{
		Datasources: datasource.NewRegistry(&datasource.Env{Images: images, Logger: log}),
		Images:      images,
		Gamma:       raster.DefaultGamma(),
		Logger:      log,
		styles:      make(map[string]*style.Style),
	}
}

// AddStyle registers a style under the given name, replacing any previous
// style of that name.
func (c *Context) AddStyle(name string, s *style.Style) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.styles[name] = s
}

// Style returns the style registered under name.
func (c *Context) Style(name string) (*style.Style, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.styles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return s, nil
}

// StyleNames returns the sorted names of all registered styles.
func (c *Context) StyleNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.styles))
}
