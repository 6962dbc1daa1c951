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


package datasource

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/imageio"
)

// ErrNotFound is returned when a data source or driver name is not known.
var ErrNotFound = errors.New("datasource: not found")

// Params holds the configuration of one data source, as given in a map
// file.
type Params map[string]string

// Get returns the value of key, or def if the key is missing.
func (p Params) Get(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Env holds the services available to drivers.
type Env struct {
	Images *imageio.Factory
	Logger zerolog.Logger

	// Base is the directory relative file names are resolved against.
	Base string
}

func (env *Env) path(name string) string {
	if filepath.IsAbs(name) || env.Base == "" {
		return name
	}
	return filepath.Join(env.Base, name)
}

// Driver creates a data source from its parameters.
type Driver func(env *Env, p Params) (Datasource, error)

// Registry keeps named data sources and the drivers used to create them.
type Registry struct {
	env *Env

	mu      sync.RWMutex
	drivers map[string]Driver
	sources map[string]Datasource
}

// NewRegistry returns a registry with the built-in "wkb" and "raster"
// drivers.
func NewRegistry(env *Env) *Registry {
	if env.Images == nil {
		env.Images = imageio.NewFactory()
	}
	r := &Registry{
		env:     env,
		drivers: make(map[string]Driver),
		sources: make(map[string]Datasource),
	}
	r.RegisterDriver("wkb", openTable)
	r.RegisterDriver("raster", openRaster)
	return r
}

// RegisterDriver makes a driver available under the given type name.
func (r *Registry) RegisterDriver(typ string, d Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[typ] = d
}

// Drivers returns the sorted list of driver names.
func (r *Registry) Drivers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.drivers))
}

// Add stores a data source under the given name, replacing any previous
// source of that name.
func (r *Registry) Add(name string, ds Datasource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[name] = ds
}

// Open creates a data source with the driver named by the "type"
// parameter and stores it under name.
func (r *Registry) Open(name string, p Params) (Datasource, error) {
	typ := p.Get("type", "")
	r.mu.RLock()
	d, ok := r.drivers[typ]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: driver %q", ErrNotFound, typ)
	}

	ds, err := d(r.env, p)
	if err != nil {
		return nil, fmt.Errorf("datasource %q: %w", name, err)
	}
	r.Add(name, ds)
	r.env.Logger.Debug().Str("datasource", name).Str("driver", typ).Msg("opened")
	return ds, nil
}

// Get returns the data source stored under name.
func (r *Registry) Get(name string) (Datasource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ds, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return ds, nil
}

// Names returns the sorted names of all stored data sources.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.sources))
}

// openTable reads a CSV file with hex encoded WKB geometries.
//
// Parameters: file, geometry_type (default "polygon"), cache_size,
// pool_size.
func openTable(env *Env, p Params) (Datasource, error) {
	file := p.Get("file", "")
	if file == "" {
		return nil, errors.New("missing parameter \"file\"")
	}
	typ, err := ParseGeometryType(p.Get("geometry_type", "polygon"))
	if err != nil {
		return nil, err
	}
	cacheSize, err := strconv.Atoi(p.Get("cache_size", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid cache_size: %w", err)
	}

	load := func() (Datasource, error) {
		fd, err := os.Open(env.path(file))
		if err != nil {
			return nil, err
		}
		defer fd.Close()
		log := env.Logger.With().Str("file", file).Logger()
		return LoadCSV(fd, typ, cacheSize, log)
	}

	poolSize, err := strconv.Atoi(p.Get("pool_size", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid pool_size: %w", err)
	}
	if poolSize > 0 {
		return NewPooled(load, poolSize)
	}
	return load()
}

// openRaster serves an image file.
//
// Parameters: file, format (defaults to the file extension), extent as
// "minx,miny,maxx,maxy".
func openRaster(env *Env, p Params) (Datasource, error) {
	file := p.Get("file", "")
	if file == "" {
		return nil, errors.New("missing parameter \"file\"")
	}
	extent, err := ParseEnvelope(p.Get("extent", ""))
	if err != nil {
		return nil, err
	}
	img, err := env.Images.Open(env.path(file), p.Get("format", ""))
	if err != nil {
		return nil, err
	}
	return NewRasterSource(img, extent), nil
}

// ParseEnvelope parses an envelope written as "minx,miny,maxx,maxy".
// Whitespace around the numbers is ignored.
func ParseEnvelope(s string) (geometry.Envelope, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.Envelope{}, fmt.Errorf("invalid extent %q", s)
	}
	var v [4]float64
	for i, part := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return geometry.Envelope{}, fmt.Errorf("invalid extent %q", s)
		}
		v[i] = x
	}
	e := geometry.NewEnvelope(v[0], v[1], v[2], v[3])
	if !e.IsValid() {
		return geometry.Envelope{}, fmt.Errorf("empty extent %q", s)
	}
	return e, nil
}
