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
	"context"
	"errors"
	"fmt"
	"image"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"seehuhn.de/go/carto/datasource"
	"seehuhn.de/go/carto/feature"
	"seehuhn.de/go/carto/filter"
	"seehuhn.de/go/carto/raster"
	"seehuhn.de/go/carto/style"
	"seehuhn.de/go/carto/transform"
	"seehuhn.de/go/carto/value"
)

// Renderer draws maps using the registries of a [Context].
// A Renderer may be used by several goroutines, but each [Map] must
// only be rendered by one goroutine at a time.
type Renderer struct {
	c *Context
}

// NewRenderer returns a renderer which uses c.
func NewRenderer(c *Context) *Renderer {
	return &Renderer{c: c}
}

// Render draws m into a new image, cleared to the map background.
func (r *Renderer) Render(ctx context.Context, m *Map) (*raster.Image, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	img := raster.NewImage(m.width, m.height)
	img.SetGamma(r.c.Gamma)
	img.Clear(m.Background)
	if err := r.RenderTo(ctx, m, img); err != nil {
		return nil, err
	}
	return img, nil
}

// layerPlan holds the resolved styles of one layer.
type layerPlan struct {
	layer     *Layer
	styles    []*style.Style
	selection *style.Style
	names     []string
}

// RenderTo draws the layers of m on top of the existing contents of img,
// which must have the size of m.
//
// Configuration errors, such as an invalid map or a missing style, are
// reported before anything is drawn. Errors of individual features are
// logged and the feature is skipped. The selections of all drawn layers
// are cleared.
func (r *Renderer) RenderTo(ctx context.Context, m *Map, img *raster.Image) error {
	start := time.Now()
	if err := m.Validate(); err != nil {
		return err
	}
	if img.Width != m.width || img.Height != m.height {
		return fmt.Errorf("%w: image is %dx%d, map is %dx%d",
			ErrInvalidMap, img.Width, img.Height, m.width, m.height)
	}

	tr := m.Transform()
	scale := 1 / tr.Scale()

	var plans []*layerPlan
	for _, l := range m.layers {
		if !l.IsVisible(scale) {
			continue
		}
		p, err := r.plan(l)
		if err != nil {
			return err
		}
		plans = append(plans, p)
	}

	// Selections are consumed by this render, even when it stops early.
	defer func() {
		for _, p := range plans {
			if p.layer.Selectable {
				p.layer.ClearSelection()
			}
		}
	}()

	cv := raster.NewCanvas(img)
	for _, p := range plans {
		if err := r.renderLayer(ctx, p, tr, scale, cv); err != nil {
			return err
		}
	}

	if r.c.Metrics != nil {
		r.c.Metrics.ObserveRender(time.Since(start).Seconds())
	}
	return nil
}

func (r *Renderer) plan(l *Layer) (*layerPlan, error) {
	p := &layerPlan{layer: l}
	names := make(map[string]struct{})
	for _, name := range l.styles {
		s, err := r.c.Style(name)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", l.Name, err)
		}
		p.styles = append(p.styles, s)
		for _, n := range s.PropertyNames() {
			names[n] = struct{}{}
		}
	}
	if l.Selectable && l.SelectionStyle != "" {
		s, err := r.c.Style(l.SelectionStyle)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", l.Name, err)
		}
		p.selection = s
	}
	p.names = slices.Sorted(maps.Keys(names))
	if p.names == nil {
		p.names = []string{}
	}
	return p, nil
}

func (r *Renderer) renderLayer(ctx context.Context, p *layerPlan, tr *transform.Transform, scale float64, cv *raster.Canvas) error {
	l := p.layer
	log := r.c.Logger.With().Str("layer", l.Name).Logger()

	q := datasource.Query{
		Envelope:   tr.Extent(),
		Properties: p.names,
	}
	fs, err := l.Datasource.Features(ctx, q)
	if err != nil {
		return fmt.Errorf("layer %q: %w", l.Name, err)
	}

	var boundFor *feature.Schema
	var bound []*style.Style
	count := 0
	for f := fs.Next(); f != nil; f = fs.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.IsRaster() {
			r.composite(f.Raster(), tr, cv.Image)
			count++
			continue
		}
		if boundFor == nil || f.Schema() != boundFor {
			boundFor = f.Schema()
			bound = bound[:0]
			for _, s := range p.styles {
				bound = append(bound, s.Bind(boundFor))
			}
		}
		if r.drawFeature(f, bound, tr, scale, cv, &log) {
			count++
		}
	}

	if p.selection != nil {
		sel := []*style.Style{p.selection}
		for _, f := range l.selection {
			if f.IsRaster() {
				continue
			}
			if r.drawFeature(f, sel, tr, scale, cv, &log) {
				count++
			}
		}
	}
	if r.c.Metrics != nil {
		r.c.Metrics.AddFeatures(l.Name, count)
	}
	return nil
}

// drawFeature draws one vector feature with the given styles and reports
// whether anything was drawn.
func (r *Renderer) drawFeature(f *feature.Feature, styles []*style.Style, tr *transform.Transform, scale float64, cv *raster.Canvas, log *zerolog.Logger) bool {
	g := f.Geometry()
	if g == nil || g.IsEmpty() {
		r.featureError(log, f, "empty_geometry", errors.New("feature has no geometry"))
		return false
	}
	dev := tr.ForwardGeometry(g)

	drawn := false
	draw := func(sym style.Symbolizer) {
		err := sym.Render(dev, cv)
		switch {
		case err == nil:
			drawn = true
		case errors.Is(err, style.ErrGeometryType):
			log.Debug().Err(err).Int64("feature", f.ID()).Str("geometry", g.Type().String()).Msg("symbolizer skipped")
		default:
			r.featureError(log, f, "symbolizer", err)
		}
	}

	for _, s := range styles {
		if sym, ok := s.Find(scale); ok {
			draw(sym)
		}
		for _, rule := range s.ActiveRules(scale) {
			ok, err := rule.Match(f)
			if err != nil {
				r.featureError(log, f, errorKind(err), err)
			}
			if !ok {
				continue
			}
			for _, sym := range rule.Symbolizers() {
				draw(sym)
			}
		}
	}
	return drawn
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, filter.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, value.ErrDivisionByZero):
		return "division_by_zero"
	default:
		return "filter"
	}
}

func (r *Renderer) featureError(log *zerolog.Logger, f *feature.Feature, kind string, err error) {
	log.Debug().Err(err).Int64("feature", f.ID()).Str("kind", kind).Msg("feature error")
	if r.c.Metrics != nil {
		r.c.Metrics.IncFeatureError(kind)
	}
}

// composite draws a raster tile at the device rectangle of its extent.
func (r *Renderer) composite(t *feature.Raster, tr *transform.Transform, img *raster.Image) {
	if t == nil || t.Image == nil {
		return
	}
	e := tr.ForwardEnvelope(t.Extent)
	dst := image.Rect(
		int(math.Round(e.MinX)), int(math.Round(e.MinY)),
		int(math.Round(e.MaxX)), int(math.Round(e.MaxY)),
	)
	img.Composite(t.Image, dst)
}
