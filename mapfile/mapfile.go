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


// Package mapfile reads map definitions from XML files.
//
// A map file has a Map root element with width, height, srid,
// background-color and extent attributes. It contains Style elements,
// which hold scale-tagged symbolizers and rules, and Layer elements,
// which name their styles and describe their data source:
//
//	<Map width="256" height="256" background-color="white" extent="0,0,100,100">
//	  <Style name="areas">
//	    <Rule>
//	      <Filter>[kind] = 'park'</Filter>
//	      <PolygonSymbolizer fill="#00ff00"/>
//	    </Rule>
//	  </Style>
//	  <Layer name="areas">
//	    <StyleName>areas</StyleName>
//	    <Datasource>
//	      <Parameter name="type">wkb</Parameter>
//	      <Parameter name="file">areas.csv</Parameter>
//	    </Datasource>
//	  </Layer>
//	</Map>
//
// Filters use the syntax of [filter.Parse].
package mapfile

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/carto"
	"seehuhn.de/go/carto/datasource"
	"seehuhn.de/go/carto/filter"
	"seehuhn.de/go/carto/imageio"
	"seehuhn.de/go/carto/raster"
	"seehuhn.de/go/carto/style"
)

// ErrInvalid is returned for map files which are well-formed XML but do
// not describe a valid map.
var ErrInvalid = errors.New("mapfile: invalid map definition")

// LoadFile reads the named map file. Relative file names inside the map
// file are resolved against the directory containing it.
func LoadFile(name string, c *carto.Context) (*carto.Map, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return Load(fd, c, filepath.Dir(name))
}

// Load reads a map definition from r. The styles are registered in c and
// the data sources are opened through c.Datasources. Relative file names
// are resolved against base.
func Load(r io.Reader, c *carto.Context, base string) (*carto.Map, error) {
	var mx mapXML
	if err := xml.NewDecoder(r).Decode(&mx); err != nil {
		return nil, fmt.Errorf("mapfile: %w", err)
	}
	ld := &loader{c: c, base: base}
	return ld.load(&mx)
}

type loader struct {
	c    *carto.Context
	base string
}

func (ld *loader) path(name string) string {
	if name == "" || filepath.IsAbs(name) || ld.base == "" {
		return name
	}
	return filepath.Join(ld.base, name)
}

func (ld *loader) load(mx *mapXML) (*carto.Map, error) {
	m := carto.NewMap(mx.Width, mx.Height, mx.SRID)
	if mx.Background != "" {
		col, err := raster.ParseColor(mx.Background)
		if err != nil {
			return nil, fmt.Errorf("%w: background-color: %w", ErrInvalid, err)
		}
		m.Background = col
	}

	for i := range mx.Styles {
		sx := &mx.Styles[i]
		if sx.Name == "" {
			return nil, fmt.Errorf("%w: style %d has no name", ErrInvalid, i+1)
		}
		s, err := ld.style(sx)
		if err != nil {
			return nil, fmt.Errorf("%w: style %q: %w", ErrInvalid, sx.Name, err)
		}
		ld.c.AddStyle(sx.Name, s)
	}

	for i := range mx.Layers {
		lx := &mx.Layers[i]
		l, err := ld.layer(lx)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %q: %w", ErrInvalid, lx.Name, err)
		}
		m.AddLayer(l)
	}

	if mx.Extent != "" {
		ext, err := datasource.ParseEnvelope(mx.Extent)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		m.ZoomToBox(ext)
	} else if err := m.ZoomAll(); err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (ld *loader) style(sx *styleXML) (*style.Style, error) {
	s := &style.Style{}
	for _, sc := range sx.Symbolizers {
		if len(sc.Items) != 1 {
			return nil, fmt.Errorf("Symbolizer must contain exactly one element, found %d", len(sc.Items))
		}
		lo, err := parseScale(sc.MinScale, 0)
		if err != nil {
			return nil, err
		}
		hi, err := parseScale(sc.MaxScale, math.Inf(1))
		if err != nil {
			return nil, err
		}
		sym, err := ld.symbolizer(&sc.Items[0])
		if err != nil {
			return nil, err
		}
		s.Add(sym, lo, hi)
	}

	for i := range sx.Rules {
		rx := &sx.Rules[i]
		r, err := ld.rule(rx)
		if err != nil {
			name := rx.Name
			if name == "" {
				name = strconv.Itoa(i + 1)
			}
			return nil, fmt.Errorf("rule %s: %w", name, err)
		}
		s.AddRule(r)
	}
	return s, nil
}

func (ld *loader) rule(rx *ruleXML) (*style.Rule, error) {
	fl, err := filter.Parse(rx.Filter)
	if err != nil {
		return nil, err
	}
	lo, err := parseScale(rx.MinScale, 0)
	if err != nil {
		return nil, err
	}
	hi, err := parseScale(rx.MaxScale, 0)
	if err != nil {
		return nil, err
	}
	cfg := style.RuleConfig{
		Name:     rx.Name,
		Title:    strings.TrimSpace(rx.Title),
		Abstract: strings.TrimSpace(rx.Abstract),
		MinScale: lo,
		MaxScale: hi,
		Filter:   fl,
		Else:     rx.Else != nil,
	}
	for i := range rx.Symbolizers {
		sym, err := ld.symbolizer(&rx.Symbolizers[i])
		if err != nil {
			return nil, err
		}
		cfg.Symbolizers = append(cfg.Symbolizers, sym)
	}
	return style.NewRule(cfg), nil
}

func parseScale(s string, def float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil || x < 0 || math.IsNaN(x) {
		return 0, fmt.Errorf("invalid scale denominator %q", s)
	}
	return x, nil
}

func (ld *loader) symbolizer(el *elementXML) (style.Symbolizer, error) {
	a := attrs{el: el}
	var sym style.Symbolizer
	switch el.XMLName.Local {
	case "PolygonSymbolizer":
		sym = &style.PolygonSymbolizer{
			Fill:    a.color("fill", raster.Color{R: 128, G: 128, B: 128, A: 255}),
			Opacity: a.float("fill-opacity", 1),
			EvenOdd: a.choice("fill-rule", fillRules, 0) == 1,
		}

	case "LineSymbolizer":
		sym = &style.LineSymbolizer{
			Stroke:  a.color("stroke", raster.Black),
			Opacity: a.float("stroke-opacity", 1),
			StrokeStyle: raster.StrokeStyle{
				Width:      a.float("stroke-width", 1),
				Cap:        graphics.LineCapStyle(a.choice("stroke-linecap", lineCaps, int(graphics.LineCapButt))),
				Join:       graphics.LineJoinStyle(a.choice("stroke-linejoin", lineJoins, int(graphics.LineJoinMiter))),
				MiterLimit: a.float("stroke-miterlimit", 4),
				Dash:       a.floats("stroke-dasharray"),
				DashPhase:  a.float("stroke-dashoffset", 0),
			},
		}

	case "PointSymbolizer":
		ps := &style.PointSymbolizer{
			Size: a.float("size", 0),
			Fill: a.color("fill", raster.Black),
		}
		if file, ok := el.attr("file"); ok && a.err == nil {
			typ, _ := el.attr("type")
			rd, err := ld.c.Images.Open(ld.path(file), typ)
			if err != nil {
				return nil, err
			}
			img, err := imageio.ReadAll(rd)
			if err != nil {
				return nil, err
			}
			ps.Image = img
		}
		sym = ps

	default:
		return nil, fmt.Errorf("unsupported symbolizer %s", el.XMLName.Local)
	}

	if a.err != nil {
		return nil, fmt.Errorf("%s: %w", el.XMLName.Local, a.err)
	}
	return sym, nil
}

var (
	fillRules = map[string]int{
		"nonzero": 0,
		"evenodd": 1,
	}
	lineCaps = map[string]int{
		"butt":   int(graphics.LineCapButt),
		"round":  int(graphics.LineCapRound),
		"square": int(graphics.LineCapSquare),
	}
	lineJoins = map[string]int{
		"miter": int(graphics.LineJoinMiter),
		"round": int(graphics.LineJoinRound),
		"bevel": int(graphics.LineJoinBevel),
	}
)

// attrs reads typed attribute values. The first error is kept and later
// reads return their defaults.
type attrs struct {
	el  *elementXML
	err error
}

func (a *attrs) get(name string) (string, bool) {
	if a.err != nil {
		return "", false
	}
	v, ok := a.el.attr(name)
	return strings.TrimSpace(v), ok
}

func (a *attrs) fail(name, v string) {
	a.err = fmt.Errorf("invalid %s %q", name, v)
}

func (a *attrs) color(name string, def raster.Color) raster.Color {
	v, ok := a.get(name)
	if !ok {
		return def
	}
	c, err := raster.ParseColor(v)
	if err != nil {
		a.fail(name, v)
		return def
	}
	return c
}

func (a *attrs) float(name string, def float64) float64 {
	v, ok := a.get(name)
	if !ok {
		return def
	}
	x, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		a.fail(name, v)
		return def
	}
	return x
}

func (a *attrs) floats(name string) []float64 {
	v, ok := a.get(name)
	if !ok || v == "" || v == "none" {
		return nil
	}
	var res []float64
	for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
		x, err := strconv.ParseFloat(part, 64)
		if err != nil || x < 0 {
			a.fail(name, v)
			return nil
		}
		res = append(res, x)
	}
	return res
}

// choice maps a keyword attribute to a number.
func (a *attrs) choice(name string, options map[string]int, def int) int {
	v, ok := a.get(name)
	if !ok {
		return def
	}
	if x, ok := options[strings.ToLower(v)]; ok {
		return x
	}
	a.fail(name, v)
	return def
}

func (ld *loader) layer(lx *layerXML) (*carto.Layer, error) {
	if lx.Name == "" {
		return nil, errors.New("missing name")
	}
	if lx.Datasource == nil {
		return nil, errors.New("missing Datasource")
	}
	ds, err := ld.datasource(lx.Name, lx.Datasource)
	if err != nil {
		return nil, err
	}

	l := carto.NewLayer(lx.Name, ds)
	l.Title = strings.TrimSpace(lx.Title)
	l.Abstract = strings.TrimSpace(lx.Abstract)
	switch strings.ToLower(lx.Status) {
	case "", "on":
	case "off":
		l.Active = false
	default:
		return nil, fmt.Errorf("invalid status %q", lx.Status)
	}
	if l.MinZoom, err = parseScale(lx.MinZoom, 0); err != nil {
		return nil, err
	}
	if l.MaxZoom, err = parseScale(lx.MaxZoom, math.Inf(1)); err != nil {
		return nil, err
	}
	l.Selectable = lx.Selectable
	l.SelectionStyle = lx.SelectionStyle
	for _, name := range lx.StyleNames {
		l.AddStyle(strings.TrimSpace(name))
	}
	return l, nil
}

func (ld *loader) datasource(layer string, dx *datasourceXML) (datasource.Datasource, error) {
	if dx.Name != "" {
		return ld.c.Datasources.Get(dx.Name)
	}
	p := make(datasource.Params, len(dx.Parameters))
	for _, px := range dx.Parameters {
		p[px.Name] = strings.TrimSpace(px.Value)
	}
	if file, ok := p["file"]; ok {
		p["file"] = ld.path(file)
	}
	return ld.c.Datasources.Open(layer, p)
}
