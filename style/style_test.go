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
	"image/color"
	"math"
	"slices"
	"testing"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/carto/feature"
	"seehuhn.de/go/carto/filter"
	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/raster"
	"seehuhn.de/go/carto/value"
)

var (
	red  = raster.Color{R: 255, A: 255}
	blue = raster.Color{B: 255, A: 255}
)

func TestFind(t *testing.T) {
	a := NewPolygonSymbolizer(red)
	b := NewPolygonSymbolizer(blue)

	var s Style
	s.Add(a, 0, 10)
	s.Add(b, 10, 100)

	cases := []struct {
		scale float64
		want  Symbolizer
	}{
		{5, a},
		{50, b},
		{200, nil},
		{0, nil},  // open interval
		{10, nil}, // excluded from both ranges
		{99.9, b},
	}
	for _, tc := range cases {
		got, ok := s.Find(tc.scale)
		if ok != (tc.want != nil) || got != tc.want {
			t.Errorf("Find(%g) = %v, %t", tc.scale, got, ok)
		}
	}
}

func TestFindFirstWins(t *testing.T) {
	a := NewPolygonSymbolizer(red)
	b := NewPolygonSymbolizer(blue)

	var s Style
	s.Add(a, 0, 1000)
	s.Add(b, 0, 10)
	if got, _ := s.Find(5); got != a {
		t.Error("Find did not return the first active symbolizer")
	}
}

func TestRuleDefaults(t *testing.T) {
	r := NewRule(RuleConfig{Name: "all", MinScale: 100})
	if r.Filter().Category() != filter.CategoryNull {
		t.Errorf("default filter has category %v", r.Filter().Category())
	}
	if !math.IsInf(r.MaxScale(), 1) {
		t.Errorf("MaxScale = %g, want +Inf", r.MaxScale())
	}
	for _, tc := range []struct {
		scale float64
		want  bool
	}{
		{99, false},
		{100, true},
		{1e12, true},
	} {
		if got := r.Active(tc.scale); got != tc.want {
			t.Errorf("Active(%g) = %t", tc.scale, got)
		}
	}

	f := feature.New(1, geometry.NewPoint(0, 0), nil)
	if ok, err := r.Match(f); !ok || err != nil {
		t.Errorf("Match = %t, %v", ok, err)
	}
}

func TestRuleActiveHalfOpen(t *testing.T) {
	r := NewRule(RuleConfig{MinScale: 10, MaxScale: 20})
	if !r.Active(10) || r.Active(20) || !r.Active(19.99) || r.Active(9.99) {
		t.Error("scale range is not [10, 20)")
	}
}

func TestRuleMatch(t *testing.T) {
	schema := feature.NewSchema("pop", "name")
	f := feature.New(1, geometry.NewPoint(0, 0), schema)
	f.Set("pop", value.Int(100))
	f.Set("name", value.String("x"))

	r := NewRule(RuleConfig{Filter: filter.MustParse("[pop] is 100")})
	if ok, err := r.Match(f); !ok || err != nil {
		t.Errorf("Match = %t, %v", ok, err)
	}

	r = NewRule(RuleConfig{Filter: filter.MustParse("[name] is 100")})
	ok, err := r.Match(f)
	if ok || !errors.Is(err, filter.ErrTypeMismatch) {
		t.Errorf("Match = %t, %v", ok, err)
	}

	r = NewRule(RuleConfig{Filter: filter.MustParse("[missing] is 100")})
	if ok, _ := r.Match(f); ok {
		t.Error("absent attribute matched")
	}
}

func TestRuleIsImmutable(t *testing.T) {
	syms := []Symbolizer{NewPolygonSymbolizer(red)}
	r := NewRule(RuleConfig{Symbolizers: syms, Else: true})
	syms[0] = NewPolygonSymbolizer(blue)
	if r.Symbolizers()[0].(*PolygonSymbolizer).Fill != red {
		t.Error("rule shares the symbolizer slice with its config")
	}
	if !r.Else() {
		t.Error("else flag lost")
	}
}

func TestPropertyNamesAndBind(t *testing.T) {
	var s Style
	s.AddRule(NewRule(RuleConfig{Filter: filter.MustParse("[pop] > 10 and [kind] = 'a'")}))
	s.AddRule(NewRule(RuleConfig{Filter: filter.MustParse("[area] * 2 < [pop]")}))
	s.AddRule(NewRule(RuleConfig{}))

	want := []string{"area", "kind", "pop"}
	if got := s.PropertyNames(); !slices.Equal(got, want) {
		t.Errorf("PropertyNames = %v, want %v", got, want)
	}

	schema := feature.NewSchema(want...)
	bound := s.Bind(schema)
	if len(bound.Rules()) != 3 {
		t.Fatalf("%d rules after Bind", len(bound.Rules()))
	}

	f := feature.New(7, geometry.NewPoint(0, 0), schema)
	f.Set("pop", value.Int(50))
	f.Set("kind", value.String("a"))
	f.Set("area", value.Real(3))
	for i, r := range bound.Rules() {
		ok, err := r.Match(f)
		if !ok || err != nil {
			t.Errorf("rule %d: Match = %t, %v", i, ok, err)
		}
	}
}

func TestActiveRules(t *testing.T) {
	var s Style
	small := NewRule(RuleConfig{Name: "small", MaxScale: 1000})
	large := NewRule(RuleConfig{Name: "large", MinScale: 1000})
	s.AddRule(small)
	s.AddRule(large)

	if got := s.ActiveRules(500); len(got) != 1 || got[0] != small {
		t.Errorf("ActiveRules(500) = %v", got)
	}
	if got := s.ActiveRules(1000); len(got) != 1 || got[0] != large {
		t.Errorf("ActiveRules(1000) = %v", got)
	}
}

func square(x0, y0, x1, y1 float64) *geometry.Geometry {
	return geometry.NewPolygon([]vec.Vec2{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
	})
}

func TestPolygonSymbolizer(t *testing.T) {
	img := raster.NewImage(32, 32)
	cv := raster.NewCanvas(img)

	sym := NewPolygonSymbolizer(red)
	if err := sym.Render(square(8, 8, 24, 24), cv); err != nil {
		t.Fatal(err)
	}
	if got := img.Pixel(16, 16); got != red {
		t.Errorf("inside: %v", got)
	}
	if got := img.Pixel(4, 4); got != raster.Transparent {
		t.Errorf("outside: %v", got)
	}

	line := geometry.NewLineString([]vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 10}})
	if err := sym.Render(line, cv); !errors.Is(err, ErrGeometryType) {
		t.Errorf("line string: got %v", err)
	}
}

func TestPolygonSymbolizerOpacity(t *testing.T) {
	img := raster.NewImage(8, 8)
	sym := &PolygonSymbolizer{Fill: red, Opacity: 0.5}
	if err := sym.Render(square(0, 0, 8, 8), raster.NewCanvas(img)); err != nil {
		t.Fatal(err)
	}
	if a := img.Pixel(4, 4).A; a < 127 || a > 129 {
		t.Errorf("alpha = %d, want 128", a)
	}
}

func TestLineSymbolizer(t *testing.T) {
	img := raster.NewImage(32, 32)
	cv := raster.NewCanvas(img)

	sym := NewLineSymbolizer(blue, 4)
	sym.Join = graphics.LineJoinMiter
	if err := sym.Render(square(8, 8, 24, 24), cv); err != nil {
		t.Fatal(err)
	}
	// the outline of the ring is drawn, the interior is not
	if got := img.Pixel(16, 8); got != blue {
		t.Errorf("outline: %v", got)
	}
	if got := img.Pixel(7, 7); got != blue {
		t.Errorf("corner: %v", got)
	}
	if got := img.Pixel(16, 16); got.A != 0 {
		t.Errorf("interior: %v", got)
	}

	if err := sym.Render(geometry.NewPoint(3, 3), cv); !errors.Is(err, ErrGeometryType) {
		t.Errorf("point: got %v", err)
	}
}

func TestHairline(t *testing.T) {
	img := raster.NewImage(16, 16)
	sym := NewLineSymbolizer(red, 1)
	line := geometry.NewLineString([]vec.Vec2{{X: 2, Y: 5}, {X: 13, Y: 5}})
	if err := sym.Render(line, raster.NewCanvas(img)); err != nil {
		t.Fatal(err)
	}
	for x := 2; x <= 13; x++ {
		if got := img.Pixel(x, 5); got != red {
			t.Errorf("pixel %d: %v", x, got)
		}
	}
	if got := img.Pixel(8, 4); got.A != 0 {
		t.Errorf("hairline bleeds: %v", got)
	}
}

func TestPointSymbolizer(t *testing.T) {
	img := raster.NewImage(32, 32)
	cv := raster.NewCanvas(img)

	sym := &PointSymbolizer{Size: 4, Fill: red}
	pts := geometry.NewMultiPoint([]vec.Vec2{{X: 8, Y: 8}, {X: 24, Y: 24}})
	if err := sym.Render(pts, cv); err != nil {
		t.Fatal(err)
	}
	for _, p := range [][2]int{{6, 6}, {9, 9}, {22, 22}, {25, 25}} {
		if got := img.Pixel(p[0], p[1]); got != red {
			t.Errorf("pixel %v: %v", p, got)
		}
	}
	if got := img.Pixel(16, 16); got.A != 0 {
		t.Errorf("between markers: %v", got)
	}

	// an image marker is centred on the anchor of a polygon
	icon := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range 4 {
		icon.Set(i%2, i/2, color.RGBA{B: 255, A: 255})
	}
	img.Clear(raster.Transparent)
	sym = &PointSymbolizer{Image: icon}
	if err := sym.Render(square(10, 10, 20, 20), cv); err != nil {
		t.Fatal(err)
	}
	if got := img.Pixel(15, 15); got != blue {
		t.Errorf("icon: %v", got)
	}
	if got := img.Pixel(13, 13); got.A != 0 {
		t.Errorf("icon too large: %v", got)
	}
}
