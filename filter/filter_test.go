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

package filter

import (
	"errors"
	"slices"
	"testing"

	"seehuhn.de/go/carto/feature"
	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/value"
)

func testFeature() *feature.Feature {
	schema := feature.NewSchema("name", "pop", "area", "kind")
	f := feature.New(1, geometry.NewPoint(5, 5), schema)
	f.Set("name", value.String("Springfield"))
	f.Set("pop", value.Int(30000))
	f.Set("area", value.Real(12.5))
	f.Set("kind", value.String("town"))
	return f
}

func TestEvaluate(t *testing.T) {
	f := testFeature()
	cases := []struct {
		expr Expression
		want value.Value
	}{
		{Literal{value.Int(3)}, value.Int(3)},
		{Prop("pop"), value.Int(30000)},
		{Prop("missing"), value.Null()},
		{Binary{Div, Prop("pop"), Literal{value.Int(7)}}, value.Int(4285)},
		{Binary{Mul, Prop("area"), Literal{value.Int(2)}}, value.Real(25)},
		{Binary{Add, Prop("name"), Literal{value.String("!")}}, value.String("Springfield!")},
	}
	for _, tc := range cases {
		got, err := Evaluate(tc.expr, f)
		if err != nil {
			t.Errorf("%s: %v", tc.expr, err)
			continue
		}
		if !got.Equal(tc.want) || got.Kind() != tc.want.Kind() {
			t.Errorf("%s = %s, want %s", tc.expr, got.Quote(), tc.want.Quote())
		}
	}

	_, err := Evaluate(Binary{Div, Prop("pop"), Literal{value.Int(0)}}, f)
	if !errors.Is(err, value.ErrDivisionByZero) {
		t.Errorf("division by zero: got %v", err)
	}
}

func TestCheck(t *testing.T) {
	f := testFeature()
	cases := []struct {
		text string
		want bool
	}{
		{"", true},
		{"[pop] > 1000", true},
		{"[pop] >= 30000 and [kind] = 'town'", true},
		{"[pop] < 1000 or [kind] <> 'town'", false},
		{"not [kind] = 'city'", true},
		{"([pop] + 1000) / 2 = 15500", true},
		{"[missing] = 0", true},
		{"[missing] = ''", true},
		{"[name] = 'Springfield' and ([area] > 10 or [pop] < 5)", true},
		{"[area] between 10.0 and 20.0", true},
		{"[kind] is 'town'", true},
		{"[pop] is > 40000", false},
		{"bbox(0, 0, 10, 10)", true},
		{"bbox(6, 6, 10, 10)", false},
		{"within(0, 0, 10, 10)", false},
	}
	for _, tc := range cases {
		fl, err := Parse(tc.text)
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.text, err)
			continue
		}
		got, err := Check(fl, f)
		if err != nil {
			t.Errorf("%q: %v", tc.text, err)
		}
		if got != tc.want {
			t.Errorf("%q = %t, want %t", tc.text, got, tc.want)
		}
	}
}

func TestPropertyIsTypeMismatch(t *testing.T) {
	f := testFeature()
	fl := PropertyIs{Op: IsEqual, Property: Prop("pop"), Literal: value.Real(30000)}
	ok, err := Check(fl, f)
	if ok || !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("got %t, %v", ok, err)
	}
	if Pass(fl, f) {
		t.Error("Pass returned true on a type mismatch")
	}

	// the mismatch of one branch does not hide the other branch
	or := Or{Left: fl, Right: MustParse("[pop] = 30000")}
	ok, err = Check(or, f)
	if !ok || !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("or: got %t, %v", ok, err)
	}
}

func TestCategory(t *testing.T) {
	cases := []struct {
		fl   Filter
		want Category
	}{
		{Null{}, CategoryNull},
		{MustParse("[a] = 1"), CategoryComparison},
		{MustParse("[a] is 1"), CategoryComparison},
		{MustParse("[a] = 1 and [b] = 2"), CategoryLogical},
		{MustParse("not [a] = 1"), CategoryLogical},
		{MustParse("bbox(0,0,1,1)"), CategorySpatial},
	}
	for _, tc := range cases {
		if got := tc.fl.Category(); got != tc.want {
			t.Errorf("%s: category %s, want %s", tc.fl, got, tc.want)
		}
	}
}

func TestPropertyNamesAndBind(t *testing.T) {
	fl := MustParse("[pop] > 10 and ([name] = 'x' or [pop] + [area] < 3) and [zz] is 1")
	names := PropertyNames(fl)
	want := []string{"area", "name", "pop", "zz"}
	if !slices.Equal(names, want) {
		t.Fatalf("PropertyNames = %v, want %v", names, want)
	}

	f := testFeature()
	bound := Bind(fl, f.Schema())

	var indices []int
	var walk func(Filter)
	walkExpr := func(e Expression) {
		if p, ok := e.(Property); ok {
			indices = append(indices, p.Index())
		}
	}
	walk = func(fl Filter) {
		switch fl := fl.(type) {
		case And:
			walk(fl.Left)
			walk(fl.Right)
		case Or:
			walk(fl.Left)
			walk(fl.Right)
		case Compare:
			walkExpr(fl.Left)
			if b, ok := fl.Left.(Binary); ok {
				walkExpr(b.Left)
				walkExpr(b.Right)
			}
		case PropertyIs:
			indices = append(indices, fl.Property.Index())
		}
	}
	walk(bound)
	wantIdx := []int{1, 0, 1, 2, -1}
	if !slices.Equal(indices, wantIdx) {
		t.Errorf("bound indices = %v, want %v", indices, wantIdx)
	}

	// Binding does not modify the original filter.
	indices = nil
	walk(fl)
	for _, i := range indices {
		if i != -1 {
			t.Errorf("original filter was bound: %v", indices)
			break
		}
	}

	// Bound and unbound filters agree.
	for _, g := range []*feature.Feature{f, feature.New(2, nil, feature.NewSchema("pop"))} {
		a, _ := Check(fl, g)
		b, _ := Check(bound, g)
		if a != b {
			t.Errorf("feature %d: bound %t, unbound %t", g.ID(), b, a)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := MustParse("[a] + 1 > 2 or not [b] = 'x'")
	c := Clone(orig)
	if c.String() != orig.String() {
		t.Errorf("clone %s differs from %s", c, orig)
	}
	or := c.(Or)
	or.Left = Null{}
	if orig.(Or).Left.Category() != CategoryComparison {
		t.Error("modifying the clone changed the original")
	}
}

func TestParseRoundTrip(t *testing.T) {
	texts := []string{
		"[a] = 1",
		"([a] + 2) * [b] >= 3.5",
		"not ([x] = 'it\\'s' or [y] != null)",
		"[p] between 1 and 10",
		"[p] is < 'm'",
		"bbox(-1.5, 0, 2, 3e3)",
	}
	for _, text := range texts {
		fl, err := Parse(text)
		if err != nil {
			t.Errorf("Parse(%q): %v", text, err)
			continue
		}
		again, err := Parse(fl.String())
		if err != nil {
			t.Errorf("reparsing %q: %v", fl.String(), err)
			continue
		}
		if again.String() != fl.String() {
			t.Errorf("round trip: %q became %q", fl.String(), again.String())
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, text := range []string{
		"[a] =",
		"[a",
		"'abc",
		"[a] = 1 and",
		"bbox(1, 2, 3)",
		"[a] # 2",
		"([a] = 1",
		"[a] between 1 or 2",
	} {
		if _, err := Parse(text); !errors.Is(err, ErrSyntax) {
			t.Errorf("Parse(%q): got %v, want ErrSyntax", text, err)
		}
	}
}
