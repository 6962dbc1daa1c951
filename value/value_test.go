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

package value

import (
	"errors"
	"testing"
)

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b Value
		want int
	}{
		{Int(1), Int(2), -1},
		{Int(2), Real(2.0), 0},
		{Real(2.5), Int(2), 1},
		{Null(), Int(0), 0},
		{Null(), Real(-1), 1},
		{String("10"), Int(9), -1}, // "10" < "9" as strings
		{Int(100), String("100"), 0},
		{String("abc"), String("abd"), -1},
		{Null(), String(""), 0},
	}
	for _, tc := range cases {
		if got := Compare(tc.a, tc.b); got != tc.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tc.a.Quote(), tc.b.Quote(), got, tc.want)
		}
	}
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		name string
		op   func(a, b Value) (Value, error)
		a, b Value
		want Value
	}{
		{"int add", Add, Int(2), Int(3), Int(5)},
		{"mixed add", Add, Int(2), Real(0.5), Real(2.5)},
		{"int sub", Sub, Int(2), Int(3), Int(-1)},
		{"int mul", Mul, Int(4), Int(3), Int(12)},
		{"int div truncates", Div, Int(7), Int(2), Int(3)},
		{"negative int div truncates", Div, Int(-7), Int(2), Int(-3)},
		{"real div", Div, Real(7), Int(2), Real(3.5)},
		{"string concat", Add, String("a"), Int(1), String("a1")},
		{"string concat right", Mul, Real(1.5), String("x"), String("1.5x")},
		{"null acts as zero", Add, Null(), Int(4), Int(4)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.op(tc.a, tc.b)
			if err != nil {
				t.Fatal(err)
			}
			if got.Kind() != tc.want.Kind() || !got.Equal(tc.want) {
				t.Errorf("got %s (%s), want %s (%s)", got.Quote(), got.Kind(), tc.want.Quote(), tc.want.Kind())
			}
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, b := range []Value{Int(0), Real(0), Null()} {
		if _, err := Div(Int(1), b); !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("Div(1, %s): got %v, want ErrDivisionByZero", b.Quote(), err)
		}
	}
}

func TestConversions(t *testing.T) {
	if got := String(" 42 ").ToInt(); got != 42 {
		t.Errorf("ToInt = %d", got)
	}
	if got := String("x").ToReal(); got != 0 {
		t.Errorf("ToReal = %g", got)
	}
	if got := Real(1.25).String(); got != "1.25" {
		t.Errorf("String = %q", got)
	}
	if got := Null().String(); got != "" {
		t.Errorf("Null String = %q", got)
	}
	if got := String("it's").Quote(); got != `'it\'s'` {
		t.Errorf("Quote = %s", got)
	}
}
