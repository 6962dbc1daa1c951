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

// Package value implements the scalar type used for feature attributes and
// for the results of filter expressions.
//
// A Value is one of Null, Int, Real or String. Null is the zero value; it
// behaves like the integer 0 in arithmetic and comparisons and like the
// empty string when converted to text.
package value

import (
	"errors"
	"strconv"
	"strings"
)

// Kind identifies the dynamic type of a Value.
type Kind uint8

// These are the possible kinds of a Value.
const (
	KindNull Kind = iota
	KindInt
	KindReal
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ErrDivisionByZero is returned by Div when the divisor is numerically zero.
var ErrDivisionByZero = errors.New("value: division by zero")

// Value is a tagged scalar. Values are immutable and may be copied freely.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Null returns the default value.
func Null() Value { return Value{} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Real returns a floating point value.
func Real(f float64) Value { return Value{kind: KindReal, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Kind returns the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the default value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumeric reports whether v takes part in numeric comparisons.
// Null counts as numeric.
func (v Value) IsNumeric() bool { return v.kind != KindString }

// ToInt returns v as an integer. Reals are truncated, strings are parsed
// and yield 0 if they do not hold a number.
func (v Value) ToInt() int64 {
	switch v.kind {
	case KindInt:
		return v.i
	case KindReal:
		return int64(v.f)
	case KindString:
		s := strings.TrimSpace(v.s)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f)
		}
	}
	return 0
}

// ToReal returns v as a float64, parsing strings where possible.
func (v Value) ToReal() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindReal:
		return v.f
	case KindString:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64); err == nil {
			return f
		}
	}
	return 0
}

// String returns the text representation of v. Null yields "".
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		return ""
	}
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Quote returns v in the notation of the filter language: strings are
// single-quoted, numbers are written as is.
func (v Value) Quote() string {
	switch v.kind {
	case KindString:
		return "'" + quoteReplacer.Replace(v.s) + "'"
	case KindNull:
		return "null"
	case KindReal:
		s := v.String()
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	}
	return v.String()
}
