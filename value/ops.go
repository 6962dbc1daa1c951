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
	"cmp"
	"strings"
)

// Compare orders a and b. If both values are numeric (Int, Real or Null)
// they are compared as numbers; Int against Int stays exact. As soon as
// one side is a String, both sides are compared by their string
// representation.
func Compare(a, b Value) int {
	if a.IsNumeric() && b.IsNumeric() {
		if a.kind != KindReal && b.kind != KindReal {
			return cmp.Compare(a.i, b.i)
		}
		return cmp.Compare(a.ToReal(), b.ToReal())
	}
	return strings.Compare(a.String(), b.String())
}

// Equal reports whether Compare(a, b) == 0.
func (v Value) Equal(other Value) bool {
	return Compare(v, other) == 0
}

// Less reports whether v orders before other.
func (v Value) Less(other Value) bool {
	return Compare(v, other) < 0
}

// Add returns a+b. If either operand is a String, the string
// representations are concatenated.
func Add(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return String(a.String() + b.String()), nil
	}
	if isInt(a) && isInt(b) {
		return Int(a.i + b.i), nil
	}
	return Real(a.ToReal() + b.ToReal()), nil
}

// Sub returns a-b. String operands concatenate, as for Add.
func Sub(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return String(a.String() + b.String()), nil
	}
	if isInt(a) && isInt(b) {
		return Int(a.i - b.i), nil
	}
	return Real(a.ToReal() - b.ToReal()), nil
}

// Mul returns a*b. String operands concatenate, as for Add.
func Mul(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return String(a.String() + b.String()), nil
	}
	if isInt(a) && isInt(b) {
		return Int(a.i * b.i), nil
	}
	return Real(a.ToReal() * b.ToReal()), nil
}

// Div returns a/b. Integer division truncates toward zero. A numeric zero
// divisor gives ErrDivisionByZero for both integer and real operands.
// String operands concatenate, as for Add.
func Div(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return String(a.String() + b.String()), nil
	}
	if isInt(a) && isInt(b) {
		if b.i == 0 {
			return Value{}, ErrDivisionByZero
		}
		return Int(a.i / b.i), nil
	}
	d := b.ToReal()
	if d == 0 {
		return Value{}, ErrDivisionByZero
	}
	return Real(a.ToReal() / d), nil
}

// isInt reports whether v uses integer arithmetic. Null acts as integer 0.
func isInt(v Value) bool {
	return v.kind == KindInt || v.kind == KindNull
}
