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

// Package filter implements the expression and filter language used by
// style rules.
//
// Expressions compute a [value.Value] from the attributes of a feature.
// Filters are predicates over features. Both are closed sets of node types;
// every operation on them is a type switch over all node kinds.
//
// Filters are used in two phases. Before a query, [PropertyNames] collects
// the attributes a filter needs and [Bind] resolves the property references
// against the schema of the query result. Afterwards [Check] is called once
// per feature.
package filter

import (
	"fmt"

	"seehuhn.de/go/carto/feature"
	"seehuhn.de/go/carto/value"
)

// Expression is one of [Literal], [Property] or [Binary].
type Expression interface {
	fmt.Stringer
	isExpression()
}

// Literal is a constant expression.
type Literal struct {
	Value value.Value
}

// Property refers to a feature attribute by name.
//
// A Property returned by [Bind] also carries the position of the attribute
// in a schema. This is used whenever the feature shares that schema.
type Property struct {
	Name string

	schema *feature.Schema
	index  int
}

// Prop returns an unbound property reference.
func Prop(name string) Property {
	return Property{Name: name, index: -1}
}

// Index returns the bound schema position, or -1 for an unbound property.
func (p Property) Index() int {
	if p.schema == nil {
		return -1
	}
	return p.index
}

// BinaryOp is an arithmetic operator.
type BinaryOp int

// These are the arithmetic operators.
const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return fmt.Sprintf("BinaryOp(%d)", int(op))
	}
}

// Binary applies an arithmetic operator to two sub-expressions.
type Binary struct {
	Op          BinaryOp
	Left, Right Expression
}

func (Literal) isExpression()  {}
func (Property) isExpression() {}
func (Binary) isExpression()   {}

func (l Literal) String() string { return l.Value.Quote() }

func (p Property) String() string { return "[" + p.Name + "]" }

func (b Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// Evaluate computes the value of e for the feature f.
// A missing attribute evaluates to the Null value. The only possible error
// is [value.ErrDivisionByZero].
func Evaluate(e Expression, f *feature.Feature) (value.Value, error) {
	switch e := e.(type) {
	case Literal:
		return e.Value, nil
	case Property:
		return e.lookup(f), nil
	case Binary:
		l, err := Evaluate(e.Left, f)
		if err != nil {
			return value.Null(), err
		}
		r, err := Evaluate(e.Right, f)
		if err != nil {
			return value.Null(), err
		}
		switch e.Op {
		case Add:
			return value.Add(l, r)
		case Sub:
			return value.Sub(l, r)
		case Mul:
			return value.Mul(l, r)
		case Div:
			return value.Div(l, r)
		}
		return value.Null(), fmt.Errorf("filter: unknown operator %s", e.Op)
	case nil:
		return value.Null(), nil
	default:
		panic(fmt.Sprintf("filter: unexpected expression type %T", e))
	}
}

func (p Property) lookup(f *feature.Feature) value.Value {
	if f == nil {
		return value.Null()
	}
	if p.schema != nil && f.Schema() == p.schema {
		return f.At(p.index)
	}
	return f.AttributeByName(p.Name)
}

// CloneExpression returns a deep copy of e.
func CloneExpression(e Expression) Expression {
	switch e := e.(type) {
	case Binary:
		return Binary{
			Op:    e.Op,
			Left:  CloneExpression(e.Left),
			Right: CloneExpression(e.Right),
		}
	default:
		// Literal and Property are immutable values.
		return e
	}
}

func writeExpressionNames(e Expression, names map[string]struct{}) {
	switch e := e.(type) {
	case Property:
		names[e.Name] = struct{}{}
	case Binary:
		writeExpressionNames(e.Left, names)
		writeExpressionNames(e.Right, names)
	}
}

func bindExpression(e Expression, schema *feature.Schema) Expression {
	switch e := e.(type) {
	case Property:
		return bindProperty(e, schema)
	case Binary:
		return Binary{
			Op:    e.Op,
			Left:  bindExpression(e.Left, schema),
			Right: bindExpression(e.Right, schema),
		}
	default:
		return e
	}
}

func bindProperty(p Property, schema *feature.Schema) Property {
	idx := schema.Index(p.Name)
	if idx < 0 {
		return Prop(p.Name)
	}
	return Property{Name: p.Name, schema: schema, index: idx}
}
