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
	"fmt"
	"slices"
	"strconv"

	"seehuhn.de/go/carto/feature"
	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/value"
)

// ErrTypeMismatch is returned by [Check] when a [PropertyIs] filter is
// applied to an attribute of a different kind than the filter's literal.
// The filter does not match in this case.
var ErrTypeMismatch = errors.New("filter: attribute type mismatch")

// Category classifies filter nodes.
type Category int

// These are the filter categories.
const (
	CategoryNull Category = iota
	CategoryComparison
	CategoryLogical
	CategorySpatial
)

func (c Category) String() string {
	switch c {
	case CategoryNull:
		return "NULL"
	case CategoryComparison:
		return "COMPARISON"
	case CategoryLogical:
		return "LOGICAL"
	case CategorySpatial:
		return "SPATIAL"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Filter is one of [Null], [Compare], [And], [Or], [Not], [Spatial] or
// [PropertyIs].
type Filter interface {
	fmt.Stringer
	Category() Category
}

// Null matches every feature.
type Null struct{}

// CompareOp is a comparison operator.
type CompareOp int

// These are the comparison operators.
const (
	Equal CompareOp = iota
	NotEqual
	Less
	LessOrEqual
	Greater
	GreaterOrEqual
)

func (op CompareOp) String() string {
	switch op {
	case Equal:
		return "="
	case NotEqual:
		return "!="
	case Less:
		return "<"
	case LessOrEqual:
		return "<="
	case Greater:
		return ">"
	case GreaterOrEqual:
		return ">="
	default:
		return fmt.Sprintf("CompareOp(%d)", int(op))
	}
}

func (op CompareOp) holds(c int) bool {
	switch op {
	case Equal:
		return c == 0
	case NotEqual:
		return c != 0
	case Less:
		return c < 0
	case LessOrEqual:
		return c <= 0
	case Greater:
		return c > 0
	case GreaterOrEqual:
		return c >= 0
	}
	return false
}

// Compare compares two expressions using the coercion rules of
// [value.Compare].
type Compare struct {
	Op          CompareOp
	Left, Right Expression
}

// And matches if both sub-filters match.
type And struct {
	Left, Right Filter
}

// Or matches if at least one sub-filter matches.
type Or struct {
	Left, Right Filter
}

// Not inverts a filter.
type Not struct {
	Filter Filter
}

// SpatialOp is a spatial predicate. Only BBox is implemented, all other
// predicates never match.
type SpatialOp int

// These are the spatial predicates.
const (
	BBox SpatialOp = iota
	Equals
	Disjoint
	Touches
	Within
	Overlaps
	Crosses
	Intersects
	Contains
	DWithin
	Beyond
)

var spatialNames = []string{
	"bbox", "equals", "disjoint", "touches", "within", "overlaps",
	"crosses", "intersects", "contains", "dwithin", "beyond",
}

func (op SpatialOp) String() string {
	if op >= 0 && int(op) < len(spatialNames) {
		return spatialNames[op]
	}
	return fmt.Sprintf("SpatialOp(%d)", int(op))
}

// Spatial tests the feature geometry against an envelope.
type Spatial struct {
	Op       SpatialOp
	Envelope geometry.Envelope
}

// PropertyOp is the operator of a [PropertyIs] filter.
type PropertyOp int

// These are the typed property comparisons.
const (
	IsEqual PropertyOp = iota
	IsGreater
	IsLess
	IsBetween
)

// PropertyIs compares an attribute with a literal of the same kind.
// For IsBetween, the attribute must lie in the closed interval
// [Literal, Upper].
type PropertyIs struct {
	Op       PropertyOp
	Property Property
	Literal  value.Value
	Upper    value.Value
}

func (Null) Category() Category       { return CategoryNull }
func (Compare) Category() Category    { return CategoryComparison }
func (PropertyIs) Category() Category { return CategoryComparison }
func (And) Category() Category        { return CategoryLogical }
func (Or) Category() Category         { return CategoryLogical }
func (Not) Category() Category        { return CategoryLogical }
func (Spatial) Category() Category    { return CategorySpatial }

func (Null) String() string { return "true" }

func (c Compare) String() string {
	return c.Left.String() + " " + c.Op.String() + " " + c.Right.String()
}

func (a And) String() string { return "(" + a.Left.String() + " and " + a.Right.String() + ")" }

func (o Or) String() string { return "(" + o.Left.String() + " or " + o.Right.String() + ")" }

func (n Not) String() string { return "not " + n.Filter.String() }

func (s Spatial) String() string {
	e := s.Envelope
	return fmt.Sprintf("%s(%s,%s,%s,%s)", s.Op,
		formatFloat(e.MinX), formatFloat(e.MinY), formatFloat(e.MaxX), formatFloat(e.MaxY))
}

func (p PropertyIs) String() string {
	switch p.Op {
	case IsGreater:
		return p.Property.String() + " is > " + p.Literal.Quote()
	case IsLess:
		return p.Property.String() + " is < " + p.Literal.Quote()
	case IsBetween:
		return p.Property.String() + " between " + p.Literal.Quote() + " and " + p.Upper.Quote()
	default:
		return p.Property.String() + " is " + p.Literal.Quote()
	}
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Check evaluates fl for the feature f. A nil filter matches everything.
//
// Errors are feature-scoped: the filter does not match and the error
// describes why. Logical filters always evaluate both operands and join
// their errors.
func Check(fl Filter, f *feature.Feature) (bool, error) {
	switch fl := fl.(type) {
	case nil, Null:
		return true, nil

	case Compare:
		l, err := Evaluate(fl.Left, f)
		if err != nil {
			return false, err
		}
		r, err := Evaluate(fl.Right, f)
		if err != nil {
			return false, err
		}
		return fl.Op.holds(value.Compare(l, r)), nil

	case And:
		l, errL := Check(fl.Left, f)
		r, errR := Check(fl.Right, f)
		return l && r, errors.Join(errL, errR)

	case Or:
		l, errL := Check(fl.Left, f)
		r, errR := Check(fl.Right, f)
		return l || r, errors.Join(errL, errR)

	case Not:
		ok, err := Check(fl.Filter, f)
		if err != nil {
			return false, err
		}
		return !ok, nil

	case Spatial:
		if fl.Op != BBox || f == nil {
			return false, nil
		}
		env, ok := featureEnvelope(f)
		return ok && env.Intersects(fl.Envelope), nil

	case PropertyIs:
		return checkPropertyIs(fl, f)

	default:
		panic(fmt.Sprintf("filter: unexpected filter type %T", fl))
	}
}

// Pass reports whether fl matches f. Errors count as "no match".
func Pass(fl Filter, f *feature.Feature) bool {
	ok, err := Check(fl, f)
	return ok && err == nil
}

func featureEnvelope(f *feature.Feature) (geometry.Envelope, bool) {
	if r := f.Raster(); r != nil {
		return r.Extent, true
	}
	if g := f.Geometry(); g != nil && !g.IsEmpty() {
		return g.Envelope(), true
	}
	return geometry.Envelope{}, false
}

func checkPropertyIs(p PropertyIs, f *feature.Feature) (bool, error) {
	v := p.Property.lookup(f)
	if v.Kind() != p.Literal.Kind() ||
		(p.Op == IsBetween && v.Kind() != p.Upper.Kind()) {
		return false, fmt.Errorf("%w: %s is %s, expected %s",
			ErrTypeMismatch, p.Property.Name, v.Kind(), p.Literal.Kind())
	}
	switch p.Op {
	case IsEqual:
		return value.Compare(v, p.Literal) == 0, nil
	case IsGreater:
		return value.Compare(v, p.Literal) > 0, nil
	case IsLess:
		return value.Compare(v, p.Literal) < 0, nil
	case IsBetween:
		return value.Compare(v, p.Literal) >= 0 && value.Compare(v, p.Upper) <= 0, nil
	}
	return false, nil
}

// Clone returns a deep copy of fl.
func Clone(fl Filter) Filter {
	switch fl := fl.(type) {
	case Compare:
		return Compare{Op: fl.Op, Left: CloneExpression(fl.Left), Right: CloneExpression(fl.Right)}
	case And:
		return And{Left: Clone(fl.Left), Right: Clone(fl.Right)}
	case Or:
		return Or{Left: Clone(fl.Left), Right: Clone(fl.Right)}
	case Not:
		return Not{Filter: Clone(fl.Filter)}
	default:
		// the remaining node types contain no references
		return fl
	}
}

// PropertyNames returns the sorted, distinct attribute names referenced by
// fl.
func PropertyNames(fl Filter) []string {
	names := make(map[string]struct{})
	collectNames(fl, names)
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// CollectNames adds the attribute names referenced by fl to names.
func CollectNames(fl Filter, names map[string]struct{}) {
	collectNames(fl, names)
}

func collectNames(fl Filter, names map[string]struct{}) {
	switch fl := fl.(type) {
	case Compare:
		writeExpressionNames(fl.Left, names)
		writeExpressionNames(fl.Right, names)
	case And:
		collectNames(fl.Left, names)
		collectNames(fl.Right, names)
	case Or:
		collectNames(fl.Left, names)
		collectNames(fl.Right, names)
	case Not:
		collectNames(fl.Filter, names)
	case PropertyIs:
		names[fl.Property.Name] = struct{}{}
	}
}

// Bind returns a copy of fl in which every property reference carries its
// position in schema. Names not present in schema stay unbound and
// evaluate to Null.
func Bind(fl Filter, schema *feature.Schema) Filter {
	switch fl := fl.(type) {
	case Compare:
		return Compare{
			Op:    fl.Op,
			Left:  bindExpression(fl.Left, schema),
			Right: bindExpression(fl.Right, schema),
		}
	case And:
		return And{Left: Bind(fl.Left, schema), Right: Bind(fl.Right, schema)}
	case Or:
		return Or{Left: Bind(fl.Left, schema), Right: Bind(fl.Right, schema)}
	case Not:
		return Not{Filter: Bind(fl.Filter, schema)}
	case PropertyIs:
		fl.Property = bindProperty(fl.Property, schema)
		return fl
	default:
		return fl
	}
}
