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


// Package style decides which symbolizers draw a feature at a given scale.
//
// A [Style] holds two independent lists. The first is a priority list of
// scale-tagged symbolizers, of which [Style.Find] selects at most one. The
// second is an ordered list of [Rule] values, each combining a filter with
// a scale range and its own symbolizers.
package style

import (
	"maps"
	"slices"

	"seehuhn.de/go/carto/feature"
	"seehuhn.de/go/carto/filter"
)

type scaledSymbolizer struct {
	sym      Symbolizer
	min, max float64
}

// Style is a named collection of symbolizers and rules.
// A Style must not be modified once it is used for rendering.
type Style struct {
	symbolizers []scaledSymbolizer
	rules       []*Rule
}

// Add appends a symbolizer which is active for scale denominators strictly
// between min and max.
func (s *Style) Add(sym Symbolizer, min, max float64) {
	s.symbolizers = append(s.symbolizers, scaledSymbolizer{sym: sym, min: min, max: max})
}

// Find returns the first symbolizer whose scale range contains scale.
// The second return value is false if no symbolizer is active.
func (s *Style) Find(scale float64) (Symbolizer, bool) {
	for _, e := range s.symbolizers {
		if e.min < scale && scale < e.max {
			return e.sym, true
		}
	}
	return nil, false
}

// AddRule appends a rule.
func (s *Style) AddRule(r *Rule) {
	s.rules = append(s.rules, r)
}

// Rules returns the rules of s in order.
// The returned slice must not be modified.
func (s *Style) Rules() []*Rule {
	return s.rules
}

// ActiveRules returns the rules which apply at the given scale denominator.
func (s *Style) ActiveRules(scale float64) []*Rule {
	var res []*Rule
	for _, r := range s.rules {
		if r.Active(scale) {
			res = append(res, r)
		}
	}
	return res
}

// PropertyNames returns the sorted, distinct attribute names referenced by
// the filters of all rules.
func (s *Style) PropertyNames() []string {
	names := make(map[string]struct{})
	for _, r := range s.rules {
		filter.CollectNames(r.filter, names)
	}
	return slices.Sorted(maps.Keys(names))
}

// Bind returns a copy of s whose rules look up attributes by position in
// schema. The symbolizers are shared with s.
func (s *Style) Bind(schema *feature.Schema) *Style {
	res := &Style{
		symbolizers: s.symbolizers,
		rules:       make([]*Rule, len(s.rules)),
	}
	for i, r := range s.rules {
		res.rules[i] = r.Bind(schema)
	}
	return res
}
