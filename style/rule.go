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
	"math"
	"slices"

	"seehuhn.de/go/carto/feature"
	"seehuhn.de/go/carto/filter"
)

// RuleConfig holds the parameters for [NewRule].
type RuleConfig struct {
	Name     string
	Title    string
	Abstract string

	// MinScale and MaxScale give the range [MinScale, MaxScale) of scale
	// denominators where the rule is active. A MaxScale of zero means no
	// upper limit.
	MinScale float64
	MaxScale float64

	Symbolizers []Symbolizer

	// Filter selects the features the rule applies to. If Filter is nil,
	// the rule applies to all features.
	Filter filter.Filter

	// Else marks a rule intended as fallback when no sibling rule
	// matched. The flag is recorded but does not change matching.
	Else bool
}

// A Rule is an immutable combination of a filter, a scale range and a list
// of symbolizers.
type Rule struct {
	name, title, abstract string
	minScale, maxScale    float64
	symbolizers           []Symbolizer
	filter                filter.Filter
	isElse                bool
}

// NewRule returns a new rule. The filter is copied, so later changes to
// cfg do not affect the rule.
func NewRule(cfg RuleConfig) *Rule {
	maxScale := cfg.MaxScale
	if maxScale == 0 {
		maxScale = math.Inf(1)
	}
	fl := cfg.Filter
	if fl == nil {
		fl = filter.Null{}
	} else {
		fl = filter.Clone(fl)
	}
	return &Rule{
		name:        cfg.Name,
		title:       cfg.Title,
		abstract:    cfg.Abstract,
		minScale:    cfg.MinScale,
		maxScale:    maxScale,
		symbolizers: slices.Clone(cfg.Symbolizers),
		filter:      fl,
		isElse:      cfg.Else,
	}
}

// Name returns the rule's identifier.
func (r *Rule) Name() string { return r.name }

// Title returns the human readable title of the rule.
func (r *Rule) Title() string { return r.title }

// Abstract returns the rule's description.
func (r *Rule) Abstract() string { return r.abstract }

// MinScale returns the smallest scale denominator at which the rule applies.
func (r *Rule) MinScale() float64 { return r.minScale }

// MaxScale returns the scale denominator from which on the rule no longer
// applies.
func (r *Rule) MaxScale() float64 { return r.maxScale }

// Else reports whether r only applies to features no other rule matched.
func (r *Rule) Else() bool { return r.isElse }

// Filter returns the rule's filter. Rules without a filter report [filter.Null].
func (r *Rule) Filter() filter.Filter { return r.filter }

// Symbolizers returns the symbolizers of r in drawing order.
// The returned slice must not be modified.
func (r *Rule) Symbolizers() []Symbolizer { return r.symbolizers }

// Active reports whether r applies at the given scale denominator.
func (r *Rule) Active(scale float64) bool {
	return r.minScale <= scale && scale < r.maxScale
}

// Match evaluates the filter of r for f. A non-nil error describes the
// parts of the filter which could not be evaluated; these parts count as
// not matching.
func (r *Rule) Match(f *feature.Feature) (bool, error) {
	return filter.Check(r.filter, f)
}

// PropertyNames returns the sorted attribute names the filter of r
// refers to.
func (r *Rule) PropertyNames() []string {
	return filter.PropertyNames(r.filter)
}

// Bind returns a copy of r whose filter looks up attributes by their
// position in schema.
func (r *Rule) Bind(schema *feature.Schema) *Rule {
	res := *r
	res.filter = filter.Bind(r.filter, schema)
	return &res
}
