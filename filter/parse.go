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
	"strconv"
	"strings"
	"unicode"

	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/value"
)

// ErrSyntax is wrapped by all errors returned from [Parse].
var ErrSyntax = errors.New("filter: syntax error")

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokProperty
	tokInt
	tokReal
	tokString
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func tokenize(text string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '[':
			end := strings.IndexByte(text[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated property at %d", ErrSyntax, i)
			}
			toks = append(toks, token{tokProperty, text[i+1 : i+end], i})
			i += end + 1

		case c == '\'' || c == '"':
			var sb strings.Builder
			j := i + 1
			for ; j < len(text) && text[j] != c; j++ {
				if text[j] == '\\' && j+1 < len(text) {
					j++
				}
				sb.WriteByte(text[j])
			}
			if j >= len(text) {
				return nil, fmt.Errorf("%w: unterminated string at %d", ErrSyntax, i)
			}
			toks = append(toks, token{tokString, sb.String(), i})
			i = j + 1

		case c >= '0' && c <= '9' || c == '.' && i+1 < len(text) && isDigit(text[i+1]):
			j := i
			kind := tokInt
			for j < len(text) && (isDigit(text[j]) || text[j] == '.' || text[j] == 'e' || text[j] == 'E' ||
				(text[j] == '-' || text[j] == '+') && (text[j-1] == 'e' || text[j-1] == 'E')) {
				if !isDigit(text[j]) {
					kind = tokReal
				}
				j++
			}
			toks = append(toks, token{kind, text[i:j], i})
			i = j

		case c == '_' || unicode.IsLetter(rune(c)):
			j := i
			for j < len(text) && (text[j] == '_' || isDigit(text[j]) || unicode.IsLetter(rune(text[j]))) {
				j++
			}
			toks = append(toks, token{tokIdent, strings.ToLower(text[i:j]), i})
			i = j

		case c == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ",", i})
			i++

		default:
			op := ""
			for _, cand := range []string{"<=", ">=", "!=", "<>", "==", "=", "<", ">", "+", "-", "*", "/"} {
				if strings.HasPrefix(text[i:], cand) {
					op = cand
					break
				}
			}
			if op == "" {
				return nil, fmt.Errorf("%w: unexpected character %q at %d", ErrSyntax, c, i)
			}
			toks = append(toks, token{tokOp, op, i})
			i += len(op)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(text)})
	return toks, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

type parser struct {
	toks []token
	pos  int
}

// Parse reads a filter in the textual filter syntax, for example
//
//	[type] = 'park' and ([area] * 2 > 1000 or not [name] = '')
//
// Comparisons use the operators = != <> < <= > >=. Attribute names are
// written in square brackets. Typed comparisons are written as
// "[p] is lit", "[p] is > lit", "[p] is < lit" and
// "[p] between lo and hi". Spatial predicates take the form
// "bbox(minx, miny, maxx, maxy)". Empty text and "true" give [Null].
func Parse(text string) (Filter, error) {
	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tokEOF {
		return Null{}, nil
	}
	fl, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
	return fl, nil
}

// MustParse is like [Parse] but panics on errors.
func MustParse(text string) Filter {
	fl, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return fl
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isIdent(word string) bool {
	t := p.peek()
	return t.kind == tokIdent && t.text == word
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return fmt.Errorf("%w at %d: %s", ErrSyntax, t.pos, fmt.Sprintf(format, args...))
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, p.errorf(t, "expected %s", what)
	}
	return t, nil
}

func (p *parser) parseOr() (Filter, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isIdent("or") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Filter, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isIdent("and") {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Filter, error) {
	if p.isIdent("not") {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Filter: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Filter, error) {
	t := p.peek()
	switch {
	case t.kind == tokIdent && t.text == "true":
		p.next()
		return Null{}, nil

	case t.kind == tokIdent && isSpatialName(t.text):
		return p.parseSpatial()

	case t.kind == tokLParen:
		// A parenthesised filter, unless the parentheses turn out to
		// enclose the left operand of a comparison.
		start := p.pos
		p.next()
		fl, err := p.parseOr()
		if err == nil && p.peek().kind == tokRParen {
			p.next()
			if p.peek().kind != tokOp {
				return fl, nil
			}
		}
		p.pos = start
	}
	return p.parseComparison()
}

func isSpatialName(word string) bool {
	for _, n := range spatialNames {
		if n == word {
			return true
		}
	}
	return false
}

func (p *parser) parseSpatial() (Filter, error) {
	name := p.next()
	var op SpatialOp
	for i, n := range spatialNames {
		if n == name.text {
			op = SpatialOp(i)
		}
	}
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	var c [4]float64
	for i := range c {
		if i > 0 {
			if _, err := p.expect(tokComma, "','"); err != nil {
				return nil, err
			}
		}
		v, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		c[i] = v
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return Spatial{Op: op, Envelope: geometry.NewEnvelope(c[0], c[1], c[2], c[3])}, nil
}

func (p *parser) parseNumber() (float64, error) {
	neg := false
	if t := p.peek(); t.kind == tokOp && t.text == "-" {
		p.next()
		neg = true
	}
	t := p.next()
	if t.kind != tokInt && t.kind != tokReal {
		return 0, p.errorf(t, "expected number")
	}
	x, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		return 0, p.errorf(t, "invalid number %q", t.text)
	}
	if neg {
		x = -x
	}
	return x, nil
}

func (p *parser) parseComparison() (Filter, error) {
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if prop, ok := left.(Property); ok {
		switch {
		case p.isIdent("is"):
			return p.parsePropertyIs(prop)
		case p.isIdent("between"):
			p.next()
			lo, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			if !p.isIdent("and") {
				return nil, p.errorf(p.peek(), "expected 'and'")
			}
			p.next()
			hi, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			return PropertyIs{Op: IsBetween, Property: prop, Literal: lo, Upper: hi}, nil
		}
	}

	t := p.next()
	var op CompareOp
	switch {
	case t.kind != tokOp:
		return nil, p.errorf(t, "expected comparison operator")
	case t.text == "=" || t.text == "==":
		op = Equal
	case t.text == "!=" || t.text == "<>":
		op = NotEqual
	case t.text == "<":
		op = Less
	case t.text == "<=":
		op = LessOrEqual
	case t.text == ">":
		op = Greater
	case t.text == ">=":
		op = GreaterOrEqual
	default:
		return nil, p.errorf(t, "expected comparison operator, got %q", t.text)
	}
	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return Compare{Op: op, Left: left, Right: right}, nil
}

func (p *parser) parsePropertyIs(prop Property) (Filter, error) {
	p.next() // "is"
	op := IsEqual
	if t := p.peek(); t.kind == tokOp {
		switch t.text {
		case ">":
			op = IsGreater
		case "<":
			op = IsLess
		default:
			return nil, p.errorf(t, "unexpected %q after 'is'", t.text)
		}
		p.next()
	}
	lit, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	return PropertyIs{Op: op, Property: prop, Literal: lit}, nil
}

func (p *parser) parseLiteral() (value.Value, error) {
	e, err := p.parseFactor()
	if err != nil {
		return value.Null(), err
	}
	lit, ok := e.(Literal)
	if !ok {
		return value.Null(), p.errorf(p.toks[p.pos-1], "expected literal")
	}
	return lit.Value, nil
}

func (p *parser) parseExpr() (Expression, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		op := Add
		if t.text == "-" {
			op = Sub
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseTerm() (Expression, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		op := Mul
		if t.text == "/" {
			op = Div
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseFactor() (Expression, error) {
	t := p.next()
	switch t.kind {
	case tokProperty:
		return Prop(t.text), nil
	case tokString:
		return Literal{value.String(t.text)}, nil
	case tokInt:
		i, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, p.errorf(t, "invalid integer %q", t.text)
		}
		return Literal{value.Int(i)}, nil
	case tokReal:
		x, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, p.errorf(t, "invalid number %q", t.text)
		}
		return Literal{value.Real(x)}, nil
	case tokIdent:
		if t.text == "null" {
			return Literal{value.Null()}, nil
		}
		return nil, p.errorf(t, "unexpected %q", t.text)
	case tokLParen:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case tokOp:
		if t.text == "-" {
			inner, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			if lit, ok := inner.(Literal); ok {
				switch lit.Value.Kind() {
				case value.KindInt:
					return Literal{value.Int(-lit.Value.ToInt())}, nil
				case value.KindReal:
					return Literal{value.Real(-lit.Value.ToReal())}, nil
				}
			}
			return Binary{Op: Sub, Left: Literal{value.Int(0)}, Right: inner}, nil
		}
	}
	if t.kind == tokEOF {
		return nil, p.errorf(t, "unexpected end of filter")
	}
	return nil, p.errorf(t, "unexpected %q", t.text)
}
