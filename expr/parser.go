/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package expr evaluates the inline expressions that appear in property
// values, control directives and interpolations.
//
// Precedence, loosest first: or, and, not/!, comparisons, + and -, * and /,
// unary sign, primaries. Comma-separated and space-separated sequences of
// expressions evaluate to lists.
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bennypowers.dev/cascade/value"
)

// ErrSyntax indicates the input is not a well-formed expression.
var ErrSyntax = errors.New("syntax error")

// Env supplies variables and functions to the evaluator.
type Env interface {
	// Var returns the value bound to name. Names include the "$" sigil.
	Var(name string) (value.Value, bool)

	// Call invokes the function name. found is false when no function
	// accepts the given arguments, in which case the call is kept as text.
	Call(name string, args []value.Entry) (result value.Value, found bool, err error)
}

// Eval evaluates src against env.
func Eval(src string, env Env) (value.Value, error) {
	return eval(src, env, map[string]bool{})
}

func eval(src string, env Env, resolving map[string]bool) (value.Value, error) {
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks, env: env, resolving: resolving}
	return p.goal()
}

type parser struct {
	src  string
	toks []token
	i    int
	env  Env

	// depth counts enclosing parentheses and brackets; "/" between two
	// literal numbers only divides inside them.
	depth int
	// literal is set when the last primary was a number literal.
	literal bool
	// resolving holds the variables currently being expanded.
	resolving map[string]bool
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) peekAt(n int) token {
	if p.i+n < len(p.toks) {
		return p.toks[p.i+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) unexpected(t token) error {
	return fmt.Errorf("%w: unexpected %s at offset %d", ErrSyntax, t.kind, t.pos)
}

func (p *parser) goal() (value.Value, error) {
	v, err := p.exprList()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t)
	}
	return v, nil
}

// exprList parses a comma-separated list. A single positional member
// evaluates to itself.
func (p *parser) exprList() (value.Value, error) {
	entries, err := p.entries()
	if err != nil {
		return nil, err
	}
	if len(entries) == 1 && entries[0].Key == "" {
		return entries[0].Value, nil
	}
	return value.List{Items: entries, Sep: ","}, nil
}

// entries parses comma-separated members, accepting "$name: value" keyed
// members as produced by named arguments. Inside parentheses a bare or
// quoted key also works, as in "(a: 1, b: 2)".
func (p *parser) entries() ([]value.Entry, error) {
	var out []value.Entry
	for {
		var key string
		if p.isKey() {
			key = p.next().text
			p.next()
		}
		v, err := p.spaceList()
		if err != nil {
			return nil, err
		}
		out = append(out, value.Entry{Key: key, Value: v})
		if p.peek().kind != tokComma {
			return out, nil
		}
		p.next()
		if k := p.peek().kind; k == tokEOF || k == tokRParen {
			return out, nil
		}
	}
}

func (p *parser) isKey() bool {
	if p.peekAt(1).kind != tokColon {
		return false
	}
	switch p.peek().kind {
	case tokVar:
		return true
	case tokIdent, tokStr:
		return p.depth > 0
	}
	return false
}

func (p *parser) spaceList() (value.Value, error) {
	var items []value.Value
	for {
		v, err := p.orExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		switch p.peek().kind {
		case tokEOF, tokComma, tokRParen, tokColon:
			if len(items) == 1 {
				return items[0], nil
			}
			return value.NewList("", items...), nil
		}
	}
}

func (p *parser) orExpr() (value.Value, error) {
	left, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		if !value.Truthy(left) {
			left = right
		}
	}
	return left, nil
}

func (p *parser) andExpr() (value.Value, error) {
	left, err := p.notExpr()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		if value.Truthy(left) {
			left = right
		}
	}
	return left, nil
}

func (p *parser) notExpr() (value.Value, error) {
	switch p.peek().kind {
	case tokNot:
		p.next()
		v, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		return value.Bool(!value.Truthy(v)), nil
	case tokInv:
		p.next()
		v, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		if b, ok := v.(value.Bool); ok {
			return !b, nil
		}
		// !important and friends
		return value.NewString("!" + v.String()), nil
	}
	return p.comparison()
}

var comparisons = map[tokenKind]value.CmpOp{
	tokEq: value.Eq,
	tokNe: value.Ne,
	tokLt: value.Lt,
	tokLe: value.Le,
	tokGt: value.Gt,
	tokGe: value.Ge,
}

func (p *parser) comparison() (value.Value, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisons[p.peek().kind]
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = value.Compare(op, left, right)
	}
}

func (p *parser) additive() (value.Value, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op value.Op
		switch p.peek().kind {
		case tokAdd:
			op = value.Add
		case tokSub:
			op = value.Sub
		default:
			return left, nil
		}
		p.next()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		if left, err = value.Arith(op, left, right); err != nil {
			return nil, err
		}
	}
}

func (p *parser) multiplicative() (value.Value, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	literal := p.literal
	for {
		var op value.Op
		switch p.peek().kind {
		case tokMul:
			op = value.Mul
		case tokDiv:
			op = value.Div
		default:
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == value.Div && p.depth == 0 && literal && p.literal {
			// Shorthand such as font: 12px/1.5 stays a slash.
			left = value.NewString(left.String() + "/" + right.String())
			literal = false
			continue
		}
		if left, err = value.Arith(op, left, right); err != nil {
			return nil, err
		}
		literal = false
	}
}

func (p *parser) unary() (value.Value, error) {
	switch p.peek().kind {
	case tokSign:
		p.next()
		v, err := p.unary()
		if err != nil {
			return nil, err
		}
		return value.Negate(v)
	case tokAdd:
		p.next()
		return p.unary()
	}
	return p.primary()
}

func (p *parser) primary() (value.Value, error) {
	t := p.next()
	p.literal = false
	switch t.kind {
	case tokLParen:
		p.depth++
		defer func() { p.depth-- }()
		if p.peek().kind == tokRParen {
			p.next()
			return value.List{}, nil
		}
		v, err := p.exprList()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, p.unexpected(c)
		}
		p.literal = false
		return v, nil
	case tokNum:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrSyntax, t.text)
		}
		p.literal = true
		return value.NewNumber(f, t.unit), nil
	case tokStr:
		return value.String{Value: t.text, Quote: t.quote}, nil
	case tokBool:
		return value.Bool(strings.EqualFold(t.text, "true")), nil
	case tokColor:
		if c, ok := value.ParseHex(t.text); ok {
			return c, nil
		}
		return value.NewString(t.text), nil
	case tokVar:
		return p.variable(t.text)
	case tokFunc:
		return p.call(t)
	case tokIdent:
		return value.NewString(t.text), nil
	}
	return nil, p.unexpected(t)
}

// variable resolves name. Unquoted string values are themselves evaluated,
// so a variable holding "1px + 1px" yields 2px; a variable that refers back
// to itself stops the expansion.
func (p *parser) variable(name string) (value.Value, error) {
	v, ok := p.env.Var(name)
	if !ok {
		return value.NewString(name), nil
	}
	s, isString := v.(value.String)
	if !isString || s.Quoted() || p.resolving[name] {
		return v, nil
	}
	p.resolving[name] = true
	defer delete(p.resolving, name)
	resolved, err := eval(s.Value, p.env, p.resolving)
	if err != nil {
		return v, nil
	}
	return resolved, nil
}

// call evaluates a function call whose name token has just been consumed.
// Calls nobody implements are rebuilt as text with variables substituted.
func (p *parser) call(name token) (value.Value, error) {
	open := p.i
	p.next()
	closing := p.matching(open)
	if closing < 0 {
		return nil, fmt.Errorf("%w: unclosed call to %s", ErrSyntax, name.text)
	}

	var args []value.Entry
	argsOK := true
	if open+1 < closing {
		toks := make([]token, 0, closing-open)
		toks = append(toks, p.toks[open+1:closing]...)
		toks = append(toks, token{kind: tokEOF, pos: p.toks[closing].pos, end: p.toks[closing].pos})
		inner := &parser{src: p.src, toks: toks, env: p.env, depth: 1, resolving: p.resolving}
		var err error
		args, err = inner.entries()
		argsOK = err == nil && inner.peek().kind == tokEOF
	}
	p.i = closing + 1

	if argsOK {
		result, found, err := p.env.Call(name.text, args)
		if err != nil {
			return nil, fmt.Errorf("%s(): %w", name.text, err)
		}
		if found {
			return result, nil
		}
	}
	return value.NewString(name.text + "(" + p.substitute(open+1, closing) + ")"), nil
}

// matching returns the index of the token closing the parenthesis at open.
func (p *parser) matching(open int) int {
	depth := 0
	for k := open; k < len(p.toks); k++ {
		switch p.toks[k].kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

// substitute returns the source between tokens from and to with variables
// replaced by their values.
func (p *parser) substitute(from, to int) string {
	if from >= to {
		return ""
	}
	start, end := p.toks[from-1].end, p.toks[to].pos
	var sb strings.Builder
	cursor := start
	for k := from; k < to; k++ {
		t := p.toks[k]
		if t.kind != tokVar {
			continue
		}
		sb.WriteString(p.src[cursor:t.pos])
		if v, ok := p.env.Var(t.text); ok {
			sb.WriteString(v.String())
		} else {
			sb.WriteString(t.text)
		}
		cursor = t.end
	}
	sb.WriteString(p.src[cursor:end])
	return sb.String()
}
