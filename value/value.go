/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package value implements the runtime values of the stylesheet language:
// booleans, unit-aware numbers, colors, strings and ordered lists.
//
// Values are immutable. Operators are implemented as functions that switch
// over the concrete variant (see Arith and Compare) instead of methods, so
// the full coercion matrix lives in one place.
package value

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrIncompatible indicates an operator was applied to operands it cannot combine.
	ErrIncompatible = errors.New("incompatible operands")

	// ErrDivideByZero indicates a division by zero.
	ErrDivideByZero = errors.New("division by zero")
)

// Kind identifies the concrete variant of a Value.
type Kind int

const (
	// KindBool is a Bool.
	KindBool Kind = iota
	// KindNumber is a Number.
	KindNumber
	// KindColor is a Color.
	KindColor
	// KindString is an unquoted String.
	KindString
	// KindQuoted is a quoted String.
	KindQuoted
	// KindList is a List.
	KindList
)

// String returns the name used by the type-of builtin.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindColor:
		return "color"
	case KindString, KindQuoted:
		return "string"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a runtime value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	String() string
	isValue()
}

// Bool is a boolean value.
type Bool bool

// Kind implements Value.
func (Bool) Kind() Kind { return KindBool }

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (Bool) isValue() {}

// Number is a magnitude with an optional unit. The magnitude is expressed in
// Unit, not in the base unit of its dimension.
type Number struct {
	Value float64
	Unit  string
}

// NewNumber returns a Number with the given unit.
func NewNumber(v float64, unit string) Number {
	return Number{Value: v, Unit: strings.ToLower(unit)}
}

// Kind implements Value.
func (Number) Kind() Kind { return KindNumber }

func (n Number) String() string {
	return FormatFloat(n.Value) + n.Unit
}

func (Number) isValue() {}

// Unitless reports whether the number carries no unit.
func (n Number) Unitless() bool { return n.Unit == "" }

// FormatFloat renders f rounded to three decimals with trailing zeros removed.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(roundTo(f, 3), 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	return s
}

// String is a string value. Quote is zero for unquoted strings, otherwise the
// quote character the string was written with.
type String struct {
	Value string
	Quote rune
}

// NewString returns an unquoted string.
func NewString(s string) String {
	return String{Value: s}
}

// NewQuoted returns a string quoted with double quotes.
func NewQuoted(s string) String {
	return String{Value: s, Quote: '"'}
}

// Kind implements Value.
func (s String) Kind() Kind {
	if s.Quote != 0 {
		return KindQuoted
	}
	return KindString
}

func (s String) String() string {
	if s.Quote == 0 {
		return s.Value
	}
	q := string(s.Quote)
	escaped := strings.ReplaceAll(s.Value, q, `\`+q)
	return q + escaped + q
}

func (String) isValue() {}

// Quoted reports whether the string was written with quotes.
func (s String) Quoted() bool { return s.Quote != 0 }

// Entry is one member of a List. Key is empty for positional members.
type Entry struct {
	Key   string
	Value Value
}

// List is an ordered collection of positional and keyed members.
// Sep is "," for comma-separated lists and "" for space-separated lists.
type List struct {
	Items []Entry
	Sep   string
}

// NewList returns a positional list.
func NewList(sep string, items ...Value) List {
	l := List{Sep: sep, Items: make([]Entry, 0, len(items))}
	for _, v := range items {
		l.Items = append(l.Items, Entry{Value: v})
	}
	return l
}

// Kind implements Value.
func (List) Kind() Kind { return KindList }

func (l List) String() string {
	sep := " "
	if l.Sep != "" {
		sep = l.Sep + " "
	}
	parts := make([]string, 0, len(l.Items))
	for _, e := range l.Items {
		s := e.Value.String()
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep)
}

func (List) isValue() {}

// Len returns the number of members.
func (l List) Len() int { return len(l.Items) }

// Values returns the members in order, ignoring keys.
func (l List) Values() []Value {
	out := make([]Value, len(l.Items))
	for i, e := range l.Items {
		out[i] = e.Value
	}
	return out
}

// Get returns the member stored under key.
func (l List) Get(key string) (Value, bool) {
	for _, e := range l.Items {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// ToList wraps a non-list value into a single-member list. Unquoted strings
// are split on commas, or on whitespace when no comma is present.
func ToList(v Value) List {
	switch v := v.(type) {
	case List:
		return v
	case String:
		if v.Quoted() {
			return NewList("", v)
		}
		s := strings.TrimSpace(v.Value)
		if s == "" {
			return List{}
		}
		if strings.Contains(s, ",") {
			var items []Value
			for _, part := range splitTopLevel(s, ',') {
				if part = strings.TrimSpace(part); part != "" {
					items = append(items, NewString(part))
				}
			}
			return NewList(",", items...)
		}
		var items []Value
		for _, f := range strings.Fields(s) {
			items = append(items, NewString(f))
		}
		return NewList("", items...)
	default:
		return NewList("", v)
	}
}

// Truthy reports whether v counts as true in a condition.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case Bool:
		return bool(v)
	case Number:
		return v.Value != 0
	case String:
		if v.Quoted() {
			return true
		}
		s := strings.TrimSpace(v.Value)
		return s != "" && s != "0" && s != "false"
	case List:
		return len(v.Items) > 0
	default:
		return true
	}
}

// Unquote returns the text of a string without quotes, or the string form
// of any other value.
func Unquote(v Value) string {
	if s, ok := v.(String); ok {
		return s.Value
	}
	return v.String()
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
