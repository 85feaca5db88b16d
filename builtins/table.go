/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package builtins provides the function table consulted by the expression
// evaluator: color, list, selector, math and string helpers keyed by
// name and arity. Hosts add their own functions with Register.
package builtins

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"bennypowers.dev/cascade/value"
)

// ErrArgument indicates a builtin received an argument it cannot use.
var ErrArgument = errors.New("invalid argument")

// Variadic registers a function under "name:n", matching any argument count
// that has no exact registration.
const Variadic = -1

// Func implements a builtin.
type Func func(args *Args) (value.Value, error)

// Entry describes one registration.
type Entry struct {
	Name     string
	Arity    int
	Category string
	Fn       Func
}

// Key returns the "name:arity" registration key.
func (e Entry) Key() string {
	return key(e.Name, e.Arity)
}

func key(name string, arity int) string {
	if arity == Variadic {
		return name + ":n"
	}
	return name + ":" + strconv.Itoa(arity)
}

// Table maps "name:arity" keys to functions.
type Table struct {
	funcs map[string]Entry
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{funcs: make(map[string]Entry)}
}

// Default returns a table holding every builtin.
func Default() *Table {
	t := NewTable()
	registerColor(t)
	registerList(t)
	registerSelector(t)
	registerMath(t)
	registerMisc(t)
	return t
}

// Register adds fn under name and arity, replacing any previous entry.
func (t *Table) Register(name string, arity int, category string, fn Func) {
	e := Entry{Name: name, Arity: arity, Category: category, Fn: fn}
	t.funcs[e.Key()] = e
}

// Lookup finds the function for name called with arity arguments, falling
// back to a variadic registration.
func (t *Table) Lookup(name string, arity int) (Func, bool) {
	if e, ok := t.funcs[key(name, arity)]; ok {
		return e.Fn, true
	}
	if e, ok := t.funcs[key(name, Variadic)]; ok {
		return e.Fn, true
	}
	return nil, false
}

// Call invokes name with the given arguments. found is false when nothing
// is registered for the name and argument count.
func (t *Table) Call(name string, entries []value.Entry) (result value.Value, found bool, err error) {
	fn, ok := t.Lookup(name, len(entries))
	if !ok {
		return nil, false, nil
	}
	result, err = fn(NewArgs(entries))
	return result, true, err
}

// Clone returns a copy that can be extended without affecting t.
func (t *Table) Clone() *Table {
	c := NewTable()
	for k, e := range t.funcs {
		c.funcs[k] = e
	}
	return c
}

// Entries returns all registrations sorted by category, name and arity.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.funcs))
	for _, e := range t.funcs {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Arity < out[j].Arity
	})
	return out
}

// Args gives builtins access to their positional and named arguments.
// Named arguments are keyed without the "$" sigil.
type Args struct {
	Positional []value.Value
	Named      map[string]value.Value
}

// NewArgs splits evaluator entries into positional and named arguments.
func NewArgs(entries []value.Entry) *Args {
	a := &Args{Named: make(map[string]value.Value)}
	for _, e := range entries {
		if e.Key == "" {
			a.Positional = append(a.Positional, e.Value)
			continue
		}
		a.Named[strings.TrimPrefix(e.Key, "$")] = e.Value
	}
	return a
}

// Len returns the total number of arguments.
func (a *Args) Len() int {
	return len(a.Positional) + len(a.Named)
}

// Get returns the argument named name, or else the positional argument i.
func (a *Args) Get(i int, name string) (value.Value, bool) {
	if v, ok := a.Named[name]; ok {
		return v, true
	}
	if i >= 0 && i < len(a.Positional) {
		return a.Positional[i], true
	}
	return nil, false
}

// Value returns a required argument.
func (a *Args) Value(i int, name string) (value.Value, error) {
	v, ok := a.Get(i, name)
	if !ok {
		return nil, fmt.Errorf("%w: missing $%s", ErrArgument, name)
	}
	return v, nil
}

// Number returns a required numeric argument.
func (a *Args) Number(i int, name string) (value.Number, error) {
	v, err := a.Value(i, name)
	if err != nil {
		return value.Number{}, err
	}
	return toNumber(v, name)
}

// Color returns a required color argument. Color keywords are accepted.
func (a *Args) Color(i int, name string) (value.Color, error) {
	v, err := a.Value(i, name)
	if err != nil {
		return value.Color{}, err
	}
	c, ok := value.ToColor(v)
	if !ok {
		return value.Color{}, fmt.Errorf("%w: $%s: %s is not a color", ErrArgument, name, v)
	}
	return c, nil
}

// Int returns a required numeric argument truncated to an integer.
func (a *Args) Int(i int, name string) (int, error) {
	n, err := a.Number(i, name)
	if err != nil {
		return 0, err
	}
	return int(n.Value), nil
}

func toNumber(v value.Value, name string) (value.Number, error) {
	switch v := v.(type) {
	case value.Number:
		return v, nil
	case value.String:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64); err == nil {
			return value.NewNumber(f, ""), nil
		}
	}
	return value.Number{}, fmt.Errorf("%w: $%s: %s is not a number", ErrArgument, name, v)
}

// fraction reads an amount given as a percentage or a bare number. Bare
// numbers of 1 or more are percentages; smaller ones are fractions.
func fraction(n value.Number) float64 {
	if n.Unit == "%" || n.Value >= 1 || n.Value <= -1 {
		return n.Value / 100
	}
	return n.Value
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
