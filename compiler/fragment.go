/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package compiler

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"bennypowers.dev/cascade/value"
)

// NoPosition marks a fragment that never reached ordering.
const NoPosition = -1

// Property is one emitted declaration. Bare properties are lines without a
// value, such as @charset or a plain-CSS @import.
type Property struct {
	Name  string
	Value string
	Bare  bool
}

func (p Property) String() string {
	if p.Bare {
		return p.Name
	}
	return p.Name + ": " + p.Value
}

// Fragment is the unit of compilation state: one selector set in one media
// context, with the declarations it emits.
type Fragment struct {
	// ID indexes the fragment in its session's arena.
	ID int
	// File is the source the fragment came from, empty for in-memory text.
	File string

	Selectors []string
	// Extends lists the selectors this fragment inherits from.
	Extends    []string
	Media      []string
	Properties []Property

	// Raw holds a verbatim at-rule block, emitted as is.
	Raw *RawBlock

	// Position is the emission rank, or NoPosition.
	Position int

	code    string
	dir     string
	context Context
	options *Registry
	deps    map[int]bool
	order   int
}

// RawBlock is an at-rule copied to the output without expansion.
type RawBlock struct {
	Header string
	Body   string
}

// SelectorKey returns the fragment's selectors joined by commas.
func (f *Fragment) SelectorKey() string {
	return strings.Join(f.Selectors, ",")
}

// Deps returns the positions this fragment depends on, ascending.
func (f *Fragment) Deps() []int {
	return slices.Sorted(maps.Keys(f.deps))
}

// Context maps variable names, including the "$" sigil, to values. Children
// receive a copy, so writes never reach the parent.
type Context map[string]value.Value

// Clone returns a shallow copy.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	maps.Copy(out, c)
	return out
}

// Callable is a registered mixin or function.
type Callable struct {
	Name   string
	Params []string
	// Defaults holds unevaluated default expressions by parameter name.
	Defaults map[string]string
	Body     string
	// Context is the definition-time environment, without the parameters.
	Context  Context
	Function bool
	dir      string
}

// Registry holds the mixins, functions and flags visible to a fragment.
// Children receive a copy, so registrations accumulate forward only.
type Registry struct {
	mixins    map[string]*Callable
	functions map[string]*Callable
	flags     map[string]string
	imported  map[string]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		mixins:    make(map[string]*Callable),
		functions: make(map[string]*Callable),
		flags:     make(map[string]string),
		imported:  make(map[string]bool),
	}
}

// Clone returns a copy sharing the registered callables.
func (r *Registry) Clone() *Registry {
	return &Registry{
		mixins:    maps.Clone(r.mixins),
		functions: maps.Clone(r.functions),
		flags:     maps.Clone(r.flags),
		imported:  maps.Clone(r.imported),
	}
}

// Define registers c under every arity its defaults make reachable: a
// mixin with two parameters, the second defaulted, answers to both
// name:2 and name:1.
func (r *Registry) Define(c *Callable) {
	table := r.mixins
	if c.Function {
		table = r.functions
	}
	n := len(c.Params)
	table[arityKey(c.Name, n)] = c
	for n > 0 {
		if _, ok := c.Defaults[c.Params[n-1]]; !ok {
			return
		}
		n--
		table[arityKey(c.Name, n)] = c
	}
}

// Mixin returns the mixin registered for name and arity.
func (r *Registry) Mixin(name string, arity int) (*Callable, bool) {
	c, ok := r.mixins[arityKey(name, arity)]
	return c, ok
}

// Function returns the function registered for name and arity.
func (r *Registry) Function(name string, arity int) (*Callable, bool) {
	c, ok := r.functions[arityKey(name, arity)]
	return c, ok
}

// Flag returns a value set by @option.
func (r *Registry) Flag(name string) (string, bool) {
	v, ok := r.flags[name]
	return v, ok
}

func arityKey(name string, arity int) string {
	return name + ":" + strconv.Itoa(arity)
}
