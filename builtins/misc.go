/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package builtins

import (
	"strings"
	"unicode/utf8"

	"bennypowers.dev/cascade/value"
)

const (
	catString     = "string"
	catIntrospect = "introspection"
)

func registerMisc(t *Table) {
	t.Register("unquote", Variadic, catString, unquote)
	t.Register("quote", Variadic, catString, quote)
	t.Register("e", 1, catString, unquote)
	t.Register("escape", 1, catString, unquote)
	t.Register("str-length", 1, catString, strLength)
	t.Register("to-upper-case", 1, catString, caseOf(strings.ToUpper))
	t.Register("to-lower-case", 1, catString, caseOf(strings.ToLower))

	t.Register("type-of", 1, catIntrospect, typeOf)
	t.Register("if", 2, catIntrospect, ifFunc)
	t.Register("if", 3, catIntrospect, ifFunc)
	t.Register("position", Variadic, catIntrospect, position(false))
	t.Register("opposite-position", Variadic, catIntrospect, position(true))
}

func joinedText(a *Args) string {
	parts := make([]string, len(a.Positional))
	for i, v := range a.Positional {
		parts[i] = value.Unquote(v)
	}
	return strings.Join(parts, " ")
}

func unquote(a *Args) (value.Value, error) {
	return value.NewString(joinedText(a)), nil
}

func quote(a *Args) (value.Value, error) {
	return value.NewQuoted(joinedText(a)), nil
}

func strLength(a *Args) (value.Value, error) {
	v, err := a.Value(0, "string")
	if err != nil {
		return nil, err
	}
	return value.NewNumber(float64(utf8.RuneCountInString(value.Unquote(v))), ""), nil
}

func caseOf(fn func(string) string) Func {
	return func(a *Args) (value.Value, error) {
		v, err := a.Value(0, "string")
		if err != nil {
			return nil, err
		}
		if s, ok := v.(value.String); ok {
			s.Value = fn(s.Value)
			return s, nil
		}
		return value.NewString(fn(v.String())), nil
	}
}

func typeOf(a *Args) (value.Value, error) {
	v, err := a.Value(0, "value")
	if err != nil {
		return nil, err
	}
	return value.NewString(v.Kind().String()), nil
}

func ifFunc(a *Args) (value.Value, error) {
	cond, err := a.Value(0, "condition")
	if err != nil {
		return nil, err
	}
	if value.Truthy(cond) {
		return a.Value(1, "if-true")
	}
	if v, ok := a.Get(2, "if-false"); ok {
		return v, nil
	}
	return value.NewString(""), nil
}

// position normalizes a background-position style keyword list to its
// horizontal and vertical parts, optionally mirrored.
func position(opposite bool) Func {
	return func(a *Args) (value.Value, error) {
		words := make(map[string]bool)
		for _, v := range a.Positional {
			for _, w := range strings.Fields(value.Unquote(v)) {
				words[strings.Trim(w, ",")] = true
			}
		}
		pick := func(first, second string) string {
			switch {
			case words[first] && opposite:
				return second
			case words[first]:
				return first
			case words[second] && opposite:
				return first
			case words[second]:
				return second
			}
			return "center"
		}
		hrz, vrt := pick("left", "right"), pick("top", "bottom")
		if hrz == vrt {
			return value.NewString(hrz), nil
		}
		return value.NewList("", value.NewString(hrz), value.NewString(vrt)), nil
	}
}
