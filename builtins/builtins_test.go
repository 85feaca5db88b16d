/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package builtins_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cascade/builtins"
	"bennypowers.dev/cascade/value"
)

func n(v float64, unit string) value.Value { return value.NewNumber(v, unit) }

func s(v string) value.Value { return value.NewString(v) }

func q(v string) value.Value { return value.NewQuoted(v) }

func hex(t *testing.T, h string) value.Value {
	t.Helper()
	c, ok := value.ParseHex(h)
	require.True(t, ok, h)
	return c
}

func call(t *testing.T, name string, args ...value.Value) (value.Value, error) {
	t.Helper()
	entries := make([]value.Entry, len(args))
	for i, a := range args {
		entries[i] = value.Entry{Value: a}
	}
	v, found, err := builtins.Default().Call(name, entries)
	require.True(t, found, "%s/%d not registered", name, len(args))
	return v, err
}

func TestColorFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []value.Value
		want string
	}{
		{"rgb", "rgb", []value.Value{n(255, ""), n(0, ""), n(0, "")}, "#ff0000"},
		{"rgb percentages", "rgb", []value.Value{n(100, "%"), n(0, "%"), n(0, "%")}, "#ff0000"},
		{"rgba", "rgba", []value.Value{n(255, ""), n(0, ""), n(0, ""), n(0.5, "")}, "rgba(255, 0, 0, 0.5)"},
		{"rgba of color", "rgba", []value.Value{hex(t, "#ff0000"), n(0.5, "")}, "rgba(255, 0, 0, 0.5)"},
		{"hsl", "hsl", []value.Value{n(0, ""), n(100, "%"), n(50, "%")}, "hsl(0, 100%, 50%)"},
		{"red channel", "red", []value.Value{hex(t, "#102030")}, "16"},
		{"blue channel", "blue", []value.Value{hex(t, "#102030")}, "48"},
		{"alpha", "alpha", []value.Value{value.RGBA(0, 0, 0, 0.5)}, "0.5"},
		{"saturation", "saturation", []value.Value{hex(t, "#ff0000")}, "100%"},
		{"lightness", "lightness", []value.Value{hex(t, "#ff0000")}, "50%"},
		{"lighten", "lighten", []value.Value{hex(t, "#880000"), n(20, "%")}, "#ee0000"},
		{"darken", "darken", []value.Value{hex(t, "#ee0000"), n(20, "%")}, "#880000"},
		{"lighten clamps", "lighten", []value.Value{hex(t, "#eeeeee"), n(50, "%")}, "#ffffff"},
		{"color keyword", "darken", []value.Value{s("white"), n(100, "%")}, "#000000"},
		{"complement", "complement", []value.Value{hex(t, "#ff0000")}, "#00ffff"},
		{"grayscale", "grayscale", []value.Value{hex(t, "#ff0000")}, "#808080"},
		{"invert", "invert", []value.Value{hex(t, "#000")}, "#ffffff"},
		{"mix", "mix", []value.Value{hex(t, "#ff0000"), hex(t, "#0000ff")}, "#800080"},
		{"mix weighted", "mix", []value.Value{hex(t, "#ff0000"), hex(t, "#0000ff"), n(100, "%")}, "#ff0000"},
		{"transparentize", "transparentize", []value.Value{value.RGBA(0, 0, 0, 0.5), n(0.25, "")}, "rgba(0, 0, 0, 0.25)"},
		{"opacify", "opacify", []value.Value{value.RGBA(0, 0, 0, 0.5), n(0.5, "")}, "#000000"},
		{"ie hex", "ie-hex-str", []value.Value{value.RGBA(255, 0, 0, 0.5)}, "#80FF0000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, tt.fn, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestEditColor(t *testing.T) {
	tests := []struct {
		name   string
		fn     string
		key    string
		amount value.Value
		want   string
	}{
		{"adjust red", "adjust-color", "$red", n(16, ""), "#102030"},
		{"change lightness", "change-color", "$lightness", n(50, "%"), "#ff0000"},
		{"scale blue", "scale-color", "$blue", n(100, "%"), "#0020ff"},
		{"change alpha", "change-color", "$alpha", n(0.5, ""), "rgba(0, 32, 48, 0.5)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := hex(t, "#002030")
			if tt.fn == "change-color" && tt.key == "$lightness" {
				base = hex(t, "#800000")
			}
			v, found, err := builtins.Default().Call(tt.fn, []value.Entry{
				{Value: base},
				{Key: tt.key, Value: tt.amount},
			})
			require.True(t, found)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestColorFunctions_BadArgument(t *testing.T) {
	_, err := call(t, "lighten", s("solid"), n(10, "%"))
	assert.ErrorIs(t, err, builtins.ErrArgument)
}

func TestListFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []value.Value
		want string
	}{
		{"nth", "nth", []value.Value{s("a b c"), n(2, "")}, "b"},
		{"nth last", "nth", []value.Value{s("a b c"), s("last")}, "c"},
		{"nth first", "nth", []value.Value{s("a, b, c"), s("first")}, "a"},
		{"compass nth", "-compass-nth", []value.Value{s("a b c"), n(1, "")}, "a"},
		{"length of list", "length", []value.Value{s("a, b, c")}, "3"},
		{"length of arguments", "length", []value.Value{s("a"), s("b")}, "2"},
		{"join", "join", []value.Value{s("a b"), s("c d")}, "a b c d"},
		{"join with separator", "join", []value.Value{s("a"), s("b"), s("comma")}, "a, b"},
		{"join adopts second separator", "join", []value.Value{s("a"), s("b, c")}, "a, b, c"},
		{"append", "append", []value.Value{s("a b"), s("c")}, "a b c"},
		{"append comma", "append", []value.Value{s("a b"), s("c"), s("comma")}, "a, b, c"},
		{"compact", "compact", []value.Value{s("a"), value.Bool(false), s("b")}, "a, b"},
		{"slice", "-compass-slice", []value.Value{s("a b c d"), n(2, ""), n(3, "")}, "b c"},
		{"slice to end", "-compass-slice", []value.Value{s("a b c d"), n(3, "")}, "c d"},
		{"space list", "-compass-space-list", []value.Value{s("a, b")}, "a b"},
		{"first value", "first-value-of", []value.Value{s("1px solid red")}, "1px"},
		{"blank whitespace", "blank", []value.Value{s("  ")}, "true"},
		{"blank value", "blank", []value.Value{s("a")}, "false"},
		{"blank false", "blank", []value.Value{value.Bool(false)}, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, tt.fn, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNth_OutOfRange(t *testing.T) {
	_, err := call(t, "nth", s("a b"), n(3, ""))
	assert.ErrorIs(t, err, builtins.ErrArgument)
}

func TestSelectorFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []value.Value
		want string
	}{
		{"nest", "nest", []value.Value{s(".b, .a"), s("p")}, ".a p, .b p"},
		{"nest parent reference", "nest", []value.Value{s(".a"), s("&:hover")}, ".a:hover"},
		{"nest three deep", "nest", []value.Value{s("ul"), s("li"), s("a")}, "ul li a"},
		{"append selector", "append-selector", []value.Value{s(".a, .b"), s(".c")}, ".a.c, .b.c"},
		{"headers", "headers", nil, "h1, h2, h3, h4, h5, h6"},
		{"headers all", "headers", []value.Value{s("all")}, "h1, h2, h3, h4, h5, h6"},
		{"headers to", "headers", []value.Value{n(3, "")}, "h1, h2, h3"},
		{"headers range", "headers", []value.Value{n(2, ""), n(4, "")}, "h2, h3, h4"},
		{"enumerate", "enumerate", []value.Value{s(".col"), n(1, ""), n(3, "")}, ".col-1, .col-2, .col-3"},
		{"enumerate separator", "enumerate", []value.Value{s("x"), n(1, ""), n(2, ""), s("_")}, "x_1, x_2"},
		{"enumerate without prefix", "enumerate", []value.Value{q(""), n(1, ""), n(2, "")}, "1, 2"},
		{"table cells", "elements-of-type", []value.Value{s("table-cell")}, "td, th"},
		{"html5", "elements-of-type", []value.Value{s("html5")}, "article, aside, dialog, figure, footer, header, hgroup, nav, section"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, tt.fn, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestMathAndMiscFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []value.Value
		want string
	}{
		{"percentage", "percentage", []value.Value{n(0.5, "")}, "50%"},
		{"unitless", "unitless", []value.Value{n(1, "px")}, "false"},
		{"unit", "unit", []value.Value{n(1, "px")}, `"px"`},
		{"comparable", "comparable", []value.Value{n(1, "px"), n(1, "in")}, "true"},
		{"not comparable", "comparable", []value.Value{n(1, "px"), n(1, "s")}, "false"},
		{"round", "round", []value.Value{n(1.5, "px")}, "2px"},
		{"floor", "floor", []value.Value{n(1.7, "em")}, "1em"},
		{"abs", "abs", []value.Value{n(-3, "")}, "3"},
		{"min", "min", []value.Value{n(2, "px"), n(1, "px"), n(3, "px")}, "1px"},
		{"max", "max", []value.Value{n(2, "px"), n(1, "px"), n(3, "px")}, "3px"},
		{"pi", "pi", nil, "3.142"},
		{"sin", "sin", []value.Value{n(90, "deg")}, "1"},
		{"cos radians", "cos", []value.Value{n(0, "")}, "1"},
		{"range", "range", []value.Value{n(3, "")}, "0, 1, 2, 3"},
		{"range between", "range", []value.Value{n(2, ""), n(4, "")}, "2, 3, 4"},
		{"unquote", "unquote", []value.Value{q("a"), q("b")}, "a b"},
		{"quote", "quote", []value.Value{s("a")}, `"a"`},
		{"escape", "e", []value.Value{q("progid:x")}, "progid:x"},
		{"str-length", "str-length", []value.Value{q("hello")}, "5"},
		{"upper case", "to-upper-case", []value.Value{q("abc")}, `"ABC"`},
		{"type of number", "type-of", []value.Value{n(1, "px")}, "number"},
		{"type of color", "type-of", []value.Value{value.RGBA(0, 0, 0, 1)}, "color"},
		{"type of string", "type-of", []value.Value{q("a")}, "string"},
		{"type of list", "type-of", []value.Value{value.NewList("", s("a"), s("b"))}, "list"},
		{"if true", "if", []value.Value{value.Bool(true), s("a"), s("b")}, "a"},
		{"if false", "if", []value.Value{n(0, ""), s("a"), s("b")}, "b"},
		{"position", "position", []value.Value{s("top left")}, "left top"},
		{"opposite position", "opposite-position", []value.Value{s("left top")}, "right bottom"},
		{"opposite horizontal", "opposite-position", []value.Value{s("right")}, "left center"},
		{"center", "position", []value.Value{s("center")}, "center"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, tt.fn, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestMin_Incompatible(t *testing.T) {
	_, err := call(t, "min", n(1, "px"), n(1, "s"))
	assert.ErrorIs(t, err, value.ErrIncompatible)
}

func TestTable_Lookup(t *testing.T) {
	tbl := builtins.NewTable()
	tbl.Register("pair", 2, "custom", func(a *builtins.Args) (value.Value, error) {
		return s("exact"), nil
	})
	tbl.Register("pair", builtins.Variadic, "custom", func(a *builtins.Args) (value.Value, error) {
		return s("variadic"), nil
	})

	fn, ok := tbl.Lookup("pair", 2)
	require.True(t, ok)
	got, err := fn(builtins.NewArgs(nil))
	require.NoError(t, err)
	assert.Equal(t, "exact", got.String())

	fn, ok = tbl.Lookup("pair", 5)
	require.True(t, ok)
	got, err = fn(builtins.NewArgs(nil))
	require.NoError(t, err)
	assert.Equal(t, "variadic", got.String())

	_, ok = tbl.Lookup("missing", 1)
	assert.False(t, ok)

	_, found, err := tbl.Call("missing", nil)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTable_CloneIsIndependent(t *testing.T) {
	base := builtins.Default()
	clone := base.Clone()
	clone.Register("shout", 1, "custom", func(a *builtins.Args) (value.Value, error) {
		return s("!"), nil
	})
	_, ok := clone.Lookup("shout", 1)
	assert.True(t, ok)
	_, ok = base.Lookup("shout", 1)
	assert.False(t, ok)
}

func TestTable_Entries(t *testing.T) {
	entries := builtins.Default().Entries()
	require.NotEmpty(t, entries)
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		assert.LessOrEqual(t, prev.Category, cur.Category)
	}
	assert.Equal(t, "mix:3", builtins.Entry{Name: "mix", Arity: 3}.Key())
	assert.Equal(t, "nest:n", builtins.Entry{Name: "nest", Arity: builtins.Variadic}.Key())
}

func TestArgs_Named(t *testing.T) {
	a := builtins.NewArgs([]value.Entry{
		{Value: n(1, "")},
		{Key: "$weight", Value: n(25, "%")},
	})
	assert.Equal(t, 2, a.Len())
	w, err := a.Number(5, "weight")
	require.NoError(t, err)
	assert.Equal(t, "25%", w.String())

	_, err = a.Number(3, "missing")
	assert.ErrorIs(t, err, builtins.ErrArgument)
}
