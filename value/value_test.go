/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cascade/value"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{2.5, "2.5"},
		{1.0 / 3, "0.333"},
		{0.6666, "0.667"},
		{-0.0001, "0"},
		{-12.25, "-12.25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, value.FormatFloat(tt.in))
	}
}

func TestArith_Numbers(t *testing.T) {
	n := value.NewNumber
	tests := []struct {
		name string
		op   value.Op
		a, b value.Value
		want string
	}{
		{"same unit", value.Add, n(1, "px"), n(2, "px"), "3px"},
		{"bare adopts unit", value.Add, n(1, "px"), n(2, ""), "3px"},
		{"converted length", value.Add, n(1, "cm"), n(10, "mm"), "2cm"},
		{"inches and pixels", value.Add, n(1, "in"), n(96, "px"), "2in"},
		{"time", value.Sub, n(1, "s"), n(500, "ms"), "0.5s"},
		{"percentage and bare", value.Add, n(50, "%"), n(1, ""), "150%"},
		{"bare and percentage", value.Sub, n(1, ""), n(50, "%"), "50%"},
		{"percentage of length", value.Add, n(10, "px"), n(50, "%"), "15px"},
		{"scale by percentage", value.Mul, n(10, "px"), n(50, "%"), "5px"},
		{"multiply", value.Mul, n(10, "px"), n(2, ""), "20px"},
		{"multiply bare first", value.Mul, n(2, ""), n(10, "px"), "20px"},
		{"ratio", value.Div, n(10, "px"), n(2, "px"), "5"},
		{"divide", value.Div, n(10, "px"), n(4, ""), "2.5px"},
		{"incompatible keeps left unit", value.Add, n(1, "px"), n(2, "s"), "3px"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := value.Arith(tt.op, tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestArith_DivideByZero(t *testing.T) {
	_, err := value.Arith(value.Div, value.NewNumber(1, "px"), value.NewNumber(0, ""))
	assert.ErrorIs(t, err, value.ErrDivideByZero)
}

func TestArith_Colors(t *testing.T) {
	a, ok := value.ParseHex("#111")
	require.True(t, ok)
	b, ok := value.ParseHex("#222222")
	require.True(t, ok)

	sum, err := value.Arith(value.Add, a, b)
	require.NoError(t, err)
	assert.Equal(t, "#333333", sum.String())

	doubled, err := value.Arith(value.Mul, b, value.NewNumber(2, ""))
	require.NoError(t, err)
	assert.Equal(t, "#444444", doubled.String())

	clamped, err := value.Arith(value.Add, value.NewString("red"), a)
	require.NoError(t, err)
	assert.Equal(t, "#ff1111", clamped.String())
}

func TestArith_Strings(t *testing.T) {
	got, err := value.Arith(value.Add, value.NewQuoted("a"), value.NewString("b"))
	require.NoError(t, err)
	assert.Equal(t, `"ab"`, got.String())

	got, err = value.Arith(value.Add, value.NewNumber(1, "px"), value.NewString("solid"))
	require.NoError(t, err)
	assert.Equal(t, "1pxsolid", got.String())

	_, err = value.Arith(value.Sub, value.NewString("a"), value.NewString("b"))
	assert.ErrorIs(t, err, value.ErrIncompatible)
}

func TestArith_Lists(t *testing.T) {
	l := value.NewList("", value.NewNumber(1, "px"), value.NewNumber(2, "px"))

	got, err := value.Arith(value.Mul, l, value.NewNumber(2, ""))
	require.NoError(t, err)
	assert.Equal(t, "2px 4px", got.String())

	got, err = value.Arith(value.Add, l, value.NewList("", value.NewNumber(1, "px")))
	require.NoError(t, err)
	assert.Equal(t, "2px 2px", got.String())
}

func TestCompare(t *testing.T) {
	n := value.NewNumber
	assert.True(t, bool(value.Compare(value.Eq, n(1, "cm"), n(10, "mm"))))
	assert.True(t, bool(value.Compare(value.Lt, n(1, "px"), n(2, "px"))))
	assert.True(t, bool(value.Compare(value.Ge, n(2, ""), n(2, ""))))
	assert.False(t, bool(value.Compare(value.Eq, n(1, "px"), n(1, "s"))))
	assert.True(t, bool(value.Compare(value.Eq, value.NewQuoted("a"), value.NewString("a"))))
	assert.True(t, bool(value.Compare(value.Ne, value.Bool(true), value.Bool(false))))
	assert.True(t, bool(value.Compare(value.Eq, value.NewString("red"), value.RGBA(255, 0, 0, 1))))
}

func TestColor_String(t *testing.T) {
	assert.Equal(t, "#ff0000", value.RGBA(255, 0, 0, 1).String())
	assert.Equal(t, "rgba(255, 0, 0, 0.5)", value.RGBA(255, 0, 0, 0.5).String())
	assert.Equal(t, "hsl(0, 100%, 50%)", value.HSLA(0, 1, 0.5, 1).String())
	assert.Equal(t, "hsla(120, 100%, 25%, 0.3)", value.HSLA(120, 1, 0.25, 0.3).String())
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#abc", "#aabbcc"},
		{"#aabbccdd", "rgba(170, 187, 204, 0.867)"},
		{"tomato", "#ff6347"},
		{"RED", "#ff0000"},
		{"rgb(1, 2, 3)", "#010203"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, ok := value.ParseColor(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, c.String())
		})
	}

	_, ok := value.ParseColor("solid")
	assert.False(t, ok)
}

func TestShortestSpelling(t *testing.T) {
	tests := map[string]string{
		"#ff0000":              "red",
		"#FF0000":              "red",
		"#f00":                 "red",
		"#ffffff":              "#fff",
		"white":                "#fff",
		"rgb(0, 0, 0)":         "#000",
		"#808080":              "gray",
		"#d2b48c":              "tan",
		"lightgoldenrodyellow": "#fafad2",
	}
	for in, want := range tests {
		got, ok := value.ShortestSpelling(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := value.ShortestSpelling("#123456")
	assert.False(t, ok)
}

func TestTruthy(t *testing.T) {
	assert.True(t, value.Truthy(value.Bool(true)))
	assert.False(t, value.Truthy(value.Bool(false)))
	assert.False(t, value.Truthy(value.NewNumber(0, "px")))
	assert.False(t, value.Truthy(value.NewString("false")))
	assert.False(t, value.Truthy(value.NewString("")))
	assert.True(t, value.Truthy(value.NewString("solid")))
	assert.True(t, value.Truthy(value.NewQuoted("")))
}

func TestToList(t *testing.T) {
	l := value.ToList(value.NewString("a, b, c"))
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, ",", l.Sep)
	assert.Equal(t, "a, b, c", l.String())

	l = value.ToList(value.NewString("1px solid red"))
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, "", l.Sep)

	l = value.ToList(value.NewNumber(1, ""))
	assert.Equal(t, 1, l.Len())
}
