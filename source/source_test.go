/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cascade/diag"
	"bennypowers.dev/cascade/source"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"block comment", "a /* note */ b", "a  b"},
		{"line comment", "a: 1; // note\nb: 2;", "a: 1; \nb: 2;"},
		{"url kept", "background: url(http://x.test/a.png);", "background: url(http://x.test/a.png);"},
		{"unclosed comment", "a /* b", "a /* b"},
		{"trailing line comment", "a // b", "a "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, source.Normalize(tt.in))
		})
	}
}

func TestNormalize_ProtectsStrings(t *testing.T) {
	in := `content: "a;b{c}//d:e"; x: 'f/*g*/'`
	out := source.Normalize(in)
	assert.NotContains(t, out, "a;b")
	assert.Equal(t, 1, countByte(out, ';'))
	assert.Equal(t, in, source.Restore(out))
}

func TestNormalize_KeepsStringInterpolation(t *testing.T) {
	out := source.Normalize(`content: "x-#{$name}: y"`)
	assert.Contains(t, out, "#{$name}")
	assert.Equal(t, `content: "x-#{$name}: y"`, source.Restore(out))
}

func TestNormalizeMap(t *testing.T) {
	in := "/* x */a: \"b;c\"; // d\n}"
	out, offsets := source.NormalizeMap(in)
	assert.Equal(t, source.Normalize(in), out)
	require.Len(t, offsets, len(out))

	for i := 0; i < len(out); i++ {
		if out[i] < 0x80 {
			assert.Equal(t, out[i], in[offsets.Origin(i)], "offset %d", i)
		}
	}
	assert.Equal(t, len(in)-1, offsets.Origin(len(out)-1))
	assert.Equal(t, len(in), offsets.Origin(len(out)))
	assert.Equal(t, -1, offsets.Origin(-1))
}

func TestRestore_Plain(t *testing.T) {
	assert.Equal(t, "a{b:c}", source.Restore("a{b:c}"))
}

func countByte(s string, c byte) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			n++
		}
	}
	return n
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []source.Block
	}{
		{
			name: "single block",
			in:   ".a { color: red; }",
			want: []source.Block{{Header: ".a", Body: "color: red;", HasBody: true, Offset: 0}},
		},
		{
			name: "loose then block",
			in:   "$c: #ff0000; .b { color: $c; }",
			want: []source.Block{
				{Header: "$c: #ff0000", Offset: 0},
				{Header: ".b", Body: "color: $c;", HasBody: true, Offset: 13},
			},
		},
		{
			name: "nested braces",
			in:   ".a { .b { x: y } }",
			want: []source.Block{{Header: ".a", Body: ".b { x: y }", HasBody: true, Offset: 0}},
		},
		{
			name: "interpolated header",
			in:   ".x-#{$n} { a: b }",
			want: []source.Block{{Header: ".x-#{$n}", Body: "a: b", HasBody: true, Offset: 0}},
		},
		{
			name: "line without semicolon before block",
			in:   "@import foo\n.a { b: c }",
			want: []source.Block{
				{Header: "@import foo", Offset: 0},
				{Header: ".a", Body: "b: c", HasBody: true, Offset: 12},
			},
		},
		{
			name: "selector list across lines",
			in:   ".a,\n.b { c: d }",
			want: []source.Block{{Header: ".a,\n.b", Body: "c: d", HasBody: true, Offset: 0}},
		},
		{
			name: "parenthesized header",
			in:   "@mixin m($a: 1,\n $b: 2) { x: $a }",
			want: []source.Block{{Header: "@mixin m($a: 1,\n $b: 2)", Body: "x: $a", HasBody: true, Offset: 0}},
		},
		{
			name: "trailing declarations",
			in:   "a { } b: c; d: e",
			want: []source.Block{
				{Header: "a", HasBody: true, Offset: 0},
				{Header: "b: c", Offset: 6},
				{Header: "d: e", Offset: 12},
			},
		},
		{
			name: "braces in strings",
			in:   `.a { content: "}" }`,
			want: []source.Block{{Header: ".a", Body: `content: "}"`, HasBody: true, Offset: 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := source.Locate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		err    error
		header string
	}{
		{"unclosed block", ".a { color: red;", diag.ErrUnclosedBlock, ".a"},
		{"unclosed string in block", `.a { content: "x; }`, diag.ErrUnclosedString, ".a"},
		{"unclosed paren in block", ".a { x: f(1; }", diag.ErrUnclosedParen, ".a"},
		{"stray brace", "a: b; }", diag.ErrUnexpectedClose, "a: b;"},
		{"unclosed string", `a: "b`, diag.ErrUnclosedString, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := source.Locate(tt.in)
			require.ErrorIs(t, err, tt.err)
			var se *diag.StructuralError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.header, se.Header)
		})
	}
}

func TestLocator_Lazy(t *testing.T) {
	loc := source.NewLocator("a { } b { } c { }")
	require.True(t, loc.Next())
	assert.Equal(t, "a", loc.Block().Header)
	require.True(t, loc.Next())
	assert.Equal(t, "b", loc.Block().Header)
	require.True(t, loc.Next())
	assert.Equal(t, "c", loc.Block().Header)
	assert.False(t, loc.Next())
	assert.NoError(t, loc.Err())
}
