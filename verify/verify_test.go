/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package verify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cascade/compiler"
	"bennypowers.dev/cascade/internal/mapfs"
	"bennypowers.dev/cascade/verify"
)

func TestCSS(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		rules int
		decls int
		ats   int
	}{
		{"empty", "", 0, 0, 0},
		{"rules", ".a{color:red;margin:0}.b{x:y}", 2, 3, 0},
		{"media", "@media print{.a{color:red}}", 1, 1, 1},
		{"line at-rule", `@charset "utf-8";.a{b:c}`, 1, 1, 1},
		{"pretty", ".a,\n.b {\n  color: red;\n}\n", 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := verify.CSS(tt.in)
			assert.True(t, r.OK())
			assert.Equal(t, tt.rules, r.Rulesets)
			assert.Equal(t, tt.decls, r.Declarations)
			assert.Equal(t, tt.ats, r.AtRules)
			assert.NoError(t, verify.Check(tt.in))
		})
	}
}

// Compiled output parses as plain CSS, and compiling it again changes
// nothing.
func TestRoundTrip(t *testing.T) {
	sources := []string{
		"$c: #ff0000; .b { color: $c; .c { margin: 0px 1px; } }",
		".base { color: red; } .child { @extend .base; width: 1px; }",
		".a { x: y; @media print { x: z; } }",
		"@mixin m($w: 2px) { width: $w; } .a { @include m; } .b { @include m(3px); }",
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			opts := compiler.DefaultOptions()
			opts.FS = mapfs.New()

			first, err := compiler.Compile(src, opts)
			require.NoError(t, err)
			report := verify.CSS(first.CSS)
			require.True(t, report.OK())
			assert.Positive(t, report.Rulesets)

			second, err := compiler.Compile(first.CSS, opts)
			require.NoError(t, err)
			assert.Equal(t, first.CSS, second.CSS)
		})
	}
}
