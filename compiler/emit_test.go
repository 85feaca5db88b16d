/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rule(media []string, selectors []string, props ...Property) *Fragment {
	return &Fragment{Selectors: selectors, Media: media, Properties: props}
}

func prop(name, value string) Property {
	return Property{Name: name, Value: value}
}

func TestPrinter(t *testing.T) {
	red := prop("color", "red")
	tests := []struct {
		name     string
		compress bool
		frags    []*Fragment
		want     string
	}{
		{
			name:     "media grouping pretty",
			compress: false,
			frags: []*Fragment{
				rule([]string{"print"}, []string{".a"}, red),
				rule([]string{"print"}, []string{".b"}, red),
				rule(nil, []string{".c"}, red),
			},
			want: "@media print {\n  .a {\n    color: red;\n  }\n  .b {\n    color: red;\n  }\n}\n.c {\n  color: red;\n}\n",
		},
		{
			name:     "media grouping compressed",
			compress: true,
			frags: []*Fragment{
				rule([]string{"print"}, []string{".a"}, red),
				rule([]string{"print", "print"}, []string{".b"}, red),
			},
			want: "@media print{.a{color:red}.b{color:red}}",
		},
		{
			name:     "same selector set merges",
			compress: true,
			frags: []*Fragment{
				rule(nil, []string{".a", ".b"}, red),
				rule(nil, []string{".a", ".b"}, prop("margin", "0")),
			},
			want: ".a,.b{color:red;margin:0}",
		},
		{
			name:     "selector list pretty",
			compress: false,
			frags:    []*Fragment{rule(nil, []string{".a", ".b"}, red)},
			want:     ".a, .b {\n  color: red;\n}\n",
		},
		{
			name:     "top level lines",
			compress: true,
			frags: []*Fragment{
				rule(nil, []string{""}, Property{Name: `@charset "utf-8"`, Bare: true}),
				rule(nil, []string{".a"}, red),
			},
			want: `@charset "utf-8";.a{color:red}`,
		},
		{
			name:     "default suppressed and repeats dropped",
			compress: true,
			frags: []*Fragment{
				rule(nil, []string{".a"}, red, red, prop("color", "blue !default"), prop("width", "1px !default")),
			},
			want: ".a{color:red;width:1px}",
		},
		{
			name:     "empty fragments skipped",
			compress: true,
			frags: []*Fragment{
				rule(nil, []string{".a"}),
				rule(nil, []string{".b"}, red),
			},
			want: ".b{color:red}",
		},
		{
			name:     "raw block pretty",
			compress: false,
			frags: []*Fragment{
				{Raw: &RawBlock{Header: "@font-face", Body: "font-family: x; src: url(a)"}},
			},
			want: "@font-face {\n  font-family: x;\n  src: url(a);\n}\n",
		},
		{
			name:     "raw block inside media",
			compress: true,
			frags: []*Fragment{
				{Media: []string{"print"}, Raw: &RawBlock{Header: "@page", Body: "margin: 1cm;"}},
			},
			want: "@media print{@page{margin:1cm}}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &printer{compress: tt.compress}
			css, emitted := p.print(tt.frags)
			assert.Equal(t, tt.want, css)
			assert.NotEmpty(t, emitted)
		})
	}
}

func TestMediaQuery(t *testing.T) {
	assert.Equal(t, "", mediaQuery(nil))
	assert.Equal(t, "screen and (min-width: 1px)", mediaQuery([]string{"screen", "(min-width: 1px)", "screen"}))
}
