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

func TestPostProcessor(t *testing.T) {
	all := postProcessor{compress: true, shortColors: true, reverseColors: true}
	tests := []struct {
		name string
		p    postProcessor
		in   string
		want string
	}{
		{"hex to keyword", all, "#ff0000", "red"},
		{"upper hex", all, "#FFFFFF", "#fff"},
		{"keyword to hex", all, "1px solid white", "1px solid #fff"},
		{"unknown hex", all, "#abcdef", "#abcdef"},
		{"zero units", all, "0px 0.5em 10px", "0 .5em 10px"},
		{"zero percent", all, "0%", "0"},
		{"negative fraction", all, "-0.5em", "-.5em"},
		{"function args", all, "rgba(0, 0, 0, 0.5)", "rgba(0, 0, 0, .5)"},
		{"url untouched", all, "url(#ff0000.png)", "url(#ff0000.png)"},
		{"quoted untouched", all, `"#ff0000 0px"`, `"#ff0000 0px"`},
		{"name with digits", all, "translate3d(0px, 1px, 0)", "translate3d(0, 1px, 0)"},
		{"function named like a color", all, "red(#000)", "red(#000)"},
		{"hyphenated keyword", all, "-webkit-red", "-webkit-red"},
		{"short colors only", postProcessor{shortColors: true}, "#aabbcc #ff0000", "#abc #f00"},
		{"no compression keeps zeros", postProcessor{reverseColors: true}, "0px #ff0000", "0px red"},
		{"disabled", postProcessor{}, "0px #ff0000", "0px #ff0000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.value(tt.in))
		})
	}
}

func TestSqueeze(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"font-family: x;\n  src: url(a.woff);", "font-family:x;src:url(a.woff)"},
		{"from { opacity: 0; } to { opacity: 1; }", "from{opacity:0}to{opacity:1}"},
		{`content: "a  b";`, `content:"a  b"`},
		{"a, b { c: d e }", "a,b{c:d e}"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, squeeze(tt.in))
		})
	}
}
