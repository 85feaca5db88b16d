/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

// Hints counts the notations a color was built from. The notation with the
// most votes decides how the color is written back out.
type Hints struct {
	Hex  int
	RGB  int
	RGBA int
	HSL  int
	HSLA int
}

func (h Hints) merge(o Hints) Hints {
	return Hints{
		Hex:  h.Hex + o.Hex,
		RGB:  h.RGB + o.RGB,
		RGBA: h.RGBA + o.RGBA,
		HSL:  h.HSL + o.HSL,
		HSLA: h.HSLA + o.HSLA,
	}
}

func (h Hints) prefersHSL() bool {
	return h.HSL+h.HSLA > h.Hex+h.RGB+h.RGBA
}

// Color is an RGBA color. R, G and B range over 0-255 and A over 0-1.
type Color struct {
	R, G, B, A float64
	Hints      Hints
}

// RGBA returns a clamped color with an rgb/rgba hint.
func RGBA(r, g, b, a float64) Color {
	c := Color{R: r, G: g, B: b, A: a}.clamp()
	if c.A < 1 {
		c.Hints.RGBA = 1
	} else {
		c.Hints.RGB = 1
	}
	return c
}

// HSLA returns the color for hue h in degrees, saturation s and lightness l
// in 0-1, and alpha a.
func HSLA(h, s, l, a float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	cc := colorful.Hsl(h, clamp(s, 0, 1), clamp(l, 0, 1)).Clamped()
	c := Color{R: cc.R * 255, G: cc.G * 255, B: cc.B * 255, A: a}.clamp()
	if c.A < 1 {
		c.Hints.HSLA = 1
	} else {
		c.Hints.HSL = 1
	}
	return c
}

// Kind implements Value.
func (Color) Kind() Kind { return KindColor }

func (Color) isValue() {}

func (c Color) String() string {
	if c.Hints.prefersHSL() {
		h, s, l := c.HSL()
		if c.A >= 1 {
			return fmt.Sprintf("hsl(%s, %s%%, %s%%)", FormatFloat(h), FormatFloat(s*100), FormatFloat(l*100))
		}
		return fmt.Sprintf("hsla(%s, %s%%, %s%%, %s)", FormatFloat(h), FormatFloat(s*100), FormatFloat(l*100), FormatFloat(c.A))
	}
	if c.A >= 1 {
		return c.Hex()
	}
	r, g, b := c.bytes()
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, FormatFloat(c.A))
}

// Hex returns the #rrggbb form, ignoring alpha.
func (c Color) Hex() string {
	r, g, b := c.bytes()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// HSL returns hue in degrees and saturation and lightness in 0-1.
func (c Color) HSL() (h, s, l float64) {
	return colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}.Hsl()
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp(a, 0, 1)
	return c
}

// WithHSL returns a color with the given hue, saturation and lightness that
// keeps c's alpha and notation hints.
func (c Color) WithHSL(h, s, l float64) Color {
	out := HSLA(h, s, l, c.A)
	out.Hints = c.Hints
	return out
}

func (c Color) bytes() (r, g, b int) {
	return int(math.Round(c.R)), int(math.Round(c.G)), int(math.Round(c.B))
}

func (c Color) clamp() Color {
	c.R = clamp(c.R, 0, 255)
	c.G = clamp(c.G, 0, 255)
	c.B = clamp(c.B, 0, 255)
	c.A = clamp(c.A, 0, 1)
	return c
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ParseHex parses #rgb, #rgba, #rrggbb and #rrggbbaa colors.
func ParseHex(s string) (Color, bool) {
	if !strings.HasPrefix(s, "#") {
		return Color{}, false
	}
	h := s[1:]
	switch len(h) {
	case 3, 4:
		var sb strings.Builder
		for _, r := range h {
			sb.WriteRune(r)
			sb.WriteRune(r)
		}
		h = sb.String()
	case 6, 8:
	default:
		return Color{}, false
	}
	n, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return Color{}, false
	}
	a := 1.0
	if len(h) == 8 {
		a = float64(n&0xff) / 255
		n >>= 8
	}
	c := Color{
		R: float64(n >> 16 & 0xff),
		G: float64(n >> 8 & 0xff),
		B: float64(n & 0xff),
		A: a,
	}
	c.Hints.Hex = 1
	return c, true
}

// ParseColor parses a hex color, a color keyword, or rgb()/rgba()/hsl()/hsla()
// notation.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if c, ok := ParseHex(s); ok {
		return c, true
	}
	lower := strings.ToLower(s)
	if !IsColorName(lower) && !isColorFunction(lower) {
		return Color{}, false
	}
	parsed, err := csscolorparser.Parse(lower)
	if err != nil {
		return Color{}, false
	}
	c := Color{R: parsed.R * 255, G: parsed.G * 255, B: parsed.B * 255, A: parsed.A}.clamp()
	switch {
	case strings.HasPrefix(lower, "hsla("):
		c.Hints.HSLA = 1
	case strings.HasPrefix(lower, "hsl("):
		c.Hints.HSL = 1
	case strings.HasPrefix(lower, "rgba("):
		c.Hints.RGBA = 1
	case strings.HasPrefix(lower, "rgb("):
		c.Hints.RGB = 1
	default:
		c.Hints.Hex = 1
	}
	return c, true
}

func isColorFunction(s string) bool {
	for _, p := range []string{"rgb(", "rgba(", "hsl(", "hsla("} {
		if strings.HasPrefix(s, p) && strings.HasSuffix(s, ")") {
			return true
		}
	}
	return false
}

// ToColor coerces v to a Color. Unquoted strings naming a color are accepted.
func ToColor(v Value) (Color, bool) {
	switch v := v.(type) {
	case Color:
		return v, true
	case String:
		if v.Quoted() {
			return Color{}, false
		}
		return ParseColor(v.Value)
	default:
		return Color{}, false
	}
}
