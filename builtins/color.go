/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package builtins

import (
	"fmt"
	"math"

	"bennypowers.dev/cascade/value"
)

const catColor = "color"

func registerColor(t *Table) {
	t.Register("rgb", 3, catColor, rgb)
	t.Register("rgba", 4, catColor, rgba)
	t.Register("rgba", 2, catColor, rgbaColor)
	t.Register("hsl", 3, catColor, hsl)
	t.Register("hsla", 4, catColor, hsla)

	t.Register("red", 1, catColor, channel(func(c value.Color) value.Value { return value.NewNumber(math.Round(c.R), "") }))
	t.Register("green", 1, catColor, channel(func(c value.Color) value.Value { return value.NewNumber(math.Round(c.G), "") }))
	t.Register("blue", 1, catColor, channel(func(c value.Color) value.Value { return value.NewNumber(math.Round(c.B), "") }))
	t.Register("alpha", 1, catColor, channel(func(c value.Color) value.Value { return value.NewNumber(c.A, "") }))
	t.Register("opacity", 1, catColor, channel(func(c value.Color) value.Value { return value.NewNumber(c.A, "") }))
	t.Register("hue", 1, catColor, channel(func(c value.Color) value.Value {
		h, _, _ := c.HSL()
		return value.NewNumber(h, "deg")
	}))
	t.Register("saturation", 1, catColor, channel(func(c value.Color) value.Value {
		_, s, _ := c.HSL()
		return value.NewNumber(s*100, "%")
	}))
	t.Register("lightness", 1, catColor, channel(func(c value.Color) value.Value {
		_, _, l := c.HSL()
		return value.NewNumber(l*100, "%")
	}))

	t.Register("lighten", 2, catColor, hslOp(func(h, s, l, amt float64) (float64, float64, float64) { return h, s, l + amt }))
	t.Register("darken", 2, catColor, hslOp(func(h, s, l, amt float64) (float64, float64, float64) { return h, s, l - amt }))
	t.Register("saturate", 2, catColor, hslOp(func(h, s, l, amt float64) (float64, float64, float64) { return h, s + amt, l }))
	t.Register("desaturate", 2, catColor, hslOp(func(h, s, l, amt float64) (float64, float64, float64) { return h, s - amt, l }))
	t.Register("adjust-hue", 2, catColor, adjustHue)
	t.Register("spin", 2, catColor, adjustHue)
	t.Register("complement", 1, catColor, complement)
	t.Register("grayscale", 1, catColor, grayscale)
	t.Register("greyscale", 1, catColor, grayscale)
	t.Register("invert", 1, catColor, invert)

	t.Register("opacify", 2, catColor, alphaOp(1))
	t.Register("fade-in", 2, catColor, alphaOp(1))
	t.Register("transparentize", 2, catColor, alphaOp(-1))
	t.Register("fade-out", 2, catColor, alphaOp(-1))

	t.Register("mix", 2, catColor, mix)
	t.Register("mix", 3, catColor, mix)

	t.Register("adjust-color", Variadic, catColor, editColor(adjustChannel, false))
	t.Register("scale-color", Variadic, catColor, editColor(scaleChannel, true))
	t.Register("change-color", Variadic, catColor, editColor(changeChannel, false))
	t.Register("ie-hex-str", 1, catColor, ieHexStr)
}

// byteChannel reads an rgb channel given as 0-255 or as a percentage.
func byteChannel(n value.Number) float64 {
	if n.Unit == "%" {
		return n.Value * 255 / 100
	}
	return n.Value
}

func alphaChannel(n value.Number) float64 {
	if n.Unit == "%" {
		return n.Value / 100
	}
	return n.Value
}

func numbers(a *Args, names ...string) ([]value.Number, error) {
	out := make([]value.Number, len(names))
	for i, name := range names {
		n, err := a.Number(i, name)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func rgb(a *Args) (value.Value, error) {
	n, err := numbers(a, "red", "green", "blue")
	if err != nil {
		return nil, err
	}
	return value.RGBA(byteChannel(n[0]), byteChannel(n[1]), byteChannel(n[2]), 1), nil
}

func rgba(a *Args) (value.Value, error) {
	n, err := numbers(a, "red", "green", "blue", "alpha")
	if err != nil {
		return nil, err
	}
	c := value.RGBA(byteChannel(n[0]), byteChannel(n[1]), byteChannel(n[2]), alphaChannel(n[3]))
	c.Hints = value.Hints{RGBA: 1}
	return c, nil
}

// rgbaColor handles rgba($color, $alpha).
func rgbaColor(a *Args) (value.Value, error) {
	c, err := a.Color(0, "color")
	if err != nil {
		return nil, err
	}
	alpha, err := a.Number(1, "alpha")
	if err != nil {
		return nil, err
	}
	c = c.WithAlpha(alphaChannel(alpha))
	c.Hints = value.Hints{RGBA: 1}
	return c, nil
}

func hsl(a *Args) (value.Value, error) {
	n, err := numbers(a, "hue", "saturation", "lightness")
	if err != nil {
		return nil, err
	}
	return value.HSLA(n[0].Value, fraction(n[1]), fraction(n[2]), 1), nil
}

func hsla(a *Args) (value.Value, error) {
	n, err := numbers(a, "hue", "saturation", "lightness", "alpha")
	if err != nil {
		return nil, err
	}
	return value.HSLA(n[0].Value, fraction(n[1]), fraction(n[2]), alphaChannel(n[3])), nil
}

func channel(get func(value.Color) value.Value) Func {
	return func(a *Args) (value.Value, error) {
		c, err := a.Color(0, "color")
		if err != nil {
			return nil, err
		}
		return get(c), nil
	}
}

func hslOp(adjust func(h, s, l, amount float64) (float64, float64, float64)) Func {
	return func(a *Args) (value.Value, error) {
		c, err := a.Color(0, "color")
		if err != nil {
			return nil, err
		}
		amount, err := a.Number(1, "amount")
		if err != nil {
			return nil, err
		}
		h, s, l := c.HSL()
		h, s, l = adjust(h, s, l, fraction(amount))
		return c.WithHSL(h, clampUnit(s), clampUnit(l)), nil
	}
}

func adjustHue(a *Args) (value.Value, error) {
	c, err := a.Color(0, "color")
	if err != nil {
		return nil, err
	}
	deg, err := a.Number(1, "degrees")
	if err != nil {
		return nil, err
	}
	h, s, l := c.HSL()
	return c.WithHSL(h+deg.Value, s, l), nil
}

func complement(a *Args) (value.Value, error) {
	c, err := a.Color(0, "color")
	if err != nil {
		return nil, err
	}
	h, s, l := c.HSL()
	return c.WithHSL(h+180, s, l), nil
}

func grayscale(a *Args) (value.Value, error) {
	c, err := a.Color(0, "color")
	if err != nil {
		return nil, err
	}
	h, _, l := c.HSL()
	return c.WithHSL(h, 0, l), nil
}

func invert(a *Args) (value.Value, error) {
	c, err := a.Color(0, "color")
	if err != nil {
		return nil, err
	}
	out := value.RGBA(255-c.R, 255-c.G, 255-c.B, c.A)
	out.Hints = c.Hints
	return out, nil
}

// alphaOp moves alpha by amount in direction sign.
func alphaOp(sign float64) Func {
	return func(a *Args) (value.Value, error) {
		c, err := a.Color(0, "color")
		if err != nil {
			return nil, err
		}
		amount, err := a.Number(1, "amount")
		if err != nil {
			return nil, err
		}
		out := c.WithAlpha(c.A + sign*fraction(amount))
		if out.A < 1 {
			out.Hints = value.Hints{RGBA: 1}
		}
		return out, nil
	}
}

// mix blends two colors using the weighted algorithm where alpha
// differences shift the effective weight.
func mix(a *Args) (value.Value, error) {
	c1, err := a.Color(0, "color1")
	if err != nil {
		return nil, err
	}
	c2, err := a.Color(1, "color2")
	if err != nil {
		return nil, err
	}
	p := 0.5
	if w, ok := a.Get(2, "weight"); ok {
		n, err := toNumber(w, "weight")
		if err != nil {
			return nil, err
		}
		p = clampUnit(fraction(n))
	}

	w := p*2 - 1
	diff := c1.A - c2.A
	var w1 float64
	if w*diff == -1 {
		w1 = (w + 1) / 2
	} else {
		w1 = ((w+diff)/(1+w*diff) + 1) / 2
	}
	w2 := 1 - w1

	out := value.RGBA(
		c1.R*w1+c2.R*w2,
		c1.G*w1+c2.G*w2,
		c1.B*w1+c2.B*w2,
		c1.A*p+c2.A*(1-p),
	)
	out.Hints = c1.Hints
	if out.A < 1 {
		out.Hints = value.Hints{RGBA: 1}
	}
	return out, nil
}

// channelEdit combines the current channel value with an amount. limit is
// the channel's upper bound.
type channelEdit func(current, amount, limit float64) float64

func adjustChannel(current, amount, _ float64) float64 { return current + amount }

func changeChannel(_, amount, _ float64) float64 { return amount }

// scaleChannel moves current toward limit, or toward zero for negative
// amounts, by the given fraction of the remaining distance.
func scaleChannel(current, amount, limit float64) float64 {
	if amount > 0 {
		return current + (limit-current)*amount
	}
	return current + current*amount
}

// editColor applies keyword arguments such as $red, $lightness and $alpha
// to the color given as the first argument. Scaling reads every amount as a
// percentage and ignores $hue.
func editColor(edit channelEdit, scaling bool) Func {
	amount := func(a *Args, name string, percent bool) (float64, bool, error) {
		v, ok := a.Named[name]
		if !ok {
			return 0, false, nil
		}
		n, err := toNumber(v, name)
		if err != nil {
			return 0, false, err
		}
		switch {
		case scaling || percent:
			return fraction(n), true, nil
		case n.Unit == "%":
			return n.Value / 100, true, nil
		}
		return n.Value, true, nil
	}

	return func(a *Args) (value.Value, error) {
		c, err := a.Color(0, "color")
		if err != nil {
			return nil, err
		}

		out := c
		h, sat, l := c.HSL()
		hslChanged := false
		for _, ch := range []struct {
			name string
			v    *float64
		}{{"saturation", &sat}, {"lightness", &l}} {
			amt, ok, err := amount(a, ch.name, true)
			if err != nil {
				return nil, err
			}
			if ok {
				*ch.v = clampUnit(edit(*ch.v, amt, 1))
				hslChanged = true
			}
		}
		if v, ok := a.Named["hue"]; ok && !scaling {
			deg, err := toNumber(v, "hue")
			if err != nil {
				return nil, err
			}
			h = edit(h, deg.Value, 360)
			hslChanged = true
		}
		if hslChanged {
			out = c.WithHSL(h, sat, l)
		}

		r, g, b := out.R, out.G, out.B
		rgbChanged := false
		for _, ch := range []struct {
			name string
			v    *float64
		}{{"red", &r}, {"green", &g}, {"blue", &b}} {
			amt, ok, err := amount(a, ch.name, false)
			if err != nil {
				return nil, err
			}
			if ok {
				*ch.v = edit(*ch.v, amt, 255)
				rgbChanged = true
			}
		}
		if rgbChanged {
			hints := out.Hints
			out = value.RGBA(r, g, b, out.A)
			out.Hints = hints
		}

		amt, ok, err := amount(a, "alpha", false)
		if err != nil {
			return nil, err
		}
		if ok {
			out = out.WithAlpha(edit(out.A, amt, 1))
			if out.A < 1 && out.Hints.HSL+out.Hints.HSLA == 0 {
				out.Hints = value.Hints{RGBA: 1}
			}
		}
		return out, nil
	}
}

// ieHexStr renders a color as #AARRGGBB for legacy filter properties.
func ieHexStr(a *Args) (value.Value, error) {
	c, err := a.Color(0, "color")
	if err != nil {
		return nil, err
	}
	return value.NewString(fmt.Sprintf("#%02X%02X%02X%02X",
		int(math.Round(c.A*255)), int(math.Round(c.R)), int(math.Round(c.G)), int(math.Round(c.B)))), nil
}
