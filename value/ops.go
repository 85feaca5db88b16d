/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package value

import (
	"fmt"
	"math"
	"strings"
)

// Op is an arithmetic operator.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
)

func (op Op) String() string {
	return [...]string{"+", "-", "*", "/"}[op]
}

func (op Op) apply(a, b float64) (float64, error) {
	switch op {
	case Add:
		return a + b, nil
	case Sub:
		return a - b, nil
	case Mul:
		return a * b, nil
	default:
		if b == 0 {
			return 0, ErrDivideByZero
		}
		return a / b, nil
	}
}

// CmpOp is a comparison operator.
type CmpOp int

const (
	Eq CmpOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Arith applies op to a and b.
//
// Lists broadcast element-wise against lists and scalar-wise against other
// values. Numbers combine after unit conversion. Colors combine per channel,
// averaging alpha; a number or color keyword on the other side is promoted to
// a color. Addition involving a string concatenates. Anything else fails with
// ErrIncompatible.
func Arith(op Op, a, b Value) (Value, error) {
	if la, ok := a.(List); ok {
		if lb, ok := b.(List); ok {
			return listArith(op, la, lb)
		}
		return mapList(la, func(v Value) (Value, error) { return Arith(op, v, b) })
	}
	if lb, ok := b.(List); ok {
		return mapList(lb, func(v Value) (Value, error) { return Arith(op, a, v) })
	}

	switch a := a.(type) {
	case Number:
		switch b := b.(type) {
		case Number:
			return numberArith(op, a, b)
		case Color:
			return colorArith(op, grayOf(a), b)
		case String:
			if c, ok := ToColor(b); ok && op != Add {
				return colorArith(op, grayOf(a), c)
			}
			return concat(op, a, b)
		}
	case Color:
		switch b := b.(type) {
		case Number:
			return colorArith(op, a, grayOf(b))
		case Color:
			return colorArith(op, a, b)
		case String:
			if c, ok := ToColor(b); ok {
				return colorArith(op, a, c)
			}
			return concat(op, a, b)
		}
	case String:
		if c, ok := ToColor(a); ok {
			switch b := b.(type) {
			case Color:
				return colorArith(op, c, b)
			case Number:
				if op != Add {
					return colorArith(op, c, grayOf(b))
				}
			}
		}
		return concat(op, a, b)
	case Bool:
		if s, ok := b.(String); ok {
			return concat(op, a, s)
		}
	}
	if s, ok := b.(String); ok {
		return concat(op, a, s)
	}
	return nil, fmt.Errorf("%w: %s %s %s", ErrIncompatible, a.Kind(), op, b.Kind())
}

// Negate returns the arithmetic negation of v.
func Negate(v Value) (Value, error) {
	switch v := v.(type) {
	case Number:
		return Number{Value: -v.Value, Unit: v.Unit}, nil
	case String:
		if v.Quoted() {
			break
		}
		return NewString("-" + v.Value), nil
	case List:
		return mapList(v, Negate)
	}
	return nil, fmt.Errorf("%w: -%s", ErrIncompatible, v.Kind())
}

func grayOf(n Number) Color {
	return Color{R: n.Value, G: n.Value, B: n.Value, A: 1}
}

func concat(op Op, a, b Value) (Value, error) {
	if op != Add {
		return nil, fmt.Errorf("%w: %s %s %s", ErrIncompatible, a.Kind(), op, b.Kind())
	}
	var quote rune
	if s, ok := a.(String); ok {
		quote = s.Quote
	}
	if s, ok := b.(String); ok && quote == 0 {
		quote = s.Quote
	}
	return String{Value: Unquote(a) + Unquote(b), Quote: quote}, nil
}

func numberArith(op Op, a, b Number) (Value, error) {
	switch {
	case a.Unit == b.Unit:
		v, err := op.apply(a.Value, b.Value)
		if err != nil {
			return nil, err
		}
		unit := a.Unit
		if op == Div {
			unit = ""
		}
		return Number{Value: v, Unit: unit}, nil

	case a.Unit == "%" && b.Unit == "" || a.Unit == "" && b.Unit == "%":
		if op == Mul || op == Div {
			return scalarArith(op, a, b)
		}
		// A bare number next to a percentage is a fraction of 100%.
		fa, fb := a.Value, b.Value
		if a.Unit == "%" {
			fa /= 100
		}
		if b.Unit == "%" {
			fb /= 100
		}
		v, _ := op.apply(fa, fb)
		return Number{Value: v * 100, Unit: "%"}, nil

	case a.Unit == "" || b.Unit == "":
		if op == Mul || op == Div {
			return scalarArith(op, a, b)
		}
		unit := a.Unit
		if unit == "" {
			unit = b.Unit
		}
		v, _ := op.apply(a.Value, b.Value)
		return Number{Value: v, Unit: unit}, nil

	case a.Unit == "%" || b.Unit == "%":
		// A percentage next to a dimension is a share of that dimension.
		if a.Unit == "%" {
			a = Number{Value: b.Value * a.Value / 100, Unit: b.Unit}
		} else if op == Add || op == Sub {
			b = Number{Value: a.Value * b.Value / 100, Unit: a.Unit}
		} else {
			b = Number{Value: b.Value / 100, Unit: ""}
		}
		return numberArith(op, a, b)
	}

	bv, ok := Convert(b.Value, b.Unit, a.Unit)
	if !ok {
		// Incompatible dimensions combine numerically and keep the left unit.
		bv = b.Value
	}
	v, err := op.apply(a.Value, bv)
	if err != nil {
		return nil, err
	}
	unit := a.Unit
	if op == Div && ok {
		unit = ""
	}
	return Number{Value: v, Unit: unit}, nil
}

// scalarArith multiplies or divides where at most one side has a unit.
func scalarArith(op Op, a, b Number) (Value, error) {
	v, err := op.apply(a.Value, b.Value)
	if err != nil {
		return nil, err
	}
	unit := a.Unit
	if unit == "" && op == Mul {
		unit = b.Unit
	}
	return Number{Value: v, Unit: unit}, nil
}

func colorArith(op Op, a, b Color) (Value, error) {
	r, err := op.apply(a.R, b.R)
	if err != nil {
		return nil, err
	}
	g, err := op.apply(a.G, b.G)
	if err != nil {
		return nil, err
	}
	bl, err := op.apply(a.B, b.B)
	if err != nil {
		return nil, err
	}
	c := Color{R: r, G: g, B: bl, A: (a.A + b.A) / 2}.clamp()
	c.Hints = a.Hints.merge(b.Hints)
	return c, nil
}

func listArith(op Op, a, b List) (Value, error) {
	out := List{Sep: a.Sep, Items: make([]Entry, len(a.Items))}
	for i, e := range a.Items {
		var other Value
		if e.Key != "" {
			other, _ = b.Get(e.Key)
		} else if i < len(b.Items) && b.Items[i].Key == "" {
			other = b.Items[i].Value
		}
		if other == nil {
			out.Items[i] = e
			continue
		}
		v, err := Arith(op, e.Value, other)
		if err != nil {
			return nil, err
		}
		out.Items[i] = Entry{Key: e.Key, Value: v}
	}
	return out, nil
}

func mapList(l List, fn func(Value) (Value, error)) (Value, error) {
	out := List{Sep: l.Sep, Items: make([]Entry, len(l.Items))}
	for i, e := range l.Items {
		v, err := fn(e.Value)
		if err != nil {
			return nil, err
		}
		out.Items[i] = Entry{Key: e.Key, Value: v}
	}
	return out, nil
}

// Compare applies a comparison operator.
func Compare(op CmpOp, a, b Value) Bool {
	switch op {
	case Eq:
		return Bool(Equal(a, b))
	case Ne:
		return Bool(!Equal(a, b))
	}
	c := order(a, b)
	switch op {
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	default:
		return c >= 0
	}
}

// Equal reports whether a and b are the same value. Numbers in convertible
// units compare after conversion; strings compare without their quotes.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Number:
		if b, ok := b.(Number); ok {
			if !Comparable(a.Unit, b.Unit) {
				return false
			}
			bv, _ := Convert(b.Value, b.Unit, a.Unit)
			return math.Abs(a.Value-bv) < 1e-9
		}
	case Color:
		if b, ok := ToColor(b); ok {
			return a.R == b.R && a.G == b.G && a.B == b.B && a.A == b.A
		}
	case String:
		if s, ok := b.(String); ok {
			return a.Value == s.Value
		}
		if c, ok := b.(Color); ok {
			return Equal(c, a)
		}
	case Bool:
		if b, ok := b.(Bool); ok {
			return a == b
		}
	case List:
		if b, ok := b.(List); ok {
			if len(a.Items) != len(b.Items) {
				return false
			}
			for i := range a.Items {
				if a.Items[i].Key != b.Items[i].Key || !Equal(a.Items[i].Value, b.Items[i].Value) {
					return false
				}
			}
			return true
		}
	}
	return Unquote(a) == Unquote(b)
}

func order(a, b Value) int {
	if na, ok := a.(Number); ok {
		if nb, ok := b.(Number); ok {
			bv, _ := Convert(nb.Value, nb.Unit, na.Unit)
			switch {
			case na.Value < bv:
				return -1
			case na.Value > bv:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(Unquote(a), Unquote(b))
}
