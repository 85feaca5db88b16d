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

const catMath = "math"

func registerMath(t *Table) {
	t.Register("percentage", 1, catMath, percentage)
	t.Register("unitless", 1, catMath, unitless)
	t.Register("unit", 1, catMath, unit)
	t.Register("comparable", 2, catMath, comparable)
	t.Register("round", 1, catMath, rounding(math.Round))
	t.Register("ceil", 1, catMath, rounding(math.Ceil))
	t.Register("floor", 1, catMath, rounding(math.Floor))
	t.Register("abs", 1, catMath, rounding(math.Abs))
	t.Register("min", Variadic, catMath, extremum(value.Lt))
	t.Register("max", Variadic, catMath, extremum(value.Gt))
	t.Register("pi", 0, catMath, pi)
	t.Register("sin", 1, catMath, trig(math.Sin))
	t.Register("cos", 1, catMath, trig(math.Cos))
	t.Register("tan", 1, catMath, trig(math.Tan))
	t.Register("range", 1, catMath, rangeOf)
	t.Register("range", 2, catMath, rangeOf)
}

func percentage(a *Args) (value.Value, error) {
	n, err := a.Number(0, "number")
	if err != nil {
		return nil, err
	}
	if !n.Unitless() {
		return nil, fmt.Errorf("%w: %s must be unitless", ErrArgument, n)
	}
	return value.NewNumber(n.Value*100, "%"), nil
}

func unitless(a *Args) (value.Value, error) {
	n, err := a.Number(0, "number")
	if err != nil {
		return nil, err
	}
	return value.Bool(n.Unitless()), nil
}

func unit(a *Args) (value.Value, error) {
	n, err := a.Number(0, "number")
	if err != nil {
		return nil, err
	}
	return value.NewQuoted(n.Unit), nil
}

func comparable(a *Args) (value.Value, error) {
	n, err := numbers(a, "number1", "number2")
	if err != nil {
		return nil, err
	}
	return value.Bool(n[0].Unitless() || n[1].Unitless() || value.Comparable(n[0].Unit, n[1].Unit)), nil
}

func rounding(fn func(float64) float64) Func {
	return func(a *Args) (value.Value, error) {
		n, err := a.Number(0, "number")
		if err != nil {
			return nil, err
		}
		return value.NewNumber(fn(n.Value), n.Unit), nil
	}
}

// extremum returns the argument that wins op against all others.
func extremum(op value.CmpOp) Func {
	return func(a *Args) (value.Value, error) {
		nums := argList(a).Values()
		if len(nums) == 0 {
			return nil, fmt.Errorf("%w: at least one number is required", ErrArgument)
		}
		best, err := toNumber(nums[0], "numbers")
		if err != nil {
			return nil, err
		}
		for _, v := range nums[1:] {
			n, err := toNumber(v, "numbers")
			if err != nil {
				return nil, err
			}
			if !n.Unitless() && !best.Unitless() && !value.Comparable(n.Unit, best.Unit) {
				return nil, fmt.Errorf("%w: %s and %s are incompatible", value.ErrIncompatible, best, n)
			}
			if value.Compare(op, n, best) {
				best = n
			}
		}
		return best, nil
	}
}

// trig applies fn to an angle. Unitless arguments are radians.
func trig(fn func(float64) float64) Func {
	return func(a *Args) (value.Value, error) {
		n, err := a.Number(0, "angle")
		if err != nil {
			return nil, err
		}
		rad := n.Value
		if !n.Unitless() {
			var ok bool
			if rad, ok = value.Convert(n.Value, n.Unit, "rad"); !ok {
				return nil, fmt.Errorf("%w: %s is not an angle", ErrArgument, n)
			}
		}
		return value.NewNumber(fn(rad), ""), nil
	}
}

func pi(*Args) (value.Value, error) {
	return value.NewNumber(math.Pi, ""), nil
}

// rangeOf lists the integers from 0, or from the first argument, through
// the last argument.
func rangeOf(a *Args) (value.Value, error) {
	from, through := 0, 0
	var err error
	if len(a.Positional) == 1 {
		through, err = a.Int(0, "through")
	} else {
		if from, err = a.Int(0, "from"); err == nil {
			through, err = a.Int(1, "through")
		}
	}
	if err != nil {
		return nil, err
	}
	var items []value.Value
	for i := from; i <= through; i++ {
		items = append(items, value.NewNumber(float64(i), ""))
	}
	return value.NewList(",", items...), nil
}
