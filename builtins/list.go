/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package builtins

import (
	"fmt"
	"strings"

	"bennypowers.dev/cascade/value"
)

const catList = "list"

func registerList(t *Table) {
	t.Register("length", Variadic, catList, length)
	t.Register("nth", 2, catList, nth)
	t.Register("-compass-nth", 2, catList, nth)
	t.Register("join", 2, catList, join)
	t.Register("join", 3, catList, join)
	t.Register("append", 2, catList, appendList)
	t.Register("append", 3, catList, appendList)
	t.Register("compact", Variadic, catList, compact)
	t.Register("first-value-of", Variadic, catList, firstValueOf)
	t.Register("blank", Variadic, catList, blank)
	t.Register("-compass-list", Variadic, catList, compassList)
	t.Register("-compass-space-list", Variadic, catList, compassSpaceList)
	t.Register("-compass-slice", 2, catList, compassSlice)
	t.Register("-compass-slice", 3, catList, compassSlice)
	t.Register("-compass-list-size", Variadic, catList, length)
}

// argList treats a single argument as a list and several arguments as the
// members of a comma list.
func argList(a *Args) value.List {
	if len(a.Positional) == 1 {
		return value.ToList(a.Positional[0])
	}
	return value.NewList(",", a.Positional...)
}

func length(a *Args) (value.Value, error) {
	return value.NewNumber(float64(argList(a).Len()), ""), nil
}

func nth(a *Args) (value.Value, error) {
	lv, err := a.Value(0, "list")
	if err != nil {
		return nil, err
	}
	l := value.ToList(lv)
	nv, err := a.Value(1, "n")
	if err != nil {
		return nil, err
	}
	var i int
	switch strings.ToLower(value.Unquote(nv)) {
	case "first":
		i = 1
	case "last":
		i = l.Len()
	default:
		n, err := toNumber(nv, "n")
		if err != nil {
			return nil, err
		}
		i = int(n.Value)
	}
	if i < 1 || i > l.Len() {
		return nil, fmt.Errorf("%w: index %d out of range for list of %d", ErrArgument, i, l.Len())
	}
	return l.Items[i-1].Value, nil
}

// separator reads a "comma", "space" or "auto" argument. ok is false for
// auto or when the argument is absent.
func separator(a *Args, i int) (sep string, ok bool, err error) {
	v, present := a.Get(i, "separator")
	if !present {
		return "", false, nil
	}
	switch strings.ToLower(value.Unquote(v)) {
	case "comma", ",":
		return ",", true, nil
	case "space", "":
		return "", true, nil
	case "auto":
		return "", false, nil
	}
	return "", false, fmt.Errorf("%w: unknown separator %s", ErrArgument, v)
}

func join(a *Args) (value.Value, error) {
	v1, err := a.Value(0, "list1")
	if err != nil {
		return nil, err
	}
	v2, err := a.Value(1, "list2")
	if err != nil {
		return nil, err
	}
	l1, l2 := value.ToList(v1), value.ToList(v2)
	sep, ok, err := separator(a, 2)
	if err != nil {
		return nil, err
	}
	if !ok {
		sep = l1.Sep
		if l1.Len() < 2 && l2.Len() > 1 {
			sep = l2.Sep
		}
	}
	items := make([]value.Entry, 0, l1.Len()+l2.Len())
	items = append(items, l1.Items...)
	items = append(items, l2.Items...)
	return value.List{Items: items, Sep: sep}, nil
}

func appendList(a *Args) (value.Value, error) {
	lv, err := a.Value(0, "list")
	if err != nil {
		return nil, err
	}
	v, err := a.Value(1, "val")
	if err != nil {
		return nil, err
	}
	l := value.ToList(lv)
	sep, ok, err := separator(a, 2)
	if err != nil {
		return nil, err
	}
	if !ok {
		sep = l.Sep
	}
	items := append(append([]value.Entry{}, l.Items...), value.Entry{Value: v})
	return value.List{Items: items, Sep: sep}, nil
}

func compact(a *Args) (value.Value, error) {
	var out []value.Value
	for _, v := range argList(a).Values() {
		if value.Truthy(v) {
			out = append(out, v)
		}
	}
	return value.NewList(",", out...), nil
}

func firstValueOf(a *Args) (value.Value, error) {
	l := argList(a)
	if l.Len() == 0 {
		return value.NewString(""), nil
	}
	return l.Items[0].Value, nil
}

// blank is true when every argument is false, whitespace or an empty list.
func blank(a *Args) (value.Value, error) {
	for _, v := range a.Positional {
		if !isBlank(v) {
			return value.Bool(false), nil
		}
	}
	return value.Bool(true), nil
}

func isBlank(v value.Value) bool {
	switch v := v.(type) {
	case value.Bool:
		return !bool(v)
	case value.String:
		return strings.TrimSpace(v.Value) == ""
	case value.List:
		for _, item := range v.Values() {
			if !isBlank(item) {
				return false
			}
		}
		return true
	}
	return false
}

func compassList(a *Args) (value.Value, error) {
	return argList(a), nil
}

func compassSpaceList(a *Args) (value.Value, error) {
	l := argList(a)
	l.Sep = ""
	return l, nil
}

// compassSlice keeps the members from the 1-based start index through end.
func compassSlice(a *Args) (value.Value, error) {
	lv, err := a.Value(0, "list")
	if err != nil {
		return nil, err
	}
	l := value.ToList(lv)
	start, err := a.Int(1, "start")
	if err != nil {
		return nil, err
	}
	end := l.Len()
	if _, ok := a.Get(2, "end"); ok {
		if end, err = a.Int(2, "end"); err != nil {
			return nil, err
		}
	}
	var items []value.Entry
	for i, item := range l.Items {
		if pos := i + 1; pos >= start && pos <= end {
			items = append(items, item)
		}
	}
	return value.List{Items: items, Sep: l.Sep}, nil
}
