/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package builtins

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"bennypowers.dev/cascade/value"
)

const catSelector = "selector"

var elementsOfType = map[string][]string{
	"block": {
		"address", "article", "aside", "blockquote", "center", "dd", "dialog", "dir", "div", "dl", "dt",
		"fieldset", "figure", "footer", "form", "frameset", "h1", "h2", "h3", "h4", "h5", "h6", "header",
		"hgroup", "hr", "isindex", "menu", "nav", "noframes", "noscript", "ol", "p", "pre", "section", "ul",
	},
	"inline": {
		"a", "abbr", "acronym", "b", "basefont", "bdo", "big", "br", "cite", "code", "dfn", "em", "font",
		"i", "img", "input", "kbd", "label", "q", "s", "samp", "select", "small", "span", "strike",
		"strong", "sub", "sup", "textarea", "tt", "u", "var",
	},
	"table":              {"table"},
	"list-item":          {"li"},
	"table-row-group":    {"tbody"},
	"table-header-group": {"thead"},
	"table-footer-group": {"tfoot"},
	"table-row":          {"tr"},
	"table-cell":         {"td", "th"},
	"html5":              {"article", "aside", "dialog", "figure", "footer", "header", "hgroup", "nav", "section"},
}

func registerSelector(t *Table) {
	t.Register("nest", Variadic, catSelector, nest)
	t.Register("append-selector", 2, catSelector, appendSelector)
	t.Register("headers", 0, catSelector, headers)
	t.Register("headers", 1, catSelector, headers)
	t.Register("headers", 2, catSelector, headers)
	t.Register("headings", 0, catSelector, headers)
	t.Register("headings", 1, catSelector, headers)
	t.Register("headings", 2, catSelector, headers)
	t.Register("enumerate", 3, catSelector, enumerate)
	t.Register("enumerate", 4, catSelector, enumerate)
	t.Register("elements-of-type", 1, catSelector, elementsOf)
}

// selectorList renders selectors as an unquoted comma list.
func selectorList(sels []string) value.Value {
	items := make([]value.Value, len(sels))
	for i, s := range sels {
		items[i] = value.NewString(s)
	}
	return value.NewList(",", items...)
}

func splitSelectors(v value.Value) []string {
	var out []string
	for _, part := range strings.Split(value.Unquote(v), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func sortedUnique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// nest combines each argument's selectors as descendants of the previous
// argument's. A "&" in a child stands for its parent.
func nest(a *Args) (value.Value, error) {
	if len(a.Positional) == 0 {
		return nil, fmt.Errorf("%w: nest needs at least one selector", ErrArgument)
	}
	acc := splitSelectors(a.Positional[0])
	for _, arg := range a.Positional[1:] {
		var next []string
		for _, parent := range acc {
			for _, child := range splitSelectors(arg) {
				if strings.Contains(child, "&") {
					next = append(next, strings.ReplaceAll(child, "&", parent))
				} else {
					next = append(next, parent+" "+child)
				}
			}
		}
		acc = next
	}
	return selectorList(sortedUnique(acc)), nil
}

func appendSelector(a *Args) (value.Value, error) {
	sel, err := a.Value(0, "selector")
	if err != nil {
		return nil, err
	}
	suffix, err := a.Value(1, "to-append")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, s := range splitSelectors(sel) {
		for _, x := range splitSelectors(suffix) {
			out = append(out, s+x)
		}
	}
	return selectorList(sortedUnique(out)), nil
}

// headers lists h1 through h6, or a sub-range given by one or two bounds.
func headers(a *Args) (value.Value, error) {
	from, to := 1, 6
	switch len(a.Positional) {
	case 1:
		if !strings.EqualFold(value.Unquote(a.Positional[0]), "all") {
			n, err := a.Int(0, "to")
			if err != nil {
				return nil, err
			}
			to = n
		}
	case 2:
		var err error
		if from, err = a.Int(0, "from"); err != nil {
			return nil, err
		}
		if to, err = a.Int(1, "to"); err != nil {
			return nil, err
		}
	}
	from, to = max(from, 1), min(to, 6)
	var out []string
	for i := from; i <= to; i++ {
		out = append(out, "h"+strconv.Itoa(i))
	}
	return selectorList(out), nil
}

// enumerate joins prefix to each number from through through.
func enumerate(a *Args) (value.Value, error) {
	prefix, err := a.Value(0, "prefix")
	if err != nil {
		return nil, err
	}
	from, err := a.Int(1, "from")
	if err != nil {
		return nil, err
	}
	through, err := a.Int(2, "through")
	if err != nil {
		return nil, err
	}
	sep := "-"
	if v, ok := a.Get(3, "separator"); ok {
		sep = value.Unquote(v)
	}
	p := value.Unquote(prefix)
	var out []string
	for i := from; i <= through; i++ {
		if p == "" {
			out = append(out, strconv.Itoa(i))
		} else {
			out = append(out, p+sep+strconv.Itoa(i))
		}
	}
	return selectorList(out), nil
}

func elementsOf(a *Args) (value.Value, error) {
	display, err := a.Value(0, "display")
	if err != nil {
		return nil, err
	}
	els, ok := elementsOfType[strings.ToLower(value.Unquote(display))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown display %s", ErrArgument, display)
	}
	return selectorList(sortedUnique(els)), nil
}
