/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package compiler

import (
	"slices"
	"strings"
)

// ParseSelectors splits a rule header into its selectors and the parents
// named after " extends ". Selectors come back sorted without duplicates.
//
//	ParseSelectors(".b, .a extends .base&.other")
//	// [.a .b], [.base .other]
func ParseSelectors(header string) (selectors, parents []string) {
	sels, ext, _ := strings.Cut(header, " extends ")
	for _, sel := range strings.Split(sels, ",") {
		if sel = collapseSpace(sel); sel != "" {
			selectors = append(selectors, sel)
		}
	}
	for _, group := range strings.Split(ext, ",") {
		for _, p := range strings.Split(group, "&") {
			if p = collapseSpace(p); p != "" && !slices.Contains(parents, p) {
				parents = append(parents, p)
			}
		}
	}
	return normalizeSelectors(selectors), parents
}

// Nest combines each parent with each child. A child containing "&" has
// every "&" replaced by the parent; otherwise the child becomes a
// descendant of the parent.
func Nest(parents, children []string) []string {
	if len(parents) == 0 {
		parents = []string{""}
	}
	out := make([]string, 0, len(parents)*len(children))
	for _, p := range parents {
		for _, c := range children {
			switch {
			case strings.Contains(c, "&"):
				out = append(out, collapseSpace(strings.ReplaceAll(c, "&", p)))
			case p == "":
				out = append(out, c)
			default:
				out = append(out, p+" "+c)
			}
		}
	}
	return normalizeSelectors(out)
}

func normalizeSelectors(sels []string) []string {
	out := slices.Clone(sels)
	slices.Sort(out)
	return slices.Compact(out)
}
