/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package compiler

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

// Tree renders the emitted fragments as an indented tree: media blocks,
// then selector sets, then declarations.
func (r *Result) Tree() string {
	root := treeprint.New()
	var (
		media treeprint.Tree
		open  string
	)
	for _, f := range r.Fragments {
		parent := root
		if q := mediaQuery(f.Media); q != "" {
			if media == nil || q != open {
				media = root.AddBranch("@media " + q)
				open = q
			}
			parent = media
		} else {
			media, open = nil, ""
		}

		if f.Raw != nil {
			parent.AddNode(f.Raw.Header + " { ... }")
			continue
		}
		label := strings.Join(f.Selectors, ", ")
		if label == "" {
			label = "(top level)"
		}
		branch := parent.AddBranch(fmt.Sprintf("%s [%d]", label, f.Position))
		for _, p := range f.Properties {
			branch.AddNode(p.String())
		}
	}
	return root.String()
}
