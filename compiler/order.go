/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package compiler

import (
	"cmp"
	"slices"
)

// order ranks fragments for output. Each fragment moves to just above the
// earliest fragment that extends it; the rest keep their encounter order.
func order(arena []*Fragment) []*Fragment {
	out := make([]*Fragment, 0, len(arena))
	for _, f := range arena {
		if f.Position != NoPosition {
			out = append(out, f)
		}
	}
	slices.SortStableFunc(out, func(a, b *Fragment) int { return cmp.Compare(a.order, b.order) })

	for _, f := range out {
		f.deps[f.Position+1] = true
		f.Position = slices.Min(f.Deps())
	}
	slices.SortStableFunc(out, func(a, b *Fragment) int { return cmp.Compare(a.Position, b.Position) })
	return out
}
