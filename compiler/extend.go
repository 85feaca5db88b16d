/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package compiler

import (
	"slices"
	"strings"

	"bennypowers.dev/cascade/diag"
	"bennypowers.dev/cascade/resolver"
)

// maxExtendRounds bounds the passes made while extends keep changing
// selector sets.
const maxExtendRounds = 10

// partTable groups fragments by selector set, keeping first-seen order.
type partTable struct {
	keys  []string
	parts map[string][]*Fragment
}

func newPartTable(arena []*Fragment) *partTable {
	t := &partTable{parts: make(map[string][]*Fragment)}
	for _, f := range arena {
		if f.Raw != nil || f.Position == NoPosition {
			continue
		}
		t.add(f.SelectorKey(), f)
	}
	return t
}

func (t *partTable) add(key string, frags ...*Fragment) {
	if _, ok := t.parts[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.parts[key] = append(t.parts[key], frags...)
}

func (t *partTable) rename(from, to string) {
	frags := t.parts[from]
	delete(t.parts, from)
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool { return k == from })
	t.add(to, frags...)
}

// extendRequest is one "children inherit from parent" relation. The
// children's selectors are read at link time, so chains see earlier
// renames.
type extendRequest struct {
	frags  []*Fragment
	parent string
}

func (r *extendRequest) selectors() []string {
	return r.frags[0].Selectors
}

// resolveExtends rewrites selector sets so that every rule matching an
// extended selector also matches the extending selectors.
func (s *Session) resolveExtends() {
	var requests []*extendRequest
	index := map[string]*extendRequest{}
	graph := resolver.NewDependencyGraph()
	for _, f := range s.arena {
		if f.Raw != nil || f.Position == NoPosition {
			continue
		}
		key := f.SelectorKey()
		for _, parent := range f.Extends {
			id := key + " extends " + parent
			if r, ok := index[id]; ok {
				r.frags = append(r.frags, f)
				continue
			}
			r := &extendRequest{frags: []*Fragment{f}, parent: parent}
			index[id] = r
			requests = append(requests, r)
			graph.AddEdge(key, parent)
		}
	}
	if len(requests) == 0 {
		return
	}
	if cycle := graph.FindCycle(); cycle != nil {
		s.report(diag.Warning, "", "circular extend: %s", strings.Join(cycle, " -> "))
	}

	parts := newPartTable(s.arena)
	for round := 1; ; round++ {
		changed := false
		for _, r := range requests {
			found, renamed := parts.link(r.parent, r.selectors(), r.frags)
			if round == 1 && !found {
				s.report(diag.Warning, r.frags[0].File, "parent rule not found: %s", r.parent)
			}
			changed = changed || renamed
		}
		if !changed {
			return
		}
		if round == maxExtendRounds {
			s.report(diag.Warning, "", "extends still changing after %d rounds", maxExtendRounds)
			return
		}
	}
}

// link adds the child selectors to every selector set containing parent.
// Parent fragments record the child positions so ordering can move them
// ahead of the children. A fragment never records itself.
func (t *partTable) link(parent string, children []string, childFrags []*Fragment) (found, renamed bool) {
	for _, key := range slices.Clone(t.keys) {
		frags, ok := t.parts[key]
		if !ok {
			continue
		}
		current := strings.Split(key, ",")
		var added []string
		for _, ps := range current {
			if !strings.Contains(ps, parent) {
				continue
			}
			for _, cs := range children {
				c, p := trimCommon(cs, parent)
				if c == "" || p == "" {
					continue
				}
				if np := replaceSelector(ps, p, c); np != ps {
					added = append(added, np)
					found = true
				}
			}
		}
		if len(added) == 0 {
			continue
		}

		merged := normalizeSelectors(append(current, added...))
		if next := strings.Join(merged, ","); next != key {
			t.rename(key, next)
			renamed = true
			for _, f := range frags {
				f.Selectors = merged
			}
		}
		for _, f := range frags {
			for _, c := range childFrags {
				if c == f {
					continue
				}
				f.deps[c.Position] = true
			}
		}
	}
	return found, renamed
}

// trimCommon drops the shared leading and trailing compound parts of child
// and parent, so ".nav .b" extending ".nav .a" yields ".b" and ".a".
func trimCommon(child, parent string) (string, string) {
	if n := commonPrefix(child, parent); n > 0 {
		child, parent = child[n:], parent[n:]
	}
	if n := commonSuffix(child, parent); n > 0 {
		child, parent = child[:len(child)-n], parent[:len(parent)-n]
	}
	return child, parent
}

// commonPrefix returns the length of the shared prefix, cut after a space
// or before one of "#.:".
func commonPrefix(a, b string) int {
	common := 0
	for i := 0; i < min(len(a), len(b)) && a[i] == b[i]; i++ {
		switch a[i] {
		case ' ':
			common = i + 1
		case '#', '.', ':':
			common = i
		}
	}
	return common
}

// commonSuffix returns the length of the shared suffix, cut after a space
// or including one of "#.:".
func commonSuffix(a, b string) int {
	common := 0
	for i := 0; i < min(len(a), len(b)); i++ {
		c := a[len(a)-1-i]
		if c != b[len(b)-1-i] {
			break
		}
		switch c {
		case ' ', '#', '.', ':':
			common = i + 1
		}
	}
	return common
}

// replaceSelector replaces whole occurrences of old in sel with repl. An
// occurrence must not continue a longer name on either side.
func replaceSelector(sel, old, repl string) string {
	var sb strings.Builder
	i := 0
	for {
		k := strings.Index(sel[i:], old)
		if k < 0 {
			break
		}
		k += i
		end := k + len(old)
		if (k == 0 || !blocksBefore(sel[k-1], old[0])) && (end == len(sel) || !isNameByte(sel[end])) {
			sb.WriteString(sel[i:k])
			sb.WriteString(repl)
			i = end
			continue
		}
		sb.WriteString(sel[i : k+1])
		i = k + 1
	}
	sb.WriteString(sel[i:])
	return sb.String()
}

func blocksBefore(prev, first byte) bool {
	if strings.IndexByte("#.:", first) >= 0 {
		return strings.IndexByte("#.:", prev) >= 0
	}
	return isNameByte(prev) || strings.IndexByte("#.:", prev) >= 0
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
