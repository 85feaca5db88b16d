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
	"bennypowers.dev/cascade/source"
	"bennypowers.dev/cascade/value"
)

// ifState tracks the @if chain preceding the current block.
type ifState int

const (
	ifNone ifState = iota
	ifTaken
	ifSkipped
)

// expand walks the blocks of code, appending declarations to the frame's
// fragment and spawning children for nested rules. It reports whether an
// @return ended the walk.
func (s *Session) expand(fr *frame, code string) (bool, error) {
	loc := source.NewLocator(code)
	state := ifNone
	for loc.Next() {
		b := loc.Block()
		header := shorthand(b.Header)
		prev := state
		state = ifNone

		var (
			returned bool
			err      error
		)
		switch {
		case strings.HasPrefix(header, "@"):
			returned, err = s.directive(fr, header, b, prev, &state)
		case !b.HasBody:
			s.declaration(fr, header)
		case strings.HasSuffix(header, ":"):
			returned, err = s.namespace(fr, strings.TrimSuffix(header, ":"), b.Body)
		case fr.prefix == "":
			returned, err = s.nest(fr, header, b.Body)
		}
		if err != nil || returned {
			return returned, err
		}
	}
	return false, loc.Err()
}

// shorthand rewrites "+name(args)" as @include and "=name(params)" as
// @mixin. "+name: arg" is accepted for "+name(arg)".
func shorthand(header string) string {
	switch {
	case strings.HasPrefix(header, "+"):
		rest := header[1:]
		colon := strings.IndexByte(rest, ':')
		paren := strings.IndexByte(rest, '(')
		if colon >= 0 && (paren < 0 || colon < paren) {
			rest = rest[:colon] + "(" + strings.TrimSpace(rest[colon+1:]) + ")"
		}
		return "@include " + rest
	case strings.HasPrefix(header, "="):
		return "@mixin " + strings.TrimSpace(header[1:])
	}
	return header
}

// declaration handles a header without a body: a variable assignment, a
// property, or a bare line.
func (s *Session) declaration(fr *frame, header string) {
	e := fr.env(s)
	sep := strings.IndexAny(header, ":=")
	if sep < 0 {
		line := strings.TrimSpace(s.resolveText(e, header))
		if line != "" {
			fr.frag.Properties = append(fr.frag.Properties, Property{Name: line, Bare: true})
		}
		return
	}
	name := strings.TrimSpace(header[:sep])
	text := strings.TrimSpace(header[sep+1:])
	if name == "" {
		return
	}

	if header[sep] == '=' || strings.HasPrefix(name, "$") || fr.vars {
		name = sigil(fr.prefix + name)
		if strings.Contains(text, "!default") {
			if _, bound := fr.ctx[name]; bound {
				return
			}
			text = strings.TrimSpace(strings.ReplaceAll(text, "!default", ""))
		}
		fr.ctx[name] = s.calculate(e, text)
		return
	}

	prop := strings.TrimSpace(s.resolveText(e, fr.prefix+name))
	fr.frag.Properties = append(fr.frag.Properties, Property{
		Name:  prop,
		Value: s.calculate(e, text).String(),
	})
}

// namespace expands a nested property block such as "font: { size: 1em }".
func (s *Session) namespace(fr *frame, name, body string) (bool, error) {
	sub := *fr
	sub.prefix = fr.prefix + strings.TrimSpace(s.resolveText(fr.env(s), name)) + "-"
	returned, err := s.expand(&sub, body)
	if returned {
		fr.ret = sub.ret
	}
	return returned, err
}

// nest spawns a child fragment for a nested rule. The header "self" expands
// into the current fragment.
func (s *Session) nest(fr *frame, header, body string) (bool, error) {
	if strings.TrimSpace(header) == "self" {
		return s.expand(fr, body)
	}
	if fr.children == nil {
		return false, nil
	}
	sels, parents := ParseSelectors(s.resolveText(fr.env(s), header))
	if len(sels) == 0 {
		return false, nil
	}
	child := s.spawn(fr, body)
	child.Selectors = Nest(fr.selectors, sels)
	child.Extends = parents
	return false, nil
}

// spawn queues a child fragment inheriting copies of the frame's context
// and registry.
func (s *Session) spawn(fr *frame, code string) *Fragment {
	child := s.newFragment()
	child.File = fr.file
	child.dir = fr.dir
	child.code = code
	child.context = fr.ctx.Clone()
	child.options = fr.reg.Clone()
	child.Selectors = fr.selectors
	child.Media = slices.Clone(fr.media)
	*fr.children = append(*fr.children, child)
	return child
}

// Directives lists the at-rules the compiler handles itself. Any other
// at-rule is copied to the output.
func Directives() []string {
	return []string{
		"@debug", "@each", "@else", "@extend", "@for", "@function", "@if", "@import",
		"@include", "@media", "@mixin", "@option", "@print", "@raw", "@return",
		"@variables", "@vars", "@warn",
	}
}

// blockDirectives need a body; without one they are copied as bare lines.
var blockDirectives = map[string]bool{
	"@mixin": true, "@function": true, "@if": true, "@else": true,
	"@for": true, "@each": true, "@variables": true, "@vars": true, "@media": true,
}

func (s *Session) directive(fr *frame, header string, b source.Block, prev ifState, state *ifState) (bool, error) {
	code, name := splitDirective(header)
	if blockDirectives[code] && !b.HasBody {
		s.bareLine(fr, header)
		return false, nil
	}
	e := fr.env(s)

	switch code {
	case "@warn":
		s.report(diag.Warning, fr.file, "%s", value.Unquote(s.calculate(e, name)))
	case "@print":
		s.report(diag.Info, fr.file, "%s", value.Unquote(s.calculate(e, name)))
	case "@raw":
		fr.frag.Properties = append(fr.frag.Properties, Property{Name: dequote(name), Bare: true})
	case "@debug":
		s.debug = name == "" || parseFlag(name, true)
		mode := "off"
		if s.debug {
			mode = "on"
		}
		s.report(diag.Info, fr.file, "debug mode is %s", mode)
	case "@option":
		s.settleOptions(fr, name)
	case "@import":
		return false, s.doImport(fr, name)
	case "@extend":
		s.addExtends(fr, name)
	case "@mixin", "@function":
		s.define(fr, code == "@function", name, b.Body)
	case "@return":
		fr.ret = s.returnValue(e, name)
		return true, nil
	case "@include":
		return false, s.include(fr, name)
	case "@if":
		return s.doIf(fr, name, b.Body, state)
	case "@else":
		return s.doElse(fr, name, b.Body, prev, state)
	case "@for":
		return s.doFor(fr, name, b.Body)
	case "@each":
		return s.doEach(fr, name, b.Body)
	case "@variables", "@vars":
		sub := *fr
		sub.vars = true
		return s.expand(&sub, b.Body)
	case "@media":
		s.media(fr, name, b.Body)
	default:
		if !b.HasBody {
			s.bareLine(fr, header)
			return false, nil
		}
		s.rawBlock(fr, header, b.Body)
	}
	return false, nil
}

func (s *Session) bareLine(fr *frame, header string) {
	line := strings.TrimSpace(s.resolveText(fr.env(s), header))
	fr.frag.Properties = append(fr.frag.Properties, Property{Name: line, Bare: true})
}

// splitDirective returns the lowercased at-keyword and the rest of header.
func splitDirective(header string) (code, name string) {
	header = strings.TrimSpace(header)
	i := strings.IndexAny(header, " \t\r\n\f")
	if i < 0 {
		return strings.ToLower(header), ""
	}
	return strings.ToLower(header[:i]), strings.TrimSpace(header[i+1:])
}

func (s *Session) addExtends(fr *frame, name string) {
	text := s.resolveText(fr.env(s), name)
	for _, group := range strings.Split(text, ",") {
		for _, parent := range strings.Split(group, "&") {
			parent = collapseSpace(parent)
			if parent != "" && !slices.Contains(fr.frag.Extends, parent) {
				fr.frag.Extends = append(fr.frag.Extends, parent)
			}
		}
	}
}

// media spawns a child carrying the frame's selectors under one more query.
func (s *Session) media(fr *frame, query, body string) {
	if fr.children == nil {
		return
	}
	child := s.spawn(fr, body)
	child.Media = append(child.Media, collapseSpace(s.resolveText(fr.env(s), query)))
}

// rawBlock queues an unknown block at-rule such as @font-face or
// @keyframes for verbatim output. Inside a rule it moves to the top level.
func (s *Session) rawBlock(fr *frame, header, body string) {
	if fr.children == nil {
		return
	}
	e := fr.env(s)
	header = collapseSpace(s.resolveText(e, header))
	if hasSelectors(fr.selectors) {
		s.report(diag.Warning, fr.file, "%s is not allowed inside %s; moved to the top level",
			header, strings.Join(fr.selectors, ", "))
	}
	child := s.spawn(fr, "")
	child.Selectors = nil
	child.Raw = &RawBlock{Header: header, Body: strings.TrimSpace(s.resolveText(e, body))}
}

func hasSelectors(sels []string) bool {
	return slices.ContainsFunc(sels, func(s string) bool { return s != "" })
}

func dequote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
