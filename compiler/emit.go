/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package compiler

import (
	"bytes"
	"slices"
	"strings"
)

const indentUnit = "  "

// printer serializes ordered fragments. Consecutive fragments sharing a
// media stack share one @media block, and consecutive fragments sharing a
// selector set share one rule.
type printer struct {
	compress bool
	post     postProcessor

	buf bytes.Buffer

	media   string
	inMedia bool
	rule    string
	inRule  bool

	// seen holds property names set in the open rule, for !default.
	seen map[string]bool
	last string
}

func (p *printer) print(frags []*Fragment) (string, []*Fragment) {
	var emitted []*Fragment
	for _, f := range frags {
		if f.Raw == nil && len(f.Properties) == 0 {
			continue
		}
		emitted = append(emitted, f)

		if q := mediaQuery(f.Media); q != p.media || !p.inMedia && q != "" {
			p.closeRule()
			p.closeMedia()
			if q != "" {
				p.openMedia(q)
			}
		}
		if f.Raw != nil {
			p.closeRule()
			p.raw(f.Raw)
			continue
		}
		if key := f.SelectorKey(); !p.inRule || key != p.rule {
			p.closeRule()
			p.openRule(key, f.Selectors)
		}
		for _, prop := range f.Properties {
			p.property(prop)
		}
	}
	p.closeRule()
	p.closeMedia()
	return p.buf.String(), emitted
}

// mediaQuery joins the distinct queries of a media stack.
func mediaQuery(media []string) string {
	var qs []string
	for _, q := range media {
		if q != "" && !slices.Contains(qs, q) {
			qs = append(qs, q)
		}
	}
	return strings.Join(qs, " and ")
}

func (p *printer) space() string {
	if p.compress {
		return ""
	}
	return " "
}

func (p *printer) newline() {
	if !p.compress {
		p.buf.WriteByte('\n')
	}
}

func (p *printer) indent(level int) {
	if !p.compress {
		p.buf.WriteString(strings.Repeat(indentUnit, level))
	}
}

func (p *printer) level() int {
	if p.inMedia {
		return 1
	}
	return 0
}

func (p *printer) openMedia(q string) {
	p.buf.WriteString("@media " + q + p.space() + "{")
	p.newline()
	p.media, p.inMedia = q, true
}

func (p *printer) closeMedia() {
	if !p.inMedia {
		return
	}
	p.closeBrace(0)
	p.media, p.inMedia = "", false
}

// openRule starts a rule. The root selector set opens no braces; its lines
// are written at the enclosing level.
func (p *printer) openRule(key string, selectors []string) {
	p.rule, p.inRule = key, true
	p.seen = make(map[string]bool)
	p.last = ""
	if key == "" {
		return
	}
	p.indent(p.level())
	p.buf.WriteString(strings.Join(selectors, ","+p.space()) + p.space() + "{")
	p.newline()
}

func (p *printer) closeRule() {
	if !p.inRule {
		return
	}
	if p.rule != "" {
		p.closeBrace(p.level())
	}
	p.rule, p.inRule = "", false
}

// closeBrace ends a block. Compressed output drops the last semicolon.
func (p *printer) closeBrace(level int) {
	if p.compress {
		if b := p.buf.Bytes(); len(b) > 0 && b[len(b)-1] == ';' {
			p.buf.Truncate(len(b) - 1)
		}
	}
	p.indent(level)
	p.buf.WriteByte('}')
	p.newline()
}

// property writes one declaration. A value marked !default is dropped when
// the rule already set the property, and a line identical to the previous
// one is written once.
func (p *printer) property(prop Property) {
	line := prop.Name
	if !prop.Bare {
		line = prop.Name + ":" + p.space() + p.post.value(prop.Value)
	}
	if strings.Contains(line, "!default") {
		line = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(line, "!default", ""), "  ", " "))
		if p.seen[prop.Name] {
			return
		}
	}
	if line == p.last {
		return
	}
	p.last = line
	p.seen[prop.Name] = true

	level := p.level()
	if p.rule != "" {
		level++
	}
	p.indent(level)
	p.buf.WriteString(line)
	p.buf.WriteByte(';')
	p.newline()
}

// raw writes a verbatim at-rule block.
func (p *printer) raw(r *RawBlock) {
	level := p.level()
	if p.compress {
		p.buf.WriteString(r.Header + "{" + squeeze(r.Body) + "}")
		return
	}
	p.indent(level)
	p.buf.WriteString(r.Header + " {\n")
	for _, line := range rawLines(r.Body) {
		p.indent(level + 1)
		p.buf.WriteString(line)
		p.buf.WriteByte('\n')
	}
	p.indent(level)
	p.buf.WriteString("}\n")
}

// rawLines splits a raw body for pretty output: one declaration per line
// for flat bodies, the original lines otherwise.
func rawLines(body string) []string {
	var out []string
	if !strings.ContainsAny(body, "{}") {
		for _, decl := range strings.Split(body, ";") {
			if decl = collapseSpace(decl); decl != "" {
				out = append(out, decl+";")
			}
		}
		return out
	}
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// squeeze removes insignificant whitespace and trailing semicolons from a
// raw body, leaving quoted strings alone.
func squeeze(body string) string {
	var b bytes.Buffer
	pendingSpace := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '"' || c == '\'':
			end := quotedEnd(body, i)
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteString(body[i:end])
			i = end - 1
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			pendingSpace = true
		case strings.IndexByte("{};,:", c) >= 0:
			if c == '}' {
				if bs := b.Bytes(); len(bs) > 0 && bs[len(bs)-1] == ';' {
					b.Truncate(len(bs) - 1)
				}
			}
			pendingSpace = false
			b.WriteByte(c)
			for i+1 < len(body) && strings.IndexByte(" \t\n\r\f", body[i+1]) >= 0 {
				i++
			}
		default:
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteByte(c)
		}
	}
	return strings.TrimSuffix(b.String(), ";")
}
