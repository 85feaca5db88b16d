/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package source prepares stylesheet text for the compiler and splits it
// into header/body blocks.
package source

import (
	"strings"
)

// Characters inside quoted strings are swapped for private-use runes so the
// block scanner and declaration splitter never see them. Restore reverses
// the swap.
const (
	protectedColon     = '\uE000'
	protectedSemicolon = '\uE001'
	protectedOpen      = '\uE002'
	protectedClose     = '\uE003'
	protectedSlash     = '\uE004'
	protectedStar      = '\uE005'
)

var (
	protector = strings.NewReplacer(
		":", string(protectedColon),
		";", string(protectedSemicolon),
		"{", string(protectedOpen),
		"}", string(protectedClose),
		"/", string(protectedSlash),
		"*", string(protectedStar),
	)
	restorer = strings.NewReplacer(
		string(protectedColon), ":",
		string(protectedSemicolon), ";",
		string(protectedOpen), "{",
		string(protectedClose), "}",
		string(protectedSlash), "/",
		string(protectedStar), "*",
	)
)

// Normalize strips comments outside quoted strings and protects the
// structural characters inside them. A line comment whose "//" follows a
// scheme such as "http:" is kept. Interpolations inside strings are left
// alone so they can still be evaluated. An unterminated comment is copied
// through unchanged, as is a quote with no closing partner on its line.
func Normalize(text string) string {
	n := normalizer{}
	n.run(text)
	return n.sb.String()
}

// NormalizeMap is Normalize that also returns where each output byte came
// from, so offsets found in the result can be reported against text.
func NormalizeMap(text string) (string, Offsets) {
	n := normalizer{track: true, offsets: make(Offsets, 0, len(text))}
	n.run(text)
	return n.sb.String(), n.offsets
}

// Offsets maps byte offsets in normalized text to the text it came from.
type Offsets []int

// Origin returns the source offset of the normalized offset. Offsets past
// the end are extended from the last mapped byte.
func (o Offsets) Origin(offset int) int {
	switch {
	case offset < 0 || len(o) == 0:
		return offset
	case offset < len(o):
		return o[offset]
	default:
		return o[len(o)-1] + 1 + offset - len(o)
	}
}

type normalizer struct {
	sb      strings.Builder
	track   bool
	offsets Offsets
}

func (n *normalizer) run(text string) {
	n.sb.Grow(len(text))
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '"' || c == '\'':
			end := stringEnd(text, i)
			if end < 0 {
				n.byte(c, i)
				i++
				continue
			}
			n.protect(text[i:end], i)
			i = end
		case c == '/' && peek(text, i+1) == '*':
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				n.copy(text[i:], i)
				return
			}
			i += end + 4
		case c == '/' && peek(text, i+1) == '/' && !afterScheme(text, i):
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				return
			}
			i += end
		default:
			n.byte(c, i)
			i++
		}
	}
}

func (n *normalizer) byte(c byte, at int) {
	n.sb.WriteByte(c)
	if n.track {
		n.offsets = append(n.offsets, at)
	}
}

func (n *normalizer) copy(s string, at int) {
	for j := 0; j < len(s); j++ {
		n.byte(s[j], at+j)
	}
}

// protect writes a quoted string starting at offset at, swapping its
// structural characters but skipping #{...} interpolations.
func (n *normalizer) protect(s string, at int) {
	for j := 0; j < len(s); j++ {
		if strings.HasPrefix(s[j:], "#{") {
			if end := strings.IndexByte(s[j:], '}'); end >= 0 {
				n.copy(s[j:j+end+1], at+j)
				j += end
				continue
			}
		}
		r, ok := protectedRune(s[j])
		if !ok {
			n.byte(s[j], at+j)
			continue
		}
		before := n.sb.Len()
		n.sb.WriteRune(r)
		if n.track {
			for range n.sb.Len() - before {
				n.offsets = append(n.offsets, at+j)
			}
		}
	}
}

func protectedRune(c byte) (rune, bool) {
	switch c {
	case ':':
		return protectedColon, true
	case ';':
		return protectedSemicolon, true
	case '{':
		return protectedOpen, true
	case '}':
		return protectedClose, true
	case '/':
		return protectedSlash, true
	case '*':
		return protectedStar, true
	}
	return 0, false
}

// Restore undoes the string protection applied by Normalize.
func Restore(text string) string {
	if !strings.ContainsFunc(text, isProtected) {
		return text
	}
	return restorer.Replace(text)
}

func isProtected(r rune) bool {
	return r >= protectedColon && r <= protectedStar
}

// Protect applies string protection to text that is known to be inside a
// quoted string.
func Protect(text string) string {
	return protector.Replace(text)
}

// stringEnd returns the offset just past the string starting at i, or -1.
func stringEnd(text string, i int) int {
	q := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case q:
			return j + 1
		case '\n':
			return -1
		}
	}
	return -1
}

// afterScheme reports whether the "//" at i follows two word characters and
// a colon, as in "http://".
func afterScheme(text string, i int) bool {
	return i >= 3 && text[i-1] == ':' && isWord(text[i-2]) && isWord(text[i-3])
}

func isWord(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func peek(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}
