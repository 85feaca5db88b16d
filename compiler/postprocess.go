/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package compiler

import (
	"strings"

	"bennypowers.dev/cascade/value"
)

// postProcessor shortens emitted property values. Quoted strings and
// url(...) arguments pass through untouched.
type postProcessor struct {
	compress      bool
	shortColors   bool
	reverseColors bool
}

func (p postProcessor) enabled() bool {
	return p.compress || p.shortColors || p.reverseColors
}

func (p postProcessor) value(v string) string {
	if !p.enabled() || v == "" {
		return v
	}
	var sb strings.Builder
	sb.Grow(len(v))
	for i := 0; i < len(v); {
		c := v[i]
		switch {
		case c == '"' || c == '\'':
			end := quotedEnd(v, i)
			sb.WriteString(v[i:end])
			i = end
		case c == '#':
			end := nameEnd(v, i+1)
			sb.WriteString(p.color(v[i:end]))
			i = end
		case isNameStartByte(c) && !precededByName(v, i):
			end := nameEnd(v, i)
			word := v[i:end]
			switch {
			case strings.EqualFold(word, "url") && peekByte(v, end) == '(':
				close := strings.IndexByte(v[end:], ')')
				if close < 0 {
					close = len(v) - end - 1
				}
				sb.WriteString(v[i : end+close+1])
				i = end + close + 1
				continue
			case peekByte(v, end) != '(' && value.IsColorName(word):
				word = p.color(word)
			}
			sb.WriteString(word)
			i = end
		case isDigit(c) || c == '.' && isDigit(peekByte(v, i+1)):
			if numberBlocked(v, i) {
				sb.WriteByte(c)
				i++
				continue
			}
			end := numberEnd(v, i)
			sb.WriteString(p.number(v[i:end]))
			i = end
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// color applies the color rewrites to a hex token or keyword.
func (p postProcessor) color(tok string) string {
	if p.shortColors && len(tok) == 7 && tok[0] == '#' {
		tok = value.ShortHex(tok)
	}
	if p.reverseColors {
		if short, ok := value.ShortestSpelling(tok); ok && len(short) < len(tok) {
			return short
		}
	}
	return tok
}

// number collapses zero dimensions to 0 and drops the leading zero of a
// fraction when compressing.
func (p postProcessor) number(tok string) string {
	if !p.compress {
		return tok
	}
	digits := len(tok)
	for digits > 0 && !isDigit(tok[digits-1]) {
		digits--
	}
	num, unit := tok[:digits], tok[digits:]
	if unit != "" && isZero(num) && value.IsKnownUnit(unit) {
		return "0"
	}
	if strings.HasPrefix(num, "0.") {
		num = num[1:]
	}
	return num + unit
}

func isZero(num string) bool {
	return strings.Trim(num, "0.") == "" && strings.ContainsRune(num, '0')
}

func quotedEnd(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j + 1
		}
	}
	return len(s)
}

func numberEnd(s string, i int) int {
	j := i
	for j < len(s) && (isDigit(s[j]) || s[j] == '.') {
		j++
	}
	if j < len(s) && s[j] == '%' {
		return j + 1
	}
	for j < len(s) && isLetterByte(s[j]) {
		j++
	}
	return j
}

func nameEnd(s string, i int) int {
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	return i
}

func precededByName(s string, i int) bool {
	return i > 0 && (isNameByte(s[i-1]) || s[i-1] == '#' || s[i-1] == '.')
}

// numberBlocked reports whether the digit at i continues a name, as in
// "h1" or "#0a0". A minus sign only counts when it follows a name.
func numberBlocked(s string, i int) bool {
	if i == 0 {
		return false
	}
	if s[i-1] == '-' {
		return i > 1 && isNameByte(s[i-2])
	}
	return precededByName(s, i)
}

func isNameStartByte(c byte) bool { return isLetterByte(c) || c == '_' }

func isLetterByte(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func peekByte(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}
