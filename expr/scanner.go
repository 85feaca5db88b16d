/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package expr

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokColon
	tokComma
	tokLParen
	tokRParen
	tokMul
	tokDiv
	tokAdd
	tokSub  // "-" followed by whitespace
	tokSign // "-" not starting an identifier
	tokAnd
	tokOr
	tokNot
	tokNe
	tokInv // "!"
	tokEq
	tokLe
	tokGe
	tokLt
	tokGt
	tokStr
	tokNum
	tokBool
	tokColor
	tokVar
	tokFunc
	tokIdent
	tokRaw // any character no other class accepts
)

var tokenNames = [...]string{
	"end of input", "':'", "','", "'('", "')'", "'*'", "'/'", "'+'", "'-'", "sign",
	"'and'", "'or'", "'not'", "'!='", "'!'", "'=='", "'<='", "'>='", "'<'", "'>'",
	"string", "number", "boolean", "color", "variable", "function", "identifier", "character",
}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	text string
	// pos and end are byte offsets of the token in the source.
	pos, end int
	// quote is the delimiter of a string token.
	quote rune
	// unit is the suffix of a number token.
	unit string
}

// scan splits src into tokens. Classes are tried longest match first, so
// "<=" wins over "<" and "$var" over a bare identifier.
func scan(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		if isSpace(c) {
			i++
			continue
		}
		start := i
		emit := func(kind tokenKind, end int) {
			toks = append(toks, token{kind: kind, text: src[start:end], pos: start, end: end})
			i = end
		}
		switch {
		case c == ':':
			emit(tokColon, i+1)
		case c == ',':
			emit(tokComma, i+1)
		case c == '(' || c == '[':
			emit(tokLParen, i+1)
		case c == ')' || c == ']':
			emit(tokRParen, i+1)
		case c == '*':
			emit(tokMul, i+1)
		case c == '/':
			emit(tokDiv, i+1)
		case c == '+':
			emit(tokAdd, i+1)
		case c == '!' && peek(src, i+1) == '=':
			emit(tokNe, i+2)
		case c == '!':
			emit(tokInv, i+1)
		case c == '=' && peek(src, i+1) == '=':
			emit(tokEq, i+2)
		case c == '<' && peek(src, i+1) == '=':
			emit(tokLe, i+2)
		case c == '>' && peek(src, i+1) == '=':
			emit(tokGe, i+2)
		case c == '<':
			emit(tokLt, i+1)
		case c == '>':
			emit(tokGt, i+1)
		case c == '"' || c == '\'':
			end, text, err := scanString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokStr, text: text, pos: start, end: end, quote: rune(c)})
			i = end
		case isDigit(c) || c == '.' && isDigit(peek(src, i+1)):
			end := scanNumber(src, i)
			unitEnd := end
			for unitEnd < len(src) && (isLetter(src[unitEnd]) || src[unitEnd] == '%') {
				unitEnd++
			}
			toks = append(toks, token{kind: tokNum, text: src[start:end], unit: src[end:unitEnd], pos: start, end: unitEnd})
			i = unitEnd
		case c == '-' && (isNameStart(peek(src, i+1)) || peek(src, i+1) == '-'):
			end := scanName(src, i+1)
			emit(identKind(src, start, end), end)
		case c == '-' && isSpace(peek(src, i+1)):
			emit(tokSub, i+1)
		case c == '-':
			emit(tokSign, i+1)
		case c == '$' && isNameChar(peek(src, i+1)):
			emit(tokVar, scanName(src, i+1))
		case c == '#' && hexRun(src, i+1) > 0:
			emit(tokColor, i+1+hexRun(src, i+1))
		case isNameStart(c):
			end := scanName(src, i)
			emit(identKind(src, start, end), end)
		default:
			emit(tokRaw, i+1)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src), end: len(src)})
	return toks, nil
}

// identKind classifies the identifier src[start:end].
func identKind(src string, start, end int) tokenKind {
	word := src[start:end]
	if peek(src, end) == '(' {
		return tokFunc
	}
	switch strings.ToLower(word) {
	case "and":
		return tokAnd
	case "or":
		return tokOr
	case "not":
		return tokNot
	case "true", "false":
		return tokBool
	}
	return tokIdent
}

func scanString(src string, i int) (end int, text string, err error) {
	q := src[i]
	var sb strings.Builder
	for j := i + 1; j < len(src); j++ {
		c := src[j]
		switch {
		case c == '\\' && j+1 < len(src) && src[j+1] == q:
			sb.WriteByte(q)
			j++
		case c == q:
			return j + 1, sb.String(), nil
		default:
			sb.WriteByte(c)
		}
	}
	return 0, "", fmt.Errorf("%w: unterminated string at offset %d", ErrSyntax, i)
}

func scanNumber(src string, i int) int {
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	if i < len(src) && src[i] == '.' && isDigit(peek(src, i+1)) {
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	return i
}

func scanName(src string, i int) int {
	for i < len(src) && isNameChar(src[i]) {
		i++
	}
	return i
}

// hexRun returns the length of a hex color body at i, or 0 when the run is
// not 3, 4, 6 or 8 digits long or continues into a name.
func hexRun(src string, i int) int {
	j := i
	for j < len(src) && isHex(src[j]) {
		j++
	}
	n := j - i
	if j < len(src) && isNameChar(src[j]) {
		return 0
	}
	switch n {
	case 3, 4, 6, 8:
		return n
	}
	return 0
}

func peek(src string, i int) byte {
	if i < len(src) {
		return src[i]
	}
	return 0
}

func isSpace(c byte) bool  { return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isHex(c byte) bool    { return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' }

func isNameStart(c byte) bool { return isLetter(c) || c == '_' || c >= 0x80 }
func isNameChar(c byte) bool  { return isNameStart(c) || isDigit(c) || c == '-' }
