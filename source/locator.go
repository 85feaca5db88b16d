/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package source

import (
	"strings"

	"bennypowers.dev/cascade/diag"
)

// Block is one construct found by the Locator. Loose declarations outside
// any braces have no body.
type Block struct {
	Header  string
	Body    string
	HasBody bool
	// Offset is the byte offset of the header in the scanned text.
	Offset int
}

// Locator splits normalized text into blocks. It scans lazily: each call to
// Next advances only as far as needed to produce the next block.
//
//	loc := source.NewLocator(text)
//	for loc.Next() {
//		b := loc.Block()
//	}
//	if err := loc.Err(); err != nil { ... }
type Locator struct {
	src string
	i   int

	depth int
	par   int
	quote byte
	// quoteAt is where the open string started.
	quoteAt int
	// skip marks a depth-0 brace that opened an interpolation.
	skip bool

	// init is where the pending header starts, start is its opening brace.
	init, start int
	// safe is the earliest offset a multi-line header may start from.
	safe int
	// lose is where unconsumed loose declarations start.
	lose int
	// thin marks the start of a line that may begin a new header, or -1.
	thin int

	queue   []Block
	current Block
	done    bool
	err     error
}

// NewLocator returns a Locator over src.
func NewLocator(src string) *Locator {
	return &Locator{src: src, thin: -1}
}

// Locate returns every block in src.
func Locate(src string) ([]Block, error) {
	var out []Block
	loc := NewLocator(src)
	for loc.Next() {
		out = append(out, loc.Block())
	}
	return out, loc.Err()
}

// Next advances to the next block. It returns false at the end of input or
// on a structural error.
func (l *Locator) Next() bool {
	for len(l.queue) == 0 {
		if l.done {
			return false
		}
		l.scan()
	}
	l.current, l.queue = l.queue[0], l.queue[1:]
	return true
}

// Block returns the block found by the last call to Next.
func (l *Locator) Block() Block {
	return l.current
}

// Err returns the structural error that stopped the scan, if any.
func (l *Locator) Err() error {
	return l.err
}

// scan consumes input until at least one block is queued or input ends.
func (l *Locator) scan() {
	src := l.src
	for l.i < len(src) && len(l.queue) == 0 {
		i := l.i
		c := src[i]
		l.i++

		if l.quote != 0 {
			switch c {
			case '\\':
				l.i++
			case l.quote:
				l.quote = 0
			}
			continue
		}

		switch {
		case c == '"' || c == '\'':
			l.quote, l.quoteAt = c, i
		case c == '(':
			l.par++
			l.thin = -1
			l.safe = i + 1
		case c == ')':
			if l.par > 0 {
				l.par--
			}
		case l.par > 0:
		case c == '{':
			l.open(i)
		case c == '}':
			if l.depth == 0 {
				l.fail(diag.ErrUnexpectedClose, i, strings.TrimSpace(src[l.lose:i]))
				return
			}
			l.close(i)
		case l.depth == 0:
			l.boundary(i, c)
		}
	}
	if l.i >= len(src) && len(l.queue) == 0 {
		l.finish()
	}
}

func (l *Locator) open(i int) {
	if l.depth == 0 {
		if i > 0 && l.src[i-1] == '#' {
			l.skip = true
		} else {
			l.start = i
			if l.thin >= 0 && !blank(l.src, l.thin, i-1) {
				l.init = l.thin
			}
			if l.lose < l.init {
				l.loose(l.lose, l.init)
				l.lose = l.init
			}
			l.thin = -1
		}
	}
	l.depth++
}

func (l *Locator) close(i int) {
	l.depth--
	if l.depth > 0 {
		return
	}
	if !l.skip {
		header := strings.TrimSpace(l.src[l.init:l.start])
		if header != "" {
			l.queue = append(l.queue, Block{
				Header:  header,
				Body:    strings.TrimSpace(l.src[l.start+1 : i]),
				HasBody: true,
				Offset:  l.init + leading(l.src[l.init:l.start]),
			})
		}
		l.init, l.safe, l.lose = i+1, i+1, i+1
		l.thin = -1
	}
	l.skip = false
}

// boundary tracks header starts at depth 0: a semicolon ends a declaration,
// while commas and newlines decide whether a header spans several lines.
func (l *Locator) boundary(i int, c byte) {
	switch c {
	case ';':
		l.init, l.safe = i+1, i+1
		l.thin = -1
	case ',':
		if l.thin >= 0 && !blank(l.src, l.thin, i-1) {
			l.init = l.thin
		}
		l.thin = -1
		l.safe = i + 1
	case '\n':
		switch {
		case l.thin < 0 && !blank(l.src, l.safe, i-1):
			l.thin = i + 1
		case l.thin >= 0 && !blank(l.src, l.thin, i-1):
			l.init = i + 1
			l.thin = -1
		}
	}
}

func (l *Locator) finish() {
	l.done = true
	switch {
	case l.depth > 0:
		header := ""
		if !l.skip {
			header = strings.TrimSpace(l.src[l.init:l.start])
		}
		switch {
		case l.par > 0:
			l.fail(diag.ErrUnclosedParen, l.start, header)
		case l.quote != 0:
			l.fail(diag.ErrUnclosedString, l.quoteAt, header)
		default:
			l.fail(diag.ErrUnclosedBlock, l.start, header)
		}
	case l.quote != 0:
		l.fail(diag.ErrUnclosedString, l.quoteAt, "")
	case l.par > 0:
		l.fail(diag.ErrUnclosedParen, l.safe-1, "")
	default:
		l.loose(l.lose, len(l.src))
	}
}

func (l *Locator) fail(err error, offset int, header string) {
	l.done = true
	l.queue = nil
	l.err = &diag.StructuralError{Err: err, Offset: offset, Header: header}
}

// loose queues the semicolon-separated declarations in src[from:to].
func (l *Locator) loose(from, to int) {
	text := l.src[from:to]
	offset := from
	for _, part := range strings.Split(text, ";") {
		if decl := strings.TrimSpace(part); decl != "" {
			l.queue = append(l.queue, Block{Header: decl, Offset: offset + leading(part)})
		}
		offset += len(part) + 1
	}
}

func blank(s string, from, to int) bool {
	if from >= to {
		return true
	}
	return strings.TrimSpace(s[from:to]) == ""
}

func leading(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t\r\n\f"))
}
