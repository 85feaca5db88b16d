/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package verify re-reads emitted CSS with a standards-conforming CSS
// parser and reports what it found.
package verify

import (
	"errors"
	"fmt"
	"io"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ErrInvalidCSS is returned by Check when the parser reports an error.
var ErrInvalidCSS = errors.New("invalid css")

// Report summarizes a parsed stylesheet.
type Report struct {
	Rulesets     int `json:"rulesets"`
	Declarations int `json:"declarations"`
	AtRules      int `json:"atRules"`
	// Errors are parse errors other than end of input.
	Errors []error `json:"-"`
}

// OK reports whether the stylesheet parsed cleanly.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// CSS parses text and counts its rulesets, declarations and at-rules.
func CSS(text string) *Report {
	r := &Report{}
	p := css.NewParser(parse.NewInputString(text), false)
	for {
		gt, _, _ := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				r.Errors = append(r.Errors, err)
			}
			return r
		case css.BeginRulesetGrammar:
			r.Rulesets++
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			r.Declarations++
		case css.AtRuleGrammar, css.BeginAtRuleGrammar:
			r.AtRules++
		}
	}
}

// Check returns an error wrapping ErrInvalidCSS if text does not parse.
func Check(text string) error {
	r := CSS(text)
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInvalidCSS, errors.Join(r.Errors...))
}
