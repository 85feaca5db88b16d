/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"bennypowers.dev/cascade/diag"
	"bennypowers.dev/cascade/expr"
	"bennypowers.dev/cascade/value"
)

// maxCallDepth bounds nested @function calls.
const maxCallDepth = 64

var errCallDepth = errors.New("call depth exceeded")

// frame is the state of one expansion pass over a block body. Nested
// property blocks, mixin bodies and imports run in copies of it.
type frame struct {
	// frag receives emitted properties and extends.
	frag *Fragment
	ctx  Context
	reg  *Registry

	selectors []string
	media     []string
	// prefix is the nested property namespace, such as "font-".
	prefix string
	// vars makes declarations bind variables, as in @variables.
	vars bool

	// children collects spawned fragments; nil inside function bodies.
	children *[]*Fragment
	// ret is set by @return.
	ret value.Value

	file string
	dir  string
}

func (fr *frame) env(s *Session) *env {
	return &env{s: s, ctx: fr.ctx, reg: fr.reg, file: fr.file}
}

// env exposes a frame's variables and functions to the evaluator.
type env struct {
	s    *Session
	ctx  Context
	reg  *Registry
	file string
}

func (e *env) Var(name string) (value.Value, bool) {
	v, ok := e.ctx[name]
	return v, ok
}

// Call tries user functions first, then the builtin table.
func (e *env) Call(name string, args []value.Entry) (value.Value, bool, error) {
	if fn, ok := e.reg.Function(name, len(args)); ok {
		v, err := e.s.callFunction(fn, args, e)
		return v, true, err
	}
	return e.s.funcs.Call(name, args)
}

// plainText matches values with nothing to evaluate.
var plainText = regexp.MustCompile(`^-?[\w\s#.,:%-]*$`)

// calculate evaluates text. Text the evaluator rejects degrades to itself
// with variables substituted.
func (s *Session) calculate(e *env, text string) value.Value {
	v, _ := s.evaluate(e, text)
	return v
}

// evaluate is calculate that also reports whether text parsed as an
// expression. Text that does not parse comes back with its variables
// substituted.
func (s *Session) evaluate(e *env, text string) (value.Value, bool) {
	text = strings.TrimSpace(text)
	if strings.Contains(text, "#{") {
		text = s.interpolate(e, text)
	}
	if text == "" {
		return value.NewString(""), true
	}
	if isPlain(text) {
		return value.NewString(text), true
	}

	cacheable := !s.opts.DisableCache && !strings.Contains(text, "$") &&
		(s.userFuncs == 0 || !strings.Contains(text, "("))
	if cacheable {
		if v, ok := s.cache[text]; ok {
			return v, true
		}
	}

	v, err := expr.Eval(text, e)
	if err != nil {
		if errors.Is(err, errCallDepth) {
			s.report(diag.Error, e.file, "%v", err)
		} else if s.debug {
			s.report(diag.Debug, e.file, "cannot evaluate %q: %v", text, err)
		}
		return value.NewString(s.substitute(e, text, false)), false
	}
	if cacheable {
		s.cache[text] = v
	}
	return v, true
}

func isPlain(text string) bool {
	return plainText.MatchString(text) && !strings.Contains(text, "- ") &&
		!containsWord(text, "and") && !containsWord(text, "or") && !containsWord(text, "not")
}

// returnValue evaluates an @return expression. Plain text is parsed as
// well, so "1" comes back as a number rather than a string.
func (s *Session) returnValue(e *env, text string) value.Value {
	text = strings.TrimSpace(text)
	if text != "" && isPlain(text) {
		if v, err := expr.Eval(text, e); err == nil {
			return v
		}
	}
	return s.calculate(e, text)
}

func containsWord(text, word string) bool {
	for _, f := range strings.Fields(text) {
		if f == word {
			return true
		}
	}
	return false
}

// interpolate replaces each #{expr} with the unquoted value of expr.
func (s *Session) interpolate(e *env, text string) string {
	var sb strings.Builder
	for {
		start := strings.Index(text, "#{")
		if start < 0 {
			sb.WriteString(text)
			return sb.String()
		}
		end := matchingBrace(text, start+1)
		if end < 0 {
			sb.WriteString(text)
			return sb.String()
		}
		sb.WriteString(text[:start])
		sb.WriteString(value.Unquote(s.calculate(e, text[start+2:end])))
		text = text[end+1:]
	}
}

func matchingBrace(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

var variableRef = regexp.MustCompile(`\$[-\w]+`)

// substitute replaces $name references with variable values. Unknown names
// are left alone.
func (s *Session) substitute(e *env, text string, dequote bool) string {
	if !strings.Contains(text, "$") {
		return text
	}
	return variableRef.ReplaceAllStringFunc(text, func(name string) string {
		v, ok := e.ctx[name]
		if !ok {
			return name
		}
		if dequote {
			return value.Unquote(v)
		}
		return v.String()
	})
}

// resolveText interpolates text used as a selector, property name or media
// query: both #{expr} and bare $name references, with strings unquoted.
func (s *Session) resolveText(e *env, text string) string {
	if strings.Contains(text, "#{") {
		text = s.interpolate(e, text)
	}
	return s.substitute(e, text, true)
}

// callFunction runs a user @function body and returns its @return value.
func (s *Session) callFunction(fn *Callable, args []value.Entry, caller *env) (value.Value, error) {
	if s.depth >= maxCallDepth {
		return nil, fmt.Errorf("%w: %s", errCallDepth, fn.Name)
	}
	s.depth++
	defer func() { s.depth-- }()

	var positional []value.Value
	keyword := map[string]value.Value{}
	for _, a := range args {
		if a.Key == "" {
			positional = append(positional, a.Value)
			continue
		}
		keyword[sigil(a.Key)] = a.Value
	}

	ctx := fn.Context.Clone()
	for name, v := range s.bind(fn, positional, keyword, caller.reg) {
		ctx[name] = v
	}
	fr := &frame{
		frag: &Fragment{},
		ctx:  ctx,
		reg:  caller.reg.Clone(),
		file: caller.file,
		dir:  fn.dir,
	}
	if _, err := s.expand(fr, fn.Body); err != nil {
		return nil, err
	}
	if fr.ret == nil {
		return value.NewString(""), nil
	}
	return fr.ret, nil
}

// bind maps arguments onto fn's parameters. Parameters left unbound take
// their defaults, evaluated against the definition context and the
// arguments bound so far.
func (s *Session) bind(fn *Callable, positional []value.Value, keyword map[string]value.Value, reg *Registry) Context {
	vars := Context{}
	for i, v := range positional {
		if i < len(fn.Params) {
			vars[fn.Params[i]] = v
		}
	}
	for name, v := range keyword {
		vars[name] = v
	}

	scope := fn.Context.Clone()
	for name, v := range vars {
		scope[name] = v
	}
	e := &env{s: s, ctx: scope, reg: reg}
	for _, p := range fn.Params {
		if _, ok := vars[p]; ok {
			continue
		}
		if def, ok := fn.Defaults[p]; ok {
			v := s.calculate(e, def)
			vars[p] = v
			scope[p] = v
		}
	}
	return vars
}

func sigil(name string) string {
	if strings.HasPrefix(name, "$") {
		return name
	}
	return "$" + name
}
