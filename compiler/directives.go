/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package compiler

import (
	"errors"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"bennypowers.dev/cascade/diag"
	"bennypowers.dev/cascade/importer"
	"bennypowers.dev/cascade/source"
	"bennypowers.dev/cascade/value"
)

// parseFlag reads an @option value. Unrecognized text yields def.
func parseFlag(text string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	}
	return def
}

// settleOptions applies "@option name: value, name: value". Output flags
// take effect for the whole compilation.
func (s *Session) settleOptions(fr *frame, text string) {
	for _, pair := range strings.Split(text, ",") {
		name, val, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		val = strings.TrimSpace(val)
		fr.reg.flags[name] = val
		switch strings.ReplaceAll(name, "-", "_") {
		case "compress":
			s.compress = parseFlag(val, s.compress)
		case "short_colors":
			s.shortColors = parseFlag(val, s.shortColors)
		case "reverse_colors":
			s.reverseColors = parseFlag(val, s.reverseColors)
		default:
			s.report(diag.Debug, fr.file, "unknown option %q", name)
		}
	}
}

// doImport expands each imported stylesheet in place. Plain CSS imports
// are kept as bare lines.
func (s *Session) doImport(fr *frame, text string) error {
	if len(fr.media) > 0 {
		s.report(diag.Error, fr.file, "@import is not allowed inside @media")
		return nil
	}
	for _, raw := range splitArgs(text) {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		unq := dequote(source.Restore(s.resolveText(fr.env(s), name)))
		if importer.IsCSSImport(unq) || strings.HasPrefix(name, "url(") {
			fr.frag.Properties = append(fr.frag.Properties, Property{Name: "@import " + name, Bare: true})
			continue
		}
		src, file, dir, ok := s.load(fr, unq)
		if !ok {
			continue
		}
		if fr.reg.imported[file] {
			continue
		}
		fr.reg.imported[file] = true

		sub := *fr
		sub.file = file
		sub.dir = dir
		if _, err := s.expand(&sub, src.code); err != nil {
			return locate(err, file, src.offsets)
		}
	}
	return nil
}

// load finds and reads an import. Magic imports are keyed by their name.
func (s *Session) load(fr *frame, name string) (src sourceFile, file, dir string, ok bool) {
	resolved, err := s.resolver.Resolve(name, fr.dir)
	if err == nil {
		sf, cached := s.files[resolved.Path]
		if !cached {
			data, rerr := s.fs.ReadFile(resolved.Path)
			if rerr != nil {
				s.report(diag.Warning, fr.file, "cannot read %s: %v", resolved.Path, rerr)
				return sourceFile{}, "", "", false
			}
			sf.code, sf.offsets = source.NormalizeMap(string(data))
			s.files[resolved.Path] = sf
		}
		return sf, resolved.Path, filepath.Dir(resolved.Path), true
	}
	if s.opts.MagicImport != nil {
		if text, found := s.opts.MagicImport(name); found {
			src.code, src.offsets = source.NormalizeMap(text)
			return src, name, fr.dir, true
		}
	}
	if errors.Is(err, importer.ErrNotFound) {
		s.report(diag.Warning, fr.file, "%v", err)
	} else {
		s.report(diag.Warning, fr.file, "cannot import %s: %v", name, err)
	}
	return sourceFile{}, "", "", false
}

// define registers a @mixin or @function. The current variables are
// captured for the body.
func (s *Session) define(fr *frame, function bool, header, body string) {
	name, args := splitCall(header)
	name = strings.TrimSpace(s.resolveText(fr.env(s), name))
	if name == "" {
		s.report(diag.Warning, fr.file, "definition without a name")
		return
	}
	params, defaults := parseParams(args)

	snapshot := fr.ctx.Clone()
	for _, p := range params {
		delete(snapshot, p)
	}
	fr.reg.Define(&Callable{
		Name:     name,
		Params:   params,
		Defaults: defaults,
		Body:     body,
		Context:  snapshot,
		Function: function,
		dir:      fr.dir,
	})
	if function {
		s.userFuncs++
	}
}

// parseParams reads "$a, $b: 2px" into names and default expressions.
func parseParams(args string) ([]string, map[string]string) {
	var params []string
	defaults := map[string]string{}
	for _, p := range splitArgs(args) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		name, def, hasDef := strings.Cut(p, ":")
		name = sigil(strings.TrimSpace(name))
		params = append(params, name)
		if hasDef {
			defaults[name] = strings.TrimSpace(def)
		}
	}
	return params, defaults
}

var keywordArg = regexp.MustCompile(`^\$[-\w]+\s*:`)

// include expands a mixin body into the calling frame.
func (s *Session) include(fr *frame, header string) error {
	name, args := splitCall(header)
	e := fr.env(s)
	name = strings.TrimSpace(s.resolveText(e, name))

	var positional []value.Value
	keyword := map[string]value.Value{}
	for _, a := range splitArgs(args) {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if keywordArg.MatchString(a) {
			k, v, _ := strings.Cut(a, ":")
			keyword[strings.TrimSpace(k)] = s.calculate(e, v)
			continue
		}
		positional = append(positional, s.calculate(e, a))
	}

	mixin, ok := fr.reg.Mixin(name, len(positional)+len(keyword))
	if !ok && len(keyword) > 0 {
		mixin, ok = fr.reg.Mixin(name, len(positional))
	}
	if !ok && len(positional) > 1 {
		if mixin, ok = fr.reg.Mixin(name, 1); ok {
			parts := make([]string, len(positional))
			for i, v := range positional {
				parts[i] = v.String()
			}
			positional = []value.Value{value.NewString(strings.Join(parts, ", "))}
		}
	}
	if !ok {
		s.report(diag.Error, fr.file, "mixin not found: %s:%d", name, len(positional)+len(keyword))
		return nil
	}

	ctx := fr.ctx.Clone()
	for k, v := range mixin.Context {
		ctx[k] = v
	}
	for k, v := range s.bind(mixin, positional, keyword, fr.reg) {
		ctx[k] = v
	}
	sub := *fr
	sub.ctx = ctx
	sub.dir = mixin.dir
	_, err := s.expand(&sub, mixin.Body)
	return err
}

func (s *Session) doIf(fr *frame, cond, body string, state *ifState) (bool, error) {
	if value.Truthy(s.calculate(fr.env(s), cond)) {
		*state = ifTaken
		return s.expand(fr, body)
	}
	*state = ifSkipped
	return false, nil
}

// doElse handles both "@else" and "@else if cond".
func (s *Session) doElse(fr *frame, rest, body string, prev ifState, state *ifState) (bool, error) {
	if prev == ifNone {
		s.report(diag.Warning, fr.file, "@else with no @if")
		return false, nil
	}
	if prev == ifTaken {
		*state = ifTaken
		return false, nil
	}
	if cond, ok := strings.CutPrefix(rest, "if"); ok && (cond == "" || cond[0] == ' ' || cond[0] == '(') {
		return s.doIf(fr, cond, body, state)
	}
	return s.expand(fr, body)
}

var forHeader = regexp.MustCompile(`^(\$[-\w]+)\s+from\s+(.+?)\s+(through|to)\s+(.+)$`)

// doFor runs body for each integer in the range. "through" includes the
// end and "to" excludes it; a start above the end counts down.
func (s *Session) doFor(fr *frame, header, body string) (bool, error) {
	m := forHeader.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		s.report(diag.Warning, fr.file, "malformed @for: %s", header)
		return false, nil
	}
	e := fr.env(s)
	from, okFrom := asNumber(s.calculate(e, m[2]))
	to, okTo := asNumber(s.calculate(e, m[4]))
	if !okFrom || !okTo {
		s.report(diag.Warning, fr.file, "@for bounds must be numbers: %s", header)
		return false, nil
	}
	start, end := int(math.Round(from.Value)), int(math.Round(to.Value))
	step := 1
	if start > end {
		step = -1
	}
	if m[3] == "through" {
		end += step
	}
	for i := start; i != end; i += step {
		fr.ctx[m[1]] = value.NewNumber(float64(i), from.Unit)
		if returned, err := s.expand(fr, body); err != nil || returned {
			return returned, err
		}
	}
	return false, nil
}

func asNumber(v value.Value) (value.Number, bool) {
	switch v := v.(type) {
	case value.Number:
		return v, true
	case value.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
		if err != nil {
			return value.Number{}, false
		}
		return value.NewNumber(f, ""), true
	}
	return value.Number{}, false
}

var eachHeader = regexp.MustCompile(`^(\$[-\w]+)(?:\s*,\s*(\$[-\w]+))?\s+in\s+(.+)$`)

// doEach runs body once per list member. With two variables the first is
// bound to the member's key and the second to its value. A keyed member is
// also bound under its own key.
func (s *Session) doEach(fr *frame, header, body string) (bool, error) {
	m := eachHeader.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		s.report(diag.Warning, fr.file, "malformed @each: %s", header)
		return false, nil
	}
	v, ok := s.evaluate(fr.env(s), m[3])
	if !ok {
		s.report(diag.Warning, fr.file, "cannot evaluate @each list: %s", strings.TrimSpace(m[3]))
	}
	for _, item := range value.ToList(v).Items {
		if item.Key != "" {
			fr.ctx[sigil(item.Key)] = item.Value
		}
		if m[2] != "" {
			fr.ctx[m[1]] = value.NewString(strings.TrimPrefix(item.Key, "$"))
			fr.ctx[m[2]] = item.Value
		} else {
			fr.ctx[m[1]] = item.Value
		}
		if returned, err := s.expand(fr, body); err != nil || returned {
			return returned, err
		}
	}
	return false, nil
}

// splitCall splits "name(args)" into name and args.
func splitCall(text string) (name, args string) {
	text = strings.TrimSpace(text)
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return text, ""
	}
	end := strings.LastIndexByte(text, ')')
	if end < open {
		end = len(text)
	}
	return strings.TrimSpace(text[:open]), text[open+1 : end]
}

// splitArgs splits on commas outside parentheses, brackets and quotes.
func splitArgs(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var parts []string
	depth, start := 0, 0
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:])
}
