/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package compiler turns stylesheet source with variables, nesting, mixins,
// control flow and selector inheritance into plain CSS.
//
// Compilation runs in stages: the root text is split into blocks and
// expanded into a flat list of fragments, extends are resolved to a fixed
// point, fragments are ordered, and the ordered list is printed.
//
//	res, err := compiler.Compile(src, compiler.DefaultOptions())
//	if err != nil {
//		// structural error: unbalanced braces, quotes or parentheses
//	}
//	fmt.Print(res.CSS)
//	for _, d := range res.Diagnostics { ... }
package compiler

import (
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/cascade/builtins"
	"bennypowers.dev/cascade/diag"
	cascadefs "bennypowers.dev/cascade/fs"
	"bennypowers.dev/cascade/importer"
	"bennypowers.dev/cascade/source"
	"bennypowers.dev/cascade/value"
)

// Session holds the state of one compilation. Sessions share nothing, so
// separate sessions may run concurrently; a single session may not.
type Session struct {
	opts     Options
	funcs    *builtins.Table
	resolver importer.Resolver
	fs       cascadefs.FileSystem
	sink     diag.Sink
	log      *diag.Log

	arena []*Fragment
	queue []*Fragment

	// cache holds evaluated expressions keyed by their exact text.
	cache map[string]value.Value
	// files holds normalized imported files keyed by path.
	files map[string]sourceFile
	// userFuncs counts @function definitions seen so far.
	userFuncs int

	depth int
	debug bool

	compress      bool
	shortColors   bool
	reverseColors bool
}

// NewSession prepares a session, filling unset options with defaults.
func NewSession(opts Options) *Session {
	s := &Session{
		opts:          opts,
		funcs:         opts.Functions,
		resolver:      opts.Importer,
		fs:            opts.FS,
		log:           &diag.Log{},
		cache:         make(map[string]value.Value),
		files:         make(map[string]sourceFile),
		compress:      opts.Compress,
		shortColors:   opts.ShortColors,
		reverseColors: opts.ReverseColors,
	}
	if s.funcs == nil {
		s.funcs = builtins.Default()
	}
	if s.fs == nil {
		s.fs = cascadefs.NewOSFileSystem()
	}
	if s.resolver == nil {
		s.resolver = importer.NewDefaultResolver(s.fs, rootDir(opts.Filename), opts.LoadPaths...)
	}
	s.sink = diag.Multi(s.log, opts.Sink)
	return s
}

// Result is the outcome of a compilation.
type Result struct {
	CSS string
	// Diagnostics lists every recoverable problem, in report order.
	Diagnostics []diag.Diagnostic
	// Fragments are the emitted fragments in output order.
	Fragments []*Fragment
}

// HasErrors reports whether any diagnostic has Error severity.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity >= diag.Error {
			return true
		}
	}
	return false
}

// Compile compiles src with a fresh session.
func Compile(src string, opts Options) (*Result, error) {
	return NewSession(opts).Compile(src)
}

// Compile compiles src. Only structural errors are returned; everything
// else is reported as a diagnostic and compilation continues.
func (s *Session) Compile(src string) (*Result, error) {
	root := s.newFragment()
	root.File = s.opts.Filename
	root.dir = rootDirOrEmpty(s.opts.Filename)
	code, offsets := source.NormalizeMap(src)
	root.code = code
	root.Selectors = []string{""}
	root.context = s.seedContext()
	root.options = NewRegistry()
	s.queue = append(s.queue[:0], root)

	if err := s.expandAll(); err != nil {
		return nil, locate(err, s.opts.Filename, offsets)
	}

	s.resolveExtends()
	ordered := order(s.arena)

	p := &printer{
		compress: s.compress,
		post:     postProcessor{compress: s.compress, shortColors: s.shortColors, reverseColors: s.reverseColors},
	}
	css, emitted := p.print(ordered)

	return &Result{
		CSS:         source.Restore(css),
		Diagnostics: s.log.Entries(),
		Fragments:   emitted,
	}, nil
}

func (s *Session) seedContext() Context {
	ctx := make(Context, len(s.opts.Variables))
	for name, raw := range s.opts.Variables {
		if !strings.HasPrefix(name, "$") {
			name = "$" + name
		}
		ctx[name] = value.NewString(raw)
	}
	return ctx
}

func (s *Session) newFragment() *Fragment {
	f := &Fragment{
		ID:       len(s.arena),
		Position: NoPosition,
		deps:     make(map[int]bool),
	}
	s.arena = append(s.arena, f)
	return f
}

// expandAll drains the worklist. A fragment's children run right after it,
// before its later siblings, and positions follow that encounter order.
func (s *Session) expandAll() error {
	pos := 0
	for len(s.queue) > 0 {
		f := s.queue[0]
		s.queue = s.queue[1:]

		var children []*Fragment
		if f.Raw == nil {
			fr := &frame{
				frag:      f,
				ctx:       f.context,
				reg:       f.options,
				selectors: f.Selectors,
				media:     f.Media,
				children:  &children,
				file:      f.File,
				dir:       f.dir,
			}
			if _, err := s.expand(fr, f.code); err != nil {
				return err
			}
		}
		s.queue = append(children, s.queue...)

		f.Position, f.order = pos, pos
		f.code = ""
		pos++
	}
	return nil
}

func (s *Session) report(sev diag.Severity, file, format string, args ...any) {
	s.sink.Report(diag.Diagnostic{
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Offset:   -1,
	})
}

// sourceFile is normalized file text with its offset map.
type sourceFile struct {
	code    string
	offsets source.Offsets
}

// locate moves a structural error found in normalized text back to the
// offset in the file and prefixes the file name. Errors already located in
// an imported file pass through.
func locate(err error, file string, offsets source.Offsets) error {
	se, ok := err.(*diag.StructuralError)
	if !ok {
		return err
	}
	se.Offset = offsets.Origin(se.Offset)
	if file == "" {
		return se
	}
	return fmt.Errorf("%s: %w", file, se)
}

// rootDir anchors node_modules lookup.
func rootDir(filename string) string {
	if filename == "" {
		return "."
	}
	return filepath.Dir(filename)
}

func rootDirOrEmpty(filename string) string {
	if filename == "" {
		return ""
	}
	return filepath.Dir(filename)
}
