/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package load provides a high-level API for compiling stylesheets from
// disk with project configuration applied.
package load

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"

	"go.uber.org/multierr"

	"bennypowers.dev/cascade/compiler"
	"bennypowers.dev/cascade/config"
	"bennypowers.dev/cascade/diag"
	"bennypowers.dev/cascade/fs"
)

// Options configures how stylesheets are compiled.
type Options struct {
	// Root is the project directory holding .config/cascade.*.
	// Relative file paths resolve against it.
	Root string

	// FS is the filesystem to use. Defaults to OS filesystem if nil.
	FS fs.FileSystem

	// Config overrides the configuration found under Root.
	Config *config.Config

	// Output flags. Take precedence over config when set.
	Compress      *bool
	ShortColors   *bool
	ReverseColors *bool

	// LoadPaths are appended to the configured load paths.
	LoadPaths []string

	// Variables are merged over the configured variables.
	Variables map[string]string

	// MagicImport is passed through to the compiler.
	MagicImport compiler.MagicImportFunc

	// Sink receives diagnostics from every compilation.
	Sink diag.Sink
}

// FileResult is the outcome of compiling one file.
type FileResult struct {
	// Path is the absolute source path.
	Path string
	// Output is where the CSS belongs according to the configuration.
	Output string
	*compiler.Result
}

// Loader compiles files under one project root.
type Loader struct {
	fs   fs.FileSystem
	root string
	cfg  *config.Config
	opts Options
}

// New prepares a loader, reading the project configuration unless
// Options.Config is set.
func New(opts Options) (*Loader, error) {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}

	// Ensure root is absolute
	root := opts.Root
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path: %w", err)
		}
		root = absRoot
	}

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load(filesystem, root)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cfg == nil {
		cfg = config.Default()
	}

	return &Loader{fs: filesystem, root: root, cfg: cfg, opts: opts}, nil
}

// Config returns the effective project configuration.
func (l *Loader) Config() *config.Config {
	return l.cfg
}

// Files returns the configured stylesheet paths with globs expanded.
func (l *Loader) Files() ([]string, error) {
	return l.cfg.ExpandFiles(l.fs, l.root)
}

// CompilerOptions returns the compiler options for path: compiler
// defaults, then configuration, then Options.
func (l *Loader) CompilerOptions(path string) compiler.Options {
	opts := l.cfg.Options()
	if l.opts.Compress != nil {
		opts.Compress = *l.opts.Compress
	}
	if l.opts.ShortColors != nil {
		opts.ShortColors = *l.opts.ShortColors
	}
	if l.opts.ReverseColors != nil {
		opts.ReverseColors = *l.opts.ReverseColors
	}
	for i, p := range opts.LoadPaths {
		opts.LoadPaths[i] = l.abs(p)
	}
	for _, p := range l.opts.LoadPaths {
		opts.LoadPaths = append(opts.LoadPaths, l.abs(p))
	}
	if len(l.opts.Variables) > 0 {
		if opts.Variables == nil {
			opts.Variables = make(map[string]string, len(l.opts.Variables))
		}
		maps.Copy(opts.Variables, l.opts.Variables)
	}
	opts.FS = l.fs
	opts.MagicImport = l.opts.MagicImport
	opts.Sink = l.opts.Sink
	opts.Filename = path
	return opts
}

// CompileFile compiles one stylesheet. Only unreadable files and structural
// errors are returned; everything else is in the result's diagnostics.
func (l *Loader) CompileFile(ctx context.Context, path string) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path = l.abs(path)
	content, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	res, err := compiler.Compile(string(content), l.CompilerOptions(path))
	if err != nil {
		return nil, err
	}

	return &FileResult{Path: path, Output: l.output(path), Result: res}, nil
}

// CompileAll compiles every path, or the configured files when paths is
// empty. Failures do not stop the run; they are combined into the returned
// error and the failed files are absent from the results.
func (l *Loader) CompileAll(ctx context.Context, paths []string) ([]*FileResult, error) {
	if len(paths) == 0 {
		expanded, err := l.Files()
		if err != nil {
			return nil, fmt.Errorf("failed to expand files: %w", err)
		}
		paths = expanded
	}

	var (
		results []*FileResult
		errs    error
	)
	for _, path := range paths {
		res, err := l.CompileFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return results, multierr.Append(errs, err)
			}
			errs = multierr.Append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

// output maps a source path to its configured CSS destination.
func (l *Loader) output(path string) string {
	rel, err := filepath.Rel(l.root, path)
	if err != nil {
		rel = path
	}
	return l.abs(l.cfg.OutputFor(rel))
}

func (l *Loader) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.root, path)
}

// CompileFile compiles a single file with the configuration under
// Options.Root.
func CompileFile(ctx context.Context, path string, opts Options) (*FileResult, error) {
	l, err := New(opts)
	if err != nil {
		return nil, err
	}
	return l.CompileFile(ctx, path)
}
