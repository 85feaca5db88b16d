/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package compiler

import (
	"bennypowers.dev/cascade/builtins"
	"bennypowers.dev/cascade/diag"
	cascadefs "bennypowers.dev/cascade/fs"
	"bennypowers.dev/cascade/importer"
)

// MagicImportFunc produces stylesheet text for an import name that matched
// no file, such as a generated sprite map. It returns false to decline.
type MagicImportFunc func(name string) (source string, ok bool)

// Options configures one compilation.
type Options struct {
	// Compress removes whitespace and shortens numbers in the output.
	Compress bool
	// ShortColors rewrites #aabbcc as #abc.
	ShortColors bool
	// ReverseColors replaces colors with their shortest spelling, so
	// #ff0000 becomes red and white becomes #fff.
	ReverseColors bool

	// Variables pre-seed the root context. Names may omit the "$".
	Variables map[string]string

	// LoadPaths are searched for imports after the importing file's
	// directory. Ignored when Importer is set.
	LoadPaths []string
	// Importer resolves @import names. Defaults to npm: and load-path
	// resolution over FS.
	Importer importer.Resolver
	// FS reads imported files. Defaults to the OS filesystem.
	FS cascadefs.FileSystem
	// MagicImport is consulted when an import resolves to no file.
	MagicImport MagicImportFunc

	// Functions is the builtin table. Defaults to builtins.Default().
	Functions *builtins.Table

	// Sink receives diagnostics in addition to Result.Diagnostics.
	Sink diag.Sink

	// DisableCache turns off the per-compilation expression cache.
	DisableCache bool

	// Filename names the source in diagnostics and anchors relative
	// imports. Empty for in-memory text.
	Filename string
}

// DefaultOptions returns compressed output with both color rewrites on.
func DefaultOptions() Options {
	return Options{
		Compress:      true,
		ShortColors:   true,
		ReverseColors: true,
	}
}
