/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package importer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	cascadefs "bennypowers.dev/cascade/fs"
)

const npmPrefix = "npm:"

// npmPattern matches npm:@scope/pkg/path, npm:pkg/path, or bare npm:pkg
var npmPattern = regexp.MustCompile(`^npm:(@[^/]+/[^/]+|[^/]+)(/.*)?$`)

// Package is a parsed npm: import name.
type Package struct {
	// Name is the package name (e.g. "@scope/pkg" or "pkg").
	Name string

	// File is the stylesheet path within the package, possibly empty.
	File string
}

// ParseNPM splits an npm: import name. The second result is false when
// name is not a well-formed npm: import.
func ParseNPM(name string) (Package, bool) {
	matches := npmPattern.FindStringSubmatch(name)
	if len(matches) != 3 {
		return Package{}, false
	}
	return Package{Name: matches[1], File: strings.TrimPrefix(matches[2], "/")}, true
}

// NPMResolver resolves npm: imports to node_modules paths.
type NPMResolver struct {
	fs      cascadefs.FileSystem
	rootDir string
}

// NewNPMResolver creates a resolver for npm: imports.
// The rootDir is the starting directory for node_modules lookup when the
// importing text has no directory of its own.
func NewNPMResolver(fs cascadefs.FileSystem, rootDir string) *NPMResolver {
	return &NPMResolver{
		fs:      fs,
		rootDir: rootDir,
	}
}

// Resolve walks up from the importing directory looking for the package in
// node_modules, then tries the candidate spellings of the file within it.
// A bare package name resolves to the package's index partial.
func (r *NPMResolver) Resolve(name, from string) (*ResolvedFile, error) {
	pkg, ok := ParseNPM(name)
	if !ok {
		return nil, fmt.Errorf("%w: not an npm import: %s", ErrNotFound, name)
	}
	file := pkg.File
	if file == "" {
		file = "index"
	}

	dir := from
	if dir == "" {
		dir = r.rootDir
	}
	if !filepath.IsAbs(dir) {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", dir, err)
		}
		dir = absDir
	}

	startDir := dir

	for {
		pkgDir := filepath.Join(dir, "node_modules", filepath.FromSlash(pkg.Name))
		if r.fs.Exists(pkgDir) {
			for _, candidate := range Candidates(file) {
				p := filepath.Join(pkgDir, filepath.FromSlash(candidate))
				if info, err := r.fs.Stat(p); err == nil && !info.IsDir() {
					return &ResolvedFile{Name: name, Path: p, Kind: KindNPM}, nil
				}
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return nil, fmt.Errorf("%w: %s (looked in node_modules starting from %s)", ErrNotFound, name, startDir)
}

// CanResolve returns true for npm: imports.
func (r *NPMResolver) CanResolve(name string) bool {
	return strings.HasPrefix(name, npmPrefix)
}
