/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package importer

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	cascadefs "bennypowers.dev/cascade/fs"
)

// LoadPathResolver finds imports next to the importing file and then in
// each configured load path, in order.
type LoadPathResolver struct {
	fs    cascadefs.FileSystem
	paths []string
}

// NewLoadPathResolver creates a resolver searching the given directories.
func NewLoadPathResolver(fs cascadefs.FileSystem, paths ...string) *LoadPathResolver {
	return &LoadPathResolver{fs: fs, paths: paths}
}

// Resolve tries every candidate spelling of name in each search directory.
// Names reaching outside the search directories with ".." are refused.
func (r *LoadPathResolver) Resolve(name, from string) (*ResolvedFile, error) {
	if slices.Contains(strings.Split(filepath.ToSlash(name), "/"), "..") {
		return nil, fmt.Errorf("%w: %s reaches outside the load paths", ErrNotFound, name)
	}

	var searched []string
	for _, dir := range r.dirs(from) {
		if slices.Contains(searched, dir) {
			continue
		}
		searched = append(searched, dir)
		for _, candidate := range Candidates(name) {
			p := filepath.Join(dir, filepath.FromSlash(candidate))
			if r.isFile(p) {
				return &ResolvedFile{Name: name, Path: p, Kind: KindLoadPath}, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s (looked in %s)", ErrNotFound, name, strings.Join(searched, ", "))
}

// CanResolve returns true for every name that is not a package import.
func (r *LoadPathResolver) CanResolve(name string) bool {
	return !strings.HasPrefix(name, npmPrefix)
}

func (r *LoadPathResolver) dirs(from string) []string {
	dirs := make([]string, 0, len(r.paths)+1)
	if from != "" {
		dirs = append(dirs, filepath.Clean(from))
	}
	for _, p := range r.paths {
		dirs = append(dirs, filepath.Clean(p))
	}
	if len(dirs) == 0 {
		dirs = append(dirs, ".")
	}
	return dirs
}

func (r *LoadPathResolver) isFile(p string) bool {
	info, err := r.fs.Stat(p)
	return err == nil && !info.IsDir()
}
