/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package importer resolves @import names to stylesheet files.
package importer

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is returned when no candidate file exists for an import.
var ErrNotFound = errors.New("import not found")

// Extension is the stylesheet file extension tried for extension-less names.
const Extension = ".scss"

// Kind indicates how an import name was resolved.
type Kind int

const (
	// KindLoadPath is a name found relative to the importing file or a load path.
	KindLoadPath Kind = iota
	// KindNPM is an npm: package import.
	KindNPM
)

func (k Kind) String() string {
	switch k {
	case KindLoadPath:
		return "load-path"
	case KindNPM:
		return "npm"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ResolvedFile preserves both the import name and the file it resolved to.
type ResolvedFile struct {
	// Name is the import name as written (e.g. "base" or "npm:@acme/ui/grid").
	Name string

	// Path is the resolved filesystem path (e.g. "/project/scss/_base.scss").
	Path string

	Kind Kind
}

// Resolver resolves import names to files.
type Resolver interface {
	// Resolve resolves name imported from the directory from. An empty from
	// means the importing text has no location of its own.
	Resolve(name, from string) (*ResolvedFile, error)

	// CanResolve returns true if this resolver can handle the given name.
	CanResolve(name string) bool
}

// ChainResolver tries multiple resolvers in order.
type ChainResolver struct {
	resolvers []Resolver
}

// NewChainResolver creates a resolver that tries each resolver in order.
func NewChainResolver(resolvers ...Resolver) *ChainResolver {
	return &ChainResolver{resolvers: resolvers}
}

// Resolve hands name to the first resolver that can handle it.
func (c *ChainResolver) Resolve(name, from string) (*ResolvedFile, error) {
	for _, r := range c.resolvers {
		if r.CanResolve(name) {
			return r.Resolve(name, from)
		}
	}
	return nil, fmt.Errorf("%w: no resolver for %s", ErrNotFound, name)
}

// CanResolve returns true if any resolver can handle the name.
func (c *ChainResolver) CanResolve(name string) bool {
	for _, r := range c.resolvers {
		if r.CanResolve(name) {
			return true
		}
	}
	return false
}

// Candidates returns the file names tried for an import name, most
// specific first: the partial with extension, the plain name with
// extension, then both without it.
func Candidates(name string) []string {
	dir, file := path.Split(name)
	return []string{
		dir + "_" + file + Extension,
		dir + file + Extension,
		dir + "_" + file,
		dir + file,
	}
}

// IsCSSImport reports whether name refers to plain CSS that must be left
// to the browser as an @import line rather than inlined.
func IsCSSImport(name string) bool {
	return strings.Contains(name, "://") ||
		strings.HasPrefix(name, "url(") ||
		strings.HasSuffix(name, ".css")
}
