/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package importer

import cascadefs "bennypowers.dev/cascade/fs"

// NewDefaultResolver creates a resolver chain that handles npm: imports and
// load-path names. The rootDir anchors node_modules lookup.
func NewDefaultResolver(fs cascadefs.FileSystem, rootDir string, loadPaths ...string) Resolver {
	return NewChainResolver(
		NewNPMResolver(fs, rootDir),
		NewLoadPathResolver(fs, loadPaths...),
	)
}
