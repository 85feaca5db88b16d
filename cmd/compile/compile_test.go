/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package compile

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cascade/internal/mapfs"
	"bennypowers.dev/cascade/load"
)

func TestDestination(t *testing.T) {
	res := &load.FileResult{Path: "/p/styles/main.scss", Output: "/p/dist/main.css"}

	tests := []struct {
		name     string
		output   string
		outDir   string
		toStdout bool
		want     string
	}{
		{"configured output", "", "", false, "/p/dist/main.css"},
		{"explicit output", "out.css", "", true, "out.css"},
		{"dash is stdout", "-", "build", false, ""},
		{"out dir", "", "build", true, filepath.Join("build", "main.css")},
		{"named on command line", "", "", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, destination(res, tt.output, tt.outDir, tt.toStdout))
		})
	}
}

func TestWrite(t *testing.T) {
	mfs := mapfs.New()
	var stdout bytes.Buffer

	require.NoError(t, write(mfs, &stdout, "", ".a{b:c}"))
	assert.Equal(t, ".a{b:c}\n", stdout.String())

	require.NoError(t, write(mfs, &stdout, "/out/dist/a.css", ".a {\n  b: c;\n}\n"))
	data, err := mfs.ReadFile("/out/dist/a.css")
	require.NoError(t, err)
	assert.Equal(t, ".a {\n  b: c;\n}\n", string(data))
	assert.Equal(t, []string{"/out/dist/a.css"}, mfs.Files())
}
