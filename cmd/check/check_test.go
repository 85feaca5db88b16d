/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package check_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cascade/cmd/check"
	"bennypowers.dev/cascade/diag"
	"bennypowers.dev/cascade/internal/mapfs"
	"bennypowers.dev/cascade/load"
	"bennypowers.dev/cascade/testutil"
)

func TestCheck_ConfiguredFiles(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/load/project", "/project")
	l, err := load.New(load.Options{Root: "/project", FS: mfs})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = check.Check(t.Context(), &buf, l, nil, check.Flags{})
	require.Error(t, err)
	assert.ErrorIs(t, err, diag.ErrUnclosedBlock)

	out := buf.String()
	assert.Contains(t, out, "Checking /project/styles/broken.scss...")
	assert.Contains(t, out, "Checking /project/styles/main.scss...")
	assert.Contains(t, out, "2 rulesets, 2 declarations, 0 at-rules")
	assert.NotContains(t, out, "All files compiled cleanly.")
}

func TestCheck_Warnings(t *testing.T) {
	tests := []struct {
		name    string
		flags   check.Flags
		wantErr bool
		shown   bool
	}{
		{"default", check.Flags{}, false, true},
		{"strict", check.Flags{Strict: true}, true, true},
		{"quiet", check.Flags{Quiet: true}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mfs := mapfs.New()
			mfs.AddFile("/p/w.scss", "@warn careful; .a { b: c; }", 0644)
			l, err := load.New(load.Options{Root: "/p", FS: mfs})
			require.NoError(t, err)

			var buf bytes.Buffer
			err = check.Check(t.Context(), &buf, l, []string{"w.scss"}, tt.flags)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.shown {
				assert.Contains(t, buf.String(), "careful")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestCheck_NoFiles(t *testing.T) {
	l, err := load.New(load.Options{Root: "/empty", FS: mapfs.New()})
	require.NoError(t, err)

	err = check.Check(t.Context(), &bytes.Buffer{}, l, nil, check.Flags{})
	assert.ErrorContains(t, err, "no files specified")
}
