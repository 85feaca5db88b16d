/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"bennypowers.dev/cascade/diag"
	"bennypowers.dev/cascade/load"
	"bennypowers.dev/cascade/testutil"
)

func TestCompileFile(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/load/project", "/project")

	res, err := load.CompileFile(t.Context(), "styles/main.scss", load.Options{
		Root: "/project",
		FS:   mfs,
	})
	require.NoError(t, err)
	assert.Equal(t, "/project/styles/main.scss", res.Path)
	assert.Equal(t, "/project/dist/main.css", res.Output)
	assert.Equal(t, ".grid{g:1}.a{color:red}", res.CSS)
	assert.Empty(t, res.Diagnostics)
}

func TestCompileFile_OptionsOverrideConfig(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/load/project", "/project")
	off := false

	res, err := load.CompileFile(t.Context(), "/project/styles/main.scss", load.Options{
		Root:          "/project",
		FS:            mfs,
		ReverseColors: &off,
		Variables:     map[string]string{"brand": "#00ff00"},
	})
	require.NoError(t, err)
	assert.Equal(t, ".grid{g:1}.a{color:#0f0}", res.CSS)
}

func TestCompileFile_Golden(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/load/pretty", "/site")

	res, err := load.CompileFile(t.Context(), "site.scss", load.Options{Root: "/site", FS: mfs})
	require.NoError(t, err)
	assert.Equal(t, "/site/public/site.css", res.Output)

	testutil.UpdateGoldenFile(t, "golden/site.css", []byte(res.CSS))
	assert.Equal(t, string(testutil.LoadFixtureFile(t, "golden/site.css")), res.CSS)
}

func TestCompileFile_NotFound(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/load/project", "/project")

	_, err := load.CompileFile(t.Context(), "missing.scss", load.Options{Root: "/project", FS: mfs})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.scss")
}

func TestCompileAll(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/load/project", "/project")
	var log diag.Log

	l, err := load.New(load.Options{Root: "/project", FS: mfs, Sink: &log})
	require.NoError(t, err)

	results, err := l.CompileAll(t.Context(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, diag.ErrUnclosedBlock)
	assert.Len(t, multierr.Errors(err), 1)
	assert.Contains(t, err.Error(), "broken.scss")

	require.Len(t, results, 1)
	assert.Equal(t, "/project/styles/main.scss", results[0].Path)
	assert.Equal(t, ".grid{g:1}.a{color:red}", results[0].CSS)
	assert.Empty(t, log.Entries())
}

func TestCompileAll_Canceled(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/load/project", "/project")
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	l, err := load.New(load.Options{Root: "/project", FS: mfs})
	require.NoError(t, err)

	results, err := l.CompileAll(ctx, []string{"styles/main.scss", "styles/broken.scss"})
	assert.Empty(t, results)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoader_Files(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/load/project", "/project")

	l, err := load.New(load.Options{Root: "/project", FS: mfs})
	require.NoError(t, err)

	files, err := l.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"/project/styles/broken.scss", "/project/styles/main.scss"}, files)
}
