/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package version_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cascade/builtins"
	"bennypowers.dev/cascade/cmd/version"
	buildinfo "bennypowers.dev/cascade/internal/version"
	"bennypowers.dev/cascade/value"
)

func table() *builtins.Table {
	tbl := builtins.NewTable()
	noop := func(*builtins.Args) (value.Value, error) { return value.NewString(""), nil }
	tbl.Register("mix", 3, "color", noop)
	tbl.Register("darken", 2, "color", noop)
	tbl.Register("pi", 0, "math", noop)
	return tbl
}

func TestNewReport(t *testing.T) {
	r := version.NewReport(buildinfo.Build{Version: "v1.0.0"}, table())
	assert.Equal(t, 3, r.Functions)
	assert.Equal(t, map[string]int{"color": 2, "math": 1}, r.Categories)
	assert.Contains(t, r.Directives, "@each")
	assert.Contains(t, r.Directives, "@extend")
}

func TestWrite_Text(t *testing.T) {
	r := version.NewReport(buildinfo.Build{Version: "v1.0.0", Commit: "abcdef0123"}, table())
	var buf bytes.Buffer
	require.NoError(t, version.Write(&buf, r, "text"))
	assert.Equal(t, "cascade v1.0.0 (abcdef0)\n  3 builtin functions (color 2, math 1)\n  18 directives\n", buf.String())
}

func TestWrite_JSON(t *testing.T) {
	r := version.NewReport(buildinfo.Build{Version: "v1.0.0"}, table())
	var buf bytes.Buffer
	require.NoError(t, version.Write(&buf, r, "json"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "v1.0.0", got["version"])
	assert.EqualValues(t, 3, got["functions"])
	assert.NotContains(t, got, "commit")
	assert.Len(t, got["directives"], 18)
}

func TestWrite_UnknownFormat(t *testing.T) {
	r := version.NewReport(buildinfo.Build{Version: "dev"}, table())
	assert.Error(t, version.Write(&bytes.Buffer{}, r, "yaml"))
}
