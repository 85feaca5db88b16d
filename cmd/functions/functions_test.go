/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package functions_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cascade/builtins"
	"bennypowers.dev/cascade/cmd/functions"
	"bennypowers.dev/cascade/value"
)

func table() *builtins.Table {
	tbl := builtins.NewTable()
	noop := func(*builtins.Args) (value.Value, error) { return value.NewString(""), nil }
	tbl.Register("mix", 3, "color", noop)
	tbl.Register("darken", 2, "color", noop)
	tbl.Register("max", builtins.Variadic, "math", noop)
	tbl.Register("pi", 0, "math", noop)
	return tbl
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, functions.Write(&buf, table(), "text"))
	assert.Equal(t, "Color\n  darken(a, b)\n  mix(a, b, c)\n\nMath\n  max(...)\n  pi()\n", buf.String())
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, functions.Write(&buf, table(), "json"))

	var got []functions.Function
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 4)
	assert.Equal(t, functions.Function{Name: "max", Arity: builtins.Variadic, Category: "math", Usage: "max(...)"}, got[2])
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, functions.Write(&bytes.Buffer{}, table(), "yaml"))
}

func TestList_Default(t *testing.T) {
	fns := functions.List(builtins.Default())
	names := make(map[string]bool, len(fns))
	for _, fn := range fns {
		names[fn.Name] = true
	}
	for _, want := range []string{"rgb", "lighten", "nth", "percentage", "quote", "nest"} {
		assert.True(t, names[want], want)
	}
}
