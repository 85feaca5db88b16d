/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cascade/resolver"
)

func TestDependencyGraph_NoCycle(t *testing.T) {
	g := resolver.NewDependencyGraph()
	g.AddEdge(".b", ".a")
	g.AddEdge(".c", ".b")

	assert.False(t, g.HasCycle())
	assert.Nil(t, g.FindCycle())
	assert.Equal(t, []string{".b"}, g.Dependents(".a"))
	assert.Equal(t, []string{".a"}, g.Dependencies(".b"))
	assert.Empty(t, g.Dependencies(".a"))
}

func TestDependencyGraph_Cycle(t *testing.T) {
	g := resolver.NewDependencyGraph()
	g.AddEdge(".a", ".c")
	g.AddEdge(".b", ".a")
	g.AddEdge(".c", ".b")

	require.True(t, g.HasCycle())
	assert.Equal(t, []string{".a", ".c", ".b", ".a"}, g.FindCycle())

	_, err := g.TopologicalSort()
	assert.ErrorIs(t, err, resolver.ErrCycle)
}

func TestDependencyGraph_Depth(t *testing.T) {
	g := resolver.NewDependencyGraph()
	g.AddEdge(".d", ".c")
	g.AddEdge(".c", ".b")
	g.AddEdge(".b", ".a")
	g.AddEdge(".d", ".a")
	g.AddEdge(".x", ".y")
	g.AddEdge(".y", ".x")

	tests := []struct {
		node string
		want int
	}{
		{".a", 0},
		{".b", 1},
		{".d", 3},
		{".x", 1},
		{".unknown", 0},
	}
	for _, tt := range tests {
		t.Run(tt.node, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Depth(tt.node))
		})
	}
}

func TestDependencyGraph_TopologicalSort(t *testing.T) {
	g := resolver.NewDependencyGraph()
	g.AddEdge(".child", ".base")
	g.AddEdge(".grandchild", ".child")
	g.AddEdge(".child", ".base")
	g.AddNode(".lonely")

	order, err := g.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{".base", ".child", ".grandchild", ".lonely"}, order)
	assert.Equal(t, []string{".child", ".base", ".grandchild", ".lonely"}, g.Nodes())
}
