/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolver analyses selector inheritance as a directed graph whose
// edges run from an extending selector to the selector it extends.
package resolver

import (
	"errors"
	"fmt"
)

// ErrCycle is returned when selectors extend each other in a loop.
var ErrCycle = errors.New("circular extend")

// DependencyGraph represents a directed graph of extend edges. Nodes are
// visited in insertion order so results are deterministic.
type DependencyGraph struct {
	dependencies map[string][]string
	dependents   map[string][]string
	nodes        []string
	seen         map[string]bool
}

// NewDependencyGraph returns an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
		seen:         make(map[string]bool),
	}
}

// AddNode registers a selector without edges.
func (g *DependencyGraph) AddNode(name string) {
	if !g.seen[name] {
		g.seen[name] = true
		g.nodes = append(g.nodes, name)
	}
}

// AddEdge records that child extends parent. Repeated edges are ignored.
func (g *DependencyGraph) AddEdge(child, parent string) {
	g.AddNode(child)
	g.AddNode(parent)
	for _, dep := range g.dependencies[child] {
		if dep == parent {
			return
		}
	}
	g.dependencies[child] = append(g.dependencies[child], parent)
	g.dependents[parent] = append(g.dependents[parent], child)
}

// Nodes returns every selector in insertion order.
func (g *DependencyGraph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// Dependencies returns the selectors the given selector extends.
func (g *DependencyGraph) Dependencies(name string) []string {
	if deps, ok := g.dependencies[name]; ok {
		return deps
	}
	return []string{}
}

// Dependents returns the selectors extending the given selector.
func (g *DependencyGraph) Dependents(name string) []string {
	if deps, ok := g.dependents[name]; ok {
		return deps
	}
	return []string{}
}

// HasCycle returns true if the graph contains a circular extend.
func (g *DependencyGraph) HasCycle() bool {
	return g.FindCycle() != nil
}

// FindCycle returns the cycle path if one exists, or nil if no cycle.
// The path starts and ends with the same selector.
func (g *DependencyGraph) FindCycle() []string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	for _, node := range g.nodes {
		if cycle := g.findCycleDFS(node, visited, recStack, nil); cycle != nil {
			return cycle
		}
	}
	return nil
}

func (g *DependencyGraph) findCycleDFS(node string, visited, recStack map[string]bool, path []string) []string {
	if recStack[node] {
		for i, n := range path {
			if n == node {
				return append(append([]string(nil), path[i:]...), node)
			}
		}
		panic(fmt.Sprintf("cycle detection invariant violated: node %q in recStack but not in path %v", node, path))
	}
	if visited[node] {
		return nil
	}

	visited[node] = true
	recStack[node] = true
	path = append(path, node)

	for _, dep := range g.dependencies[node] {
		if cycle := g.findCycleDFS(dep, visited, recStack, path); cycle != nil {
			return cycle
		}
	}

	recStack[node] = false
	return nil
}

// Depth returns the length of the longest extend chain starting at name:
// zero for a selector that extends nothing. Cycles count each selector once.
func (g *DependencyGraph) Depth(name string) int {
	return g.depth(name, make(map[string]bool))
}

func (g *DependencyGraph) depth(node string, onPath map[string]bool) int {
	onPath[node] = true
	defer delete(onPath, node)

	best := 0
	for _, dep := range g.dependencies[node] {
		if onPath[dep] {
			continue
		}
		best = max(best, 1+g.depth(dep, onPath))
	}
	return best
}

// TopologicalSort returns selectors with extended selectors before the
// selectors extending them. Returns an error if the graph contains a cycle.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycle, cycle)
	}

	visited := make(map[string]bool)
	result := []string{}

	for _, node := range g.nodes {
		if !visited[node] {
			g.topologicalSortDFS(node, visited, &result)
		}
	}

	return result, nil
}

func (g *DependencyGraph) topologicalSortDFS(node string, visited map[string]bool, stack *[]string) {
	visited[node] = true

	for _, dep := range g.dependencies[node] {
		if !visited[dep] {
			g.topologicalSortDFS(dep, visited, stack)
		}
	}

	*stack = append(*stack, node)
}
