/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcp provides the mcp command, a Model Context Protocol server
// exposing the compiler as tools.
package mcp

import (
	"context"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"bennypowers.dev/cascade/builtins"
	"bennypowers.dev/cascade/cmd/functions"
	"bennypowers.dev/cascade/compiler"
	"bennypowers.dev/cascade/internal/logger"
	"bennypowers.dev/cascade/internal/version"
)

// Cmd is the mcp cobra command.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run a Model Context Protocol server over stdio",
	Long:  `Run a Model Context Protocol server over stdio exposing compile and functions tools.`,
	Args:  cobra.NoArgs,
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol
	logger.SetOutput(io.Discard)
	return NewServer().Run(cmd.Context(), &mcp.StdioTransport{})
}

// CompileInput is the compile tool's input.
type CompileInput struct {
	Source        string            `json:"source" jsonschema:"stylesheet source text"`
	Compress      *bool             `json:"compress,omitempty" jsonschema:"compress the output (default true)"`
	ShortColors   *bool             `json:"shortColors,omitempty" jsonschema:"rewrite #aabbcc as #abc (default true)"`
	ReverseColors *bool             `json:"reverseColors,omitempty" jsonschema:"use the shortest spelling of each color (default true)"`
	Variables     map[string]string `json:"variables,omitempty" jsonschema:"variables to pre-seed, by name"`
}

// Diagnostic is a diagnostic as reported by the compile tool.
type Diagnostic struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// CompileOutput is the compile tool's output.
type CompileOutput struct {
	CSS         string       `json:"css"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// FunctionsInput is the functions tool's input.
type FunctionsInput struct {
	Category string `json:"category,omitempty" jsonschema:"only list this category"`
}

// FunctionsOutput is the functions tool's output.
type FunctionsOutput struct {
	Functions []functions.Function `json:"functions"`
}

// NewServer returns a server with the compile and functions tools.
func NewServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "cascade", Version: version.Get()}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile",
		Description: "Compile stylesheet source to CSS and return any diagnostics",
	}, compileTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "functions",
		Description: "List the builtin functions available to stylesheets",
	}, functionsTool)

	return server
}

func compileTool(_ context.Context, _ *mcp.CallToolRequest, in CompileInput) (*mcp.CallToolResult, CompileOutput, error) {
	opts := compiler.DefaultOptions()
	if in.Compress != nil {
		opts.Compress = *in.Compress
	}
	if in.ShortColors != nil {
		opts.ShortColors = *in.ShortColors
	}
	if in.ReverseColors != nil {
		opts.ReverseColors = *in.ReverseColors
	}
	opts.Variables = in.Variables

	res, err := compiler.Compile(in.Source, opts)
	if err != nil {
		return nil, CompileOutput{}, err
	}

	out := CompileOutput{CSS: res.CSS, Diagnostics: []Diagnostic{}}
	for _, d := range res.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, Diagnostic{Severity: d.Severity.String(), Message: d.Message})
	}
	return nil, out, nil
}

func functionsTool(_ context.Context, _ *mcp.CallToolRequest, in FunctionsInput) (*mcp.CallToolResult, FunctionsOutput, error) {
	out := FunctionsOutput{Functions: []functions.Function{}}
	for _, fn := range functions.List(builtins.Default()) {
		if in.Category == "" || fn.Category == in.Category {
			out.Functions = append(out.Functions, fn)
		}
	}
	return nil, out, nil
}
