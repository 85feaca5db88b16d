/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package version provides the version command for cascade.
package version

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/cascade/builtins"
	"bennypowers.dev/cascade/compiler"
	"bennypowers.dev/cascade/internal/version"
)

// Cmd prints the build and the language surface it supports.
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the cascade version along with its builtin functions and directives.`,
	RunE:  run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

// Report is the json form of the version command.
type Report struct {
	version.Build
	Functions  int            `json:"functions"`
	Categories map[string]int `json:"categories"`
	Directives []string       `json:"directives"`
}

// NewReport describes the build together with tbl and the compiler's
// directives.
func NewReport(b version.Build, tbl *builtins.Table) Report {
	r := Report{Build: b, Categories: map[string]int{}, Directives: compiler.Directives()}
	for _, e := range tbl.Entries() {
		r.Functions++
		r.Categories[e.Category]++
	}
	return r
}

// Write renders r as text or json.
func Write(w io.Writer, r Report, format string) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling version info: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "text", "":
		var parts []string
		for _, c := range slices.Sorted(maps.Keys(r.Categories)) {
			parts = append(parts, fmt.Sprintf("%s %d", c, r.Categories[c]))
		}
		_, err := fmt.Fprintf(w, "cascade %s\n  %d builtin functions (%s)\n  %d directives\n",
			r.Build, r.Functions, strings.Join(parts, ", "), len(r.Directives))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func run(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("error reading format flag: %w", err)
	}
	return Write(cmd.OutOrStdout(), NewReport(version.Read(), builtins.Default()), format)
}
