/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package functions provides the functions command for cascade.
package functions

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bennypowers.dev/cascade/builtins"
)

// Cmd is the functions cobra command.
var Cmd = &cobra.Command{
	Use:   "functions",
	Short: "List builtin functions",
	Long:  `List the builtin functions available to stylesheets, grouped by category.`,
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

func run(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("error reading format flag: %w", err)
	}
	return Write(cmd.OutOrStdout(), builtins.Default(), format)
}

// Function describes one builtin registration.
type Function struct {
	Name     string `json:"name"`
	Arity    int    `json:"arity"`
	Category string `json:"category"`
	Usage    string `json:"usage"`
}

// List returns the table's registrations in category order.
func List(tbl *builtins.Table) []Function {
	entries := tbl.Entries()
	out := make([]Function, 0, len(entries))
	for _, e := range entries {
		out = append(out, Function{
			Name:     e.Name,
			Arity:    e.Arity,
			Category: e.Category,
			Usage:    usage(e),
		})
	}
	return out
}

// Write prints the table to w as text or json.
func Write(w io.Writer, tbl *builtins.Table, format string) error {
	fns := List(tbl)
	switch format {
	case "json":
		out, err := json.MarshalIndent(fns, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling functions: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "text", "":
		caser := cases.Title(language.English)
		category := ""
		for i, fn := range fns {
			if fn.Category != category || i == 0 {
				if i > 0 {
					fmt.Fprintln(w)
				}
				category = fn.Category
				fmt.Fprintln(w, caser.String(category))
			}
			fmt.Fprintf(w, "  %s\n", fn.Usage)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}

// usage renders a call signature such as "mix(a, b, c)" or "min(...)".
func usage(e builtins.Entry) string {
	if e.Arity == builtins.Variadic {
		return e.Name + "(...)"
	}
	params := make([]string, e.Arity)
	for i := range params {
		params[i] = string(rune('a' + i))
	}
	return e.Name + "(" + strings.Join(params, ", ") + ")"
}
