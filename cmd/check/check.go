/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package check provides the check command for cascade.
package check

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"bennypowers.dev/cascade/cmd/internal/project"
	"bennypowers.dev/cascade/diag"
	"bennypowers.dev/cascade/fs"
	"bennypowers.dev/cascade/load"
	"bennypowers.dev/cascade/verify"
)

// Cmd is the check cobra command.
var Cmd = &cobra.Command{
	Use:     "check [files...]",
	Short:   "Compile stylesheets without writing output",
	Long:    `Compile stylesheets and report diagnostics without writing any CSS.`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: project.Bind,
	RunE:    run,
}

func init() {
	Cmd.Flags().Bool("strict", false, "Fail on warnings")
	Cmd.Flags().Bool("quiet", false, "Only output errors")
	project.AddFlags(Cmd)
}

func run(cmd *cobra.Command, args []string) error {
	opts, err := project.Options(viper.GetString("root"))
	if err != nil {
		return err
	}
	opts.FS = fs.NewOSFileSystem()

	l, err := load.New(opts)
	if err != nil {
		return err
	}

	return Check(cmd.Context(), cmd.OutOrStdout(), l, args, Flags{
		Strict: viper.GetBool("strict"),
		Quiet:  viper.GetBool("quiet"),
	})
}

// Flags controls reporting.
type Flags struct {
	Strict bool
	Quiet  bool
}

// Check compiles paths and prints each file's diagnostics to w.
func Check(ctx context.Context, w io.Writer, l *load.Loader, paths []string, flags Flags) error {
	if len(paths) == 0 {
		expanded, err := l.Files()
		if err != nil {
			return fmt.Errorf("error expanding config files: %w", err)
		}
		paths = expanded
	}

	if len(paths) == 0 {
		return fmt.Errorf("no files specified and no files found in config")
	}

	threshold := diag.Error
	if flags.Strict {
		threshold = diag.Warning
	}
	shown := diag.Info
	if flags.Quiet {
		shown = diag.Error
	}

	var errs error
	for _, path := range paths {
		if !flags.Quiet {
			fmt.Fprintf(w, "Checking %s...\n", path)
		}

		res, err := l.CompileFile(ctx, path)
		if err != nil {
			fmt.Fprintf(w, "  error: %v\n", err)
			errs = multierr.Append(errs, err)
			continue
		}

		failed := 0
		for _, d := range res.Diagnostics {
			if d.Severity >= shown {
				fmt.Fprintf(w, "  %s\n", d)
			}
			if d.Severity >= threshold {
				failed++
			}
		}

		report := verify.CSS(res.CSS)
		for _, err := range report.Errors {
			fmt.Fprintf(w, "  error: %v\n", err)
		}
		if !report.OK() {
			failed++
		}

		if failed > 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s: %d problem(s)", path, failed))
			continue
		}
		if !flags.Quiet {
			fmt.Fprintf(w, "  %d rulesets, %d declarations, %d at-rules\n",
				report.Rulesets, report.Declarations, report.AtRules)
		}
	}

	if errs != nil {
		return fmt.Errorf("check failed: %w", errs)
	}

	if !flags.Quiet {
		fmt.Fprintln(w, "All files compiled cleanly.")
	}
	return nil
}
