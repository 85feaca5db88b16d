/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package compile provides the compile command for cascade.
package compile

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"bennypowers.dev/cascade/cmd/internal/project"
	"bennypowers.dev/cascade/diag"
	"bennypowers.dev/cascade/fs"
	"bennypowers.dev/cascade/internal/logger"
	"bennypowers.dev/cascade/load"
	"bennypowers.dev/cascade/verify"
)

// Cmd is the compile cobra command.
var Cmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Compile stylesheets to CSS",
	Long: `Compile stylesheets to CSS.

Files named on the command line are written to stdout unless --output or
--out-dir is given. With no arguments, the files listed in
.config/cascade.yaml are compiled to their configured outputs.

Examples:
  # Compile one file to stdout
  cascade compile main.scss

  # Pretty-print with an extra import directory
  cascade compile --no-compress -I vendor main.scss

  # Compile every configured file and check the output parses
  cascade compile --verify

  # Show how fragments were ordered
  cascade compile --explain main.scss`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: project.Bind,
	RunE:    run,
}

func init() {
	Cmd.Flags().StringP("output", "o", "", "Output file for a single input (- for stdout)")
	Cmd.Flags().String("out-dir", "", "Directory receiving compiled CSS")
	Cmd.Flags().Bool("verify", false, "Re-parse the output and fail on invalid CSS")
	Cmd.Flags().Bool("explain", false, "Print the ordered fragment tree instead of CSS")
	project.AddFlags(Cmd)
}

func run(cmd *cobra.Command, args []string) error {
	output := viper.GetString("output")
	outDir := viper.GetString("out-dir")
	check := viper.GetBool("verify")
	explain := viper.GetBool("explain")

	opts, err := project.Options(viper.GetString("root"))
	if err != nil {
		return err
	}
	filesystem := fs.NewOSFileSystem()
	opts.FS = filesystem
	opts.Sink = diag.NewZapSink(logger.Zap())

	l, err := load.New(opts)
	if err != nil {
		return err
	}

	results, errs := l.CompileAll(cmd.Context(), args)
	if len(results) == 0 && errs == nil {
		return fmt.Errorf("no files specified and no files found in config")
	}
	if output != "" && len(results)+len(multierr.Errors(errs)) > 1 {
		return errors.New("--output needs exactly one input file")
	}

	stdout := cmd.OutOrStdout()
	for _, res := range results {
		if explain {
			fmt.Fprintf(stdout, "%s\n%s", res.Path, res.Tree())
			continue
		}

		if check {
			if err := verify.Check(res.CSS); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", res.Path, err))
				continue
			}
		}

		dest := destination(res, output, outDir, len(args) > 0 && l.Config().OutDir == "")
		if err := write(filesystem, stdout, dest, res.CSS); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if dest != "" {
			logger.Debug("wrote %s", dest)
		}
	}

	for _, err := range multierr.Errors(errs) {
		logger.Warn("%v", err)
	}
	if errs != nil {
		return fmt.Errorf("%d file(s) failed", len(multierr.Errors(errs)))
	}
	return nil
}

// destination picks where CSS goes; empty means stdout.
func destination(res *load.FileResult, output, outDir string, toStdout bool) string {
	switch {
	case output == "-":
		return ""
	case output != "":
		return output
	case outDir != "":
		name := strings.TrimSuffix(filepath.Base(res.Path), filepath.Ext(res.Path)) + ".css"
		return filepath.Join(outDir, name)
	case toStdout:
		return ""
	}
	return res.Output
}

func write(filesystem fs.FileSystem, stdout io.Writer, dest, css string) error {
	if css != "" && !strings.HasSuffix(css, "\n") {
		css += "\n"
	}
	if dest == "" {
		_, err := io.WriteString(stdout, css)
		return err
	}
	if err := filesystem.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("error creating %s: %w", filepath.Dir(dest), err)
	}
	if err := filesystem.WriteFile(dest, []byte(css), 0644); err != nil {
		return fmt.Errorf("error writing to %s: %w", dest, err)
	}
	return nil
}
