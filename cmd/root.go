/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for cascade.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/cascade/cmd/check"
	"bennypowers.dev/cascade/cmd/compile"
	"bennypowers.dev/cascade/cmd/functions"
	"bennypowers.dev/cascade/cmd/mcp"
	"bennypowers.dev/cascade/cmd/version"
	"bennypowers.dev/cascade/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "cascade",
	Short: "Compile an SCSS-like stylesheet language to CSS",
	Long: `cascade compiles stylesheets with variables, nesting, mixins, functions,
control flow and selector inheritance into plain CSS.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(viper.GetBool("verbose"))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show debug output")
	rootCmd.PersistentFlags().StringP("root", "C", ".", "Project directory holding .config/cascade.yaml")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))

	rootCmd.AddCommand(compile.Cmd)
	rootCmd.AddCommand(check.Cmd)
	rootCmd.AddCommand(functions.Cmd)
	rootCmd.AddCommand(mcp.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
