/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package project holds the compile flags shared by the compile and check
// commands, and turns them into loader options.
package project

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/cascade/load"
)

// AddFlags registers the shared compile flags on cmd.
func AddFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("compress", true, "Compress output")
	cmd.Flags().Bool("no-compress", false, "Pretty-print output")
	cmd.Flags().Bool("short-colors", true, "Rewrite #aabbcc as #abc")
	cmd.Flags().Bool("reverse-colors", true, "Use the shortest spelling of each color")
	cmd.Flags().StringArrayP("load-path", "I", nil, "Directory searched for imports (repeatable)")
	cmd.Flags().StringArray("var", nil, "Pre-seed a variable as name=value (repeatable)")
}

// Bind binds the running command's flags to viper, so a flag the user set
// overrides the project config.
func Bind(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlags(cmd.Flags())
}

// Options builds loader options from the bound flags.
func Options(root string) (load.Options, error) {
	opts := load.Options{
		Root:          root,
		Compress:      flag("compress"),
		ShortColors:   flag("short-colors"),
		ReverseColors: flag("reverse-colors"),
		LoadPaths:     viper.GetStringSlice("load-path"),
	}
	if viper.GetBool("no-compress") {
		off := false
		opts.Compress = &off
	}

	vars, err := ParseVars(viper.GetStringSlice("var"))
	if err != nil {
		return opts, err
	}
	opts.Variables = vars
	return opts, nil
}

// ParseVars splits name=value pairs.
func ParseVars(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, val, found := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("invalid variable %q: expected name=value", pair)
		}
		vars[name] = strings.TrimSpace(val)
	}
	return vars, nil
}

// flag returns the value of a boolean flag the user set, or nil.
func flag(name string) *bool {
	if !viper.IsSet(name) {
		return nil
	}
	v := viper.GetBool(name)
	return &v
}
