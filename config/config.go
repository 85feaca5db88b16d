/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides configuration loading for cascade projects.
package config

import (
	"encoding/json"
	"maps"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"bennypowers.dev/cascade/compiler"
)

// Config represents the project configuration.
type Config struct {
	// Files specifies stylesheets to compile (paths or specs, globs allowed).
	Files []FileSpec `yaml:"files" json:"files"`

	// OutDir receives compiled CSS for files without an explicit output.
	OutDir string `yaml:"outDir" json:"outDir"`

	// LoadPaths are searched for imports after the importing file's directory.
	LoadPaths []string `yaml:"loadPaths" json:"loadPaths"`

	// Output flags. Nil leaves the compiler default in place.
	Compress      *bool `yaml:"compress" json:"compress"`
	ShortColors   *bool `yaml:"shortColors" json:"shortColors"`
	ReverseColors *bool `yaml:"reverseColors" json:"reverseColors"`

	// Variables pre-seed every compilation. Names may omit the "$".
	Variables map[string]string `yaml:"variables" json:"variables"`
}

// FileSpec represents a stylesheet to compile.
// It can be specified as a simple string path or as an object with an output.
type FileSpec struct {
	// Path is the file path (supports globs).
	Path string `yaml:"path" json:"path"`

	// Output overrides where the compiled CSS is written.
	Output string `yaml:"output" json:"output"`
}

// UnmarshalYAML handles both string and object forms for FileSpec.
func (f *FileSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Path = node.Value
		return nil
	}

	type rawFileSpec FileSpec
	return node.Decode((*rawFileSpec)(f))
}

// UnmarshalJSON handles both string and object forms for FileSpec.
func (f *FileSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Path = s
		return nil
	}

	type rawFileSpec FileSpec
	return json.Unmarshal(data, (*rawFileSpec)(f))
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{}
}

// Options returns compiler options with the configuration applied over
// compiler.DefaultOptions.
func (c *Config) Options() compiler.Options {
	opts := compiler.DefaultOptions()
	if c.Compress != nil {
		opts.Compress = *c.Compress
	}
	if c.ShortColors != nil {
		opts.ShortColors = *c.ShortColors
	}
	if c.ReverseColors != nil {
		opts.ReverseColors = *c.ReverseColors
	}
	opts.LoadPaths = append([]string(nil), c.LoadPaths...)
	if len(c.Variables) > 0 {
		opts.Variables = maps.Clone(c.Variables)
	}
	return opts
}

// OutputFor returns where the CSS compiled from path is written: the
// matching FileSpec's output, else OutDir, else next to the source.
func (c *Config) OutputFor(path string) string {
	for _, spec := range c.Files {
		if spec.Output != "" && filepath.Clean(spec.Path) == filepath.Clean(path) {
			return spec.Output
		}
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".css"
	if c.OutDir != "" {
		return filepath.Join(c.OutDir, name)
	}
	return filepath.Join(filepath.Dir(path), name)
}

// FilePaths returns the list of file paths from all FileSpecs.
func (c *Config) FilePaths() []string {
	paths := make([]string, 0, len(c.Files))
	for _, spec := range c.Files {
		paths = append(paths, spec.Path)
	}
	return paths
}
