/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"path/filepath"
	"slices"
	"testing"

	"bennypowers.dev/cascade/testutil"
)

func TestLoad_SimpleYAML(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/simple", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	if len(cfg.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(cfg.Files))
	}

	if cfg.Files[0].Path != "./styles/main.scss" {
		t.Errorf("expected file path './styles/main.scss', got %q", cfg.Files[0].Path)
	}

	if cfg.OutDir != "dist" {
		t.Errorf("expected outDir 'dist', got %q", cfg.OutDir)
	}

	if cfg.Compress == nil || *cfg.Compress {
		t.Errorf("expected compress false, got %v", cfg.Compress)
	}

	opts := cfg.Options()
	if opts.Compress {
		t.Error("expected Options().Compress to be false")
	}
	if !opts.ShortColors || !opts.ReverseColors {
		t.Error("expected unset color flags to keep their defaults")
	}
	if !slices.Equal(opts.LoadPaths, []string{"vendor"}) {
		t.Errorf("expected load paths [vendor], got %v", opts.LoadPaths)
	}
	if opts.Variables["brand"] != "#ff0000" {
		t.Errorf("expected brand variable, got %v", opts.Variables)
	}
}

func TestLoad_JSONC(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/jsonc", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	if len(cfg.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(cfg.Files))
	}

	if cfg.Files[0].Path != "./a.scss" || cfg.Files[0].Output != "" {
		t.Errorf("expected string form for first file, got %+v", cfg.Files[0])
	}

	if cfg.Files[1].Path != "./b.scss" || cfg.Files[1].Output != "public/b.min.css" {
		t.Errorf("expected object form for second file, got %+v", cfg.Files[1])
	}

	opts := cfg.Options()
	if opts.ShortColors {
		t.Error("expected shortColors false")
	}
	if !opts.ReverseColors {
		t.Error("expected reverseColors true")
	}
}

func TestLoad_NoConfig(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/empty", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadOrDefault(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/empty", "/project")

	cfg := LoadOrDefault(mfs, "/project")
	if cfg == nil {
		t.Fatal("expected default config, got nil")
	}

	if len(cfg.Files) != 0 {
		t.Errorf("expected no files, got %d", len(cfg.Files))
	}

	opts := cfg.Options()
	if !opts.Compress || !opts.ShortColors || !opts.ReverseColors {
		t.Errorf("expected compiler defaults, got %+v", opts)
	}
}

func TestExpandFiles(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/globs", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	files, err := cfg.ExpandFiles(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"/project/styles/main.scss",
		"/project/styles/pages/home.scss",
		"/project/extra.scss",
	}
	if !slices.Equal(files, want) {
		t.Errorf("expected %v, got %v", want, files)
	}
}

func TestOutputFor(t *testing.T) {
	cfg := &Config{
		Files:  []FileSpec{{Path: "a.scss", Output: "out/custom.css"}},
		OutDir: "dist",
	}

	tests := []struct {
		name string
		cfg  *Config
		path string
		want string
	}{
		{"explicit output", cfg, "a.scss", "out/custom.css"},
		{"out dir", cfg, "src/b.scss", filepath.Join("dist", "b.css")},
		{"next to source", Default(), filepath.Join("src", "c.scss"), filepath.Join("src", "c.css")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.OutputFor(tt.path); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
