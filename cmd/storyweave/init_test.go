package main

import (
	"path/filepath"
	"testing"

	"storyweave/internal/config"
)

func TestRunInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storyweave.yaml")
	if err := runInit(path, "demo", "sqlite://demo.db"); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	cfg, err := config.LoadProjectConfig(path)
	if err != nil {
		t.Fatalf("loading written config: %v", err)
	}
	if cfg.Project != "demo" {
		t.Fatalf("project = %q, want demo", cfg.Project)
	}
	backend, err := cfg.Database.Backend()
	if err != nil || backend != config.BackendSQLite {
		t.Fatalf("backend = %q, %v", backend, err)
	}
	if cfg.Assets.ImagePath != "/assets/images/%d" {
		t.Fatalf("image path = %q", cfg.Assets.ImagePath)
	}
	if len(cfg.Import.Paths) != 1 {
		t.Fatalf("import paths = %v", cfg.Import.Paths)
	}
}

func TestRunInit_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storyweave.yaml")
	if err := runInit(path, "demo", "sqlite://demo.db"); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := runInit(path, "demo", "sqlite://demo.db"); err == nil {
		t.Fatal("expected error on second init")
	}
}

func TestParseIDArg(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12", 12, false},
		{"0", 0, true},
		{"-4", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseIDArg(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}
