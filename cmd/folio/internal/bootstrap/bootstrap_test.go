package bootstrap

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildModuleUsesDefaultsWithoutConfigFile(t *testing.T) {
	resources, err := BuildModule(Options{LogWriter: io.Discard})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	if resources.Module == nil {
		t.Fatal("expected module to be initialised")
	}
	if resources.ConfigPath != "" {
		t.Fatalf("expected no config file, got %q", resources.ConfigPath)
	}
	if resources.Module.Generator() == nil || resources.Module.BuildSiteHandler() == nil {
		t.Fatal("expected generator and handlers to be configured")
	}
}

func TestLoadConfigAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte("site:\n  title: Example\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, used, err := LoadConfig(Options{ConfigPath: path, OutputDir: " public ", LogLevel: "debug"})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if used != path {
		t.Fatalf("expected config path %q, got %q", path, used)
	}
	if cfg.Site.Title != "Example" || cfg.Generator.OutputDir != "public" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadConfigRequiresExplicitFile(t *testing.T) {
	_, _, err := LoadConfig(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not exist error, got %v", err)
	}
}
