package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	content := `manifest = "deps.txt"
pip_command = "python3 -m pip"
exclude_dirs = ["migrations", "fixtures"]

[extra_mappings]
internal_sdk = "acme-internal-sdk"
`
	if err := os.WriteFile(filepath.Join(dir, ".reqsmith.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Manifest != "deps.txt" {
		t.Errorf("Manifest = %q", cfg.Manifest)
	}
	if cfg.PipCommand != "python3 -m pip" {
		t.Errorf("PipCommand = %q", cfg.PipCommand)
	}
	if len(cfg.ExcludeDirs) != 2 || cfg.ExcludeDirs[0] != "migrations" {
		t.Errorf("ExcludeDirs = %v", cfg.ExcludeDirs)
	}
	if cfg.ExtraMappings["internal_sdk"] != "acme-internal-sdk" {
		t.Errorf("ExtraMappings = %v", cfg.ExtraMappings)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("a missing config file is not an error: %v", err)
	}
	if cfg.Manifest != "" {
		t.Errorf("Manifest = %q, want empty default", cfg.Manifest)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".reqsmith.toml"), []byte("manifest = [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("REQSMITH_MANIFEST", "reqs-from-env.txt")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Manifest != "reqs-from-env.txt" {
		t.Errorf("Manifest = %q, want env override", cfg.Manifest)
	}
}
