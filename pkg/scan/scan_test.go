package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates a file under dir, creating parent directories as needed.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "import requests\nfrom flask import Flask\n")
	writeFile(t, dir, "lib/helpers.py", "import numpy as np\nimport requests\n")
	writeFile(t, dir, "README.md", "import not_python\n")

	result, err := Scan(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	want := []string{"flask", "numpy", "requests"}
	if len(result.Imports) != len(want) {
		t.Fatalf("Imports = %v, want %v", result.Imports, want)
	}
	for i, imp := range want {
		if result.Imports[i] != imp {
			t.Errorf("Imports[%d] = %q, want %q", i, result.Imports[i], imp)
		}
	}
	if result.Files != 2 {
		t.Errorf("Files = %d, want 2", result.Files)
	}
}

func TestScan_EmptyProject(t *testing.T) {
	result, err := Scan(context.Background(), t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("Scan of empty dir should not error: %v", err)
	}
	if len(result.Imports) != 0 {
		t.Errorf("Imports = %v, want empty", result.Imports)
	}
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	if err == nil {
		t.Fatal("expected error for missing root directory")
	}
}

func TestScan_SkipsExcludedDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.py", "import requests\n")
	writeFile(t, dir, ".venv/lib/site.py", "import venv_only\n")
	writeFile(t, dir, "venv/bin/activate.py", "import venv_only\n")
	writeFile(t, dir, "__pycache__/cached.py", "import cache_only\n")
	writeFile(t, dir, ".git/hooks/hook.py", "import git_only\n")
	writeFile(t, dir, "extra/keep.py", "import pandas\n")

	result, err := Scan(context.Background(), dir, Options{})
	if err != nil {
		t.Fatal(err)
	}

	for _, unwanted := range []string{"venv_only", "cache_only", "git_only"} {
		if result.Has(unwanted) {
			t.Errorf("import %q from excluded dir should not appear", unwanted)
		}
	}
	if !result.Has("pandas") {
		t.Error("import from regular subdirectory missing")
	}
}

func TestScan_ExtraExcludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.py", "import requests\n")
	writeFile(t, dir, "generated/gen.py", "import gen_only\n")

	result, err := Scan(context.Background(), dir, Options{ExcludeDirs: []string{"generated"}})
	if err != nil {
		t.Fatal(err)
	}
	if result.Has("gen_only") {
		t.Error("configured exclude dir was scanned")
	}
}

func TestScan_MalformedFileDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.py", "import requests\n")
	writeFile(t, dir, "bad.py", "import 123 not valid python\n")

	var warnings int
	result, err := Scan(context.Background(), dir, Options{
		Logger: func(string, ...any) { warnings++ },
	})
	if err != nil {
		t.Fatalf("malformed file should not abort scan: %v", err)
	}

	if !result.Has("requests") {
		t.Error("valid file's imports should be collected")
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "bad.py" {
		t.Errorf("Skipped = %v, want [bad.py]", result.Skipped)
	}
	if warnings == 0 {
		t.Error("skip should be logged")
	}
}

func TestScan_LocalModulesExcluded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "import helpers\nimport mypackage\nimport requests\n")
	writeFile(t, dir, "helpers.py", "import os\n")
	writeFile(t, dir, "mypackage/__init__.py", "")

	result, err := Scan(context.Background(), dir, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if result.Has("helpers") {
		t.Error("local module helpers should be excluded")
	}
	if result.Has("mypackage") {
		t.Error("local package mypackage should be excluded")
	}
	if !result.Has("requests") {
		t.Error("third-party import missing")
	}
}

func TestScan_ExtensionlessScript(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tool", "#!/usr/bin/env python3\nimport click\n")
	writeFile(t, dir, "notes", "just some plain text\nnothing here\n")

	result, err := Scan(context.Background(), dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Has("click") {
		t.Error("python shebang script should be scanned")
	}
}

func TestScan_FileImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "import requests\n")
	writeFile(t, dir, "sub/b.py", "import flask\n")

	result, err := Scan(context.Background(), dir, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if got := result.FileImports["a.py"]; len(got) != 1 || got[0] != "requests" {
		t.Errorf("FileImports[a.py] = %v", got)
	}
	if got := result.FileImports[filepath.Join("sub", "b.py")]; len(got) != 1 || got[0] != "flask" {
		t.Errorf("FileImports[sub/b.py] = %v", got)
	}
}
