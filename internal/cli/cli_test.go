package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommand(t *testing.T) {
	c := New(os.Stderr, log.InfoLevel)
	root := c.RootCommand()

	if root.Use != appName {
		t.Errorf("Use = %q, want %q", root.Use, appName)
	}

	want := []string{"generate", "check", "update", "outdated", "graph", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	c := New(os.Stderr, log.InfoLevel)
	root := c.RootCommand()

	for _, flag := range []string{"verbose", "dir", "file", "no-cache", "pip"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag %q not registered", flag)
		}
	}
}

func TestGenerateCommand_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.py"), []byte("import os\nimport requests\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	c := New(&logs, log.InfoLevel)
	// pip is absent in the test environment; "false" fails fast, which
	// Generate treats as versions unknown.
	c.pipCmd = "false"
	root := c.RootCommand()
	root.SetArgs([]string{"generate", "--dir", dir, "--pip", "false"})

	if err := root.Execute(); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "requirements.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("requests")) {
		t.Errorf("manifest missing requests:\n%s", data)
	}
}

func TestApplyConfig_FlagsWin(t *testing.T) {
	c := New(os.Stderr, log.InfoLevel)
	c.file = "from-flag.txt"
	c.applyConfig(Config{Manifest: "from-config.txt", PipCommand: "pip3"})

	if c.file != "from-flag.txt" {
		t.Errorf("file = %q, flag should win over config", c.file)
	}
	if c.pipCmd != "pip3" {
		t.Errorf("pipCmd = %q, config should fill unset flag", c.pipCmd)
	}
}
