package pip

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/reqsmith/reqsmith/pkg/errors"
)

// fakeRunner serves canned responses keyed by the joined argument list.
type fakeRunner struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeRunner) Run(_ context.Context, args ...string) ([]byte, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	out, ok := f.responses[key]
	if !ok {
		return nil, fmt.Errorf("unexpected pip invocation: %s", key)
	}
	return []byte(out), nil
}

const listJSON = `[
  {"name": "requests", "version": "2.32.3"},
  {"name": "Flask_Cors", "version": "4.0.0"},
  {"name": "PyYAML", "version": "6.0.1"}
]`

func TestRegistryListInstalled(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"list --format=json": listJSON,
	}}
	r := NewRegistry(runner)

	installed, err := r.ListInstalled(context.Background())
	if err != nil {
		t.Fatalf("ListInstalled error: %v", err)
	}

	// Names come back normalized.
	want := map[string]string{
		"requests":   "2.32.3",
		"flask-cors": "4.0.0",
		"pyyaml":     "6.0.1",
	}
	for name, version := range want {
		if installed[name] != version {
			t.Errorf("installed[%q] = %q, want %q", name, installed[name], version)
		}
	}

	// Second call reuses the snapshot.
	if _, err := r.ListInstalled(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(runner.calls) != 1 {
		t.Errorf("pip list invoked %d times, want 1", len(runner.calls))
	}
}

func TestRegistryListInstalled_Errors(t *testing.T) {
	t.Run("pip failure", func(t *testing.T) {
		runner := &fakeRunner{errs: map[string]error{
			"list --format=json": fmt.Errorf("exit status 1"),
		}}
		_, err := NewRegistry(runner).ListInstalled(context.Background())
		if errors.GetCode(err) != errors.ErrCodeRegistryQuery {
			t.Errorf("code = %v, want REGISTRY_QUERY", errors.GetCode(err))
		}
	})

	t.Run("garbage output", func(t *testing.T) {
		runner := &fakeRunner{responses: map[string]string{
			"list --format=json": "WARNING: not json",
		}}
		_, err := NewRegistry(runner).ListInstalled(context.Background())
		if errors.GetCode(err) != errors.ErrCodeRegistryQuery {
			t.Errorf("code = %v, want REGISTRY_QUERY", errors.GetCode(err))
		}
	})
}

func TestRegistryVersion(t *testing.T) {
	runner := &fakeRunner{
		responses: map[string]string{
			"show requests": "Name: requests\nVersion: 2.32.3\nSummary: HTTP for Humans.\n",
		},
		errs: map[string]error{
			"show absent": fmt.Errorf("exit status 1"),
		},
	}
	r := NewRegistry(runner)

	if v, ok := r.Version(context.Background(), "requests"); !ok || v != "2.32.3" {
		t.Errorf("Version(requests) = %q, %v", v, ok)
	}
	if _, ok := r.Version(context.Background(), "absent"); ok {
		t.Error("Version(absent) should report not installed")
	}
}

func TestRegistryVersion_UsesSnapshot(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"list --format=json": listJSON,
	}}
	r := NewRegistry(runner)
	if _, err := r.ListInstalled(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Mixed-case lookup resolves through normalization, no pip show call.
	if v, ok := r.Version(context.Background(), "Flask-Cors"); !ok || v != "4.0.0" {
		t.Errorf("Version(Flask-Cors) = %q, %v", v, ok)
	}
	if len(runner.calls) != 1 {
		t.Errorf("calls = %v, want only the list call", runner.calls)
	}
}

func TestInstallerInstall(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"install requests==2.32.3": "",
		"list --format=json":       listJSON,
	}}
	registry := NewRegistry(runner)
	inst := NewInstaller(runner, registry)

	version, err := inst.Install(context.Background(), "requests", "2.32.3")
	if err != nil {
		t.Fatalf("Install error: %v", err)
	}
	if version != "2.32.3" {
		t.Errorf("version = %q, want 2.32.3", version)
	}
}

func TestInstallerInstall_Failure(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{
		"install nosuchpkg": fmt.Errorf("exit status 1"),
	}}
	inst := NewInstaller(runner, NewRegistry(runner))

	_, err := inst.Install(context.Background(), "nosuchpkg", "")
	if errors.GetCode(err) != errors.ErrCodeInstallFailed {
		t.Errorf("code = %v, want INSTALL_FAILED", errors.GetCode(err))
	}
}

func TestInstallerUpgrade_InvalidatesSnapshot(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"list --format=json":         `[{"name": "requests", "version": "2.31.0"}]`,
		"install --upgrade requests": "",
	}}
	registry := NewRegistry(runner)
	if _, err := registry.ListInstalled(context.Background()); err != nil {
		t.Fatal(err)
	}

	runner.responses["list --format=json"] = `[{"name": "requests", "version": "2.32.3"}]`
	version, err := NewInstaller(runner, registry).Upgrade(context.Background(), "requests")
	if err != nil {
		t.Fatal(err)
	}
	if version != "2.32.3" {
		t.Errorf("version after upgrade = %q, want 2.32.3", version)
	}
}

func TestCommandError(t *testing.T) {
	err := &CommandError{Args: []string{"install", "x"}, Stderr: "no matching distribution"}
	if got := err.Error(); !strings.Contains(got, "no matching distribution") {
		t.Errorf("Error() = %q", got)
	}
}
