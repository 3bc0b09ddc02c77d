// Package pip queries and mutates the local pip environment.
//
// The Registry reads installed distributions ("pip list", "pip show") and the
// Installer installs or upgrades packages. Both go through a Runner so tests
// never touch a real Python environment. Package name comparisons are
// normalized the same way PyPI normalizes them.
package pip

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/reqsmith/reqsmith/pkg/errors"
	"github.com/reqsmith/reqsmith/pkg/integrations"
)

// Registry reads the set of installed distributions from pip.
type Registry struct {
	runner Runner

	// cached "pip list" snapshot for the lifetime of the Registry.
	installed map[string]string
}

// NewRegistry builds a Registry on the given runner. A nil runner
// uses ExecRunner with the default pip command.
func NewRegistry(runner Runner) *Registry {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Registry{runner: runner}
}

// ListInstalled returns all installed distributions as a map from
// normalized package name to version. The snapshot is taken once and
// reused for subsequent calls.
func (r *Registry) ListInstalled(ctx context.Context) (map[string]string, error) {
	if r.installed != nil {
		return r.installed, nil
	}

	out, err := r.runner.Run(ctx, "list", "--format=json")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRegistryQuery, err, "listing installed packages failed")
	}

	var rows []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(out, &rows); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRegistryQuery, err, "unexpected pip list output")
	}

	installed := make(map[string]string, len(rows))
	for _, row := range rows {
		installed[integrations.NormalizePkgName(row.Name)] = row.Version
	}
	r.installed = installed
	return installed, nil
}

// Version returns the installed version of a single package, or
// ("", false) when it is not installed. Prefers the cached pip list
// snapshot and falls back to "pip show" when no snapshot exists yet.
func (r *Registry) Version(ctx context.Context, pkg string) (string, bool) {
	normalized := integrations.NormalizePkgName(pkg)
	if r.installed != nil {
		v, ok := r.installed[normalized]
		return v, ok
	}

	out, err := r.runner.Run(ctx, "show", pkg)
	if err != nil {
		// Not installed or pip unavailable. Either way the version is
		// unknown; callers treat that as absent.
		return "", false
	}
	for _, line := range strings.Split(string(out), "\n") {
		if v, ok := strings.CutPrefix(line, "Version:"); ok {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// Invalidate drops the cached pip list snapshot so the next
// ListInstalled reflects packages installed in the meantime.
func (r *Registry) Invalidate() {
	r.installed = nil
}
