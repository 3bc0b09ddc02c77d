package pip

import (
	"context"
	"time"

	"github.com/reqsmith/reqsmith/pkg/errors"
	"github.com/reqsmith/reqsmith/pkg/integrations"
	"github.com/reqsmith/reqsmith/pkg/observability"
)

// Installer installs and upgrades packages through pip.
type Installer struct {
	runner   Runner
	registry *Registry
}

// NewInstaller builds an Installer sharing the given registry's view
// of the environment. A nil runner uses ExecRunner with the default
// pip command.
func NewInstaller(runner Runner, registry *Registry) *Installer {
	if runner == nil {
		runner = ExecRunner{}
	}
	if registry == nil {
		registry = NewRegistry(runner)
	}
	return &Installer{runner: runner, registry: registry}
}

// Install runs "pip install" for one package and returns the version
// installed. When version is non-empty the exact version is requested.
func (i *Installer) Install(ctx context.Context, pkg, version string) (string, error) {
	spec := pkg
	if version != "" {
		spec = pkg + "==" + version
	}
	return i.run(ctx, pkg, false, "install", spec)
}

// Upgrade runs "pip install --upgrade" for one package and returns the
// version installed afterwards.
func (i *Installer) Upgrade(ctx context.Context, pkg string) (string, error) {
	return i.run(ctx, pkg, true, "install", "--upgrade", pkg)
}

func (i *Installer) run(ctx context.Context, pkg string, upgrade bool, args ...string) (string, error) {
	// A name like "-r" or "--index-url" would be read by pip as a flag.
	if err := errors.ValidatePackageName(pkg); err != nil {
		return "", err
	}

	observability.Install().OnInstallStart(ctx, pkg, upgrade)
	start := time.Now()

	if _, err := i.runner.Run(ctx, args...); err != nil {
		wrapped := errors.Wrap(errors.ErrCodeInstallFailed, err, "installing %s failed", pkg)
		observability.Install().OnInstallComplete(ctx, pkg, "", time.Since(start), wrapped)
		return "", wrapped
	}

	// The environment changed; re-read it to learn the resulting version.
	i.registry.Invalidate()
	version := ""
	if installed, err := i.registry.ListInstalled(ctx); err == nil {
		version = installed[integrations.NormalizePkgName(pkg)]
	}

	observability.Install().OnInstallComplete(ctx, pkg, version, time.Since(start), nil)
	return version, nil
}
