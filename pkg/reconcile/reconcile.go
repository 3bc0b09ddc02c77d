// Package reconcile turns scan results into a dependency manifest and keeps
// the manifest in step with the installed pip environment.
//
// The three operations mirror the CLI: Generate writes a fresh manifest from
// the project's imports, Check compares an existing manifest against the
// environment, Update upgrades every entry and rewrites the pins. All three
// take their collaborators through small interfaces so tests run without pip.
package reconcile

import (
	"context"
	"path/filepath"

	"github.com/reqsmith/reqsmith/pkg/errors"
	"github.com/reqsmith/reqsmith/pkg/integrations"
	"github.com/reqsmith/reqsmith/pkg/manifest"
	"github.com/reqsmith/reqsmith/pkg/python"
	"github.com/reqsmith/reqsmith/pkg/scan"
)

// Registry reads installed package versions from the local environment.
// Query failures surface as absent versions, never as fatal errors here.
type Registry interface {
	ListInstalled(ctx context.Context) (map[string]string, error)
	Version(ctx context.Context, pkg string) (string, bool)
}

// Installer mutates the local environment one package at a time.
// Both calls return the version installed afterwards.
type Installer interface {
	Install(ctx context.Context, pkg, version string) (string, error)
	Upgrade(ctx context.Context, pkg string) (string, error)
}

// Reconciler binds the scanner, classifier, mapper and registry into the
// generate/check/update operations.
type Reconciler struct {
	Registry  Registry
	Installer Installer

	// Mapper translates import names to PyPI package names.
	// Nil means python.Default().
	Mapper *python.Mapper

	// ManifestName is the manifest filename inside the project directory.
	// Empty means manifest.DefaultFilename.
	ManifestName string

	// ScanOptions is passed through to the import scanner.
	ScanOptions scan.Options

	// Warn receives non-fatal diagnostics (skipped files, malformed
	// manifest lines, registry failures). Optional.
	Warn func(format string, args ...any)
}

func (r *Reconciler) mapper() *python.Mapper {
	if r.Mapper != nil {
		return r.Mapper
	}
	return python.Default()
}

func (r *Reconciler) manifestPath(dir string) string {
	name := r.ManifestName
	if name == "" {
		name = manifest.DefaultFilename
	}
	return filepath.Join(dir, name)
}

func (r *Reconciler) warn(format string, args ...any) {
	if r.Warn != nil {
		r.Warn(format, args...)
	}
}

// Packages scans dir and resolves the third-party package set: imports with
// the standard library filtered out, translated through the mapper and
// deduplicated by package name. Stdlib classification wins over mapping, so
// a name shadowing a stdlib module never reaches the manifest.
func (r *Reconciler) Packages(ctx context.Context, dir string) ([]string, *scan.Result, error) {
	result, err := scan.Scan(ctx, dir, r.ScanOptions)
	if err != nil {
		return nil, nil, err
	}
	for _, skipped := range result.Skipped {
		r.warn("skipped unparseable file %s", skipped)
	}

	mapper := r.mapper()
	seen := make(map[string]bool)
	var pkgs []string
	for _, imp := range result.Imports {
		if python.IsStdlib(imp) {
			continue
		}
		pkg := mapper.MapToPackage(imp)
		if !seen[pkg] {
			seen[pkg] = true
			pkgs = append(pkgs, pkg)
		}
	}
	return pkgs, result, nil
}

// Generate scans dir and writes a manifest pinning each detected package to
// its installed version. Packages not installed are written unpinned. An
// empty project produces an empty manifest. Running Generate twice without
// code or environment changes produces identical bytes.
func (r *Reconciler) Generate(ctx context.Context, dir string) (*GenerateReport, error) {
	pkgs, result, err := r.Packages(ctx, dir)
	if err != nil {
		return nil, err
	}

	installed, err := r.Registry.ListInstalled(ctx)
	if err != nil {
		// Versions are simply unknown; entries stay unpinned.
		r.warn("%s", errors.UserMessage(err))
		installed = map[string]string{}
	}

	m := &manifest.Manifest{}
	report := &GenerateReport{Files: result.Files, Skipped: len(result.Skipped)}
	for _, pkg := range pkgs {
		entry := manifest.Entry{Name: pkg}
		if version, ok := lookup(installed, pkg); ok {
			entry.Op, entry.Version = "==", version
		} else {
			report.Unpinned = append(report.Unpinned, pkg)
		}
		m.Add(entry)
		report.Packages = append(report.Packages, PackageStatus{
			Name:      pkg,
			Installed: entry.Version,
		})
	}

	path := r.manifestPath(dir)
	if err := manifest.Write(path, m, ProjectName(dir)); err != nil {
		return nil, err
	}
	report.Manifest = path
	return report, nil
}

// CheckOptions modifies a Check run.
type CheckOptions struct {
	// Install missing and version-mismatched packages.
	Install bool

	// Only restricts installation to the named packages. Ignored unless
	// Install is set; empty means all missing/mismatched packages.
	Only []string
}

// Check parses the manifest in dir and partitions its entries into satisfied,
// version-mismatched and missing against the installed environment. The
// manifest file is never touched. With opts.Install, missing and mismatched
// packages are installed at their pinned versions; per-package failures are
// recorded and do not stop the remaining installs.
func (r *Reconciler) Check(ctx context.Context, dir string, opts CheckOptions) (*CheckReport, error) {
	m, err := manifest.Parse(r.manifestPath(dir), r.Warn)
	if err != nil {
		return nil, err
	}

	installed, err := r.Registry.ListInstalled(ctx)
	if err != nil {
		r.warn("%s", errors.UserMessage(err))
		installed = map[string]string{}
	}

	report := &CheckReport{Manifest: r.manifestPath(dir)}
	for _, entry := range m.Entries {
		version, ok := lookup(installed, entry.Name)
		status := PackageStatus{Name: entry.Name, Pinned: entry.Version, Installed: version}
		switch {
		case !ok:
			status.Status = StatusMissing
			report.Missing = append(report.Missing, status)
		case !entry.Satisfies(version):
			status.Status = StatusMismatch
			report.Mismatched = append(report.Mismatched, status)
		default:
			status.Status = StatusSatisfied
			report.Satisfied = append(report.Satisfied, status)
		}
	}

	if opts.Install {
		r.install(ctx, report, opts.Only)
	}
	return report, nil
}

// install attempts installation of every missing and mismatched package,
// filtered by only when non-empty.
func (r *Reconciler) install(ctx context.Context, report *CheckReport, only []string) {
	wanted := func(string) bool { return true }
	if len(only) > 0 {
		set := make(map[string]bool, len(only))
		for _, name := range only {
			set[name] = true
		}
		wanted = func(name string) bool { return set[name] }
	}

	var targets []PackageStatus
	targets = append(targets, report.Missing...)
	targets = append(targets, report.Mismatched...)
	for _, status := range targets {
		if !wanted(status.Name) {
			continue
		}
		version, err := r.Installer.Install(ctx, status.Name, status.Pinned)
		outcome := InstallOutcome{Package: status.Name, Version: version}
		if err != nil {
			outcome.Error = errors.UserMessage(err)
			r.warn("%s", outcome.Error)
		}
		report.Installed = append(report.Installed, outcome)
	}
}

// Update upgrades every manifest entry to its latest installable version and
// rewrites the manifest with the new pins. A per-package upgrade failure
// keeps the entry's previous pin and does not abort the remaining upgrades.
func (r *Reconciler) Update(ctx context.Context, dir string) (*UpdateReport, error) {
	path := r.manifestPath(dir)
	m, err := manifest.Parse(path, r.Warn)
	if err != nil {
		return nil, err
	}

	report := &UpdateReport{Manifest: path}
	for i, entry := range m.Entries {
		version, err := r.Installer.Upgrade(ctx, entry.Name)
		outcome := InstallOutcome{Package: entry.Name, Version: version}
		if err != nil {
			outcome.Error = errors.UserMessage(err)
			r.warn("%s", outcome.Error)
			report.Failed = append(report.Failed, outcome)
			continue
		}
		if version != "" {
			m.Entries[i].Op, m.Entries[i].Version = "==", version
		}
		report.Upgraded = append(report.Upgraded, outcome)
	}

	if err := manifest.Write(path, m, ProjectName(dir)); err != nil {
		return nil, err
	}
	return report, nil
}

// lookup finds a package's installed version, tolerating the registry
// reporting names in a different (but equivalent) normalization.
func lookup(installed map[string]string, pkg string) (string, bool) {
	if v, ok := installed[pkg]; ok {
		return v, true
	}
	v, ok := installed[integrations.NormalizePkgName(pkg)]
	return v, ok
}
