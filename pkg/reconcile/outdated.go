package reconcile

import (
	"context"

	"github.com/reqsmith/reqsmith/pkg/errors"
	"github.com/reqsmith/reqsmith/pkg/manifest"
)

// Releases looks up the newest published version of a package.
// Implemented by the PyPI client; faked in tests.
type Releases interface {
	LatestVersion(ctx context.Context, pkg string, refresh bool) (string, error)
}

// Outdated compares every manifest entry in dir against its newest PyPI
// release. Entries whose release cannot be fetched are skipped with a
// warning. The manifest is never modified.
func (r *Reconciler) Outdated(ctx context.Context, dir string, releases Releases, refresh bool) (*OutdatedReport, error) {
	path := r.manifestPath(dir)
	m, err := manifest.Parse(path, r.Warn)
	if err != nil {
		return nil, err
	}

	installed, err := r.Registry.ListInstalled(ctx)
	if err != nil {
		r.warn("%s", errors.UserMessage(err))
		installed = map[string]string{}
	}

	report := &OutdatedReport{Manifest: path}
	for _, entry := range m.Entries {
		latest, err := releases.LatestVersion(ctx, entry.Name, refresh)
		if err != nil {
			r.warn("cannot fetch latest release of %s: %s", entry.Name, errors.UserMessage(err))
			continue
		}

		current, _ := lookup(installed, entry.Name)
		if current == "" {
			current = entry.Version
		}
		if current == "" || manifest.CompareVersions(current, latest) < 0 {
			report.Packages = append(report.Packages, PackageStatus{
				Name:      entry.Name,
				Pinned:    entry.Version,
				Installed: current,
				Latest:    latest,
				Status:    StatusOutdated,
			})
			continue
		}
		report.Current++
	}
	return report, nil
}
