package reconcile

// Status classifies one manifest entry against the installed environment.
type Status string

const (
	StatusSatisfied Status = "satisfied"
	StatusMismatch  Status = "mismatch"
	StatusMissing   Status = "missing"
	StatusOutdated  Status = "outdated"
)

// PackageStatus is the per-package line item shared by all reports.
type PackageStatus struct {
	Name      string `json:"name" yaml:"name"`
	Pinned    string `json:"pinned,omitempty" yaml:"pinned,omitempty"`
	Installed string `json:"installed,omitempty" yaml:"installed,omitempty"`
	Latest    string `json:"latest,omitempty" yaml:"latest,omitempty"`
	Status    Status `json:"status,omitempty" yaml:"status,omitempty"`
}

// InstallOutcome records one installer invocation.
type InstallOutcome struct {
	Package string `json:"package" yaml:"package"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// GenerateReport summarizes a Generate run.
type GenerateReport struct {
	Manifest string          `json:"manifest" yaml:"manifest"`
	Packages []PackageStatus `json:"packages" yaml:"packages"`
	Unpinned []string        `json:"unpinned,omitempty" yaml:"unpinned,omitempty"`
	Files    int             `json:"files" yaml:"files"`
	Skipped  int             `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// CheckReport partitions manifest entries by their environment state.
type CheckReport struct {
	Manifest   string           `json:"manifest" yaml:"manifest"`
	Satisfied  []PackageStatus  `json:"satisfied,omitempty" yaml:"satisfied,omitempty"`
	Mismatched []PackageStatus  `json:"mismatched,omitempty" yaml:"mismatched,omitempty"`
	Missing    []PackageStatus  `json:"missing,omitempty" yaml:"missing,omitempty"`
	Installed  []InstallOutcome `json:"installed,omitempty" yaml:"installed,omitempty"`
}

// OK reports whether every entry is satisfied, counting packages installed
// during the run as resolved.
func (r *CheckReport) OK() bool {
	if len(r.Mismatched) == 0 && len(r.Missing) == 0 {
		return true
	}
	resolved := make(map[string]bool)
	for _, outcome := range r.Installed {
		if outcome.Error == "" {
			resolved[outcome.Package] = true
		}
	}
	for _, status := range append(r.Missing, r.Mismatched...) {
		if !resolved[status.Name] {
			return false
		}
	}
	return true
}

// UpdateReport summarizes an Update run.
type UpdateReport struct {
	Manifest string           `json:"manifest" yaml:"manifest"`
	Upgraded []InstallOutcome `json:"upgraded,omitempty" yaml:"upgraded,omitempty"`
	Failed   []InstallOutcome `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// OutdatedReport lists packages with a newer release on PyPI.
type OutdatedReport struct {
	Manifest string          `json:"manifest" yaml:"manifest"`
	Packages []PackageStatus `json:"packages" yaml:"packages"`
	// Current counts entries already at the latest release.
	Current int `json:"current" yaml:"current"`
}
