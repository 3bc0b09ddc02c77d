package cli

import (
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Scan the project and write requirements.txt",
		Long: `Scan the project's Python sources for third-party imports, map them to
PyPI package names, and write a manifest pinning each package to its
installed version. Packages that are imported but not installed are
written unpinned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			report, err := c.newReconciler().Generate(cmd.Context(), c.dir)
			if err != nil {
				return err
			}
			prog.done(english.Plural(report.Files, "file scanned", "files scanned"))

			printSuccess("Wrote %s with %s",
				report.Manifest,
				english.Plural(len(report.Packages), "package", "packages"))
			for _, pkg := range report.Packages {
				if pkg.Installed != "" {
					printDetail("%s==%s", pkg.Name, pkg.Installed)
				} else {
					printDetail("%s (not installed, unpinned)", pkg.Name)
				}
			}
			if report.Skipped > 0 {
				printWarning("Skipped %s with parse errors",
					english.Plural(report.Skipped, "file", "files"))
			}
			if len(report.Unpinned) > 0 {
				printNewline()
				printNextStep("Install the unpinned packages", appName+" check --install")
			}
			return nil
		},
	}
}
