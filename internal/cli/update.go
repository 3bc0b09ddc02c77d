package cli

import (
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/reqsmith/reqsmith/pkg/errors"
)

// updateCommand creates the update command.
func (c *CLI) updateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Upgrade every manifest entry and rewrite the pins",
		Long: `Upgrade each package in the manifest to its latest installable version
via pip, then rewrite the manifest with the new pins. A package that
fails to upgrade keeps its previous pin; the remaining packages are
still processed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			spinner := newSpinner(cmd.Context(), "Upgrading packages")
			spinner.Start()
			report, err := c.newReconciler().Update(cmd.Context(), c.dir)
			spinner.Stop()
			if err != nil {
				return err
			}
			prog.done(english.Plural(len(report.Upgraded), "package upgraded", "packages upgraded"))

			for _, outcome := range report.Upgraded {
				printSuccess("%s %s", outcome.Package, outcome.Version)
			}
			for _, outcome := range report.Failed {
				printError("%s: %s", outcome.Package, outcome.Error)
			}
			printNewline()
			printFile(report.Manifest)

			if len(report.Failed) > 0 {
				return errors.New(errors.ErrCodeInstallFailed, "%s failed to upgrade",
					english.Plural(len(report.Failed), "package", "packages"))
			}
			return nil
		},
	}
}
