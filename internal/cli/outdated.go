package cli

import (
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/reqsmith/reqsmith/pkg/integrations/pypi"
)

// pypiCacheTTL is how long PyPI release metadata stays cached.
const pypiCacheTTL = 6 * time.Hour

// outdatedCommand creates the outdated command.
func (c *CLI) outdatedCommand() *cobra.Command {
	var (
		refresh bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "outdated",
		Short: "List manifest entries with a newer release on PyPI",
		Long: `Compare each manifest entry against the newest release published on
PyPI. Responses are cached; pass --refresh to bypass the cache. The
manifest is never modified.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			backend := c.newCache()
			defer backend.Close()
			releases := pypi.NewClient(backend, pypiCacheTTL)

			spinner := newSpinner(cmd.Context(), "Fetching release metadata")
			spinner.Start()
			report, err := c.newReconciler().Outdated(cmd.Context(), c.dir, releases, refresh)
			spinner.Stop()
			if err != nil {
				return err
			}
			prog.done(english.Plural(len(report.Packages)+report.Current, "package checked", "packages checked"))

			if err := writeReport(cmd.OutOrStdout(), format, report); err != nil {
				return err
			}
			if format != formatText {
				return nil
			}

			if len(report.Packages) == 0 {
				printSuccess("Everything is at the latest release")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Package", "Installed", "Latest"})
			for _, pkg := range report.Packages {
				t.AppendRow(table.Row{pkg.Name, orDash(pkg.Installed), pkg.Latest})
			}
			t.SetStyle(table.StyleLight)
			t.Render()

			printNewline()
			printInfo("%s behind the latest release",
				english.Plural(len(report.Packages), "package is", "packages are"))
			printNextStep("Upgrade them", appName+" update")
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached PyPI responses")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json, or yaml")

	return cmd
}
