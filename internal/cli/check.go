package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize/english"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/reqsmith/reqsmith/pkg/errors"
	"github.com/reqsmith/reqsmith/pkg/reconcile"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		install     bool
		interactive bool
		format      string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare requirements.txt against the installed environment",
		Long: `Parse the manifest and partition its entries into satisfied, version
mismatch, and missing against the installed pip environment. The manifest
file itself is never modified. With --install, missing and mismatched
packages are installed at their pinned versions; --interactive opens a
picker to choose which ones.

Exits non-zero when packages are missing or mismatched and not installed
during the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			r := c.newReconciler()

			report, err := r.Check(cmd.Context(), c.dir, reconcile.CheckOptions{})
			if err != nil {
				return err
			}

			if install || interactive {
				only, err := c.installTargets(report, interactive)
				if err != nil {
					return err
				}
				if len(only) > 0 || !interactive {
					report, err = r.Check(cmd.Context(), c.dir, reconcile.CheckOptions{
						Install: true,
						Only:    only,
					})
					if err != nil {
						return err
					}
				}
			}

			if err := writeReport(cmd.OutOrStdout(), format, report); err != nil {
				return err
			}
			if format == formatText {
				c.printCheckSummary(report)
			}

			if !report.OK() {
				logger.Debug("check unresolved",
					"missing", len(report.Missing),
					"mismatched", len(report.Mismatched))
				return errors.New(errors.ErrCodeCheckFailed, "%s unsatisfied",
					english.Plural(len(report.Missing)+len(report.Mismatched), "dependency", "dependencies"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&install, "install", false, "install missing and mismatched packages")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick packages to install interactively")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json, or yaml")

	return cmd
}

// installTargets decides which packages to install: everything, or the
// interactive selection.
func (c *CLI) installTargets(report *reconcile.CheckReport, interactive bool) ([]string, error) {
	if !interactive {
		return nil, nil // empty means all missing/mismatched
	}

	candidates := append(append([]reconcile.PackageStatus{}, report.Missing...), report.Mismatched...)
	if len(candidates) == 0 {
		return nil, nil
	}
	return pickPackages(candidates)
}

// printCheckSummary renders the check partition as a table plus a
// one-line verdict.
func (c *CLI) printCheckSummary(report *reconcile.CheckReport) {
	rows := len(report.Satisfied) + len(report.Mismatched) + len(report.Missing)
	if rows > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Package", "Pinned", "Installed", "Status"})

		appendRows := func(statuses []reconcile.PackageStatus, color text.Color) {
			for _, s := range statuses {
				t.AppendRow(table.Row{
					s.Name,
					orDash(s.Pinned),
					orDash(s.Installed),
					color.Sprint(s.Status),
				})
			}
		}
		appendRows(report.Satisfied, text.FgGreen)
		appendRows(report.Mismatched, text.FgYellow)
		appendRows(report.Missing, text.FgRed)

		t.SetStyle(table.StyleLight)
		t.Render()
	}

	for _, outcome := range report.Installed {
		if outcome.Error != "" {
			printError("install %s failed: %s", outcome.Package, outcome.Error)
		} else {
			printSuccess("installed %s %s", outcome.Package, outcome.Version)
		}
	}

	printNewline()
	if report.OK() {
		printSuccess("All %s satisfied",
			english.Plural(rows, "dependency", "dependencies"))
		return
	}
	unresolved := len(report.Missing) + len(report.Mismatched)
	printError("%s unsatisfied", english.Plural(unresolved, "dependency", "dependencies"))
	if len(report.Installed) == 0 {
		printNextStep("Install them", fmt.Sprintf("%s check --install", appName))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
