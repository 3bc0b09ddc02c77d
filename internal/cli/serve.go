package cli

import (
	"github.com/spf13/cobra"

	"github.com/reqsmith/reqsmith/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dependency reports over HTTP",
		Long: `Start a read-only HTTP server exposing the project's dependency
reports: GET /api/report (detected packages), GET /api/check (manifest
vs environment), /healthz and /metrics. The server never installs or
rewrites anything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(server.Config{
				Addr:       addr,
				Dir:        c.dir,
				Reconciler: c.newReconciler(),
				Logger:     loggerFromContext(cmd.Context()),
			})
			printInfo("Serving reports for %s on %s", c.dir, addr)
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8090", "listen address")

	return cmd
}
