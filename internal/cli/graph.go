package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/reqsmith/reqsmith/pkg/errors"
	"github.com/reqsmith/reqsmith/pkg/python"
	"github.com/reqsmith/reqsmith/pkg/reconcile"
	"github.com/reqsmith/reqsmith/pkg/render"
	"github.com/reqsmith/reqsmith/pkg/scan"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the project's dependency picture",
		Long: `Scan the project and render its third-party packages as a Graphviz
diagram. With --detailed, source files appear as intermediate nodes
between the project and its packages. The output format follows the
file extension: .dot, .svg, or .png.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			result, err := scan.Scan(cmd.Context(), c.dir, scan.Options{
				ExcludeDirs: c.config.ExcludeDirs,
				Logger:      logger.Debugf,
			})
			if err != nil {
				return err
			}

			g := render.Build(reconcile.ProjectName(c.dir), result, python.NewMapper(c.config.ExtraMappings))
			dot := g.ToDOT(render.Options{Detailed: detailed})

			var data []byte
			switch strings.ToLower(filepath.Ext(output)) {
			case ".dot", ".gv":
				data = []byte(dot)
			case ".svg":
				data, err = render.RenderSVG(cmd.Context(), dot)
			case ".png":
				data, err = render.RenderPNG(cmd.Context(), dot)
			default:
				return errors.New(errors.ErrCodeUnsupported, "unsupported output extension %q (want .dot, .svg, or .png)", filepath.Ext(output))
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			prog.done(english.Plural(len(g.Packages), "package rendered", "packages rendered"))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "dependencies.svg", "output file (.dot, .svg, or .png)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include source files as graph nodes")

	return cmd
}
