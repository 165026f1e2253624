package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigree/pkg/export"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	formats  string // comma-separated formats
	dir      string // output directory
	noCache  bool   // render even when a cached artifact exists
	graphviz bool   // lay out SVG with Graphviz instead of document positions
}

func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export a chart as PNG, SVG, JSON or DOT",
		Long: `Export a chart. Each artifact is written to the output directory as
pedigree-chart-<UTC timestamp>.<ext>. Rendered artifacts are cached by
document content, so exporting an unchanged chart again is instant.`,
		Example: `  pedigree export family.json
  pedigree export family.json -f svg,dot -o charts/
  pedigree export family.json -f svg --graphviz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(opts.formats)
			if err != nil {
				return err
			}
			dir := opts.dir
			if !cmd.Flags().Changed("output-dir") {
				dir = c.cfg.Export.Dir
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			s, err := c.openFile(ctx, args[0], sessionOpts{noCache: opts.noCache, graphviz: opts.graphviz})
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			saver := export.DirSaver{Dir: dir}
			for _, f := range formats {
				spin := newSpinner(ctx, fmt.Sprintf("Exporting %s...", f))
				spin.Start()
				a, err := s.SaveExport(ctx, f, saver)
				if err != nil {
					spin.StopWithError(fmt.Sprintf("Export %s failed", f))
					return err
				}
				spin.Stop()
				printFile(filepath.Join(dir, a.Filename))
				printStats(s.Snapshot(), &a.Cached)
			}
			prog.done(fmt.Sprintf("Exported %s", plural(len(formats), "artifact")))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "png", "output format(s): png, svg, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.dir, "output-dir", "o", ".", "output directory (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "always render, ignoring cached artifacts")
	cmd.Flags().BoolVar(&opts.graphviz, "graphviz", false, "lay out SVG with Graphviz instead of chart positions")
	return cmd
}

// parseFormats parses a comma-separated format list. Duplicates are dropped.
func parseFormats(s string) ([]export.Format, error) {
	if strings.TrimSpace(s) == "" {
		return []export.Format{export.FormatPNG}, nil
	}
	var out []export.Format
	seen := map[export.Format]bool{}
	for _, part := range strings.Split(s, ",") {
		f, err := export.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}
