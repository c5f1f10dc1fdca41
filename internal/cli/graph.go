package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/polybuild/pkg/errors"
	"github.com/matzehuels/polybuild/pkg/graph"
)

// Graph output formats.
const (
	formatDOT     = "dot"
	formatSVG     = "svg"
	formatSummary = "summary"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the dependency graph of a source tree",
		Long: `Render the dependency graph of a source tree as Graphviz DOT or SVG, or
summarize it as a table of direct dependencies and dependents.

Edges point from a dependency to the features that need it. Internal features
are drawn dashed. Cycles and missing dependencies are reported as warnings so
the graph can be used to debug them.`,
		Example: `  polybuild graph --source polyfills > deps.dot
  polybuild graph --source polyfills --format svg -o deps.svg
  polybuild graph --source polyfills --format summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.bindFlags(cmd); err != nil {
				return err
			}
			return c.runGraph(cmd, format, output, detailed)
		},
	}

	cmd.Flags().String(keySource, "", "source tree root (required)")
	cmd.Flags().String(keyBrowsers, "", "TOML file of baseline browsers (default: built-in table)")
	cmd.Flags().StringVar(&format, "format", formatDOT, "output format: dot, svg or summary")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include aliases and sizes in node labels")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, format, output string, detailed bool) error {
	switch format {
	case formatDOT, formatSVG, formatSummary:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be dot, svg or summary)", format)
	}
	ctx := cmd.Context()

	opts, err := c.pipelineOptions()
	if err != nil {
		return err
	}
	// Graph rendering never writes minification results.
	runner, err := c.newRunner(ctx, cacheOptions{Disabled: true})
	if err != nil {
		return err
	}
	defer runner.Close()

	features, err := runner.LoadFeatures(ctx, opts)
	if err != nil {
		return err
	}
	g := graph.Build(features)
	if _, err := graph.Validate(ctx, g, features); err != nil {
		c.printWarning("%s", errors.UserMessage(err))
	}

	var data []byte
	switch format {
	case formatSummary:
		data = []byte(renderSummary(graph.Summarize(g)))
	default:
		data = []byte(graph.ToDOT(g, graph.DOTOptions{Detailed: detailed}))
	}
	if format == formatSVG {
		spin := newSpinnerWithContext(ctx, os.Stderr, "Rendering SVG...")
		spin.Start()
		data, err = graph.RenderSVG(ctx, string(data))
		spin.Stop()
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "render dependency graph")
		}
	}

	if output == "" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", output)
	}
	c.printSuccess("Rendered %d features, %d edges", g.NodeCount(), g.EdgeCount())
	c.printFile(output)
	return nil
}

// renderSummary prints one table row per feature followed by the roots and
// leaves of the graph.
func renderSummary(s graph.Summary) string {
	rows := make([][]string, 0, len(s.Features))
	for _, f := range s.Features {
		rows = append(rows, []string{f.Name, preview(f.Dependencies, 3), preview(f.Dependents, 3)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Feature", "Depends on", "Needed by").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			}
			return StyleDim
		})

	var b strings.Builder
	b.WriteString(t.Render())
	fmt.Fprintf(&b, "\nroots:  %s\nleaves: %s\n", strings.Join(s.Roots, ", "), strings.Join(s.Leaves, ", "))
	return b.String()
}
