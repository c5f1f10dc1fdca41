package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/polybuild/pkg/errors"
	"github.com/matzehuels/polybuild/pkg/io"
)

// aliasesCommand creates the aliases command.
func (c *CLI) aliasesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "aliases DIR [ALIAS]",
		Short: "Print the alias index of an output tree",
		Long: `Print the alias index of an output tree.

Without ALIAS, every alias is listed with the number of features it provides.
With ALIAS, the features it provides are listed in build order.`,
		Example: `  polybuild aliases dist
  polybuild aliases dist es6`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := io.ReadAliases(args[0])
			if err != nil {
				return err
			}

			if len(args) == 2 {
				names, ok := idx[args[1]]
				if !ok {
					return errors.New(errors.ErrCodeInvalidInput, "unknown alias %q", args[1])
				}
				c.printf("%s\n", StyleTitle.Render(args[1]))
				for _, name := range names {
					c.printDetail("%s", name)
				}
				return nil
			}

			rows := make([][]string, 0, len(idx))
			for _, name := range idx.Names() {
				features := idx.Features(name)
				rows = append(rows, []string{name, strconv.Itoa(len(features)), preview(features, 4)})
			}
			c.printf("%s\n", aliasTable(rows).Render())
			return nil
		},
	}
}

func aliasTable(rows [][]string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Alias", "Features", "Provides").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col == 2:
				return StyleDim
			}
			return StyleValue
		})
}

// preview joins the first n names and summarizes the rest.
func preview(names []string, n int) string {
	if len(names) <= n {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:n], ", ") + ", +" + strconv.Itoa(len(names)-n) + " more"
}
