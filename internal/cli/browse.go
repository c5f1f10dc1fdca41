package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/polybuild/pkg/io"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse DIR",
		Short: "Interactively browse an output tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadFeatureItems(args[0])
			if err != nil {
				return err
			}
			if len(items) == 0 {
				c.printInfo("No features in %s", args[0])
				return nil
			}
			loggerFromContext(cmd.Context()).Debug("browsing output tree", "dir", args[0], "features", len(items))

			_, err = tea.NewProgram(NewFeatureListModel(items), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// loadFeatureItems reads every feature in dir with its sources.
func loadFeatureItems(dir string) ([]FeatureItem, error) {
	names, err := io.ListFeatures(dir)
	if err != nil {
		return nil, err
	}
	items := make([]FeatureItem, 0, len(names))
	for _, name := range names {
		f, err := io.ReadFeature(dir, name)
		if err != nil {
			return nil, err
		}
		items = append(items, FeatureItem{Name: name, Config: f.Config, Sources: f.Sources})
	}
	return items, nil
}
