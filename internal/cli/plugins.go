package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pedalboard/pkg/board"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

// pluginsCommand creates the plugins command.
func (c *CLI) pluginsCommand() *cobra.Command {
	var (
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List the plugin registry",
		Long: `List the plugin registry.

Shows the built-in catalog merged with the catalog file named in the config
([registry] catalog). Plugins missing from the registry are drawn as stereo
in, stereo out with an error icon.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.registry()
			if err != nil {
				return err
			}
			plugins := filterPlugins(reg.List(), category)
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(plugins)
			}
			if len(plugins) == 0 {
				printInfo("No plugins found")
				return nil
			}
			fmt.Fprintln(out, pluginTable(plugins))
			printDetail("%s", plural(len(plugins), "plugin"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only list plugins of this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func filterPlugins(plugins []registry.Plugin, category string) []registry.Plugin {
	if category == "" {
		return plugins
	}
	out := plugins[:0:0]
	for _, p := range plugins {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func pluginTable(plugins []registry.Plugin) string {
	rows := make([][]string, len(plugins))
	for i, p := range plugins {
		rows[i] = []string{
			p.URI,
			p.Label(),
			p.Category,
			fmt.Sprintf("%s → %s", board.FlowOf(p.Inputs), board.FlowOf(p.Outputs)),
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("URI", "Name", "Category", "Channels").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return tableHeaderStyle
			case col == 0:
				return StyleHighlight
			case col == 2:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
