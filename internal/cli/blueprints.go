package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hardref/pkg/snapshot"
)

// blueprintsCommand creates the blueprints command.
func (c *CLI) blueprintsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "blueprints <snapshot>",
		Short: "List the Blueprints in a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			if len(snap.Blueprints) == 0 {
				printInfo("No blueprints in %s", args[0])
				return nil
			}
			fmt.Println(blueprintTable(snap))
			printKeyValue("Packages", strconv.Itoa(len(snap.Packages)))
			printKeyValue("Blueprints", strconv.Itoa(len(snap.Blueprints)))
			return nil
		},
	}
}

func blueprintTable(snap *snapshot.Snapshot) string {
	resolver := snap.Resolver()
	rows := make([][]string, 0, len(snap.Blueprints))
	for _, bp := range snap.Blueprints {
		pkg, _ := resolver.OwningPackage(bp.Path)
		rows = append(rows, []string{
			string(bp.Path),
			strconv.Itoa(len(bp.EventGraphs) + len(bp.FunctionGraphs)),
			strconv.Itoa(bp.NodeCount()),
			strconv.Itoa(len(bp.Properties)),
			strconv.Itoa(len(bp.Components)),
			string(pkg),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Blueprint", "Graphs", "Nodes", "Props", "Comps", "Package").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(colorWhite)
			case 5:
				return base.Foreground(colorDim)
			default:
				return base.Foreground(colorCyan).Align(lipgloss.Right)
			}
		}).
		String()
}
