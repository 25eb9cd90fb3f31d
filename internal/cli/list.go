package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List resolved modules and their staleness",
	Long: `Display every module the next update would process, with its resolved
version, where that version came from, and whether it would regenerate.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.List(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if len(result.Modules) == 0 {
			PrintEmptyState("No modules resolved")
			return nil
		}

		rows := make([][]string, 0, len(result.Modules))
		for _, m := range result.Modules {
			state := "fresh"
			switch {
			case m.Skipped:
				state = "skipped"
			case m.Stale:
				state = "stale"
			}
			version := m.Version.Value
			if version == "" {
				version = "-"
			}
			rows = append(rows, []string{m.Module, m.Package, version, m.Version.Source.String(), state})
		}
		PrintTable([]string{"MODULE", "PACKAGE", "VERSION", "SOURCE", "STATE"}, rows)
		return nil
	},
}
