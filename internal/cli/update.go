package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mystubs/mystubs/internal/engine"
)

var updateClean bool

var updateCmd = &cobra.Command{
	Use:   "update [module]",
	Short: "Regenerate stale stubs and rebuild merged output",
	Long: `Update the stub output for every resolved module, or a single module.

Modules whose recorded dependency version is unchanged keep their generated
stubs; their user-global and project-local overrides are still re-merged.
With --clean, existing output, caches, and build records are removed first so
everything regenerates from scratch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		ctx := context.Background()
		var module string
		if len(args) > 0 {
			module = args[0]
		}

		if updateClean {
			if _, err := eng.Clean(ctx, &engine.CleanRequest{Module: module}); err != nil {
				return err
			}
		}

		result, err := eng.Update(ctx, &engine.UpdateRequest{Module: module})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		printOutcomes(result)
		if result.Failed() {
			return errors.New("some modules failed to update")
		}
		return nil
	},
}

func printOutcomes(result *engine.UpdateResult) {
	for _, outcome := range result.Outcomes {
		switch outcome.Status {
		case engine.StatusRegenerated:
			PrintSuccess(fmt.Sprintf("%s %s regenerated (%s)",
				outcome.Module, outcome.Version.Value,
				PrintCount(outcome.Files, "file", "files")))
		case engine.StatusFresh:
			PrintInfo(fmt.Sprintf("  %s %s up to date (%s)",
				outcome.Module, outcome.Version.Value,
				PrintCount(outcome.Files, "file", "files")))
		case engine.StatusSkipped:
			PrintDim(fmt.Sprintf("%s skipped", outcome.Module))
		case engine.StatusGenerationFailed:
			PrintWarning(fmt.Sprintf("%s: stub generation failed, previous output kept: %v",
				outcome.Module, outcome.Err))
		case engine.StatusFailed:
			PrintError(fmt.Sprintf("%s: %v", outcome.Module, outcome.Err))
		}
	}
}

func init() {
	updateCmd.Flags().BoolVar(&updateClean, "clean", false, "Remove existing artifacts before updating")
}
