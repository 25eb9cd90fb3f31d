package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mystubs/mystubs/internal/engine"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [module]",
	Short: "Remove generated stubs, caches, and build records",
	Long: `Remove the merged output, cached generated stubs, and build record for
every resolved module, or a single module.

User-authored overrides (project-local and user-global) are never touched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		req := &engine.CleanRequest{}
		if len(args) > 0 {
			req.Module = args[0]
		}

		result, err := eng.Clean(context.Background(), req)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("Cleaned %s", PrintCount(len(result.Cleaned), "module", "modules")))
		return nil
	},
}
