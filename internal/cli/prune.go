package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pruneKeep int

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Trim old timeline entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		removed, err := rt.tl.PruneOldEntries(pruneKeep)
		if err != nil {
			return fmt.Errorf("prune timeline: %w", err)
		}
		fmt.Printf("removed %d entries\n", removed)
		return nil
	},
}

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", 50, "actions to keep (decisions keep half)")
}
