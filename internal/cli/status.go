package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/draftplane/recall/internal/memstore"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show timeline, active context and store state",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		actions, decisions := rt.tl.Stats()
		fmt.Printf("timeline: %d actions, %d decisions (%d tokens)\n", actions, decisions, rt.tl.TokenCost())

		ac := rt.tl.ActiveContext()
		if ac.CurrentFocus != "" {
			fmt.Printf("focus: %s\n", ac.CurrentFocus)
			if len(ac.BlockedBy) > 0 {
				fmt.Printf("blocked by: %s\n", strings.Join(ac.BlockedBy, ", "))
			}
			if len(ac.NextUp) > 0 {
				fmt.Printf("next up: %s\n", strings.Join(ac.NextUp, ", "))
			}
		}

		if rt.db == nil {
			fmt.Println("store: unavailable")
			return nil
		}
		stats, err := rt.db.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("store stats: %w", err)
		}
		fmt.Printf("store: %d episodes, %d patterns, %d skills (%s)\n",
			stats[memstore.KindEpisode], stats[memstore.KindPattern], stats[memstore.KindSkill], rt.db.Path)
		return nil
	},
}
