package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/draftplane/recall/internal/timeline"
)

var (
	focusBlockedBy []string
	focusNextUp    []string
)

var focusCmd = &cobra.Command{
	Use:   "focus <current-focus>",
	Short: "Replace the active context record",
	Long: "Sets the whole active context record at once: the current focus, what it\n" +
		"is blocked by, and what comes next. Writes replace, never merge.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		ac := timeline.ActiveContext{
			CurrentFocus: strings.Join(args, " "),
			BlockedBy:    focusBlockedBy,
			NextUp:       focusNextUp,
		}
		if err := rt.tl.SetActiveContext(ac); err != nil {
			return fmt.Errorf("set active context: %w", err)
		}
		fmt.Println("active context updated")
		return nil
	},
}

func init() {
	focusCmd.Flags().StringSliceVar(&focusBlockedBy, "blocked-by", nil, "blockers (repeatable)")
	focusCmd.Flags().StringSliceVar(&focusNextUp, "next", nil, "upcoming items in order (repeatable)")
}
