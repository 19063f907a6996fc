package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	recordOutcome   string
	recordRationale string
	recordTopic     string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Append an entry to the timeline",
}

var recordActionCmd = &cobra.Command{
	Use:   "action <text>",
	Short: "Record an action and its outcome",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		if err := rt.tl.RecordAction(strings.Join(args, " "), recordOutcome, recordTopic); err != nil {
			return fmt.Errorf("record action: %w", err)
		}
		fmt.Println("recorded")
		return nil
	},
}

var recordDecisionCmd = &cobra.Command{
	Use:   "decision <text>",
	Short: "Record a key decision and its rationale",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		if err := rt.tl.RecordDecision(strings.Join(args, " "), recordRationale, recordTopic); err != nil {
			return fmt.Errorf("record decision: %w", err)
		}
		fmt.Println("recorded")
		return nil
	},
}

func init() {
	recordCmd.PersistentFlags().StringVar(&recordTopic, "topic", "", "topic id this entry relates to")
	recordActionCmd.Flags().StringVar(&recordOutcome, "outcome", "", "what the action produced")
	recordDecisionCmd.Flags().StringVar(&recordRationale, "rationale", "", "why the decision was made")
	recordCmd.AddCommand(recordActionCmd)
	recordCmd.AddCommand(recordDecisionCmd)
}
