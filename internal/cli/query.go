package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryMaxTokens int

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Retrieve relevant context for a query within a token budget",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().IntVar(&queryMaxTokens, "max-tokens", 0, "token budget (default from config)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	budget := queryMaxTokens
	if budget <= 0 {
		budget = rt.cfg.Loader.MaxTokens
	}

	query := strings.Join(args, " ")
	bundle, metrics := rt.newLoader().LoadRelevantContext(cmd.Context(), query, budget)

	if len(bundle) == 0 {
		fmt.Println("no relevant context within budget")
	}
	for _, item := range bundle {
		fmt.Printf("[%s] %s\n%s\n\n", item.Origin, item.TopicID, item.Content)
	}

	fmt.Printf("tokens: %s\n", metrics)
	for _, ts := range metrics.TierSummaries() {
		fmt.Printf("  tier %d: %d tokens (%.1f%%) %s\n", ts.Tier, ts.Tokens, ts.SharePercent, ts.Description)
	}
	return nil
}
