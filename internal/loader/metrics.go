package loader

import (
	"fmt"
	"math"
)

// TokenMetrics accounts for what one retrieval call spent per tier. A fresh
// value is created per call and only that call mutates it; every field is
// monotonically non-decreasing while the call runs.
type TokenMetrics struct {
	Tier1Tokens             int     `json:"tier1Tokens"`
	Tier2Tokens             int     `json:"tier2Tokens"`
	Tier3Tokens             int     `json:"tier3Tokens"`
	TotalTokens             int     `json:"totalTokens"`
	EstimatedSavingsPercent float64 `json:"estimatedSavingsPercent"`
}

// finish computes the savings estimate against the budget the caller
// offered. Spending over budget clamps to zero savings rather than going
// negative (tier 2 charges its full cost even when it overshoots).
func (m *TokenMetrics) finish(totalAvailable int) {
	if totalAvailable <= 0 {
		m.EstimatedSavingsPercent = 0
		return
	}
	pct := float64(totalAvailable-m.TotalTokens) / float64(totalAvailable) * 100
	if pct < 0 {
		pct = 0
	}
	m.EstimatedSavingsPercent = math.Round(pct*10) / 10
}

// TierSummary describes one tier's share of a finished call, for
// observability output.
type TierSummary struct {
	Tier         int     `json:"tier"`
	Tokens       int     `json:"tokens"`
	SharePercent float64 `json:"sharePercent"`
	Description  string  `json:"description"`
}

var tierDescriptions = [3]string{
	"topic index summaries",
	"recent timeline entries",
	"full memory records",
}

// TierSummaries derives the per-tier breakdown of a finished call.
func (m TokenMetrics) TierSummaries() []TierSummary {
	perTier := [3]int{m.Tier1Tokens, m.Tier2Tokens, m.Tier3Tokens}
	out := make([]TierSummary, 0, 3)
	for i, t := range perTier {
		share := 0.0
		if m.TotalTokens > 0 {
			share = math.Round(float64(t)/float64(m.TotalTokens)*1000) / 10
		}
		out = append(out, TierSummary{
			Tier:         i + 1,
			Tokens:       t,
			SharePercent: share,
			Description:  tierDescriptions[i],
		})
	}
	return out
}

// String renders a compact one-line view for logs and the CLI.
func (m TokenMetrics) String() string {
	return fmt.Sprintf("tier1=%d tier2=%d tier3=%d total=%d savings=%.1f%%",
		m.Tier1Tokens, m.Tier2Tokens, m.Tier3Tokens, m.TotalTokens, m.EstimatedSavingsPercent)
}
