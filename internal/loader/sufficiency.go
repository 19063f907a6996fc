package loader

import (
	"strings"

	"github.com/samber/lo"

	"github.com/draftplane/recall/internal/timeline"
)

// detailKeywords mark a query as explicitly detail-seeking: timeline
// one-liners alone will not satisfy it.
var detailKeywords = []string{
	"exactly",
	"specifically",
	"details",
	"full",
	"complete",
	"all",
	"everything",
	"entire",
}

// isContextSufficient decides whether the collected timeline entries already
// answer the query well enough to skip the expensive full-memory tier.
//
// Fixed precedence, in order:
//  1. nothing collected: insufficient
//  2. three or more entries: sufficient, even for detail-seeking queries
//  3. detail keyword in the query: insufficient
//  4. otherwise any entry at all is enough
//
// Rule 2 deliberately outranks rule 3: the cheap path wins whenever the
// timeline produced a reasonable amount of context.
func isContextSufficient(entries []timeline.Entry, query string) bool {
	if len(entries) == 0 {
		return false
	}
	if len(entries) >= 3 {
		return true
	}

	q := strings.ToLower(query)
	if lo.SomeBy(detailKeywords, func(kw string) bool { return strings.Contains(q, kw) }) {
		return false
	}
	return true
}
