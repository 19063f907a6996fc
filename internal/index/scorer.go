package index

import (
	"strings"
)

// Scorer computes a query-relative relevance score in [0,1] for a topic.
// Real deployments inject whatever the upstream indexer uses (embeddings,
// lexical ranking); this system treats the score as given.
type Scorer interface {
	Score(query string, t Topic) float64
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(query string, t Topic) float64

func (f ScorerFunc) Score(query string, t Topic) float64 { return f(query, t) }

// KeywordScorer is a cheap reference scorer: the fraction of query terms
// that appear in the topic id or summary. No embeddings at this layer;
// good enough for local tooling and tests.
type KeywordScorer struct{}

func (KeywordScorer) Score(query string, t Topic) float64 {
	terms := splitTerms(query)
	if len(terms) == 0 {
		return 0
	}

	haystack := strings.ToLower(t.ID + " " + t.Summary)
	matched := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

func splitTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ".,!?:;\"'()")
		// Short stop-words match everything and say nothing.
		if len(f) < 3 {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}
