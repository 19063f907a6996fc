// Package index holds the topic-index contract: the cheapest memory tier,
// a set of per-topic summaries the loader always reads first. The index is
// produced and owned by an upstream collaborator; this system only reads it.
package index

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/draftplane/recall/internal/tokens"
)

// Topic is one entry in the topic index: a lightweight summary of a stored
// memory, its approximate full-content cost, and a query-relative relevance
// score.
type Topic struct {
	ID             string    `json:"id"`
	Summary        string    `json:"summary"`
	RelevanceScore float64   `json:"relevance_score,omitempty"`
	TokenCount     int       `json:"token_count"`
	LastAccessed   time.Time `json:"last_accessed,omitempty"`
}

// Index loads topic snapshots. Implementations must degrade to an empty
// snapshot on missing or corrupt backing data rather than fail.
type Index interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Snapshot is one loaded view of the topic index, with the token cost of
// the snapshot itself (the summaries the loader pays for up front).
type Snapshot struct {
	Topics []Topic

	scorer Scorer
	cost   int
}

// NewSnapshot builds a snapshot over the given topics. A nil scorer means
// topics carry pre-computed relevance scores.
//
// The snapshot's own cost is what it takes to hold the serialized index in
// context. Even an empty index has a small envelope cost: reading the index
// is never free.
func NewSnapshot(topics []Topic, scorer Scorer) *Snapshot {
	cost := 0
	if data, err := json.Marshal(fileDocument{Version: 1, Topics: topics}); err == nil {
		cost = tokens.EstimateBytes(data)
	}
	return &Snapshot{Topics: topics, scorer: scorer, cost: cost}
}

// TokenCost returns the cost of holding this snapshot in context.
func (s *Snapshot) TokenCost() int {
	if s == nil {
		return 0
	}
	return s.cost
}

// FindRelevantTopics scores every topic against the query and returns those
// at or above threshold, ordered by descending relevance. Ties break toward
// the most recently accessed topic, so warm memories win.
func (s *Snapshot) FindRelevantTopics(query string, threshold float64) []Topic {
	if s == nil || len(s.Topics) == 0 {
		return nil
	}

	matched := make([]Topic, 0, len(s.Topics))
	for _, t := range s.Topics {
		score := t.RelevanceScore
		if s.scorer != nil {
			score = clamp01(s.scorer.Score(query, t))
		}
		if score < threshold {
			continue
		}
		t.RelevanceScore = score
		matched = append(matched, t)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].RelevanceScore != matched[j].RelevanceScore {
			return matched[i].RelevanceScore > matched[j].RelevanceScore
		}
		return matched[i].LastAccessed.After(matched[j].LastAccessed)
	})
	return matched
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
