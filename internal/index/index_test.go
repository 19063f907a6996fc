package index

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRelevantTopicsOrdering(t *testing.T) {
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	snap := NewSnapshot([]Topic{
		{ID: "low", RelevanceScore: 0.4},
		{ID: "mid", RelevanceScore: 0.7},
		{ID: "high", RelevanceScore: 0.9},
		{ID: "tie-stale", RelevanceScore: 0.7, LastAccessed: now.Add(-48 * time.Hour)},
		{ID: "tie-warm", RelevanceScore: 0.7, LastAccessed: now},
	}, nil)

	got := snap.FindRelevantTopics("anything", 0.5)
	require.Len(t, got, 4)
	assert.Equal(t, "high", got[0].ID)

	// Equal scores break toward the most recently accessed topic. "mid" has
	// a zero LastAccessed so it sorts last among the ties.
	assert.Equal(t, "tie-warm", got[1].ID)
	assert.Equal(t, "tie-stale", got[2].ID)
	assert.Equal(t, "mid", got[3].ID)
}

func TestFindRelevantTopicsThresholdInclusive(t *testing.T) {
	snap := NewSnapshot([]Topic{
		{ID: "exact", RelevanceScore: 0.5},
		{ID: "below", RelevanceScore: 0.49},
	}, nil)

	got := snap.FindRelevantTopics("q", 0.5)
	require.Len(t, got, 1)
	assert.Equal(t, "exact", got[0].ID)
}

func TestFindRelevantTopicsScorerClamped(t *testing.T) {
	snap := NewSnapshot(
		[]Topic{{ID: "wild"}},
		ScorerFunc(func(string, Topic) float64 { return 3.5 }),
	)
	got := snap.FindRelevantTopics("q", 0.5)
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].RelevanceScore)
}

func TestSnapshotTokenCost(t *testing.T) {
	empty := NewSnapshot(nil, nil)
	assert.Greater(t, empty.TokenCost(), 0, "even an empty index has an envelope cost")

	populated := NewSnapshot([]Topic{
		{ID: "db-upgrade", Summary: "migrated the store to a versioned schema with WAL enabled"},
	}, nil)
	assert.Greater(t, populated.TokenCost(), empty.TokenCost())
}

func TestFileIndexMissingFile(t *testing.T) {
	idx := NewFileIndex(filepath.Join(t.TempDir(), "nope.json"), KeywordScorer{}, zerolog.Nop())
	snap, err := idx.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Topics)
	assert.Greater(t, snap.TokenCost(), 0)
}

func TestFileIndexCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topic-index.json")
	require.NoError(t, os.WriteFile(path, []byte("][ nope"), 0o600))

	idx := NewFileIndex(path, KeywordScorer{}, zerolog.Nop())
	snap, err := idx.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Topics)
}

func TestFileIndexRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topic-index.json")
	doc := fileDocument{Version: 1, Topics: []Topic{
		{ID: "deploy-pipeline", Summary: "how deploys are staged and promoted", TokenCount: 120},
		{ID: "flaky-tests", Summary: "known flaky integration tests and mitigations", TokenCount: 80},
	}}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	idx := NewFileIndex(path, KeywordScorer{}, zerolog.Nop())
	snap, err := idx.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Topics, 2)

	got := snap.FindRelevantTopics("deploy pipeline promotion", 0.5)
	require.Len(t, got, 1)
	assert.Equal(t, "deploy-pipeline", got[0].ID)
}

func TestKeywordScorer(t *testing.T) {
	topic := Topic{ID: "db-upgrade", Summary: "sqlite schema migration to version 4"}
	s := KeywordScorer{}

	assert.Equal(t, 1.0, s.Score("sqlite migration", topic))
	assert.Equal(t, 0.5, s.Score("sqlite surprises", topic))
	assert.Equal(t, 0.0, s.Score("unrelated query terms", topic))
	assert.Equal(t, 0.0, s.Score("", topic))
}
