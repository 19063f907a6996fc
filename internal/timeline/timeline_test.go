package timeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTimeline(t *testing.T) *Timeline {
	t.Helper()
	return Open(filepath.Join(t.TempDir(), "timeline.json"), zerolog.Nop())
}

func TestRecordActionPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timeline.json")

	tl := Open(path, zerolog.Nop())
	require.NoError(t, tl.RecordAction("ran migration", "schema at v4", "db-upgrade"))

	// No temp file left behind after the rename commit.
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	reopened := Open(path, zerolog.Nop())
	entries := reopened.RecentForTopic("db-upgrade", 0)
	require.Len(t, entries, 1)
	assert.Equal(t, KindAction, entries[0].Kind)
	assert.Equal(t, "ran migration", entries[0].Action)
	assert.Equal(t, "schema at v4", entries[0].Outcome)
	assert.NotEmpty(t, entries[0].ID)
}

func TestActionCapEvictsOldest(t *testing.T) {
	tl := testTimeline(t)
	for i := 0; i < maxActions+7; i++ {
		require.NoError(t, tl.RecordAction(fmt.Sprintf("action %d", i), "", ""))
	}

	actions, _ := tl.Stats()
	assert.Equal(t, maxActions, actions)

	// Newest entry survives; the first recorded ones were evicted.
	tl.mu.RLock()
	newest := tl.doc.RecentActions[0].Action
	oldest := tl.doc.RecentActions[len(tl.doc.RecentActions)-1].Action
	tl.mu.RUnlock()
	assert.Equal(t, fmt.Sprintf("action %d", maxActions+6), newest)
	assert.Equal(t, "action 7", oldest)
}

func TestDecisionCapEvictsOldest(t *testing.T) {
	tl := testTimeline(t)
	for i := 0; i < maxDecisions+5; i++ {
		require.NoError(t, tl.RecordDecision(fmt.Sprintf("decision %d", i), "", ""))
	}
	_, decisions := tl.Stats()
	assert.Equal(t, maxDecisions, decisions)
}

// seedTimeline writes a backing document with explicit timestamps so tests
// can control storage interleaving.
func seedTimeline(t *testing.T, actions, decisions []Entry) *Timeline {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timeline.json")
	doc := document{
		Version:       currentVersion,
		LastUpdated:   time.Now().UTC(),
		RecentActions: actions,
		KeyDecisions:  decisions,
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return Open(path, zerolog.Nop())
}

func TestRecentForTopicSortedByTimestampDesc(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	// Decisions hold both the newest and oldest timestamps, so a correct
	// result must interleave the two lists.
	tl := seedTimeline(t,
		[]Entry{
			{ID: "a2", Timestamp: at(3), Kind: KindAction, Action: "second", TopicID: "deploy"},
			{ID: "a1", Timestamp: at(1), Kind: KindAction, Action: "first", TopicID: "deploy"},
		},
		[]Entry{
			{ID: "d2", Timestamp: at(4), Kind: KindDecision, Decision: "newest", TopicID: "deploy"},
			{ID: "d1", Timestamp: at(0), Kind: KindDecision, Decision: "oldest", TopicID: "deploy"},
			{ID: "dx", Timestamp: at(2), Kind: KindDecision, Decision: "other topic", TopicID: "unrelated"},
		},
	)

	entries := tl.RecentForTopic("deploy", 10)
	require.Len(t, entries, 4)
	ids := []string{entries[0].ID, entries[1].ID, entries[2].ID, entries[3].ID}
	assert.Equal(t, []string{"d2", "a2", "a1", "d1"}, ids)
}

func TestRecentForTopicDefaultLimit(t *testing.T) {
	tl := testTimeline(t)
	for i := 0; i < 8; i++ {
		require.NoError(t, tl.RecordAction(fmt.Sprintf("step %d", i), "", "build"))
	}
	assert.Len(t, tl.RecentForTopic("build", 0), defaultRecentLimit)
	assert.Len(t, tl.RecentForTopic("build", 2), 2)
}

func TestRecentForTopicUnseenTopic(t *testing.T) {
	tl := testTimeline(t)
	require.NoError(t, tl.RecordAction("something", "", "known"))
	assert.Empty(t, tl.RecentForTopic("never-seen", 0))
}

func TestPruneOldEntries(t *testing.T) {
	tl := testTimeline(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, tl.RecordAction(fmt.Sprintf("a%d", i), "", ""))
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, tl.RecordDecision(fmt.Sprintf("d%d", i), "", ""))
	}

	// keep 6 actions, 6/2=3 decisions: removes 4 + 1
	removed, err := tl.PruneOldEntries(6)
	require.NoError(t, err)
	assert.Equal(t, 5, removed)

	actions, decisions := tl.Stats()
	assert.Equal(t, 6, actions)
	assert.Equal(t, 3, decisions)

	// Idempotent once within bounds.
	removed, err = tl.PruneOldEntries(6)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestPruneDecisionFloor(t *testing.T) {
	tl := testTimeline(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, tl.RecordDecision(fmt.Sprintf("d%d", i), "", ""))
	}

	// keepLast 5: decisions keep floor(5/2) = 2
	removed, err := tl.PruneOldEntries(5)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	_, decisions := tl.Stats()
	assert.Equal(t, 2, decisions)
}

func TestActiveContextWholeRecordReplace(t *testing.T) {
	tl := testTimeline(t)
	require.NoError(t, tl.SetActiveContext(ActiveContext{
		CurrentFocus: "migrating store",
		BlockedBy:    []string{"review", "review", "ci"},
		NextUp:       []string{"cutover", "cleanup"},
	}))

	ac := tl.ActiveContext()
	assert.Equal(t, "migrating store", ac.CurrentFocus)
	assert.Equal(t, []string{"review", "ci"}, ac.BlockedBy)

	// A later write replaces the whole record; nothing merges.
	require.NoError(t, tl.SetActiveContext(ActiveContext{CurrentFocus: "shipping"}))
	ac = tl.ActiveContext()
	assert.Equal(t, "shipping", ac.CurrentFocus)
	assert.Empty(t, ac.BlockedBy)
	assert.Empty(t, ac.NextUp)
}

func TestCorruptBackingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	tl := Open(path, zerolog.Nop())
	actions, decisions := tl.Stats()
	assert.Zero(t, actions)
	assert.Zero(t, decisions)

	// Still writable afterward.
	require.NoError(t, tl.RecordAction("recovered", "", ""))
	actions, _ = tl.Stats()
	assert.Equal(t, 1, actions)
}

func TestTokenCostGrowsWithContent(t *testing.T) {
	tl := testTimeline(t)
	empty := tl.TokenCost()
	assert.Greater(t, empty, 0)

	require.NoError(t, tl.RecordAction("a reasonably descriptive action", "with an outcome attached", "topic"))
	assert.Greater(t, tl.TokenCost(), empty)
}
