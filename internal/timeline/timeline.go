// Package timeline keeps the bounded, time-ordered log of recent actions
// and key decisions: the middle memory tier. The whole log lives in one
// JSON document replaced atomically on every write, so readers never see a
// partial record.
package timeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/draftplane/recall/internal/tokens"
)

const (
	currentVersion = 1

	// Caps keep the timeline cheap to serialize. Oldest entries beyond the
	// cap are evicted on insert.
	maxActions   = 100
	maxDecisions = 50

	defaultRecentLimit = 5
)

// document is the single on-disk record backing the timeline. Both entry
// lists are newest-first.
type document struct {
	Version       int           `json:"version"`
	LastUpdated   time.Time     `json:"lastUpdated"`
	RecentActions []Entry       `json:"recentActions"`
	KeyDecisions  []Entry       `json:"keyDecisions"`
	ActiveContext ActiveContext `json:"activeContext"`
}

// Timeline owns the action/decision log and the active-context record.
// Safe for concurrent readers; writers serialize on the mutex and commit
// through a temp-file rename.
type Timeline struct {
	mu   sync.RWMutex
	path string
	doc  document
	log  zerolog.Logger
}

// Open loads the timeline at path. A missing or corrupt backing file is an
// empty timeline, never an error: retrieval must work from a cold start.
func Open(path string, log zerolog.Logger) *Timeline {
	t := &Timeline{
		path: path,
		doc:  document{Version: currentVersion},
		log:  log,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("timeline unreadable, starting empty")
		}
		return t
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("timeline corrupt, starting empty")
		return t
	}
	if doc.Version == 0 {
		doc.Version = currentVersion
	}
	t.doc = doc
	t.enforceCaps()
	return t
}

// RecordAction prepends an action entry and persists. topicID may be empty.
func (t *Timeline) RecordAction(action, outcome, topicID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.doc.RecentActions = prepend(t.doc.RecentActions, Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Kind:      KindAction,
		Action:    action,
		Outcome:   outcome,
		TopicID:   topicID,
	}, maxActions)
	return t.saveLocked()
}

// RecordDecision prepends a decision entry and persists. topicID may be empty.
func (t *Timeline) RecordDecision(decision, rationale, topicID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.doc.KeyDecisions = prepend(t.doc.KeyDecisions, Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Kind:      KindDecision,
		Decision:  decision,
		Rationale: rationale,
		TopicID:   topicID,
	}, maxDecisions)
	return t.saveLocked()
}

// RecentForTopic merges the actions and decisions tagged with topicID,
// newest first, truncated to limit (default 5). An unseen topic yields an
// empty list.
func (t *Timeline) RecentForTopic(topicID string, limit int) []Entry {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	match := func(e Entry, _ int) bool { return e.TopicID == topicID }
	merged := append(
		lo.Filter(t.doc.RecentActions, match),
		lo.Filter(t.doc.KeyDecisions, match)...,
	)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// TokenCost is the approximate cost of the serialized timeline. The loader
// charges it once per retrieval call, not per topic.
func (t *Timeline) TokenCost() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	data, err := json.Marshal(t.doc)
	if err != nil {
		return 0
	}
	return tokens.EstimateBytes(data)
}

// SetActiveContext replaces the whole active-context record. BlockedBy is a
// set: duplicates collapse, first occurrence keeps its position.
func (t *Timeline) SetActiveContext(ac ActiveContext) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	ac.BlockedBy = lo.Uniq(ac.BlockedBy)
	t.doc.ActiveContext = ac
	return t.saveLocked()
}

// ActiveContext returns a copy of the current active-context record.
func (t *Timeline) ActiveContext() ActiveContext {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ac := t.doc.ActiveContext
	ac.BlockedBy = append([]string(nil), ac.BlockedBy...)
	ac.NextUp = append([]string(nil), ac.NextUp...)
	return ac
}

// PruneOldEntries trims actions to keepLast and decisions to keepLast/2,
// returning how many entries were removed. Once within bounds it removes
// nothing and skips the disk write.
func (t *Timeline) PruneOldEntries(keepLast int) (int, error) {
	if keepLast < 0 {
		keepLast = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	if n := len(t.doc.RecentActions); n > keepLast {
		removed += n - keepLast
		t.doc.RecentActions = t.doc.RecentActions[:keepLast]
	}
	keepDecisions := keepLast / 2
	if n := len(t.doc.KeyDecisions); n > keepDecisions {
		removed += n - keepDecisions
		t.doc.KeyDecisions = t.doc.KeyDecisions[:keepDecisions]
	}

	if removed == 0 {
		return 0, nil
	}
	return removed, t.saveLocked()
}

// Stats reports current entry counts for observability.
func (t *Timeline) Stats() (actions, decisions int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.doc.RecentActions), len(t.doc.KeyDecisions)
}

// saveLocked persists the document atomically: write temp, rename over the
// original. Callers must hold the write lock.
func (t *Timeline) saveLocked() error {
	t.doc.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(t.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal timeline: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("create timeline dir: %w", err)
	}
	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write timeline temp: %w", err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		return fmt.Errorf("commit timeline: %w", err)
	}
	return nil
}

func (t *Timeline) enforceCaps() {
	if len(t.doc.RecentActions) > maxActions {
		t.doc.RecentActions = t.doc.RecentActions[:maxActions]
	}
	if len(t.doc.KeyDecisions) > maxDecisions {
		t.doc.KeyDecisions = t.doc.KeyDecisions[:maxDecisions]
	}
}

func prepend(entries []Entry, e Entry, limit int) []Entry {
	entries = append([]Entry{e}, entries...)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
