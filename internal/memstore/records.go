package memstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/draftplane/recall/internal/tokens"
)

// Kind classifies a full memory record.
type Kind string

const (
	KindEpisode Kind = "episode"
	KindPattern Kind = "pattern"
	KindSkill   Kind = "skill"
)

// tableFor maps a kind to its table. Kinds are a closed set; the table name
// is never derived from caller input.
func tableFor(kind Kind) (string, error) {
	switch kind {
	case KindEpisode:
		return "episodes", nil
	case KindPattern:
		return "patterns", nil
	case KindSkill:
		return "skills", nil
	default:
		return "", fmt.Errorf("unknown record kind %q", kind)
	}
}

// Record is one complete stored memory.
type Record struct {
	ID          int64
	TopicID     string
	Kind        Kind
	Content     string
	TokenCount  int
	AccessCount int
	LastAccess  *int64
	CreatedAt   int64
	UpdatedAt   int64
}

// Put inserts or replaces the record for a topic within one kind. The token
// count is recomputed from the content when left at zero.
func (db *DB) Put(ctx context.Context, kind Kind, topicID, content string, tokenCount int) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	if tokenCount <= 0 {
		tokenCount = tokens.Estimate(content)
	}

	now := time.Now().UnixMilli()
	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (topic_id, content, token_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(topic_id) DO UPDATE SET content = ?, token_count = ?, updated_at = ?
	`, table), topicID, content, tokenCount, now, now,
		content, tokenCount, now)
	if err != nil {
		return fmt.Errorf("put %s: %w", kind, err)
	}
	return nil
}

// Get returns the record for a topic within one kind, or nil when absent.
func (db *DB) Get(ctx context.Context, kind Kind, topicID string) (*Record, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var r Record
	r.Kind = kind
	err = db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, topic_id, content, token_count, access_count, last_access, created_at, updated_at
		FROM %s WHERE topic_id = ?
	`, table), topicID).Scan(
		&r.ID, &r.TopicID, &r.Content, &r.TokenCount,
		&r.AccessCount, &r.LastAccess, &r.CreatedAt, &r.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	return &r, nil
}

// Touch bumps access tracking for a resolved record. Retrieval keeps used
// memories warm; the tie-break in topic ordering depends on it.
func (db *DB) Touch(ctx context.Context, kind Kind, topicID string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET access_count = access_count + 1, last_access = ?
		WHERE topic_id = ?
	`, table), now, topicID)
	if err != nil {
		return fmt.Errorf("touch %s: %w", kind, err)
	}
	return nil
}

// Delete removes the record for a topic within one kind.
func (db *DB) Delete(ctx context.Context, kind Kind, topicID string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE topic_id = ?", table), topicID); err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return nil
}

// Stats returns per-kind record counts.
func (db *DB) Stats(ctx context.Context) (map[Kind]int, error) {
	out := make(map[Kind]int, 3)
	for _, kind := range []Kind{KindEpisode, KindPattern, KindSkill} {
		table, _ := tableFor(kind)
		var n int
		if err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", kind, err)
		}
		out[kind] = n
	}
	return out, nil
}
