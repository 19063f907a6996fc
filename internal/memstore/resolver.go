package memstore

import (
	"context"
	"errors"
)

// ErrNotFound reports that no record of the resolver's kind exists for the
// topic. Callers treat it as "try the next resolver", not a failure.
var ErrNotFound = errors.New("memstore: record not found")

// Resolver looks up the full record of one kind for a topic. The union
// resolution over episode/pattern/skill is an ordered chain of these, not
// ad hoc lookups.
type Resolver interface {
	Kind() Kind
	Resolve(ctx context.Context, topicID string) (*Record, error)
}

type kindResolver struct {
	db   *DB
	kind Kind
}

func (r kindResolver) Kind() Kind { return r.kind }

func (r kindResolver) Resolve(ctx context.Context, topicID string) (*Record, error) {
	rec, err := r.db.Get(ctx, r.kind, topicID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	// Access tracking is best-effort; a failed bump never blocks retrieval.
	_ = r.db.Touch(ctx, r.kind, topicID)
	return rec, nil
}

// Resolvers returns the resolver chain in fixed precedence order:
// episode, then pattern, then skill. First hit wins.
func (db *DB) Resolvers() []Resolver {
	return []Resolver{
		kindResolver{db: db, kind: KindEpisode},
		kindResolver{db: db, kind: KindPattern},
		kindResolver{db: db, kind: KindSkill},
	}
}

// ResolveFirst walks the chain and returns the first record found.
func ResolveFirst(ctx context.Context, resolvers []Resolver, topicID string) (*Record, error) {
	for _, r := range resolvers {
		rec, err := r.Resolve(ctx, topicID)
		if err == nil {
			return rec, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}
