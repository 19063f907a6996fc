// Package loader implements progressive disclosure: assemble the most
// relevant prior context for a query under a fixed token budget, reading
// the cheap tiers first and escalating to full memory records only when
// the cheap context is not enough.
package loader

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/draftplane/recall/internal/index"
	"github.com/draftplane/recall/internal/memstore"
	"github.com/draftplane/recall/internal/timeline"
)

// Origin tags where a bundle item came from.
type Origin string

const (
	OriginTimeline Origin = "timeline"
	OriginEpisode  Origin = "episode"
	OriginPattern  Origin = "pattern"
	OriginSkill    Origin = "skill"
)

// BundleItem is one piece of assembled context.
type BundleItem struct {
	TopicID string `json:"topic_id"`
	Origin  Origin `json:"origin"`
	Content string `json:"content"`
}

// TimelineSource is the slice of timeline behavior the loader consumes.
type TimelineSource interface {
	TokenCost() int
	RecentForTopic(topicID string, limit int) []timeline.Entry
}

// Options tunes the pipeline. Zero values fall back to defaults.
type Options struct {
	// RelevanceThreshold gates which topics participate at all (default 0.5).
	RelevanceThreshold float64
	// EscalationThreshold gates which topics may cost a full-memory load
	// (default 0.8). Topics below the relevance threshold never escalate.
	EscalationThreshold float64
	// TimelineLimit caps entries collected per topic (default 5).
	TimelineLimit int
}

func (o Options) withDefaults() Options {
	if o.RelevanceThreshold <= 0 {
		o.RelevanceThreshold = 0.5
	}
	if o.EscalationThreshold <= 0 {
		o.EscalationThreshold = 0.8
	}
	if o.TimelineLimit <= 0 {
		o.TimelineLimit = 5
	}
	return o
}

// Loader orchestrates the three tiers. All collaborators are injected at
// construction; nothing is built lazily on first use.
type Loader struct {
	index     index.Index
	timeline  TimelineSource
	resolvers []memstore.Resolver
	opts      Options
	log       zerolog.Logger
}

// New creates a Loader. A nil index or timeline degrades to empty at call
// time; an empty resolver chain simply disables tier 3.
func New(idx index.Index, tl TimelineSource, resolvers []memstore.Resolver, opts Options, log zerolog.Logger) *Loader {
	return &Loader{
		index:     idx,
		timeline:  tl,
		resolvers: resolvers,
		opts:      opts.withDefaults(),
		log:       log,
	}
}

// collectedTopic keeps entries associated with the topic they matched, in
// relevance order.
type collectedTopic struct {
	topic   index.Topic
	entries []timeline.Entry
}

// LoadRelevantContext runs the pipeline for one query under maxTokens.
// Every collaborator failure degrades to an empty default; an empty bundle
// is a normal answer, not an error.
func (l *Loader) LoadRelevantContext(ctx context.Context, query string, maxTokens int) ([]BundleItem, TokenMetrics) {
	var m TokenMetrics
	remaining := maxTokens

	// Tier 1: the index snapshot is always paid for first.
	snap := l.loadSnapshot(ctx)
	m.Tier1Tokens = snap.TokenCost()
	m.TotalTokens += m.Tier1Tokens
	remaining -= m.Tier1Tokens
	if remaining <= 0 {
		// Budget too small even for the index. Valid outcome.
		l.log.Debug().Int("max_tokens", maxTokens).Int("index_cost", m.Tier1Tokens).
			Msg("budget exhausted at tier 1")
		m.finish(maxTokens)
		return nil, m
	}

	topics := snap.FindRelevantTopics(query, l.opts.RelevanceThreshold)
	if len(topics) == 0 {
		l.log.Debug().Str("query", query).Msg("no relevant topics")
		m.finish(maxTokens)
		return nil, m
	}

	if ctx.Err() != nil {
		m.finish(maxTokens)
		return nil, m
	}

	// Tier 2: the whole timeline is charged once, not per topic.
	m.Tier2Tokens = l.timelineCost()
	m.TotalTokens += m.Tier2Tokens
	remaining -= m.Tier2Tokens

	collected := l.collectTimeline(topics)
	flat := flatten(collected)

	if isContextSufficient(flat, query) {
		bundle := make([]BundleItem, 0, len(flat))
		for _, ct := range collected {
			for _, e := range ct.entries {
				bundle = append(bundle, BundleItem{
					TopicID: ct.topic.ID,
					Origin:  OriginTimeline,
					Content: e.String(),
				})
			}
		}
		l.log.Debug().Int("entries", len(bundle)).Msg("timeline context sufficient")
		m.finish(maxTokens)
		return bundle, m
	}

	if remaining <= 0 {
		l.log.Debug().Msg("insufficient context but budget exhausted at tier 2")
		m.finish(maxTokens)
		return nil, m
	}

	// Tier 3: full memory records for the highest-relevance topics only.
	bundle := l.escalate(ctx, topics, &m, &remaining)
	m.finish(maxTokens)
	return bundle, m
}

// escalate resolves full records for topics at or above the escalation
// threshold, in the existing relevance order, within the remaining budget.
func (l *Loader) escalate(ctx context.Context, topics []index.Topic, m *TokenMetrics, remaining *int) []BundleItem {
	var bundle []BundleItem
	for _, t := range topics {
		if *remaining <= 0 {
			break
		}
		// A topic's debit is all-or-nothing; between topics is the only
		// safe place to honor cancellation.
		if ctx.Err() != nil {
			break
		}
		if t.RelevanceScore < l.opts.EscalationThreshold {
			continue
		}
		if t.TokenCount > *remaining {
			l.log.Debug().Str("topic", t.ID).Int("cost", t.TokenCount).Int("remaining", *remaining).
				Msg("topic over remaining budget, skipped")
			continue
		}

		rec, err := memstore.ResolveFirst(ctx, l.resolvers, t.ID)
		if err != nil {
			// Not found or store trouble: either way the topic simply
			// contributes nothing.
			l.log.Debug().Err(err).Str("topic", t.ID).Msg("full memory resolution miss")
			continue
		}

		bundle = append(bundle, BundleItem{
			TopicID: t.ID,
			Origin:  originFor(rec.Kind),
			Content: rec.Content,
		})
		m.Tier3Tokens += t.TokenCount
		m.TotalTokens += t.TokenCount
		*remaining -= t.TokenCount
	}
	return bundle
}

// loadSnapshot degrades any index failure to an empty snapshot.
func (l *Loader) loadSnapshot(ctx context.Context) *index.Snapshot {
	if l.index == nil {
		return index.NewSnapshot(nil, nil)
	}
	snap, err := l.index.Load(ctx)
	if err != nil || snap == nil {
		if err != nil {
			l.log.Warn().Err(err).Msg("topic index load failed, treating as empty")
		}
		return index.NewSnapshot(nil, nil)
	}
	return snap
}

func (l *Loader) timelineCost() int {
	if l.timeline == nil {
		return 0
	}
	return l.timeline.TokenCost()
}

func (l *Loader) collectTimeline(topics []index.Topic) []collectedTopic {
	if l.timeline == nil {
		return nil
	}
	collected := make([]collectedTopic, 0, len(topics))
	for _, t := range topics {
		entries := l.timeline.RecentForTopic(t.ID, l.opts.TimelineLimit)
		if len(entries) == 0 {
			continue
		}
		collected = append(collected, collectedTopic{topic: t, entries: entries})
	}
	return collected
}

func flatten(collected []collectedTopic) []timeline.Entry {
	var out []timeline.Entry
	for _, ct := range collected {
		out = append(out, ct.entries...)
	}
	return out
}

func originFor(kind memstore.Kind) Origin {
	switch kind {
	case memstore.KindPattern:
		return OriginPattern
	case memstore.KindSkill:
		return OriginSkill
	default:
		return OriginEpisode
	}
}
