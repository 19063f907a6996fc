package timeline

import (
	"fmt"
	"time"
)

// Kind distinguishes the two entry shapes the timeline records.
type Kind string

const (
	KindAction   Kind = "action"
	KindDecision Kind = "decision"
)

// Entry is one timeline record: an action with its outcome, or a decision
// with its rationale. TopicID links the entry to the topic index when the
// caller knows which memory it relates to.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`
	Action    string    `json:"action,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Decision  string    `json:"decision,omitempty"`
	Rationale string    `json:"rationale,omitempty"`
	TopicID   string    `json:"topic_id,omitempty"`
}

// String renders the entry as a single context line.
func (e Entry) String() string {
	switch e.Kind {
	case KindDecision:
		if e.Rationale == "" {
			return fmt.Sprintf("[decision] %s", e.Decision)
		}
		return fmt.Sprintf("[decision] %s (rationale: %s)", e.Decision, e.Rationale)
	default:
		if e.Outcome == "" {
			return fmt.Sprintf("[action] %s", e.Action)
		}
		return fmt.Sprintf("[action] %s (outcome: %s)", e.Action, e.Outcome)
	}
}

// ActiveContext is the singleton "what am I doing right now" record.
// Writes replace the whole record; there is no merge.
type ActiveContext struct {
	CurrentFocus string   `json:"current_focus"`
	BlockedBy    []string `json:"blocked_by,omitempty"`
	NextUp       []string `json:"next_up,omitempty"`
}
