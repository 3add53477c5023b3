// Package events notifies downstream consumers (cache invalidation, page
// re-rendering) about mirror changes. Publishing is best-effort: the engine
// logs failures and moves on.
package events

import (
	"context"
	"time"
)

// Actions emitted by the sync engine.
const (
	ActionJudgeCreated = "judge.created"
	ActionJudgeUpdated = "judge.updated"
)

// Event describes one mirror change.
type Event struct {
	Action     string    `json:"action"`
	JudgeID    string    `json:"judge_id"`
	ExternalID string    `json:"external_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher fans mirror changes out to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop discards events; used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
