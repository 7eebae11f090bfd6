// Package events publishes the engine's domain events over Redis
// pub/sub. Delivery is fire-and-forget: publishing happens after the
// owning transaction commits, failures are logged and swallowed, and
// no consumer is ever part of the engine's correctness story.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Channels consumed by the notification and analytics systems.
const (
	ChannelMatchCreated   = "engine.match_created"
	ChannelMatchUnmatched = "engine.match_unmatched"
	ChannelSwipeUndone    = "engine.swipe_undone"
)

// MatchEvent is the payload for match_created and match_unmatched.
type MatchEvent struct {
	MatchID    uint64    `json:"match_id"`
	LowUserID  uint64    `json:"low_user_id"`
	HighUserID uint64    `json:"high_user_id"`
	At         time.Time `json:"at"`
}

// SwipeEvent is the payload for swipe_undone.
type SwipeEvent struct {
	SwipeID  uint64    `json:"swipe_id"`
	ActorID  uint64    `json:"actor_id"`
	TargetID uint64    `json:"target_id"`
	Kind     string    `json:"kind"`
	At       time.Time `json:"at"`
}

type Publisher struct {
	client *redis.Client
	log    *slog.Logger
}

// NewPublisher wraps a redis client. A nil client yields a no-op
// publisher, which tests use to run the engine without redis.
func NewPublisher(client *redis.Client, log *slog.Logger) *Publisher {
	return &Publisher{client: client, log: log}
}

// MatchCreated announces a newly created (or re-activated) match.
func (p *Publisher) MatchCreated(ctx context.Context, ev MatchEvent) {
	p.publish(ctx, ChannelMatchCreated, ev)
}

// MatchUnmatched announces a match whose status moved to unmatched.
func (p *Publisher) MatchUnmatched(ctx context.Context, ev MatchEvent) {
	p.publish(ctx, ChannelMatchUnmatched, ev)
}

// SwipeUndone announces a revoked swipe.
func (p *Publisher) SwipeUndone(ctx context.Context, ev SwipeEvent) {
	p.publish(ctx, ChannelSwipeUndone, ev)
}

func (p *Publisher) publish(ctx context.Context, channel string, payload any) {
	if p == nil || p.client == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		p.log.Error("event marshal failed", "channel", channel, "err", err)
		return
	}
	if err := p.client.Publish(ctx, channel, body).Err(); err != nil {
		p.log.Warn("event publish failed", "channel", channel, "err", err)
	}
}
