package engine

import (
	"context"

	"github.com/sparkmeet/spark-backend/internal/db"
	"github.com/sparkmeet/spark-backend/internal/pair"
	"github.com/sparkmeet/spark-backend/internal/repository"
)

// detector holds the reciprocity rules. It always runs against
// transaction-bound repositories so swipe write and match write commit
// or roll back together.
//
// The unique index on the canonical pair is the only arbiter under
// concurrency: when both directions of a mutual like race, exactly one
// EnsureActive reports activation and the other folds into a no-op.
type detector struct {
	swipes  *repository.SwipeRepository
	matches *repository.MatchRepository
}

// onLikeRecorded checks reciprocity for a just-recorded like or
// super-like and activates the pair's match when both directions hold.
// Returns whether this call activated the match.
func (d detector) onLikeRecorded(ctx context.Context, actorID, targetID uint64) (bool, *db.Match, error) {
	reciprocal, err := d.swipes.HasActiveLike(ctx, targetID, actorID)
	if err != nil {
		return false, nil, err
	}
	if !reciprocal {
		return false, nil, nil
	}
	return d.matches.EnsureActive(ctx, pair.New(actorID, targetID))
}

// onUndo re-checks a pair after one of its swipes was revoked. If the
// undone swipe was a like and the pair's match is active, the match
// moves to unmatched unless both directions somehow still hold.
// Blocked matches are left alone.
func (d detector) onUndo(ctx context.Context, undone *db.Swipe) (bool, *db.Match, error) {
	if !db.LikeKind(undone.Kind) {
		return false, nil, nil
	}

	p := pair.New(undone.ActorID, undone.TargetID)
	m, err := d.matches.FindByPair(ctx, p)
	if err != nil {
		return false, nil, err
	}
	if m == nil || m.Status != db.MatchActive {
		return false, nil, nil
	}

	forward, err := d.swipes.HasActiveLike(ctx, undone.ActorID, undone.TargetID)
	if err != nil {
		return false, nil, err
	}
	backward, err := d.swipes.HasActiveLike(ctx, undone.TargetID, undone.ActorID)
	if err != nil {
		return false, nil, err
	}
	if forward && backward {
		// reciprocity re-established in the same instant; nothing to do
		return false, nil, nil
	}

	return d.matches.Unmatch(ctx, p)
}
