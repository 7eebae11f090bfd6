// Package engine is the swipe & match facade: it orchestrates the
// swipe repository, match detector, queue builder and analytics
// aggregator behind the public operations. It holds no state of its
// own; every invariant lives in the shared store, so any number of
// engine instances can serve requests concurrently.
package engine

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/sparkmeet/spark-backend/internal/app"
	"github.com/sparkmeet/spark-backend/internal/db"
	svcErr "github.com/sparkmeet/spark-backend/internal/errors"
	"github.com/sparkmeet/spark-backend/internal/events"
	"github.com/sparkmeet/spark-backend/internal/repository"
	"github.com/sparkmeet/spark-backend/internal/scorer"
)

const defaultQueueSize = 50

type Engine struct {
	appCtx *app.AppContext
	log    *slog.Logger
}

// New creates the engine with dependencies from AppContext.
func New(appCtx *app.AppContext) *Engine {
	return &Engine{appCtx: appCtx, log: appCtx.Logger}
}

// SwipeResult is what RecordSwipe hands back: the stored swipe plus
// whether it completed a match.
type SwipeResult struct {
	Swipe   *db.Swipe
	Matched bool
	Match   *db.Match
}

// UndoResult is what UndoLastSwipe hands back: the revoked swipe plus
// whether a match was retracted with it.
type UndoResult struct {
	Swipe     *db.Swipe
	Unmatched bool
	Match     *db.Match
}

// RecordSwipe stores a decision and runs match detection in the same
// transaction. Analytics, cache and event side effects run after
// commit and soft-fail: a missing counter increment never rolls back
// the swipe.
func (e *Engine) RecordSwipe(ctx context.Context, actorID, targetID uint64, kind, sourceIP string) (*SwipeResult, error) {
	e.log.Debug("RecordSwipe called", "actor", actorID, "target", targetID, "kind", kind)

	res := &SwipeResult{}
	err := e.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		swipes := repository.NewSwipeRepository(tx)
		matches := repository.NewMatchRepository(tx)

		swipe, err := swipes.Record(ctx, actorID, targetID, kind, sourceIP)
		if err != nil {
			return err
		}
		res.Swipe = swipe

		if db.LikeKind(kind) {
			det := detector{swipes: swipes, matches: matches}
			matched, match, err := det.onLikeRecorded(ctx, actorID, targetID)
			if err != nil {
				return err
			}
			res.Matched = matched
			res.Match = match
		}
		return nil
	})
	if err != nil {
		if svcErr.KindOf(err) == svcErr.KindStorage {
			e.log.Error("RecordSwipe failed", "actor", actorID, "target", targetID, "err", err)
		}
		return nil, err
	}

	e.afterSwipe(ctx, res)
	return res, nil
}

// afterSwipe applies the post-commit side effects of a recorded swipe.
// All of them are best-effort.
func (e *Engine) afterSwipe(ctx context.Context, res *SwipeResult) {
	analytics := repository.NewAnalyticsRepository(e.appCtx.DB)
	swipe := res.Swipe

	if err := analytics.BumpSwipe(ctx, swipe.ActorID, swipe.Kind, repository.DirectionGiven); err != nil {
		e.log.Warn("analytics bump failed", "user", swipe.ActorID, "err", err)
	}
	if err := analytics.BumpSwipe(ctx, swipe.TargetID, swipe.Kind, repository.DirectionReceived); err != nil {
		e.log.Warn("analytics bump failed", "user", swipe.TargetID, "err", err)
	}

	if !res.Matched {
		return
	}
	match := res.Match

	for _, userID := range []uint64{match.LowUserID, match.HighUserID} {
		if err := analytics.BumpMatchCreated(ctx, userID); err != nil {
			e.log.Warn("analytics bump failed", "user", userID, "err", err)
		}
		if e.appCtx.RedisCache != nil {
			if err := e.appCtx.RedisCache.BumpMatchCount(ctx, userID, 1); err != nil {
				e.log.Warn("match count cache bump failed", "user", userID, "err", err)
			}
		}
	}

	e.appCtx.Events.MatchCreated(ctx, events.MatchEvent{
		MatchID:    match.ID,
		LowUserID:  match.LowUserID,
		HighUserID: match.HighUserID,
		At:         match.MatchedAt,
	})
}

// UndoLastSwipe revokes the actor's most recent active swipe and, when
// that swipe propped up an active match, retracts the match in the
// same transaction.
func (e *Engine) UndoLastSwipe(ctx context.Context, actorID uint64) (*UndoResult, error) {
	e.log.Debug("UndoLastSwipe called", "actor", actorID)

	res := &UndoResult{}
	err := e.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		swipes := repository.NewSwipeRepository(tx)
		matches := repository.NewMatchRepository(tx)

		swipe, err := swipes.UndoLast(ctx, actorID)
		if err != nil {
			return err
		}
		res.Swipe = swipe

		det := detector{swipes: swipes, matches: matches}
		unmatched, match, err := det.onUndo(ctx, swipe)
		if err != nil {
			return err
		}
		res.Unmatched = unmatched
		res.Match = match
		return nil
	})
	if err != nil {
		if svcErr.KindOf(err) == svcErr.KindStorage {
			e.log.Error("UndoLastSwipe failed", "actor", actorID, "err", err)
		}
		return nil, err
	}

	e.afterUndo(ctx, res)
	return res, nil
}

func (e *Engine) afterUndo(ctx context.Context, res *UndoResult) {
	swipe := res.Swipe
	e.appCtx.Events.SwipeUndone(ctx, events.SwipeEvent{
		SwipeID:  swipe.ID,
		ActorID:  swipe.ActorID,
		TargetID: swipe.TargetID,
		Kind:     swipe.Kind,
		At:       swipe.UpdatedAt,
	})

	if !res.Unmatched {
		return
	}
	match := res.Match

	for _, userID := range []uint64{match.LowUserID, match.HighUserID} {
		if e.appCtx.RedisCache != nil {
			if err := e.appCtx.RedisCache.BumpMatchCount(ctx, userID, -1); err != nil {
				e.log.Warn("match count cache bump failed", "user", userID, "err", err)
			}
		}
	}

	e.appCtx.Events.MatchUnmatched(ctx, events.MatchEvent{
		MatchID:    match.ID,
		LowUserID:  match.LowUserID,
		HighUserID: match.HighUserID,
		At:         match.LastActivityAt,
	})
}

// RebuildQueue recomputes the viewer's discovery queue from scratch:
// bulk replace, preference-filtered candidate pool, compatibility
// scoring. Returns how many entries were written. A viewer without
// preferences ends up with an empty queue and no error.
func (e *Engine) RebuildQueue(ctx context.Context, viewerID uint64, desiredSize int) (int, error) {
	e.log.Debug("RebuildQueue called", "viewer", viewerID, "size", desiredSize)

	if desiredSize <= 0 {
		desiredSize = e.queueSize()
	}

	written := 0
	err := e.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		queue := repository.NewQueueRepository(tx)

		if err := queue.Clear(ctx, viewerID); err != nil {
			return err
		}

		viewer, err := users.Get(ctx, viewerID)
		if err != nil {
			return err
		}
		if viewer == nil {
			return svcErr.NotFound("unknown viewer")
		}

		pref, err := users.GetPreference(ctx, viewerID)
		if err != nil {
			return err
		}
		if pref == nil {
			// no onboarding yet: empty queue, not an error
			return nil
		}

		candidates, err := users.Candidates(ctx, viewerID, pref, desiredSize)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return nil
		}

		ids := make([]uint64, 0, len(candidates)+1)
		ids = append(ids, viewerID)
		for _, c := range candidates {
			ids = append(ids, c.ID)
		}
		interests, err := users.InterestsByUser(ctx, ids)
		if err != nil {
			return err
		}
		superLikers, err := users.SuperLikersOf(ctx, viewerID)
		if err != nil {
			return err
		}

		viewerFeatures := scorer.Features{
			Age:       viewer.Age,
			Lat:       viewer.Lat,
			Lon:       viewer.Lon,
			Interests: interests[viewerID],
		}
		prefs := scorer.Prefs{
			AgeMin:        pref.AgeMin,
			AgeMax:        pref.AgeMax,
			MaxDistanceKm: pref.MaxDistanceKm,
		}

		entries := make([]db.QueueEntry, 0, len(candidates))
		for _, c := range candidates {
			entry := db.QueueEntry{
				ViewerID:    viewerID,
				CandidateID: c.ID,
				Score: scorer.Score(viewerFeatures, prefs, scorer.Features{
					Age:       c.Age,
					Lat:       c.Lat,
					Lon:       c.Lon,
					Interests: interests[c.ID],
				}),
			}
			if _, ok := superLikers[c.ID]; ok {
				entry.Priority = 1
			}
			entries = append(entries, entry)
		}

		if err := queue.Insert(ctx, entries); err != nil {
			return err
		}
		written = len(entries)
		return nil
	})
	if err != nil {
		if svcErr.KindOf(err) == svcErr.KindStorage {
			e.log.Error("RebuildQueue failed", "viewer", viewerID, "err", err)
		}
		return 0, err
	}

	e.log.Debug("RebuildQueue result", "viewer", viewerID, "written", written)
	return written, nil
}

// ReadQueue returns the viewer's ranked queue, best score first.
func (e *Engine) ReadQueue(ctx context.Context, viewerID uint64, limit int) ([]db.QueueEntry, error) {
	if limit <= 0 {
		limit = e.queueSize()
	}
	return repository.NewQueueRepository(e.appCtx.DB).List(ctx, viewerID, limit)
}

// ReadMatches lists matches involving the user, newest activity first,
// optionally filtered by status, with cursor pagination.
func (e *Engine) ReadMatches(
	ctx context.Context,
	userID uint64,
	status string,
	paginationToken *string,
	limit int,
) ([]db.Match, *string, error) {
	if status != "" && status != db.MatchActive && status != db.MatchUnmatched && status != db.MatchBlocked {
		return nil, nil, svcErr.Validation("status must be one of active, unmatched, blocked")
	}
	if limit <= 0 {
		limit = 20
	}
	return repository.NewMatchRepository(e.appCtx.DB).ListForUser(ctx, userID, status, paginationToken, limit)
}

// CountMatches returns the user's active match count.
// Cache-first strategy:
//  1. Attempts to read from Redis (matches:count:userID).
//  2. On cache miss, falls back to the DB.
//  3. On DB fetch, updates Redis with a TTL.
func (e *Engine) CountMatches(ctx context.Context, userID uint64) (int64, error) {
	if e.appCtx.RedisCache != nil {
		if cached, ok, err := e.appCtx.RedisCache.GetMatchCount(ctx, userID); err == nil && ok {
			return cached, nil
		}
	}

	count, err := repository.NewMatchRepository(e.appCtx.DB).CountActiveForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	if e.appCtx.RedisCache != nil {
		if err := e.appCtx.RedisCache.SetMatchCount(ctx, userID, count); err != nil {
			e.log.Warn("match count cache set failed", "user", userID, "err", err)
		}
	}
	return count, nil
}

// ReadAnalytics sums the user's daily counters over the period.
// A user with no activity gets all-zero counters, never an error.
func (e *Engine) ReadAnalytics(ctx context.Context, userID uint64, period string) (repository.Summary, error) {
	return repository.NewAnalyticsRepository(e.appCtx.DB).Read(ctx, userID, period)
}

func (e *Engine) queueSize() int {
	if e.appCtx.Config != nil && e.appCtx.Config.Engine.QueueSize > 0 {
		return e.appCtx.Config.Engine.QueueSize
	}
	return defaultQueueSize
}
