package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sparkmeet/spark-backend/internal/db"
	svcErr "github.com/sparkmeet/spark-backend/internal/errors"
)

// SwipeRepository provides data access for Swipe rows. It is the single
// source of truth for "is there an active decision from A about B".
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB
// connection. Bind to a transaction handle to join a larger unit of work.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

func activeTrue() *bool {
	b := true
	return &b
}

// Record inserts a new active swipe from actor about target.
//
// Behavior:
//   - Self-target or an unknown kind → ValidationError.
//   - An existing active swipe for the pair → ConflictError. The
//     pre-check catches the common case; the unique index on
//     (actor_id, target_id, active) catches the race, with the losing
//     writer's duplicate-key failure translated into the same
//     ConflictError.
//   - Otherwise returns the stored swipe.
func (r *SwipeRepository) Record(
	ctx context.Context,
	actorID, targetID uint64,
	kind, sourceIP string,
) (*db.Swipe, error) {
	if actorID == targetID {
		return nil, svcErr.Validation("cannot swipe on yourself")
	}
	if !db.ValidKind(kind) {
		return nil, svcErr.Validation(fmt.Sprintf("unknown swipe kind %q", kind))
	}

	exists, err := r.HasActive(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, svcErr.Conflict("an active swipe for this pair already exists")
	}

	swipe := db.Swipe{
		ActorID:  actorID,
		TargetID: targetID,
		Kind:     kind,
		Active:   activeTrue(),
		SourceIP: sourceIP,
	}
	if err := r.db.WithContext(ctx).Create(&swipe).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the insert race to a concurrent identical swipe
			return nil, svcErr.Conflict("an active swipe for this pair already exists")
		}
		return nil, svcErr.Storage(err)
	}
	return &swipe, nil
}

// UndoLast finds the actor's most recently created active swipe and
// deactivates it. The row is kept (active set to NULL) for audit and
// analytics; it just leaves the unique index's scope so the pair can be
// swiped again.
//
// Cascading into match state is the caller's job.
func (r *SwipeRepository) UndoLast(ctx context.Context, actorID uint64) (*db.Swipe, error) {
	var swipe db.Swipe
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND active = ?", actorID, true).
		Order("created_at DESC, id DESC").
		First(&swipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("no active swipe to undo")
	}
	if err != nil {
		return nil, svcErr.Storage(err)
	}

	if err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("id = ?", swipe.ID).
		Update("active", nil).Error; err != nil {
		return nil, svcErr.Storage(err)
	}

	swipe.Active = nil
	return &swipe, nil
}

// HasActive reports whether actor has any active swipe about target.
func (r *SwipeRepository) HasActive(ctx context.Context, actorID, targetID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("actor_id = ? AND target_id = ? AND active = ?", actorID, targetID, true).
		Count(&count).Error
	if err != nil {
		return false, svcErr.Storage(err)
	}
	return count > 0, nil
}

// HasActiveLike reports whether actor has an active like or super-like
// about target. This is the reciprocity probe the match detector uses.
func (r *SwipeRepository) HasActiveLike(ctx context.Context, actorID, targetID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("actor_id = ? AND target_id = ? AND active = ?", actorID, targetID, true).
		Where("kind IN ?", []string{db.KindLike, db.KindSuperLike}).
		Count(&count).Error
	if err != nil {
		return false, svcErr.Storage(err)
	}
	return count > 0, nil
}
