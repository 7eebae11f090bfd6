package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sparkmeet/spark-backend/internal/db"
	svcErr "github.com/sparkmeet/spark-backend/internal/errors"
	"github.com/sparkmeet/spark-backend/internal/pair"
	"github.com/sparkmeet/spark-backend/internal/utils/pagination"
)

// MatchRepository provides data access for Match rows. All lookups and
// writes go through the canonical pair key.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB
// connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// FindByPair loads the match row for a canonical pair, if any.
func (r *MatchRepository) FindByPair(ctx context.Context, p pair.Pair) (*db.Match, error) {
	var m db.Match
	err := r.db.WithContext(ctx).
		Where("low_user_id = ? AND high_user_id = ?", p.Low, p.High).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, svcErr.Storage(err)
	}
	return &m, nil
}

// EnsureActive makes sure an active match exists for the pair and
// reports whether this call activated it.
//
// Behavior:
//   - No row → insert one. A duplicate-key failure means the other
//     direction's like won the race, so the desired state already
//     exists: folded into (false, nil), never an error.
//   - Existing `unmatched` row → re-activate it (the unique pair index
//     forbids a second row, so unmatch/rematch cycles reuse the row).
//   - Existing `active` row → no-op.
//   - Existing `blocked` row → no-op; moderation state is never
//     overwritten by this engine.
func (r *MatchRepository) EnsureActive(ctx context.Context, p pair.Pair) (bool, *db.Match, error) {
	existing, err := r.FindByPair(ctx, p)
	if err != nil {
		return false, nil, err
	}

	if existing != nil {
		switch existing.Status {
		case db.MatchActive, db.MatchBlocked:
			return false, existing, nil
		case db.MatchUnmatched:
			now := time.Now().UTC()
			res := r.db.WithContext(ctx).
				Model(&db.Match{}).
				Where("id = ? AND status = ?", existing.ID, db.MatchUnmatched).
				Updates(map[string]interface{}{
					"status":           db.MatchActive,
					"matched_at":       now,
					"last_activity_at": now,
				})
			if res.Error != nil {
				return false, nil, svcErr.Storage(res.Error)
			}
			if res.RowsAffected == 0 {
				// raced with a concurrent re-activation or a block
				return false, existing, nil
			}
			existing.Status = db.MatchActive
			existing.MatchedAt = now
			existing.LastActivityAt = now
			return true, existing, nil
		}
	}

	now := time.Now().UTC()
	m := db.Match{
		LowUserID:      p.Low,
		HighUserID:     p.High,
		Status:         db.MatchActive,
		MatchedAt:      now,
		LastActivityAt: now,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// the reciprocal direction created it first; that is success
			created, err := r.FindByPair(ctx, p)
			if err != nil {
				return false, nil, err
			}
			return false, created, nil
		}
		return false, nil, svcErr.Storage(err)
	}
	return true, &m, nil
}

// Unmatch moves the pair's match to `unmatched` and reports whether a
// row actually transitioned. The status guard keeps `blocked` rows
// untouched and makes the call idempotent.
func (r *MatchRepository) Unmatch(ctx context.Context, p pair.Pair) (bool, *db.Match, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("low_user_id = ? AND high_user_id = ? AND status = ?", p.Low, p.High, db.MatchActive).
		Updates(map[string]interface{}{
			"status":           db.MatchUnmatched,
			"last_activity_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, nil, svcErr.Storage(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil, nil
	}

	m, err := r.FindByPair(ctx, p)
	if err != nil {
		return false, nil, err
	}
	return true, m, nil
}

// ListForUser returns matches involving the user, newest activity
// first, optionally filtered by status, with cursor pagination.
func (r *MatchRepository) ListForUser(
	ctx context.Context,
	userID uint64,
	status string,
	paginationToken *string,
	limit int,
) ([]db.Match, *string, error) {
	var matches []db.Match

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, svcErr.Validation("invalid pagination token")
	}

	query := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("low_user_id = ? OR high_user_id = ?", userID, userID).
		Order("last_activity_at DESC, id DESC").
		Limit(limit + 1)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if cursor.MatchID > 0 && cursor.ActivityUnix > 0 {
		ts := time.UnixMilli(cursor.ActivityUnix)
		query = query.Where(
			"(last_activity_at < ? OR (last_activity_at = ? AND id < ?))",
			ts, ts, cursor.MatchID,
		)
	}

	if err := query.Find(&matches).Error; err != nil {
		return nil, nil, svcErr.Storage(err)
	}

	var nextToken *string
	if len(matches) > limit {
		last := matches[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			MatchID:      last.ID,
			ActivityUnix: last.LastActivityAt.UnixMilli(),
		})
		nextToken = &token
		matches = matches[:limit]
	}

	return matches, nextToken, nil
}

// CountActiveForUser returns how many active matches the user has.
// Used as the DB fallback behind the Redis counter.
func (r *MatchRepository) CountActiveForUser(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("(low_user_id = ? OR high_user_id = ?) AND status = ?", userID, userID, db.MatchActive).
		Count(&count).Error
	if err != nil {
		return 0, svcErr.Storage(err)
	}
	return count, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
