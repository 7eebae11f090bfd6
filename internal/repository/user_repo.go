package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sparkmeet/spark-backend/internal/db"
	svcErr "github.com/sparkmeet/spark-backend/internal/errors"
)

// UserRepository is the engine's read-only view over users, preferences
// and interest tags. The engine never writes these tables; profile and
// onboarding flows own them.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB
// connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Get loads one user, or nil if absent.
func (r *UserRepository) Get(ctx context.Context, userID uint64) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, svcErr.Storage(err)
	}
	return &u, nil
}

// GetPreference loads a user's discovery preference, or nil if the user
// never completed onboarding.
func (r *UserRepository) GetPreference(ctx context.Context, userID uint64) (*db.Preference, error) {
	var p db.Preference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, svcErr.Storage(err)
	}
	return &p, nil
}

// Candidates returns the discovery pool for a viewer: active users
// matching the gender/age filters, excluding the viewer and everyone
// the viewer already has an active swipe on, most recently active
// first, bounded to limit.
func (r *UserRepository) Candidates(
	ctx context.Context,
	viewerID uint64,
	pref *db.Preference,
	limit int,
) ([]db.User, error) {
	var users []db.User

	query := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id <> ?", viewerID).
		Where("active = ?", true).
		Where("age BETWEEN ? AND ?", pref.AgeMin, pref.AgeMax).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s
				WHERE s.actor_id = ?
				  AND s.target_id = users.id
				  AND s.active = ?
			)`, viewerID, true).
		Order("last_active_at DESC").
		Limit(limit)

	if pref.GenderFilter != "" {
		query = query.Where("gender = ?", pref.GenderFilter)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, svcErr.Storage(err)
	}
	return users, nil
}

// InterestsByUser loads the tag sets for a batch of users, keyed by
// user id. Users without tags are simply absent from the map.
func (r *UserRepository) InterestsByUser(ctx context.Context, userIDs []uint64) (map[uint64][]string, error) {
	out := make(map[uint64][]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []db.UserInterest
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&rows).Error
	if err != nil {
		return nil, svcErr.Storage(err)
	}

	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.Tag)
	}
	return out, nil
}

// SuperLikersOf returns the set of users with an active super-like on
// target. The queue builder uses it to boost entry priority.
func (r *UserRepository) SuperLikersOf(ctx context.Context, targetID uint64) (map[uint64]struct{}, error) {
	var actorIDs []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("target_id = ? AND kind = ? AND active = ?", targetID, db.KindSuperLike, true).
		Pluck("actor_id", &actorIDs).Error
	if err != nil {
		return nil, svcErr.Storage(err)
	}

	out := make(map[uint64]struct{}, len(actorIDs))
	for _, id := range actorIDs {
		out[id] = struct{}{}
	}
	return out, nil
}
