package db

import (
	"time"
)

// Swipe kinds.
const (
	KindLike      = "like"
	KindPass      = "pass"
	KindSuperLike = "super_like"
)

// ValidKind reports whether k is one of the allowed swipe kinds.
func ValidKind(k string) bool {
	switch k {
	case KindLike, KindPass, KindSuperLike:
		return true
	}
	return false
}

// LikeKind reports whether k counts toward match reciprocity.
func LikeKind(k string) bool {
	return k == KindLike || k == KindSuperLike
}

// Match statuses.
const (
	MatchActive    = "active"
	MatchUnmatched = "unmatched"
	MatchBlocked   = "blocked"
)

// User table. Carries the feature fields the scorer and queue builder
// read: gender, age, coordinates and recency.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"default:true"`
	Gender       string `gorm:"size:16;not null;index:idx_gender_age,priority:1"`
	Age          int    `gorm:"not null;index:idx_gender_age,priority:2"`
	Lat          *float64
	Lon          *float64
	LastActiveAt time.Time `gorm:"index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Preference holds a user's discovery filters. One row per user;
// absence means the user has not completed onboarding and gets no queue.
type Preference struct {
	UserID        uint64  `gorm:"primaryKey"`
	GenderFilter  string  `gorm:"size:16"` // empty = any
	AgeMin        int     `gorm:"not null"`
	AgeMax        int     `gorm:"not null"`
	MaxDistanceKm float64 `gorm:"not null;default:50"`
	UpdatedAt     time.Time
}

// UserInterest is one tag on a user's profile.
type UserInterest struct {
	UserID uint64 `gorm:"primaryKey"`
	Tag    string `gorm:"primaryKey;size:64"`
}

// Swipe is one decision by an actor about a target.
//
// Active is a nullable flag: true while the decision stands, NULL once
// undone. NULL rows never collide inside idx_swipe_actor_target_active,
// so the unique index enforces "at most one active swipe per pair"
// while keeping the full undo history for audit and analytics.
//
// Indexes:
//   - idx_swipe_actor_target_active(actor_id, target_id, active) UNIQUE
//     The idempotency guard; the race loser's insert fails here.
//   - idx_swipe_actor_active_created(actor_id, active, created_at DESC)
//     Optimizes "most recent active swipe by actor" for undo.
type Swipe struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ActorID   uint64    `gorm:"not null;uniqueIndex:idx_swipe_actor_target_active,priority:1;index:idx_swipe_actor_active_created,priority:1"`
	TargetID  uint64    `gorm:"not null;uniqueIndex:idx_swipe_actor_target_active,priority:2;index"`
	Kind      string    `gorm:"size:16;not null"`
	Active    *bool     `gorm:"uniqueIndex:idx_swipe_actor_target_active,priority:3;index:idx_swipe_actor_active_created,priority:2"`
	SourceIP  string    `gorm:"size:45"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_swipe_actor_active_created,priority:3,sort:desc"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// IsActive reports whether the swipe still stands.
func (s *Swipe) IsActive() bool { return s.Active != nil && *s.Active }

// Match is mutual interest between two users, keyed by the canonical
// (low, high) ordering. The unique pair index is what makes match
// creation safe under concurrent reciprocal likes.
type Match struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	LowUserID      uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:1;index:idx_match_low_status,priority:1"`
	HighUserID     uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:2;index:idx_match_high_status,priority:1"`
	Status         string    `gorm:"size:16;not null;default:active;index:idx_match_low_status,priority:2;index:idx_match_high_status,priority:2"`
	MatchedAt      time.Time `gorm:"not null"`
	LastActivityAt time.Time `gorm:"not null"`
}

// QueueEntry is a precomputed discovery candidate for a viewer.
// The full set for a viewer is bulk-replaced on rebuild.
type QueueEntry struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement"`
	ViewerID    uint64  `gorm:"not null;uniqueIndex:idx_queue_viewer_candidate,priority:1;index:idx_queue_viewer_score,priority:1"`
	CandidateID uint64  `gorm:"not null;uniqueIndex:idx_queue_viewer_candidate,priority:2"`
	Score       float64 `gorm:"not null;index:idx_queue_viewer_score,priority:2,sort:desc"`
	Priority    int     `gorm:"not null;default:0"`
	LastShownAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// DailyAnalytics is the per-user per-day activity counter row.
// Counters only ever go up; undo does not reverse them.
type DailyAnalytics struct {
	ID                 uint64 `gorm:"primaryKey;autoIncrement"`
	UserID             uint64 `gorm:"not null;uniqueIndex:idx_analytics_user_date,priority:1"`
	Date               string `gorm:"size:10;not null;uniqueIndex:idx_analytics_user_date,priority:2"` // YYYY-MM-DD
	TotalSwipes        uint64 `gorm:"not null;default:0"`
	LikesGiven         uint64 `gorm:"not null;default:0"`
	PassesGiven        uint64 `gorm:"not null;default:0"`
	SuperLikesGiven    uint64 `gorm:"not null;default:0"`
	LikesReceived      uint64 `gorm:"not null;default:0"`
	PassesReceived     uint64 `gorm:"not null;default:0"`
	SuperLikesReceived uint64 `gorm:"not null;default:0"`
	MatchesCreated     uint64 `gorm:"not null;default:0"`
}
