package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sparkmeet/spark-backend/internal/db"
	svcErr "github.com/sparkmeet/spark-backend/internal/errors"
)

// Swipe event directions for analytics.
const (
	DirectionGiven    = "given"
	DirectionReceived = "received"
)

// Analytics periods.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

// ValidPeriod reports whether p is an accepted analytics period.
func ValidPeriod(p string) bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodAll:
		return true
	}
	return false
}

// Summary is the counters struct returned to callers. Always fully
// populated; a user with no rows gets all zeros, never a null.
type Summary struct {
	TotalSwipes        uint64 `json:"total_swipes"`
	LikesGiven         uint64 `json:"likes_given"`
	PassesGiven        uint64 `json:"passes_given"`
	SuperLikesGiven    uint64 `json:"super_likes_given"`
	LikesReceived      uint64 `json:"likes_received"`
	PassesReceived     uint64 `json:"passes_received"`
	SuperLikesReceived uint64 `json:"super_likes_received"`
	MatchesCreated     uint64 `json:"matches_created"`
}

// AnalyticsRepository maintains the per-user per-day counter rows.
// Counters are monotonic: undo never decrements them, so a day's totals
// read as an append-only activity log.
type AnalyticsRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAnalyticsRepository creates a new repository bound to the given DB
// connection.
func NewAnalyticsRepository(database *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: database, now: time.Now}
}

func (r *AnalyticsRepository) today() string {
	return r.now().UTC().Format("2006-01-02")
}

// BumpSwipe upserts today's row for userID, incrementing the counter
// matching (kind, direction). total_swipes tracks decisions the user
// made, so it only moves on the given side.
func (r *AnalyticsRepository) BumpSwipe(ctx context.Context, userID uint64, kind, direction string) error {
	row := db.DailyAnalytics{UserID: userID, Date: r.today()}
	updates := map[string]interface{}{}
	if direction == DirectionGiven {
		row.TotalSwipes = 1
		updates["total_swipes"] = gorm.Expr("total_swipes + 1")
	}

	var col string
	switch {
	case kind == db.KindLike && direction == DirectionGiven:
		row.LikesGiven = 1
		col = "likes_given"
	case kind == db.KindLike && direction == DirectionReceived:
		row.LikesReceived = 1
		col = "likes_received"
	case kind == db.KindPass && direction == DirectionGiven:
		row.PassesGiven = 1
		col = "passes_given"
	case kind == db.KindPass && direction == DirectionReceived:
		row.PassesReceived = 1
		col = "passes_received"
	case kind == db.KindSuperLike && direction == DirectionGiven:
		row.SuperLikesGiven = 1
		col = "super_likes_given"
	case kind == db.KindSuperLike && direction == DirectionReceived:
		row.SuperLikesReceived = 1
		col = "super_likes_received"
	default:
		return svcErr.Validation("unknown analytics event")
	}
	updates[col] = gorm.Expr(col + " + 1")

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(updates),
		}).
		Create(&row).Error
	if err != nil {
		return svcErr.Storage(err)
	}
	return nil
}

// BumpMatchCreated upserts today's row for userID, incrementing
// matches_created only. Match events do not count as swipes.
func (r *AnalyticsRepository) BumpMatchCreated(ctx context.Context, userID uint64) error {
	row := db.DailyAnalytics{UserID: userID, Date: r.today(), MatchesCreated: 1}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"matches_created": gorm.Expr("matches_created + 1"),
			}),
		}).
		Create(&row).Error
	if err != nil {
		return svcErr.Storage(err)
	}
	return nil
}

// Read sums the user's counters over the period. Periods are rolling
// windows ending today: day = today only, week = last 7 days,
// month = last 30 days, all = everything.
func (r *AnalyticsRepository) Read(ctx context.Context, userID uint64, period string) (Summary, error) {
	if !ValidPeriod(period) {
		return Summary{}, svcErr.Validation("period must be one of day, week, month, all")
	}

	query := r.db.WithContext(ctx).
		Model(&db.DailyAnalytics{}).
		Select(`
			COALESCE(SUM(total_swipes), 0)         AS total_swipes,
			COALESCE(SUM(likes_given), 0)          AS likes_given,
			COALESCE(SUM(passes_given), 0)         AS passes_given,
			COALESCE(SUM(super_likes_given), 0)    AS super_likes_given,
			COALESCE(SUM(likes_received), 0)       AS likes_received,
			COALESCE(SUM(passes_received), 0)      AS passes_received,
			COALESCE(SUM(super_likes_received), 0) AS super_likes_received,
			COALESCE(SUM(matches_created), 0)      AS matches_created`).
		Where("user_id = ?", userID)

	if since := r.since(period); since != "" {
		query = query.Where("date >= ?", since)
	}

	var s Summary
	if err := query.Scan(&s).Error; err != nil {
		return Summary{}, svcErr.Storage(err)
	}
	return s, nil
}

// since converts a period into its inclusive ISO start date; empty
// means unbounded. ISO dates compare correctly as strings.
func (r *AnalyticsRepository) since(period string) string {
	now := r.now().UTC()
	switch period {
	case PeriodDay:
		return now.Format("2006-01-02")
	case PeriodWeek:
		return now.AddDate(0, 0, -6).Format("2006-01-02")
	case PeriodMonth:
		return now.AddDate(0, 0, -29).Format("2006-01-02")
	default:
		return ""
	}
}
