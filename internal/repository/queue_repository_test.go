package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkmeet/spark-backend/internal/db"
	"github.com/sparkmeet/spark-backend/internal/repository"
)

func TestQueueReplaceSemantics(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewQueueRepository(dbase)

	first := []db.QueueEntry{
		{ViewerID: 1, CandidateID: 10, Score: 0.9},
		{ViewerID: 1, CandidateID: 11, Score: 0.5},
	}
	require.NoError(t, repo.Insert(ctx, first))

	// another viewer's queue must survive viewer 1's rebuild
	other := []db.QueueEntry{{ViewerID: 2, CandidateID: 10, Score: 0.7}}
	require.NoError(t, repo.Insert(ctx, other))

	require.NoError(t, repo.Clear(ctx, 1))
	second := []db.QueueEntry{{ViewerID: 1, CandidateID: 12, Score: 0.8}}
	require.NoError(t, repo.Insert(ctx, second))

	mine, err := repo.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, uint64(12), mine[0].CandidateID)

	theirs, err := repo.List(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
}

func TestQueueListOrdering(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewQueueRepository(setupTestDB(t))

	entries := []db.QueueEntry{
		{ViewerID: 1, CandidateID: 30, Score: 0.5},
		{ViewerID: 1, CandidateID: 10, Score: 0.9},
		{ViewerID: 1, CandidateID: 21, Score: 0.7},
		{ViewerID: 1, CandidateID: 20, Score: 0.7},
	}
	require.NoError(t, repo.Insert(ctx, entries))

	got, err := repo.List(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, uint64(10), got[0].CandidateID)
	// equal scores tie-break by candidate id for stable ordering
	assert.Equal(t, uint64(20), got[1].CandidateID)
	assert.Equal(t, uint64(21), got[2].CandidateID)
}

func TestCandidatesAppliesFiltersAndExclusions(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	users := repository.NewUserRepository(dbase)
	swipes := repository.NewSwipeRepository(dbase)

	now := time.Now().UTC()
	seed := []db.User{
		{ID: 1, Username: "viewer", Email: "v@t.io", PasswordHash: "x", Gender: "male", Age: 30, Active: true, LastActiveAt: now},
		{ID: 2, Username: "fit", Email: "a@t.io", PasswordHash: "x", Gender: "female", Age: 28, Active: true, LastActiveAt: now},
		{ID: 3, Username: "tooold", Email: "b@t.io", PasswordHash: "x", Gender: "female", Age: 52, Active: true, LastActiveAt: now},
		{ID: 4, Username: "swiped", Email: "c@t.io", PasswordHash: "x", Gender: "female", Age: 29, Active: true, LastActiveAt: now},
		{ID: 5, Username: "wronggender", Email: "d@t.io", PasswordHash: "x", Gender: "male", Age: 29, Active: true, LastActiveAt: now},
		{ID: 6, Username: "inactive", Email: "e@t.io", PasswordHash: "x", Gender: "female", Age: 29, Active: false, LastActiveAt: now},
		{ID: 7, Username: "undone", Email: "f@t.io", PasswordHash: "x", Gender: "female", Age: 31, Active: true, LastActiveAt: now.Add(-time.Hour)},
	}
	require.NoError(t, dbase.Create(&seed).Error)

	_, err := swipes.Record(ctx, 1, 4, db.KindPass, "")
	require.NoError(t, err)

	// an undone swipe no longer excludes its target
	_, err = swipes.Record(ctx, 1, 7, db.KindLike, "")
	require.NoError(t, err)
	_, err = swipes.UndoLast(ctx, 1)
	require.NoError(t, err)

	pref := &db.Preference{UserID: 1, GenderFilter: "female", AgeMin: 25, AgeMax: 35, MaxDistanceKm: 50}
	got, err := users.Candidates(ctx, 1, pref, 10)
	require.NoError(t, err)

	ids := make([]uint64, 0, len(got))
	for _, u := range got {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []uint64{2, 7}, ids)
	// most recently active first
	assert.Equal(t, uint64(2), got[0].ID)
}

func TestInterestsByUser(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	users := repository.NewUserRepository(dbase)

	rows := []db.UserInterest{
		{UserID: 1, Tag: "jazz"},
		{UserID: 1, Tag: "hiking"},
		{UserID: 2, Tag: "wine"},
	}
	require.NoError(t, dbase.Create(&rows).Error)

	got, err := users.InterestsByUser(ctx, []uint64{1, 2, 3})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"jazz", "hiking"}, got[1])
	assert.ElementsMatch(t, []string{"wine"}, got[2])
	_, has := got[3]
	assert.False(t, has)

	empty, err := users.InterestsByUser(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
