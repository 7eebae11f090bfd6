package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sparkmeet/spark-backend/internal/db"
	svcErr "github.com/sparkmeet/spark-backend/internal/errors"
)

// QueueRepository persists precomputed discovery queues. A viewer's
// queue is always replaced wholesale, never patched.
type QueueRepository struct {
	db *gorm.DB
}

// NewQueueRepository creates a new repository bound to the given DB
// connection.
func NewQueueRepository(database *gorm.DB) *QueueRepository {
	return &QueueRepository{db: database}
}

// Clear deletes every queue entry for the viewer.
func (r *QueueRepository) Clear(ctx context.Context, viewerID uint64) error {
	err := r.db.WithContext(ctx).
		Where("viewer_id = ?", viewerID).
		Delete(&db.QueueEntry{}).Error
	if err != nil {
		return svcErr.Storage(err)
	}
	return nil
}

// Insert writes a batch of freshly computed entries.
func (r *QueueRepository) Insert(ctx context.Context, entries []db.QueueEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&entries).Error; err != nil {
		return svcErr.Storage(err)
	}
	return nil
}

// List returns the viewer's queue ordered by score descending, ties
// broken by candidate id so paging is stable.
func (r *QueueRepository) List(ctx context.Context, viewerID uint64, limit int) ([]db.QueueEntry, error) {
	var entries []db.QueueEntry
	err := r.db.WithContext(ctx).
		Where("viewer_id = ?", viewerID).
		Order("score DESC, candidate_id ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, svcErr.Storage(err)
	}
	return entries, nil
}
