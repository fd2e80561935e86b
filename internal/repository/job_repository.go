package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"notekeeper/internal/model"
)

// JobRepository handles the durable one-shot timer table.
type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Schedule registers a timer for the key, replacing any existing row so
// the later call always wins.
func (r *JobRepository) Schedule(ctx context.Context, key, noteID string, dueAt time.Time) error {
	job := model.ReminderJob{
		Key:    key,
		NoteID: noteID,
		DueAt:  dueAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"note_id", "due_at", "updated_at"}),
	}).Create(&job).Error; err != nil {
		return fmt.Errorf("schedule job %s: %w", key, err)
	}
	return nil
}

// Cancel removes a timer if present; absence is not an error.
func (r *JobRepository) Cancel(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("key = ?", key).
		Delete(&model.ReminderJob{}).Error; err != nil {
		return fmt.Errorf("cancel job %s: %w", key, err)
	}
	return nil
}

// ClaimDue consumes all timers due at or before now. Claimed rows are
// deleted before being returned, so a timer fires at most once. Rows due
// before staleBefore are purged without being returned; they will never
// fire.
func (r *JobRepository) ClaimDue(ctx context.Context, now, staleBefore time.Time) ([]model.ReminderJob, error) {
	var due []model.ReminderJob
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("due_at <= ?", now).
			Order("due_at ASC").
			Find(&due).Error; err != nil {
			return err
		}
		if len(due) == 0 {
			return nil
		}
		ids := make([]uint, 0, len(due))
		for _, job := range due {
			ids = append(ids, job.ID)
		}
		return tx.Where("id IN ?", ids).Delete(&model.ReminderJob{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("claim due jobs: %w", err)
	}

	fresh := due[:0]
	for _, job := range due {
		if job.DueAt.After(staleBefore) {
			fresh = append(fresh, job)
		}
	}
	return fresh, nil
}
