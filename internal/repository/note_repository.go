package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"notekeeper/internal/model"
)

// ErrNoteNotFound is returned when a note id has no matching record.
var ErrNoteNotFound = errors.New("note not found")

// NoteFilter narrows List results; nil fields are not applied.
type NoteFilter struct {
	Archived    *bool
	Trashed     *bool
	HasReminder *bool
}

// NoteRepository handles CRUD for notes.
type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create assigns an id if missing and persists the note.
func (r *NoteRepository) Create(ctx context.Context, note *model.Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*model.Note, error) {
	var note model.Note
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &note, nil
}

// List returns all notes matching the filter, most recently updated first.
func (r *NoteRepository) List(ctx context.Context, filter NoteFilter) ([]model.Note, error) {
	q := r.db.WithContext(ctx).Model(&model.Note{})
	if filter.Archived != nil {
		q = q.Where("is_archived = ?", *filter.Archived)
	}
	if filter.Trashed != nil {
		q = q.Where("is_trashed = ?", *filter.Trashed)
	}
	if filter.HasReminder != nil {
		q = q.Where("has_reminder = ?", *filter.HasReminder)
	}

	var notes []model.Note
	if err := q.Order("updated_at DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Update persists the full record and refreshes updated_at. Save would
// insert a missing row, so existence is checked first.
func (r *NoteRepository) Update(ctx context.Context, note *model.Note) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Note{}).Where("id = ?", note.ID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if count == 0 {
		return ErrNoteNotFound
	}
	if err := r.db.WithContext(ctx).Save(note).Error; err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

// ListDueReminders returns armed notes whose reminder matured within the
// lookback window ending at now, ordered by due time.
func (r *NoteRepository) ListDueReminders(ctx context.Context, now time.Time, lookback time.Duration) ([]model.Note, error) {
	var notes []model.Note
	if err := r.db.WithContext(ctx).
		Where("has_reminder = ? AND reminder_datetime <= ? AND reminder_datetime > ?",
			true, now, now.Add(-lookback)).
		Order("reminder_datetime ASC").
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	return notes, nil
}

// Delete removes a note permanently.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Note{})
	if res.Error != nil {
		return fmt.Errorf("delete note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}
