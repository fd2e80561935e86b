package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"notekeeper/internal/model"
	"notekeeper/internal/repository"
)

// ReminderScheduler is the timer table the note service keeps in sync
// with stored reminder state.
type ReminderScheduler interface {
	Schedule(ctx context.Context, noteID string, dueAt time.Time) error
	Cancel(ctx context.Context, noteID string) error
}

// NoteInput represents data required to create a note.
type NoteInput struct {
	Title            string
	Content          string
	IsPinned         bool
	HasReminder      bool
	ReminderDatetime *time.Time
	ReminderEmail    *string
	IsArchived       bool
	IsTrashed        bool
}

// NoteUpdate carries a partial update; nil fields are left unchanged.
type NoteUpdate struct {
	Title            *string
	Content          *string
	IsPinned         *bool
	HasReminder      *bool
	ReminderDatetime *time.Time
	ReminderEmail    *string
	IsArchived       *bool
	IsTrashed        *bool
}

// NoteService wraps note lifecycle logic and keeps scheduled timers
// consistent with stored reminder state.
type NoteService struct {
	noteRepo  *repository.NoteRepository
	scheduler ReminderScheduler
}

func NewNoteService(noteRepo *repository.NoteRepository, scheduler ReminderScheduler) *NoteService {
	return &NoteService{noteRepo: noteRepo, scheduler: scheduler}
}

func (s *NoteService) Create(ctx context.Context, input NoteInput) (*model.Note, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if input.Content == "" {
		return nil, fmt.Errorf("content is required")
	}

	note := model.Note{
		Title:            input.Title,
		Content:          input.Content,
		IsPinned:         input.IsPinned,
		HasReminder:      input.HasReminder,
		ReminderDatetime: input.ReminderDatetime,
		ReminderEmail:    input.ReminderEmail,
		IsArchived:       input.IsArchived,
		IsTrashed:        input.IsTrashed,
	}
	if err := s.noteRepo.Create(ctx, &note); err != nil {
		return nil, err
	}

	s.syncTimer(ctx, &note)
	return &note, nil
}

func (s *NoteService) Get(ctx context.Context, id string) (*model.Note, error) {
	return s.noteRepo.GetByID(ctx, id)
}

// ListActive returns notes that are neither archived nor trashed.
func (s *NoteService) ListActive(ctx context.Context) ([]model.Note, error) {
	return s.noteRepo.List(ctx, repository.NoteFilter{
		Archived: boolPtr(false),
		Trashed:  boolPtr(false),
	})
}

func (s *NoteService) ListArchived(ctx context.Context) ([]model.Note, error) {
	return s.noteRepo.List(ctx, repository.NoteFilter{
		Archived: boolPtr(true),
		Trashed:  boolPtr(false),
	})
}

func (s *NoteService) ListTrashed(ctx context.Context) ([]model.Note, error) {
	return s.noteRepo.List(ctx, repository.NoteFilter{
		Trashed: boolPtr(true),
	})
}

// ListReminders returns active notes with an armed reminder.
func (s *NoteService) ListReminders(ctx context.Context) ([]model.Note, error) {
	return s.noteRepo.List(ctx, repository.NoteFilter{
		Archived:    boolPtr(false),
		Trashed:     boolPtr(false),
		HasReminder: boolPtr(true),
	})
}

// Update applies the fields present in upd and leaves others unchanged.
// Archived and trashed are kept mutually exclusive: setting one clears
// the other along with the pin.
func (s *NoteService) Update(ctx context.Context, id string, upd NoteUpdate) (*model.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		note.Title = *upd.Title
	}
	if upd.Content != nil {
		note.Content = *upd.Content
	}
	if upd.IsPinned != nil {
		note.IsPinned = *upd.IsPinned
	}
	if upd.HasReminder != nil {
		note.HasReminder = *upd.HasReminder
	}
	if upd.ReminderDatetime != nil {
		note.ReminderDatetime = upd.ReminderDatetime
	}
	if upd.ReminderEmail != nil {
		note.ReminderEmail = upd.ReminderEmail
	}
	if upd.IsArchived != nil {
		note.IsArchived = *upd.IsArchived
	}
	if upd.IsTrashed != nil {
		note.IsTrashed = *upd.IsTrashed
	}

	if upd.IsTrashed != nil && *upd.IsTrashed {
		note.IsArchived = false
		note.IsPinned = false
	} else if upd.IsArchived != nil && *upd.IsArchived {
		note.IsTrashed = false
		note.IsPinned = false
	}

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}

	s.syncTimer(ctx, note)
	return note, nil
}

// Trash soft-deletes the note; it stays recoverable via Restore.
func (s *NoteService) Trash(ctx context.Context, id string) (*model.Note, error) {
	return s.transition(ctx, id, func(note *model.Note) {
		note.IsArchived = false
		note.IsPinned = false
		note.IsTrashed = true
	})
}

func (s *NoteService) Archive(ctx context.Context, id string) (*model.Note, error) {
	return s.transition(ctx, id, func(note *model.Note) {
		note.IsPinned = false
		note.IsTrashed = false
		note.IsArchived = true
	})
}

// Restore clears both the trashed and archived flags.
func (s *NoteService) Restore(ctx context.Context, id string) (*model.Note, error) {
	return s.transition(ctx, id, func(note *model.Note) {
		note.IsTrashed = false
		note.IsArchived = false
	})
}

// HardDelete removes the note permanently and cancels its timer.
func (s *NoteService) HardDelete(ctx context.Context, id string) error {
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.scheduler.Cancel(ctx, id); err != nil {
		log.Printf("note: cancel timer for deleted note %s: %v", id, err)
	}
	return nil
}

func (s *NoteService) transition(ctx context.Context, id string, mutate func(*model.Note)) (*model.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(note)
	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// syncTimer keeps the scheduled timer consistent with the stored note:
// an armed reminder gets a (superseding) timer, a disarmed one loses it.
func (s *NoteService) syncTimer(ctx context.Context, note *model.Note) {
	if note.ReminderArmed() {
		if err := s.scheduler.Schedule(ctx, note.ID, *note.ReminderDatetime); err != nil {
			log.Printf("note: schedule reminder for note %s: %v", note.ID, err)
		}
		return
	}
	if err := s.scheduler.Cancel(ctx, note.ID); err != nil {
		log.Printf("note: cancel reminder for note %s: %v", note.ID, err)
	}
}

func boolPtr(v bool) *bool {
	return &v
}
