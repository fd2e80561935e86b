package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"notekeeper/internal/mailer"
	"notekeeper/internal/repository"
)

// ReminderService delivers due reminders and clears their armed state.
type ReminderService struct {
	noteRepo *repository.NoteRepository
	notifier mailer.Notifier
	lookback time.Duration
}

func NewReminderService(noteRepo *repository.NoteRepository, notifier mailer.Notifier, lookback time.Duration) *ReminderService {
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	return &ReminderService{noteRepo: noteRepo, notifier: notifier, lookback: lookback}
}

// Dispatch sends the reminder for the note and disarms it. A missing or
// disarmed note is a no-op: the reminder may have been cleared or the
// note deleted between scheduling and firing.
func (s *ReminderService) Dispatch(ctx context.Context, noteID string) error {
	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			log.Printf("reminder: note %s no longer exists, skipping", noteID)
			return nil
		}
		return fmt.Errorf("dispatch reminder: %w", err)
	}

	if !note.HasReminder || note.ReminderEmail == nil || *note.ReminderEmail == "" {
		log.Printf("reminder: note %s is not armed, skipping", noteID)
		return nil
	}

	to := *note.ReminderEmail
	if err := s.notifier.Send(to, "Reminder: "+note.Title, note.Content); err != nil {
		// Leave the reminder armed so it can be retriggered later.
		log.Printf("reminder: failed to send for note %s: %v", noteID, err)
		return fmt.Errorf("dispatch reminder: %w", err)
	}
	log.Printf("reminder: sent for note %s to %s", noteID, to)

	note.HasReminder = false
	note.ReminderDatetime = nil
	if err := s.noteRepo.Update(ctx, note); err != nil {
		return fmt.Errorf("clear reminder for note %s: %w", noteID, err)
	}
	return nil
}

// SweepMissed dispatches reminders that matured while the process was
// down, bounded by the lookback window. Older reminders are skipped
// forever. Runs once at startup, before traffic is accepted.
func (s *ReminderService) SweepMissed(ctx context.Context, now time.Time) error {
	notes, err := s.noteRepo.ListDueReminders(ctx, now, s.lookback)
	if err != nil {
		return fmt.Errorf("sweep missed reminders: %w", err)
	}
	if len(notes) == 0 {
		return nil
	}

	log.Printf("reminder: dispatching %d missed reminder(s)", len(notes))
	for _, note := range notes {
		if err := s.Dispatch(ctx, note.ID); err != nil {
			log.Printf("reminder: missed dispatch for note %s: %v", note.ID, err)
		}
	}
	return nil
}
