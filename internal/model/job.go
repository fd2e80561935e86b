package model

import "time"

// ReminderJob is a persisted one-shot timer. The unique key keeps at
// most one pending timer per note; scheduling again replaces the row.
type ReminderJob struct {
	ID        uint      `gorm:"primaryKey"`
	Key       string    `gorm:"uniqueIndex"`
	NoteID    string    `gorm:"index"`
	DueAt     time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReminderJobKey derives the timer key for a note.
func ReminderJobKey(noteID string) string {
	return "reminder_" + noteID
}
