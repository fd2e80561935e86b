package model

import "time"

// Note is a single piece of text with lifecycle flags and an optional
// one-shot email reminder.
type Note struct {
	ID               string     `gorm:"primaryKey" json:"id"`
	Title            string     `gorm:"not null" json:"title"`
	Content          string     `gorm:"not null" json:"content"`
	IsPinned         bool       `gorm:"default:false" json:"is_pinned"`
	HasReminder      bool       `gorm:"default:false" json:"has_reminder"`
	ReminderDatetime *time.Time `json:"reminder_datetime"`
	ReminderEmail    *string    `json:"reminder_email"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	IsArchived       bool       `gorm:"default:false" json:"is_archived"`
	IsTrashed        bool       `gorm:"default:false" json:"is_trashed"`
}

// ReminderArmed reports whether the note has a reminder ready to be
// scheduled and delivered.
func (n *Note) ReminderArmed() bool {
	return n.HasReminder && n.ReminderDatetime != nil &&
		n.ReminderEmail != nil && *n.ReminderEmail != ""
}
