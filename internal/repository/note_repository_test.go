package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"notekeeper/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func strPtr(s string) *string { return &s }

func timePtr(tm time.Time) *time.Time { return &tm }

func TestNoteCreateAssignsIDAndTimestamps(t *testing.T) {
	repo := NewNoteRepository(newTestDB(t))
	ctx := context.Background()

	note := &model.Note{Title: "Pay rent", Content: "due today"}
	require.NoError(t, repo.Create(ctx, note))

	require.NotEmpty(t, note.ID)
	require.False(t, note.CreatedAt.IsZero())
	require.False(t, note.UpdatedAt.IsZero())

	got, err := repo.GetByID(ctx, note.ID)
	require.NoError(t, err)
	require.Equal(t, "Pay rent", got.Title)
	require.Equal(t, "due today", got.Content)
}

func TestNoteGetMissing(t *testing.T) {
	repo := NewNoteRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), "no-such-id")
	require.ErrorIs(t, err, ErrNoteNotFound)
}

func TestNoteUpdatePersistsAndRefreshesUpdatedAt(t *testing.T) {
	repo := NewNoteRepository(newTestDB(t))
	ctx := context.Background()

	note := &model.Note{Title: "a", Content: "b"}
	require.NoError(t, repo.Create(ctx, note))
	created := note.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	note.Title = "changed"
	note.HasReminder = false
	note.ReminderDatetime = nil
	require.NoError(t, repo.Update(ctx, note))

	got, err := repo.GetByID(ctx, note.ID)
	require.NoError(t, err)
	require.Equal(t, "changed", got.Title)
	require.Nil(t, got.ReminderDatetime)
	require.True(t, got.UpdatedAt.After(created))
}

func TestNoteUpdateMissing(t *testing.T) {
	repo := NewNoteRepository(newTestDB(t))

	err := repo.Update(context.Background(), &model.Note{ID: "ghost", Title: "x", Content: "y"})
	require.ErrorIs(t, err, ErrNoteNotFound)
}

func TestNoteDelete(t *testing.T) {
	repo := NewNoteRepository(newTestDB(t))
	ctx := context.Background()

	note := &model.Note{Title: "a", Content: "b"}
	require.NoError(t, repo.Create(ctx, note))

	require.NoError(t, repo.Delete(ctx, note.ID))

	_, err := repo.GetByID(ctx, note.ID)
	require.ErrorIs(t, err, ErrNoteNotFound)

	require.ErrorIs(t, repo.Delete(ctx, note.ID), ErrNoteNotFound)
}

func TestNoteListFilters(t *testing.T) {
	repo := NewNoteRepository(newTestDB(t))
	ctx := context.Background()

	active := &model.Note{Title: "active", Content: "c"}
	archived := &model.Note{Title: "archived", Content: "c", IsArchived: true}
	trashed := &model.Note{Title: "trashed", Content: "c", IsTrashed: true}
	armed := &model.Note{
		Title: "armed", Content: "c", HasReminder: true,
		ReminderDatetime: timePtr(time.Now().Add(time.Hour)),
		ReminderEmail:    strPtr("a@b.com"),
	}
	for _, n := range []*model.Note{active, archived, trashed, armed} {
		require.NoError(t, repo.Create(ctx, n))
	}

	f := false
	tr := true

	got, err := repo.List(ctx, NoteFilter{Archived: &f, Trashed: &f})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, n := range got {
		require.False(t, n.IsArchived)
		require.False(t, n.IsTrashed)
	}

	got, err = repo.List(ctx, NoteFilter{Archived: &tr, Trashed: &f})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "archived", got[0].Title)

	got, err = repo.List(ctx, NoteFilter{Trashed: &tr})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "trashed", got[0].Title)

	got, err = repo.List(ctx, NoteFilter{Archived: &f, Trashed: &f, HasReminder: &tr})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "armed", got[0].Title)
}

func TestListDueRemindersWindow(t *testing.T) {
	repo := NewNoteRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	recent := &model.Note{
		Title: "recent", Content: "c", HasReminder: true,
		ReminderDatetime: timePtr(now.Add(-2 * time.Hour)),
		ReminderEmail:    strPtr("a@b.com"),
	}
	stale := &model.Note{
		Title: "stale", Content: "c", HasReminder: true,
		ReminderDatetime: timePtr(now.Add(-30 * time.Hour)),
		ReminderEmail:    strPtr("a@b.com"),
	}
	future := &model.Note{
		Title: "future", Content: "c", HasReminder: true,
		ReminderDatetime: timePtr(now.Add(time.Hour)),
		ReminderEmail:    strPtr("a@b.com"),
	}
	disarmed := &model.Note{
		Title: "disarmed", Content: "c",
		ReminderDatetime: timePtr(now.Add(-2 * time.Hour)),
	}
	for _, n := range []*model.Note{recent, stale, future, disarmed} {
		require.NoError(t, repo.Create(ctx, n))
	}

	got, err := repo.ListDueReminders(ctx, now, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "recent", got[0].Title)
}
