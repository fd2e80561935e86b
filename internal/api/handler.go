package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"notekeeper/internal/model"
	"notekeeper/internal/repository"
	"notekeeper/internal/service"
)

// Handler serves the notes HTTP surface.
type Handler struct {
	Notes *service.NoteService
}

func NewHandler(notes *service.NoteService) *Handler {
	return &Handler{Notes: notes}
}

type notePayload struct {
	Title            *string `json:"title"`
	Content          *string `json:"content"`
	IsPinned         *bool   `json:"is_pinned"`
	HasReminder      *bool   `json:"has_reminder"`
	ReminderDatetime *string `json:"reminder_datetime"`
	ReminderEmail    *string `json:"reminder_email"`
	// Accepted as an alias for reminder_email on update.
	Email      *string `json:"email"`
	IsArchived *bool   `json:"is_archived"`
	IsTrashed  *bool   `json:"is_trashed"`
}

// noteSummary is the trimmed shape used by the archive and trash lists.
type noteSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

type reminderSummary struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	ReminderDatetime *time.Time `json:"reminder_datetime"`
	ReminderEmail    *string    `json:"reminder_email"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (h *Handler) HandleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Notes.ListActive(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *Handler) HandleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req notePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == nil || *req.Title == "" || req.Content == nil || *req.Content == "" {
		writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}

	reminderAt, err := parseDatetime(req.ReminderDatetime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reminder_datetime: "+err.Error())
		return
	}

	input := service.NoteInput{
		Title:            *req.Title,
		Content:          *req.Content,
		ReminderDatetime: reminderAt,
		ReminderEmail:    req.ReminderEmail,
	}
	if req.IsPinned != nil {
		input.IsPinned = *req.IsPinned
	}
	if req.HasReminder != nil {
		input.HasReminder = *req.HasReminder
	}
	if req.IsArchived != nil {
		input.IsArchived = *req.IsArchived
	}
	if req.IsTrashed != nil {
		input.IsTrashed = *req.IsTrashed
	}

	note, err := h.Notes.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Note created successfully",
		"note":    note,
	})
}

func (h *Handler) HandleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.Notes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) HandleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req notePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reminderAt, err := parseDatetime(req.ReminderDatetime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reminder_datetime: "+err.Error())
		return
	}

	email := req.ReminderEmail
	if email == nil {
		email = req.Email
	}

	upd := service.NoteUpdate{
		Title:            req.Title,
		Content:          req.Content,
		IsPinned:         req.IsPinned,
		HasReminder:      req.HasReminder,
		ReminderDatetime: reminderAt,
		ReminderEmail:    email,
		IsArchived:       req.IsArchived,
		IsTrashed:        req.IsTrashed,
	}
	note, err := h.Notes.Update(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Note updated successfully",
		"note":    note,
	})
}

func (h *Handler) HandleTrashNote(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Notes.Trash(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Note moved to trash"})
}

func (h *Handler) HandleArchiveNote(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Notes.Archive(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Note archived successfully"})
}

func (h *Handler) HandleRestoreNote(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Notes.Restore(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Note restored successfully"})
}

func (h *Handler) HandlePermanentDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.Notes.HardDelete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Note permanently deleted"})
}

func (h *Handler) HandleListArchives(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Notes.ListArchived(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(notes))
}

func (h *Handler) HandleListTrash(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Notes.ListTrashed(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(notes))
}

func (h *Handler) HandleListReminders(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Notes.ListReminders(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]reminderSummary, 0, len(notes))
	for _, n := range notes {
		out = append(out, reminderSummary{
			ID:               n.ID,
			Title:            n.Title,
			Content:          n.Content,
			ReminderDatetime: n.ReminderDatetime,
			ReminderEmail:    n.ReminderEmail,
			UpdatedAt:        n.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func summarize(notes []model.Note) []noteSummary {
	out := make([]noteSummary, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteSummary{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			UpdatedAt: n.UpdatedAt,
		})
	}
	return out
}

// datetimeLayouts accepts RFC 3339 plus timezone-naive forms, which are
// treated as UTC.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseDatetime(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range datetimeLayouts {
		t, err := time.ParseInLocation(layout, *raw, time.UTC)
		if err == nil {
			utc := t.UTC()
			return &utc, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNoteNotFound) {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
