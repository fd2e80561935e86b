package api

import (
	"net/http"

	"github.com/rs/cors"
)

// NewRouter builds the HTTP routing table and wraps it with permissive
// CORS for browser clients.
func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /notes", h.HandleListNotes)
	mux.HandleFunc("POST /notes", h.HandleCreateNote)
	mux.HandleFunc("GET /notes/{id}", h.HandleGetNote)
	mux.HandleFunc("PUT /notes/{id}", h.HandleUpdateNote)
	mux.HandleFunc("DELETE /notes/{id}", h.HandleTrashNote)
	mux.HandleFunc("PUT /notes/{id}/archive", h.HandleArchiveNote)
	mux.HandleFunc("PUT /notes/{id}/restore", h.HandleRestoreNote)
	mux.HandleFunc("DELETE /notes/{id}/permanent-delete", h.HandlePermanentDeleteNote)
	mux.HandleFunc("GET /archives", h.HandleListArchives)
	mux.HandleFunc("GET /trash", h.HandleListTrash)
	mux.HandleFunc("GET /reminders", h.HandleListReminders)

	return cors.AllowAll().Handler(mux)
}
