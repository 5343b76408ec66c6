package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"edxnotes/internal/config"
	"edxnotes/internal/notes"
	"edxnotes/internal/page"
	"edxnotes/views/models"
	"edxnotes/views/pages"
)

type Handler struct {
	svc *notes.Service
	log *slog.Logger
	cfg config.NotesConfig
}

func NewHandler(svc *notes.Service, log *slog.Logger, cfg config.NotesConfig) *Handler {
	return &Handler{svc: svc, log: log, cfg: cfg}
}

// Register mounts the API and page routes on mux. When notes are disabled
// every route answers 404; course-scoped routes also answer 404 for
// courses without the notes tab.
func (h *Handler) Register(mux *http.ServeMux) {
	// REST API endpoints
	mux.HandleFunc("POST /api/notes", h.gate(h.CreateNote))
	mux.HandleFunc("GET /api/notes", h.gate(h.ListNotes))
	mux.HandleFunc("GET /api/notes/{id}", h.gate(h.GetNote))
	mux.HandleFunc("DELETE /api/notes/{id}", h.gate(h.DeleteNote))

	// HTML pages
	mux.HandleFunc("GET /courses/{course}/notes", h.gate(h.NotesPage))
	mux.HandleFunc("GET /fragments/notes", h.gate(h.NotesFragment))
}

func (h *Handler) gate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.cfg.Enabled {
			http.NotFound(w, r)
			return
		}
		next(w, r)
	}
}

// --- REST API Handlers ---

// CreateNote handles POST /api/notes
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var input notes.CreateNoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if input.CourseID != "" && !h.cfg.CourseEnabled(input.CourseID) {
		h.jsonError(w, "notes are not enabled for this course", http.StatusNotFound)
		return
	}

	note, err := h.svc.Create(r.Context(), input)
	if errors.Is(err, notes.ErrInvalidNote) {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.Error("failed to create note", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, note, http.StatusCreated)
}

// GetNote handles GET /api/notes/{id}
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, notes.ErrInvalidID) {
		h.jsonError(w, "invalid note ID", http.StatusBadRequest)
		return
	}
	if errors.Is(err, notes.ErrNoteNotFound) {
		h.jsonError(w, "note not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("failed to get note", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, note, http.StatusOK)
}

// ListNotes handles GET /api/notes
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("course_id")
	if courseID != "" && !h.cfg.CourseEnabled(courseID) {
		h.jsonError(w, "notes are not enabled for this course", http.StatusNotFound)
		return
	}

	coll, err := h.svc.List(r.Context(), h.listQuery(r, courseID))
	if err != nil {
		h.log.Error("failed to list notes", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	list := coll.Notes()
	if list == nil {
		list = []*notes.Note{}
	}
	h.jsonResponse(w, list, http.StatusOK)
}

// DeleteNote handles DELETE /api/notes/{id}
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, notes.ErrInvalidID) {
		h.jsonError(w, "invalid note ID", http.StatusBadRequest)
		return
	}
	if errors.Is(err, notes.ErrNoteNotFound) {
		h.jsonError(w, "note not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("failed to delete note", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- HTML Handlers ---

// NotesPage handles GET /courses/{course}/notes
func (h *Handler) NotesPage(w http.ResponseWriter, r *http.Request) {
	q := h.listQuery(r, r.PathValue("course"))
	if !h.courseAllowed(w, r, q.CourseID) {
		return
	}

	total, err := h.svc.Count(r.Context(), q)
	if err != nil {
		h.log.Error("failed to count notes", "course", q.CourseID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	list, ok := h.renderList(w, r, q)
	if !ok {
		return
	}
	defer list.Destroy()

	view := models.NotesPageView{
		CourseID:   q.CourseID,
		Count:      total,
		RefreshURL: fragmentURL(q),
	}
	if shown := q.Offset + len(list.Items()); int64(shown) < total {
		view.NextURL = pageURL(r, q, shown)
	}
	if endpoint, err := h.cfg.Endpoint(""); err == nil {
		view.Endpoint = endpoint
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.NotesPage(view, list.Component()).Render(r.Context(), w); err != nil {
		h.log.Error("failed to write notes page", "course", q.CourseID, "error", err)
	}
}

// NotesFragment handles GET /fragments/notes (HTMX partial)
func (h *Handler) NotesFragment(w http.ResponseWriter, r *http.Request) {
	q := h.listQuery(r, r.URL.Query().Get("course_id"))
	if !h.courseAllowed(w, r, q.CourseID) {
		return
	}

	list, ok := h.renderList(w, r, q)
	if !ok {
		return
	}
	defer list.Destroy()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := list.Component().Render(r.Context(), w); err != nil {
		h.log.Error("failed to write notes fragment", "course", q.CourseID, "error", err)
	}
}

func (h *Handler) courseAllowed(w http.ResponseWriter, r *http.Request, courseID string) bool {
	if courseID == "" {
		http.Error(w, "course_id required", http.StatusBadRequest)
		return false
	}
	if !h.cfg.CourseEnabled(courseID) {
		http.NotFound(w, r)
		return false
	}
	return true
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, q notes.ListQuery) (*page.ListView, bool) {
	coll, err := h.svc.List(r.Context(), q)
	if err != nil {
		h.log.Error("failed to list notes", "course", q.CourseID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}

	list, err := page.NewListView(page.NewRoot(), coll, page.ItemTemplate(h.svc.RenderMarkdown)).Render(r.Context())
	if err != nil {
		h.log.Error("failed to render notes", "course", q.CourseID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	return list, true
}

// --- Helper methods ---

func (h *Handler) listQuery(r *http.Request, courseID string) notes.ListQuery {
	return notes.ListQuery{
		CourseID: courseID,
		User:     r.URL.Query().Get("user"),
		Limit:    max(h.parseInt(r.URL.Query().Get("limit"), 0), 0),
		Offset:   max(h.parseInt(r.URL.Query().Get("offset"), 0), 0),
	}
}

// fragmentURL is the list fragment for the same page of notes.
func fragmentURL(q notes.ListQuery) string {
	v := url.Values{"course_id": {q.CourseID}}
	if q.User != "" {
		v.Set("user", q.User)
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return "/fragments/notes?" + v.Encode()
}

// pageURL is the current page moved to offset, keeping the other filters.
func pageURL(r *http.Request, q notes.ListQuery, offset int) string {
	v := url.Values{"offset": {strconv.Itoa(offset)}}
	if q.User != "" {
		v.Set("user", q.User)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return r.URL.EscapedPath() + "?" + v.Encode()
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (h *Handler) parseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
