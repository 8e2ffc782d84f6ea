package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nhle/smartcal/internal/model"
	"github.com/nhle/smartcal/internal/store"
)

type noteRequest struct {
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Title           string `json:"title" validate:"required,max=200"`
	Content         string `json:"content" validate:"max=10000"`
	Emoji           string `json:"emoji"`
	Color           string `json:"color" validate:"omitempty,oneof=red green blue yellow purple"`
	Category        string `json:"category" validate:"omitempty,oneof=general work personal health finance education entertainment"`
	ReminderEnabled bool   `json:"reminderEnabled"`
	ReminderTime    string `json:"reminderTime" validate:"required_if=ReminderEnabled true,omitempty,datetime=15:04"`
	Featured        *bool  `json:"featured"`
}

func (req noteRequest) note() model.Note {
	n := model.Note{
		Date:            req.Date,
		Title:           req.Title,
		Content:         req.Content,
		Emoji:           req.Emoji,
		Color:           req.Color,
		Category:        req.Category,
		ReminderEnabled: req.ReminderEnabled,
		ReminderTime:    req.ReminderTime,
	}
	if n.Emoji == "" {
		n.Emoji = model.DefaultEmoji
	}
	if n.Category == "" {
		n.Category = model.DefaultCategory
	}
	if req.Featured != nil {
		n.Featured = *req.Featured
	}
	return n
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.NoteFilter{
		Query:    q.Get("q"),
		Emoji:    q.Get("emoji"),
		Category: q.Get("category"),
		Date:     q.Get("date"),
		From:     q.Get("from"),
		To:       q.Get("to"),
	}
	f.RemindersOnly, _ = strconv.ParseBool(q.Get("reminders"))
	f.FeaturedOnly, _ = strconv.ParseBool(q.Get("featured"))

	notes := s.store.Notes(f)
	if notes == nil {
		notes = []model.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.store.AddNote(r.Context(), req.note())
	if err != nil {
		s.logger.Warn("adding note failed", "error", err)
		writeStoreError(w, err)
		return
	}

	created := snap.Notes[len(snap.Notes)-1]
	s.changed("note", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Note(mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	existing, err := s.store.Note(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req noteRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n := req.note()
	n.ID = id
	if req.Featured == nil {
		n.Featured = existing.Featured
	}

	if _, err := s.store.UpdateNote(r.Context(), n); err != nil {
		s.logger.Warn("updating note failed", "note_id", id, "error", err)
		writeStoreError(w, err)
		return
	}

	updated, err := s.store.Note(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.changed("note", id)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.store.DeleteNote(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	s.changed("note", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleFeatured(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.store.ToggleFeatured(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	n, err := s.store.Note(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.changed("note", id)
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) listFeatured(w http.ResponseWriter, _ *http.Request) {
	notes := s.store.FeaturedNotes()
	if notes == nil {
		notes = []model.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}
