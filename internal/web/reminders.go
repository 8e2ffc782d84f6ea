package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nhle/smartcal/internal/model"
)

type reminderRequest struct {
	Title               string         `json:"title" validate:"required,max=200"`
	Date                string         `json:"date" validate:"required,datetime=2006-01-02"`
	Time                string         `json:"time" validate:"required,datetime=15:04"`
	Priority            model.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	NotificationEnabled *bool          `json:"notificationEnabled"`
	SoundEnabled        *bool          `json:"soundEnabled"`
}

// reminder fills unset flags with def.
func (req reminderRequest) reminder(def model.Reminder) model.Reminder {
	r := def
	r.Title = req.Title
	r.Date = req.Date
	r.Time = req.Time
	r.Priority = req.Priority
	if req.NotificationEnabled != nil {
		r.NotificationEnabled = *req.NotificationEnabled
	}
	if req.SoundEnabled != nil {
		r.SoundEnabled = *req.SoundEnabled
	}
	return r
}

func (s *Server) listReminders(w http.ResponseWriter, r *http.Request) {
	var out []model.Reminder
	if date := r.URL.Query().Get("date"); date != "" {
		out = s.store.RemindersOn(date)
	} else {
		out = s.store.Snapshot().Reminders
	}
	if out == nil {
		out = []model.Reminder{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rem := req.reminder(model.Reminder{NotificationEnabled: true, SoundEnabled: true})
	snap, err := s.store.AddReminder(r.Context(), rem)
	if err != nil {
		s.logger.Warn("adding reminder failed", "error", err)
		writeStoreError(w, err)
		return
	}

	created := snap.Reminders[len(snap.Reminders)-1]
	s.changed("reminder", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getReminder(w http.ResponseWriter, r *http.Request) {
	rem, err := s.store.Reminder(mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

func (s *Server) updateReminder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	existing, err := s.store.Reminder(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req reminderRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.store.UpdateReminder(r.Context(), req.reminder(existing)); err != nil {
		s.logger.Warn("updating reminder failed", "reminder_id", id, "error", err)
		writeStoreError(w, err)
		return
	}

	updated, err := s.store.Reminder(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.changed("reminder", id)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteReminder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.store.DeleteReminder(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	s.changed("reminder", id)
	w.WriteHeader(http.StatusNoContent)
}
