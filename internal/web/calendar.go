package web

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/nhle/smartcal/internal/calendar"
	"github.com/nhle/smartcal/internal/ics"
	"github.com/nhle/smartcal/internal/model"
)

// maxImportBytes caps uploaded calendars.
const maxImportBytes = 4 << 20

type dayResponse struct {
	Date      string           `json:"date"`
	Notes     []model.Note     `json:"notes"`
	Reminders []model.Reminder `json:"reminders"`
}

func (s *Server) getMonth(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, _ := strconv.Atoi(vars["year"])
	month, _ := strconv.Atoi(vars["month"])
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be 1-12")
		return
	}

	snap := s.store.Snapshot()
	m := calendar.BuildMonth(year, time.Month(month), s.weekStart, s.today(), snap.Notes, snap.Reminders)
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) getDay(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	if date == "today" {
		date = s.today()
	}
	if _, err := model.ParseDate(date, s.loc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := dayResponse{
		Date:      date,
		Notes:     s.store.NotesFor(date),
		Reminders: s.store.RemindersOn(date),
	}
	if resp.Notes == nil {
		resp.Notes = []model.Note{}
	}
	if resp.Reminders == nil {
		resp.Reminders = []model.Reminder{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) dateParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" || v == "today" {
		return model.ParseDate(s.today(), s.loc)
	}
	return model.ParseDate(v, s.loc)
}

func (s *Server) calcAdd(w http.ResponseWriter, r *http.Request) {
	from, err := s.dateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "days must be an integer")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"date": model.FormatDate(calendar.AddDays(from, days)),
	})
}

func (s *Server) calcBetween(w http.ResponseWriter, r *http.Request) {
	from, err := s.dateParam(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := s.dateParam(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"days": calendar.DaysBetween(from, to)})
}

func (s *Server) calcAge(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("birth") == "" {
		writeError(w, http.StatusBadRequest, "birth is required")
		return
	}
	birth, err := s.dateParam(r, "birth")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	on, err := s.dateParam(r, "on")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	age, err := calendar.AgeOn(birth, on)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, age)
}

func (s *Server) exportICS(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	body, err := ics.Export(snap.Notes, snap.Reminders, s.loc, s.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="smartcal.ics"`)
	_, _ = io.WriteString(w, body)
}

type importResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// importICS adds every event as a note. Events whose id already exists
// are skipped.
func (s *Server) importICS(w http.ResponseWriter, r *http.Request) {
	notes, err := ics.Import(http.MaxBytesReader(w, r.Body, maxImportBytes), s.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var resp importResponse
	for _, n := range notes {
		if _, err := s.store.Note(n.ID); err == nil {
			resp.Skipped++
			continue
		}
		if _, err := s.store.AddNote(r.Context(), n); err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", n.Title, err))
			continue
		}
		resp.Imported++
	}
	if resp.Imported > 0 {
		s.changed("import", "")
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}
