package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/progress"
	"github.com/julianstephens/habitlit/internal/validation"
)

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("include_inactive"))
	list, err := s.habits.List(r.Context(), ownerFrom(r), includeInactive)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var in validation.HabitInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	habit, err := s.habits.Create(r.Context(), ownerFrom(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

// habitDetail is a habit with its recent entries, newest first
type habitDetail struct {
	models.Habit
	Entries []models.HabitEntry `json:"entries"`
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	habit, err := s.habits.Get(r.Context(), r.PathValue("id"), ownerFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := s.habits.Recent(r.Context(), habit.ID, habit.OwnerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habitDetail{Habit: habit, Entries: entries})
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	var in validation.HabitInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	habit, err := s.habits.Update(r.Context(), r.PathValue("id"), ownerFrom(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.habits.Deactivate(r.Context(), r.PathValue("id"), ownerFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "habit deactivated"})
}

func (s *Server) restoreHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.habits.Restore(r.Context(), r.PathValue("id"), ownerFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "habit restored"})
}

type logEntryRequest struct {
	Date  string `json:"entry_date"`
	Count *int   `json:"completed_count"`
	Notes string `json:"notes"`
}

func (s *Server) logEntry(w http.ResponseWriter, r *http.Request) {
	var req logEntryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	count := 1
	if req.Count != nil {
		count = *req.Count
	}

	entry, err := s.engine.LogEntry(r.Context(), progress.LogEntryInput{
		HabitID: r.PathValue("id"),
		OwnerID: ownerFrom(r),
		Date:    req.Date,
		Count:   count,
		Notes:   req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := s.habits.History(r.Context(), r.PathValue("id"), ownerFrom(r), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) getStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := s.engine.GetStreak(r.Context(), r.PathValue("id"), ownerFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, streak)
}

// getAnalytics takes habit ids as repeated or comma-separated ?habit= values.
// With none given it covers every active habit of the caller.
func (s *Server) getAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period := constants.Period(q.Get("period"))

	var ids []string
	for _, v := range q["habit"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	if len(ids) == 0 {
		list, err := s.habits.List(r.Context(), ownerFrom(r), false)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, h := range list {
			ids = append(ids, h.ID)
		}
	}

	analytics, err := s.engine.GetAnalytics(r.Context(), ownerFrom(r), ids, period)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}
