package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/habitcontrol/internal/calendar"
	apperrors "github.com/julianstephens/habitcontrol/internal/errors"
	"github.com/julianstephens/habitcontrol/internal/logger"
	"github.com/julianstephens/habitcontrol/internal/models"
	"github.com/julianstephens/habitcontrol/internal/utils"
)

// habitRequest is the editable part of the habit wire record.
type habitRequest struct {
	Name        string            `json:"name"`
	Time        string            `json:"time"`
	RepeatType  models.RepeatType `json:"repeatType"`
	RepeatValue int               `json:"repeatValue"`
	RepeatDays  []int             `json:"repeatDays"`
	RepeatDates []int             `json:"repeatDates"`
}

func (req habitRequest) input() (models.HabitInput, error) {
	rec, err := models.NewRecurrence(req.RepeatType, req.RepeatDays, req.RepeatDates)
	if err != nil {
		return models.HabitInput{}, &apperrors.ValidationError{Field: "repeatType", Reason: err.Error()}
	}
	if req.RepeatValue == 0 {
		req.RepeatValue = 1
	}
	return models.HabitInput{
		Name:        req.Name,
		Time:        req.Time,
		Recurrence:  rec,
		RepeatValue: req.RepeatValue,
	}, nil
}

type completionRequest struct {
	Completed *bool `json:"completed"`
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("all") == "true" {
		writeJSON(w, http.StatusOK, s.store.Habits())
		return
	}

	date, err := utils.DateOrToday(r.URL.Query().Get("date"), s.store.Now())
	if err != nil {
		writeError(w, &apperrors.ValidationError{Field: "date", Reason: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.store.GetHabitsForDate(date))
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	habit, ok := s.store.Habit(id)
	if !ok {
		writeError(w, &apperrors.NotFoundError{Kind: "habit", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, err)
		return
	}

	habit, err := s.store.CreateHabit(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, err)
		return
	}

	habit := models.Habit{
		ID:          chi.URLParam(r, "id"),
		Name:        in.Name,
		Time:        in.Time,
		Recurrence:  in.Recurrence,
		RepeatValue: in.RepeatValue,
	}
	updated, err := s.store.UpdateHabit(r.Context(), habit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteHabit(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setCompletion(w http.ResponseWriter, r *http.Request) {
	date, err := utils.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, &apperrors.ValidationError{Field: "date", Reason: err.Error()})
		return
	}

	var req completionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Completed == nil {
		writeError(w, &apperrors.ValidationError{Field: "completed", Reason: "is required"})
		return
	}

	c, err := s.store.ToggleCompletion(r.Context(), chi.URLParam(r, "id"), date, *req.Completed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) habitStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Habit(id); !ok {
		writeError(w, &apperrors.NotFoundError{Kind: "habit", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, s.store.GetSummary(id))
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	start, err := utils.DateOrToday(r.URL.Query().Get("start"), s.store.Now())
	if err != nil {
		writeError(w, &apperrors.ValidationError{Field: "start", Reason: err.Error()})
		return
	}

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 || days > 366 {
			writeError(w, &apperrors.ValidationError{Field: "days", Reason: "must be between 1 and 366"})
			return
		}
	}

	type dayView struct {
		Date   string                   `json:"date"`
		Habits []models.HabitWithStatus `json:"habits"`
	}
	history := s.store.GetHistory(start, days)
	out := make([]dayView, 0, len(history))
	for _, d := range history {
		out = append(out, dayView{Date: utils.FormatDate(d.Date), Habits: d.Habits})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) calendarFeed(w http.ResponseWriter, r *http.Request) {
	now := s.store.Now()
	body := calendar.Export(s.store.Habits(), calendar.Options{From: now, Stamp: now})

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "inline; filename=habitcontrol.ics")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrAuthenticationRequired):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	}
	body := map[string]string{"error": err.Error()}
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) && ve.Field != "" {
		body["field"] = ve.Field
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
