package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aibek-dev/goaltrack/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CalendarHandler handles HTTP requests for the calendar views.
type CalendarHandler struct {
	Service *services.CalendarService
}

// NewCalendarHandler creates a new instance of CalendarHandler.
func NewCalendarHandler(service *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{Service: service}
}

// GetMonthHandler renders the month grid.
func (h *CalendarHandler) GetMonthHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		http.Error(w, "Invalid year", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		http.Error(w, "Invalid month", http.StatusBadRequest)
		return
	}

	var goalID *primitive.ObjectID
	if raw := r.URL.Query().Get("goal_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			http.Error(w, "Invalid goal_id", http.StatusBadRequest)
			return
		}
		goalID = &id
	}

	days, err := h.Service.MonthView(r.Context(), userID, year, month, goalID)
	if err != nil {
		respondError(w, err, "Failed to build month view")
		return
	}
	respondJSON(w, http.StatusOK, days)
}

// GetDayHandler lists the tasks of a single day.
func (h *CalendarHandler) GetDayHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	date, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), time.UTC)
	if err != nil {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}

	day, err := h.Service.DayDetails(r.Context(), userID, date)
	if err != nil {
		respondError(w, err, "Failed to build day view")
		return
	}
	respondJSON(w, http.StatusOK, day)
}

// GetTimelineHandler lists one bar per dated goal.
func (h *CalendarHandler) GetTimelineHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	entries, err := h.Service.Timeline(r.Context(), userID)
	if err != nil {
		respondError(w, err, "Failed to build timeline")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
