package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aibek-dev/goaltrack/internal/services"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// GoalHandler handles HTTP requests related to goals.
type GoalHandler struct {
	Service *services.GoalService
}

// NewGoalHandler creates a new instance of GoalHandler.
func NewGoalHandler(service *services.GoalService) *GoalHandler {
	return &GoalHandler{Service: service}
}

// CreateGoalHandler handles the creation of a new goal with its initial
// milestones.
func (h *GoalHandler) CreateGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input services.GoalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during goal creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	goal, err := h.Service.CreateGoal(r.Context(), userID, input)
	if err != nil {
		respondError(w, err, "Failed to create goal")
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID": userID.Hex(),
		"goalID": goal.ID.Hex(),
	}).Info("Goal successfully created")
	respondJSON(w, http.StatusCreated, goal)
}

// GetGoalsHandler lists the user's goals with derived progress.
func (h *GoalHandler) GetGoalsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	includeArchived := r.URL.Query().Get("include_archived") == "true"
	views, err := h.Service.ListGoals(r.Context(), userID, includeArchived)
	if err != nil {
		respondError(w, err, "Failed to fetch goals")
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// GetGoalHandler fetches a single goal with its progress breakdown.
func (h *GoalHandler) GetGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	goalID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	view, err := h.Service.GetGoalView(r.Context(), goalID, userID)
	if err != nil {
		respondError(w, err, "Failed to fetch goal")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// UpdateGoalHandler applies a partial update to a goal.
func (h *GoalHandler) UpdateGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	goalID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var input services.GoalUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	goal, err := h.Service.UpdateGoal(r.Context(), goalID, userID, input)
	if err != nil {
		respondError(w, err, "Failed to update goal")
		return
	}
	respondJSON(w, http.StatusOK, goal)
}

// ArchiveGoalHandler soft-deletes a goal.
func (h *GoalHandler) ArchiveGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	goalID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := h.Service.ArchiveGoal(r.Context(), goalID, userID); err != nil {
		respondError(w, err, "Failed to archive goal")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Goal archived"})
}

// RestoreGoalHandler reverses an archive.
func (h *GoalHandler) RestoreGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	goalID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	goal, err := h.Service.RestoreGoal(r.Context(), goalID, userID)
	if err != nil {
		respondError(w, err, "Failed to restore goal")
		return
	}
	respondJSON(w, http.StatusOK, goal)
}

// GetGoalProgressHandler returns the full per-milestone, per-action
// progress report of a goal, archived milestones included.
func (h *GoalHandler) GetGoalProgressHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	goalID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	report, err := h.Service.GetProgressReport(r.Context(), goalID, userID)
	if err != nil {
		respondError(w, err, "Failed to compute goal progress")
		return
	}
	respondJSON(w, http.StatusOK, report)
}
