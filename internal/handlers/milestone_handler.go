package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aibek-dev/goaltrack/internal/progress"
	"github.com/aibek-dev/goaltrack/internal/services"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// MilestoneHandler handles HTTP requests related to milestones.
type MilestoneHandler struct {
	Service *services.MilestoneService
	Goals   *services.GoalService
}

// NewMilestoneHandler creates a new instance of MilestoneHandler.
func NewMilestoneHandler(service *services.MilestoneService, goals *services.GoalService) *MilestoneHandler {
	return &MilestoneHandler{Service: service, Goals: goals}
}

// CreateMilestoneHandler adds a milestone to a goal.
func (h *MilestoneHandler) CreateMilestoneHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	goalID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var input services.MilestoneInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during milestone creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if _, err := h.Goals.GetOwnedGoal(r.Context(), goalID, userID); err != nil {
		respondError(w, err, "Failed to fetch goal")
		return
	}

	ms, err := h.Service.CreateMilestone(r.Context(), goalID, input)
	if err != nil {
		respondError(w, err, "Failed to create milestone")
		return
	}
	respondJSON(w, http.StatusCreated, ms)
}

// GetMilestonesHandler lists a goal's milestones with derived progress.
func (h *MilestoneHandler) GetMilestonesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	goalID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if _, err := h.Goals.GetOwnedGoal(r.Context(), goalID, userID); err != nil {
		respondError(w, err, "Failed to fetch goal")
		return
	}

	includeArchived := r.URL.Query().Get("include_archived") == "true"
	views, err := h.Service.ListMilestones(r.Context(), goalID, includeArchived)
	if err != nil {
		respondError(w, err, "Failed to fetch milestones")
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// GetMilestoneHandler fetches one milestone with its progress.
func (h *MilestoneHandler) GetMilestoneHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	milestoneID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	ms, err := h.Service.GetOwnedMilestone(r.Context(), milestoneID, userID)
	if err != nil {
		respondError(w, err, "Failed to fetch milestone")
		return
	}
	view, err := h.Service.ComputeView(r.Context(), *ms)
	if err != nil {
		respondError(w, err, "Failed to compute milestone progress")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// UpdateMilestoneHandler applies a partial update to a milestone.
func (h *MilestoneHandler) UpdateMilestoneHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	milestoneID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var input services.MilestoneUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ms, err := h.Service.UpdateMilestone(r.Context(), milestoneID, userID, input)
	if err != nil {
		respondError(w, err, "Failed to update milestone")
		return
	}
	respondJSON(w, http.StatusOK, ms)
}

// ArchiveMilestoneHandler soft-deletes a milestone.
func (h *MilestoneHandler) ArchiveMilestoneHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	milestoneID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := h.Service.ArchiveMilestone(r.Context(), milestoneID, userID); err != nil {
		respondError(w, err, "Failed to archive milestone")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Milestone archived"})
}

// CloseMilestoneHandler runs one of the closure actions: close_as_is,
// extend or reduce_percent.
func (h *MilestoneHandler) CloseMilestoneHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	milestoneID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var req progress.CloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	view, err := h.Service.CloseMilestone(r.Context(), milestoneID, userID, req)
	if err != nil {
		respondError(w, err, "Failed to close milestone")
		return
	}

	logrus.WithFields(logrus.Fields{
		"milestoneID": milestoneID.Hex(),
		"action":      string(req.Action),
	}).Info("Milestone closure handled")
	respondJSON(w, http.StatusOK, view)
}

type forceCompleteRequest struct {
	Force bool `json:"force"`
}

// ForceCompleteMilestoneHandler closes a milestone unconditionally when the
// request confirms it.
func (h *MilestoneHandler) ForceCompleteMilestoneHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	milestoneID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var req forceCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	view, err := h.Service.ForceCompleteMilestone(r.Context(), milestoneID, userID, req.Force)
	if err != nil {
		respondError(w, err, "Failed to complete milestone")
		return
	}
	respondJSON(w, http.StatusOK, view)
}
