package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aibek-dev/goaltrack/internal/services"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// ActionHandler handles HTTP requests related to recurring and one-time
// actions.
type ActionHandler struct {
	Service *services.ActionService
}

// NewActionHandler creates a new instance of ActionHandler.
func NewActionHandler(service *services.ActionService) *ActionHandler {
	return &ActionHandler{Service: service}
}

// CreateRecurringActionHandler adds a recurring action to a milestone.
func (h *ActionHandler) CreateRecurringActionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	milestoneID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var input services.RecurringActionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during action creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	action, err := h.Service.CreateRecurringAction(r.Context(), milestoneID, userID, input)
	if err != nil {
		respondError(w, err, "Failed to create recurring action")
		return
	}
	respondJSON(w, http.StatusCreated, action)
}

// GetRecurringActionHandler fetches one recurring action with its progress.
func (h *ActionHandler) GetRecurringActionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	actionID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	view, err := h.Service.GetRecurringActionView(r.Context(), actionID, userID)
	if err != nil {
		respondError(w, err, "Failed to fetch recurring action")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// UpdateRecurringActionHandler applies a partial update to a recurring
// action.
func (h *ActionHandler) UpdateRecurringActionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	actionID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var input services.RecurringActionUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	view, err := h.Service.UpdateRecurringAction(r.Context(), actionID, userID, input)
	if err != nil {
		respondError(w, err, "Failed to update recurring action")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// DeleteRecurringActionHandler soft-deletes a recurring action.
func (h *ActionHandler) DeleteRecurringActionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	actionID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := h.Service.DeleteRecurringAction(r.Context(), actionID, userID); err != nil {
		respondError(w, err, "Failed to delete recurring action")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Action deleted"})
}

// LogCompletionHandler records whether an action was done on a date. A
// repeated log for the same date updates the existing row.
func (h *ActionHandler) LogCompletionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	actionID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var input services.LogInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	view, err := h.Service.LogCompletion(r.Context(), actionID, userID, input)
	if err != nil {
		respondError(w, err, "Failed to log completion")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// RecalculateHandler forces a recompute of an action's derived state.
func (h *ActionHandler) RecalculateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	actionID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	view, err := h.Service.Recalculate(r.Context(), actionID, userID)
	if err != nil {
		respondError(w, err, "Failed to recalculate action")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

type bulkTargetRequest struct {
	TargetPercent int `json:"target_percent"`
}

// BulkSetTargetHandler sets one target percent on every active recurring
// action of a milestone.
func (h *ActionHandler) BulkSetTargetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	milestoneID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var req bulkTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	view, err := h.Service.BulkSetTargetPercent(r.Context(), milestoneID, userID, req.TargetPercent)
	if err != nil {
		respondError(w, err, "Failed to set target percent")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// CreateOneTimeActionHandler adds a one-time action to a milestone.
func (h *ActionHandler) CreateOneTimeActionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	milestoneID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var input services.OneTimeActionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	action, err := h.Service.CreateOneTimeAction(r.Context(), milestoneID, userID, input)
	if err != nil {
		respondError(w, err, "Failed to create one-time action")
		return
	}
	respondJSON(w, http.StatusCreated, action)
}

// UpdateOneTimeActionHandler applies a partial update to a one-time action.
func (h *ActionHandler) UpdateOneTimeActionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	actionID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var input services.OneTimeActionUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	action, err := h.Service.UpdateOneTimeAction(r.Context(), actionID, userID, input)
	if err != nil {
		respondError(w, err, "Failed to update one-time action")
		return
	}
	respondJSON(w, http.StatusOK, action)
}

// DeleteOneTimeActionHandler soft-deletes a one-time action.
func (h *ActionHandler) DeleteOneTimeActionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	actionID, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := h.Service.DeleteOneTimeAction(r.Context(), actionID, userID); err != nil {
		respondError(w, err, "Failed to delete one-time action")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Action deleted"})
}
