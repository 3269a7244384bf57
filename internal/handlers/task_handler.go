package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aibek-dev/goaltrack/internal/services"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// TaskHandler handles HTTP requests for the unified tasks view.
type TaskHandler struct {
	Service *services.TaskService
}

// NewTaskHandler creates a new instance of TaskHandler.
func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{Service: service}
}

func parseDateParam(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, time.UTC)
}

// GetRangeTasksHandler lists every task inside a date window.
func (h *TaskHandler) GetRangeTasksHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	start, err := parseDateParam(r.URL.Query().Get("start_date"))
	if err != nil {
		http.Error(w, "Invalid start_date", http.StatusBadRequest)
		return
	}
	end, err := parseDateParam(r.URL.Query().Get("end_date"))
	if err != nil {
		http.Error(w, "Invalid end_date", http.StatusBadRequest)
		return
	}

	tasks, err := h.Service.RangeTasks(r.Context(), userID, start, end)
	if err != nil {
		respondError(w, err, "Failed to fetch tasks")
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

type completeTaskRequest struct {
	Completed bool `json:"completed"`
}

// CompleteTaskHandler marks one task entry done or undone.
func (h *TaskHandler) CompleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	taskID := mux.Vars(r)["id"]

	req := completeTaskRequest{Completed: true}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
		defer r.Body.Close()
	}

	result, err := h.Service.CompleteTask(r.Context(), userID, taskID, req.Completed)
	if err != nil {
		respondError(w, err, "Failed to complete task")
		return
	}

	logrus.WithFields(logrus.Fields{
		"taskID":    taskID,
		"completed": req.Completed,
	}).Info("Task completion handled")
	respondJSON(w, http.StatusOK, result)
}

type rescheduleTaskRequest struct {
	NewDate time.Time `json:"new_date"`
}

// RescheduleTaskHandler moves a task to a new date.
func (h *TaskHandler) RescheduleTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	taskID := mux.Vars(r)["id"]

	var req rescheduleTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	task, err := h.Service.RescheduleTask(r.Context(), userID, taskID, req.NewDate)
	if err != nil {
		respondError(w, err, "Failed to reschedule task")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// CreateTaskHandler adds a quick one-time task to a milestone.
func (h *TaskHandler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input services.TaskCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	task, err := h.Service.CreateTask(r.Context(), userID, input)
	if err != nil {
		respondError(w, err, "Failed to create task")
		return
	}
	respondJSON(w, http.StatusCreated, task)
}
