package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aibek-dev/goaltrack/internal/progress"
	"github.com/aibek-dev/goaltrack/pkg/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondJSON writes a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps the typed error taxonomy onto HTTP statuses: missing or
// foreign entities are 404, malformed input 400, period overlaps and invalid
// lifecycle transitions 409, everything else 500 with a generic message.
func respondError(w http.ResponseWriter, err error, fallback string) {
	var (
		validation *progress.ValidationError
		conflict   *progress.PeriodConflictError
		state      *progress.StateConflictError
	)
	switch {
	case errors.Is(err, progress.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.As(err, &validation):
		http.Error(w, validation.Error(), http.StatusBadRequest)
	case errors.As(err, &conflict):
		http.Error(w, conflict.Error(), http.StatusConflict)
	case errors.As(err, &state):
		http.Error(w, state.Error(), http.StatusConflict)
	default:
		logrus.WithError(err).Error(fallback)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}

// requireUser extracts the authenticated user id, writing the error response
// itself when the request carries no usable identity.
func requireUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		logrus.Warn("Unauthorized access attempt")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to convert user ID")
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return primitive.NilObjectID, false
	}
	return userID, true
}

// pathID parses an ObjectID path variable, writing the error response when
// it is malformed.
func pathID(w http.ResponseWriter, raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}
