package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/cloudtask-api/internal/api/shared"
	"github.com/phrazzld/cloudtask-api/internal/domain"
	"github.com/phrazzld/cloudtask-api/internal/store"
)

// Pagination defaults mirror the store layer's limit cap.
const (
	defaultListLimit = 100
	maxListLimit     = 100
)

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context. The user ID is placed there by the auth middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: missing %s", domain.ErrInvalidID, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, paramName)
	}

	return id, nil
}

// getPagination reads skip/limit query parameters, applying defaults and
// clamping negative or oversized values.
func getPagination(r *http.Request) (skip, limit int) {
	skip = 0
	limit = defaultListLimit

	if raw := r.URL.Query().Get("skip"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			skip = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return skip, limit
}

// respondServiceError translates a service or store error into the
// matching HTTP error response.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}

// loadActor resolves the authenticated user from the request context via
// the user store. Responds with an error and returns false when the
// request carries no usable identity.
func loadActor(w http.ResponseWriter, r *http.Request, users store.UserStore) (*domain.User, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}

	actor, err := users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Token refers to a user that no longer exists
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return nil, false
		}
		respondServiceError(w, r, err)
		return nil, false
	}

	return actor, true
}
