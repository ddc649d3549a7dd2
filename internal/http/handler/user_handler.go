package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jason-govender/salesflow-api/internal/service"
)

type UserHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// ListAssignable handles GET /users
func (h *UserHandler) ListAssignable(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListAssignable(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// GetByID handles GET /users/{id}
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID: must be a valid UUID")
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Sync handles POST /users/sync, triggering an on-demand directory sync
func (h *UserHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.SyncFromDirectory(r.Context()); err != nil {
		h.logger.Error("on-demand directory sync failed", zap.Error(err))
		respondWithError(w, http.StatusBadGateway, "Directory sync failed")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
