package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jason-govender/salesflow-api/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// ListMine handles GET /notifications
func (h *NotificationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifications, err := h.notificationService.ListMine(r.Context(), unreadOnly, limit)
	if err != nil {
		h.logger.Error("failed to list notifications", zap.Error(err))
		h.handleNotificationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

// MarkRead handles POST /notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid notification ID: must be a valid UUID")
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), id); err != nil {
		h.handleNotificationError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *NotificationHandler) handleNotificationError(w http.ResponseWriter, err error) {
	if respondServiceError(w, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		respondWithError(w, http.StatusNotFound, "Notification not found")
	default:
		respondWithError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
