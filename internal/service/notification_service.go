package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jason-govender/salesflow-api/internal/auth"
	"github.com/jason-govender/salesflow-api/internal/domain"
	"github.com/jason-govender/salesflow-api/internal/mapper"
	"github.com/jason-govender/salesflow-api/internal/repository"
)

const defaultNotificationLimit = 50

// NotificationService exposes a caller's own notifications. Notifications are
// created by lifecycle transitions and the expiry job, never directly through
// the API.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, logger: logger}
}

// ListMine returns the caller's notifications, newest first
func (s *NotificationService) ListMine(ctx context.Context, unreadOnly bool, limit int) ([]domain.NotificationDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if limit < 1 || limit > defaultNotificationLimit {
		limit = defaultNotificationLimit
	}

	notifications, err := s.notificationRepo.ListByRecipient(ctx, userCtx.UserID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	dtos := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = mapper.ToNotificationDTO(&notifications[i])
	}
	return dtos, nil
}

// MarkRead marks one of the caller's notifications as read. A notification
// belonging to another recipient is reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if notification.RecipientID != userCtx.UserID {
		return ErrNotificationNotFound
	}

	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
