package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jason-govender/salesflow-api/internal/directory"
	"github.com/jason-govender/salesflow-api/internal/domain"
	"github.com/jason-govender/salesflow-api/internal/mapper"
	"github.com/jason-govender/salesflow-api/internal/repository"
)

// UserService exposes the assignable sales staff and syncs them from the
// corporate directory.
type UserService struct {
	userRepo  *repository.UserRepository
	directory *directory.Client
	logger    *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, dir *directory.Client, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, directory: dir, logger: logger}
}

// GetByID returns a single user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// ListAssignable returns the active users opportunities can be assigned to
func (s *UserService) ListAssignable(ctx context.Context) ([]domain.UserDTO, error) {
	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = mapper.ToUserDTO(&users[i])
	}
	return dtos, nil
}

// SyncFromDirectory pulls the sales staff from the corporate directory,
// upserts them into the local users table and deactivates anyone no longer
// present. A no-op when the directory is not connected.
func (s *UserService) SyncFromDirectory(ctx context.Context) error {
	if !s.directory.IsEnabled() {
		s.logger.Debug("directory not connected, skipping user sync")
		return nil
	}

	records, err := s.directory.ListSalesStaff(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch directory staff: %w", err)
	}

	presentRefs := make([]string, 0, len(records))
	for _, rec := range records {
		user := &domain.User{
			ExternalRef: rec.ExternalRef,
			DisplayName: rec.DisplayName,
			Email:       rec.Email,
			Active:      true,
		}
		if err := s.userRepo.Upsert(ctx, user); err != nil {
			return fmt.Errorf("failed to upsert user %s: %w", rec.ExternalRef, err)
		}
		presentRefs = append(presentRefs, rec.ExternalRef)
	}

	if err := s.userRepo.DeactivateMissing(ctx, presentRefs); err != nil {
		return fmt.Errorf("failed to deactivate missing users: %w", err)
	}

	s.logger.Info("user directory sync completed", zap.Int("users_synced", len(records)))
	return nil
}
