package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jason-govender/salesflow-api/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListActive returns the assignable users, ordered by display name
func (r *UserRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("display_name ASC").
		Find(&users).Error
	return users, err
}

// Upsert inserts or refreshes a directory-synced user keyed by external
// reference.
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_ref"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "email", "active", "updated_at"}),
	}).Create(user).Error
}

// DeactivateMissing marks users absent from the latest directory sync as
// inactive so they stop appearing in assignable lists.
func (r *UserRepository) DeactivateMissing(ctx context.Context, presentRefs []string) error {
	if len(presentRefs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("external_ref NOT IN ?", presentRefs).
		Update("active", false).Error
}
