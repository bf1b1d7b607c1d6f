package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pdf-toolkit/internal/domain"

	"gorm.io/gorm"
)

// GormUserRepository implements domain.UserRepository on a gorm database
type GormUserRepository struct {
	db     *gorm.DB
	logger domain.Logger
}

// NewGormUserRepository creates a new gorm backed credential store
func NewGormUserRepository(db *gorm.DB, logger domain.Logger) domain.UserRepository {
	return &GormUserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	rec := userRecord{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("User created", "user_id", user.ID, "username", user.Username)
	return nil
}

func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *GormUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormUserRepository) first(ctx context.Context, query string, arg string) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return rec.toDomain(), nil
}
