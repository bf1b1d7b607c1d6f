package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pdf-toolkit/internal/domain"
)

type supabaseUserRow struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// SupabaseUserRepository implements domain.UserRepository over PostgREST
type SupabaseUserRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseUserRepository creates a new Supabase credential store
func NewSupabaseUserRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.UserRepository {
	return &SupabaseUserRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

func (r *SupabaseUserRepository) Create(_ context.Context, user *domain.User) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	if user.ID == "" {
		user.ID = newID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	row := supabaseUserRow{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
	_, _, err := client.From(supabaseUsersTable).Insert(row, false, "", "minimal", "").Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("User created", "user_id", user.ID, "username", user.Username)
	return nil
}

func (r *SupabaseUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.findOne("username", username)
}

func (r *SupabaseUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.findOne("id", id)
}

func (r *SupabaseUserRepository) findOne(column, value string) (*domain.User, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(supabaseUsersTable).
		Select("*", "", false).
		Eq(column, value).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var rows []supabaseUserRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrUserNotFound
	}

	row := rows[0]
	return &domain.User{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
	}, nil
}

// isUniqueViolation reports a Postgres unique_violation (SQLSTATE 23505) as
// relayed by PostgREST.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key")
}
