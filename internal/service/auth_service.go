package service

import (
	"context"
	"errors"
	"strings"

	"pdf-toolkit/internal/domain"
	apperrors "pdf-toolkit/pkg/errors"

	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid credentials"

type authService struct {
	users  domain.UserRepository
	tokens *JWTIssuer
	logger domain.Logger
}

func NewAuthService(
	users domain.UserRepository,
	tokens *JWTIssuer,
	logger domain.Logger,
) domain.AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

func (s *authService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return apperrors.NewValidationError("Both username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt rejects passwords longer than 72 bytes.
		return apperrors.NewValidationError("Password cannot be used", err.Error())
	}

	err = s.users.Create(ctx, &domain.User{Username: username, PasswordHash: string(hash)})
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		return apperrors.NewConflictError("Username already exists")
	case err != nil:
		s.logger.Error("Failed to create user", err, "username", username)
		return apperrors.NewStorageError("Failed to register user", err)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	if username == "" || password == "" {
		return nil, apperrors.NewUnauthorizedError(invalidCredentials)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, apperrors.NewUnauthorizedError(invalidCredentials)
	}
	if err != nil {
		s.logger.Error("Failed to load user", err, "username", username)
		return nil, apperrors.NewStorageError("Failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.NewUnauthorizedError(invalidCredentials)
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		s.logger.Error("Failed to issue tokens", err, "user_id", user.ID)
		return nil, apperrors.NewInternalError("Failed to issue tokens", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	user, err := s.userForToken(ctx, refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		s.logger.Error("Failed to issue access token", err, "user_id", user.ID)
		return nil, apperrors.NewInternalError("Failed to issue tokens", err)
	}
	return &domain.TokenPair{Access: access}, nil
}

func (s *authService) Authorize(ctx context.Context, accessToken string) (*domain.User, error) {
	return s.userForToken(ctx, accessToken, TokenTypeAccess)
}

// userForToken verifies the token and loads its user, so tokens of deleted
// accounts stop working before they expire.
func (s *authService) userForToken(ctx context.Context, token, tokenType string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.NewUnauthorizedError("Authentication credentials were not provided")
	}

	claims, err := s.tokens.Parse(token, tokenType)
	if err != nil {
		s.logger.Debug("Token rejected", "token_type", tokenType, "reason", err.Error())
		return nil, apperrors.NewUnauthorizedError("Token is invalid or expired")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, apperrors.NewUnauthorizedError("User not found")
	}
	if err != nil {
		s.logger.Error("Failed to load user", err, "user_id", claims.UserID)
		return nil, apperrors.NewStorageError("Failed to load user", err)
	}
	return user, nil
}
