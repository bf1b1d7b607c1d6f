package service

import (
	"context"

	"pdf-toolkit/internal/domain"
	apperrors "pdf-toolkit/pkg/errors"
)

type historyService struct {
	repo   domain.HistoryRepository
	logger domain.Logger
}

func NewHistoryService(repo domain.HistoryRepository, logger domain.Logger) domain.HistoryService {
	return &historyService{
		repo:   repo,
		logger: logger,
	}
}

func (s *historyService) ListHistory(ctx context.Context, user *domain.User) ([]*domain.HistoryEntry, error) {
	if user == nil {
		return nil, errNoUser()
	}

	entries, err := s.repo.ListFor(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to list history", err, "user_id", user.ID)
		return nil, apperrors.NewStorageError("Failed to load history", err)
	}
	return entries, nil
}
