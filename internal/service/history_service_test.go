package service

import (
	"context"
	"testing"

	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/repository"
	apperrors "pdf-toolkit/pkg/errors"
)

func TestHistoryService_ListHistory(t *testing.T) {
	repo := repository.NewMemoryHistoryRepository()
	svc := NewHistoryService(repo, NewMockLogger())
	ctx := context.Background()

	entries, err := svc.ListHistory(ctx, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", entries)
	}

	for _, a := range []domain.Action{domain.ActionConvert, domain.ActionMerge} {
		if err := repo.Append(ctx, &domain.HistoryEntry{UserID: testUser.ID, FileName: "f", Action: a}); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	entries, err = svc.ListHistory(ctx, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 || entries[0].Action != domain.ActionMerge {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestHistoryService_StoreFailure(t *testing.T) {
	svc := NewHistoryService(FailingHistoryRepository{}, NewMockLogger())

	_, err := svc.ListHistory(context.Background(), testUser)
	if !apperrors.IsType(err, apperrors.ErrorTypeStorage) {
		t.Errorf("expected storage error, got %v", err)
	}

	_, err = svc.ListHistory(context.Background(), nil)
	if !apperrors.IsType(err, apperrors.ErrorTypeUnauthorized) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}
