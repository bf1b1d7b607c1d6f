package repository

import (
	"context"
	"fmt"
	"time"

	"pdf-toolkit/internal/domain"

	"gorm.io/gorm"
)

// GormHistoryRepository implements domain.HistoryRepository on a gorm database
type GormHistoryRepository struct {
	db     *gorm.DB
	logger domain.Logger
	now    func() time.Time
}

// NewGormHistoryRepository creates a new gorm backed ledger
func NewGormHistoryRepository(db *gorm.DB, logger domain.Logger) domain.HistoryRepository {
	return &GormHistoryRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *GormHistoryRepository) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	rec := historyRecord{
		UserID:    entry.UserID,
		FileName:  entry.FileName,
		Action:    string(entry.Action),
		Timestamp: r.now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	entry.ID = rec.ID
	entry.Timestamp = rec.Timestamp
	r.logger.Debug("History entry appended", "id", rec.ID, "user_id", rec.UserID, "action", rec.Action)
	return nil
}

func (r *GormHistoryRepository) ListFor(ctx context.Context, userID string) ([]*domain.HistoryEntry, error) {
	var recs []historyRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Order("id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]*domain.HistoryEntry, 0, len(recs))
	for i := range recs {
		entries = append(entries, recs[i].toDomain())
	}
	return entries, nil
}
