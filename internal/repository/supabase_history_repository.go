package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"pdf-toolkit/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

type supabaseHistoryInsert struct {
	UserID    string    `json:"user_id"`
	FileName  string    `json:"file_name"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

type supabaseHistoryRow struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	FileName  string    `json:"file_name"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func (r supabaseHistoryRow) toDomain() *domain.HistoryEntry {
	return &domain.HistoryEntry{
		ID:        r.ID,
		UserID:    r.UserID,
		FileName:  r.FileName,
		Action:    domain.Action(r.Action),
		Timestamp: r.Timestamp.UTC(),
	}
}

// SupabaseHistoryRepository implements domain.HistoryRepository over PostgREST.
// The pdf_history table needs a bigserial id so ties on timestamp resolve by
// insertion order.
type SupabaseHistoryRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseHistoryRepository creates a new Supabase ledger
func NewSupabaseHistoryRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.HistoryRepository {
	return &SupabaseHistoryRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

func (r *SupabaseHistoryRepository) Append(_ context.Context, entry *domain.HistoryEntry) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row := supabaseHistoryInsert{
		UserID:    entry.UserID,
		FileName:  entry.FileName,
		Action:    string(entry.Action),
		Timestamp: time.Now().UTC(),
	}
	data, _, err := client.From(historyTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	var inserted []supabaseHistoryRow
	if err := json.Unmarshal(data, &inserted); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(inserted) == 0 {
		return fmt.Errorf("failed to append history entry: empty response")
	}

	entry.ID = inserted[0].ID
	entry.Timestamp = inserted[0].Timestamp.UTC()
	r.logger.Debug("History entry appended", "id", entry.ID, "user_id", entry.UserID, "action", entry.Action)
	return nil
}

func (r *SupabaseHistoryRepository) ListFor(_ context.Context, userID string) ([]*domain.HistoryEntry, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(historyTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("timestamp", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	var rows []supabaseHistoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	// PostgREST only guarantees the timestamp order; settle ties by id.
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Timestamp.Equal(rows[j].Timestamp) {
			return rows[i].Timestamp.After(rows[j].Timestamp)
		}
		return rows[i].ID > rows[j].ID
	})

	entries := make([]*domain.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toDomain())
	}
	return entries, nil
}
