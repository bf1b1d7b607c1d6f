package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"pdf-toolkit/internal/domain"
)

// MemoryUserRepository keeps users in process memory. Data is lost on exit.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.User
	byName map[string]string
}

// NewMemoryUserRepository creates an empty in-memory credential store
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:   make(map[string]*domain.User),
		byName: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Username]; exists {
		return domain.ErrUsernameTaken
	}
	if user.ID == "" {
		user.ID = newID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	stored := *user
	r.byID[stored.ID] = &stored
	r.byName[stored.Username] = stored.ID
	return nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *r.byID[id]
	return &u, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *stored
	return &u, nil
}

// MemoryHistoryRepository is an append-only in-memory ledger.
type MemoryHistoryRepository struct {
	mu      sync.RWMutex
	entries []domain.HistoryEntry
	nextID  int64
	now     func() time.Time
}

// NewMemoryHistoryRepository creates an empty in-memory ledger
func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{now: time.Now}
}

func (r *MemoryHistoryRepository) Append(_ context.Context, entry *domain.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry.ID = r.nextID
	entry.Timestamp = r.now().UTC()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *MemoryHistoryRepository) ListFor(_ context.Context, userID string) ([]*domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.HistoryEntry, 0)
	// Walk backwards so the stable sort keeps later inserts first on ties.
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			e := r.entries[i]
			result = append(result, &e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result, nil
}
