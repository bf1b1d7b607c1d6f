package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/repository"
)

type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: []string{},
	}
}

func (m *MockLogger) record(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, line)
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.record("INFO: " + msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	m.record("ERROR: " + msg + " - " + err.Error())
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.record("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.record("WARN: " + msg)
}

func (m *MockLogger) contains(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range m.messages {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// MockEngine implements every engine interface and counts calls.
type MockEngine struct {
	mu     sync.Mutex
	calls  map[string]int
	output []byte
	err    error

	lastNeedle string
	lastText   string
	mergedN    int
}

func NewMockEngine() *MockEngine {
	return &MockEngine{
		calls:  make(map[string]int),
		output: []byte("%PDF-1.7 fake"),
	}
}

func (m *MockEngine) called(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[name]++
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

func (m *MockEngine) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *MockEngine) Render(text string) ([]byte, error) {
	m.lastText = text
	return m.called("render")
}

func (m *MockEngine) Merge(files [][]byte) ([]byte, error) {
	m.mergedN = len(files)
	return m.called("merge")
}

func (m *MockEngine) Convert(pdf []byte) ([]byte, error) {
	return m.called("convert")
}

func (m *MockEngine) Highlight(pdf []byte, needle string) ([]byte, error) {
	m.lastNeedle = needle
	return m.called("highlight")
}

func (m *MockEngine) ExtractText(docx []byte) (string, error) {
	if _, err := m.called("extract"); err != nil {
		return "", err
	}
	return "text from docx", nil
}

func (m *MockEngine) engines() Engines {
	return Engines{
		Text:        m,
		Merger:      m,
		Word:        m,
		Highlighter: m,
		WordReader:  m,
	}
}

// FailingHistoryRepository simulates a ledger whose backing store is down.
type FailingHistoryRepository struct{}

func (FailingHistoryRepository) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	return errors.New("disk I/O error")
}

func (FailingHistoryRepository) ListFor(ctx context.Context, userID string) ([]*domain.HistoryEntry, error) {
	return nil, errors.New("disk I/O error")
}

// FailingUserRepository simulates a credential store that cannot be reached.
type FailingUserRepository struct{}

func (FailingUserRepository) Create(ctx context.Context, user *domain.User) error {
	return errors.New("connection refused")
}

func (FailingUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, errors.New("connection refused")
}

func (FailingUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, errors.New("connection refused")
}

func newTestIssuer() *JWTIssuer {
	return NewJWTIssuer("test-secret", 5*time.Minute, 24*time.Hour)
}

func newTestAuthService() (domain.AuthService, *repository.MemoryUserRepository, *JWTIssuer) {
	users := repository.NewMemoryUserRepository()
	issuer := newTestIssuer()
	return NewAuthService(users, issuer, NewMockLogger()), users, issuer
}

var testUser = &domain.User{ID: "user-123", Username: "alice"}
