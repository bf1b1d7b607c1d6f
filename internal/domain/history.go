package domain

import (
	"context"
	"time"
)

// Action tags the kind of conversion a history entry records.
type Action string

const (
	ActionConvert   Action = "convert"
	ActionMerge     Action = "merge"
	ActionEdit      Action = "edit"
	ActionPDFToWord Action = "pdf_to_word"
	ActionWordToPDF Action = "word_to_pdf"
)

// Valid reports whether a is one of the canonical tags.
func (a Action) Valid() bool {
	switch a {
	case ActionConvert, ActionMerge, ActionEdit, ActionPDFToWord, ActionWordToPDF:
		return true
	}
	return false
}

// Label returns a human readable description of the action.
func (a Action) Label() string {
	switch a {
	case ActionConvert:
		return "Converted Text to PDF"
	case ActionMerge:
		return "Merged PDFs"
	case ActionEdit:
		return "Edited PDF"
	case ActionPDFToWord:
		return "Converted PDF to Word"
	case ActionWordToPDF:
		return "Converted Word to PDF"
	}
	return string(a)
}

// HistoryEntry records one completed conversion. Entries are never updated.
type HistoryEntry struct {
	ID        int64     `json:"-"`
	UserID    string    `json:"-"`
	FileName  string    `json:"file_name"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryRepository is the append-only ledger of conversions.
type HistoryRepository interface {
	// Append stores entry, assigning its ID and Timestamp.
	Append(ctx context.Context, entry *HistoryEntry) error
	// ListFor returns the user's entries newest first; ties are broken by
	// insertion order, most recent first. Never nil.
	ListFor(ctx context.Context, userID string) ([]*HistoryEntry, error)
}

type HistoryService interface {
	ListHistory(ctx context.Context, user *User) ([]*HistoryEntry, error)
}
