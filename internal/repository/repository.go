// Package repository holds the credential store and history ledger
// implementations: gorm over SQLite, Supabase over PostgREST, and an
// in-memory store for tests and throwaway runs.
package repository

import "github.com/google/uuid"

const (
	usersTable         = "users"
	supabaseUsersTable = "app_users"
	historyTable       = "pdf_history"
)

func newID() string {
	return uuid.NewString()
}
