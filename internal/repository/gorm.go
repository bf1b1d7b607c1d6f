package repository

import (
	"fmt"
	"time"

	"pdf-toolkit/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type userRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"uniqueIndex;size:150;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return usersTable }

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

type historyRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"index;size:36;not null"`
	FileName  string    `gorm:"size:255;not null"`
	Action    string    `gorm:"size:32;not null"`
	Timestamp time.Time `gorm:"index;not null"`
}

func (historyRecord) TableName() string { return historyTable }

func (r *historyRecord) toDomain() *domain.HistoryEntry {
	return &domain.HistoryEntry{
		ID:        r.ID,
		UserID:    r.UserID,
		FileName:  r.FileName,
		Action:    domain.Action(r.Action),
		Timestamp: r.Timestamp.UTC(),
	}
}

// OpenSQLite opens the database at path and migrates the schema. ":memory:"
// gives a private database, which tests use.
func OpenSQLite(path string, logger domain.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	// SQLite has a single writer, and every new connection to ":memory:" is a
	// fresh empty database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&userRecord{}, &historyRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.Info("SQLite store ready", "path", path)
	return db, nil
}
