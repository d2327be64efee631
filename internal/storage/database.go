// Package storage implements the profile, plan-history and conversation
// repositories over SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a profile or active plan does not exist.
var ErrNotFound = errors.New("storage: not found")

// timeLayout is RFC 3339 with fixed-width nanoseconds so that the stored
// text sorts chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store owns the database handle. All repository methods hang off it.
type Store struct {
	db *sql.DB
}

// dbtx is satisfied by both *sql.DB and *sql.Tx so the profile upsert can
// run standalone or inside the plan-versioning transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Open opens (or creates) the database at path and ensures the schema.
// Timestamps are stored as RFC 3339 text throughout.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: failed to connect to database: %w", err)
	}

	createUsersTable := `
	CREATE TABLE IF NOT EXISTS users (
			"user_id" INTEGER PRIMARY KEY,
			"name" TEXT,
			"age" INTEGER,
			"gender" TEXT,
			"height" REAL,
			"weight" REAL,
			"goal" TEXT,
			"extra_json" TEXT
	);`
	createPlanHistoryTable := `
	CREATE TABLE IF NOT EXISTS plan_history (
			"id" INTEGER PRIMARY KEY AUTOINCREMENT,
			"user_id" INTEGER NOT NULL,
			"plan_text" TEXT NOT NULL,
			"profile_json" TEXT NOT NULL,
			"start_time" TEXT NOT NULL,
			"end_time" TEXT
	);`
	createConversationTable := `
	CREATE TABLE IF NOT EXISTS conversation_history (
			"id" INTEGER PRIMARY KEY AUTOINCREMENT,
			"user_id" INTEGER NOT NULL,
			"sender" TEXT NOT NULL,
			"message_text" TEXT NOT NULL,
			"timestamp" TEXT NOT NULL
	);`

	for _, stmt := range []string{createUsersTable, createPlanHistoryTable, createConversationTable} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: failed to create table: %w", err)
		}
	}
	log.Printf("Open(): database ready at %s", path)

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
