// Package store persists prompts, tasks, results and articles in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	geoerrors "github.com/geo-dev/geo/internal/errors"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// Open opens sqlite with sensible defaults.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, geoerrors.New("E200").WithDetail(path).Wrap(err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	return db, nil
}

// WithTx runs fn in a transaction.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Now returns UTC time truncated to seconds (consistent with SQLite default).
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Store bundles the repositories over one database.
type Store struct {
	DB       *sql.DB
	Prompts  *PromptRepo
	Tasks    *TaskRepo
	Articles *ArticleRepo
}

// New wraps an open, migrated database.
func New(db *sql.DB) *Store {
	return &Store{
		DB:       db,
		Prompts:  NewPromptRepo(db),
		Tasks:    NewTaskRepo(db),
		Articles: NewArticleRepo(db),
	}
}

// OpenAndMigrate opens the database at path and applies all migrations.
func OpenAndMigrate(ctx context.Context, path string) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, geoerrors.New("E200").WithDetail(path).Wrap(err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return New(db), nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}
