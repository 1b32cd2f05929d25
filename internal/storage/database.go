package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339Nano

	settingLastUpdate = "last_data_update"
)

type Database struct {
	db  *sql.DB
	log *zap.Logger
}

// New opens the SQLite database at path, creating its directory and tables
// as needed.
func New(path string, log *zap.Logger) (*Database, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	database := NewWithDB(db, log)
	if err := database.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	database.log.Debug("database opened", zap.String("path", path))
	return database, nil
}

// NewWithDB wraps an already open connection without touching the schema.
func NewWithDB(db *sql.DB, log *zap.Logger) *Database {
	if log == nil {
		log = zap.NewNop()
	}
	return &Database{db: db, log: log}
}

func (d *Database) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			department TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS break_entries (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL,
			date TEXT NOT NULL,
			shift_start TEXT NOT NULL,
			shift_end TEXT NOT NULL,
			break1_start TEXT NOT NULL DEFAULT '',
			break1_end TEXT NOT NULL DEFAULT '',
			break2_start TEXT NOT NULL DEFAULT '',
			break2_end TEXT NOT NULL DEFAULT '',
			coverage1_id TEXT NOT NULL DEFAULT '',
			coverage2_id TEXT NOT NULL DEFAULT '',
			outside_therapy_start TEXT NOT NULL DEFAULT '',
			outside_therapy_end TEXT NOT NULL DEFAULT '',
			outside_therapy_reason TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS share_links (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			permission TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			url TEXT NOT NULL,
			created_at TEXT NOT NULL,
			expires_at TEXT NOT NULL,
			access_count INTEGER NOT NULL DEFAULT 0,
			last_accessed TEXT,
			active INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			severity TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			acknowledged INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_date ON break_entries(date)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_employee ON break_entries(employee_id)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// withTx runs fn in a transaction, rolling back when fn fails.
func (d *Database) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			d.log.Warn("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit()
}

// GetSetting returns the value stored under key, or "" when unset.
func (d *Database) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := d.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

func (d *Database) SetSetting(ctx context.Context, key, value string) error {
	return setSetting(ctx, d.db, key, value)
}

func setSetting(ctx context.Context, ex execer, key, value string) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// touch records the time of a data change.
func touch(ctx context.Context, ex execer) error {
	return setSetting(ctx, ex, settingLastUpdate, time.Now().UTC().Format(timestampLayout))
}

// LastDataUpdate returns when employees or entries last changed. ok is false
// when nothing has been written yet.
func (d *Database) LastDataUpdate(ctx context.Context) (t time.Time, ok bool, err error) {
	value, err := d.GetSetting(ctx, settingLastUpdate)
	if err != nil || value == "" {
		return time.Time{}, false, err
	}
	t, err = time.Parse(timestampLayout, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("malformed %s setting: %w", settingLastUpdate, err)
	}
	return t, true, nil
}
