package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// requestKey is the row holding the remembered request.
const requestKey = "alarm_request"

const createSettingsTable = `
CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteRepository stores the settings in an SQLite database.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and prepares the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}

	// A single connection keeps writes serialised.
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, createSettingsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create settings table: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// Load reads the remembered request.
func (r *SQLiteRepository) Load(ctx context.Context) (*domain.Request, error) {
	var value string

	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, requestKey).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("query settings: %w", err)
	}

	return decode([]byte(value))
}

// Save upserts the remembered request.
func (r *SQLiteRepository) Save(ctx context.Context, req *domain.Request) error {
	now := r.now()

	data, err := encode(req, now)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		requestKey, string(data), now.Unix())
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	return nil
}

// Close releases the database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
