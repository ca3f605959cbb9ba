// Package sqlite implements the session result slot on an in-memory SQLite
// database. Nothing touches disk: the slot exists exactly as long as the
// process, which is the persistence model the service promises.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/beatlens/internal/core/domain"
	"github.com/ewilliams-labs/beatlens/internal/core/ports"
)

// latestKey is the single well-known slot name.
const latestKey = "latest"

// Store implements ports.ResultStore.
type Store struct {
	db *sql.DB
}

var _ ports.ResultStore = (*Store)(nil)

// NewStore opens the in-memory database and creates the schema.
func NewStore() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// Every pooled connection to :memory: gets its own empty database; pin
	// the pool to one connection so there is only one.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("sqlite: migration failed: %w", err)
	}

	return store, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			slot       TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// SaveLatest overwrites the slot with the serialized result.
func (s *Store) SaveLatest(ctx context.Context, res domain.AnalysisResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("sqlite: marshal result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (slot, payload) VALUES (?, ?)
		ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, created_at = CURRENT_TIMESTAMP
	`, latestKey, string(payload))
	if err != nil {
		return fmt.Errorf("sqlite: save result: %w", err)
	}
	return nil
}

// Latest reads the slot back. domain.ErrNoResult when empty.
func (s *Store) Latest(ctx context.Context) (domain.AnalysisResult, error) {
	row := s.db.QueryRowContext(ctx, "SELECT payload FROM results WHERE slot = ?", latestKey)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return domain.AnalysisResult{}, domain.ErrNoResult
		}
		return domain.AnalysisResult{}, fmt.Errorf("sqlite: load result: %w", err)
	}

	var res domain.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("sqlite: unmarshal result: %w", err)
	}
	return res, nil
}
