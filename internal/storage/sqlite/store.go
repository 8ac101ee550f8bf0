package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pixil98/go-wilds/internal/game"
)

const schemaVersion = "1"

// PlayerStore keeps player data as JSON documents in a SQLite database.
type PlayerStore struct {
	db *sql.DB
}

var _ game.PlayerStore = (*PlayerStore)(nil)

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*PlayerStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &PlayerStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			saved_at INTEGER NOT NULL
		);`,
		`INSERT INTO meta (key, value) VALUES ('schema_version', '` + schemaVersion + `')
			ON CONFLICT(key) DO NOTHING;`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}

	var v string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&v); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if v != schemaVersion {
		return fmt.Errorf("unsupported schema version %q", v)
	}
	return nil
}

// Close releases the underlying SQLite connection.
func (s *PlayerStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PlayerStore) LoadPlayer(ctx context.Context, playerID string) (*game.PlayerData, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM players WHERE id = ?`, playerID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNoPlayerData
	}
	if err != nil {
		return nil, fmt.Errorf("querying player %s: %w", playerID, err)
	}

	var d game.PlayerData
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("decoding player %s: %w", playerID, err)
	}
	return &d, nil
}

func (s *PlayerStore) SavePlayer(ctx context.Context, playerID string, data *game.PlayerData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding player %s: %w", playerID, err)
	}

	savedAt := data.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO players (id, data, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		playerID, string(b), savedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("writing player %s: %w", playerID, err)
	}
	return nil
}
