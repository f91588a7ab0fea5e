// Package sqlite provides a SQLite-backed chunk store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	id       TEXT PRIMARY KEY,
	text     TEXT NOT NULL,
	section  TEXT NOT NULL DEFAULT '',
	position INTEGER NOT NULL DEFAULT 0
);
`

// ChunkStore persists full chunk text in a local SQLite database so
// retrieval is never limited to the bounded previews held in the
// vector index.
type ChunkStore struct {
	db   *sql.DB
	path string
}

// NewChunkStore creates a chunk store at the specified data directory.
// If dataDir is empty, defaults to ~/.avenassist/data/chunks.db.
func NewChunkStore(dataDir string) (*ChunkStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".avenassist", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chunks.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &ChunkStore{
		db:   db,
		path: dbPath,
	}, nil
}

// Put inserts or replaces the chunk.
func (s *ChunkStore) Put(ctx context.Context, chunk domain.Chunk) error {
	if chunk.ID == "" {
		return fmt.Errorf("%w: chunk id is empty", domain.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chunks (id, text, section, position)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			section = excluded.section,
			position = excluded.position
	`, chunk.ID, chunk.Text, chunk.Section, chunk.Position)
	if err != nil {
		return fmt.Errorf("storing chunk %s: %w", chunk.ID, err)
	}
	return nil
}

// Get returns the chunk with the given id.
func (s *ChunkStore) Get(ctx context.Context, id string) (domain.Chunk, error) {
	var chunk domain.Chunk
	err := s.db.QueryRowContext(ctx, `
		SELECT id, text, section, position FROM chunks WHERE id = ?
	`, id).Scan(&chunk.ID, &chunk.Text, &chunk.Section, &chunk.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Chunk{}, fmt.Errorf("%w: chunk %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.Chunk{}, fmt.Errorf("loading chunk %s: %w", id, err)
	}
	return chunk, nil
}

// Path returns the database file path.
func (s *ChunkStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *ChunkStore) Close() error {
	return s.db.Close()
}
