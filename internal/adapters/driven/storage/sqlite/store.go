// Package sqlite provides a SQLite-backed session store so analyses
// survive process restarts. Chunk embeddings are stored as
// little-endian float32 blobs and the report as JSON.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/karaar-labs/karaar/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/karaar-labs/karaar/internal/core/domain"
	"github.com/karaar-labs/karaar/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SessionStore = (*Store)(nil)

// Store is a SQLite-backed implementation of driven.SessionStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the given data directory.
// If dataDir is empty, defaults to ~/.karaar/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".karaar", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sessions.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies pending .up.sql migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// Save stores a session record with its chunks, replacing any previous
// record under the same ID.
func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	metadataJSON, err := json.Marshal(session.Document.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling document metadata: %w", err)
	}

	reportJSON, err := json.Marshal(session.Report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions
			(id, file_path, created_at, doc_id, doc_uri, doc_title, doc_content, doc_metadata, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.FilePath, session.CreatedAt,
		session.Document.ID, session.Document.URI, session.Document.Title,
		session.Document.Content, string(metadataJSON), string(reportJSON))
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE session_id = ?", session.ID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	for _, chunk := range session.Chunks {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO chunks (id, session_id, document_id, content, position, embedding)
			VALUES (?, ?, ?, ?, ?, ?)
		`, chunk.ID, session.ID, chunk.DocumentID, chunk.Content, chunk.Position,
			float32SliceToBytes(chunk.Embedding))
		if err != nil {
			return fmt.Errorf("inserting chunk %s: %w", chunk.ID, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a session by ID, including its chunks in position order.
func (s *Store) Get(ctx context.Context, id string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, file_path, created_at, doc_id, doc_uri, doc_title, doc_content, doc_metadata, report
		FROM sessions WHERE id = ?
	`, id)

	session, err := scanSession(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, content, position, embedding
		FROM chunks WHERE session_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
			&chunk.Position, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		session.Chunks = append(session.Chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return session, nil
}

// Delete removes a session and its chunks.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// List returns all stored sessions without chunks, newest first.
func (s *Store) List(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_path, created_at, doc_id, doc_uri, doc_title, doc_content, doc_metadata, report
		FROM sessions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		session, err := scanSessionRows(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// scanSession scans a single session row.
func scanSession(row *sql.Row) (*domain.Session, error) {
	var session domain.Session
	var metadataJSON, reportJSON string

	err := row.Scan(&session.ID, &session.FilePath, &session.CreatedAt,
		&session.Document.ID, &session.Document.URI, &session.Document.Title,
		&session.Document.Content, &metadataJSON, &reportJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	if err := unmarshalSessionFields(&session, metadataJSON, reportJSON); err != nil {
		return nil, err
	}
	return &session, nil
}

// scanSessionRows scans a session from *sql.Rows.
func scanSessionRows(rows *sql.Rows) (*domain.Session, error) {
	var session domain.Session
	var metadataJSON, reportJSON string

	err := rows.Scan(&session.ID, &session.FilePath, &session.CreatedAt,
		&session.Document.ID, &session.Document.URI, &session.Document.Title,
		&session.Document.Content, &metadataJSON, &reportJSON)
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	if err := unmarshalSessionFields(&session, metadataJSON, reportJSON); err != nil {
		return nil, err
	}
	return &session, nil
}

func unmarshalSessionFields(session *domain.Session, metadataJSON, reportJSON string) error {
	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &session.Document.Metadata); err != nil {
			return fmt.Errorf("unmarshaling document metadata: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(reportJSON), &session.Report); err != nil {
		return fmt.Errorf("unmarshaling report: %w", err)
	}
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
