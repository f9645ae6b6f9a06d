// Package store archives normalized uploads to a local sqlite database.
// The pipeline treats this as a fire-and-forget side effect: failures
// here are logged by callers, never surfaced as upload failures.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// ErrNotFound is returned when an upload id does not exist.
var ErrNotFound = errors.New("upload not found")

// Store wraps the sqlite upload history database.
type Store struct {
	db *sql.DB
}

// Upload is one archived normalization result.
type Upload struct {
	ID         int64
	Filename   string
	Format     string
	RowCount   int
	Hash       string
	UploadedAt time.Time
	Table      *table.ComboTable
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// Single writer: concurrent uploads contend here, not in the pipeline.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init store schema: %w", err)
	}
	return &Store{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS upload_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	filename    TEXT NOT NULL,
	format      TEXT NOT NULL,
	row_count   INTEGER NOT NULL,
	hash        TEXT NOT NULL,
	uploaded_at TEXT NOT NULL,
	table_json  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_upload_hash ON upload_history(hash);
`

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// serialized is the row-oriented on-disk shape of a ComboTable.
type serialized struct {
	AttrColumns []string       `json:"attr_columns"`
	Records     []table.Record `json:"records"`
}

// Save archives a table and returns its id. Saving content that hashes
// identically to an existing upload returns the existing id.
func (s *Store) Save(ctx context.Context, u Upload) (int64, error) {
	if u.Hash != "" {
		var id int64
		err := s.db.QueryRowContext(ctx,
			`SELECT id FROM upload_history WHERE hash = ? LIMIT 1`, u.Hash).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("check existing upload: %w", err)
		}
	}
	blob, err := json.Marshal(serialized{AttrColumns: u.Table.AttrColumns, Records: u.Table.Records()})
	if err != nil {
		return 0, fmt.Errorf("serialize table: %w", err)
	}
	at := u.UploadedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO upload_history (filename, format, row_count, hash, uploaded_at, table_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Filename, u.Format, len(u.Table.Rows), u.Hash, at.Format(time.RFC3339), string(blob))
	if err != nil {
		return 0, fmt.Errorf("insert upload: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("upload id: %w", err)
	}
	return id, nil
}

// Load returns an archived upload including its full table.
func (s *Store) Load(ctx context.Context, id int64) (*Upload, error) {
	var u Upload
	var at, blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, filename, format, row_count, hash, uploaded_at, table_json
		 FROM upload_history WHERE id = ?`, id).
		Scan(&u.ID, &u.Filename, &u.Format, &u.RowCount, &u.Hash, &at, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load upload %d: %w", id, err)
	}
	u.UploadedAt, _ = time.Parse(time.RFC3339, at)
	var ser serialized
	if err := json.Unmarshal([]byte(blob), &ser); err != nil {
		return nil, fmt.Errorf("deserialize upload %d: %w", id, err)
	}
	u.Table = table.FromRecords(ser.AttrColumns, ser.Records)
	return &u, nil
}

// List returns upload metadata (no tables), newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Upload, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, format, row_count, hash, uploaded_at
		 FROM upload_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()
	var out []Upload
	for rows.Next() {
		var u Upload
		var at string
		if err := rows.Scan(&u.ID, &u.Filename, &u.Format, &u.RowCount, &u.Hash, &at); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		u.UploadedAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, u)
	}
	return out, rows.Err()
}

// Delete removes an archived upload.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM upload_history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete upload %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ContentHash fingerprints upload bytes for duplicate detection.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
