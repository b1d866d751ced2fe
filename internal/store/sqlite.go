// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sirseerhq/discussions-loader/internal/content"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

const schema = `
CREATE TABLE IF NOT EXISTS entries (
    id          TEXT PRIMARY KEY,
    data        TEXT NOT NULL,
    html        TEXT,
    frontmatter TEXT,
    updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// SQLite stores entries in a SQLite database.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// WAL mode for concurrent writers from parallel loads
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running schema migration: %w", err)
	}

	return &SQLite{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Set implements Store.
func (s *SQLite) Set(ctx context.Context, entry content.Entry) error {
	return upsert(ctx, s.db, entry)
}

// Replace implements Store. The table is emptied and refilled in one
// transaction, so readers see either the old or the new content.
func (s *SQLite) Replace(ctx context.Context, entries []content.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}
	for _, entry := range entries {
		if err := upsert(ctx, tx, entry); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing replace: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, entry content.Entry) error {
	data, err := json.Marshal(entry.Data)
	if err != nil {
		return fmt.Errorf("marshalling entry %s: %w", entry.ID, err)
	}

	var html, frontmatter sql.NullString
	if entry.Rendered != nil {
		html = sql.NullString{String: entry.Rendered.HTML, Valid: true}
		fm, err := json.Marshal(entry.Rendered.Metadata.Frontmatter)
		if err != nil {
			return fmt.Errorf("marshalling front matter of %s: %w", entry.ID, err)
		}
		frontmatter = sql.NullString{String: string(fm), Valid: true}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO entries (id, data, html, frontmatter, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			html = excluded.html,
			frontmatter = excluded.frontmatter,
			updated_at = excluded.updated_at
	`, entry.ID, string(data), html, frontmatter, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving entry %s: %w", entry.ID, err)
	}
	return nil
}

// Delete implements Store.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	return nil
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, id string) (content.Entry, bool, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, data, html, frontmatter FROM entries WHERE id = ?", id)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Entry{}, false, nil
	}
	if err != nil {
		return content.Entry{}, false, fmt.Errorf("getting entry %s: %w", id, err)
	}
	return entry, true, nil
}

// Entries implements Store.
func (s *SQLite) Entries(ctx context.Context) ([]content.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, data, html, frontmatter FROM entries ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []content.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (content.Entry, error) {
	var (
		id, data          string
		html, frontmatter sql.NullString
	)
	if err := sc.Scan(&id, &data, &html, &frontmatter); err != nil {
		return content.Entry{}, err
	}

	entry := content.Entry{ID: id, Data: json.RawMessage(data)}
	if html.Valid {
		entry.Rendered = &content.Rendered{HTML: html.String}
		if frontmatter.Valid && frontmatter.String != jsonNull {
			if err := json.Unmarshal([]byte(frontmatter.String), &entry.Rendered.Metadata.Frontmatter); err != nil {
				return content.Entry{}, fmt.Errorf("decoding front matter of %s: %w", id, err)
			}
		}
	}
	return entry, nil
}
