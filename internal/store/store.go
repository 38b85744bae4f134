// Package store keeps submitted proof documents in a SQLite database.
package store

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

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gnoswap-labs/fitch/internal/document"
)

// ErrNotFound is returned by Get when nothing was submitted under a name.
var ErrNotFound = errors.New("submission not found")

// Submission is one stored document.
type Submission struct {
	ID        string
	Name      string
	Authors   []string
	Verified  bool
	Body      string
	CreatedAt time.Time
}

// Store is a submission database.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or opens the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, path: path, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		authors_json TEXT NOT NULL,
		verified INTEGER NOT NULL DEFAULT 0,
		body TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_name ON submissions(name, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Put stores body under name. The body must be a loadable document; its
// authors and integrity flag are recorded from the document itself.
func (s *Store) Put(ctx context.Context, name, body string) (*Submission, error) {
	doc, err := document.Decode(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	if _, err := doc.Build(); err != nil {
		return nil, err
	}

	authors, err := json.Marshal(doc.Authors)
	if err != nil {
		return nil, fmt.Errorf("failed to encode authors: %w", err)
	}

	sub := &Submission{
		ID:        uuid.NewString(),
		Name:      name,
		Authors:   doc.Authors,
		Verified:  doc.Verified,
		Body:      body,
		CreatedAt: s.now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, name, authors_json, verified, body, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, string(authors), sub.Verified, sub.Body, sub.CreatedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to insert submission: %w", err)
	}
	return sub, nil
}

// Get returns the latest submission stored under name.
func (s *Store) Get(ctx context.Context, name string) (*Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, authors_json, verified, body, created_at FROM submissions
		WHERE name = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, name)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sub, err
}

// List returns every submission, newest first.
func (s *Store) List(ctx context.Context) ([]*Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, authors_json, verified, body, created_at FROM submissions
		ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var subs []*Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(sc scanner) (*Submission, error) {
	var (
		sub     Submission
		authors string
		created int64
	)
	if err := sc.Scan(&sub.ID, &sub.Name, &authors, &sub.Verified, &sub.Body, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(authors), &sub.Authors); err != nil {
		return nil, fmt.Errorf("failed to decode authors of %s: %w", sub.ID, err)
	}
	sub.CreatedAt = time.Unix(0, created).UTC()
	return &sub, nil
}
