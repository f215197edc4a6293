package linkstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLite stores links in a single table of a local database file.
type SQLite struct {
	db   *sql.DB
	path string
}

func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "planner.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS links (
		code TEXT PRIMARY KEY,
		units TEXT NOT NULL,
		formation TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create links table: %w", err)
	}
	return &SQLite{db: db, path: path}, nil
}

func (s *SQLite) Save(ctx context.Context, link Link) error {
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO links (code, units, formation, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(code) DO NOTHING`,
		link.Code, link.Units, link.Formation, link.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert link: %w", err)
	}
	if n == 0 {
		return ErrCodeTaken
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, code string) (Link, error) {
	var (
		link    = Link{Code: code}
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT units, formation, created_at FROM links WHERE code = ?`, code).
		Scan(&link.Units, &link.Formation, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Link{}, ErrLinkNotFound
	}
	if err != nil {
		return Link{}, fmt.Errorf("select link: %w", err)
	}
	link.CreatedAt = time.UnixMilli(created).UTC()
	return link, nil
}

func (s *SQLite) Path() string { return s.path }

func (s *SQLite) Close() error { return s.db.Close() }
