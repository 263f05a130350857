// Package sqlstore provides a SQLite-backed model.Store. Each row holds one
// form document (data, schema and violations) in the format accepted by
// memory.ParseForm; rows are materialised into memory forms on first lookup
// and cached until the row is replaced.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-xmlform/pkg/model"
	"github.com/goliatone/go-xmlform/pkg/model/memory"
)

const schemaDDL = `CREATE TABLE IF NOT EXISTS forms (
	id TEXT PRIMARY KEY,
	document BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store persists form documents in SQLite.
type Store struct {
	sqlDB   *sql.DB
	options []memory.FormOption

	mu    sync.Mutex
	cache map[string]*memory.Form
	// gen counts replacements per id; a lookup caches its form only if no
	// Put landed between reading the row and storing the result.
	gen   map[string]uint64

	afterRead func(id string)
}

var _ model.Store = (*Store)(nil)

// Open opens (or creates) the database at path and ensures the schema exists.
// Form options are applied to every materialised form.
func Open(path string, options ...memory.FormOption) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlstore: storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schemaDDL); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: create schema: %w", err)
	}
	return &Store{
		sqlDB:   sqlDB,
		options: options,
		cache:   make(map[string]*memory.Form),
		gen:     make(map[string]uint64),
	}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Put validates and stores a form document, replacing any previous version.
func (s *Store) Put(ctx context.Context, id string, document []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("sqlstore: storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("sqlstore: form id is required")
	}
	if _, err := memory.ParseForm(id, document, id, s.options...); err != nil {
		return fmt.Errorf("sqlstore: %w", err)
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO forms (id, document, updated_at) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		id, document, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("sqlstore: put form %q: %w", id, err)
	}

	s.mu.Lock()
	delete(s.cache, id)
	s.gen[id]++
	s.mu.Unlock()
	return nil
}

// LookupForm implements model.Store.
func (s *Store) LookupForm(ctx context.Context, id string) (model.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("sqlstore: storage is not configured")
	}

	s.mu.Lock()
	cached, ok := s.cache[id]
	gen := s.gen[id]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	var document []byte
	row := s.sqlDB.QueryRowContext(ctx, `SELECT document FROM forms WHERE id = ?`, id)
	if err := row.Scan(&document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sqlstore: form %q: %w", id, model.ErrFormNotFound)
		}
		return nil, fmt.Errorf("sqlstore: get form %q: %w", id, err)
	}
	if s.afterRead != nil {
		s.afterRead(id)
	}

	form, err := memory.ParseForm(id, document, id, s.options...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[id] != gen {
		return form, nil
	}
	if existing, ok := s.cache[id]; ok {
		return existing, nil
	}
	s.cache[id] = form
	return form, nil
}

// IDs lists stored form ids in ascending order.
func (s *Store) IDs(ctx context.Context) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id FROM forms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list forms: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlstore: scan form id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: list forms: %w", err)
	}
	return ids, nil
}
