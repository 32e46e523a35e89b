// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache keeps fetched documentation in a local SQLite database so a
// caller can skip repeat round trips. The API client never touches it.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/libdocs/pkg/types"
)

const dbFile = "docs-cache.db"

// Store manages the cache database.
type Store struct {
	db  *sql.DB
	ttl time.Duration

	// now is swapped in tests.
	now func() time.Time
}

// Open opens or creates the cache database at cfg.Dir/docs-cache.db.
func Open(cfg types.CacheConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = types.DefaultCacheTTL
	}

	s := &Store{db: db, ttl: ttl, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS docs (
		key TEXT PRIMARY KEY,
		library_id TEXT NOT NULL,
		topic TEXT NOT NULL,
		tokens INTEGER NOT NULL,
		content TEXT NOT NULL,
		library TEXT NOT NULL,
		version TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	)`)
	return err
}

// Key identifies a request by identifier, topic, and effective token limit.
func Key(req types.DocRequest) string {
	return strings.Join([]string{
		req.Identifier.String(),
		strings.TrimSpace(req.Topic),
		strconv.Itoa(req.EffectiveTokenLimit()),
	}, "|")
}

// Get returns the cached response for req. ok is false on a miss or when
// the entry is older than the TTL.
func (s *Store) Get(ctx context.Context, req types.DocRequest) (resp types.DocResponse, ok bool, err error) {
	var libraryJSON, fetchedAt string
	err = s.db.QueryRowContext(ctx,
		`SELECT content, library, version, fetched_at FROM docs WHERE key = ?`, Key(req),
	).Scan(&resp.Content, &libraryJSON, &resp.Version, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.DocResponse{}, false, nil
	}
	if err != nil {
		return types.DocResponse{}, false, fmt.Errorf("reading cache entry: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil || s.now().Sub(t) > s.ttl {
		return types.DocResponse{}, false, nil
	}
	if err := json.Unmarshal([]byte(libraryJSON), &resp.Library); err != nil {
		return types.DocResponse{}, false, nil
	}
	return resp, true, nil
}

// Put stores resp under req's key, replacing any older entry.
func (s *Store) Put(ctx context.Context, req types.DocRequest, resp types.DocResponse) error {
	libraryJSON, err := json.Marshal(resp.Library)
	if err != nil {
		return fmt.Errorf("encoding library metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO docs (key, library_id, topic, tokens, content, library, version, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			content=excluded.content, library=excluded.library,
			version=excluded.version, fetched_at=excluded.fetched_at`,
		Key(req), req.Identifier.String(), strings.TrimSpace(req.Topic), req.EffectiveTokenLimit(),
		resp.Content, string(libraryJSON), resp.Version,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM docs`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}
