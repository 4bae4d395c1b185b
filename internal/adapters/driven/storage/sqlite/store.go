package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pemre/couchspinner/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driven"
)

// Store is a SQLite session database, either in memory or in a session file.
type Store struct {
	db    *sql.DB
	name  string
	quota int
}

// NewStore creates a new in-memory session database. If name is empty a
// random one is used, so separate stores never share data. A quota of zero
// or less disables the size limit.
func NewStore(name string, quota int) (*Store, error) {
	if name == "" {
		name = "session-" + uuid.New().String()
	}
	return open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", name), name, quota)
}

// OpenSession opens the session database for session under dir, creating it
// if needed. Every process given the same dir and session shares one
// database, so a snapshot written by one invocation is restored by the next.
func OpenSession(dir, session string, quota int) (*Store, error) {
	path := SessionPath(dir, session)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	return open(fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path), path, quota)
}

// SessionPath returns the database file for session under dir. Characters
// other than letters, digits, '-' and '_' are replaced.
func SessionPath(dir, session string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, session)
	if safe == "" {
		safe = "default"
	}
	return filepath.Join(dir, "couchspinner-session-"+safe+".db")
}

func open(dsn, name string, quota int) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One long-lived connection keeps an in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{
		db:    db,
		name:  name,
		quota: quota,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database. The session contents are discarded.
func (s *Store) Close() error {
	return s.db.Close()
}

// Name returns the shared-cache database name or the database file path.
func (s *Store) Name() string {
	return s.name
}

// KeyValueStore returns a KeyValueStore interface backed by this store.
func (s *Store) KeyValueStore() driven.KeyValueStore {
	return &keyValueStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
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
		// "001_session.up.sql" -> 1
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
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Key-Value Store ====================

// keyValueStore implements driven.KeyValueStore.
type keyValueStore struct {
	store *Store
}

var _ driven.KeyValueStore = (*keyValueStore)(nil)

// Get retrieves the value for key.
func (s *keyValueStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.store.db.QueryRowContext(ctx, "SELECT value FROM session_kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying key: %w", err)
	}
	return value, nil
}

// Set stores or replaces the value for key, enforcing the quota.
func (s *keyValueStore) Set(ctx context.Context, key, value string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if s.store.quota > 0 {
		var others int
		row := tx.QueryRowContext(ctx,
			"SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0) FROM session_kv WHERE key != ?",
			key)
		if err := row.Scan(&others); err != nil {
			return fmt.Errorf("measuring usage: %w", err)
		}
		if others+len(key)+len(value) > s.store.quota {
			return domain.ErrQuotaExceeded
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO session_kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing key: %w", err)
	}

	return tx.Commit()
}

// Delete removes key.
func (s *keyValueStore) Delete(ctx context.Context, key string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM session_kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting key: %w", err)
	}
	return nil
}
