package lookupcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"relnotes/internal/cvelookup"
	"relnotes/internal/logging"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond

	// Fixed width so resolved_at compares correctly as text.
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
)

// Entry is one cached lookup.
type Entry struct {
	Identifier string
	Result     cvelookup.Result
	ResolvedAt time.Time
}

// Store persists lookups in SQLite.
type Store struct {
	db     *sql.DB
	path   string
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// Open creates or opens the cache database at path. A ttl <= 0 keeps entries forever.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("lookupcache: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   path,
		ttl:    ttl,
		now:    time.Now,
		logger: logging.NewComponentLogger(logger, "lookupcache"),
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the cached result for identifier when present and fresh.
func (s *Store) Get(ctx context.Context, identifier string) (cvelookup.Result, bool, error) {
	var (
		result     cvelookup.Result
		resolvedAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT url, title, resolved_at FROM lookups WHERE identifier = ?", identifier,
	).Scan(&result.URL, &result.Title, &resolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return cvelookup.Result{}, false, nil
	}
	if err != nil {
		return cvelookup.Result{}, false, fmt.Errorf("query lookup: %w", err)
	}
	ts, err := time.Parse(timestampLayout, resolvedAt)
	if err != nil || s.expired(ts) {
		return cvelookup.Result{}, false, nil
	}
	return result, true, nil
}

// Put stores an authoritative result. Redaction pairs are ignored.
func (s *Store) Put(ctx context.Context, identifier string, result cvelookup.Result) error {
	if result.IsRedacted() {
		return nil
	}
	return s.execWithRetry(ctx,
		`INSERT INTO lookups (identifier, url, title, resolved_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(identifier) DO UPDATE SET url = excluded.url, title = excluded.title, resolved_at = excluded.resolved_at`,
		identifier, result.URL, result.Title, s.now().UTC().Format(timestampLayout),
	)
}

// List returns every cached entry ordered by identifier, fresh or not.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT identifier, url, title, resolved_at FROM lookups ORDER BY identifier")
	if err != nil {
		return nil, fmt.Errorf("list lookups: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry      Entry
			resolvedAt string
		)
		if err := rows.Scan(&entry.Identifier, &entry.Result.URL, &entry.Result.Title, &resolvedAt); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		entry.ResolvedAt, _ = time.Parse(timestampLayout, resolvedAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Expired reports whether an entry is past the TTL.
func (s *Store) Expired(entry Entry) bool {
	return s.expired(entry.ResolvedAt)
}

// Clear removes every entry and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	return s.deleteWithRetry(ctx, "DELETE FROM lookups")
}

// Prune removes entries past the TTL.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.ttl).UTC().Format(timestampLayout)
	return s.deleteWithRetry(ctx, "DELETE FROM lookups WHERE resolved_at < ?", cutoff)
}

func (s *Store) expired(ts time.Time) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(ts) > s.ttl
}

func (s *Store) deleteWithRetry(ctx context.Context, query string, args ...any) (int64, error) {
	var res sql.Result
	if err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return 0, fmt.Errorf("delete lookups: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
