package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/usbclean/internal/stats"

	_ "modernc.org/sqlite"
)

// Store persists lifetime totals and the cleanup history inside a SQLite
// database.
type Store struct {
	db *sql.DB
}

var _ stats.Store = (*Store)(nil)

// Open initializes (or reuses) a SQLite database at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path cannot be empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// DefaultPath is the stats database location under the user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache directory: %w", err)
	}
	return filepath.Join(dir, "usbclean", "stats.db"), nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS lifetime_totals (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        files INTEGER NOT NULL DEFAULT 0,
        bytes INTEGER NOT NULL DEFAULT 0
);

INSERT INTO lifetime_totals(id, files, bytes) VALUES(1, 0, 0)
ON CONFLICT(id) DO NOTHING;

CREATE TABLE IF NOT EXISTS clean_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        at INTEGER NOT NULL,
        root_path TEXT NOT NULL,
        files INTEGER NOT NULL,
        bytes INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_clean_runs_at ON clean_runs(at);
`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// Totals returns the lifetime counters.
func (s *Store) Totals(ctx context.Context) (stats.Totals, error) {
	var totals stats.Totals
	row := s.db.QueryRowContext(ctx, `SELECT files, bytes FROM lifetime_totals WHERE id = 1`)
	if err := row.Scan(&totals.Files, &totals.Bytes); err != nil {
		return stats.Totals{}, fmt.Errorf("query totals: %w", err)
	}
	return totals, nil
}

// Record appends a run and bumps the totals in one transaction.
func (s *Store) Record(ctx context.Context, run stats.Run) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO clean_runs(at, root_path, files, bytes)
VALUES(?, ?, ?, ?)
`, run.At.UnixNano(), run.Root, run.Files, run.Bytes); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE lifetime_totals SET
        files = files + ?,
        bytes = bytes + ?
WHERE id = 1
`, run.Files, run.Bytes); err != nil {
		return fmt.Errorf("update totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]stats.Run, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT at, root_path, files, bytes FROM clean_runs
ORDER BY at DESC, id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []stats.Run
	for rows.Next() {
		var (
			at   int64
			root string
			run  stats.Run
		)
		if scanErr := rows.Scan(&at, &root, &run.Files, &run.Bytes); scanErr != nil {
			return nil, fmt.Errorf("scan run: %w", scanErr)
		}
		run.At = time.Unix(0, at)
		run.Root = root
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}
