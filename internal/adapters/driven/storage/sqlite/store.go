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
	"sync/atomic"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sercha-notes/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/sercha-notes/internal/core/domain"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

const recordColumns = `id, page_id, root_id, element_id, block_id, type, content, context,
	page_title, is_favorite, last_modified`

// Store is a SQLite-backed search record store.
type Store struct {
	db     *sql.DB
	path   string
	closed atomic.Bool
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.sercha-notes/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sercha-notes", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
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
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_search_records.up.sql" -> 1
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

// Put stores or replaces a record.
func (s *Store) Put(ctx context.Context, rec domain.SearchRecord) error {
	if rec.ID == "" {
		return domain.ErrInvalidInput
	}
	if err := s.available(); err != nil {
		return err
	}

	var lastModified sql.NullTime
	if !rec.LastModified.IsZero() {
		lastModified = sql.NullTime{Time: rec.LastModified.UTC(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			page_id = excluded.page_id,
			root_id = excluded.root_id,
			element_id = excluded.element_id,
			block_id = excluded.block_id,
			type = excluded.type,
			content = excluded.content,
			context = excluded.context,
			page_title = excluded.page_title,
			is_favorite = excluded.is_favorite,
			last_modified = excluded.last_modified
	`, rec.ID, rec.PageID, rec.RootID, rec.ElementID, rec.BlockID, rec.Type,
		rec.Content, rec.Context, rec.PageTitle, rec.IsFavorite, lastModified)
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// ClearPage removes every record of a page.
func (s *Store) ClearPage(ctx context.Context, pageID string) error {
	if err := s.available(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM search_records WHERE page_id = ?", pageID); err != nil {
		return fmt.Errorf("clearing page records: %w", err)
	}
	return nil
}

// Clear removes every record.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.available(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM search_records"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	return nil
}

// Scan visits all records in ascending ID order.
func (s *Store) Scan(ctx context.Context, fn driven.RecordFunc) error {
	return s.scan(ctx, fn, `SELECT `+recordColumns+` FROM search_records ORDER BY id`)
}

// ScanRoot visits the records of one root ordered by content.
func (s *Store) ScanRoot(ctx context.Context, rootID string, fn driven.RecordFunc) error {
	return s.scan(ctx, fn, `SELECT `+recordColumns+` FROM search_records
		WHERE root_id = ? ORDER BY root_id, content, id`, rootID)
}

// PageRecords returns all records of a page ordered by ID.
func (s *Store) PageRecords(ctx context.Context, pageID string) ([]domain.SearchRecord, error) {
	var records []domain.SearchRecord
	err := s.scan(ctx, func(rec domain.SearchRecord) bool {
		records = append(records, rec)
		return true
	}, `SELECT `+recordColumns+` FROM search_records WHERE page_id = ? ORDER BY id`, pageID)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := s.available(); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM search_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// scan buffers the result set before invoking fn, so callbacks never hold
// the connection while they run.
func (s *Store) scan(ctx context.Context, fn driven.RecordFunc, query string, args ...any) error {
	if err := s.available(); err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.SearchRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating records: %w", err)
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !fn(rec) {
			return nil
		}
	}
	return nil
}

func (s *Store) available() error {
	if s.closed.Load() {
		return domain.ErrIndexUnavailable
	}
	return nil
}

func scanRecord(rows *sql.Rows) (domain.SearchRecord, error) {
	var rec domain.SearchRecord
	var lastModified sql.NullTime
	if err := rows.Scan(&rec.ID, &rec.PageID, &rec.RootID, &rec.ElementID, &rec.BlockID,
		&rec.Type, &rec.Content, &rec.Context, &rec.PageTitle, &rec.IsFavorite,
		&lastModified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, domain.ErrNotFound
		}
		return rec, fmt.Errorf("scanning record: %w", err)
	}
	if lastModified.Valid {
		rec.LastModified = lastModified.Time
	}
	return rec, nil
}
