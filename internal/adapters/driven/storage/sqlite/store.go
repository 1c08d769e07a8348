package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.TripleStore = (*Store)(nil)

// DefaultFileName is the database file created inside the data directory.
const DefaultFileName = "ontology.db"

// Store is a SQLite-backed triple store.
type Store struct {
	db     *sql.DB
	path   string
	mu     sync.RWMutex
	closed bool
}

// NewStore opens the triple database at path, creating it if needed.
// If path is empty, defaults to ~/.ecore2owl/data/ontology.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".ecore2owl", "data", DefaultFileName)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
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
		// "001_triples.up.sql" -> 1
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

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	return nil
}

// Add stores t and reports whether it was new.
func (s *Store) Add(ctx context.Context, t domain.Triple) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO triples (s_kind, s, p, o_kind, o, o_datatype, o_lang)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, tripleArgs(t)...)
	if err != nil {
		return false, fmt.Errorf("adding triple: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("adding triple: %w", err)
	}
	return n > 0, nil
}

// Remove deletes t.
func (s *Store) Remove(ctx context.Context, t domain.Triple) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM triples
		WHERE s_kind = ? AND s = ? AND p = ? AND o_kind = ? AND o = ? AND o_datatype = ? AND o_lang = ?
	`, tripleArgs(t)...)
	if err != nil {
		return fmt.Errorf("removing triple: %w", err)
	}
	return nil
}

// Has reports whether t is stored.
func (s *Store) Has(ctx context.Context, t domain.Triple) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM triples
		WHERE s_kind = ? AND s = ? AND p = ? AND o_kind = ? AND o = ? AND o_datatype = ? AND o_lang = ?
	`, tripleArgs(t)...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking triple: %w", err)
	}
	return true, nil
}

// Match returns the triples matching p in insertion order.
func (s *Store) Match(ctx context.Context, p domain.Pattern) ([]domain.Triple, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if p.Subject != nil {
		where = append(where, "s_kind = ? AND s = ?")
		args = append(args, int(p.Subject.Kind), p.Subject.Value)
	}
	if p.Predicate != nil {
		where = append(where, "p = ?")
		args = append(args, p.Predicate.Value)
	}
	if p.Object != nil {
		where = append(where, "o_kind = ? AND o = ? AND o_datatype = ? AND o_lang = ?")
		args = append(args, int(p.Object.Kind), p.Object.Value, p.Object.Datatype, p.Object.Lang)
	}

	query := "SELECT s_kind, s, p, o_kind, o, o_datatype, o_lang FROM triples"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("matching triples: %w", err)
	}
	defer rows.Close()

	var result []domain.Triple
	for rows.Next() {
		t, err := scanTriple(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// All returns every stored triple in insertion order.
func (s *Store) All(ctx context.Context) ([]domain.Triple, error) {
	return s.Match(ctx, domain.Pattern{})
}

// Len returns the number of stored triples.
func (s *Store) Len(ctx context.Context) (int, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM triples").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting triples: %w", err)
	}
	return n, nil
}

// Clear deletes all triples.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM triples"); err != nil {
		return fmt.Errorf("clearing triples: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// tripleArgs returns the column values of t in table order.
func tripleArgs(t domain.Triple) []any {
	return []any{
		int(t.Subject.Kind), t.Subject.Value,
		t.Predicate.Value,
		int(t.Object.Kind), t.Object.Value, t.Object.Datatype, t.Object.Lang,
	}
}

func scanTriple(rows *sql.Rows) (domain.Triple, error) {
	var sKind, oKind int
	var subj, pred, obj, objDatatype, objLang string
	if err := rows.Scan(&sKind, &subj, &pred, &oKind, &obj, &objDatatype, &objLang); err != nil {
		return domain.Triple{}, fmt.Errorf("scanning triple: %w", err)
	}
	return domain.Triple{
		Subject:   domain.Term{Kind: domain.TermKind(sKind), Value: subj},
		Predicate: domain.IRI(pred),
		Object: domain.Term{
			Kind:     domain.TermKind(oKind),
			Value:    obj,
			Datatype: objDatatype,
			Lang:     objLang,
		},
	}, nil
}
