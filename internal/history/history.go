// Package history records check runs in a SQLite database so documentation
// health can be compared over time.
package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/sqldoclint/pkg/report"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // sqlite driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// DefaultPath is the history database used when none is configured.
const DefaultPath = ".sqldoclint/history.db"

// timeFormat sorts lexically in UTC.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Run is one recorded check.
type Run struct {
	ID        string        `json:"id" yaml:"id"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	FileCount int           `json:"files" yaml:"files"`
	Counts    report.Counts `json:"counts" yaml:"counts"`
	Files     []FileRun     `json:"file_results,omitempty" yaml:"file_results,omitempty"`
}

// Failed reports whether the run had invalid snippets.
func (r Run) Failed() bool {
	return r.Counts.Invalid > 0
}

// FileRun is the per-document tally of a run.
type FileRun struct {
	Path   string        `json:"path" yaml:"path"`
	Counts report.Counts `json:"counts" yaml:"counts"`
}

// Entry is a stored snippet result.
type Entry struct {
	Path    string `json:"path" yaml:"path"`
	Index   int    `json:"index" yaml:"index"`
	Section string `json:"section" yaml:"section"`
	Line    int    `json:"line" yaml:"line"`
	Dialect string `json:"dialect" yaml:"dialect"`
	Source  string `json:"source" yaml:"source"`
	Outcome string `json:"outcome" yaml:"outcome"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Store persists runs.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Open opens (creating if needed) the database at path and applies pending
// migrations. Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	dsn := path
	if path == ":memory:" {
		dsn = "file::memory:"
	}
	dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// one connection keeps ":memory:" databases alive and serialises writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	s := NewWithDB(db, logger)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.logger.Debug("opened history database", "path", path)
	return s, nil
}

// NewWithDB wraps an existing connection without migrating it.
func NewWithDB(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
}

// Migrate applies pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores the reports of one check as a new run.
func (s *Store) Record(ctx context.Context, reports []report.Report) (*Run, error) {
	run := &Run{
		ID:        s.newID(),
		StartedAt: s.now(),
		FileCount: len(reports),
		Counts:    report.Combine(reports).Counts,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, files, total, valid, invalid, unsupported) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Format(timeFormat), run.FileCount,
		run.Counts.Total, run.Counts.Valid, run.Counts.Invalid, run.Counts.Unsupported,
	); err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	for _, rep := range reports {
		c := rep.Summary.Counts
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_files (run_id, path, total, valid, invalid, unsupported) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, rep.Path, c.Total, c.Valid, c.Invalid, c.Unsupported,
		); err != nil {
			return nil, fmt.Errorf("failed to insert file %s: %w", rep.Path, err)
		}
		for _, e := range rep.Entries {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_entries (run_id, path, snippet_index, section, line, dialect, source, outcome, message)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID, rep.Path, e.Index, e.Section, e.DocLine(), e.Result.Dialect.String(),
				e.Classification.Source.String(), e.Result.Outcome.String(), e.Result.Message,
			); err != nil {
				return nil, fmt.Errorf("failed to insert entry %d of %s: %w", e.Index, rep.Path, err)
			}
		}
		run.Files = append(run.Files, FileRun{Path: rep.Path, Counts: c})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}
	s.logger.Debug("recorded run", slog.String("id", run.ID), slog.Int("files", run.FileCount))
	return run, nil
}

// List returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, files, total, valid, invalid, unsupported
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Get returns a run with its per-file tallies.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, files, total, valid, invalid, unsupported FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, total, valid, invalid, unsupported FROM run_files WHERE run_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run files: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f FileRun
		if err := rows.Scan(&f.Path, &f.Counts.Total, &f.Counts.Valid, &f.Counts.Invalid, &f.Counts.Unsupported); err != nil {
			return nil, fmt.Errorf("failed to scan run file: %w", err)
		}
		run.Files = append(run.Files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get run files: %w", err)
	}
	return run, nil
}

// Problems returns the non-valid entries of a run in document order.
func (s *Store) Problems(ctx context.Context, id string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.path, e.snippet_index, e.section, e.line, e.dialect, e.source, e.outcome, e.message
		 FROM run_entries e JOIN run_files f ON f.run_id = e.run_id AND f.path = e.path
		 WHERE e.run_id = ? AND e.outcome <> 'valid'
		 ORDER BY f.rowid, e.snippet_index`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.Index, &e.Section, &e.Line, &e.Dialect, &e.Source, &e.Outcome, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan run entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get run entries: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r       Run
		started string
	)
	err := sc.Scan(&r.ID, &started, &r.FileCount,
		&r.Counts.Total, &r.Counts.Valid, &r.Counts.Invalid, &r.Counts.Unsupported)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	r.StartedAt, err = time.Parse(timeFormat, started)
	if err != nil {
		return nil, fmt.Errorf("invalid start time for run %s: %w", r.ID, err)
	}
	return &r, nil
}
