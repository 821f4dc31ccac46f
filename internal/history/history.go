// Package history records analysis runs and their best matches in a SQLite
// database so results can be compared across revisions of a manuscript.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/suykerbuyk/manuscript-match/internal/analyze"
)

// ErrNotFound is returned by Get when no run matches.
var ErrNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	started_at      INTEGER NOT NULL,
	manuscript_dir  TEXT NOT NULL,
	fragment_count  INTEGER NOT NULL,
	main_text_count INTEGER NOT NULL,
	matched_count   INTEGER NOT NULL,
	archive_path    TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS matches (
	run_id         TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	fragment       TEXT NOT NULL,
	fragment_index INTEGER NOT NULL DEFAULT 0,
	rank           INTEGER NOT NULL,
	target         TEXT NOT NULL,
	total          REAL NOT NULL,
	keyword        REAL NOT NULL,
	dialogue       REAL NOT NULL,
	location       REAL NOT NULL,
	theme          REAL NOT NULL,
	emotion        REAL NOT NULL,
	PRIMARY KEY (run_id, fragment, rank)
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs(started_at);
`

// Run is one recorded analysis.
type Run struct {
	ID            string
	StartedAt     time.Time
	ManuscriptDir string
	FragmentCount int
	MainTextCount int
	MatchedCount  int // fragments with at least one match
	ArchivePath   string
	Matches       []Match // filled by Get and NewRun, not by List
}

// Match is one ranked candidate for a fragment.
type Match struct {
	Fragment      string
	FragmentIndex int // position of the fragment in the manuscript
	Rank          int // 1-based
	Target        string
	Total         float64
	Keyword       float64
	Dialogue      float64
	Location      float64
	Theme         float64
	Emotion       float64
}

// NewRun captures res as a Run with a fresh ID.
func NewRun(res *analyze.Result, manuscriptDir string, at time.Time) Run {
	run := Run{
		ID:            uuid.NewString(),
		StartedAt:     at,
		ManuscriptDir: manuscriptDir,
		FragmentCount: res.Summary.FragmentCount,
		MainTextCount: res.Summary.MainTextCount,
	}
	for fi, fr := range res.Fragments {
		if len(fr.Matches) > 0 {
			run.MatchedCount++
		}
		for i, m := range fr.Matches {
			run.Matches = append(run.Matches, Match{
				Fragment:      fr.Profile.Title,
				FragmentIndex: fi,
				Rank:          i + 1,
				Target:        m.Target.Title,
				Total:         m.Total,
				Keyword:       m.Signals.Keyword,
				Dialogue:      m.Signals.Dialogue,
				Location:      m.Signals.Location,
				Theme:         m.Signals.Theme,
				Emotion:       m.Signals.Emotion,
			})
		}
	}
	return run
}

// Store is an open history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// One connection keeps pragmas and writes serialized.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		schema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init history: %w", err)
		}
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// migrate adds columns introduced after a database was created.
func migrate(db *sql.DB) error {
	var n int
	err := db.QueryRow(`SELECT count(*) FROM pragma_table_info('matches') WHERE name = 'fragment_index'`).Scan(&n)
	if err != nil {
		return fmt.Errorf("migrate history: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := db.Exec(`ALTER TABLE matches ADD COLUMN fragment_index INTEGER NOT NULL DEFAULT 0`); err != nil {
		return fmt.Errorf("migrate history: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores run and its matches in one transaction.
func (s *Store) Record(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, manuscript_dir, fragment_count, main_text_count, matched_count, archive_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.ManuscriptDir,
		run.FragmentCount, run.MainTextCount, run.MatchedCount, run.ArchivePath)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO matches (run_id, fragment, fragment_index, rank, target, total, keyword, dialogue, location, theme, emotion)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare matches: %w", err)
	}
	defer stmt.Close()

	for _, m := range run.Matches {
		if _, err := stmt.ExecContext(ctx, run.ID, m.Fragment, m.FragmentIndex, m.Rank, m.Target,
			m.Total, m.Keyword, m.Dialogue, m.Location, m.Theme, m.Emotion); err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

const runColumns = `id, started_at, manuscript_dir, fragment_count, main_text_count, matched_count, archive_path`

// List returns up to limit runs, newest first. A limit of 0 or less lists
// every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns the run whose ID equals or uniquely starts with id, with its
// matches in manuscript fragment order, then by rank.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs
		 WHERE substr(id, 1, length(?)) = ?
		 ORDER BY id = ? DESC, id LIMIT 2`, id, id, id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	var found []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		found = append(found, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	// An exact ID sorts first.
	if len(found) == 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if len(found) > 1 && found[0].ID != id {
		return nil, fmt.Errorf("run ID prefix %q is ambiguous", id)
	}

	run := found[0]
	matches, err := s.db.QueryContext(ctx,
		`SELECT fragment, fragment_index, rank, target, total, keyword, dialogue, location, theme, emotion
		 FROM matches WHERE run_id = ? ORDER BY fragment_index, fragment, rank`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("get matches: %w", err)
	}
	defer matches.Close()

	for matches.Next() {
		var m Match
		if err := matches.Scan(&m.Fragment, &m.FragmentIndex, &m.Rank, &m.Target,
			&m.Total, &m.Keyword, &m.Dialogue, &m.Location, &m.Theme, &m.Emotion); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		run.Matches = append(run.Matches, m)
	}
	if err := matches.Err(); err != nil {
		return nil, fmt.Errorf("get matches: %w", err)
	}

	return &run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var started int64
	if err := row.Scan(&run.ID, &started, &run.ManuscriptDir,
		&run.FragmentCount, &run.MainTextCount, &run.MatchedCount, &run.ArchivePath); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = time.UnixMilli(started).UTC()
	return run, nil
}
