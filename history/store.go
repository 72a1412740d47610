// Package history records every successful stack dump in a SQLite database
// so earlier snapshots of a process can be listed and rendered again.
package history

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ardnew/spyview/pkg"
	"github.com/ardnew/spyview/stack"
)

// DefaultFile is the database file name under the cache directory.
const DefaultFile = "history.db"

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT    NOT NULL,
	pid         TEXT    NOT NULL,
	cmdline     TEXT    NOT NULL DEFAULT '',
	taken_at    INTEGER NOT NULL,
	frame_count INTEGER NOT NULL,
	dump        TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_session ON snapshots(session_id);
CREATE INDEX IF NOT EXISTS idx_snapshots_taken ON snapshots(taken_at);
`

// Entry is one recorded dump.
type Entry struct {
	Taken      time.Time `json:"taken"      yaml:"taken"`
	SessionID  string    `json:"session"    yaml:"session"`
	PID        string    `json:"pid"        yaml:"pid"`
	CmdLine    string    `json:"cmdline"    yaml:"cmdline"`
	Dump       string    `json:"dump,omitempty" yaml:"dump,omitempty"`
	ID         int64     `json:"id"         yaml:"id"`
	FrameCount int       `json:"frames"     yaml:"frames"`
}

// Frames parses the recorded dump.
func (e Entry) Frames() []stack.Frame { return stack.Parse(e.Dump) }

// NewSessionID returns an identifier grouping the dumps of one attachment.
func NewSessionID() string { return uuid.NewString() }

// Store is a SQLite-backed snapshot history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), pkg.DirMode); err != nil {
		return nil, pkg.ErrHistory.Wrap(err)
	}

	db, err := sql.Open("sqlite3",
		path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, pkg.ErrHistory.Wrap(err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()

		return nil, pkg.ErrHistory.Wrap(err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Record stores e and returns its assigned ID. A zero Taken time is set to
// now.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if e.Taken.IsZero() {
		e.Taken = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (session_id, pid, cmdline, taken_at, frame_count, dump)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.PID, e.CmdLine, e.Taken.UnixNano(), e.FrameCount, e.Dump,
	)
	if err != nil {
		return 0, pkg.ErrHistory.Wrap(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, pkg.ErrHistory.Wrap(err)
	}

	return id, nil
}

// List returns up to limit entries, newest first, without their dump text.
// A pid filters to one process; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, pid string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, pid, cmdline, taken_at, frame_count
		 FROM snapshots
		 WHERE ? = '' OR pid = ?
		 ORDER BY taken_at DESC, id DESC
		 LIMIT ?`,
		pid, pid, limit,
	)
	if err != nil {
		return nil, pkg.ErrHistory.Wrap(err)
	}
	defer rows.Close()

	var entries []Entry

	for rows.Next() {
		var (
			e     Entry
			taken int64
		)

		if err := rows.Scan(
			&e.ID, &e.SessionID, &e.PID, &e.CmdLine, &taken, &e.FrameCount,
		); err != nil {
			return nil, pkg.ErrHistory.Wrap(err)
		}

		e.Taken = time.Unix(0, taken)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, pkg.ErrHistory.Wrap(err)
	}

	return entries, nil
}

// Get returns the entry with the given ID, including its dump text. A
// missing entry wraps [sql.ErrNoRows].
func (s *Store) Get(ctx context.Context, id int64) (Entry, error) {
	var (
		e     Entry
		taken int64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, pid, cmdline, taken_at, frame_count, dump
		 FROM snapshots WHERE id = ?`, id,
	).Scan(&e.ID, &e.SessionID, &e.PID, &e.CmdLine, &taken, &e.FrameCount, &e.Dump)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, pkg.ErrHistory.Wrap(sql.ErrNoRows)
		}

		return Entry{}, pkg.ErrHistory.Wrap(err)
	}

	e.Taken = time.Unix(0, taken)

	return e, nil
}

// Prune deletes all but the newest keep entries and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY taken_at DESC, id DESC LIMIT ?
		)`, keep,
	)
	if err != nil {
		return 0, pkg.ErrHistory.Wrap(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, pkg.ErrHistory.Wrap(err)
	}

	return n, nil
}
