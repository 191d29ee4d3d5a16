// Package journal keeps an append-only record of what happened during an event
// (codes issued, selections, streams, questions) in SQLite. It is write-only
// from the coordinator's point of view: nothing is ever read back into session
// state.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

type Kind string

const (
	KindCodeIssued     Kind = "code-issued"
	KindCodeRetired    Kind = "code-retired"
	KindSelected       Kind = "selected"
	KindStreamStarted  Kind = "stream-started"
	KindStreamEnded    Kind = "stream-ended"
	KindQuestionOpened Kind = "question-opened"
	KindQuestionClosed Kind = "question-closed"
)

var ErrClosed = errors.New("journal closed")

type Entry struct {
	ID     int64     `json:"id"`
	At     time.Time `json:"at"`
	Kind   Kind      `json:"kind"`
	Code   string    `json:"code,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// Recorder is what the coordinator writes to. Record must not block.
type Recorder interface {
	Record(Entry)
}

// Nop discards entries.
type Nop struct{}

func (Nop) Record(Entry) {}

const schema = `
CREATE TABLE IF NOT EXISTS journal (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    at_unix_ms INTEGER NOT NULL,
    kind TEXT NOT NULL,
    code TEXT NOT NULL DEFAULT '',
    detail TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_journal_kind ON journal(kind);
`

// Store writes entries from a buffered channel on its own goroutine so the
// coordinator never waits on disk.
type Store struct {
	db      *sql.DB
	entries chan Entry
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

func Open(path string, buffer int) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if buffer <= 0 {
		buffer = 256
	}
	s := &Store{
		db:      db,
		entries: make(chan Entry, buffer),
		done:    make(chan struct{}),
	}
	go s.writeLoop()
	log.Info().Str("module", "journal").Str("path", path).Msg("journal opened")
	return s, nil
}

// Record enqueues e; when the buffer is full the entry is dropped and logged.
func (s *Store) Record(e Entry) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.entries <- e:
	default:
		log.Warn().Str("module", "journal").Str("kind", string(e.Kind)).Msg("journal buffer full, entry dropped")
	}
}

func (s *Store) writeLoop() {
	defer close(s.done)
	for e := range s.entries {
		if err := s.insert(e); err != nil {
			log.Error().Err(err).Str("module", "journal").Str("kind", string(e.Kind)).Msg("journal write")
		}
	}
}

func (s *Store) insert(e Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO journal (at_unix_ms, kind, code, detail) VALUES (?, ?, ?, ?)`,
		e.At.UnixMilli(), string(e.Kind), e.Code, e.Detail,
	)
	return err
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at_unix_ms, kind, code, detail FROM journal ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			e  Entry
			ms int64
			k  string
		)
		if err := rows.Scan(&e.ID, &ms, &k, &e.Code, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		e.At = time.UnixMilli(ms)
		e.Kind = Kind(k)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close drains pending entries and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.entries)
	s.mu.Unlock()

	<-s.done
	return s.db.Close()
}
