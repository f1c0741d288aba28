// Package sqlite provides a SQLite-backed buffer store.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/bufferbell/internal/domain"
	_ "modernc.org/sqlite"
)

// BufferStore keeps buffers and the focused buffer in a SQLite database.
// It is shared between the ingestion side, which writes counters, and the
// alerting side, which reads them.
type BufferStore struct {
	db *sql.DB
}

// NewBufferStore opens (and creates if needed) the database at dbPath.
func NewBufferStore(dbPath string) (*BufferStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}

	store := &BufferStore{db: db}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying SQLite connection.
func (s *BufferStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *BufferStore) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite storage: set busy timeout: %w", err)
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite storage: create schema: %w", err)
	}

	return nil
}

// UpsertBuffer creates a buffer or updates its metadata. Counters of an
// existing buffer are left untouched.
func (s *BufferStore) UpsertBuffer(b domain.Buffer) error {
	id := strings.TrimSpace(b.ID)
	if id == "" {
		return ErrInvalidBufferID
	}
	kind := b.Kind
	if kind == "" {
		kind = domain.KindRegular
	}
	_, err := s.db.Exec(`
INSERT INTO buffers (id, short_name, full_name, server, kind, title, unread, notification, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	short_name = excluded.short_name,
	full_name  = excluded.full_name,
	server     = excluded.server,
	kind       = excluded.kind,
	title      = excluded.title,
	updated_at = excluded.updated_at`,
		id, b.ShortName, b.FullName, b.Server, string(kind), b.Title,
		nonNegative(b.Unread), nonNegative(b.Notification), utcNow())
	if err != nil {
		return fmt.Errorf("sqlite storage: upsert buffer %s: %w", id, err)
	}
	return nil
}

// RemoveBuffer deletes a buffer. Removing the focused buffer clears focus.
func (s *BufferStore) RemoveBuffer(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidBufferID
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite storage: begin remove: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`DELETE FROM buffers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite storage: remove buffer %s: %w", id, err)
	}
	if err := requireAffected(res, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM meta WHERE key = ? AND value = ?`, metaActiveBuffer, id); err != nil {
		return fmt.Errorf("sqlite storage: clear active buffer: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite storage: commit remove: %w", err)
	}
	return nil
}

// BumpCounters adds to a buffer's counters. When notification is positive,
// msg is recorded as the buffer's last highlighted line.
func (s *BufferStore) BumpCounters(id string, unread, notification int, msg domain.Message) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidBufferID
	}
	var (
		res sql.Result
		err error
	)
	if notification > 0 {
		res, err = s.db.Exec(`
UPDATE buffers SET
	unread = MAX(unread + ?, 0),
	notification = MAX(notification + ?, 0),
	last_message = ?,
	last_prefix = ?,
	updated_at = ?
WHERE id = ?`, unread, notification, msg.Text, msg.PrefixText(), utcNow(), id)
	} else {
		res, err = s.db.Exec(`
UPDATE buffers SET
	unread = MAX(unread + ?, 0),
	notification = MAX(notification + ?, 0),
	updated_at = ?
WHERE id = ?`, unread, notification, utcNow(), id)
	}
	if err != nil {
		return fmt.Errorf("sqlite storage: bump counters %s: %w", id, err)
	}
	return requireAffected(res, id)
}

// ResetCounters marks a buffer as read.
func (s *BufferStore) ResetCounters(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidBufferID
	}
	res, err := s.db.Exec(`UPDATE buffers SET unread = 0, notification = 0, updated_at = ? WHERE id = ?`, utcNow(), id)
	if err != nil {
		return fmt.Errorf("sqlite storage: reset counters %s: %w", id, err)
	}
	return requireAffected(res, id)
}

// ListBuffers returns all buffers ordered by ID.
func (s *BufferStore) ListBuffers() ([]domain.Buffer, error) {
	rows, err := s.db.Query(`SELECT ` + bufferColumns + ` FROM buffers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list buffers: %w", err)
	}
	defer rows.Close()

	var buffers []domain.Buffer
	for rows.Next() {
		b, err := scanBuffer(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite storage: scan buffer: %w", err)
		}
		buffers = append(buffers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: iterate buffers: %w", err)
	}
	return buffers, nil
}

// GetBuffer returns the buffer with id. The boolean is false when it does not exist.
func (s *BufferStore) GetBuffer(id string) (domain.Buffer, bool, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Buffer{}, false, nil
	}
	row := s.db.QueryRow(`SELECT `+bufferColumns+` FROM buffers WHERE id = ?`, id)
	b, err := scanBuffer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Buffer{}, false, nil
	}
	if err != nil {
		return domain.Buffer{}, false, fmt.Errorf("sqlite storage: get buffer %s: %w", id, err)
	}
	return b, true, nil
}

// GetActiveBuffer returns the focused buffer, if any.
func (s *BufferStore) GetActiveBuffer() (domain.Buffer, bool, error) {
	var id string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, metaActiveBuffer).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Buffer{}, false, nil
	}
	if err != nil {
		return domain.Buffer{}, false, fmt.Errorf("sqlite storage: get active buffer: %w", err)
	}
	return s.GetBuffer(id)
}

// SetActiveBuffer focuses a buffer and marks it as read.
func (s *BufferStore) SetActiveBuffer(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidBufferID
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite storage: begin focus: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`UPDATE buffers SET unread = 0, notification = 0, updated_at = ? WHERE id = ?`, utcNow(), id)
	if err != nil {
		return fmt.Errorf("sqlite storage: focus buffer %s: %w", id, err)
	}
	if err := requireAffected(res, id); err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`, metaActiveBuffer, id)
	if err != nil {
		return fmt.Errorf("sqlite storage: set active buffer: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite storage: commit focus: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBuffer(row scanner) (domain.Buffer, error) {
	var (
		b    domain.Buffer
		kind string
	)
	err := row.Scan(&b.ID, &b.ShortName, &b.FullName, &b.Server, &kind, &b.Title,
		&b.Unread, &b.Notification, &b.LastMessage, &b.LastPrefix)
	if err != nil {
		return domain.Buffer{}, err
	}
	b.Kind = domain.ParseBufferKind(kind)
	return b, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite storage: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrBufferNotFound, id)
	}
	return nil
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func utcNow() string {
	return time.Now().UTC().Format(time.RFC3339)
}
