package storage

import (
	"path/filepath"
	"testing"

	"github.com/cristianoliveira/bufferbell/internal/domain"
	"github.com/cristianoliveira/bufferbell/internal/storage/sqlite"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.UpsertBuffer(domain.Buffer{ID: "libera.#go", ShortName: "#go", Server: "libera"}))
	require.NoError(t, s.UpsertBuffer(domain.Buffer{ID: "libera.alice", ShortName: "alice", Kind: domain.KindPrivate}))

	msg := domain.Message{Text: "ping", Prefix: []domain.PrefixSegment{{Text: "bob"}}}
	require.NoError(t, s.BumpCounters("libera.#go", 2, 1, msg))

	b, ok, err := s.GetBuffer("libera.#go")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.KindRegular, b.Kind)
	require.Equal(t, 2, b.Unread)
	require.Equal(t, 1, b.Notification)
	require.Equal(t, "bob", b.LastPrefix)

	// Metadata updates keep counters.
	require.NoError(t, s.UpsertBuffer(domain.Buffer{ID: "libera.#go", ShortName: "#go", Title: "Gophers"}))
	b, _, _ = s.GetBuffer("libera.#go")
	require.Equal(t, "Gophers", b.Title)
	require.Equal(t, 2, b.Unread)

	list, err := s.ListBuffers()
	require.NoError(t, err)
	require.Equal(t, "libera.#go", list[0].ID)
	require.Equal(t, "libera.alice", list[1].ID)

	require.NoError(t, s.SetActiveBuffer("libera.#go"))
	active, ok, err := s.GetActiveBuffer()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, active.Notification)

	require.NoError(t, s.RemoveBuffer("libera.#go"))
	_, ok, err = s.GetActiveBuffer()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreErrors(t *testing.T) {
	s := NewMemoryStore()
	require.ErrorIs(t, s.UpsertBuffer(domain.Buffer{ID: " "}), ErrInvalidBufferID)
	require.ErrorIs(t, s.RemoveBuffer("x"), ErrBufferNotFound)
	require.ErrorIs(t, s.BumpCounters("x", 1, 1, domain.Message{}), ErrBufferNotFound)
	require.ErrorIs(t, s.ResetCounters("x"), ErrBufferNotFound)
	require.ErrorIs(t, s.SetActiveBuffer("x"), ErrBufferNotFound)
	require.ErrorIs(t, s.SetActiveBuffer(""), ErrInvalidBufferID)
}

func TestNewMemoryStoreSeedsCounters(t *testing.T) {
	s := NewMemoryStore(domain.Buffer{ID: "a", Unread: 3, Notification: -1, LastMessage: "hi"})
	b, ok, err := s.GetBuffer("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, b.Unread)
	require.Equal(t, 0, b.Notification)
	require.Equal(t, "hi", b.LastMessage)
}

func TestNewForBackend(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "buffers.db")

	s, err := NewForBackend("sqlite", dbPath)
	require.NoError(t, err)
	require.IsType(t, &sqlite.BufferStore{}, s)
	require.NoError(t, s.Close())

	s, err = NewForBackend("MEMORY", "")
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, s)

	_, err = NewForBackend("tsv", dbPath)
	require.Error(t, err)
}

func TestNewForBackendFallsBackToMemory(t *testing.T) {
	s, err := NewForBackend(BackendSQLite, "")
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, s)
}
