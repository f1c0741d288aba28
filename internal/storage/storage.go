// Package storage provides buffer store selection and an in-memory store.
package storage

import (
	"github.com/cristianoliveira/bufferbell/internal/domain"
	"github.com/cristianoliveira/bufferbell/internal/ports"
	"github.com/cristianoliveira/bufferbell/internal/storage/sqlite"
)

var (
	// ErrInvalidBufferID indicates an empty buffer ID.
	ErrInvalidBufferID = sqlite.ErrInvalidBufferID
	// ErrBufferNotFound indicates that a buffer cannot be found.
	ErrBufferNotFound = sqlite.ErrBufferNotFound
)

// Store is the full buffer store: the read side used by the alerting layer
// plus the write operations of the ingestion side.
type Store interface {
	ports.BufferStore
	UpsertBuffer(b domain.Buffer) error
	RemoveBuffer(id string) error
	BumpCounters(id string, unread, notification int, msg domain.Message) error
	ResetCounters(id string) error
	Close() error
}

var (
	_ Store = (*sqlite.BufferStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
