package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cristianoliveira/bufferbell/internal/domain"
)

// MemoryStore is a Store kept in process memory. It behaves like the SQLite
// store and is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	buffers map[string]domain.Buffer
	active  string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(buffers ...domain.Buffer) *MemoryStore {
	s := &MemoryStore{buffers: make(map[string]domain.Buffer)}
	for _, b := range buffers {
		_ = s.UpsertBuffer(b)
		if stored, ok := s.buffers[b.ID]; ok {
			stored.Unread = max(b.Unread, 0)
			stored.Notification = max(b.Notification, 0)
			stored.LastMessage = b.LastMessage
			stored.LastPrefix = b.LastPrefix
			s.buffers[b.ID] = stored
		}
	}
	return s
}

// UpsertBuffer creates a buffer or updates its metadata.
func (s *MemoryStore) UpsertBuffer(b domain.Buffer) error {
	id := strings.TrimSpace(b.ID)
	if id == "" {
		return ErrInvalidBufferID
	}
	if b.Kind == "" {
		b.Kind = domain.KindRegular
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.buffers[id]
	if !ok {
		b.ID = id
		b.Unread = max(b.Unread, 0)
		b.Notification = max(b.Notification, 0)
		b.LastMessage, b.LastPrefix = "", ""
		s.buffers[id] = b
		return nil
	}
	existing.ShortName = b.ShortName
	existing.FullName = b.FullName
	existing.Server = b.Server
	existing.Kind = b.Kind
	existing.Title = b.Title
	s.buffers[id] = existing
	return nil
}

// RemoveBuffer deletes a buffer. Removing the focused buffer clears focus.
func (s *MemoryStore) RemoveBuffer(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidBufferID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buffers[id]; !ok {
		return fmt.Errorf("%w: %s", ErrBufferNotFound, id)
	}
	delete(s.buffers, id)
	if s.active == id {
		s.active = ""
	}
	return nil
}

// BumpCounters adds to a buffer's counters, recording msg when notification is positive.
func (s *MemoryStore) BumpCounters(id string, unread, notification int, msg domain.Message) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidBufferID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buffers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBufferNotFound, id)
	}
	b.Unread = max(b.Unread+unread, 0)
	b.Notification = max(b.Notification+notification, 0)
	if notification > 0 {
		b.LastMessage = msg.Text
		b.LastPrefix = msg.PrefixText()
	}
	s.buffers[id] = b
	return nil
}

// ResetCounters marks a buffer as read.
func (s *MemoryStore) ResetCounters(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidBufferID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetLocked(id)
}

func (s *MemoryStore) resetLocked(id string) error {
	b, ok := s.buffers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBufferNotFound, id)
	}
	b.Unread, b.Notification = 0, 0
	s.buffers[id] = b
	return nil
}

// ListBuffers returns all buffers ordered by ID.
func (s *MemoryStore) ListBuffers() ([]domain.Buffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Buffer, 0, len(s.buffers))
	for _, b := range s.buffers {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetBuffer returns the buffer with id.
func (s *MemoryStore) GetBuffer(id string) (domain.Buffer, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buffers[id]
	return b, ok, nil
}

// GetActiveBuffer returns the focused buffer, if any.
func (s *MemoryStore) GetActiveBuffer() (domain.Buffer, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == "" {
		return domain.Buffer{}, false, nil
	}
	b, ok := s.buffers[s.active]
	return b, ok, nil
}

// SetActiveBuffer focuses a buffer and marks it as read.
func (s *MemoryStore) SetActiveBuffer(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidBufferID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.resetLocked(id); err != nil {
		return err
	}
	s.active = id
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
