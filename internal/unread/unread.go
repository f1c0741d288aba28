// Package unread reduces buffer collections into scalar counts.
package unread

import "github.com/cristianoliveira/bufferbell/internal/domain"

// Count sums the named counter across all buffers.
// Unknown keys and negative values contribute 0, so the result is never negative.
func Count(buffers []domain.Buffer, key domain.CounterKey) int {
	total := 0
	for _, b := range buffers {
		v, ok := b.Counter(key)
		if !ok || v < 0 {
			continue
		}
		total += v
	}
	return total
}

// Totals holds both counters at once.
type Totals struct {
	Unread       int
	Notification int
}

// Sum computes both counters in a single pass.
func Sum(buffers []domain.Buffer) Totals {
	return Totals{
		Unread:       Count(buffers, domain.CounterUnread),
		Notification: Count(buffers, domain.CounterNotification),
	}
}
