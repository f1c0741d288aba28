package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cristianoliveira/bufferbell/internal/domain"
	"github.com/cristianoliveira/bufferbell/internal/presentation"
	"github.com/cristianoliveira/bufferbell/internal/storage"
	"github.com/stretchr/testify/require"
)

type highlight struct {
	bufferID string
	text     string
}

type fakeAlerter struct {
	highlights []highlight
	refreshes  int
	cancels    int
}

func (f *fakeAlerter) CreateHighlight(_ context.Context, b domain.Buffer, msg domain.Message) {
	f.highlights = append(f.highlights, highlight{b.ID, msg.Text})
}

func (f *fakeAlerter) Refresh() presentation.State {
	f.refreshes++
	return presentation.State{Badge: presentation.NoBadge()}
}

func (f *fakeAlerter) CancelAll() { f.cancels++ }

type failingStore struct{ *storage.MemoryStore }

func (failingStore) ListBuffers() ([]domain.Buffer, error) {
	return nil, errors.New("database is locked")
}

func TestFirstPollOnlyRecordsBaseline(t *testing.T) {
	store := storage.NewMemoryStore(domain.Buffer{ID: "a", Notification: 3, LastMessage: "old"})
	alerter := &fakeAlerter{}
	w := New(store, alerter, nil)

	res := w.Poll(context.Background())

	require.NoError(t, res.Err)
	require.Empty(t, res.Events)
	require.Empty(t, alerter.highlights)
	require.Equal(t, 1, alerter.refreshes)
}

func TestPollRaisesHighlightOnIncrease(t *testing.T) {
	store := storage.NewMemoryStore(
		domain.Buffer{ID: "a"},
		domain.Buffer{ID: "b"},
	)
	alerter := &fakeAlerter{}
	w := New(store, alerter, nil)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	w.now = func() time.Time { return fixed }
	w.Poll(context.Background())

	msg := domain.Message{Text: "ping", Prefix: []domain.PrefixSegment{{Text: "bob"}}}
	require.NoError(t, store.BumpCounters("a", 1, 1, msg))
	require.NoError(t, store.BumpCounters("b", 5, 0, domain.Message{}))

	res := w.Poll(context.Background())

	require.Len(t, res.Events, 1)
	require.Equal(t, "a", res.Events[0].Buffer.ID)
	require.Equal(t, "bob", res.Events[0].Message.PrefixText())
	require.Equal(t, fixed, res.Events[0].At)
	require.Equal(t, []highlight{{"a", "ping"}}, alerter.highlights)

	// No change: no new highlight.
	res = w.Poll(context.Background())
	require.Empty(t, res.Events)
}

func TestPollIgnoresDecreasesAndTracksNewBuffers(t *testing.T) {
	store := storage.NewMemoryStore(domain.Buffer{ID: "a", Notification: 2})
	alerter := &fakeAlerter{}
	w := New(store, alerter, nil)
	w.Poll(context.Background())

	require.NoError(t, store.SetActiveBuffer("a"))
	require.NoError(t, store.UpsertBuffer(domain.Buffer{ID: "c"}))
	require.NoError(t, store.BumpCounters("c", 1, 1, domain.Message{Text: "hello"}))

	res := w.Poll(context.Background())
	require.Len(t, res.Events, 1)
	require.Equal(t, "c", res.Events[0].Buffer.ID)
}

func TestPollReportsStoreErrors(t *testing.T) {
	alerter := &fakeAlerter{}
	w := New(failingStore{storage.NewMemoryStore()}, alerter, nil)

	res := w.Poll(context.Background())
	require.Error(t, res.Err)
	require.Equal(t, 1, alerter.refreshes)
}

func TestRunCancelsAlertsOnExit(t *testing.T) {
	store := storage.NewMemoryStore(domain.Buffer{ID: "a"})
	alerter := &fakeAlerter{}
	w := New(store, alerter, nil)

	ctx, cancel := context.WithCancel(context.Background())
	polls := 0
	err := w.Run(ctx, time.Millisecond, func(Result) {
		polls++
		if polls == 2 {
			cancel()
		}
	})

	require.NoError(t, err)
	require.GreaterOrEqual(t, polls, 2)
	require.Equal(t, 1, alerter.cancels)
}

func TestRunRejectsBadInterval(t *testing.T) {
	w := New(storage.NewMemoryStore(), &fakeAlerter{}, nil)
	require.Error(t, w.Run(context.Background(), 0, nil))
}
