package presentation

import (
	"errors"
	"testing"

	"github.com/cristianoliveira/bufferbell/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	buffers []domain.Buffer
	active  string
	listErr error
}

func (f *fakeStore) ListBuffers() ([]domain.Buffer, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.buffers, nil
}

func (f *fakeStore) GetBuffer(id string) (domain.Buffer, bool, error) {
	for _, b := range f.buffers {
		if b.ID == id {
			return b, true, nil
		}
	}
	return domain.Buffer{}, false, nil
}

func (f *fakeStore) GetActiveBuffer() (domain.Buffer, bool, error) {
	if f.active == "" {
		return domain.Buffer{}, false, nil
	}
	return f.GetBuffer(f.active)
}

func (f *fakeStore) SetActiveBuffer(id string) error {
	f.active = id
	return nil
}

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		name          string
		notifications int
		unread        int
		want          Badge
	}{
		{"notifications dominate", 5, 2, Badge{Kind: BadgeAlert, Count: 5, Background: "#d00", Text: "#fff"}},
		{"nothing pending", 0, 0, Badge{Kind: BadgeNone}},
		{"only unread", 0, 3, Badge{Kind: BadgeInfo, Count: 3, Background: "#5CB85C", Text: "#ff0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, BadgeFor(tt.notifications, tt.unread))
		})
	}
}

func TestTitlePrefix(t *testing.T) {
	require.Equal(t, "(3) ", TitlePrefix(3))
	require.Equal(t, "", TitlePrefix(0))
}

func TestUpdateFavico(t *testing.T) {
	store := &fakeStore{buffers: []domain.Buffer{
		{ID: "a", Unread: 1, Notification: 2},
		{ID: "b", Unread: 1, Notification: 3},
	}}
	u := NewUpdater(store, nil)

	require.Equal(t, AlertBadge(5), u.UpdateFavico().Badge)

	store.buffers = []domain.Buffer{{ID: "a", Unread: 3}}
	require.Equal(t, InfoBadge(3), u.UpdateFavico().Badge)

	store.buffers = []domain.Buffer{{ID: "a"}}
	require.Equal(t, NoBadge(), u.UpdateFavico().Badge)
}

func TestUpdateTitleUsesOnlyNotificationCount(t *testing.T) {
	store := &fakeStore{buffers: []domain.Buffer{{ID: "a", Unread: 40, Notification: 3}}}
	u := NewUpdater(store, nil)

	require.Equal(t, "(3) ", u.UpdateTitle().TitlePrefix)

	store.buffers[0].Notification = 0
	require.Equal(t, "", u.UpdateTitle().TitlePrefix)
}

func TestUpdateTitleKeepsPageTitleWithoutFocus(t *testing.T) {
	store := &fakeStore{buffers: []domain.Buffer{{ID: "a", ShortName: "#go", Title: "Gophers"}}}
	u := NewUpdater(store, nil)

	require.Equal(t, "", u.UpdateTitle().PageTitle)

	store.active = "a"
	require.Equal(t, "#go | Gophers", u.UpdateTitle().PageTitle)

	store.active = ""
	state := u.UpdateTitle()
	require.Equal(t, "#go | Gophers", state.PageTitle)
	require.Equal(t, "#go | Gophers", state.Title())
}

func TestStoreFailureKeepsPreviousState(t *testing.T) {
	store := &fakeStore{buffers: []domain.Buffer{{ID: "a", Notification: 2}}}
	u := NewUpdater(store, nil)
	before := u.Refresh()

	store.listErr = errors.New("db locked")
	require.Equal(t, before, u.UpdateFavico())
	require.Equal(t, before, u.UpdateTitle())
	require.Equal(t, 0, u.UnreadCount(domain.CounterNotification))
}

func TestSubscribersReceiveEveryUpdate(t *testing.T) {
	store := &fakeStore{buffers: []domain.Buffer{{ID: "a", Notification: 1}}}
	u := NewUpdater(store, nil)

	var seen []State
	u.Subscribe(func(s State) { seen = append(seen, s) })
	u.Subscribe(nil)

	u.Refresh()

	require.Len(t, seen, 2)
	require.Equal(t, "(1) ", seen[0].TitlePrefix)
	require.Equal(t, AlertBadge(1), seen[1].Badge)
}

func TestUnreadCount(t *testing.T) {
	store := &fakeStore{buffers: []domain.Buffer{{Unread: 2, Notification: 1}, {Unread: 5}}}
	u := NewUpdater(store, nil)
	require.Equal(t, 7, u.UnreadCount(domain.CounterUnread))
	require.Equal(t, 1, u.UnreadCount(domain.CounterNotification))
}

func TestRender(t *testing.T) {
	require.Equal(t, "", RenderBadge(NoBadge()))
	require.Contains(t, RenderBadge(AlertBadge(5)), "5")

	out := Render(State{TitlePrefix: "(5) ", PageTitle: "#go | Gophers", Badge: AlertBadge(5)})
	require.Contains(t, out, "5")
	require.Contains(t, out, "(5) #go | Gophers")
	require.Equal(t, "", Render(State{Badge: NoBadge()}))
}

func TestTmuxBadge(t *testing.T) {
	require.Equal(t, "#[bg=#dd0000,fg=#ffffff] 5 #[default]", TmuxBadge(AlertBadge(5)))
	require.Equal(t, "#[bg=#5CB85C,fg=#ffff00] 3 #[default]", TmuxBadge(InfoBadge(3)))
	require.Equal(t, "", TmuxBadge(NoBadge()))
}
