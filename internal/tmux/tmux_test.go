package tmux

import (
	"errors"
	"testing"

	"github.com/cristianoliveira/bufferbell/internal/presentation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBuildArgs(t *testing.T) {
	c := NewDefaultClient()
	assert.Equal(t, []string{"has-session"}, c.buildArgs([]string{"has-session"}))

	c = NewDefaultClient(WithSocketPath("chat"), WithTimeout(0))
	assert.Equal(t, []string{"-L", "chat", "has-session"}, c.buildArgs([]string{"has-session"}))
	assert.Equal(t, DefaultTimeout, c.timeout)
}

func TestParsePaneContext(t *testing.T) {
	pc, err := parsePaneContext("$1 @2 %3\n")
	require.NoError(t, err)
	assert.Equal(t, PaneContext{SessionID: "$1", WindowID: "@2", PaneID: "%3"}, pc)

	_, err = parsePaneContext("$1 @2")
	require.Error(t, err)
}

func TestResolvePaneRejectsEmptyTarget(t *testing.T) {
	_, err := NewDefaultClient().ResolvePane("  ")
	require.ErrorIs(t, err, ErrInvalidTarget)
}

func TestFocuserForeground(t *testing.T) {
	client := new(MockClient)
	client.On("ResolvePane", "%3").Return(PaneContext{SessionID: "$1", WindowID: "@2", PaneID: "%3"}, nil)
	client.On("Run", "switch-client", "-t", "$1").Return("", "", nil)
	client.On("Run", "select-window", "-t", "$1:@2").Return("", "", nil)
	client.On("Run", "select-pane", "-t", "%3").Return("", "", nil)

	f := NewFocuser(client, "%3")
	require.NoError(t, f.Foreground())
	client.AssertExpectations(t)
}

func TestFocuserFallsBackToEnvironment(t *testing.T) {
	t.Setenv("TMUX_PANE", "%7")
	f := NewFocuser(new(MockClient), "")
	assert.Equal(t, "%7", f.Pane())
}

func TestFocuserStopsOnFailure(t *testing.T) {
	client := new(MockClient)
	client.On("ResolvePane", "%3").Return(PaneContext{SessionID: "$1", WindowID: "@2", PaneID: "%3"}, nil)
	client.On("Run", "switch-client", "-t", "$1").Return("", "no client", errors.New("exit 1"))

	err := NewFocuser(client, "%3").Foreground()
	require.Error(t, err)
	client.AssertNotCalled(t, "Run", "select-window", "-t", "$1:@2")
}

func TestFocuserUnknownPane(t *testing.T) {
	client := new(MockClient)
	client.On("ResolvePane", "%9").Return(PaneContext{}, ErrPaneNotFound)

	require.ErrorIs(t, NewFocuser(client, "%9").Foreground(), ErrPaneNotFound)
}

func TestPublisherWritesChangedOptions(t *testing.T) {
	client := new(MockClient)
	client.On("SetOption", mock.Anything, mock.Anything).Return(nil)
	p := NewPublisher(client)

	state := presentation.State{TitlePrefix: "(2) ", PageTitle: "#go | Gophers", Badge: presentation.AlertBadge(2)}
	require.NoError(t, p.Publish(state))
	client.AssertCalled(t, "SetOption", OptionTitle, "(2) #go | Gophers")
	client.AssertCalled(t, "SetOption", OptionBadge, "#[bg=#dd0000,fg=#ffffff] 2 #[default]")
	client.AssertCalled(t, "SetOption", OptionBadgeCount, "2")
	client.AssertNumberOfCalls(t, "SetOption", 3)

	// Same state: nothing to write.
	require.NoError(t, p.Publish(state))
	client.AssertNumberOfCalls(t, "SetOption", 3)

	state.Badge = presentation.NoBadge()
	require.NoError(t, p.Publish(state))
	client.AssertCalled(t, "SetOption", OptionBadge, "")
	client.AssertNumberOfCalls(t, "SetOption", 5)
}

func TestPublisherReportsErrors(t *testing.T) {
	client := new(MockClient)
	client.On("SetOption", OptionTitle, mock.Anything).Return(ErrTmuxNotRunning)

	err := NewPublisher(client).Publish(presentation.State{Badge: presentation.NoBadge()})
	require.ErrorIs(t, err, ErrTmuxNotRunning)
}
