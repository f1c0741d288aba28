package tmux

import (
	"github.com/stretchr/testify/mock"
)

// MockClient is a testify/mock implementation of Client.
//
//	client := new(MockClient)
//	client.On("ResolvePane", "%3").Return(PaneContext{SessionID: "$1", WindowID: "@2", PaneID: "%3"}, nil)
type MockClient struct {
	mock.Mock
}

// Run returns mocked stdout, stderr and error.
func (m *MockClient) Run(args ...string) (string, string, error) {
	callArgs := make([]interface{}, len(args))
	for i, a := range args {
		callArgs[i] = a
	}
	ret := m.Called(callArgs...)
	return ret.String(0), ret.String(1), ret.Error(2)
}

// HasSession returns a mocked server state.
func (m *MockClient) HasSession() (bool, error) {
	ret := m.Called()
	return ret.Bool(0), ret.Error(1)
}

// ResolvePane returns a mocked pane context.
func (m *MockClient) ResolvePane(target string) (PaneContext, error) {
	ret := m.Called(target)
	return ret.Get(0).(PaneContext), ret.Error(1)
}

// SetOption records an option write.
func (m *MockClient) SetOption(name, value string) error {
	ret := m.Called(name, value)
	return ret.Error(0)
}

var _ Client = (*MockClient)(nil)
