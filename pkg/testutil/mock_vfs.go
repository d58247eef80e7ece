// Package testutil provides test doubles and helpers shared by the package
// tests.
package testutil

import (
	"context"
	"sync"

	"github.com/modvfs/modvfs/pkg/vfs"
)

// LinkCall records one LinkDirectory invocation.
type LinkCall struct {
	Source    string
	Target    string
	Recursive bool
}

// LaunchCall records one LaunchHookedProcess invocation.
type LaunchCall struct {
	Token       vfs.Token
	CommandLine string
	WorkingDir  string
	Env         map[string]string
}

// MockVFS is a recording implementation of vfs.Capability with injectable
// errors.
type MockVFS struct {
	mu sync.Mutex

	Links      []LinkCall
	ClearCalls int
	Launches   []LaunchCall

	LinkErr   error
	ClearErr  error
	LaunchErr error

	onMessage func(line string) bool
	onError   func(err error)
}

// NewMockVFS creates an empty mock capability.
func NewMockVFS() *MockVFS {
	return &MockVFS{}
}

// LinkDirectory implements vfs.Capability.
func (m *MockVFS) LinkDirectory(source, target string, opts vfs.LinkOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LinkErr != nil {
		return m.LinkErr
	}
	m.Links = append(m.Links, LinkCall{Source: source, Target: target, Recursive: opts.Recursive})
	return nil
}

// ClearMappings implements vfs.Capability.
func (m *MockVFS) ClearMappings() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.ClearCalls++
	m.Links = nil
	return nil
}

// LaunchHookedProcess implements vfs.Capability.
func (m *MockVFS) LaunchHookedProcess(ctx context.Context, token vfs.Token, commandLine, workingDir string, environment map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LaunchErr != nil {
		return m.LaunchErr
	}
	m.Launches = append(m.Launches, LaunchCall{
		Token:       token,
		CommandLine: commandLine,
		WorkingDir:  workingDir,
		Env:         environment,
	})
	return nil
}

// SubscribeLogMessages implements vfs.Capability.
func (m *MockVFS) SubscribeLogMessages(onMessage func(line string) bool, onError func(err error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onMessage = onMessage
	m.onError = onError
}

// EmitLogLine pushes a raw log line to the subscriber, reporting whether the
// subscriber wants more.
func (m *MockVFS) EmitLogLine(line string) bool {
	m.mu.Lock()
	onMessage := m.onMessage
	m.mu.Unlock()
	if onMessage == nil {
		return false
	}
	return onMessage(line)
}

// FailSubscription reports a subscription failure to the subscriber.
func (m *MockVFS) FailSubscription(err error) {
	m.mu.Lock()
	onError := m.onError
	m.mu.Unlock()
	if onError != nil {
		onError(err)
	}
}

// LinkTargets returns the targets of all recorded links, in call order.
func (m *MockVFS) LinkTargets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	targets := make([]string, len(m.Links))
	for i, link := range m.Links {
		targets[i] = link.Target
	}
	return targets
}
