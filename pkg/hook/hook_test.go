package hook

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHook struct {
	name     string
	priority int
	result   error
	calls    *[]string
}

func (f *fakeHook) Name() string  { return f.name }
func (f *fakeHook) Priority() int { return f.priority }
func (f *fakeHook) Execute(ctx context.Context, req *LaunchRequest) error {
	*f.calls = append(*f.calls, f.name)
	return f.result
}

func TestRunnerOrdersByPriority(t *testing.T) {
	var calls []string
	runner := NewRunner(
		&fakeHook{name: "late", priority: 100, calls: &calls},
		&fakeHook{name: "early", priority: 0, calls: &calls},
		&fakeHook{name: "middle", priority: 50, calls: &calls},
	)

	require.NoError(t, runner.Run(context.Background(), &LaunchRequest{}))
	assert.Equal(t, []string{"early", "middle", "late"}, calls)
}

func TestRunnerStopsOnCancellation(t *testing.T) {
	var calls []string
	runner := NewRunner(
		&fakeHook{name: "vfs", priority: 0, result: ErrStartedViaVFS, calls: &calls},
		&fakeHook{name: "other", priority: 100, calls: &calls},
	)

	err := runner.Run(context.Background(), &LaunchRequest{})
	assert.True(t, StartedViaVFS(err))
	assert.Equal(t, []string{"vfs"}, calls)
}

func TestRunnerStopsOnFailure(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	runner := NewRunner(
		&fakeHook{name: "failing", priority: 0, result: boom, calls: &calls},
		&fakeHook{name: "other", priority: 100, calls: &calls},
	)

	err := runner.Run(context.Background(), &LaunchRequest{})
	assert.ErrorIs(t, err, boom)
	assert.False(t, StartedViaVFS(err))
	assert.Equal(t, []string{"failing"}, calls)
}

func TestStartedViaVFSDetectsWrappedMarker(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), ErrStartedViaVFS)
	assert.True(t, StartedViaVFS(wrapped))
	assert.False(t, StartedViaVFS(errors.New("unrelated")))
	assert.False(t, StartedViaVFS(nil))
}
