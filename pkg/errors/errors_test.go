package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrUnsupportedGame, "game is denylisted")
	assert.Equal(t, ErrUnsupportedGame, err.Code)
	assert.Equal(t, "game is denylisted", err.Message)
	assert.Equal(t, "[UNSUPPORTED_GAME] game is denylisted", err.Error())
}

func TestWrapPreservesChain(t *testing.T) {
	inner := stderrors.New("pipe broke")
	err := Wrap(inner, ErrHookLaunchFailure, "hooked launch failed")
	require.NotNil(t, err)

	assert.Equal(t, "[HOOK_LAUNCH_FAILURE] hooked launch failed: pipe broke", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrVFSFailure, "should vanish"))
	assert.Nil(t, Wrapf(nil, ErrVFSFailure, "should %s", "vanish"))
}

func TestIsMatchesByCode(t *testing.T) {
	err := Newf(ErrExecutableNotFound, "no such file: %s", `C:\Games\Foo\foo.exe`)
	wrapped := fmt.Errorf("launching: %w", err)

	assert.True(t, stderrors.Is(wrapped, New(ErrExecutableNotFound, "")))
	assert.False(t, stderrors.Is(wrapped, New(ErrHookLaunchFailure, "")))
}

func TestGetCode(t *testing.T) {
	err := New(ErrDeploymentCycle, "deploy failed")
	assert.Equal(t, ErrDeploymentCycle, GetCode(fmt.Errorf("outer: %w", err)))
	assert.Equal(t, ErrUnknown, GetCode(stderrors.New("plain")))
}

func TestIsCode(t *testing.T) {
	err := Wrap(stderrors.New("boom"), ErrManualDeployReject, "manual deployment not allowed")
	assert.True(t, IsCode(err, ErrManualDeployReject))
	assert.False(t, IsCode(err, ErrDeploymentCycle))
	assert.False(t, IsCode(nil, ErrManualDeployReject))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrUnsupportedPlatform, "usvfs requires windows").
		WithDetail("platform", "linux")
	assert.Equal(t, "linux", err.Details["platform"])
}
