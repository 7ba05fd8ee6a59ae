package command

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorderInState builds a recorder shell in an arbitrary lifecycle state,
// without a device or encoder.
func recorderInState(state recorderState) *recorderImpl {
	return &recorderImpl{mu: &sync.Mutex{}, key: "test", state: state}
}

func TestRecorderStartsIdle(t *testing.T) {
	r := NewRecorder(nil, "test")
	assert.Equal(t, "test", r.Key())

	assert.ErrorIs(t, r.Submit(), ErrNotRecording)
	assert.ErrorIs(t, r.Submit(), ErrInvalidState)

	_, err := r.BeginRenderPass(RenderPassConfig{})
	assert.ErrorIs(t, err, ErrNotRecording)

	_, err = r.BeginComputePass()
	assert.ErrorIs(t, err, ErrNotRecording)

	assert.ErrorIs(t, r.CopyBufferToBuffer(nil, 0, nil, 0, 16), ErrNotRecording)
	assert.ErrorIs(t, r.CopyTextureToBuffer(nil, nil, nil), ErrNotRecording)
}

func TestRecorderReleaseResetsIdle(t *testing.T) {
	r := NewRecorder(nil, "test")
	r.Release()

	// Still idle afterwards.
	assert.ErrorIs(t, r.Submit(), ErrNotRecording)
}

func TestRecorderRejectsSecondPass(t *testing.T) {
	r := recorderInState(statePassOpen)

	_, err := r.BeginRenderPass(RenderPassConfig{})
	assert.ErrorIs(t, err, ErrPassInProgress)

	_, err = r.BeginComputePass()
	assert.ErrorIs(t, err, ErrPassInProgress)

	// Submitting, copying, or marking with a pass still open is the same usage error.
	assert.ErrorIs(t, r.Submit(), ErrPassInProgress)
	assert.ErrorIs(t, r.CopyBufferToBuffer(nil, 0, nil, 0, 16), ErrPassInProgress)
	assert.ErrorIs(t, r.CopyTextureToBuffer(nil, nil, nil), ErrPassInProgress)
	assert.ErrorIs(t, r.InsertDebugMarker("marker"), ErrPassInProgress)
}

func TestRecorderConsumedBySubmit(t *testing.T) {
	r := recorderInState(stateSubmitted)

	assert.ErrorIs(t, r.Begin(), ErrAlreadySubmitted)

	_, err := r.BeginRenderPass(RenderPassConfig{})
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	_, err = r.BeginComputePass()
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	assert.ErrorIs(t, r.Submit(), ErrAlreadySubmitted)
	assert.ErrorIs(t, r.CopyBufferToBuffer(nil, 0, nil, 0, 16), ErrAlreadySubmitted)
	assert.ErrorIs(t, r.PushDebugGroup("group"), ErrAlreadySubmitted)
	assert.ErrorIs(t, r.PopDebugGroup(), ErrAlreadySubmitted)
}

func TestPassClosedReturnsToRecording(t *testing.T) {
	r := recorderInState(statePassOpen)
	r.passClosed()
	assert.Equal(t, stateRecording, r.state)

	// A submitted recorder stays consumed.
	r.state = stateSubmitted
	r.passClosed()
	assert.Equal(t, stateSubmitted, r.state)
}

func TestPassDoubleEnd(t *testing.T) {
	render := &renderPassImpl{ended: true}
	assert.ErrorIs(t, render.End(), ErrInvalidState)

	compute := &computePassImpl{ended: true}
	assert.ErrorIs(t, compute.End(), ErrInvalidState)
}

func TestDebugMarkersRequireRecording(t *testing.T) {
	r := NewRecorder(nil, "test")
	assert.ErrorIs(t, r.InsertDebugMarker("marker"), ErrNotRecording)
	assert.ErrorIs(t, r.PushDebugGroup("group"), ErrNotRecording)
	assert.ErrorIs(t, r.PopDebugGroup(), ErrNotRecording)
}

func TestStateErrorsShareBase(t *testing.T) {
	require.ErrorIs(t, ErrNotRecording, ErrInvalidState)
	require.ErrorIs(t, ErrPassInProgress, ErrInvalidState)
	require.ErrorIs(t, ErrAlreadySubmitted, ErrInvalidState)
}
