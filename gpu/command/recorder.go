// package command provides scoped command recording. A Recorder owns a single
// in-flight command buffer and moves through an explicit state machine:
// idle, recording, pass open, submitted. Only one pass may be open at a time,
// and submission consumes the recorder; reuse after Submit is a state error.
package command

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrInvalidState is the base error for operations issued in the wrong recorder state.
	ErrInvalidState = errors.New("invalid recorder state")

	// ErrNotRecording indicates an operation that requires an open recording session.
	ErrNotRecording = fmt.Errorf("%w: not recording", ErrInvalidState)

	// ErrPassInProgress indicates a second pass was opened, or the session submitted,
	// while a pass was still open.
	ErrPassInProgress = fmt.Errorf("%w: a pass is still open", ErrInvalidState)

	// ErrAlreadySubmitted indicates use of a recorder after Submit consumed it.
	ErrAlreadySubmitted = fmt.Errorf("%w: recorder already submitted", ErrInvalidState)
)

// recorderState tracks where a recorder is in its lifecycle.
type recorderState int

const (
	stateIdle recorderState = iota
	stateRecording
	statePassOpen
	stateSubmitted
)

// recorderImpl is the implementation of the Recorder interface.
type recorderImpl struct {
	mu      *sync.Mutex
	ctx     gpu.Context
	key     string
	state   recorderState
	encoder *wgpu.CommandEncoder
}

// Recorder defines the interface for a command recording session. A recorder is
// not safe for concurrent use; record from a single goroutine and create
// independent recorders for independent submission streams.
type Recorder interface {
	// Key retrieves the unique identifier for this recorder, used as its debug label.
	//
	// Returns:
	//   - string: the recorder's unique key
	Key() string

	// Begin opens the recording session by creating the command encoder.
	//
	// Returns:
	//   - error: ErrAlreadySubmitted after Submit, ErrInvalidState if already recording,
	//     otherwise any encoder creation error
	Begin() error

	// BeginRenderPass opens a render pass on the session. The pass must be ended
	// before another pass may be opened or the session submitted.
	//
	// Parameters:
	//   - cfg: the pass attachments and load/clear behavior
	//
	// Returns:
	//   - RenderPass: the open render pass
	//   - error: ErrNotRecording, ErrPassInProgress, or ErrAlreadySubmitted
	BeginRenderPass(cfg RenderPassConfig) (RenderPass, error)

	// BeginComputePass opens a compute pass on the session. The pass must be ended
	// before another pass may be opened or the session submitted.
	//
	// Returns:
	//   - ComputePass: the open compute pass
	//   - error: ErrNotRecording, ErrPassInProgress, or ErrAlreadySubmitted
	BeginComputePass() (ComputePass, error)

	// CopyBufferToBuffer records a device-to-device buffer copy. Must be called
	// between Begin and Submit with no pass open.
	//
	// Parameters:
	//   - src: the source buffer
	//   - srcOffset: the byte offset into the source
	//   - dst: the destination buffer
	//   - dstOffset: the byte offset into the destination
	//   - size: the number of bytes to copy
	//
	// Returns:
	//   - error: ErrNotRecording, ErrPassInProgress, or ErrAlreadySubmitted
	CopyBufferToBuffer(src *wgpu.Buffer, srcOffset uint64, dst *wgpu.Buffer, dstOffset uint64, size uint64) error

	// CopyTextureToBuffer records a texture-to-buffer copy for read-back. The
	// layout's BytesPerRow and RowsPerImage must be consistent with the extent
	// and the texture's per-pixel size; mismatches are not validated here.
	//
	// Parameters:
	//   - src: the source texture copy view
	//   - dst: the destination buffer copy view with its data layout
	//   - extent: the copy extent in texels
	//
	// Returns:
	//   - error: ErrNotRecording, ErrPassInProgress, or ErrAlreadySubmitted
	CopyTextureToBuffer(src *wgpu.ImageCopyTexture, dst *wgpu.ImageCopyBuffer, extent *wgpu.Extent3D) error

	// InsertDebugMarker records a debug marker visible in GPU capture tools.
	// Must be called between Begin and Submit with no pass open.
	//
	// Parameters:
	//   - label: the marker text
	//
	// Returns:
	//   - error: ErrNotRecording, ErrPassInProgress, or ErrAlreadySubmitted
	InsertDebugMarker(label string) error

	// PushDebugGroup opens a named group around subsequent commands in GPU
	// capture tools. Close it with PopDebugGroup before submitting.
	//
	// Parameters:
	//   - label: the group name
	//
	// Returns:
	//   - error: ErrNotRecording, ErrPassInProgress, or ErrAlreadySubmitted
	PushDebugGroup(label string) error

	// PopDebugGroup closes the innermost group opened with PushDebugGroup.
	//
	// Returns:
	//   - error: ErrNotRecording, ErrPassInProgress, or ErrAlreadySubmitted
	PopDebugGroup() error

	// Submit finishes the command buffer and submits it to the device queue,
	// consuming the recorder. Execution is asynchronous relative to the caller
	// and ordered only by queue submission order.
	//
	// Returns:
	//   - error: ErrNotRecording, ErrPassInProgress, ErrAlreadySubmitted, or a finish error
	Submit() error

	// Release frees the encoder of a session that will not be submitted.
	// Releasing a submitted recorder is a no-op.
	Release()
}

var _ Recorder = &recorderImpl{}

// NewRecorder creates an idle recording session on the given context. Call
// Begin to open it.
//
// Parameters:
//   - ctx: the GPU context the session records against
//   - key: the unique identifier used as the command buffer's debug label
//
// Returns:
//   - Recorder: the idle recorder
func NewRecorder(ctx gpu.Context, key string) Recorder {
	return &recorderImpl{
		mu:  &sync.Mutex{},
		ctx: ctx,
		key: key,
	}
}

func (r *recorderImpl) Key() string {
	return r.key
}

func (r *recorderImpl) Begin() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case stateSubmitted:
		return fmt.Errorf("%w: %q", ErrAlreadySubmitted, r.key)
	case stateRecording, statePassOpen:
		return fmt.Errorf("%w: %q is already recording", ErrInvalidState, r.key)
	}

	encoder, err := r.ctx.Device().CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder %q: %w", r.key, err)
	}
	r.encoder = encoder
	r.state = stateRecording
	return nil
}

// requireRecording checks that the session is open with no pass in progress.
// Callers must hold the mutex.
func (r *recorderImpl) requireRecording() error {
	switch r.state {
	case stateIdle:
		return fmt.Errorf("%w: %q", ErrNotRecording, r.key)
	case statePassOpen:
		return fmt.Errorf("%w: %q", ErrPassInProgress, r.key)
	case stateSubmitted:
		return fmt.Errorf("%w: %q", ErrAlreadySubmitted, r.key)
	}
	return nil
}

func (r *recorderImpl) BeginRenderPass(cfg RenderPassConfig) (RenderPass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireRecording(); err != nil {
		return nil, err
	}

	pass := r.encoder.BeginRenderPass(cfg.descriptor(r.key))
	r.state = statePassOpen
	return &renderPassImpl{owner: r, raw: pass}, nil
}

func (r *recorderImpl) BeginComputePass() (ComputePass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireRecording(); err != nil {
		return nil, err
	}

	pass := r.encoder.BeginComputePass(nil)
	r.state = statePassOpen
	return &computePassImpl{owner: r, raw: pass}, nil
}

func (r *recorderImpl) CopyBufferToBuffer(src *wgpu.Buffer, srcOffset uint64, dst *wgpu.Buffer, dstOffset uint64, size uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireRecording(); err != nil {
		return err
	}
	r.encoder.CopyBufferToBuffer(src, srcOffset, dst, dstOffset, size)
	return nil
}

func (r *recorderImpl) CopyTextureToBuffer(src *wgpu.ImageCopyTexture, dst *wgpu.ImageCopyBuffer, extent *wgpu.Extent3D) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireRecording(); err != nil {
		return err
	}
	r.encoder.CopyTextureToBuffer(src, dst, extent)
	return nil
}

func (r *recorderImpl) InsertDebugMarker(label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireRecording(); err != nil {
		return err
	}
	return r.encoder.InsertDebugMarker(label)
}

func (r *recorderImpl) PushDebugGroup(label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireRecording(); err != nil {
		return err
	}
	return r.encoder.PushDebugGroup(label)
}

func (r *recorderImpl) PopDebugGroup() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireRecording(); err != nil {
		return err
	}
	return r.encoder.PopDebugGroup()
}

func (r *recorderImpl) Submit() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireRecording(); err != nil {
		return err
	}

	cmd, err := r.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command buffer %q: %w", r.key, err)
	}
	r.ctx.Queue().Submit(cmd)
	cmd.Release()
	r.encoder.Release()
	r.encoder = nil
	r.state = stateSubmitted

	gpu.Logger().Debug("command buffer submitted", "key", r.key)
	return nil
}

func (r *recorderImpl) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.encoder != nil {
		r.encoder.Release()
		r.encoder = nil
	}
	if r.state != stateSubmitted {
		r.state = stateIdle
	}
}

// passClosed is called by a pass's End to return the session to recording state.
func (r *recorderImpl) passClosed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == statePassOpen {
		r.state = stateRecording
	}
}
