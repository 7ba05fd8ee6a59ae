package renderer

import (
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/Carmen-Shannon/gpukit/gpu/command"
	"github.com/Carmen-Shannon/gpukit/gpu/resource"
	"github.com/Carmen-Shannon/gpukit/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

// stubPipeline satisfies pipeline.RenderPipeline without a device.
type stubPipeline struct {
	key      string
	released bool
}

func (s *stubPipeline) Key() string               { return s.key }
func (s *stubPipeline) Raw() *wgpu.RenderPipeline { return nil }
func (s *stubPipeline) BindGroupLayout(index uint32) *wgpu.BindGroupLayout {
	return nil
}
func (s *stubPipeline) Release() { s.released = true }

// testRenderer builds a renderer shell without a device, enough to exercise
// the lifecycle guards.
func testRenderer() *rendererImpl {
	return &rendererImpl{
		mu:     &sync.Mutex{},
		width:  800,
		height: 600,
	}
}

func TestEndFrameWithoutBegin(t *testing.T) {
	r := testRenderer()
	assert.ErrorIs(t, r.EndFrame(), ErrNoActiveFrame)
}

func TestPresentOffscreenIsNoOp(t *testing.T) {
	r := testRenderer()
	assert.NoError(t, r.Present())
}

func TestComputeBatchGuards(t *testing.T) {
	r := testRenderer()
	assert.ErrorIs(t, r.EndCompute(), ErrNoActiveCompute)
	assert.ErrorIs(t, r.Dispatch(nil, [3]uint32{1, 1, 1}), ErrNoActiveCompute)
	assert.ErrorIs(t, r.CopyToStaging(nil, nil, 0), ErrNoActiveCompute)
}

func TestReadPixelsRequiresOffscreenTarget(t *testing.T) {
	r := testRenderer()
	_, err := r.ReadPixels()
	assert.ErrorIs(t, err, ErrNotOffscreen)
}

// stubPass overrides End on an otherwise-unimplemented render pass.
type stubPass struct {
	command.RenderPass
	endErr error
}

func (s stubPass) End() error { return s.endErr }

// fakeSurface satisfies swapchainTexture and records its release.
type fakeSurface struct{ released bool }

func (f *fakeSurface) CreateView(descriptor *wgpu.TextureViewDescriptor) (*wgpu.TextureView, error) {
	return nil, nil
}
func (f *fakeSurface) Release() { f.released = true }

// stubContext fails surface acquisition; no other method is reachable.
type stubContext struct {
	gpu.Context
	surfErr error
}

func (c stubContext) CurrentSurfaceTexture() (*wgpu.Texture, error) { return nil, c.surfErr }

// stubWindow marks the renderer as windowed; no method is reachable.
type stubWindow struct{ window.Window }

func TestEndFrameAfterCallerEndedPass(t *testing.T) {
	r := testRenderer()
	r.frameRecorder = command.NewRecorder(nil, "frame")
	r.framePass = stubPass{endErr: command.ErrInvalidState}

	// Submission proceeds past the already-ended pass; the idle recorder
	// reports its own state instead of wedging the frame.
	assert.ErrorIs(t, r.EndFrame(), command.ErrNotRecording)
	assert.Nil(t, r.framePass)
	assert.Nil(t, r.frameRecorder)

	// The frame is over; a new one can begin.
	assert.ErrorIs(t, r.EndFrame(), ErrNoActiveFrame)
}

func TestBeginFrameDropsUnpresentedSurface(t *testing.T) {
	stale := &fakeSurface{}
	r := testRenderer()
	r.win = stubWindow{}
	r.ctx = stubContext{surfErr: errors.New("surface lost")}
	r.frameSurface = stale

	_, err := r.BeginFrame()
	assert.Error(t, err)
	assert.True(t, stale.released)
	assert.Nil(t, r.frameSurface)
}

func TestPipelineCache(t *testing.T) {
	r := testRenderer()

	_, err := r.Pipeline("missing")
	assert.ErrorIs(t, err, resource.ErrResourceNotFound)

	first := &stubPipeline{key: "shaded"}
	r.AddPipeline("shaded", first)

	got, err := r.Pipeline("shaded")
	assert.NoError(t, err)
	assert.Same(t, first, got)

	// Re-adding under the same name releases the previous pipeline.
	second := &stubPipeline{key: "shaded"}
	r.AddPipeline("shaded", second)
	assert.True(t, first.released)

	got, err = r.Pipeline("shaded")
	assert.NoError(t, err)
	assert.Same(t, second, got)

	r.Release()
	assert.True(t, second.released)
}

func TestResizeIgnoresMinimized(t *testing.T) {
	r := testRenderer()
	assert.NoError(t, r.Resize(0, 600))
	assert.NoError(t, r.Resize(800, 0))

	w, h := r.Size()
	assert.Equal(t, uint32(800), w)
	assert.Equal(t, uint32(600), h)
}
