package command

import (
	"github.com/Carmen-Shannon/gpukit/gpu/bind_group"
	"github.com/Carmen-Shannon/gpukit/gpu/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// computePassImpl is the implementation of the ComputePass interface.
type computePassImpl struct {
	owner *recorderImpl
	raw   *wgpu.ComputePassEncoder
	ended bool
}

// ComputePass defines the interface for an open compute pass. All calls record
// commands; nothing executes until the owning recorder is submitted.
type ComputePass interface {
	// SetPipeline sets the compute pipeline for subsequent dispatches.
	//
	// Parameters:
	//   - p: the compute pipeline to bind
	SetPipeline(p pipeline.ComputePipeline)

	// SetBindGroup binds a bind group at the given group index.
	//
	// Parameters:
	//   - index: the group index declared in the pipeline layout
	//   - group: the bind group to bind
	//   - dynamicOffsets: offsets for dynamic bindings, or nil
	SetBindGroup(index uint32, group bind_group.Group, dynamicOffsets []uint32)

	// Dispatch records a workgroup dispatch.
	//
	// Parameters:
	//   - x: the workgroup count on the x axis
	//   - y: the workgroup count on the y axis
	//   - z: the workgroup count on the z axis
	Dispatch(x, y, z uint32)

	// DispatchIndirect records a dispatch whose workgroup counts are read from a
	// GPU buffer at execution time.
	//
	// Parameters:
	//   - buf: the buffer holding the dispatch arguments
	//   - offset: the byte offset of the arguments within the buffer
	DispatchIndirect(buf *wgpu.Buffer, offset uint64)

	// End closes the pass and returns the recorder to its recording state.
	//
	// Returns:
	//   - error: ErrInvalidState if the pass was already ended
	End() error
}

var _ ComputePass = &computePassImpl{}

func (p *computePassImpl) SetPipeline(pl pipeline.ComputePipeline) {
	p.raw.SetPipeline(pl.Raw())
}

func (p *computePassImpl) SetBindGroup(index uint32, group bind_group.Group, dynamicOffsets []uint32) {
	p.raw.SetBindGroup(index, group.Raw(), dynamicOffsets)
}

func (p *computePassImpl) Dispatch(x, y, z uint32) {
	p.raw.DispatchWorkgroups(x, y, z)
}

func (p *computePassImpl) DispatchIndirect(buf *wgpu.Buffer, offset uint64) {
	p.raw.DispatchWorkgroupsIndirect(buf, offset)
}

func (p *computePassImpl) End() error {
	if p.ended {
		return ErrInvalidState
	}
	p.ended = true
	p.raw.End()
	p.raw.Release()
	p.raw = nil
	p.owner.passClosed()
	return nil
}
