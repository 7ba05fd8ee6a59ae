package command

import (
	"github.com/Carmen-Shannon/gpukit/gpu/bind_group"
	"github.com/Carmen-Shannon/gpukit/gpu/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// ColorAttachment describes one color target of a render pass. A nil ClearColor
// loads the existing attachment contents instead of clearing.
type ColorAttachment struct {
	// View is the texture view rendered into.
	View *wgpu.TextureView
	// ResolveTarget receives the resolved output when View is multisampled.
	ResolveTarget *wgpu.TextureView
	// ClearColor clears the attachment to this color at pass start; nil loads instead.
	ClearColor *wgpu.Color
}

// DepthAttachment describes the depth target of a render pass.
type DepthAttachment struct {
	// View is the depth texture view.
	View *wgpu.TextureView
	// ClearValue is the depth value the attachment is cleared to, typically 1.0.
	ClearValue float32
	// Load keeps the existing depth contents instead of clearing.
	Load bool
}

// RenderPassConfig configures a render pass opened with BeginRenderPass.
type RenderPassConfig struct {
	// ColorAttachments lists the pass's color targets in attachment order.
	ColorAttachments []ColorAttachment
	// DepthAttachment is the optional depth target.
	DepthAttachment *DepthAttachment
}

// descriptor builds the wgpu render pass descriptor for this config.
func (cfg RenderPassConfig) descriptor(label string) *wgpu.RenderPassDescriptor {
	colors := make([]wgpu.RenderPassColorAttachment, len(cfg.ColorAttachments))
	for i, att := range cfg.ColorAttachments {
		color := wgpu.RenderPassColorAttachment{
			View:          att.View,
			ResolveTarget: att.ResolveTarget,
			LoadOp:        wgpu.LoadOpLoad,
			StoreOp:       wgpu.StoreOpStore,
		}
		if att.ClearColor != nil {
			color.LoadOp = wgpu.LoadOpClear
			color.ClearValue = *att.ClearColor
		}
		colors[i] = color
	}

	desc := &wgpu.RenderPassDescriptor{
		Label:            label,
		ColorAttachments: colors,
	}
	if cfg.DepthAttachment != nil {
		depth := &wgpu.RenderPassDepthStencilAttachment{
			View:            cfg.DepthAttachment.View,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: cfg.DepthAttachment.ClearValue,
		}
		if cfg.DepthAttachment.Load {
			depth.DepthLoadOp = wgpu.LoadOpLoad
		}
		desc.DepthStencilAttachment = depth
	}
	return desc
}

// renderPassImpl is the implementation of the RenderPass interface.
type renderPassImpl struct {
	owner *recorderImpl
	raw   *wgpu.RenderPassEncoder
	ended bool
}

// RenderPass defines the interface for an open render pass. All calls record
// commands; nothing executes until the owning recorder is submitted. The pass
// borrows its recorder exclusively and must be ended before the recorder can
// open another pass or submit.
type RenderPass interface {
	// SetPipeline sets the render pipeline for subsequent draw calls.
	//
	// Parameters:
	//   - p: the render pipeline to bind
	SetPipeline(p pipeline.RenderPipeline)

	// SetBindGroup binds a bind group at the given group index.
	//
	// Parameters:
	//   - index: the group index declared in the pipeline layout
	//   - group: the bind group to bind
	//   - dynamicOffsets: offsets for dynamic bindings, or nil
	SetBindGroup(index uint32, group bind_group.Group, dynamicOffsets []uint32)

	// SetVertexBuffer binds a vertex buffer to an input slot over its whole size.
	//
	// Parameters:
	//   - slot: the vertex buffer slot
	//   - buf: the vertex buffer to bind
	SetVertexBuffer(slot uint32, buf *wgpu.Buffer)

	// SetIndexBuffer binds an index buffer over its whole size.
	//
	// Parameters:
	//   - buf: the index buffer to bind
	//   - format: the index element format (e.g., wgpu.IndexFormatUint32)
	SetIndexBuffer(buf *wgpu.Buffer, format wgpu.IndexFormat)

	// Draw records a non-indexed draw.
	//
	// Parameters:
	//   - vertexCount: the number of vertices to draw
	//   - instanceCount: the number of instances to draw
	//   - firstVertex: the first vertex index
	//   - firstInstance: the first instance index
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)

	// DrawIndexed records an indexed draw.
	//
	// Parameters:
	//   - indexCount: the number of indices to draw
	//   - instanceCount: the number of instances to draw
	//   - firstIndex: the first index within the index buffer
	//   - baseVertex: the value added to each index before vertex lookup
	//   - firstInstance: the first instance index
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)

	// End closes the pass and returns the recorder to its recording state.
	//
	// Returns:
	//   - error: ErrInvalidState if the pass was already ended
	End() error
}

var _ RenderPass = &renderPassImpl{}

func (p *renderPassImpl) SetPipeline(pl pipeline.RenderPipeline) {
	p.raw.SetPipeline(pl.Raw())
}

func (p *renderPassImpl) SetBindGroup(index uint32, group bind_group.Group, dynamicOffsets []uint32) {
	p.raw.SetBindGroup(index, group.Raw(), dynamicOffsets)
}

func (p *renderPassImpl) SetVertexBuffer(slot uint32, buf *wgpu.Buffer) {
	p.raw.SetVertexBuffer(slot, buf, 0, wgpu.WholeSize)
}

func (p *renderPassImpl) SetIndexBuffer(buf *wgpu.Buffer, format wgpu.IndexFormat) {
	p.raw.SetIndexBuffer(buf, format, 0, wgpu.WholeSize)
}

func (p *renderPassImpl) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.raw.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *renderPassImpl) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.raw.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *renderPassImpl) End() error {
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
