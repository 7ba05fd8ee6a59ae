package pipeline

import (
	"github.com/Carmen-Shannon/gpukit/gpu/bind_group"
	"github.com/Carmen-Shannon/gpukit/gpu/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// RenderPipelineBuilderOption is a functional option used to configure a RenderPipeline during construction.
type RenderPipelineBuilderOption func(*renderPipelineImpl)

// WithVertexShader sets the vertex shader for this pipeline.
//
// Parameters:
//   - s: the vertex shader to use for this pipeline
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the vertex shader for this pipeline
func WithVertexShader(s shader.Shader) RenderPipelineBuilderOption {
	return func(p *renderPipelineImpl) {
		p.vertexShader = s
	}
}

// WithFragmentShader sets the fragment shader for this pipeline. Without a
// fragment shader the pipeline is depth-only.
//
// Parameters:
//   - s: the fragment shader to use for this pipeline
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the fragment shader for this pipeline
func WithFragmentShader(s shader.Shader) RenderPipelineBuilderOption {
	return func(p *renderPipelineImpl) {
		p.fragmentShader = s
	}
}

// WithEntryPoints sets the vertex and fragment entry-point function names,
// replacing the defaults "vs_main" and "fs_main".
//
// Parameters:
//   - vertex: the vertex entry-point function name
//   - fragment: the fragment entry-point function name
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the entry points for this pipeline
func WithEntryPoints(vertex, fragment string) RenderPipelineBuilderOption {
	return func(p *renderPipelineImpl) {
		p.vertexEntry = vertex
		p.fragmentEntry = fragment
	}
}

// WithVertexLayouts sets the vertex buffer layouts describing the pipeline's
// vertex inputs.
//
// Parameters:
//   - layouts: one layout per vertex buffer slot
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the vertex layouts for this pipeline
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) RenderPipelineBuilderOption {
	return func(p *renderPipelineImpl) {
		p.vertexLayouts = layouts
	}
}

// WithColorFormats sets the color target formats, one per color attachment.
//
// Parameters:
//   - formats: the color attachment formats
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the color formats for this pipeline
func WithColorFormats(formats ...wgpu.TextureFormat) RenderPipelineBuilderOption {
	return func(p *renderPipelineImpl) {
		p.colorFormats = formats
	}
}

// WithDepthFormat enables a depth-stencil target with the given format,
// depth writes on, and a Less depth compare.
//
// Parameters:
//   - format: the depth attachment format (e.g., wgpu.TextureFormatDepth32Float)
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the depth format for this pipeline
func WithDepthFormat(format wgpu.TextureFormat) RenderPipelineBuilderOption {
	return func(p *renderPipelineImpl) {
		p.depthFormat = format
	}
}

// WithDepthCompare sets the depth comparison function and write flag, used
// together with WithDepthFormat.
//
// Parameters:
//   - compare: the depth compare function
//   - write: whether depth writes are enabled
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the depth state for this pipeline
func WithDepthCompare(compare wgpu.CompareFunction, write bool) RenderPipelineBuilderOption {
	return func(p *renderPipelineImpl) {
		p.depthCompare = compare
		p.depthWrite = write
	}
}

// WithBindGroupLayouts sets the ordered bind group layouts forming the
// pipeline layout. Without this option the driver derives an implicit layout
// from the shaders.
//
// Parameters:
//   - layouts: the bind group layouts, ordered by group index
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the bind group layouts for this pipeline
func WithBindGroupLayouts(layouts ...bind_group.Layout) RenderPipelineBuilderOption {
	return func(p *renderPipelineImpl) {
		p.bindGroupLayouts = rawLayouts(layouts)
	}
}

// WithRawBindGroupLayouts sets the pipeline's bind group layouts from raw wgpu
// handles, for layouts not built by this toolkit.
//
// Parameters:
//   - layouts: the raw bind group layouts, ordered by group index
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the bind group layouts for this pipeline
func WithRawBindGroupLayouts(layouts ...*wgpu.BindGroupLayout) RenderPipelineBuilderOption {
	return func(p *renderPipelineImpl) {
		p.bindGroupLayouts = layouts
	}
}

// WithTopology sets the primitive topology, replacing the default triangle list.
//
// Parameters:
//   - topology: the primitive topology (e.g., wgpu.PrimitiveTopologyLineList)
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the topology for this pipeline
func WithTopology(topology wgpu.PrimitiveTopology) RenderPipelineBuilderOption {
	return func(p *renderPipelineImpl) {
		p.topology = topology
	}
}

// WithCullMode sets the face culling mode, replacing the default back-face cull.
//
// Parameters:
//   - mode: the cull mode (e.g., wgpu.CullModeNone)
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode wgpu.CullMode) RenderPipelineBuilderOption {
	return func(p *renderPipelineImpl) {
		p.cullMode = mode
	}
}

// WithFrontFace sets the winding order that counts as front-facing, replacing
// the default counter-clockwise.
//
// Parameters:
//   - face: the front face winding (wgpu.FrontFaceCCW or wgpu.FrontFaceCW)
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the front face for this pipeline
func WithFrontFace(face wgpu.FrontFace) RenderPipelineBuilderOption {
	return func(p *renderPipelineImpl) {
		p.frontFace = face
	}
}

// WithSampleCount sets the multisample count, replacing the default of 1.
//
// Parameters:
//   - count: the sample count; must match the render target's sample count
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the sample count for this pipeline
func WithSampleCount(count uint32) RenderPipelineBuilderOption {
	return func(p *renderPipelineImpl) {
		p.sampleCount = count
	}
}

// WithBlendEnabled enables standard alpha blending on all color targets.
//
// Parameters:
//   - enabled: whether blending should be enabled
//
// Returns:
//   - RenderPipelineBuilderOption: a function that sets the blend enabled state for this pipeline
func WithBlendEnabled(enabled bool) RenderPipelineBuilderOption {
	return func(p *renderPipelineImpl) {
		p.blendEnabled = enabled
	}
}
