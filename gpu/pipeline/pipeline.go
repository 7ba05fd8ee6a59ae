// package pipeline assembles shader modules, vertex layouts, and bind group
// layouts into executable render and compute pipelines. Defaults favor the
// common case (triangle list, back-face culling, counter-clockwise front face,
// no multisampling) and every default is adjustable through builder options.
package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/Carmen-Shannon/gpukit/gpu/bind_group"
	"github.com/Carmen-Shannon/gpukit/gpu/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrMissingShader indicates pipeline construction without the required shader stage.
	ErrMissingShader = errors.New("pipeline requires a shader")

	// ErrEntryPointMissing indicates the requested entry-point function is absent from the shader source.
	ErrEntryPointMissing = errors.New("shader entry point missing")
)

// entryPointPattern matches a WGSL function declaration for a given name.
var entryPointPattern = regexp.MustCompile(`\bfn\s+(\w+)\s*\(`)

// hasEntryPoint reports whether the WGSL source declares a function with the
// given name. This is a cheap pre-check; the driver's validator remains the
// authority on entry-point correctness.
func hasEntryPoint(source, name string) bool {
	if source == "" {
		return true
	}
	for _, match := range entryPointPattern.FindAllStringSubmatch(source, -1) {
		if match[1] == name {
			return true
		}
	}
	return false
}

// renderPipelineImpl is the implementation of the RenderPipeline interface.
type renderPipelineImpl struct {
	mu  *sync.Mutex
	key string
	raw *wgpu.RenderPipeline

	// construction inputs, applied by builder options
	vertexShader     shader.Shader
	fragmentShader   shader.Shader
	vertexEntry      string
	fragmentEntry    string
	vertexLayouts    []wgpu.VertexBufferLayout
	colorFormats     []wgpu.TextureFormat
	depthFormat      wgpu.TextureFormat
	depthWrite       bool
	depthCompare     wgpu.CompareFunction
	bindGroupLayouts []*wgpu.BindGroupLayout
	topology         wgpu.PrimitiveTopology
	cullMode         wgpu.CullMode
	frontFace        wgpu.FrontFace
	sampleCount      uint32
	blendEnabled     bool
}

// RenderPipeline defines the interface for an immutable render pipeline.
type RenderPipeline interface {
	// Key retrieves the unique identifier for this pipeline, used as its debug label.
	//
	// Returns:
	//   - string: the pipeline's unique key
	Key() string

	// Raw retrieves the underlying wgpu render pipeline for pass recording.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the raw pipeline handle
	Raw() *wgpu.RenderPipeline

	// BindGroupLayout retrieves the pipeline's bind group layout at the given group index.
	// Useful for pipelines built with implicit layout (no WithBindGroupLayouts option).
	//
	// Parameters:
	//   - index: the bind group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout at that index
	BindGroupLayout(index uint32) *wgpu.BindGroupLayout

	// Release frees the underlying pipeline. The pipeline must not be used after Release.
	Release()
}

var _ RenderPipeline = &renderPipelineImpl{}

// NewRenderPipeline creates a render pipeline from a vertex shader, an optional
// fragment shader, vertex buffer layouts, color target formats, and bind group
// layouts. Defaults: entry points "vs_main"/"fs_main", triangle list topology,
// back-face culling with counter-clockwise front face, sample count 1, no depth
// target, no blending.
//
// Parameters:
//   - ctx: the GPU context to create the pipeline on
//   - key: the unique identifier used as the pipeline's debug label
//   - opts: optional RenderPipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - RenderPipeline: the created pipeline
//   - error: ErrMissingShader, ErrEntryPointMissing, or a device validation error
func NewRenderPipeline(ctx gpu.Context, key string, opts ...RenderPipelineBuilderOption) (RenderPipeline, error) {
	p := &renderPipelineImpl{
		mu:            &sync.Mutex{},
		key:           key,
		vertexEntry:   "vs_main",
		fragmentEntry: "fs_main",
		depthWrite:    true,
		depthCompare:  wgpu.CompareFunctionLess,
		topology:      wgpu.PrimitiveTopologyTriangleList,
		cullMode:      wgpu.CullModeBack,
		frontFace:     wgpu.FrontFaceCCW,
		sampleCount:   1,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.vertexShader == nil {
		return nil, fmt.Errorf("%w: render pipeline %q has no vertex shader", ErrMissingShader, key)
	}
	if !hasEntryPoint(p.vertexShader.Source(), p.vertexEntry) {
		return nil, fmt.Errorf("%w: %q in vertex shader %q", ErrEntryPointMissing, p.vertexEntry, p.vertexShader.Name())
	}
	if p.fragmentShader != nil && !hasEntryPoint(p.fragmentShader.Source(), p.fragmentEntry) {
		return nil, fmt.Errorf("%w: %q in fragment shader %q", ErrEntryPointMissing, p.fragmentEntry, p.fragmentShader.Name())
	}

	var layout *wgpu.PipelineLayout
	if len(p.bindGroupLayouts) > 0 {
		var err error
		layout, err = ctx.Device().CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
			Label:            key + " layout",
			BindGroupLayouts: p.bindGroupLayouts,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create pipeline layout %q: %w", key, err)
		}
		defer layout.Release()
	}

	var fragment *wgpu.FragmentState
	if p.fragmentShader != nil {
		targets := make([]wgpu.ColorTargetState, len(p.colorFormats))
		for i, format := range p.colorFormats {
			target := wgpu.ColorTargetState{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}
			if p.blendEnabled {
				target.Blend = &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
				}
			}
			targets[i] = target
		}
		fragment = &wgpu.FragmentState{
			Module:     p.fragmentShader.Module(),
			EntryPoint: p.fragmentEntry,
			Targets:    targets,
		}
	}

	var depthStencil *wgpu.DepthStencilState
	if p.depthFormat != wgpu.TextureFormatUndefined {
		depthStencil = &wgpu.DepthStencilState{
			Format:            p.depthFormat,
			DepthWriteEnabled: p.depthWrite,
			DepthCompare:      p.depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	raw, err := ctx.Device().CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  key,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     p.vertexShader.Module(),
			EntryPoint: p.vertexEntry,
			Buffers:    p.vertexLayouts,
		},
		Fragment: fragment,
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: p.sampleCount,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: depthStencil,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create render pipeline %q: %w", key, err)
	}
	p.raw = raw

	gpu.Logger().Debug("render pipeline created", "key", key, "topology", p.topology)
	return p, nil
}

func (p *renderPipelineImpl) Key() string {
	return p.key
}

func (p *renderPipelineImpl) Raw() *wgpu.RenderPipeline {
	return p.raw
}

func (p *renderPipelineImpl) BindGroupLayout(index uint32) *wgpu.BindGroupLayout {
	return p.raw.GetBindGroupLayout(index)
}

func (p *renderPipelineImpl) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.raw != nil {
		p.raw.Release()
		p.raw = nil
	}
}

// rawLayouts converts package layouts to their wgpu handles.
func rawLayouts(layouts []bind_group.Layout) []*wgpu.BindGroupLayout {
	out := make([]*wgpu.BindGroupLayout, len(layouts))
	for i, l := range layouts {
		out[i] = l.Raw()
	}
	return out
}
