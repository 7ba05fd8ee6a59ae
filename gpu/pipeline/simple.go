package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/Carmen-Shannon/gpukit/gpu/bind_group"
	"github.com/Carmen-Shannon/gpukit/gpu/shader"
	"github.com/Carmen-Shannon/gpukit/gpu/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// SimpleRenderConfig configures NewSimpleRenderPipeline. Bindings are assigned
// by position in a single bind group: uniform buffers take bindings 0..N-1
// (visible to vertex and fragment stages), texture views take N..N+M-1
// (fragment-only), and each texture's sampler takes N+M..N+2M-1 (fragment-only,
// paired with its texture by position). Callers with other binding needs should
// use the explicit builders instead.
type SimpleRenderConfig struct {
	// VertexShader is the required vertex stage shader.
	VertexShader shader.Shader
	// FragmentShader is the fragment stage shader; nil produces a depth-only pipeline.
	FragmentShader shader.Shader
	// VertexLayouts describes the pipeline's vertex inputs, one per buffer slot.
	VertexLayouts []wgpu.VertexBufferLayout
	// ColorFormats lists the color target formats, one per attachment.
	ColorFormats []wgpu.TextureFormat
	// DepthFormat enables a depth target when non-zero.
	DepthFormat wgpu.TextureFormat
	// UniformBuffers are bound in order starting at binding 0.
	UniformBuffers []*wgpu.Buffer
	// Textures are bound in order after the uniforms; each contributes a view and a sampler.
	Textures []texture.Texture
	// Options are extra pipeline options applied after the config-derived ones.
	Options []RenderPipelineBuilderOption
}

// SimpleRenderPipeline bundles the pipeline built by NewSimpleRenderPipeline
// with the single bind group layout and group its binding policy produced.
// Bind the Group at group index 0 when recording.
type SimpleRenderPipeline struct {
	Pipeline RenderPipeline
	Layout   bind_group.Layout
	Group    bind_group.Group
}

// Release frees the pipeline, bind group, and layout.
func (s *SimpleRenderPipeline) Release() {
	if s.Group != nil {
		s.Group.Release()
		s.Group = nil
	}
	if s.Layout != nil {
		s.Layout.Release()
		s.Layout = nil
	}
	if s.Pipeline != nil {
		s.Pipeline.Release()
		s.Pipeline = nil
	}
}

// NewSimpleRenderPipeline builds a render pipeline plus the bind group layout
// and group for an ordered list of uniform buffers and textures, using the
// fixed binding policy described on SimpleRenderConfig.
//
// Parameters:
//   - ctx: the GPU context to create the objects on
//   - key: the unique identifier used as the debug label for all created objects
//   - cfg: the pipeline configuration
//
// Returns:
//   - *SimpleRenderPipeline: the pipeline with its layout and bind group
//   - error: any layout, bind group, or pipeline creation error
func NewSimpleRenderPipeline(ctx gpu.Context, key string, cfg SimpleRenderConfig) (*SimpleRenderPipeline, error) {
	lb := bind_group.NewLayoutBuilder(key + " layout")
	gb := bind_group.NewGroupBuilder(key + " group")

	binding := uint32(0)
	for _, buf := range cfg.UniformBuffers {
		lb.AddUniform(binding, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
		gb.AddBuffer(binding, buf)
		binding++
	}
	textureBase := binding
	for i, tex := range cfg.Textures {
		lb.AddTexture(textureBase+uint32(i), wgpu.ShaderStageFragment,
			wgpu.TextureSampleTypeFloat, wgpu.TextureViewDimension2D, false)
		gb.AddTextureView(textureBase+uint32(i), tex.View())
	}
	samplerBase := textureBase + uint32(len(cfg.Textures))
	for i, tex := range cfg.Textures {
		lb.AddSampler(samplerBase+uint32(i), wgpu.ShaderStageFragment, wgpu.SamplerBindingTypeFiltering)
		gb.AddSampler(samplerBase+uint32(i), tex.Sampler())
	}

	layout, err := lb.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("simple render pipeline %q: %w", key, err)
	}
	group, err := gb.Build(ctx, layout)
	if err != nil {
		layout.Release()
		return nil, fmt.Errorf("simple render pipeline %q: %w", key, err)
	}

	opts := []RenderPipelineBuilderOption{
		WithVertexShader(cfg.VertexShader),
		WithVertexLayouts(cfg.VertexLayouts...),
		WithColorFormats(cfg.ColorFormats...),
		WithBindGroupLayouts(layout),
	}
	if cfg.FragmentShader != nil {
		opts = append(opts, WithFragmentShader(cfg.FragmentShader))
	}
	if cfg.DepthFormat != wgpu.TextureFormatUndefined {
		opts = append(opts, WithDepthFormat(cfg.DepthFormat))
	}
	opts = append(opts, cfg.Options...)

	p, err := NewRenderPipeline(ctx, key, opts...)
	if err != nil {
		group.Release()
		layout.Release()
		return nil, err
	}

	return &SimpleRenderPipeline{
		Pipeline: p,
		Layout:   layout,
		Group:    group,
	}, nil
}

// SimpleComputeConfig configures NewSimpleComputePipeline. Bindings are
// assigned by position in a single bind group: the optional uniform buffer
// takes binding 0, and storage buffers take the following bindings in order.
// All bindings are compute-visible and storage buffers are read-write.
type SimpleComputeConfig struct {
	// ComputeShader is the required compute stage shader.
	ComputeShader shader.Shader
	// EntryPoint overrides the default "main" entry point when non-empty.
	EntryPoint string
	// WorkgroupSize records the shader's @workgroup_size for dispatch calculation.
	WorkgroupSize [3]uint32
	// UniformBuffer is bound at binding 0 when non-nil.
	UniformBuffer *wgpu.Buffer
	// StorageBuffers are bound read-write after the uniform, in order.
	StorageBuffers []*wgpu.Buffer
}

// SimpleComputePipeline bundles the pipeline built by NewSimpleComputePipeline
// with the single bind group layout and group its binding policy produced.
// Bind the Group at group index 0 when recording.
type SimpleComputePipeline struct {
	Pipeline ComputePipeline
	Layout   bind_group.Layout
	Group    bind_group.Group
}

// Release frees the pipeline, bind group, and layout.
func (s *SimpleComputePipeline) Release() {
	if s.Group != nil {
		s.Group.Release()
		s.Group = nil
	}
	if s.Layout != nil {
		s.Layout.Release()
		s.Layout = nil
	}
	if s.Pipeline != nil {
		s.Pipeline.Release()
		s.Pipeline = nil
	}
}

// NewSimpleComputePipeline builds a compute pipeline plus the bind group layout
// and group for an optional uniform buffer and an ordered list of storage
// buffers, using the fixed binding policy described on SimpleComputeConfig.
//
// Parameters:
//   - ctx: the GPU context to create the objects on
//   - key: the unique identifier used as the debug label for all created objects
//   - cfg: the pipeline configuration
//
// Returns:
//   - *SimpleComputePipeline: the pipeline with its layout and bind group
//   - error: any layout, bind group, or pipeline creation error
func NewSimpleComputePipeline(ctx gpu.Context, key string, cfg SimpleComputeConfig) (*SimpleComputePipeline, error) {
	lb := bind_group.NewLayoutBuilder(key + " layout")
	gb := bind_group.NewGroupBuilder(key + " group")

	binding := uint32(0)
	if cfg.UniformBuffer != nil {
		lb.AddUniform(binding, wgpu.ShaderStageCompute)
		gb.AddBuffer(binding, cfg.UniformBuffer)
		binding++
	}
	for _, buf := range cfg.StorageBuffers {
		lb.AddStorage(binding, wgpu.ShaderStageCompute, false)
		gb.AddBuffer(binding, buf)
		binding++
	}

	layout, err := lb.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("simple compute pipeline %q: %w", key, err)
	}
	group, err := gb.Build(ctx, layout)
	if err != nil {
		layout.Release()
		return nil, fmt.Errorf("simple compute pipeline %q: %w", key, err)
	}

	opts := []ComputePipelineBuilderOption{
		WithComputeShader(cfg.ComputeShader),
		WithComputeBindGroupLayouts(layout),
	}
	if cfg.EntryPoint != "" {
		opts = append(opts, WithEntryPoint(cfg.EntryPoint))
	}
	if cfg.WorkgroupSize != ([3]uint32{}) {
		opts = append(opts, WithWorkgroupSize(cfg.WorkgroupSize[0], cfg.WorkgroupSize[1], cfg.WorkgroupSize[2]))
	}

	p, err := NewComputePipeline(ctx, key, opts...)
	if err != nil {
		group.Release()
		layout.Release()
		return nil, err
	}

	return &SimpleComputePipeline{
		Pipeline: p,
		Layout:   layout,
		Group:    group,
	}, nil
}
