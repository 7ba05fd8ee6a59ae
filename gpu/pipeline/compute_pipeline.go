package pipeline

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/Carmen-Shannon/gpukit/gpu/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// computePipelineImpl is the implementation of the ComputePipeline interface.
type computePipelineImpl struct {
	mu  *sync.Mutex
	key string
	raw *wgpu.ComputePipeline

	// construction inputs, applied by builder options
	computeShader    shader.Shader
	entryPoint       string
	workgroupSize    [3]uint32
	bindGroupLayouts []*wgpu.BindGroupLayout
}

// ComputePipeline defines the interface for an immutable compute pipeline. The
// workgroup size recorded at construction must match the shader's own
// @workgroup_size declaration; DispatchSize uses it to convert problem sizes to
// workgroup counts.
type ComputePipeline interface {
	// Key retrieves the unique identifier for this pipeline, used as its debug label.
	//
	// Returns:
	//   - string: the pipeline's unique key
	Key() string

	// Raw retrieves the underlying wgpu compute pipeline for pass recording.
	//
	// Returns:
	//   - *wgpu.ComputePipeline: the raw pipeline handle
	Raw() *wgpu.ComputePipeline

	// WorkgroupSize retrieves the per-axis workgroup size hint the pipeline was built with.
	//
	// Returns:
	//   - [3]uint32: the workgroup size on the x, y, and z axes
	WorkgroupSize() [3]uint32

	// DispatchSize computes the per-axis workgroup counts needed to cover a
	// problem of the given size, by ceiling division against the workgroup size.
	// Workgroup counts cover at least the problem size, so invocations beyond it
	// will run; kernels must guard against out-of-range invocation IDs themselves.
	//
	// Parameters:
	//   - problem: the problem size on the x, y, and z axes
	//
	// Returns:
	//   - [3]uint32: the workgroup counts to pass to a compute pass dispatch
	DispatchSize(problem [3]uint32) [3]uint32

	// BindGroupLayout retrieves the pipeline's bind group layout at the given group index.
	// Useful for pipelines built with implicit layout (no WithComputeBindGroupLayouts option).
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

var _ ComputePipeline = &computePipelineImpl{}

// NewComputePipeline creates a compute pipeline from a compute shader. Defaults:
// entry point "main", workgroup size hint (64,1,1), implicit pipeline layout.
//
// Parameters:
//   - ctx: the GPU context to create the pipeline on
//   - key: the unique identifier used as the pipeline's debug label
//   - opts: optional ComputePipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - ComputePipeline: the created pipeline
//   - error: ErrMissingShader, ErrEntryPointMissing, or a device validation error
func NewComputePipeline(ctx gpu.Context, key string, opts ...ComputePipelineBuilderOption) (ComputePipeline, error) {
	p := &computePipelineImpl{
		mu:            &sync.Mutex{},
		key:           key,
		entryPoint:    "main",
		workgroupSize: [3]uint32{64, 1, 1},
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.computeShader == nil {
		return nil, fmt.Errorf("%w: compute pipeline %q has no compute shader", ErrMissingShader, key)
	}
	if !hasEntryPoint(p.computeShader.Source(), p.entryPoint) {
		return nil, fmt.Errorf("%w: %q in compute shader %q", ErrEntryPointMissing, p.entryPoint, p.computeShader.Name())
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

	raw, err := ctx.Device().CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  key,
		Layout: layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     p.computeShader.Module(),
			EntryPoint: p.entryPoint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create compute pipeline %q: %w", key, err)
	}
	p.raw = raw

	gpu.Logger().Debug("compute pipeline created", "key", key, "entryPoint", p.entryPoint)
	return p, nil
}

func (p *computePipelineImpl) Key() string {
	return p.key
}

func (p *computePipelineImpl) Raw() *wgpu.ComputePipeline {
	return p.raw
}

func (p *computePipelineImpl) WorkgroupSize() [3]uint32 {
	return p.workgroupSize
}

func (p *computePipelineImpl) DispatchSize(problem [3]uint32) [3]uint32 {
	return DispatchSize(p.workgroupSize, problem)
}

func (p *computePipelineImpl) BindGroupLayout(index uint32) *wgpu.BindGroupLayout {
	return p.raw.GetBindGroupLayout(index)
}

func (p *computePipelineImpl) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.raw != nil {
		p.raw.Release()
		p.raw = nil
	}
}

// DispatchSize computes per-axis workgroup counts by ceiling division of the
// problem size against the workgroup size. A zero workgroup axis is treated
// as 1.
//
// Parameters:
//   - workgroup: the per-axis workgroup size, matching the shader's @workgroup_size
//   - problem: the problem size on the x, y, and z axes
//
// Returns:
//   - [3]uint32: the workgroup counts covering the problem size
func DispatchSize(workgroup, problem [3]uint32) [3]uint32 {
	var out [3]uint32
	for i := range out {
		w := workgroup[i]
		if w == 0 {
			w = 1
		}
		out[i] = (problem[i] + w - 1) / w
	}
	return out
}
