package shader

import (
	"fmt"
	"strings"
)

// ComputeSourceBuilder assembles WGSL compute shader source around a caller
// supplied body, handling the boilerplate: included snippets, an optional
// workgroup-shared scratch array, and the @compute entry point declaration.
// The generated entry point is "cs_main"; point the compute pipeline's entry
// point option at it when the pipeline default differs. The zero value builds
// with a 64x1x1 workgroup; use NewComputeSourceBuilder for the same default.
type ComputeSourceBuilder struct {
	workgroup [3]uint32
	sharedLen uint32
	includes  []string
}

// NewComputeSourceBuilder creates a builder with a 64x1x1 workgroup size.
//
// Returns:
//   - *ComputeSourceBuilder: the builder
func NewComputeSourceBuilder() *ComputeSourceBuilder {
	return &ComputeSourceBuilder{workgroup: [3]uint32{64, 1, 1}}
}

// WorkgroupSize sets the @workgroup_size attribute of the generated entry point.
//
// Parameters:
//   - x: the workgroup size on the x axis
//   - y: the workgroup size on the y axis
//   - z: the workgroup size on the z axis
//
// Returns:
//   - *ComputeSourceBuilder: the builder, for chaining
func (b *ComputeSourceBuilder) WorkgroupSize(x, y, z uint32) *ComputeSourceBuilder {
	b.workgroup = [3]uint32{x, y, z}
	return b
}

// SharedMemory declares a workgroup-shared scratch array named local_memory
// of the given element count, typed array<u32, N>.
//
// Parameters:
//   - elements: the scratch array length
//
// Returns:
//   - *ComputeSourceBuilder: the builder, for chaining
func (b *ComputeSourceBuilder) SharedMemory(elements uint32) *ComputeSourceBuilder {
	b.sharedLen = elements
	return b
}

// Include prepends a WGSL snippet to the generated source, in the order added.
// Binding declarations and helper functions go here.
//
// Parameters:
//   - code: the WGSL snippet
//
// Returns:
//   - *ComputeSourceBuilder: the builder, for chaining
func (b *ComputeSourceBuilder) Include(code string) *ComputeSourceBuilder {
	b.includes = append(b.includes, code)
	return b
}

// Build generates the complete WGSL source with body as the entry point's
// statements. The entry point receives @builtin(global_invocation_id) as
// global_id.
//
// Parameters:
//   - body: the WGSL statements of the entry point
//
// Returns:
//   - string: the generated WGSL source
func (b *ComputeSourceBuilder) Build(body string) string {
	var src strings.Builder

	for _, include := range b.includes {
		src.WriteString(include)
		src.WriteByte('\n')
	}

	if b.sharedLen > 0 {
		fmt.Fprintf(&src, "var<workgroup> local_memory: array<u32, %d>;\n\n", b.sharedLen)
	}

	fmt.Fprintf(&src, "@compute @workgroup_size(%d, %d, %d)\n", b.workgroup[0], b.workgroup[1], b.workgroup[2])
	src.WriteString("fn cs_main(@builtin(global_invocation_id) global_id: vec3<u32>) {\n")
	src.WriteString(body)
	src.WriteString("\n}\n")

	return src.String()
}

const reductionTemplate = `@group(0) @binding(0) var<storage, read> input_data: array<%[1]s>;
@group(0) @binding(1) var<storage, read_write> output_data: array<%[1]s>;

var<workgroup> shared_data: array<%[1]s, 256>;

@compute @workgroup_size(256, 1, 1)
fn cs_main(@builtin(global_invocation_id) global_id: vec3<u32>,
           @builtin(local_invocation_id) local_id: vec3<u32>,
           @builtin(workgroup_id) workgroup_id: vec3<u32>) {
    let tid = local_id.x;
    let bid = workgroup_id.x;
    let i = bid * 256u + tid;

    if (i < arrayLength(&input_data)) {
        shared_data[tid] = input_data[i];
    } else {
        shared_data[tid] = %[2]s;
    }

    workgroupBarrier();

    var s = 128u;
    while (s > 0u) {
        if (tid < s && (i + s) < arrayLength(&input_data)) {
            let idx = tid + s;
            %[3]s
        }
        workgroupBarrier();
        s = s >> 1u;
    }

    if (tid == 0u) {
        output_data[bid] = shared_data[0];
    }
}
`

// ReductionSource generates WGSL for a workgroup-local parallel reduction.
// Each 256-wide workgroup reduces its slice of input_data into one element of
// output_data; reduce the partials with further passes or on the CPU. The
// operation is written against the names "result" (the accumulator) and
// "data[i]" (the incoming element), e.g. "result += data[i];" or
// "result = max(result, data[i]);".
//
// Parameters:
//   - operation: the combining statement over result and data[i]
//   - identity: the operation's identity value, e.g. "0.0" for a sum
//   - elemType: the WGSL element type, e.g. "f32"
//
// Returns:
//   - string: the generated WGSL source with entry point cs_main
func ReductionSource(operation, identity, elemType string) string {
	op := strings.NewReplacer(
		"result", "shared_data[tid]",
		"data[i]", "shared_data[idx]",
	).Replace(operation)
	return fmt.Sprintf(reductionTemplate, elemType, identity, op)
}

const prefixSumTemplate = `@group(0) @binding(0) var<storage, read> input_data: array<%[1]s>;
@group(0) @binding(1) var<storage, read_write> output_data: array<%[1]s>;

var<workgroup> shared_data: array<%[1]s, 256>;

@compute @workgroup_size(256, 1, 1)
fn cs_main(@builtin(global_invocation_id) global_id: vec3<u32>,
           @builtin(local_invocation_id) local_id: vec3<u32>) {
    let tid = local_id.x;
    let i = global_id.x;

    if (i < arrayLength(&input_data)) {
        shared_data[tid] = input_data[i];
    } else {
        shared_data[tid] = 0;
    }

    workgroupBarrier();

    var d = 1u;
    while (d < 256u) {
        if (tid %% (2u * d) == 0u) {
            shared_data[tid + 2u * d - 1u] = shared_data[tid + 2u * d - 1u] + shared_data[tid + d - 1u];
        }
        workgroupBarrier();
        d = d * 2u;
    }

    if (tid == 0u) {
        shared_data[255] = 0;
    }

    workgroupBarrier();

    d = 128u;
    while (d > 0u) {
        if (tid %% (2u * d) == 0u) {
            let temp = shared_data[tid + d - 1u];
            shared_data[tid + d - 1u] = shared_data[tid + 2u * d - 1u];
            shared_data[tid + 2u * d - 1u] = shared_data[tid + 2u * d - 1u] + temp;
        }
        workgroupBarrier();
        d = d >> 1u;
    }

    if (i < arrayLength(&output_data)) {
        output_data[i] = shared_data[tid];
    }
}
`

// PrefixSumSource generates WGSL for an exclusive prefix sum (Blelloch scan)
// over one 256-wide workgroup. Inputs longer than a workgroup need a second
// pass adding the per-block totals.
//
// Parameters:
//   - elemType: the WGSL element type, e.g. "u32"
//
// Returns:
//   - string: the generated WGSL source with entry point cs_main
func PrefixSumSource(elemType string) string {
	return fmt.Sprintf(prefixSumTemplate, elemType)
}
