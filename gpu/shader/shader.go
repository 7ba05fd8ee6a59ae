// package shader provides a name-keyed store of compiled WGSL shader modules,
// partitioned by stage. Modules can be loaded from inline source or from files
// on disk; reloading a name replaces the previous module (last-write-wins),
// which permits hot-reload workflows. Pipelines keep their own reference to a
// module once built, so replacing a registry entry never invalidates an
// existing pipeline.
package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrShaderNotFound indicates no module is registered under the requested stage and name.
	ErrShaderNotFound = errors.New("shader not found")
)

// Stage identifies the pipeline stage a shader module is registered for.
// Namespaces are stage-qualified: the same name may be registered independently
// for different stages.
type Stage int

const (
	// StageVertex is the vertex shader stage, used for vertex processing in render pipelines.
	StageVertex Stage = iota

	// StageFragment is the fragment shader stage, used for fragment processing in pair with a vertex stage.
	StageFragment

	// StageCompute is the compute shader stage, containing a @compute entry point.
	StageCompute
)

// String returns the lowercase stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return "unknown"
	}
}

// shaderImpl is the implementation of the Shader interface.
type shaderImpl struct {
	name   string
	stage  Stage
	source string
	module *wgpu.ShaderModule
}

// Shader defines the interface for a compiled shader module held by the Registry.
type Shader interface {
	// Name retrieves the caller-chosen name the shader is registered under.
	//
	// Returns:
	//   - string: the shader's name
	Name() string

	// Stage retrieves the pipeline stage the shader is registered for.
	//
	// Returns:
	//   - Stage: the shader's stage
	Stage() Stage

	// Source retrieves the WGSL source code the module was compiled from.
	//
	// Returns:
	//   - string: the WGSL source code
	Source() string

	// Module retrieves the compiled wgpu shader module for pipeline creation.
	//
	// Returns:
	//   - *wgpu.ShaderModule: the compiled module
	Module() *wgpu.ShaderModule

	// Release frees the compiled module. The shader must not be used after Release.
	Release()
}

var _ Shader = &shaderImpl{}

func (s *shaderImpl) Name() string {
	return s.name
}

func (s *shaderImpl) Stage() Stage {
	return s.stage
}

func (s *shaderImpl) Source() string {
	return s.source
}

func (s *shaderImpl) Module() *wgpu.ShaderModule {
	return s.module
}

func (s *shaderImpl) Release() {
	if s.module != nil {
		s.module.Release()
		s.module = nil
	}
}

// shaderKey is the stage-qualified registry key.
type shaderKey struct {
	stage Stage
	name  string
}

func (k shaderKey) String() string {
	return fmt.Sprintf("%s/%s", k.stage, k.name)
}
