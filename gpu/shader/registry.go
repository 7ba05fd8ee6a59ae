package shader

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// registryImpl is the implementation of the Registry interface.
type registryImpl struct {
	mu      *sync.Mutex
	ctx     gpu.Context
	shaders map[shaderKey]*shaderImpl

	// loadPool reads shader files concurrently during LoadFiles. Compilation
	// still happens serially under the registry mutex.
	loadPool    worker.DynamicWorkerPool
	loadWorkers int
}

// FileSpec names one shader file for a batch load.
type FileSpec struct {
	// Name is the registry name to store the module under.
	Name string
	// Stage is the pipeline stage to register the module for.
	Stage Stage
	// Path is the WGSL source file path.
	Path string
}

// Registry defines the interface for the stage-partitioned shader module store.
type Registry interface {
	// Load compiles source into a module and stores it keyed by (stage, name).
	// Loading an existing key replaces the previous module.
	//
	// Parameters:
	//   - name: the name to store the module under
	//   - stage: the pipeline stage to register for
	//   - source: the WGSL source code
	//
	// Returns:
	//   - Shader: the compiled shader
	//   - error: a compilation error surfaced by the device
	Load(name string, stage Stage, source string) (Shader, error)

	// LoadFile reads a WGSL source file and delegates to Load. A missing or
	// unreadable file is reported as an I/O error, distinct from compilation failure.
	//
	// Parameters:
	//   - name: the name to store the module under
	//   - stage: the pipeline stage to register for
	//   - path: the WGSL source file path
	//
	// Returns:
	//   - Shader: the compiled shader
	//   - error: an I/O error if the file cannot be read, otherwise a compilation error
	LoadFile(name string, stage Stage, path string) (Shader, error)

	// LoadFiles reads multiple WGSL source files concurrently, then compiles and
	// registers each. The first error encountered is returned; shaders loaded
	// before the failure remain registered.
	//
	// Parameters:
	//   - specs: the shader files to load
	//
	// Returns:
	//   - error: the first read or compilation error, otherwise nil
	LoadFiles(specs []FileSpec) error

	// Get retrieves the module registered under (stage, name).
	//
	// Parameters:
	//   - stage: the pipeline stage the module was registered for
	//   - name: the name the module was stored under
	//
	// Returns:
	//   - Shader: the registered shader
	//   - error: ErrShaderNotFound if no module exists under that stage/name pair
	Get(stage Stage, name string) (Shader, error)

	// Remove unregisters and releases the module under (stage, name), if present.
	//
	// Parameters:
	//   - stage: the pipeline stage the module was registered for
	//   - name: the name the module was stored under
	Remove(stage Stage, name string)

	// Names retrieves the names registered for a stage.
	//
	// Parameters:
	//   - stage: the pipeline stage to list
	//
	// Returns:
	//   - []string: the registered names, in no particular order
	Names(stage Stage) []string

	// Release frees all registered modules. The registry must not be used after Release.
	Release()
}

var _ Registry = &registryImpl{}

// NewRegistry creates an empty shader registry on the given context.
//
// Parameters:
//   - ctx: the GPU context modules are compiled on
//   - opts: optional RegistryBuilderOption functions to configure the registry
//
// Returns:
//   - Registry: the empty registry
func NewRegistry(ctx gpu.Context, opts ...RegistryBuilderOption) Registry {
	r := &registryImpl{
		mu:          &sync.Mutex{},
		ctx:         ctx,
		shaders:     make(map[shaderKey]*shaderImpl),
		loadWorkers: 4,
	}
	for _, opt := range opts {
		opt(r)
	}
	// Queue size of 64 accommodates typical shader set sizes with headroom.
	r.loadPool = worker.NewDynamicWorkerPool(r.loadWorkers, 64, 1*time.Second)
	return r
}

func (r *registryImpl) Load(name string, stage Stage, source string) (Shader, error) {
	key := shaderKey{stage: stage, name: name}

	module, err := r.ctx.Device().CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: key.String(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader %s: %w", key, err)
	}

	s := &shaderImpl{
		name:   name,
		stage:  stage,
		source: source,
		module: module,
	}

	r.mu.Lock()
	if prev, ok := r.shaders[key]; ok {
		// Last-write-wins. Pipelines built from the previous module are
		// unaffected; they retain their own compiled state.
		prev.Release()
	}
	r.shaders[key] = s
	r.mu.Unlock()

	gpu.Logger().Debug("shader loaded", "stage", stage.String(), "name", name)
	return s, nil
}

func (r *registryImpl) LoadFile(name string, stage Stage, path string) (Shader, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader file %s: %w", path, err)
	}
	return r.Load(name, stage, string(source))
}

func (r *registryImpl) LoadFiles(specs []FileSpec) error {
	if len(specs) == 0 {
		return nil
	}

	sources := make([][]byte, len(specs))
	errs := make([]error, len(specs))
	var wg sync.WaitGroup

	for i, spec := range specs {
		wg.Add(1)
		idx := i
		path := spec.Path
		r.loadPool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				data, err := os.ReadFile(path)
				if err != nil {
					errs[idx] = fmt.Errorf("failed to read shader file %s: %w", path, err)
					return nil, errs[idx]
				}
				sources[idx] = data
				return nil, nil
			},
		})
	}
	wg.Wait()

	for i, spec := range specs {
		if errs[i] != nil {
			return errs[i]
		}
		if _, err := r.Load(spec.Name, spec.Stage, string(sources[i])); err != nil {
			return err
		}
	}
	return nil
}

func (r *registryImpl) Get(stage Stage, name string) (Shader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := shaderKey{stage: stage, name: name}
	s, ok := r.shaders[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrShaderNotFound, key)
	}
	return s, nil
}

func (r *registryImpl) Remove(stage Stage, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := shaderKey{stage: stage, name: name}
	if s, ok := r.shaders[key]; ok {
		s.Release()
		delete(r.shaders, key)
	}
}

func (r *registryImpl) Names(stage Stage) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	for key := range r.shaders {
		if key.stage == stage {
			names = append(names, key.name)
		}
	}
	return names
}

func (r *registryImpl) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, s := range r.shaders {
		s.Release()
		delete(r.shaders, key)
	}
}
