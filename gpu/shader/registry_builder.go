package shader

// RegistryBuilderOption is a functional option used to configure a Registry during construction.
type RegistryBuilderOption func(*registryImpl)

// WithLoadWorkers sets the number of worker goroutines used to read shader
// files during LoadFiles, replacing the default of 4.
//
// Parameters:
//   - workers: the worker count; values below 1 are clamped to 1
//
// Returns:
//   - RegistryBuilderOption: a function that sets the load worker count for this registry
func WithLoadWorkers(workers int) RegistryBuilderOption {
	return func(r *registryImpl) {
		if workers < 1 {
			workers = 1
		}
		r.loadWorkers = workers
	}
}
