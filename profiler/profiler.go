// package profiler tracks frame rate and memory statistics for the render
// loop. Stats are emitted through the toolkit logger at a configurable
// interval; with the default silent logger the profiler costs almost nothing.
package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/gpukit/gpu"
)

// Profiler tracks frame timing and heap statistics. Call Tick once per frame.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// ProfilerBuilderOption is a functional option used to configure a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithUpdateInterval sets how often stats are emitted, replacing the default of
// one second.
//
// Parameters:
//   - interval: the minimum time between stat lines
//
// Returns:
//   - ProfilerBuilderOption: a function that sets the update interval for this profiler
func WithUpdateInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.updateInterval = interval
	}
}

// NewProfiler creates a profiler that emits stats every second by default.
//
// Parameters:
//   - opts: optional ProfilerBuilderOption functions to configure the profiler
//
// Returns:
//   - *Profiler: the created profiler
func NewProfiler(opts ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tick records one frame and emits stats when the update interval has elapsed.
// Stats cover frames per second, live heap, allocation rate, and GC pauses.
//
// Returns:
//   - bool: true if stats were emitted this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	gpu.Logger().Info("frame stats",
		"fps", fps,
		"heapMB", allocMB,
		"allocRateMBs", allocRateMB,
		"gcCount", gcCount,
		"gcLastPauseUs", lastPauseUs,
		"gcMaxPauseUs", maxPauseUs,
		"sysMB", sysMB,
	)

	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
