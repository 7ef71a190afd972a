package profiler

import (
	"cmp"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-compose/common"
)

// Profiler tracks frame rate, memory statistics and named CPU markers for performance monitoring.
// Outputs stats to the engine logger at a configurable interval.
type Profiler struct {
	mu             sync.Mutex
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	topMarkers     int
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	open    []marker
	totals  map[string]time.Duration
	counts  map[string]int
	enabled bool
}

type marker struct {
	name  string
	start time.Time
}

// MarkerStat is the accumulated time spent inside one named marker since the last report.
type MarkerStat struct {
	Name     string
	Duration time.Duration
	Count    int
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second and the five slowest markers are reported.
//
// Parameters:
//   - options: functional options applied after defaults
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		topMarkers:     5,
		totals:         make(map[string]time.Duration),
		counts:         make(map[string]int),
		enabled:        true,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Begin opens a named marker. Markers nest; each Begin must be matched by End.
func (p *Profiler) Begin(name string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	p.open = append(p.open, marker{name: name, start: time.Now()})
}

// End closes the innermost open marker and accumulates its duration.
func (p *Profiler) End() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.open) == 0 {
		return
	}
	m := p.open[len(p.open)-1]
	p.open = p.open[:len(p.open)-1]
	p.totals[m.name] += time.Since(m.start)
	p.counts[m.name]++
}

// Track opens a marker and returns the function closing it.
// Usage: defer p.Track("effect.Compile")()
func (p *Profiler) Track(name string) func() {
	p.Begin(name)
	return p.End
}

// Markers returns accumulated marker stats sorted by descending duration.
func (p *Profiler) Markers() []MarkerStat {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.markersLocked()
}

func (p *Profiler) markersLocked() []MarkerStat {
	out := make([]MarkerStat, 0, len(p.totals))
	for name, d := range p.totals {
		out = append(out, MarkerStat{Name: name, Duration: d, Count: p.counts[name]})
	}
	slices.SortFunc(out, func(a, b MarkerStat) int {
		if c := cmp.Compare(b.Duration, a.Duration); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed, then resets marker totals.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory, slowest markers.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
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
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	attrs := []any{
		slog.Float64("fps", fps),
		slog.Float64("heap_mb", allocMB),
		slog.Float64("alloc_rate_mb_s", allocRateMB),
		slog.Uint64("gc", uint64(gcCount)),
		slog.Uint64("gc_last_us", lastPauseUs),
		slog.Uint64("gc_max_us", maxPauseUs),
		slog.Float64("sys_mb", sysMB),
	}
	markers := p.markersLocked()
	for i, m := range markers {
		if i == p.topMarkers {
			break
		}
		attrs = append(attrs, slog.Duration("marker."+m.Name, m.Duration/time.Duration(max(1, p.frameCount))))
	}
	common.Logger().Info("profiler", attrs...)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	clear(p.totals)
	clear(p.counts)
	return true
}
