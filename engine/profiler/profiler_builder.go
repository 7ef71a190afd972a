package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithUpdateInterval sets how often Tick reports statistics.
//
// Parameters:
//   - interval: the reporting interval
//
// Returns:
//   - ProfilerBuilderOption: option function that sets the interval
func WithUpdateInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.updateInterval = interval
	}
}

// WithTopMarkers sets how many of the slowest markers each report includes.
//
// Parameters:
//   - n: number of markers to report
//
// Returns:
//   - ProfilerBuilderOption: option function that sets the marker count
func WithTopMarkers(n int) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.topMarkers = n
	}
}

// WithMarkersEnabled toggles marker collection. FPS and memory reporting stay active.
//
// Parameters:
//   - enabled: whether Begin records markers
//
// Returns:
//   - ProfilerBuilderOption: option function that sets the flag
func WithMarkersEnabled(enabled bool) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.enabled = enabled
	}
}
