package graphics

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-compose/engine/profiler"
)

// deviceState is the backend-independent part of a device: bound targets, counters and profiling.
type deviceState struct {
	mu       sync.Mutex
	depth    *Texture
	colors   []*Texture
	stats    DeviceStats
	profiler *profiler.Profiler
	closed   bool
}

func (s *deviceState) setRenderTargets(depth *Texture, colors []*Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depth = depth
	s.colors = slices.Clone(colors)
	s.stats.TargetBinds++
}

func (s *deviceState) renderTargets() (*Texture, []*Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.depth, slices.Clone(s.colors)
}

func (s *deviceState) count(update func(*DeviceStats)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrDeviceClosed
	}
	update(&s.stats)
	return nil
}

func (s *deviceState) snapshot() DeviceStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *deviceState) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// markClosed flips the closed flag and reports whether this call did it.
func (s *deviceState) markClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closed = true
	s.depth = nil
	s.colors = nil
	return true
}

func (s *deviceState) BeginProfile(name string) {
	s.profiler.Begin(name)
}

func (s *deviceState) EndProfile() {
	s.profiler.End()
}

// unbind drops t from the bound targets when it is destroyed while bound.
func (s *deviceState) unbind(t *Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.depth == t {
		s.depth = nil
	}
	s.colors = slices.DeleteFunc(s.colors, func(c *Texture) bool { return c == t })
}
