package graphics

import (
	"maps"
	"slices"
	"sync"
)

// ParameterKey is a typed, named shader parameter.
// Keys created with NewCompilerKey feed effect compilation; their values must be comparable.
type ParameterKey[T any] struct {
	name     string
	compiler bool
}

// NewParameterKey creates a runtime parameter key (uniform data, textures).
func NewParameterKey[T any](name string) ParameterKey[T] {
	return ParameterKey[T]{name: name}
}

// NewCompilerKey creates a compile-time parameter key whose value selects shader permutations.
func NewCompilerKey[T comparable](name string) ParameterKey[T] {
	return ParameterKey[T]{name: name, compiler: true}
}

// Name returns the parameter name as seen by shaders.
func (k ParameterKey[T]) Name() string {
	return k.name
}

// IsCompilerKey reports whether the key takes part in effect compilation.
func (k ParameterKey[T]) IsCompilerKey() bool {
	return k.compiler
}

// ParameterCollection holds named parameter values shared by reference down the pass tree.
// Every mutation bumps Version so consumers can detect changes cheaply.
type ParameterCollection struct {
	mu       sync.RWMutex
	values   map[string]any
	compiler map[string]bool
	version  uint64
}

// NewParameterCollection creates an empty collection.
func NewParameterCollection() *ParameterCollection {
	return &ParameterCollection{
		values:   make(map[string]any),
		compiler: make(map[string]bool),
	}
}

// SetParameter stores value under key.
func SetParameter[T any](pc *ParameterCollection, key ParameterKey[T], value T) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.values[key.name] = value
	if key.compiler {
		pc.compiler[key.name] = true
	}
	pc.version++
}

// GetParameter returns the value stored under key.
//
// Returns:
//   - T: the value, or the zero value when absent or of another type
//   - bool: true if a value of type T was stored
func GetParameter[T any](pc *ParameterCollection, key ParameterKey[T]) (T, bool) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	v, ok := pc.values[key.name].(T)
	return v, ok
}

// Remove deletes the value stored under name.
func (pc *ParameterCollection) Remove(name string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if _, ok := pc.values[name]; !ok {
		return
	}
	delete(pc.values, name)
	delete(pc.compiler, name)
	pc.version++
}

// CopyFrom copies every value of other into pc, overwriting entries with the same name.
func (pc *ParameterCollection) CopyFrom(other *ParameterCollection) {
	if other == nil || other == pc {
		return
	}
	other.mu.RLock()
	values := maps.Clone(other.values)
	compiler := maps.Clone(other.compiler)
	other.mu.RUnlock()

	pc.mu.Lock()
	defer pc.mu.Unlock()
	maps.Copy(pc.values, values)
	maps.Copy(pc.compiler, compiler)
	pc.version++
}

// CompilerValues returns a copy of the values stored under compiler keys.
func (pc *ParameterCollection) CompilerValues() map[string]any {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	out := make(map[string]any, len(pc.compiler))
	for name := range pc.compiler {
		out[name] = pc.values[name]
	}
	return out
}

// Names returns the stored parameter names in sorted order.
func (pc *ParameterCollection) Names() []string {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return slices.Sorted(maps.Keys(pc.values))
}

// Version returns a counter incremented on every mutation.
func (pc *ParameterCollection) Version() uint64 {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.version
}
