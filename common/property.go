package common

import (
	"fmt"
	"sync"
	"sync/atomic"
)

var propertyKeyIDs atomic.Uint64

// PropertyKey identifies a typed value stored in a PropertyContainer.
// Two keys are distinct even when they share a name; identity comes from the key value itself.
type PropertyKey[T any] struct {
	id           uint64
	name         string
	defaultValue T
}

// NewPropertyKey creates a new key with the given debug name and default value.
//
// Parameters:
//   - name: name used in String() and log output
//   - defaultValue: value returned by Get when the container holds nothing for the key
//
// Returns:
//   - PropertyKey[T]: the new key
func NewPropertyKey[T any](name string, defaultValue T) PropertyKey[T] {
	return PropertyKey[T]{
		id:           propertyKeyIDs.Add(1),
		name:         name,
		defaultValue: defaultValue,
	}
}

// Name returns the key's debug name.
func (k PropertyKey[T]) Name() string {
	return k.name
}

// Default returns the key's default value.
func (k PropertyKey[T]) Default() T {
	return k.defaultValue
}

func (k PropertyKey[T]) String() string {
	return fmt.Sprintf("%s#%d", k.name, k.id)
}

// PropertyContainer is a heterogeneous map keyed by PropertyKey values.
// The zero value is not usable; create one with NewPropertyContainer.
type PropertyContainer struct {
	mu     sync.RWMutex
	values map[uint64]any
}

// NewPropertyContainer creates an empty container.
func NewPropertyContainer() *PropertyContainer {
	return &PropertyContainer{values: make(map[uint64]any)}
}

// Get returns the value stored for key, or the key's default and false when absent.
//
// Parameters:
//   - c: the container to read
//   - key: the typed key
//
// Returns:
//   - T: the stored or default value
//   - bool: true if a value was stored
func Get[T any](c *PropertyContainer, key PropertyKey[T]) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.values[key.id]
	if !ok {
		return key.defaultValue, false
	}
	t, _ := v.(T)
	return t, true
}

// GetOrDefault returns the stored value for key, or its default.
func GetOrDefault[T any](c *PropertyContainer, key PropertyKey[T]) T {
	v, _ := Get(c, key)
	return v
}

// Set stores value for key, replacing any previous value.
func Set[T any](c *PropertyContainer, key PropertyKey[T], value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key.id] = value
}

// Remove deletes the value stored for key.
//
// Returns:
//   - bool: true if a value was present
func Remove[T any](c *PropertyContainer, key PropertyKey[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.values[key.id]
	delete(c.values, key.id)
	return ok
}

// GetOrCreate returns the value stored for key, storing create() first when absent.
// create runs under the container lock and must not touch the container.
func GetOrCreate[T any](c *PropertyContainer, key PropertyKey[T], create func() T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.values[key.id]; ok {
		t, _ := v.(T)
		return t
	}
	v := create()
	c.values[key.id] = v
	return v
}

// Push stores value for key and returns a function restoring the previous state.
// The restore function is meant to be deferred so the previous value comes back on every exit path.
//
// Parameters:
//   - c: the container to modify
//   - key: the typed key
//   - value: the value to store until restore is called
//
// Returns:
//   - func(): restores the previous value (or absence) of key
func Push[T any](c *PropertyContainer, key PropertyKey[T], value T) func() {
	c.mu.Lock()
	prev, had := c.values[key.id]
	c.values[key.id] = value
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if had {
			c.values[key.id] = prev
		} else {
			delete(c.values, key.id)
		}
	}
}
