package graphics

import (
	"fmt"
	"sync"
)

// ResourceAllocator hands out temporary textures and pools them by descriptor for reuse.
type ResourceAllocator struct {
	mu     sync.Mutex
	device Device
	free   map[TextureDescriptor][]*Texture
	inUse  map[*Texture]struct{}
}

// NewResourceAllocator creates an allocator backed by device.
func NewResourceAllocator(device Device) *ResourceAllocator {
	if device == nil {
		panic("graphics: NewResourceAllocator requires a device")
	}
	return &ResourceAllocator{
		device: device,
		free:   make(map[TextureDescriptor][]*Texture),
		inUse:  make(map[*Texture]struct{}),
	}
}

// GetTemporaryTexture returns a pooled texture matching desc, creating one when the pool is empty.
// The caller must hand it back with ReleaseReference.
//
// Parameters:
//   - desc: the texture descriptor; pooled textures match it exactly
//
// Returns:
//   - *Texture: a texture owned by the caller until released
//   - error: device error on creation
func (a *ResourceAllocator) GetTemporaryTexture(desc TextureDescriptor) (*Texture, error) {
	desc = desc.withDefaults()

	a.mu.Lock()
	defer a.mu.Unlock()

	if pool := a.free[desc]; len(pool) > 0 {
		t := pool[len(pool)-1]
		a.free[desc] = pool[:len(pool)-1]
		a.inUse[t] = struct{}{}
		return t, nil
	}

	t, err := a.device.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("temporary texture %q: %w", desc.Label, err)
	}
	a.inUse[t] = struct{}{}
	return t, nil
}

// ReleaseReference returns a temporary texture to the pool. Unknown textures are ignored.
func (a *ResourceAllocator) ReleaseReference(t *Texture) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.inUse[t]; !ok {
		return
	}
	delete(a.inUse, t)
	a.free[t.desc] = append(a.free[t.desc], t)
}

// Recycle destroys every pooled texture that is not in use.
func (a *ResourceAllocator) Recycle() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for desc, pool := range a.free {
		for _, t := range pool {
			a.device.DestroyTexture(t)
		}
		delete(a.free, desc)
	}
}

// InUse returns the number of textures currently handed out.
func (a *ResourceAllocator) InUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.inUse)
}

// Pooled returns the number of idle textures kept for reuse.
func (a *ResourceAllocator) Pooled() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, pool := range a.free {
		n += len(pool)
	}
	return n
}
