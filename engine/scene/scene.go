package scene

import (
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/game_object"
)

// parallelUpdateThreshold is the object count below which Update runs inline.
const parallelUpdateThreshold = 256

// Scene defines the interface for a set of game objects plus the services renderers attach to it.
type Scene interface {
	// Name returns the scene name.
	Name() string

	// Active reports whether the scene is updated and drawn.
	Active() bool

	// SetActive sets whether the scene is updated and drawn.
	SetActive(active bool)

	// Camera returns the main camera, or nil.
	//
	// Returns:
	//   - camera.Camera: the main camera
	Camera() camera.Camera

	// SetCamera replaces the main camera.
	//
	// Parameters:
	//   - cam: the new main camera
	SetCamera(cam camera.Camera)

	// Services returns the per-scene service container. Renderers keep state shared between
	// every renderer of this scene here, for example the model slot allocator.
	//
	// Returns:
	//   - *common.PropertyContainer: the service container
	Services() *common.PropertyContainer

	// Add registers obj and assigns it the next ID when it has none.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj game_object.GameObject) uint64

	// Get returns the object with the given ID, or nil.
	Get(id uint64) game_object.GameObject

	// Remove unregisters the object with the given ID.
	//
	// Returns:
	//   - bool: true if the object was registered
	Remove(id uint64) bool

	// Clear unregisters every object.
	Clear()

	// Count returns the number of registered objects.
	Count() int

	// Objects returns the registered objects in ascending ID order.
	Objects() []game_object.GameObject

	// ModelObjects returns the objects carrying a model component, in ascending ID order.
	ModelObjects() []game_object.GameObject

	// SpriteObjects returns the objects carrying a sprite component, in ascending ID order.
	SpriteObjects() []game_object.GameObject

	// UIObjects returns the objects carrying a UI component, in ascending ID order.
	UIObjects() []game_object.GameObject

	// Background returns the first enabled object carrying a background component, or nil.
	Background() game_object.GameObject

	// Update advances the camera controller and every object by dt seconds.
	// Large scenes update objects in parallel on the scene's worker pool.
	//
	// Parameters:
	//   - dt: elapsed seconds
	Update(dt float32)

	// Close stops the worker pool.
	Close()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool
	cam    camera.Camera

	registry map[uint64]game_object.GameObject
	order    []uint64
	nextID   uint64

	services *common.PropertyContainer

	// computePool runs object updates for large scenes. Workers persist across frames.
	computePool    worker.DynamicWorkerPool
	computeWorkers int
	closeOnce      sync.Once
}

var _ Scene = &scene{}

// NewScene creates an active, empty scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		active:         true,
		registry:       make(map[uint64]game_object.GameObject),
		nextID:         1,
		services:       common.NewPropertyContainer(),
		computeWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Services() *common.PropertyContainer {
	return s.services
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	if obj == nil {
		panic("scene: Add requires a GameObject")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(obj)
}

func (s *scene) add(obj game_object.GameObject) uint64 {
	id := obj.ID()
	if id == 0 {
		id = s.nextID
		obj.SetID(id)
	}
	s.nextID = max(s.nextID, id+1)
	if _, exists := s.registry[id]; !exists {
		i, _ := slices.BinarySearch(s.order, id)
		s.order = slices.Insert(s.order, i, id)
	}
	s.registry[id] = obj
	return id
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registry[id]; !ok {
		return false
	}
	delete(s.registry, id)
	if i, found := slices.BinarySearch(s.order, id); found {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return true
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.registry)
	s.order = nil
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Objects() []game_object.GameObject {
	return s.filter(func(game_object.GameObject) bool { return true })
}

func (s *scene) ModelObjects() []game_object.GameObject {
	return s.filter(func(o game_object.GameObject) bool { return o.Model() != nil })
}

func (s *scene) SpriteObjects() []game_object.GameObject {
	return s.filter(func(o game_object.GameObject) bool { return o.Sprite() != nil })
}

func (s *scene) UIObjects() []game_object.GameObject {
	return s.filter(func(o game_object.GameObject) bool { return o.UI() != nil })
}

func (s *scene) Background() game_object.GameObject {
	bg := s.filter(func(o game_object.GameObject) bool { return o.Enabled() && o.Background() != nil })
	if len(bg) == 0 {
		return nil
	}
	return bg[0]
}

func (s *scene) filter(keep func(game_object.GameObject) bool) []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []game_object.GameObject
	for _, id := range s.order {
		if o := s.registry[id]; keep(o) {
			out = append(out, o)
		}
	}
	return out
}

func (s *scene) Update(dt float32) {
	if cam := s.Camera(); cam != nil {
		cam.Update()
	}

	objects := s.Objects()
	if len(objects) < parallelUpdateThreshold {
		for _, o := range objects {
			o.Update(dt)
		}
		return
	}

	// A WaitGroup gives a per-frame barrier; pool.Wait blocks until workers idle-exit,
	// which is unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	chunk := (len(objects) + s.computeWorkers - 1) / s.computeWorkers
	for id, start := 0, 0; start < len(objects); id, start = id+1, start+chunk {
		part := objects[start:min(start+chunk, len(objects))]
		wg.Add(1)
		s.computePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for _, o := range part {
					o.Update(dt)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (s *scene) Close() {
	s.closeOnce.Do(s.computePool.Stop)
}
