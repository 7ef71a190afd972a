package effect

import (
	"errors"
	"io"
	"maps"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
)

// ErrSystemClosed is returned by loads after Close.
var ErrSystemClosed = errors.New("effect: system closed")

// SystemKey carries the effect system in a render context's tags.
var SystemKey = common.NewPropertyKey[System]("Effect.System", nil)

// System loads effects by name and compiler parameters. It keeps two caches:
//   - the early compiler cache maps an effect name to bytecodes with the parameter subset each compile
//     read, and serves any request whose parameters contain that subset without compiling;
//   - the effect cache maps a bytecode hash to the one live Effect for it.
//
// Eviction takes the effect cache lock before the early cache lock.
type System interface {
	// LoadEffect loads an effect, blocking until any compile finishes.
	//
	// Parameters:
	//   - name: the effect name, "Main" or "Main.Sub"
	//   - params: the compiler parameters
	//
	// Returns:
	//   - *Effect: the cached or newly created effect
	//   - error: a *CompileError, a source lookup error or a device error
	LoadEffect(name string, params CompilerParameters) (*Effect, error)

	// LoadEffectAsync is LoadEffect without blocking. Early cache hits complete immediately.
	LoadEffectAsync(name string, params CompilerParameters) *Result[*Effect]

	// NotifySourceChanged queues source names for the next Update. Safe from any goroutine.
	NotifySourceChanged(names ...string)

	// Update applies queued source changes: the compiler forgets the sources, every effect whose
	// bytecode depends on one is disposed and evicted, and matching early cache entries are purged.
	// Call it once per frame from the render goroutine.
	//
	// Returns:
	//   - int: the number of evicted effects
	Update() int

	// CachedEffectCount returns the number of live effects.
	CachedEffectCount() int

	// Generation counts the source change batches Update has applied. Callers holding a failed
	// compile retry it when the generation moves.
	Generation() uint64

	// Close stops watching, disposes every effect and closes the compiler if it is an io.Closer.
	Close() error
}

type earlyEntry struct {
	used     CompilerParameters
	bytecode *EffectBytecode
}

type system struct {
	device   graphics.Device
	compiler Compiler
	watcher  *sourceWatcher

	cachedEffectsMu sync.Mutex
	cachedEffects   map[[32]byte]*Effect

	earlyCompilerCacheMu sync.Mutex
	earlyCompilerCache   map[string][]earlyEntry

	pendingMu sync.Mutex
	pending   map[string]struct{}

	// changedAt records the generation each source last changed in. Guarded by cachedEffectsMu.
	changedAt  map[string]uint64
	generation atomic.Uint64
	closed     bool
}

var _ System = &system{}

// NewSystem creates an effect System.
//
// Parameters:
//   - device: the device that owns shader modules
//   - compiler: the effect compiler
//   - options: functional options, such as WithHotReload
//
// Returns:
//   - System: the system
//   - error: error if the source watcher cannot start
func NewSystem(device graphics.Device, compiler Compiler, options ...SystemBuilderOption) (System, error) {
	if device == nil || compiler == nil {
		panic("effect: NewSystem requires a device and a compiler")
	}
	s := &system{
		device:             device,
		compiler:           compiler,
		cachedEffects:      make(map[[32]byte]*Effect),
		earlyCompilerCache: make(map[string][]earlyEntry),
		pending:            make(map[string]struct{}),
		changedAt:          make(map[string]uint64),
	}
	cfg := systemConfig{}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.library != nil && len(cfg.library.Dirs()) > 0 {
		w, err := newSourceWatcher(cfg.library, s.NotifySourceChanged)
		if err != nil {
			return nil, err
		}
		s.watcher = w
	}
	return s, nil
}

func (s *system) LoadEffect(name string, params CompilerParameters) (*Effect, error) {
	return s.LoadEffectAsync(name, params).Wait()
}

func (s *system) LoadEffectAsync(name string, params CompilerParameters) *Result[*Effect] {
	if s.isClosed() {
		return Failed[*Effect](ErrSystemClosed)
	}
	if bc := s.earlyLookup(name, params); bc != nil {
		e, err := s.effectFor(bc)
		if err != nil {
			return Failed[*Effect](err)
		}
		return Completed(e)
	}
	started := s.Generation()
	return then(s.compiler.Compile(name, params), func(bc *EffectBytecode) (*Effect, error) {
		e, stale, err := s.register(name, bc, started)
		if stale {
			common.Logger().Debug("discarding compile of changed sources", "effect", name)
			return s.LoadEffectAsync(name, params).Wait()
		}
		return e, err
	})
}

// register publishes a finished compile in both caches unless a source it read changed after the
// compile started at generation started. The check and the insert share the lock Update evicts under.
func (s *system) register(name string, bc *EffectBytecode, started uint64) (*Effect, bool, error) {
	s.cachedEffectsMu.Lock()
	defer s.cachedEffectsMu.Unlock()
	if s.closed {
		return nil, false, ErrSystemClosed
	}
	if s.generation.Load() != started {
		for dep := range bc.Dependencies {
			if s.changedAt[dep] > started {
				return nil, true, nil
			}
		}
	}
	s.registerEarly(name, bc)
	e, err := s.effectForLocked(bc)
	return e, false, err
}

func (s *system) earlyLookup(name string, params CompilerParameters) *EffectBytecode {
	s.earlyCompilerCacheMu.Lock()
	defer s.earlyCompilerCacheMu.Unlock()
	for _, e := range s.earlyCompilerCache[name] {
		if params.Contains(e.used) {
			return e.bytecode
		}
	}
	return nil
}

func (s *system) registerEarly(name string, bc *EffectBytecode) {
	s.earlyCompilerCacheMu.Lock()
	defer s.earlyCompilerCacheMu.Unlock()
	for _, e := range s.earlyCompilerCache[name] {
		if e.bytecode.Hash == bc.Hash && maps.EqualFunc(e.used, bc.UsedParameters, reflect.DeepEqual) {
			return
		}
	}
	s.earlyCompilerCache[name] = append(s.earlyCompilerCache[name], earlyEntry{used: bc.UsedParameters, bytecode: bc})
}

// effectFor returns the live effect for bc, creating it on first use.
func (s *system) effectFor(bc *EffectBytecode) (*Effect, error) {
	s.cachedEffectsMu.Lock()
	defer s.cachedEffectsMu.Unlock()
	if s.closed {
		return nil, ErrSystemClosed
	}
	return s.effectForLocked(bc)
}

func (s *system) effectForLocked(bc *EffectBytecode) (*Effect, error) {
	if e, ok := s.cachedEffects[bc.Hash]; ok && !e.IsDisposed() {
		return e, nil
	}
	e, err := newEffect(s.device, bc)
	if err != nil {
		return nil, err
	}
	s.cachedEffects[bc.Hash] = e
	return e, nil
}

func (s *system) NotifySourceChanged(names ...string) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	for _, n := range names {
		s.pending[n] = struct{}{}
	}
}

func (s *system) Update() int {
	s.pendingMu.Lock()
	names := slices.Sorted(maps.Keys(s.pending))
	clear(s.pending)
	s.pendingMu.Unlock()
	if len(names) == 0 {
		return 0
	}

	s.compiler.ResetCache(names)

	var evicted []*Effect
	s.cachedEffectsMu.Lock()
	gen := s.generation.Add(1)
	for _, n := range names {
		s.changedAt[n] = gen
	}
	for hash, e := range s.cachedEffects {
		if e.Bytecode().DependsOn(names...) {
			delete(s.cachedEffects, hash)
			evicted = append(evicted, e)
		}
	}
	s.earlyCompilerCacheMu.Lock()
	for name, entries := range s.earlyCompilerCache {
		kept := slices.DeleteFunc(entries, func(e earlyEntry) bool {
			return e.bytecode.DependsOn(names...)
		})
		if len(kept) == 0 {
			delete(s.earlyCompilerCache, name)
		} else {
			s.earlyCompilerCache[name] = kept
		}
	}
	s.earlyCompilerCacheMu.Unlock()
	s.cachedEffectsMu.Unlock()

	for _, e := range evicted {
		e.Dispose()
	}
	common.Logger().Info("effects reloaded", "sources", names, "evicted", len(evicted))
	return len(evicted)
}

func (s *system) CachedEffectCount() int {
	s.cachedEffectsMu.Lock()
	defer s.cachedEffectsMu.Unlock()
	return len(s.cachedEffects)
}

func (s *system) Generation() uint64 {
	return s.generation.Load()
}

func (s *system) isClosed() bool {
	s.cachedEffectsMu.Lock()
	defer s.cachedEffectsMu.Unlock()
	return s.closed
}

func (s *system) Close() error {
	var errs []error
	if s.watcher != nil {
		errs = append(errs, s.watcher.Close())
		s.watcher = nil
	}

	s.cachedEffectsMu.Lock()
	if s.closed {
		s.cachedEffectsMu.Unlock()
		return errors.Join(errs...)
	}
	s.closed = true
	effects := slices.Collect(maps.Values(s.cachedEffects))
	clear(s.cachedEffects)
	s.earlyCompilerCacheMu.Lock()
	clear(s.earlyCompilerCache)
	s.earlyCompilerCacheMu.Unlock()
	s.cachedEffectsMu.Unlock()

	for _, e := range effects {
		e.Dispose()
	}
	if c, ok := s.compiler.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
