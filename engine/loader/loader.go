package loader

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/model"
	"golang.org/x/sync/singleflight"
)

// Loader imports glTF 2.0 models and caches them by name.
type Loader interface {
	// Load imports a .gltf or .glb file and caches the model under name.
	// A cached model is returned without reading the file again; concurrent loads of one name
	// share a single import.
	//
	// Parameters:
	//   - name: the file path, relative to the loader's file system when one is set
	//
	// Returns:
	//   - model.Model: the model, named after the file without its extension
	//   - error: error if the file cannot be read or is not a valid glTF 2.0 asset
	Load(name string) (model.Model, error)

	// LoadReader imports a model from r and caches it under name. External buffers are
	// resolved against the loader's file system.
	//
	// Parameters:
	//   - name: the cache key and model name
	//   - r: the glTF JSON or GLB data
	//   - isGLB: true if r holds a GLB container
	//
	// Returns:
	//   - model.Model: the model
	//   - error: error if the data is not a valid glTF 2.0 asset
	LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error)

	// Get returns the cached model, or nil.
	Get(name string) model.Model

	// Evict removes a model from the cache.
	//
	// Returns:
	//   - bool: true if the model was cached
	Evict(name string) bool

	// Models returns a copy of the cache.
	Models() map[string]model.Model
}

type loader struct {
	mu    sync.RWMutex
	fsys  fs.FS
	cache map[string]model.Model
	group singleflight.Group
}

var _ Loader = &loader{}

// NewLoader creates a loader reading from the OS file system unless WithFS is given.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{cache: make(map[string]model.Model)}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *loader) Load(name string) (model.Model, error) {
	if m := l.Get(name); m != nil {
		return m, nil
	}
	v, err, _ := l.group.Do(name, func() (any, error) {
		if m := l.Get(name); m != nil {
			return m, nil
		}
		data, fsys, dir, err := l.read(name)
		if err != nil {
			return nil, err
		}
		base := path.Base(filepath.ToSlash(name))
		m, err := l.decode(strings.TrimSuffix(base, path.Ext(base)), data, strings.EqualFold(path.Ext(base), ".glb"), fsys, dir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		l.store(name, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(model.Model), nil
}

func (l *loader) read(name string) ([]byte, fs.FS, string, error) {
	if l.fsys != nil {
		data, err := fs.ReadFile(l.fsys, name)
		if err != nil {
			return nil, nil, "", fmt.Errorf("loader: %w", err)
		}
		return data, l.fsys, path.Dir(name), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, nil, "", fmt.Errorf("loader: %w", err)
	}
	return data, os.DirFS(filepath.Dir(name)), ".", nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	m, err := l.decode(name, buf.Bytes(), isGLB, l.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	l.store(name, m)
	return m, nil
}

func (l *loader) decode(name string, data []byte, glb bool, fsys fs.FS, dir string) (model.Model, error) {
	doc, err := parseDocument(data, glb, fsys, dir)
	if err != nil {
		return nil, err
	}
	m, err := importDocument(name, doc)
	if err != nil {
		return nil, err
	}
	common.Logger().Debug("model loaded", "model", name, "nodes", len(m.Nodes()), "meshes", len(m.Meshes()), "materials", len(m.Materials()))
	return m, nil
}

func (l *loader) store(name string, m model.Model) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[name] = m
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[name]
}

func (l *loader) Evict(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.cache[name]
	delete(l.cache, name)
	return ok
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.cache)
}
