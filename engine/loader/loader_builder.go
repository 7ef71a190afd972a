package loader

import (
	"io/fs"

	"github.com/Carmen-Shannon/oxy-compose/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithFS reads models and their external buffers from fsys instead of the OS file system.
//
// Parameters:
//   - fsys: the file system, such as an embed.FS of bundled assets
//
// Returns:
//   - LoaderBuilderOption: a function that sets the file system
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.fsys = fsys
	}
}

// WithModel pre-populates the cache, for procedural models shared by name.
//
// Parameters:
//   - name: the cache key
//   - m: the model
//
// Returns:
//   - LoaderBuilderOption: a function that caches the model
func WithModel(name string, m model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.cache[name] = m
	}
}
