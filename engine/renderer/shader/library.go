package shader

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"
)

const (
	// PlainExt is the file extension of plain shader sources.
	PlainExt = ".wgsl"
	// ComposableExt is the file extension of composition sources.
	ComposableExt = ".oxyfx"
)

// ErrSourceNotFound is returned when no search root holds a source of the requested name.
var ErrSourceNotFound = errors.New("shader: source not found")

// SourceKind tells plain shaders and compositions apart.
type SourceKind int

const (
	SourcePlain SourceKind = iota
	SourceComposable
)

// Source is one loaded shader source file.
type Source struct {
	Name string
	Path string
	Kind SourceKind
	Text string
	Hash [32]byte
}

// Library resolves source names to files under a list of search roots and caches what it reads.
type Library interface {
	// Lookup returns the named source. A composition (.oxyfx) shadows a plain source of the same name,
	// and earlier roots shadow later ones.
	//
	// Parameters:
	//   - name: the source name without extension
	//
	// Returns:
	//   - *Source: the source
	//   - error: ErrSourceNotFound or a read error
	Lookup(name string) (*Source, error)

	// Invalidate drops cached sources so the next Lookup rereads them.
	//
	// Parameters:
	//   - names: the source names to drop
	Invalidate(names ...string)

	// NameForPath maps a file path below a search directory back to its source name.
	//
	// Parameters:
	//   - path: a file path as reported by a file watcher
	//
	// Returns:
	//   - string: the source name
	//   - bool: false if the path is not a shader source
	NameForPath(path string) (string, bool)

	// Dirs returns the on-disk search directories, in search order.
	Dirs() []string
}

type searchRoot struct {
	dir  string
	fsys fs.FS
}

type library struct {
	mu      sync.Mutex
	roots   []searchRoot
	sources map[string]*Source
}

var _ Library = &library{}

// NewLibrary creates a Library. With no options it searches nothing.
//
// Parameters:
//   - options: functional options adding search roots
//
// Returns:
//   - Library: the library
func NewLibrary(options ...LibraryBuilderOption) Library {
	l := &library{sources: make(map[string]*Source)}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *library) Lookup(name string) (*Source, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.sources[name]; ok {
		return s, nil
	}
	for _, root := range l.roots {
		for _, kind := range []SourceKind{SourceComposable, SourcePlain} {
			file := name + extFor(kind)
			data, err := fs.ReadFile(root.fsys, file)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("read shader source %s: %w", file, err)
			}
			s := &Source{
				Name: name,
				Path: file,
				Kind: kind,
				Text: string(data),
				Hash: blake2b.Sum256(data),
			}
			if root.dir != "" {
				s.Path = filepath.Join(root.dir, file)
			}
			l.sources[name] = s
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, name)
}

func (l *library) Invalidate(names ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, n := range names {
		delete(l.sources, n)
	}
}

func (l *library) NameForPath(path string) (string, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != PlainExt && ext != ComposableExt {
		return "", false
	}
	name := strings.TrimSuffix(base, ext)
	return name, name != ""
}

func (l *library) Dirs() []string {
	var dirs []string
	for _, r := range l.roots {
		if r.dir != "" {
			dirs = append(dirs, r.dir)
		}
	}
	return dirs
}

func extFor(kind SourceKind) string {
	if kind == SourceComposable {
		return ComposableExt
	}
	return PlainExt
}

// SplitName splits an effect name at its first dot into the main and sub effect names.
//
// Parameters:
//   - name: an effect name such as "Lighting" or "Lighting.Shadow"
//
// Returns:
//   - string: the main effect name
//   - string: the sub effect name, empty when name has no dot
func SplitName(name string) (string, string) {
	main, sub, _ := strings.Cut(name, ".")
	return main, sub
}
