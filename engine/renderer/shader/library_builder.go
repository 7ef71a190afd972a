package shader

import (
	"io/fs"
	"os"
)

// LibraryBuilderOption is a functional option applied to a library during construction via NewLibrary.
type LibraryBuilderOption func(*library)

// WithSearchDirs appends on-disk directories to the search order.
//
// Parameters:
//   - dirs: directories holding .wgsl and .oxyfx files
//
// Returns:
//   - LibraryBuilderOption: a function that appends the directories to a library
func WithSearchDirs(dirs ...string) LibraryBuilderOption {
	return func(l *library) {
		for _, d := range dirs {
			l.roots = append(l.roots, searchRoot{dir: d, fsys: os.DirFS(d)})
		}
	}
}

// WithFS appends a file system to the search order, such as an embed.FS of built-in shaders.
// Sources found there are never reported by Dirs and so are not watched for changes.
//
// Parameters:
//   - fsys: the file system, searched from its root
//
// Returns:
//   - LibraryBuilderOption: a function that appends the file system to a library
func WithFS(fsys fs.FS) LibraryBuilderOption {
	return func(l *library) {
		l.roots = append(l.roots, searchRoot{fsys: fsys})
	}
}
