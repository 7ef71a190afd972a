package shader

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPrefersCompositionAndEarlierRoots(t *testing.T) {
	first := fstest.MapFS{
		"Lit.wgsl":  {Data: []byte("first plain")},
		"Only.wgsl": {Data: []byte("only")},
	}
	second := fstest.MapFS{
		"Lit.oxyfx": {Data: []byte("second composition")},
	}
	lib := NewLibrary(WithFS(second), WithFS(first))

	s, err := lib.Lookup("Lit")
	require.NoError(t, err)
	assert.Equal(t, SourceComposable, s.Kind)
	assert.Equal(t, "second composition", s.Text)

	s, err = lib.Lookup("Only")
	require.NoError(t, err)
	assert.Equal(t, SourcePlain, s.Kind)

	_, err = lib.Lookup("Missing")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestLookupCachesUntilInvalidated(t *testing.T) {
	fsys := fstest.MapFS{"Tint.wgsl": {Data: []byte("v1")}}
	lib := NewLibrary(WithFS(fsys))

	v1, err := lib.Lookup("Tint")
	require.NoError(t, err)

	fsys["Tint.wgsl"] = &fstest.MapFile{Data: []byte("v2")}
	cached, err := lib.Lookup("Tint")
	require.NoError(t, err)
	assert.Same(t, v1, cached)

	lib.Invalidate("Tint")
	v2, err := lib.Lookup("Tint")
	require.NoError(t, err)
	assert.Equal(t, "v2", v2.Text)
	assert.NotEqual(t, v1.Hash, v2.Hash)
}

func TestSearchDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sky.wgsl"), []byte("sky"), 0o644))
	lib := NewLibrary(WithSearchDirs(dir), WithFS(fstest.MapFS{}))

	s, err := lib.Lookup("Sky")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Sky.wgsl"), s.Path)
	assert.Equal(t, []string{dir}, lib.Dirs())
}

func TestNameForPath(t *testing.T) {
	lib := NewLibrary()
	tests := []struct {
		path string
		name string
		ok   bool
	}{
		{path: "/shaders/Lit.wgsl", name: "Lit", ok: true},
		{path: "Material.oxyfx", name: "Material", ok: true},
		{path: "/shaders/notes.txt"},
		{path: "/shaders/.wgsl"},
	}
	for _, tt := range tests {
		name, ok := lib.NameForPath(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.name, name, tt.path)
	}
}

func TestSplitName(t *testing.T) {
	main, sub := SplitName("Material.Shadow.Extra")
	assert.Equal(t, "Material", main)
	assert.Equal(t, "Shadow.Extra", sub)

	main, sub = SplitName("Lit")
	assert.Equal(t, "Lit", main)
	assert.Empty(t, sub)
}
