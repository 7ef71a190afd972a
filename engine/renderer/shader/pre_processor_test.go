package shader

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func newTestLibrary(files map[string]string) (Library, fstest.MapFS) {
	fsys := fstest.MapFS{}
	for name, text := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(text)}
	}
	return NewLibrary(WithFS(fsys)), fsys
}

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    *Annotation
		wantErr bool
	}{
		{name: "plain line", line: "let x = 1;"},
		{name: "ordinary comment", line: "// just a note"},
		{name: "include", line: "//@oxy:include common", want: &Annotation{Type: AnnotationTypeInclude, Args: []string{"common"}, Line: 3}},
		{name: "spaced prefix", line: "  // @oxy:endif", want: &Annotation{Type: AnnotationTypeEndif, Args: []string{}, Line: 3}},
		{name: "if with value", line: "//@oxy:if MODE fast", want: &Annotation{Type: AnnotationTypeIf, Args: []string{"MODE", "fast"}, Line: 3}},
		{name: "child", line: "//@oxy:child Shadow ShadowCaster", want: &Annotation{Type: AnnotationTypeChild, Args: []string{"Shadow", "ShadowCaster"}, Line: 3}},
		{name: "empty", line: "//@oxy:", wantErr: true},
		{name: "unknown type", line: "//@oxy:group 0 0", wantErr: true},
		{name: "missing arg", line: "//@oxy:include", wantErr: true},
		{name: "extra arg", line: "//@oxy:else now", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnnotation(tt.line, 3)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProcessIncludesAndRecordsDependencies(t *testing.T) {
	lib, _ := newTestLibrary(map[string]string{
		"Common.wgsl": "fn helper() -> f32 { return 1.0; }",
		"Basic.wgsl":  "//@oxy:include Common\n@fragment fn fs_main() {}",
	})
	out, err := NewPreProcessor(lib).Process("Basic", nil)
	require.NoError(t, err)

	assert.Equal(t, "fn helper() -> f32 { return 1.0; }\n@fragment fn fs_main() {}", out.Source)
	assert.False(t, out.Composable)
	assert.Equal(t, map[string][32]byte{
		"Basic":  blake2b.Sum256([]byte("//@oxy:include Common\n@fragment fn fs_main() {}")),
		"Common": blake2b.Sum256([]byte("fn helper() -> f32 { return 1.0; }")),
	}, out.Dependencies)
	assert.Empty(t, out.UsedParameters)
}

func TestProcessConditionals(t *testing.T) {
	lib, _ := newTestLibrary(map[string]string{
		"Lit.wgsl": "a\n//@oxy:if SHADOWS\nb\n//@oxy:if QUALITY high\nc\n//@oxy:else\nd\n//@oxy:endif\n//@oxy:else\ne\n//@oxy:endif\nf",
	})
	pp := NewPreProcessor(lib)

	tests := []struct {
		name   string
		params map[string]any
		want   string
		used   map[string]any
	}{
		{name: "unset", params: nil, want: "a\ne\nf", used: map[string]any{"SHADOWS": nil}},
		{name: "false", params: map[string]any{"SHADOWS": false}, want: "a\ne\nf", used: map[string]any{"SHADOWS": false}},
		{name: "nested high", params: map[string]any{"SHADOWS": true, "QUALITY": "high"}, want: "a\nb\nc\nf", used: map[string]any{"SHADOWS": true, "QUALITY": "high"}},
		{name: "nested low", params: map[string]any{"SHADOWS": 1, "QUALITY": "low", "UNUSED": 7}, want: "a\nb\nd\nf", used: map[string]any{"SHADOWS": 1, "QUALITY": "low"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := pp.Process("Lit", tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Source)
			assert.Equal(t, tt.used, out.UsedParameters)
		})
	}
}

func TestProcessSubstitution(t *testing.T) {
	lib, _ := newTestLibrary(map[string]string{
		"Tint.wgsl": "//@oxy:param STRENGTH 0.5\nlet s = {{STRENGTH}};\nlet n = {{ COUNT }};",
	})
	pp := NewPreProcessor(lib)

	out, err := pp.Process("Tint", map[string]any{"COUNT": 4})
	require.NoError(t, err)
	assert.Equal(t, "let s = 0.5;\nlet n = 4;", out.Source)
	assert.Equal(t, map[string]any{"STRENGTH": nil, "COUNT": 4}, out.UsedParameters)

	_, err = pp.Process("Tint", nil)
	assert.ErrorContains(t, err, "COUNT")
}

func TestProcessComposition(t *testing.T) {
	lib, _ := newTestLibrary(map[string]string{
		"Material.oxyfx":    "//@oxy:mixin Transform\n//@oxy:if SKINNED\n//@oxy:mixin Skinning\n//@oxy:endif\n//@oxy:child Shadow ShadowCaster",
		"Transform.wgsl":    "transform",
		"Skinning.wgsl":     "skinning",
		"ShadowCaster.wgsl": "//@oxy:include Transform\nshadow",
	})
	pp := NewPreProcessor(lib)

	out, err := pp.Process("Material", map[string]any{"SKINNED": true})
	require.NoError(t, err)
	assert.True(t, out.Composable)
	assert.Equal(t, "transform\nskinning", out.Source)
	assert.Equal(t, []string{"Transform", "Skinning"}, out.Mixins)

	out, err = pp.Process("Material.Shadow", nil)
	require.NoError(t, err)
	assert.Equal(t, "transform\nshadow", out.Source)
	assert.Contains(t, out.Dependencies, "Material")
	assert.Contains(t, out.Dependencies, "ShadowCaster")

	_, err = pp.Process("Material.Missing", nil)
	assert.ErrorIs(t, err, ErrUnknownChild)
}

func TestProcessErrors(t *testing.T) {
	lib, _ := newTestLibrary(map[string]string{
		"Loop.wgsl":       "//@oxy:include Loop2",
		"Loop2.wgsl":      "//@oxy:include Loop",
		"Open.wgsl":       "//@oxy:if A\nx",
		"Stray.wgsl":      "//@oxy:endif",
		"Mixer.wgsl":      "//@oxy:mixin Open",
		"Comp.oxyfx":      "x",
		"IncComp.wgsl":    "//@oxy:include Comp",
		"DoubleElse.wgsl": "//@oxy:if A\n//@oxy:else\n//@oxy:else\n//@oxy:endif",
	})
	pp := NewPreProcessor(lib)

	tests := map[string]string{
		"Loop":       "cycle",
		"Open":       "never closed",
		"Stray":      "without matching if",
		"Mixer":      "only valid",
		"IncComp":    "use @oxy:mixin",
		"DoubleElse": "without matching if",
	}
	for name, msg := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := pp.Process(name, nil)
			assert.ErrorContains(t, err, msg)
		})
	}

	_, err := pp.Process("Nope", nil)
	assert.ErrorIs(t, err, ErrSourceNotFound)
}
