package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestSettersRepublishParameters(t *testing.T) {
	m := NewMaterial(WithName("glass"), WithTransparency(true))
	params := m.Parameters()

	transparent, ok := graphics.GetParameter(params, TransparentKey)
	assert.True(t, ok)
	assert.True(t, transparent)
	assert.Equal(t, map[string]any{"MATERIAL_TRANSPARENT": true, "MATERIAL_TEXTURED": false}, params.CompilerValues())

	before := params.Version()
	m.SetTransparency(false)
	assert.Greater(t, params.Version(), before)
	assert.False(t, m.HasTransparency())

	m.SetDiffuseTexture("bricks")
	textured, _ := graphics.GetParameter(params, TexturedKey)
	assert.True(t, textured)
}

func TestUniformLayout(t *testing.T) {
	m := NewMaterial(WithBaseColor(mgl32.Vec4{0.25, 0.5, 0.75, 1}), WithRoughness(0.3))
	buf, ok := graphics.GetParameter(m.Parameters(), UniformKey)
	assert.True(t, ok)
	assert.Len(t, buf, 32)
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])))
	assert.Equal(t, float32(0.3), math.Float32frombits(binary.LittleEndian.Uint32(buf[20:])))
}
