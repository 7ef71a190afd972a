package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/engine/camera"
	"github.com/Carmen-Shannon/oxy-compose/engine/game_object"
	"github.com/Carmen-Shannon/oxy-compose/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestAddAssignsIDsAndKeepsOrder(t *testing.T) {
	s := NewScene("test")
	t.Cleanup(s.Close)

	pinned := game_object.NewGameObject()
	pinned.SetID(10)
	assert.Equal(t, uint64(10), s.Add(pinned))
	assert.Equal(t, uint64(11), s.Add(game_object.NewGameObject()))

	early := game_object.NewGameObject()
	early.SetID(2)
	s.Add(early)

	var ids []uint64
	for _, o := range s.Objects() {
		ids = append(ids, o.ID())
	}
	assert.Equal(t, []uint64{2, 10, 11}, ids)

	assert.True(t, s.Remove(10))
	assert.False(t, s.Remove(10))
	assert.Nil(t, s.Get(10))
	assert.Equal(t, 2, s.Count())
}

func TestComponentQueries(t *testing.T) {
	hidden := game_object.NewGameObject(game_object.WithBackground(&game_object.Background{}), game_object.WithEnabled(false))
	bg := game_object.NewGameObject(game_object.WithBackground(&game_object.Background{Intensity: 1}))
	s := NewScene("test", WithObjects(
		game_object.NewGameObject(game_object.WithModel(model.NewModel())),
		game_object.NewGameObject(game_object.WithSprite(&game_object.Sprite{})),
		game_object.NewGameObject(game_object.WithUI(&game_object.UIElement{})),
		hidden,
		bg,
	))
	t.Cleanup(s.Close)

	assert.Len(t, s.ModelObjects(), 1)
	assert.Len(t, s.SpriteObjects(), 1)
	assert.Len(t, s.UIObjects(), 1)
	assert.Same(t, bg, s.Background())
}

func TestParallelUpdate(t *testing.T) {
	s := NewScene("crowd", WithComputeWorkers(4))
	t.Cleanup(s.Close)
	for range parallelUpdateThreshold * 2 {
		s.Add(game_object.NewGameObject(game_object.WithRotationSpeed(mgl32.Vec3{1, 0, 0})))
	}
	s.Update(0.25)
	for _, o := range s.Objects() {
		assert.Equal(t, mgl32.Vec3{0.25, 0, 0}, o.Rotation())
	}
}

func TestUpdateDrivesCamera(t *testing.T) {
	oc := camera.NewOrbitController(camera.WithOrbit(5, 0, 0))
	cam := camera.NewCamera(camera.WithController(oc))
	s := NewScene("test", WithCamera(cam))
	t.Cleanup(s.Close)

	oc.Zoom(1)
	s.Update(0)
	assert.InDelta(t, 4, cam.Position().Z(), 1e-4)
}
