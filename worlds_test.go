package aqua

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldRegistry(t *testing.T) {
	r := newWorldRegistry()
	w := new(world.World)

	r.register("Lobby", w)
	r.register("", w)
	r.register("ignored", nil)

	got, ok := r.lookup("lobby")
	require.True(t, ok)
	assert.Same(t, w, got)

	got, ok = r.lookup("LOBBY")
	require.True(t, ok)
	assert.Same(t, w, got)

	_, ok = r.lookup("ignored")
	assert.False(t, ok)
	assert.Equal(t, []string{"lobby"}, r.names())

	r.unregister("LoBbY")
	_, ok = r.lookup("lobby")
	assert.False(t, ok)
}

func TestRegisterWorld(t *testing.T) {
	newTestPlugin(t, fakeHost{})
	w := new(world.World)

	_, ok := World("arena")
	assert.False(t, ok)

	RegisterWorld("Arena", w)
	got, ok := World("arena")
	require.True(t, ok)
	assert.Same(t, w, got)

	UnregisterWorld("arena")
	_, ok = World("Arena")
	assert.False(t, ok)
}

func TestNewLocation(t *testing.T) {
	newTestPlugin(t, fakeHost{})
	w := new(world.World)
	RegisterWorld("lobby", w)

	loc, ok := NewLocation("Lobby", 1, 2, 3)
	require.True(t, ok)
	assert.Same(t, w, loc.World)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, loc.Vec3())
	assert.Equal(t, cube.Rotation{}, loc.Rotation())

	loc, ok = NewLocationRotated("lobby", 1, 2, 3, 90, -45)
	require.True(t, ok)
	assert.Equal(t, cube.Rotation{90, -45}, loc.Rot)

	_, ok = NewLocation("missing", 0, 0, 0)
	assert.False(t, ok)
}

func TestParseLocation(t *testing.T) {
	newTestPlugin(t, fakeHost{})
	w := new(world.World)
	RegisterWorld("lobby", w)

	loc, ok := ParseLocation("lobby", "1", " 2.5 ", "-3d")
	require.True(t, ok)
	assert.Same(t, w, loc.World)
	assert.Equal(t, mgl64.Vec3{1, 2.5, -3}, loc.Pos)

	_, ok = ParseLocation("lobby", "abc", "2", "3")
	assert.False(t, ok)

	_, ok = ParseLocation("nowhere", "1", "2", "3")
	assert.False(t, ok)
}

func TestParseLocationArgs(t *testing.T) {
	newTestPlugin(t, fakeHost{})
	RegisterWorld("lobby", new(world.World))

	loc, ok := ParseLocationArgs([]string{"lobby", "1", "2", "3", "180", "10"})
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, loc.Pos)
	assert.Equal(t, cube.Rotation{180, 10}, loc.Rot)

	for _, args := range [][]string{
		nil,
		{"lobby"},
		{"lobby", "1", "2"},
		{"lobby", "1", "2", "3", "4"},
		{"lobby", "1", "2", "3", "4", "x"},
		{"lobby", "1", "2", "3", "4", "5", "6"},
	} {
		_, ok := ParseLocationArgs(args)
		assert.False(t, ok, "%q", args)
	}
}

func TestLocation_Add(t *testing.T) {
	loc := Location{Pos: mgl64.Vec3{1, 1, 1}, Rot: cube.Rotation{5, 5}}
	moved := loc.Add(mgl64.Vec3{0, 2, -1})

	assert.Equal(t, mgl64.Vec3{1, 3, 0}, moved.Pos)
	assert.Equal(t, loc.Rot, moved.Rot)
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, loc.Pos, "Add returns a copy")
}

func TestLocation_StringWithoutWorld(t *testing.T) {
	loc := Location{Pos: mgl64.Vec3{1, 2.5, -3}}
	assert.Equal(t, "<nil>(1.00, 2.50, -3.00)", loc.String())
}

func TestSpawnParticleAt_NoWorld(t *testing.T) {
	assert.NotPanics(t, func() {
		SpawnParticleAt(Location{}, nil)
		SpawnColouredParticleAt(Location{}, colourRed)
	})
}
