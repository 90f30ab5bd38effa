package aqua

import (
	"testing"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/entity"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// testServer is an in-process Host with a real overworld and nether and no
// network. Players are resolved only through the plugin's own index.
type testServer struct {
	overworld *world.World
	nether    *world.World
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return &testServer{
		overworld: newTestWorld(t, world.Overworld),
		nether:    newTestWorld(t, world.Nether),
	}
}

func (s *testServer) World() *world.World  { return s.overworld }
func (s *testServer) Nether() *world.World { return s.nether }
func (s *testServer) End() *world.World    { return nil }

func (s *testServer) Player(uuid.UUID) (*world.EntityHandle, bool)     { return nil, false }
func (s *testServer) PlayerByName(string) (*world.EntityHandle, bool) { return nil, false }
func (s *testServer) PlayerByXUID(string) (*world.EntityHandle, bool) { return nil, false }

// newTestWorld creates an empty in-memory world closed at the end of the test.
func newTestWorld(t *testing.T, dim world.Dimension) *world.World {
	t.Helper()
	w := world.Config{
		Log:          discardLogger(),
		Dim:          dim,
		Entities:     entity.DefaultRegistry,
		SaveInterval: -1,
	}.New()
	t.Cleanup(func() {
		_ = w.Close()
	})
	return w
}

// spawnPlayer adds a session-less player to w. The player is immobile so
// world ticks never move it.
func spawnPlayer(t *testing.T, w *world.World, name string, pos mgl64.Vec3) *world.EntityHandle {
	t.Helper()
	id := uuid.New()
	h := world.EntitySpawnOpts{Position: pos, ID: id}.New(player.Type, player.Config{
		Name:     name,
		UUID:     id,
		XUID:     "xuid-" + name,
		Position: pos,
	})
	execWorld(t, w, func(tx *world.Tx) {
		tx.AddEntity(h).(*player.Player).SetImmobile()
	})
	return h
}

// trackPlayer tracks the player behind h with pl.
func trackPlayer(t *testing.T, pl *Plugin, w *world.World, h *world.EntityHandle) {
	t.Helper()
	execWorld(t, w, func(tx *world.Tx) {
		e, _ := h.Entity(tx)
		pl.Track(e.(*player.Player))
	})
}

// execWorld runs fn in a transaction of w and waits for it to finish.
func execWorld(t *testing.T, w *world.World, fn func(tx *world.Tx)) {
	t.Helper()
	waitClosed(t, w.Exec(fn), "world transaction")
}

func waitClosed(t *testing.T, c <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-c:
	case <-time.After(5 * time.Second):
		t.Fatalf("%s did not finish", what)
	}
}

// playerState reads the position and rotation of the player behind h if it
// is in w.
func playerState(t *testing.T, w *world.World, h *world.EntityHandle) (pos mgl64.Vec3, rot cube.Rotation, ok bool) {
	t.Helper()
	execWorld(t, w, func(tx *world.Tx) {
		e, in := h.Entity(tx)
		if !in {
			return
		}
		pos, rot, ok = e.Position(), e.Rotation(), true
	})
	return pos, rot, ok
}
