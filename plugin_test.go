package aqua

import (
	"testing"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHost is a Host without worlds that resolves players from maps.
type fakeHost struct {
	byUUID map[uuid.UUID]*world.EntityHandle
	byName map[string]*world.EntityHandle
	byXUID map[string]*world.EntityHandle
}

func (fakeHost) World() *world.World  { return nil }
func (fakeHost) Nether() *world.World { return nil }
func (fakeHost) End() *world.World    { return nil }

func (h fakeHost) Player(id uuid.UUID) (*world.EntityHandle, bool) {
	p, ok := h.byUUID[id]
	return p, ok
}

func (h fakeHost) PlayerByName(name string) (*world.EntityHandle, bool) {
	p, ok := h.byName[name]
	return p, ok
}

func (h fakeHost) PlayerByXUID(xuid string) (*world.EntityHandle, bool) {
	p, ok := h.byXUID[xuid]
	return p, ok
}

// newTestPlugin creates and registers a plugin on host running tasks inline.
func newTestPlugin(t *testing.T, host Host) *Plugin {
	t.Helper()

	pl, err := New("test", host, DefaultConfig(),
		WithExecutor(inlineExecutor{}),
		WithPlayerStore(newTestStore(t)),
		WithLogger(discardLogger()),
	)
	require.NoError(t, err)

	Register(pl)
	t.Cleanup(func() {
		assert.NoError(t, pl.Close())
	})
	return pl
}

func TestNew_NilHost(t *testing.T) {
	_, err := New("test", nil, DefaultConfig())
	assert.Error(t, err)
}

func TestNew_MissingMainWorld(t *testing.T) {
	conf := DefaultConfig()
	conf.MainWorld = "lobby"

	_, err := New("test", fakeHost{}, conf, WithPlayerStore(newTestStore(t)))
	assert.ErrorContains(t, err, "lobby")
}

func TestNew_MissingMainWorldListsKnownWorlds(t *testing.T) {
	srv := newTestServer(t)
	conf := DefaultConfig()
	conf.MainWorld = "lobby"

	_, err := New("test", srv, conf, WithPlayerStore(newTestStore(t)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"lobby"`)
	assert.Contains(t, err.Error(), "[nether, overworld, world]")
}

func TestNew_MainWorldFromHost(t *testing.T) {
	srv := newTestServer(t)
	conf := DefaultConfig()
	conf.MainWorld = "Nether"

	pl, err := New("test", srv, conf, WithPlayerStore(newTestStore(t)), WithLogger(discardLogger()))
	require.NoError(t, err)
	defer pl.Close()

	w, ok := pl.worlds.lookup("overworld")
	require.True(t, ok)
	assert.Same(t, srv.overworld, w)
}

func TestPlugin_Accessors(t *testing.T) {
	pl := newTestPlugin(t, fakeHost{})

	assert.Equal(t, "test", pl.Name())
	assert.Equal(t, DefaultConfig(), pl.Config())
	assert.NotNil(t, pl.Logger())
	assert.NotNil(t, pl.Scheduler())
	assert.NotNil(t, pl.Store())
	assert.Equal(t, fakeHost{}, pl.Host())
}

func TestCurrent(t *testing.T) {
	pl := newTestPlugin(t, fakeHost{})
	assert.Same(t, pl, Current())
}

func TestClose_Unregisters(t *testing.T) {
	pl, err := New("test", fakeHost{}, DefaultConfig(),
		WithExecutor(inlineExecutor{}),
		WithPlayerStore(newTestStore(t)),
		WithLogger(discardLogger()),
	)
	require.NoError(t, err)
	Register(pl)

	var runs int
	task := RunTaskLater(counter(&runs), 2)

	require.NoError(t, pl.Close())
	assert.True(t, task.Cancelled())
	assert.Panics(t, func() { Current() })
	assert.NoError(t, pl.Close(), "closing twice is a no-op")
}

func TestClose_KeepsOtherRegistration(t *testing.T) {
	first, err := New("first", fakeHost{}, DefaultConfig(),
		WithExecutor(inlineExecutor{}),
		WithPlayerStore(newTestStore(t)),
		WithLogger(discardLogger()),
	)
	require.NoError(t, err)
	second := newTestPlugin(t, fakeHost{})

	require.NoError(t, first.Close())
	assert.Same(t, second, Current())
}

func TestEnable(t *testing.T) {
	pl, err := New("test", fakeHost{}, DefaultConfig(),
		WithExecutor(inlineExecutor{}),
		WithPlayerStore(newTestStore(t)),
		WithLogger(discardLogger()),
	)
	require.NoError(t, err)

	pl.Enable()
	defer pl.Close()

	assert.Same(t, pl, Current())
	assert.True(t, pl.scheduler.running.Load())
}

func TestPackageRunTask(t *testing.T) {
	pl := newTestPlugin(t, fakeHost{})

	var runs int
	RunTask(counter(&runs))
	RunTaskTimer(counter(&runs), 1)
	assert.Equal(t, 2, pl.scheduler.Pending())

	pl.scheduler.tick()
	assert.Equal(t, 2, runs)
	assert.Equal(t, int64(1), pl.scheduler.CurrentTick())
}
