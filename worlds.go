package aqua

import (
	"slices"
	"strings"
	"sync"

	"github.com/df-mc/dragonfly/server/world"
)

// worldRegistry resolves worlds by name. Names are case-insensitive.
type worldRegistry struct {
	mu     sync.RWMutex
	byName map[string]*world.World
}

func newWorldRegistry() *worldRegistry {
	return &worldRegistry{byName: make(map[string]*world.World)}
}

// registerHost adds the host's default worlds under their own names and
// under the aliases overworld, nether and end.
func (r *worldRegistry) registerHost(h Host) {
	for alias, w := range map[string]*world.World{
		"overworld": h.World(),
		"nether":    h.Nether(),
		"end":       h.End(),
	} {
		if w == nil {
			continue
		}
		r.register(alias, w)
		r.register(w.Name(), w)
	}
}

func (r *worldRegistry) register(name string, w *world.World) {
	if name == "" || w == nil {
		return
	}
	r.mu.Lock()
	r.byName[strings.ToLower(name)] = w
	r.mu.Unlock()
}

func (r *worldRegistry) unregister(name string) {
	r.mu.Lock()
	delete(r.byName, strings.ToLower(name))
	r.mu.Unlock()
}

func (r *worldRegistry) lookup(name string) (*world.World, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.byName[strings.ToLower(name)]
	return w, ok
}

// names returns the registered names, aliases included, sorted.
func (r *worldRegistry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// World returns the world registered under name with the current plugin.
// The overworld, nether and end of the host are always available, both by
// their own name and as "overworld", "nether" and "end".
func World(name string) (*world.World, bool) {
	return Current().worlds.lookup(name)
}

// RegisterWorld makes w resolvable by name through World and the location
// helpers. Registering a name again replaces the previous world.
func RegisterWorld(name string, w *world.World) {
	Current().worlds.register(name, w)
}

// UnregisterWorld removes the world registered under name.
func UnregisterWorld(name string) {
	Current().worlds.unregister(name)
}
