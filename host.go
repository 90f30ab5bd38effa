package aqua

import (
	"github.com/df-mc/dragonfly/server"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// Host exposes the subset of server functionality Aqua forwards to.
// *server.Server implements it; tests and proxies may provide their own.
type Host interface {
	// World returns the overworld managed by the server.
	World() *world.World
	// Nether returns the nether world managed by the server.
	Nether() *world.World
	// End returns the end world managed by the server.
	End() *world.World
	// Player looks up an online player by their UUID.
	Player(uuid uuid.UUID) (*world.EntityHandle, bool)
	// PlayerByName looks up an online player by name.
	PlayerByName(name string) (*world.EntityHandle, bool)
	// PlayerByXUID looks up an online player by XUID.
	PlayerByXUID(xuid string) (*world.EntityHandle, bool)
}

// Compile-time check that a Dragonfly server can host Aqua.
var _ Host = (*server.Server)(nil)
