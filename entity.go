package aqua

import (
	"iter"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

// NearbyEntities returns the entities within radius blocks of e on every axis.
// The result always contains e itself as its last element.
//
// The transaction must be the one e lives in, for example the tx passed to a
// handler, command or task.
func NearbyEntities(tx *world.Tx, e world.Entity, radius float64) []world.Entity {
	return withSelfLast(e, tx.EntitiesWithin(boxAround(e.Position(), radius)))
}

// NearbyEntitiesAt returns the entities within radius blocks of pos on every
// axis.
func NearbyEntitiesAt(tx *world.Tx, pos mgl64.Vec3, radius float64) []world.Entity {
	var entities []world.Entity
	for e := range tx.EntitiesWithin(boxAround(pos, radius)) {
		entities = append(entities, e)
	}
	return entities
}

// NearbyPlayers returns the players within radius blocks of e on every axis.
// If e is a player it is included, last.
func NearbyPlayers(tx *world.Tx, e world.Entity, radius float64) []*player.Player {
	var players []*player.Player
	for _, target := range NearbyEntities(tx, e, radius) {
		if p, ok := target.(*player.Player); ok {
			players = append(players, p)
		}
	}
	return players
}

// ForEachNearbyEntity calls fn for every entity returned by NearbyEntities.
func ForEachNearbyEntity(tx *world.Tx, e world.Entity, radius float64, fn func(world.Entity)) {
	for _, target := range NearbyEntities(tx, e, radius) {
		fn(target)
	}
}

// ForEachNearbyPlayer calls fn for every player returned by NearbyPlayers.
func ForEachNearbyPlayer(tx *world.Tx, e world.Entity, radius float64, fn func(*player.Player)) {
	for _, p := range NearbyPlayers(tx, e, radius) {
		fn(p)
	}
}

// boxAround returns the cube of half-size radius centred on pos.
func boxAround(pos mgl64.Vec3, radius float64) cube.BBox {
	return cube.Box(
		pos[0]-radius, pos[1]-radius, pos[2]-radius,
		pos[0]+radius, pos[1]+radius, pos[2]+radius,
	)
}

// withSelfLast collects seq without self, then appends self. Entities are
// matched by handle: a transaction opens a new entity value on every lookup.
func withSelfLast(self world.Entity, seq iter.Seq[world.Entity]) []world.Entity {
	h := self.H()
	var out []world.Entity
	for e := range seq {
		if e.H() != h {
			out = append(out, e)
		}
	}
	return append(out, self)
}
