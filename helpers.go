package aqua

import (
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/player/form"
)

// CommandPlayer returns the player behind a command source.
// It returns false if the command was not run by a player, e.g. from the
// console.
//
// Usage:
//
//	func (c Warp) Run(src cmd.Source, out *cmd.Output, tx *world.Tx) {
//	    p, ok := aqua.CommandPlayer(src)
//	    if !ok {
//	        out.Error("Player-only command")
//	        return
//	    }
//	    loc, ok := aqua.ParseLocation(c.World, c.X, c.Y, c.Z)
//	    if !ok {
//	        out.Error("Invalid location.")
//	        return
//	    }
//	    aqua.Teleport(tx, []*world.EntityHandle{p.H()}, loc)
//	}
func CommandPlayer(src cmd.Source) (*player.Player, bool) {
	p, ok := src.(*player.Player)
	return p, ok
}

// FormPlayer returns the player who submitted a form.
func FormPlayer(sub form.Submitter) (*player.Player, bool) {
	p, ok := sub.(*player.Player)
	return p, ok
}

// ItemPlayer returns the player using an item.
// It returns false if the user is another kind of entity.
func ItemPlayer(user item.User) (*player.Player, bool) {
	p, ok := user.(*player.Player)
	return p, ok
}
