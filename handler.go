package aqua

import (
	"time"

	"github.com/df-mc/dragonfly/server/player"
)

// Handler wraps a player.Handler so the plugin notices players leaving.
// Every event is forwarded to the wrapped handler; HandleQuit additionally
// records the player's last position and stops tracking them.
//
// Usage:
//
//	for p := range srv.Accept() {
//	    plugin.Track(p)
//	    p.Handle(plugin.NewHandler(&MyHandler{}))
//	}
type Handler struct {
	player.Handler
	plugin *Plugin
}

// Compile-time check that Handler implements player.Handler.
var _ player.Handler = (*Handler)(nil)

// NewHandler wraps h. A nil h is replaced by player.NopHandler.
func (pl *Plugin) NewHandler(h player.Handler) *Handler {
	if h == nil {
		h = player.NopHandler{}
	}
	return &Handler{Handler: h, plugin: pl}
}

// HandleQuit forwards the quit and untracks the player.
func (h *Handler) HandleQuit(p *player.Player) {
	h.Handler.HandleQuit(p)
	h.plugin.untrack(p)
}

// Track registers a player that just joined so the player helpers can find
// them, and records them in the offline player store. It must be called in
// the player's transaction, as with players yielded by the server's Accept.
func (pl *Plugin) Track(p *player.Player) {
	pl.online.add(onlinePlayerOf(p))
	pl.record(p)
	pl.log.Debug("aqua: player tracked", "player", p.Name())
}

// untrack records the player's final state and removes them from the index.
func (pl *Plugin) untrack(p *player.Player) {
	pl.record(p)
	pl.online.remove(onlinePlayerOf(p))
	pl.log.Debug("aqua: player untracked", "player", p.Name())
}

// record writes the current state of p to the offline player store.
func (pl *Plugin) record(p *player.Player) {
	rec := OfflinePlayer{
		UUID:         p.UUID(),
		Name:         p.Name(),
		XUID:         p.XUID(),
		LastPlayed:   time.Now(),
		LastPosition: p.Position(),
	}
	if tx := p.Tx(); tx != nil {
		rec.LastWorld = tx.World().Name()
	}
	if err := pl.store.Record(rec); err != nil {
		pl.log.Warn("aqua: recording player failed", "player", rec.Name, "err", err)
	}
}

func onlinePlayerOf(p *player.Player) onlinePlayer {
	return onlinePlayer{
		handle: p.H(),
		uuid:   p.UUID(),
		name:   p.Name(),
		xuid:   p.XUID(),
	}
}
