package aqua

import (
	"strings"
	"sync"

	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// onlineIndex tracks the handles of online players by UUID, name and XUID.
// Handles stay valid across transactions, unlike *player.Player values.
type onlineIndex struct {
	mu sync.RWMutex

	// handles holds all tracked players in join order
	handles []*world.EntityHandle

	byUUID map[uuid.UUID]*world.EntityHandle
	byName map[string]*world.EntityHandle
	byXUID map[string]*world.EntityHandle
}

// onlinePlayer is the identity of a tracked player.
type onlinePlayer struct {
	handle *world.EntityHandle
	uuid   uuid.UUID
	name   string
	xuid   string
}

func newOnlineIndex() *onlineIndex {
	return &onlineIndex{
		byUUID: make(map[uuid.UUID]*world.EntityHandle),
		byName: make(map[string]*world.EntityHandle),
		byXUID: make(map[string]*world.EntityHandle),
	}
}

// add registers a player. Adding a handle twice is a no-op.
func (idx *onlineIndex) add(p onlinePlayer) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, ok := idx.byUUID[p.uuid]; !ok {
		idx.handles = append(idx.handles, p.handle)
	}
	idx.byUUID[p.uuid] = p.handle
	idx.byName[strings.ToLower(p.name)] = p.handle
	if p.xuid != "" {
		idx.byXUID[p.xuid] = p.handle
	}
}

// remove unregisters a player.
func (idx *onlineIndex) remove(p onlinePlayer) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.byUUID, p.uuid)
	if h := idx.byName[strings.ToLower(p.name)]; h == p.handle {
		delete(idx.byName, strings.ToLower(p.name))
	}
	if p.xuid != "" {
		delete(idx.byXUID, p.xuid)
	}
	for i, h := range idx.handles {
		if h == p.handle {
			idx.handles = append(idx.handles[:i], idx.handles[i+1:]...)
			break
		}
	}
}

func (idx *onlineIndex) byUUIDLookup(id uuid.UUID) (*world.EntityHandle, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	h, ok := idx.byUUID[id]
	return h, ok
}

func (idx *onlineIndex) byNameLookup(name string) (*world.EntityHandle, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	h, ok := idx.byName[strings.ToLower(name)]
	return h, ok
}

func (idx *onlineIndex) byXUIDLookup(xuid string) (*world.EntityHandle, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	h, ok := idx.byXUID[xuid]
	return h, ok
}

// all returns a snapshot of the tracked handles.
func (idx *onlineIndex) all() []*world.EntityHandle {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	handles := make([]*world.EntityHandle, len(idx.handles))
	copy(handles, idx.handles)
	return handles
}

func (idx *onlineIndex) count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.handles)
}

// withPlayer runs fn for the player behind h.
//
// If tx is non-nil and the player is in the world of tx, fn runs right away.
// A player elsewhere is handled in a transaction of their own world: on a new
// goroutine when tx is set, so the caller's transaction never waits on
// another world, or inline when tx is nil. Handles of players that left are
// skipped.
func withPlayer(tx *world.Tx, h *world.EntityHandle, fn func(p *player.Player)) {
	if tx != nil {
		if e, ok := h.Entity(tx); ok {
			if p, ok := e.(*player.Player); ok {
				fn(p)
			}
			return
		}
		go execPlayer(h, fn)
		return
	}
	execPlayer(h, fn)
}

// execPlayer runs fn in the transaction of the world h is in. It blocks while
// the player is between worlds.
func execPlayer(h *world.EntityHandle, fn func(p *player.Player)) {
	h.ExecWorld(func(_ *world.Tx, e world.Entity) {
		if p, ok := e.(*player.Player); ok {
			fn(p)
		}
	})
}

// Player returns the handle of the online player with the given name.
// Names are matched case-insensitively.
//
// Usage:
//
//	if h, ok := aqua.Player("Steve"); ok {
//	    h.ExecWorld(func(tx *world.Tx, e world.Entity) {
//	        e.(*player.Player).Message("Hello!")
//	    })
//	}
func Player(name string) (*world.EntityHandle, bool) {
	pl := Current()
	if h, ok := pl.online.byNameLookup(name); ok {
		return h, true
	}
	return pl.host.PlayerByName(name)
}

// PlayerByUUID returns the handle of the online player with the given UUID.
func PlayerByUUID(id uuid.UUID) (*world.EntityHandle, bool) {
	pl := Current()
	if h, ok := pl.online.byUUIDLookup(id); ok {
		return h, true
	}
	return pl.host.Player(id)
}

// PlayerByXUID returns the handle of the online player with the given XUID.
func PlayerByXUID(xuid string) (*world.EntityHandle, bool) {
	pl := Current()
	if h, ok := pl.online.byXUIDLookup(xuid); ok {
		return h, true
	}
	return pl.host.PlayerByXUID(xuid)
}

// OnlineCount returns the number of tracked online players.
func OnlineCount() int {
	return Current().online.count()
}

// Players returns the handles of the online players matching pred.
// A nil pred matches everyone. Every player is checked in a transaction of
// their own world, so Players must not be called from inside a transaction:
// use PlayersIn or ForEachIf there.
func Players(pred func(p *player.Player) bool) []*world.EntityHandle {
	var handles []*world.EntityHandle
	for _, h := range Current().online.all() {
		execPlayer(h, func(p *player.Player) {
			if pred == nil || pred(p) {
				handles = append(handles, h)
			}
		})
	}
	return handles
}

// PlayersIn returns the handles of the online players in the world of tx
// that match pred. A nil pred matches everyone.
func PlayersIn(tx *world.Tx, pred func(p *player.Player) bool) []*world.EntityHandle {
	var handles []*world.EntityHandle
	for _, h := range Current().online.all() {
		e, ok := h.Entity(tx)
		if !ok {
			continue
		}
		if p, ok := e.(*player.Player); ok && (pred == nil || pred(p)) {
			handles = append(handles, h)
		}
	}
	return handles
}

// Broadcast sends message to every online player.
// tx may be nil; when set, players in its world receive the message right
// away and players elsewhere shortly after.
func Broadcast(tx *world.Tx, message string) {
	ForEach(tx, func(p *player.Player) {
		p.Message(message)
	})
}

// BroadcastMessages sends every message, in order, to every online player.
func BroadcastMessages(tx *world.Tx, messages []string) {
	ForEach(tx, func(p *player.Player) {
		SendMessages(p, messages)
	})
}

// SendMessages sends every message, in order, to p.
func SendMessages(p *player.Player, messages []string) {
	for _, message := range messages {
		p.Message(message)
	}
}

// Teleport moves every player in handles to loc, moving them to the world of
// loc first if they are elsewhere. A location without a world keeps players
// in their current world.
func Teleport(tx *world.Tx, handles []*world.EntityHandle, loc Location) {
	ForEachOf(tx, handles, func(p *player.Player) {
		teleport(p, loc)
	})
}

// teleport moves p to loc. It must run in the transaction p lives in.
func teleport(p *player.Player, loc Location) {
	if loc.World == nil || p.Tx().World() == loc.World {
		moveTo(p, loc)
		return
	}

	h := p.Tx().RemoveEntity(p)
	loc.World.Exec(func(tx *world.Tx) {
		if e, ok := tx.AddEntity(h).(*player.Player); ok {
			moveTo(e, loc)
		}
	})
}

// moveTo places p at the position of loc, facing its rotation.
func moveTo(p *player.Player, loc Location) {
	p.Teleport(loc.Pos)
	rot := p.Rotation()
	p.Move(mgl64.Vec3{}, loc.Rot.Yaw()-rot.Yaw(), loc.Rot.Pitch()-rot.Pitch())
}

// ForEach calls fn for every online player, each in its own world's
// transaction.
func ForEach(tx *world.Tx, fn func(p *player.Player)) {
	ForEachOf(tx, Current().online.all(), fn)
}

// ForEachOf calls fn for the player behind each handle. Handles of players
// that went offline are skipped.
func ForEachOf(tx *world.Tx, handles []*world.EntityHandle, fn func(p *player.Player)) {
	for _, h := range handles {
		withPlayer(tx, h, fn)
	}
}

// ForEachIf calls fn for every online player matching pred. A nil pred
// matches everyone.
func ForEachIf(tx *world.Tx, pred func(p *player.Player) bool, fn func(p *player.Player)) {
	ForEachOfIf(tx, Current().online.all(), pred, fn)
}

// ForEachOfIf calls fn for the players behind handles that match pred. A nil
// pred matches everyone.
func ForEachOfIf(tx *world.Tx, handles []*world.EntityHandle, pred func(p *player.Player) bool, fn func(p *player.Player)) {
	ForEachOf(tx, handles, func(p *player.Player) {
		if pred == nil || pred(p) {
			fn(p)
		}
	})
}
