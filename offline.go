package aqua

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/storage"
	"github.com/df-mc/goleveldb/leveldb/util"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// OfflinePlayer is the last known state of a player who joined the server at
// least once. Online players have a record too.
type OfflinePlayer struct {
	UUID         uuid.UUID  `json:"uuid"`
	Name         string     `json:"name"`
	XUID         string     `json:"xuid,omitempty"`
	FirstPlayed  time.Time  `json:"first_played"`
	LastPlayed   time.Time  `json:"last_played"`
	LastWorld    string     `json:"last_world,omitempty"`
	LastPosition mgl64.Vec3 `json:"last_position"`
}

const (
	uuidPrefix = "uuid/"
	namePrefix = "name/"
)

// PlayerStore persists OfflinePlayer records in a LevelDB database.
// Records are keyed by UUID, with a secondary index on the lower-cased name.
type PlayerStore struct {
	db *leveldb.DB
}

// OpenPlayerStore opens the player database in the directory at path,
// creating it if needed. An empty path opens an in-memory database.
func OpenPlayerStore(path string) (*PlayerStore, error) {
	var (
		db  *leveldb.DB
		err error
	)
	if path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("aqua: open player store %q: %w", path, err)
	}
	return &PlayerStore{db: db}, nil
}

// Record stores p. An existing record keeps its FirstPlayed time, and a
// renamed player is removed from the index under the old name.
func (s *PlayerStore) Record(p OfflinePlayer) error {
	if p.UUID == uuid.Nil {
		return errors.New("aqua: record player: nil uuid")
	}

	batch := new(leveldb.Batch)

	old, found, err := s.ByUUID(p.UUID)
	if err != nil {
		return err
	}
	if found {
		if !old.FirstPlayed.IsZero() {
			p.FirstPlayed = old.FirstPlayed
		}
		if oldKey := nameKey(old.Name); oldKey != nameKey(p.Name) {
			// The old name may already belong to someone else.
			if owner, err := s.db.Get([]byte(oldKey), nil); err == nil && string(owner) == p.UUID.String() {
				batch.Delete([]byte(oldKey))
			}
		}
	}
	if p.FirstPlayed.IsZero() {
		p.FirstPlayed = p.LastPlayed
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("aqua: encode player %s: %w", p.UUID, err)
	}
	batch.Put([]byte(uuidKey(p.UUID)), data)
	batch.Put([]byte(nameKey(p.Name)), []byte(p.UUID.String()))

	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("aqua: write player %s: %w", p.UUID, err)
	}
	return nil
}

// ByUUID returns the record of the player with the given UUID.
// found is false if the player never joined.
func (s *PlayerStore) ByUUID(id uuid.UUID) (p OfflinePlayer, found bool, err error) {
	data, err := s.db.Get([]byte(uuidKey(id)), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return OfflinePlayer{}, false, nil
	}
	if err != nil {
		return OfflinePlayer{}, false, fmt.Errorf("aqua: read player %s: %w", id, err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return OfflinePlayer{}, false, fmt.Errorf("aqua: decode player %s: %w", id, err)
	}
	return p, true, nil
}

// ByName returns the record of the player last seen with the given name.
// Names are matched case-insensitively.
func (s *PlayerStore) ByName(name string) (OfflinePlayer, bool, error) {
	data, err := s.db.Get([]byte(nameKey(name)), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return OfflinePlayer{}, false, nil
	}
	if err != nil {
		return OfflinePlayer{}, false, fmt.Errorf("aqua: read name %q: %w", name, err)
	}
	id, err := uuid.ParseBytes(data)
	if err != nil {
		return OfflinePlayer{}, false, fmt.Errorf("aqua: decode name %q: %w", name, err)
	}
	return s.ByUUID(id)
}

// All returns every stored record.
func (s *PlayerStore) All() ([]OfflinePlayer, error) {
	it := s.db.NewIterator(util.BytesPrefix([]byte(uuidPrefix)), nil)
	defer it.Release()

	var players []OfflinePlayer
	for it.Next() {
		var p OfflinePlayer
		if err := json.Unmarshal(it.Value(), &p); err != nil {
			return nil, fmt.Errorf("aqua: decode %s: %w", it.Key(), err)
		}
		players = append(players, p)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("aqua: iterate players: %w", err)
	}
	return players, nil
}

// Close closes the database.
func (s *PlayerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("aqua: close player store: %w", err)
	}
	return nil
}

func uuidKey(id uuid.UUID) string {
	return uuidPrefix + id.String()
}

func nameKey(name string) string {
	return namePrefix + strings.ToLower(name)
}

// OfflinePlayerByName returns the stored record of the player with the given
// name, online or not. Storage errors are logged and reported as not found.
func OfflinePlayerByName(name string) (OfflinePlayer, bool) {
	pl := Current()
	p, ok, err := pl.store.ByName(name)
	if err != nil {
		pl.log.Warn("aqua: offline player lookup failed", "player", name, "err", err)
		return OfflinePlayer{}, false
	}
	return p, ok
}

// OfflinePlayerByUUID returns the stored record of the player with the given
// UUID, online or not. Storage errors are logged and reported as not found.
func OfflinePlayerByUUID(id uuid.UUID) (OfflinePlayer, bool) {
	pl := Current()
	p, ok, err := pl.store.ByUUID(id)
	if err != nil {
		pl.log.Warn("aqua: offline player lookup failed", "uuid", id, "err", err)
		return OfflinePlayer{}, false
	}
	return p, ok
}

// OfflinePlayers returns every player who has joined the server.
func OfflinePlayers() []OfflinePlayer {
	pl := Current()
	players, err := pl.store.All()
	if err != nil {
		pl.log.Warn("aqua: listing offline players failed", "err", err)
	}
	return players
}
