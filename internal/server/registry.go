// Package server implements the session layer: the process-wide room
// registry, per-room serialized mutation and event fan-out, and the
// per-connection WebSocket read/write pumps that bind authenticated
// clients to rooms.
package server

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/holdem-rooms/internal/game"
)

// RoomDefaults are the game parameters applied to every created room.
type RoomDefaults struct {
	SmallBlind int
	BigBlind   int
	Seats      int
}

// Registry is the process-wide room directory. Lookups are lock-free
// reads on a sync.Map; creation and removal are concurrent-safe.
type Registry struct {
	logger   *log.Logger
	defaults RoomDefaults
	rooms    sync.Map // room id (string) -> *Room
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *log.Logger, defaults RoomDefaults) *Registry {
	return &Registry{
		logger:   logger.WithPrefix("registry"),
		defaults: defaults,
	}
}

// Create builds a new room under a fresh 128-bit id and registers it.
func (reg *Registry) Create() *Room {
	id := uuid.NewString()
	room := newRoom(reg, id, reg.defaults, reg.logger)
	reg.rooms.Store(id, room)
	reg.logger.Info("room created", "room", id)
	return room
}

// Lookup resolves a room by id.
func (reg *Registry) Lookup(id string) (*Room, bool) {
	v, ok := reg.rooms.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Room), true
}

// remove drops a room from the directory once its connection map is
// empty. Rooms are in-memory only; removal is destruction.
func (reg *Registry) remove(id string) {
	reg.rooms.Delete(id)
	reg.logger.Info("room destroyed", "room", id)
}

// newPlayerIdentity issues a fresh player-id and player-secret pair.
func newPlayerIdentity() (game.PlayerID, string) {
	return game.PlayerID(uuid.NewString()), uuid.NewString()
}
