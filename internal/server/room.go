package server

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/protocol"
)

// sender is the outbound side of a connection: a non-blocking enqueue
// onto the connection's send queue. Enqueue never performs network I/O.
type sender interface {
	Enqueue(msg *protocol.Message) bool
}

// member is one connected player: their outbound sink plus the opaque
// player-secret issued at join. The secret is only ever echoed back to
// its owner in RoomJoined.
type member struct {
	secret string
	sink   sender
}

// delivery is one outbound message with its addressing: targeted to a
// single player, or broadcast to every connected member (optionally
// excluding one).
type delivery struct {
	to     game.PlayerID // "" broadcasts
	except game.PlayerID // skipped on broadcast
	msg    *protocol.Message
}

func broadcast(msg *protocol.Message) delivery {
	return delivery{msg: msg}
}

func targeted(to game.PlayerID, msg *protocol.Message) delivery {
	return delivery{to: to, msg: msg}
}

// Room owns one table: the authoritative GameState behind an exclusive
// mutex, and the connection map behind a read-write lock. Lock order is
// registry, then mu, then connMu; never the reverse. All engine
// mutation happens under mu, and every dispatch happens after mu is
// released, so engine operations never block on the network and
// broadcasts never hold the room lock.
type Room struct {
	ID       string
	logger   *log.Logger
	registry *Registry

	mu    sync.Mutex
	state *game.GameState

	connMu sync.RWMutex
	conns  map[game.PlayerID]*member
	hostID game.PlayerID
	closed bool
}

func newRoom(registry *Registry, id string, defaults RoomDefaults, logger *log.Logger) *Room {
	return &Room{
		ID:       id,
		logger:   logger.WithPrefix("room").With("room", id),
		registry: registry,
		state:    game.NewGameState(id, defaults.SmallBlind, defaults.BigBlind, defaults.Seats),
		conns:    make(map[game.PlayerID]*member),
	}
}

// HostID returns the current host.
func (r *Room) HostID() game.PlayerID {
	r.connMu.RLock()
	defer r.connMu.RUnlock()
	return r.hostID
}

// IsHost reports whether id is the room's host.
func (r *Room) IsHost(id game.PlayerID) bool {
	return r.HostID() == id
}

// Join admits a new connection: issues a player identity, registers the
// player and their outbound sink, elects them host if the room was
// empty, and dispatches RoomJoined to them plus PlayerJoined to
// everyone else. Fails if the room has already been destroyed (a
// concurrent disconnect emptied it between lookup and join).
func (r *Room) Join(nickname string, sink sender) (game.PlayerID, string, error) {
	r.mu.Lock()

	r.connMu.Lock()
	if r.closed {
		r.connMu.Unlock()
		r.mu.Unlock()
		return "", "", fmt.Errorf("room %s no longer exists", r.ID)
	}
	id, secret := newPlayerIdentity()
	r.conns[id] = &member{secret: secret, sink: sink}
	if r.hostID == "" {
		r.hostID = id
	}
	hostID := r.hostID
	r.connMu.Unlock()

	player := r.state.AddPlayer(id, nickname)

	deliveries := []delivery{
		targeted(id, r.message(protocol.MessageTypeRoomJoined, protocol.RoomJoinedData{
			YourID:     string(id),
			YourSecret: secret,
			GameState:  protocol.ProjectGameState(r.state, id),
			HostID:     string(hostID),
		})),
		{except: id, msg: r.message(protocol.MessageTypePlayerJoined, protocol.PlayerJoinedData{
			Player: protocol.NewPlayerView(player),
		})},
	}
	recipients := r.membersSnapshot()
	r.mu.Unlock()

	r.dispatch(deliveries, recipients)
	r.logger.Info("player joined", "player", id, "nickname", nickname)
	return id, secret, nil
}

// Disconnect runs the leave path for a dropped connection: remove the
// sink, destroy the room if it emptied, otherwise mark the player
// Offline (or remove an idle spectator entirely), transfer host if
// needed, and let the tick loop auto-advance a hand the player was
// holding up.
func (r *Room) Disconnect(id game.PlayerID) {
	r.mu.Lock()

	r.connMu.Lock()
	if _, ok := r.conns[id]; !ok {
		r.connMu.Unlock()
		r.mu.Unlock()
		return
	}
	delete(r.conns, id)
	empty := len(r.conns) == 0
	var newHost game.PlayerID
	if empty {
		r.closed = true
		r.hostID = ""
	} else if r.hostID == id {
		newHost = r.anyMemberLocked()
		r.hostID = newHost
	}
	r.connMu.Unlock()

	if empty {
		r.mu.Unlock()
		r.registry.remove(r.ID)
		return
	}

	var deliveries []delivery
	if p, ok := r.state.Players[id]; ok {
		_, inHand := r.state.PlayerIndices[id]
		if p.Seat == nil && !(inHand && r.state.HandInProgress()) {
			r.state.RemovePlayer(id)
			deliveries = append(deliveries, broadcast(r.message(protocol.MessageTypePlayerLeft,
				protocol.PlayerLeftData{PlayerID: string(id)})))
		} else {
			r.state.MarkOffline(id)
			deliveries = append(deliveries, broadcast(r.message(protocol.MessageTypePlayerUpdated,
				protocol.PlayerUpdatedData{Player: protocol.NewPlayerView(p)})))
		}
	}
	if newHost != "" {
		name := string(newHost)
		if p, ok := r.state.Players[newHost]; ok && p.Nickname != "" {
			name = p.Nickname
		}
		deliveries = append(deliveries, broadcast(r.message(protocol.MessageTypeInfo,
			protocol.InfoData{Message: fmt.Sprintf("%s is now the host", name)})))
	}

	deliveries = append(deliveries, r.deliveriesForEvents(r.drainTicksLocked())...)
	recipients := r.membersSnapshot()
	r.mu.Unlock()

	r.dispatch(deliveries, recipients)
	r.logger.Info("player disconnected", "player", id, "new_host", newHost)
}

// anyMemberLocked picks the replacement host: the smallest remaining
// player-id, so the choice is stable regardless of map iteration.
// Callers hold connMu.
func (r *Room) anyMemberLocked() game.PlayerID {
	var picked game.PlayerID
	for id := range r.conns {
		if picked == "" || id < picked {
			picked = id
		}
	}
	return picked
}

// Update runs an engine operation under the room lock, drains any
// offline auto-advance ticks it unblocked, converts the produced events
// into per-recipient deliveries, and dispatches them after the lock is
// released. extra, when non-nil, contributes additional deliveries
// computed against the post-mutation state (still under the lock). An
// error from fn leaves the state untouched and nothing is dispatched.
func (r *Room) Update(fn func(*game.GameState) ([]game.Event, error), extra func(*game.GameState) []delivery) error {
	r.mu.Lock()
	events, err := fn(r.state)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	events = append(events, r.drainTicksLocked()...)
	deliveries := r.deliveriesForEvents(events)
	if extra != nil {
		deliveries = append(deliveries, extra(r.state)...)
	}
	recipients := r.membersSnapshot()
	r.mu.Unlock()

	r.dispatch(deliveries, recipients)
	return nil
}

// StartHand begins a new hand. Players who lost their connection
// earlier in this hand cycle (and thus auto-folded out of Offline) are
// re-flagged so the engine sits them out of the new deal.
func (r *Room) StartHand() error {
	return r.Update(func(gs *game.GameState) ([]game.Event, error) {
		connected := make(map[game.PlayerID]bool)
		for _, id := range r.connectedPlayers() {
			connected[id] = true
		}
		for id, p := range gs.Players {
			if !connected[id] && p.State != game.SittingOut {
				gs.MarkOffline(id)
			}
		}
		return gs.StartHand()
	}, nil)
}

// playerUpdatedDeliveries builds the post-mutation broadcast for a
// change to one player's record.
func (r *Room) playerUpdatedDeliveries(id game.PlayerID) func(*game.GameState) []delivery {
	return func(gs *game.GameState) []delivery {
		p, ok := gs.Players[id]
		if !ok {
			return nil
		}
		return []delivery{broadcast(r.message(protocol.MessageTypePlayerUpdated,
			protocol.PlayerUpdatedData{Player: protocol.NewPlayerView(p)}))}
	}
}

// seatChangeDeliveries broadcasts the updated player record and then
// resynchronizes every member with a projected snapshot, since seating
// reshapes the table layout everyone renders.
func (r *Room) seatChangeDeliveries(id game.PlayerID) func(*game.GameState) []delivery {
	return func(gs *game.GameState) []delivery {
		out := r.playerUpdatedDeliveries(id)(gs)
		return append(out, r.snapshotDeliveries()...)
	}
}

// ReadState runs fn against the state under the room lock, for
// request/reply operations that mutate nothing.
func (r *Room) ReadState(fn func(*game.GameState)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.state)
}

// drainTicksLocked synthesizes actions for Offline players on the
// clock until a connected human is up or the hand ends. Callers hold mu.
func (r *Room) drainTicksLocked() []game.Event {
	var events []game.Event
	for {
		evs, ok := r.state.Tick()
		if !ok {
			return events
		}
		events = append(events, evs...)
	}
}

// deliveriesForEvents converts engine events into outbound deliveries.
// Public events broadcast as-is; HandStarted additionally deals each
// connected participant their hole cards privately, and Showdown is
// followed by a per-recipient projected snapshot so every client
// resynchronizes on the settled state. Callers hold mu.
func (r *Room) deliveriesForEvents(events []game.Event) []delivery {
	var out []delivery
	for _, ev := range events {
		switch e := ev.(type) {
		case game.HandStartedEvent:
			order := make([]string, len(e.HandPlayerOrder))
			for i, id := range e.HandPlayerOrder {
				order[i] = string(id)
			}
			out = append(out, broadcast(r.message(protocol.MessageTypeHandStarted, protocol.HandStartedData{
				HandPlayerOrder: order,
				DealerID:        string(e.DealerID),
			})))
			for _, id := range r.connectedPlayers() {
				if cards, ok := r.state.HoleCardsOf(id); ok {
					out = append(out, targeted(id, r.message(protocol.MessageTypePlayerHand,
						protocol.PlayerHandData{Cards: cards})))
				}
			}

		case game.PlayerActedEvent:
			out = append(out, broadcast(r.message(protocol.MessageTypePlayerActed, protocol.PlayerActedData{
				PlayerID:          string(e.PlayerID),
				Action:            protocol.NewActionData(e.Action),
				TotalBetThisRound: e.TotalBetThisRound,
				NewStack:          e.NewStack,
				NewPot:            e.NewPot,
			})))

		case game.NextToActEvent:
			valid := make([]protocol.ValidActionData, len(e.ValidActions))
			for i, v := range e.ValidActions {
				valid[i] = protocol.NewValidActionData(v)
			}
			out = append(out, broadcast(r.message(protocol.MessageTypeNextToAct, protocol.NextToActData{
				PlayerID:     string(e.PlayerID),
				ValidActions: valid,
			})))

		case game.CommunityCardsDealtEvent:
			out = append(out, broadcast(r.message(protocol.MessageTypeCommunityCardsDealt, protocol.CommunityCardsDealtData{
				Phase: e.Phase.String(),
				Cards: e.Cards,
			})))

		case game.BetReturnedEvent:
			out = append(out, broadcast(r.message(protocol.MessageTypeBetReturned, protocol.BetReturnedData{
				PlayerID: string(e.PlayerID),
				Amount:   e.Amount,
				NewStack: e.NewStack,
			})))

		case game.ShowdownEvent:
			results := make([]protocol.ShowdownResultData, len(e.Results))
			for i, res := range e.Results {
				results[i] = protocol.NewShowdownResultData(res)
			}
			out = append(out, broadcast(r.message(protocol.MessageTypeShowdown, protocol.ShowdownData{
				Results: results,
			})))
			out = append(out, r.snapshotDeliveries()...)
		}
	}
	return out
}

// snapshotDeliveries produces one view-projected GameStateSnapshot per
// connected member. Callers hold mu.
func (r *Room) snapshotDeliveries() []delivery {
	var out []delivery
	for _, id := range r.connectedPlayers() {
		out = append(out, targeted(id, r.message(protocol.MessageTypeGameStateSnapshot,
			protocol.GameStateSnapshotData{GameState: protocol.ProjectGameState(r.state, id)})))
	}
	return out
}

// connectedPlayers lists connected member ids in a stable order.
func (r *Room) connectedPlayers() []game.PlayerID {
	r.connMu.RLock()
	defer r.connMu.RUnlock()
	out := make([]game.PlayerID, 0, len(r.conns))
	for id := range r.conns {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// membersSnapshot copies the connection map for dispatch after the room
// lock is released.
func (r *Room) membersSnapshot() map[game.PlayerID]sender {
	r.connMu.RLock()
	defer r.connMu.RUnlock()
	out := make(map[game.PlayerID]sender, len(r.conns))
	for id, m := range r.conns {
		out[id] = m.sink
	}
	return out
}

// dispatch enqueues each delivery onto its recipients' send queues. A
// failed enqueue is advisory only: the peer's own reader will detect
// the drop and run the disconnect path.
func (r *Room) dispatch(deliveries []delivery, recipients map[game.PlayerID]sender) {
	for _, d := range deliveries {
		if d.msg == nil {
			continue
		}
		if d.to != "" {
			if sink, ok := recipients[d.to]; ok {
				sink.Enqueue(d.msg)
			}
			continue
		}
		for id, sink := range recipients {
			if id == d.except {
				continue
			}
			sink.Enqueue(d.msg)
		}
	}
}

// message wraps protocol.NewMessage, logging instead of failing: a
// marshal error on our own payload types is a programming bug, not a
// runtime condition worth killing a broadcast over.
func (r *Room) message(t protocol.MessageType, data interface{}) *protocol.Message {
	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		r.logger.Error("failed to marshal message", "type", t, "error", err)
		return nil
	}
	return msg
}
