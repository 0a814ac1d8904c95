package game

import "github.com/lox/holdem-rooms/internal/deck"

// GameState is the authoritative, room-scoped game state. The Room
// exclusively owns a GameState; all mutation happens through the
// exported engine methods under the room's lock (see internal/server).
type GameState struct {
	RoomID     string
	SmallBlind int
	BigBlind   int
	Seats      int

	Players map[PlayerID]*Player

	// SeatedPlayers is the insertion-ordered circular sequence of seated
	// player-ids; adjacent entries' seat numbers are in circular-
	// increasing order under the rotation anchored at index 0.
	SeatedPlayers []PlayerID

	// HandPlayerOrder is the linear participant order for the current
	// hand; element 0 is the dealer/button. Empty between hands.
	HandPlayerOrder []PlayerID
	// PlayerIndices is the inverse of HandPlayerOrder: a bijection.
	PlayerIndices map[PlayerID]int

	Phase Phase
	Pot   int

	// CommunityCards holds 5 slots; deck.Card{} (zero value, Rank 0) is
	// the unset sentinel since real ranks start at Two(2).
	CommunityCards [5]deck.Card

	deck *deck.Deck // server-private; never serialized

	// PlayerCards[i] holds HandPlayerOrder[i]'s hole cards.
	PlayerCards [][2]deck.Card

	// Bets[i] is HandPlayerOrder[i]'s cumulative commitment this round.
	Bets []int
	// TotalBets[i] is HandPlayerOrder[i]'s cumulative commitment across
	// every round this hand — the authoritative input to side-pot math.
	TotalBets []int

	PlayerHasActed []bool
	CurPlayerIdx   int // -1 when no one is to act

	MaxBet          int
	LastRaiseAmount int

	// RaiseCapped is set when a player goes all-in for less than a full
	// raise; per no-limit rules this does not reopen the betting to
	// players who already acted facing the prior, larger bet — they may
	// still call the extra or fold, but not raise again. Cleared by a
	// later full raise and at the start of each new betting round.
	RaiseCapped bool

	// newDeck builds the per-hand deck; tests stack it, production
	// leaves it nil and gets the CSPRNG-shuffled default.
	newDeck func() *deck.Deck
}

// NewGameState creates a fresh, empty room state.
func NewGameState(roomID string, smallBlind, bigBlind, seats int) *GameState {
	return &GameState{
		RoomID:        roomID,
		SmallBlind:    smallBlind,
		BigBlind:      bigBlind,
		Seats:         seats,
		Players:       make(map[PlayerID]*Player),
		PlayerIndices: make(map[PlayerID]int),
		Phase:         WaitingForPlayers,
		CurPlayerIdx:  -1,
	}
}

// CurrentPlayerID returns the player-id at CurPlayerIdx, or "" if no one
// is to act.
func (gs *GameState) CurrentPlayerID() PlayerID {
	if gs.CurPlayerIdx < 0 || gs.CurPlayerIdx >= len(gs.HandPlayerOrder) {
		return ""
	}
	return gs.HandPlayerOrder[gs.CurPlayerIdx]
}

// seatOf returns the seat number of a seated player, or -1 if unseated.
func (gs *GameState) seatOf(id PlayerID) int {
	p, ok := gs.Players[id]
	if !ok || p.Seat == nil {
		return -1
	}
	return *p.Seat
}

// Seat places a player at seat number s and inserts them into
// SeatedPlayers so the circular seat-number ordering, anchored at the
// element at index 0, is preserved.
func (gs *GameState) Seat(id PlayerID, seat, stack int) error {
	if gs.Phase != WaitingForPlayers && gs.Phase != Showdown {
		return ruleViolation("cannot take a seat while a hand is in progress")
	}
	if seat < 0 || seat >= gs.Seats {
		return ruleViolation("seat %d out of range [0,%d)", seat, gs.Seats)
	}
	for _, pid := range gs.SeatedPlayers {
		if gs.seatOf(pid) == seat {
			return ruleViolation("seat %d is occupied", seat)
		}
	}

	p, exists := gs.Players[id]
	if !exists {
		p = &Player{ID: id, State: Waiting}
		gs.Players[id] = p
	}
	seatCopy := seat
	p.Seat = &seatCopy
	p.Stack = stack
	if stack > 0 {
		p.State = Waiting
	} else {
		p.State = SittingOut
	}

	gs.insertSeated(id, seat)
	return nil
}

func (gs *GameState) insertSeated(id PlayerID, seat int) {
	if len(gs.SeatedPlayers) == 0 {
		gs.SeatedPlayers = append(gs.SeatedPlayers, id)
		return
	}

	// Entries at or past the anchor come first, wrapped entries (seat
	// below the anchor) after; within a sector seats ascend. Insert
	// before the first entry that sorts after s under that key.
	anchor := gs.seatOf(gs.SeatedPlayers[0])
	wrapped := func(s int) bool { return s < anchor }

	sWrapped := wrapped(seat)
	for i, existingID := range gs.SeatedPlayers {
		existingSeat := gs.seatOf(existingID)
		existingWrapped := wrapped(existingSeat)

		insertBefore := (sWrapped == existingWrapped && seat < existingSeat) ||
			(!sWrapped && existingWrapped)
		if insertBefore {
			gs.SeatedPlayers = append(gs.SeatedPlayers, "")
			copy(gs.SeatedPlayers[i+1:], gs.SeatedPlayers[i:])
			gs.SeatedPlayers[i] = id
			return
		}
	}
	gs.SeatedPlayers = append(gs.SeatedPlayers, id)
}

// LeaveSeat removes a player from the seated-players sequence. A player
// leaving mid-hand keeps their PlayerIndices/HandPlayerOrder slot for
// this hand (they're simply Folded/Offline there, or stay AllIn); the
// seat vacates only for future hands.
func (gs *GameState) LeaveSeat(id PlayerID) error {
	p, ok := gs.Players[id]
	if !ok || p.Seat == nil {
		return ruleViolation("player is not seated")
	}
	for i, pid := range gs.SeatedPlayers {
		if pid == id {
			gs.SeatedPlayers = append(gs.SeatedPlayers[:i], gs.SeatedPlayers[i+1:]...)
			break
		}
	}
	p.Seat = nil
	if _, inHand := gs.PlayerIndices[id]; inHand && gs.HandInProgress() {
		// Remaining turns this hand are synthesized by Tick.
		gs.MarkOffline(id)
	} else {
		p.State = SittingOut
	}
	return nil
}

// AddPlayer registers an unseated (spectating) player in the room. It
// is a no-op if the id is already known.
func (gs *GameState) AddPlayer(id PlayerID, nickname string) *Player {
	if p, ok := gs.Players[id]; ok {
		return p
	}
	p := &Player{ID: id, Nickname: nickname, State: SittingOut}
	gs.Players[id] = p
	return p
}

// RemovePlayer drops a player from the room entirely: seat, record,
// everything. Any hand-order slot they hold this hand stays (the slice
// indexes must not shift mid-hand), and the engine looks that slot's
// Player up by id, so a removed record breaks the live hand; callers
// mark the player Offline instead while a hand is live and only remove
// between hands.
func (gs *GameState) RemovePlayer(id PlayerID) {
	if p, ok := gs.Players[id]; ok && p.Seat != nil {
		_ = gs.LeaveSeat(id)
	}
	delete(gs.Players, id)
}

// MarkOffline flags a disconnected player. During a live hand their
// remaining turns are synthesized by Tick; between hands StartHand
// coerces them to SittingOut. AllIn and Folded are terminal for the
// hand and stay as they are — flipping an all-in player to Offline
// would put them back in the actor rotation.
func (gs *GameState) MarkOffline(id PlayerID) {
	p, ok := gs.Players[id]
	if !ok {
		return
	}
	if gs.HandInProgress() && (p.State == AllIn || p.State == Folded) {
		return
	}
	p.State = Offline
}

// HandInProgress reports whether a hand is currently being played.
func (gs *GameState) HandInProgress() bool {
	return gs.Phase != WaitingForPlayers && gs.Phase != Showdown
}

// HoleCardsOf returns the hole cards dealt to a hand-player this hand.
func (gs *GameState) HoleCardsOf(id PlayerID) ([2]deck.Card, bool) {
	idx, ok := gs.PlayerIndices[id]
	if !ok || idx >= len(gs.PlayerCards) {
		return [2]deck.Card{}, false
	}
	return gs.PlayerCards[idx], true
}

// TotalChips sums stacks and pot — the invariant-1 quantity that must
// stay constant across a hand. Bets[idx] is a running record of what a
// player has already committed to Pot this round, not a separate pile
// of chips, so it is not added again here.
func (gs *GameState) TotalChips() int {
	total := gs.Pot
	for _, p := range gs.Players {
		total += p.Stack
	}
	return total
}
