package game

import "github.com/lox/holdem-rooms/internal/deck"

// StartHand begins a new hand. Preconditions: Phase is WaitingForPlayers
// or Showdown. Returns the ordered events produced, or an error if the
// caller isn't allowed to start (enforced by the session layer via
// HostOnly, not here — StartHand itself only checks phase).
func (gs *GameState) StartHand() ([]Event, error) {
	if gs.Phase != WaitingForPlayers && gs.Phase != Showdown {
		return nil, ruleViolation("cannot start a hand from phase %s", gs.Phase)
	}

	for _, id := range gs.SeatedPlayers {
		p := gs.Players[id]
		if p.State == Offline || p.Stack == 0 {
			p.State = SittingOut
		}
	}

	gs.rotateButton()

	var order []PlayerID
	for _, id := range gs.SeatedPlayers {
		p := gs.Players[id]
		if p.State != SittingOut && p.Stack > 0 {
			order = append(order, id)
		}
	}
	if len(order) < 2 {
		gs.Phase = WaitingForPlayers
		gs.HandPlayerOrder = nil
		gs.PlayerIndices = make(map[PlayerID]int)
		return nil, nil
	}

	gs.HandPlayerOrder = order
	gs.PlayerIndices = make(map[PlayerID]int, len(order))
	for i, id := range order {
		gs.PlayerIndices[id] = i
		gs.Players[id].State = Playing
	}

	n := len(order)
	gs.Pot = 0
	gs.CommunityCards = [5]deck.Card{}
	gs.Bets = make([]int, n)
	gs.TotalBets = make([]int, n)
	gs.PlayerHasActed = make([]bool, n)
	gs.PlayerCards = make([][2]deck.Card, n)
	gs.LastRaiseAmount = gs.BigBlind

	if gs.newDeck != nil {
		gs.deck = gs.newDeck()
	} else {
		gs.deck = deck.New()
	}
	for round := 0; round < 2; round++ {
		for i := range order {
			card, _ := gs.deck.Draw()
			gs.PlayerCards[i][round] = card
		}
	}

	var events []Event
	events = append(events, HandStartedEvent{HandPlayerOrder: append([]PlayerID{}, order...), DealerID: order[0]})

	var sbIdx, bbIdx, firstToAct int
	if n == 2 {
		sbIdx, bbIdx, firstToAct = 0, 1, 0
	} else {
		sbIdx, bbIdx, firstToAct = 1, 2, 3%n
	}

	events = append(events, gs.postBlind(sbIdx, gs.SmallBlind))
	events = append(events, gs.postBlind(bbIdx, gs.BigBlind))

	gs.MaxBet = gs.BigBlind
	gs.Phase = PreFlop

	// A blind post can all-in a player, so the nominal first-to-act may
	// owe nothing or be unable to act; seek from there to whoever still
	// does. Nobody left means the blinds closed the betting already.
	next, ok := gs.nextActorNeedingAction((firstToAct - 1 + n) % n)
	if !ok {
		runoutEvents := gs.runoutToShowdown()
		return append(events, runoutEvents...), nil
	}
	gs.CurPlayerIdx = next

	events = append(events, gs.nextToActEvent())
	return events, nil
}

// rotateButton advances the dealer/button position by rotating
// SeatedPlayers left by one, mirroring the original implementation's
// seated_players.rotate_left(1). Rotation preserves the circular
// seat-number invariant since that invariant is defined under rotation.
func (gs *GameState) rotateButton() {
	if len(gs.SeatedPlayers) < 2 {
		return
	}
	first := gs.SeatedPlayers[0]
	gs.SeatedPlayers = append(gs.SeatedPlayers[1:], first)
}

func (gs *GameState) postBlind(idx, blind int) Event {
	id := gs.HandPlayerOrder[idx]
	p := gs.Players[id]
	amount := blind
	if amount > p.Stack {
		amount = p.Stack
	}
	p.Stack -= amount
	gs.Pot += amount
	gs.Bets[idx] += amount
	gs.TotalBets[idx] += amount
	if p.Stack == 0 {
		p.State = AllIn
	}
	return PlayerActedEvent{
		PlayerID:          id,
		Action:            PlayerAction{Kind: BetOrRaise, Delta: amount},
		TotalBetThisRound: gs.Bets[idx],
		NewStack:          p.Stack,
		NewPot:            gs.Pot,
	}
}

// potentialActors returns the indices of hand-players who still owe
// action (non-Folded, non-AllIn) in positional order starting from the
// seat left of the button. Offline players count: they hold live cards
// and their turns are resolved by Tick, not skipped.
func (gs *GameState) potentialActors() []int {
	n := len(gs.HandPlayerOrder)
	var out []int
	for step := 1; step <= n; step++ {
		idx := step % n
		id := gs.HandPlayerOrder[idx]
		if canAct(gs.Players[id].State) {
			out = append(out, idx)
		}
	}
	return out
}

// canAct reports whether a hand-player in state s still owes action in
// a betting round. Offline players act too — the engine synthesizes
// their check/fold via Tick.
func canAct(s PlayerState) bool {
	return s == Playing || s == Offline
}

// nonFoldedIndices returns indices of hand-players who have not folded.
func (gs *GameState) nonFoldedIndices() []int {
	var out []int
	for i, id := range gs.HandPlayerOrder {
		if gs.Players[id].State != Folded {
			out = append(out, i)
		}
	}
	return out
}

func (gs *GameState) nextToActEvent() Event {
	id := gs.CurrentPlayerID()
	return NextToActEvent{PlayerID: id, ValidActions: gs.validActionsFor(gs.CurPlayerIdx)}
}
