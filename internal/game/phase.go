package game

import "github.com/lox/holdem-rooms/internal/deck"

// advancePhase is called once a betting round is complete: it returns
// any uncalled excess of the last bet, then either deals the next
// street and reopens betting, or — if fewer than two players can still
// act — runs the hand out to Showdown without further betting.
func (gs *GameState) advancePhase() []Event {
	var events []Event
	if e := gs.returnUncalledBet(); e != nil {
		events = append(events, e)
	}

	if remaining := gs.nonFoldedIndices(); len(remaining) == 1 {
		events = append(events, gs.walkover(remaining[0]))
		return events
	}

	gs.startNewBettingRound()

	if gs.Phase == River {
		events = append(events, gs.showdown())
		return events
	}

	events = append(events, gs.dealNextStreet())

	if len(gs.potentialActors()) < 2 {
		events = append(events, gs.runoutToShowdown()...)
		return events
	}

	gs.CurPlayerIdx = gs.potentialActors()[0]
	events = append(events, gs.nextToActEvent())
	return events
}

// runoutToShowdown deals every remaining street with no further betting
// and evaluates Showdown — the path taken once action has closed with
// fewer than two players still able to act (e.g. an all-in call).
func (gs *GameState) runoutToShowdown() []Event {
	var events []Event
	if e := gs.returnUncalledBet(); e != nil {
		events = append(events, e)
	}
	for gs.Phase != River {
		gs.startNewBettingRound()
		events = append(events, gs.dealNextStreet())
	}
	gs.startNewBettingRound()
	events = append(events, gs.showdown())
	return events
}

func (gs *GameState) startNewBettingRound() {
	n := len(gs.HandPlayerOrder)
	gs.Bets = make([]int, n)
	gs.PlayerHasActed = make([]bool, n)
	gs.MaxBet = 0
	gs.LastRaiseAmount = gs.BigBlind
	gs.RaiseCapped = false
	gs.CurPlayerIdx = -1
}

// dealNextStreet reveals the next phase's community cards and advances
// Phase. Phase must be PreFlop, Flop, or Turn on entry.
func (gs *GameState) dealNextStreet() Event {
	var toDeal int
	switch gs.Phase {
	case PreFlop:
		gs.Phase = Flop
		toDeal = 3
	case Flop:
		gs.Phase = Turn
		toDeal = 1
	case Turn:
		gs.Phase = River
		toDeal = 1
	default:
		return CommunityCardsDealtEvent{Phase: gs.Phase}
	}

	gs.deck.Burn()
	for i := 0; i < toDeal; i++ {
		card, _ := gs.deck.Draw()
		gs.setNextCommunityCard(card)
	}
	return CommunityCardsDealtEvent{Phase: gs.Phase, Cards: gs.dealtCardsFor(gs.Phase)}
}

func (gs *GameState) setNextCommunityCard(c deck.Card) {
	for i := range gs.CommunityCards {
		if gs.CommunityCards[i].Rank == 0 {
			gs.CommunityCards[i] = c
			return
		}
	}
}

func (gs *GameState) dealtCardsFor(phase Phase) []deck.Card {
	switch phase {
	case Flop:
		return []deck.Card{gs.CommunityCards[0], gs.CommunityCards[1], gs.CommunityCards[2]}
	case Turn:
		return []deck.Card{gs.CommunityCards[3]}
	case River:
		return []deck.Card{gs.CommunityCards[4]}
	default:
		return nil
	}
}

// returnUncalledBet returns the uncalled portion of the last
// aggressor's bet, if any, when the round closes with it unmatched —
// e.g. an opponent called all-in for less. Compares Bets among
// still-live (non-folded) players only.
func (gs *GameState) returnUncalledBet() Event {
	maxIdx, max, secondMax := -1, 0, 0
	for _, idx := range gs.nonFoldedIndices() {
		if gs.Bets[idx] > max {
			secondMax = max
			max = gs.Bets[idx]
			maxIdx = idx
		} else if gs.Bets[idx] > secondMax {
			secondMax = gs.Bets[idx]
		}
	}
	if maxIdx < 0 || max <= secondMax {
		return nil
	}
	excess := max - secondMax
	id := gs.HandPlayerOrder[maxIdx]
	p := gs.Players[id]
	p.Stack += excess
	gs.Pot -= excess
	gs.Bets[maxIdx] -= excess
	gs.TotalBets[maxIdx] -= excess
	return BetReturnedEvent{PlayerID: id, Amount: excess, NewStack: p.Stack}
}
