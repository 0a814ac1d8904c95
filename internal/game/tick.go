package game

// Tick advances the game by one step when the player currently on the
// clock is Offline: it synthesizes the safest legal action on their
// behalf — Check when nothing is owed, Fold otherwise — exactly as
// PerformAction would apply it, and returns the resulting events. The
// session layer drains Tick in a loop after every mutation and after
// every disconnect; it returns ok=false once the player on the clock
// is not Offline (or no one is), so the caller knows to stop.
func (gs *GameState) Tick() (events []Event, ok bool) {
	id := gs.CurrentPlayerID()
	if id == "" {
		return nil, false
	}
	if gs.Players[id].State != Offline {
		return nil, false
	}

	idx := gs.PlayerIndices[id]
	action := PlayerAction{Kind: Fold}
	if gs.MaxBet-gs.Bets[idx] == 0 {
		action = PlayerAction{Kind: Check}
	}

	evs, err := gs.PerformAction(id, action)
	if err != nil {
		return nil, false
	}
	return evs, true
}
