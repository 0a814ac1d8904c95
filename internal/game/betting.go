package game

// validActionsFor returns the legal next actions for the hand-player at
// idx, given the current betting-round state.
func (gs *GameState) validActionsFor(idx int) []ValidAction {
	id := gs.HandPlayerOrder[idx]
	p := gs.Players[id]
	amountToCall := gs.MaxBet - gs.Bets[idx]

	var actions []ValidAction
	actions = append(actions, ValidAction{Kind: ValidFold})

	if amountToCall <= 0 {
		actions = append(actions, ValidAction{Kind: ValidCheck})
	} else {
		call := amountToCall
		if call > p.Stack {
			call = p.Stack
		}
		actions = append(actions, ValidAction{Kind: ValidCall, Amount: call})
	}

	if p.Stack > amountToCall && !(gs.RaiseCapped && gs.PlayerHasActed[idx]) {
		if gs.MaxBet == 0 {
			actions = append(actions, ValidAction{Kind: ValidBet, Amount: gs.BigBlind})
		} else {
			minRaiseTotal := gs.MaxBet + gs.LastRaiseAmount
			actions = append(actions, ValidAction{Kind: ValidRaise, Amount: minRaiseTotal})
		}
	}
	return actions
}

// PerformAction applies a player's chosen action, validating it against
// the current betting-round state, and returns the events it produced:
// the action itself, plus any hand-progression (NextToAct,
// CommunityCardsDealt, Showdown) that followed from it.
func (gs *GameState) PerformAction(id PlayerID, action PlayerAction) ([]Event, error) {
	if gs.CurrentPlayerID() != id {
		return nil, ruleViolation("it is not %s's turn to act", id)
	}
	idx := gs.PlayerIndices[id]
	p := gs.Players[id]

	var events []Event

	switch action.Kind {
	case Fold:
		p.State = Folded
		gs.PlayerHasActed[idx] = true
		events = append(events, PlayerActedEvent{
			PlayerID: id, Action: action,
			TotalBetThisRound: gs.Bets[idx], NewStack: p.Stack, NewPot: gs.Pot,
		})

	case Check:
		if gs.MaxBet-gs.Bets[idx] != 0 {
			return nil, ruleViolation("cannot check, %d is owed to the pot", gs.MaxBet-gs.Bets[idx])
		}
		gs.PlayerHasActed[idx] = true
		events = append(events, PlayerActedEvent{
			PlayerID: id, Action: action,
			TotalBetThisRound: gs.Bets[idx], NewStack: p.Stack, NewPot: gs.Pot,
		})

	case Call:
		amountToCall := gs.MaxBet - gs.Bets[idx]
		if amountToCall <= 0 {
			return nil, ruleViolation("nothing to call, check instead")
		}
		amount := amountToCall
		if amount > p.Stack {
			amount = p.Stack
		}
		gs.commit(idx, amount)
		gs.PlayerHasActed[idx] = true
		if p.Stack == 0 {
			p.State = AllIn
		}
		events = append(events, PlayerActedEvent{
			PlayerID: id, Action: PlayerAction{Kind: Call, Delta: amount},
			TotalBetThisRound: gs.Bets[idx], NewStack: p.Stack, NewPot: gs.Pot,
		})

	case BetOrRaise:
		if err := gs.applyBetOrRaise(idx, action.Delta); err != nil {
			return nil, err
		}
		events = append(events, PlayerActedEvent{
			PlayerID: id, Action: action,
			TotalBetThisRound: gs.Bets[idx], NewStack: p.Stack, NewPot: gs.Pot,
		})

	default:
		return nil, ruleViolation("unknown action kind")
	}

	if remaining := gs.nonFoldedIndices(); len(remaining) == 1 {
		events = append(events, gs.walkover(remaining[0]))
		return events, nil
	}

	if gs.isRoundComplete() {
		events = append(events, gs.advancePhase()...)
		return events, nil
	}

	next, ok := gs.nextActorNeedingAction(idx)
	if !ok {
		events = append(events, gs.advancePhase()...)
		return events, nil
	}
	gs.CurPlayerIdx = next
	events = append(events, gs.nextToActEvent())
	return events, nil
}

func (gs *GameState) commit(idx, amount int) {
	p := gs.Players[gs.HandPlayerOrder[idx]]
	p.Stack -= amount
	gs.Pot += amount
	gs.Bets[idx] += amount
	gs.TotalBets[idx] += amount
}

func (gs *GameState) applyBetOrRaise(idx, delta int) error {
	p := gs.Players[gs.HandPlayerOrder[idx]]
	if delta <= 0 || delta > p.Stack {
		return ruleViolation("invalid bet amount %d", delta)
	}
	// An under-minimum all-in caps the raising only for players who had
	// already acted at the prior max bet; anyone yet to act keeps their
	// full options.
	if gs.RaiseCapped && gs.PlayerHasActed[idx] {
		return ruleViolation("action is capped, only call or fold is available")
	}

	newTotal := gs.Bets[idx] + delta
	allIn := delta == p.Stack
	oldMaxBet := gs.MaxBet

	var minTotal int
	if oldMaxBet == 0 {
		minTotal = gs.BigBlind
	} else {
		minTotal = oldMaxBet + gs.LastRaiseAmount
	}
	if newTotal < minTotal && !allIn {
		return ruleViolation("minimum is %d", minTotal)
	}
	if newTotal <= oldMaxBet {
		return ruleViolation("must raise to more than %d", oldMaxBet)
	}

	gs.commit(idx, delta)
	gs.PlayerHasActed[idx] = true
	if p.Stack == 0 {
		p.State = AllIn
	}

	full := newTotal >= minTotal
	gs.MaxBet = newTotal
	if full {
		gs.LastRaiseAmount = newTotal - oldMaxBet
		gs.RaiseCapped = false
		for _, i := range gs.potentialActors() {
			if i != idx {
				gs.PlayerHasActed[i] = false
			}
		}
	} else {
		gs.RaiseCapped = true
	}
	return nil
}

// isRoundComplete reports whether every potential actor has acted and
// matched the current bet (or is all-in for less).
func (gs *GameState) isRoundComplete() bool {
	for _, idx := range gs.potentialActors() {
		if !gs.PlayerHasActed[idx] || gs.Bets[idx] != gs.MaxBet {
			return false
		}
	}
	return true
}

// nextActorNeedingAction finds the next potential actor, in position
// order starting after idx, who still needs to act this round.
func (gs *GameState) nextActorNeedingAction(idx int) (int, bool) {
	n := len(gs.HandPlayerOrder)
	for step := 1; step <= n; step++ {
		i := (idx + step) % n
		id := gs.HandPlayerOrder[i]
		if !canAct(gs.Players[id].State) {
			continue
		}
		if !gs.PlayerHasActed[i] || gs.Bets[i] != gs.MaxBet {
			return i, true
		}
	}
	return 0, false
}

func (gs *GameState) walkover(idx int) Event {
	winnerID := gs.HandPlayerOrder[idx]
	winnings := gs.Pot
	gs.Players[winnerID].Stack += winnings
	gs.Players[winnerID].Wins++
	gs.Pot = 0
	gs.Phase = Showdown
	gs.CurPlayerIdx = -1

	results := make([]ShowdownResult, len(gs.HandPlayerOrder))
	for i, id := range gs.HandPlayerOrder {
		r := ShowdownResult{PlayerID: id}
		if i == idx {
			r.Winnings = winnings
		} else if gs.Players[id].Stack == 0 {
			gs.Players[id].Losses++
			gs.Players[id].State = Offline
		}
		results[i] = r
	}
	return ShowdownEvent{Results: results}
}
