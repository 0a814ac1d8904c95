package game

import (
	"sort"

	"github.com/lox/holdem-rooms/internal/deck"
	"github.com/lox/holdem-rooms/internal/evaluator"
)

// showdown evaluates every non-folded hand-player's best five-card hand
// and distributes the pot across as many levels as distinct total
// contributions require, each level awarded only to players still live
// at that level. This is the side-pot algorithm: every distinct
// TotalBets value (folded players included) is a tier boundary, because
// a folded player's partial contribution still funds the tiers below
// their own stake even though they can't win any of them.
func (gs *GameState) showdown() Event {
	gs.Phase = Showdown
	gs.CurPlayerIdx = -1
	n := len(gs.HandPlayerOrder)

	live := make([]bool, n)
	for _, idx := range gs.nonFoldedIndices() {
		live[idx] = true
	}

	ranks := make([]evaluator.HandRank, n)
	for i := 0; i < n; i++ {
		if !live[i] {
			continue
		}
		cards := make([]deck.Card, 0, 7)
		cards = append(cards, gs.PlayerCards[i][0], gs.PlayerCards[i][1])
		cards = append(cards, gs.CommunityCards[:]...)
		hr, _ := evaluator.Evaluate(cards)
		ranks[i] = hr
	}

	levelSet := make(map[int]bool)
	for i := 0; i < n; i++ {
		if gs.TotalBets[i] > 0 {
			levelSet[gs.TotalBets[i]] = true
		}
	}
	levels := make([]int, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	winnings := make([]int, n)
	prev := 0
	for _, level := range levels {
		delta := level - prev
		prev = level
		if delta <= 0 {
			continue
		}
		var eligible []int
		contributors := 0
		for i := 0; i < n; i++ {
			if gs.TotalBets[i] >= level {
				contributors++
				if live[i] {
					eligible = append(eligible, i)
				}
			}
		}
		potAmt := delta * contributors
		if len(eligible) == 0 {
			continue
		}

		best := ranks[eligible[0]]
		for _, idx := range eligible[1:] {
			if ranks[idx].Compare(best) > 0 {
				best = ranks[idx]
			}
		}
		var winners []int
		for _, idx := range eligible {
			if ranks[idx].Compare(best) == 0 {
				winners = append(winners, idx)
			}
		}
		// Even split; the odd-chip remainder goes to the earliest
		// winner in hand order.
		share := potAmt / len(winners)
		for _, idx := range winners {
			winnings[idx] += share
		}
		winnings[winners[0]] += potAmt % len(winners)
	}

	results := make([]ShowdownResult, n)
	for i, id := range gs.HandPlayerOrder {
		p := gs.Players[id]
		p.Stack += winnings[i]
		if winnings[i] > 0 {
			p.Wins++
		}
		if p.Stack == 0 {
			p.Losses++
			p.State = Offline
		}

		r := ShowdownResult{PlayerID: id, Winnings: winnings[i]}
		if live[i] {
			score := int(ranks[i])
			r.HandRank = &score
			r.Cards = []deck.Card{gs.PlayerCards[i][0], gs.PlayerCards[i][1]}
		}
		results[i] = r
	}
	gs.Pot = 0
	return ShowdownEvent{Results: results}
}
