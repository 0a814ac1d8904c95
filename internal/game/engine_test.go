package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-rooms/internal/deck"
)

// seatThree seats alice/bob/carol at seats 0/1/2 with 1000 chips each.
// StartHand rotates the button, so the first hand's order is
// [bob, carol, alice]: bob on the button, carol SB, alice BB.
func seatThree(t *testing.T) (*GameState, PlayerID, PlayerID, PlayerID) {
	t.Helper()
	gs := NewGameState("room-1", 10, 20, 6)
	a, b, c := PlayerID("alice"), PlayerID("bob"), PlayerID("carol")
	require.NoError(t, gs.Seat(a, 0, 1000))
	require.NoError(t, gs.Seat(b, 1, 1000))
	require.NoError(t, gs.Seat(c, 2, 1000))
	return gs, a, b, c
}

func totalChipsInvariant(t *testing.T, gs *GameState, want int) {
	t.Helper()
	require.Equal(t, want, gs.TotalChips())
}

// stackDeck makes the next StartHand deal from a fixed card sequence.
func stackDeck(gs *GameState, cards string) {
	parsed, err := deck.ParseCards(cards)
	if err != nil {
		panic(err)
	}
	gs.newDeck = func() *deck.Deck { return deck.NewStacked(parsed...) }
}

func showdownOf(t *testing.T, events []Event) ShowdownEvent {
	t.Helper()
	for _, e := range events {
		if sd, ok := e.(ShowdownEvent); ok {
			return sd
		}
	}
	t.Fatal("no showdown event produced")
	return ShowdownEvent{}
}

func TestStartHand_PostsBlindsAndDealsCards(t *testing.T) {
	gs, a, b, c := seatThree(t)
	events, err := gs.StartHand()
	require.NoError(t, err)
	require.NotEmpty(t, events)

	require.Equal(t, PreFlop, gs.Phase)
	require.Equal(t, []PlayerID{b, c, a}, gs.HandPlayerOrder)
	require.Equal(t, 30, gs.Pot) // SB 10 + BB 20
	require.Equal(t, 20, gs.MaxBet)
	require.Equal(t, b, gs.CurrentPlayerID()) // 3-handed: the button acts first preflop
	totalChipsInvariant(t, gs, 3000)

	for i := range gs.PlayerCards {
		require.NotZero(t, gs.PlayerCards[i][0].Rank)
		require.NotZero(t, gs.PlayerCards[i][1].Rank)
	}

	started, ok := events[0].(HandStartedEvent)
	require.True(t, ok, "first event must be HandStarted")
	assert.Equal(t, b, started.DealerID)

	var acted []PlayerID
	for _, e := range events {
		if pa, ok := e.(PlayerActedEvent); ok {
			acted = append(acted, pa.PlayerID)
		}
	}
	assert.Equal(t, []PlayerID{c, a}, acted, "blind posts in SB, BB order")
}

func TestStartHand_TooFewPlayers(t *testing.T) {
	gs := NewGameState("room-1", 10, 20, 6)
	require.NoError(t, gs.Seat("alice", 0, 1000))
	events, err := gs.StartHand()
	require.NoError(t, err)
	require.Nil(t, events)
	require.Equal(t, WaitingForPlayers, gs.Phase)
}

func TestStartHand_CoercesOfflineAndBustedToSittingOut(t *testing.T) {
	gs, a, b, c := seatThree(t)
	gs.MarkOffline(b)
	gs.Players[c].Stack = 0

	events, err := gs.StartHand()
	require.NoError(t, err)
	require.Nil(t, events, "one eligible player cannot start a hand")
	require.Equal(t, WaitingForPlayers, gs.Phase)
	assert.Equal(t, SittingOut, gs.Players[b].State)
	assert.Equal(t, SittingOut, gs.Players[c].State)
	assert.Equal(t, Waiting, gs.Players[a].State)
}

// Scenario: everyone folds to the big blind. The pot goes to the BB
// without revealing any cards and no community cards are dealt.
func TestFoldToBigBlind_AwardsPotWithoutShowdown(t *testing.T) {
	gs := NewGameState("room-1", 100, 200, 6)
	a, b, c := PlayerID("alice"), PlayerID("bob"), PlayerID("carol")
	require.NoError(t, gs.Seat(a, 0, 10000))
	require.NoError(t, gs.Seat(b, 1, 10000))
	require.NoError(t, gs.Seat(c, 2, 10000))

	_, err := gs.StartHand()
	require.NoError(t, err)
	// Order [bob, carol, alice]: bob button, carol SB 100, alice BB 200.
	require.Equal(t, b, gs.CurrentPlayerID())

	_, err = gs.PerformAction(b, PlayerAction{Kind: Fold})
	require.NoError(t, err)
	require.Equal(t, c, gs.CurrentPlayerID())

	events, err := gs.PerformAction(c, PlayerAction{Kind: Fold})
	require.NoError(t, err)

	sd := showdownOf(t, events)
	for _, e := range events {
		_, dealt := e.(CommunityCardsDealtEvent)
		require.False(t, dealt, "walkover must not reveal community cards")
	}
	for _, r := range sd.Results {
		assert.Nil(t, r.HandRank, "walkover must not reveal hand ranks")
		assert.Nil(t, r.Cards, "walkover must not reveal hole cards")
		if r.PlayerID == a {
			assert.Equal(t, 300, r.Winnings)
		} else {
			assert.Zero(t, r.Winnings)
		}
	}

	require.Equal(t, Showdown, gs.Phase)
	assert.Equal(t, 10100, gs.Players[a].Stack, "BB nets +100")
	assert.Equal(t, 1, gs.Players[a].Wins)
	totalChipsInvariant(t, gs, 30000)
}

func TestHeadsUp_DealerPostsSmallBlindActsFirstPreflopLastPostflop(t *testing.T) {
	gs := NewGameState("room-2", 10, 20, 2)
	// Seated [a, b] rotates to [b, a] at StartHand: b is the button.
	require.NoError(t, gs.Seat("a", 0, 1000))
	require.NoError(t, gs.Seat("b", 1, 1000))
	_, err := gs.StartHand()
	require.NoError(t, err)

	require.Equal(t, []PlayerID{"b", "a"}, gs.HandPlayerOrder)
	require.Equal(t, 10, gs.Bets[0], "dealer posts the small blind")
	require.Equal(t, 20, gs.Bets[1])
	require.Equal(t, PlayerID("b"), gs.CurrentPlayerID(), "dealer acts first preflop")

	_, err = gs.PerformAction("b", PlayerAction{Kind: Call})
	require.NoError(t, err)
	_, err = gs.PerformAction("a", PlayerAction{Kind: Check})
	require.NoError(t, err)

	require.Equal(t, Flop, gs.Phase)
	require.Equal(t, PlayerID("a"), gs.CurrentPlayerID(), "big blind acts first postflop")
}

// Scenario: heads-up all-in call. Stacks {10000, 150}, blinds 100/200.
// The BB's 150 is an all-in blind; the SB calls, the uncalled 50 comes
// back, and the board runs out in one burst for a 300-chip pot.
func TestHeadsUpAllInCall_ReturnsUncalledAndRunsOutBoard(t *testing.T) {
	gs := NewGameState("room-2", 100, 200, 2)
	// short at seat 0, big at seat 1: rotation makes big the button/SB.
	require.NoError(t, gs.Seat("short", 0, 150))
	require.NoError(t, gs.Seat("big", 1, 10000))
	_, err := gs.StartHand()
	require.NoError(t, err)

	require.Equal(t, []PlayerID{"big", "short"}, gs.HandPlayerOrder)
	require.Equal(t, AllIn, gs.Players["short"].State, "BB all-in from the blind post")
	require.Equal(t, PlayerID("big"), gs.CurrentPlayerID(), "SB still owes action")

	events, err := gs.PerformAction("big", PlayerAction{Kind: Call})
	require.NoError(t, err)

	var returned *BetReturnedEvent
	var boardCards int
	for _, e := range events {
		switch ev := e.(type) {
		case BetReturnedEvent:
			evCopy := ev
			returned = &evCopy
		case CommunityCardsDealtEvent:
			boardCards += len(ev.Cards)
		}
	}
	require.NotNil(t, returned, "uncalled 50 must come back")
	assert.Equal(t, PlayerID("big"), returned.PlayerID)
	assert.Equal(t, 50, returned.Amount)
	assert.Equal(t, 5, boardCards, "all community cards dealt in one burst")

	sd := showdownOf(t, events)
	total := 0
	for _, r := range sd.Results {
		total += r.Winnings
	}
	assert.Equal(t, 300, total)
	require.Equal(t, Showdown, gs.Phase)
	totalChipsInvariant(t, gs, 10150)
}

// Scenario: three-way side pot with totals {50, 200, 200}. Main pot is
// 150 among all three; side pot of 300 goes to the better hand of the
// two bigger stacks. The deck is stacked so the short stack holds the
// strongest hand.
func TestThreeWaySidePot(t *testing.T) {
	gs := NewGameState("room-3", 10, 20, 3)
	require.NoError(t, gs.Seat("a", 0, 50))
	require.NoError(t, gs.Seat("b", 1, 200))
	require.NoError(t, gs.Seat("c", 2, 500))
	// Order after rotation: [b, c, a] — b button, c SB, a BB. Hole
	// cards go one card around, then a second: b Qs Qd, c Ks Kd,
	// a As Ad. The board bricks, so a > c > b at showdown.
	stackDeck(gs, "QsKsAsQdKdAd"+"9s"+"2c7hJh"+"9h"+"3d"+"9c"+"4d")
	_, err := gs.StartHand()
	require.NoError(t, err)

	require.Equal(t, PlayerID("b"), gs.CurrentPlayerID())
	_, err = gs.PerformAction("b", PlayerAction{Kind: BetOrRaise, Delta: 200})
	require.NoError(t, err)
	_, err = gs.PerformAction("c", PlayerAction{Kind: Call})
	require.NoError(t, err)
	events, err := gs.PerformAction("a", PlayerAction{Kind: Call})
	require.NoError(t, err)

	sd := showdownOf(t, events)
	winnings := make(map[PlayerID]int)
	for _, r := range sd.Results {
		winnings[r.PlayerID] = r.Winnings
	}
	assert.Equal(t, 150, winnings["a"], "main pot: 3 contributions of 50")
	assert.Equal(t, 300, winnings["c"], "side pot: 2 contributions of 150")
	assert.Zero(t, winnings["b"])

	assert.Equal(t, 150, gs.Players["a"].Stack)
	assert.Equal(t, 600, gs.Players["c"].Stack)
	assert.Equal(t, 0, gs.Players["b"].Stack)
	assert.Equal(t, 1, gs.Players["b"].Losses)
	assert.Equal(t, Offline, gs.Players["b"].State, "busted player sits out future hands")
	totalChipsInvariant(t, gs, 750)
}

// Scenario: an under-minimum all-in raise does not re-open the action
// for a player who already acted at the prior max bet.
func TestUnderMinimumAllInRaise_DoesNotReopenAction(t *testing.T) {
	gs := NewGameState("room-4", 10, 20, 4)
	require.NoError(t, gs.Seat("a", 0, 5000))
	require.NoError(t, gs.Seat("b", 1, 220))
	require.NoError(t, gs.Seat("c", 2, 5000))
	require.NoError(t, gs.Seat("d", 3, 5000))
	_, err := gs.StartHand()
	require.NoError(t, err)

	// Order [b, c, d, a]: b button, c SB, d BB, a UTG. Everyone limps
	// to 20 preflop.
	require.Equal(t, []PlayerID{"b", "c", "d", "a"}, gs.HandPlayerOrder)
	require.Equal(t, PlayerID("a"), gs.CurrentPlayerID())
	for _, step := range []struct {
		id     PlayerID
		action PlayerAction
	}{
		{"a", PlayerAction{Kind: Call}},
		{"b", PlayerAction{Kind: Call}},
		{"c", PlayerAction{Kind: Call}},
		{"d", PlayerAction{Kind: Check}},
	} {
		_, err = gs.PerformAction(step.id, step.action)
		require.NoError(t, err)
	}
	require.Equal(t, Flop, gs.Phase)

	// Flop, acting from the SB: c checks, d bets 60, a raises to 180
	// (a full raise: last_raise_amount becomes 120), then b jams for
	// 200 total — an increment of 20, under the minimum.
	_, err = gs.PerformAction("c", PlayerAction{Kind: Check})
	require.NoError(t, err)
	_, err = gs.PerformAction("d", PlayerAction{Kind: BetOrRaise, Delta: 60})
	require.NoError(t, err)
	_, err = gs.PerformAction("a", PlayerAction{Kind: BetOrRaise, Delta: 180})
	require.NoError(t, err)
	require.Equal(t, 120, gs.LastRaiseAmount)
	_, err = gs.PerformAction("b", PlayerAction{Kind: BetOrRaise, Delta: 200})
	require.NoError(t, err)
	require.True(t, gs.RaiseCapped)
	require.Equal(t, 120, gs.LastRaiseAmount, "under-min all-in must not move the raise size")

	// c and d never acted at 180, so their option is intact; fold them.
	_, err = gs.PerformAction("c", PlayerAction{Kind: Fold})
	require.NoError(t, err)
	_, err = gs.PerformAction("d", PlayerAction{Kind: Fold})
	require.NoError(t, err)

	// a already acted at 180: only call 20 or fold remain.
	require.Equal(t, PlayerID("a"), gs.CurrentPlayerID())
	actions := gs.validActionsFor(gs.PlayerIndices["a"])
	var kinds []ValidActionKind
	for _, act := range actions {
		kinds = append(kinds, act.Kind)
		if act.Kind == ValidCall {
			assert.Equal(t, 20, act.Amount)
		}
	}
	assert.ElementsMatch(t, []ValidActionKind{ValidFold, ValidCall}, kinds)

	_, err = gs.PerformAction("a", PlayerAction{Kind: BetOrRaise, Delta: 400})
	require.Error(t, err, "re-raise must be rejected while capped")
}

// Scenario: a full four-player hand across all streets. Pot arithmetic
// follows the action exactly: 760 chips to the winner on the river.
func TestFullMultiStreetHand(t *testing.T) {
	gs := NewGameState("room-5", 10, 20, 4)
	require.NoError(t, gs.Seat("a", 0, 2000))
	require.NoError(t, gs.Seat("b", 1, 2000))
	require.NoError(t, gs.Seat("c", 2, 2000))
	require.NoError(t, gs.Seat("d", 3, 2000))
	// Order [b, c, d, a]: b button, c SB, d BB, a UTG. d holds aces,
	// a holds kings, and the board bricks.
	stackDeck(gs, "2h3hAsKs"+"4c5hAdKd"+"9s"+"Jc7d2c"+"9h"+"3s"+"9c"+"4d")
	_, err := gs.StartHand()
	require.NoError(t, err)

	// Preflop: UTG raises to 60, button folds, SB and BB call.
	_, err = gs.PerformAction("a", PlayerAction{Kind: BetOrRaise, Delta: 60})
	require.NoError(t, err)
	_, err = gs.PerformAction("b", PlayerAction{Kind: Fold})
	require.NoError(t, err)
	_, err = gs.PerformAction("c", PlayerAction{Kind: Call})
	require.NoError(t, err)
	_, err = gs.PerformAction("d", PlayerAction{Kind: Call})
	require.NoError(t, err)
	require.Equal(t, Flop, gs.Phase)
	require.Equal(t, 180, gs.Pot)

	// Flop: checked to the raiser, who bets 90; SB folds, BB calls.
	_, err = gs.PerformAction("c", PlayerAction{Kind: Check})
	require.NoError(t, err)
	_, err = gs.PerformAction("d", PlayerAction{Kind: Check})
	require.NoError(t, err)
	_, err = gs.PerformAction("a", PlayerAction{Kind: BetOrRaise, Delta: 90})
	require.NoError(t, err)
	_, err = gs.PerformAction("c", PlayerAction{Kind: Fold})
	require.NoError(t, err)
	_, err = gs.PerformAction("d", PlayerAction{Kind: Call})
	require.NoError(t, err)
	require.Equal(t, Turn, gs.Phase)
	require.Equal(t, 360, gs.Pot)

	// Turn: both check.
	_, err = gs.PerformAction("d", PlayerAction{Kind: Check})
	require.NoError(t, err)
	_, err = gs.PerformAction("a", PlayerAction{Kind: Check})
	require.NoError(t, err)
	require.Equal(t, River, gs.Phase)

	// River: BB bets 200, UTG calls.
	_, err = gs.PerformAction("d", PlayerAction{Kind: BetOrRaise, Delta: 200})
	require.NoError(t, err)
	events, err := gs.PerformAction("a", PlayerAction{Kind: Call})
	require.NoError(t, err)

	sd := showdownOf(t, events)
	for _, r := range sd.Results {
		if r.PlayerID == "d" {
			assert.Equal(t, 760, r.Winnings)
			require.NotNil(t, r.HandRank)
			require.Len(t, r.Cards, 2)
		}
	}
	assert.Equal(t, 2410, gs.Players["d"].Stack)
	assert.Equal(t, 1650, gs.Players["a"].Stack)
	assert.Equal(t, 1940, gs.Players["c"].Stack)
	assert.Equal(t, 2000, gs.Players["b"].Stack)
	totalChipsInvariant(t, gs, 8000)
}

func TestTick_SynthesizesFoldFacingBetAndCheckOtherwise(t *testing.T) {
	gs, a, b, c := seatThree(t)
	_, err := gs.StartHand()
	require.NoError(t, err)

	// Order [b, c, a], b to act owing the big blind. Offline b folds.
	require.Equal(t, b, gs.CurrentPlayerID())
	gs.MarkOffline(b)
	events, ok := gs.Tick()
	require.True(t, ok)
	require.NotEmpty(t, events)
	acted, isActed := events[0].(PlayerActedEvent)
	require.True(t, isActed)
	assert.Equal(t, Fold, acted.Action.Kind)
	assert.Equal(t, Folded, gs.Players[b].State)

	// c calls, a checks; on the flop a goes offline owing nothing.
	_, err = gs.PerformAction(c, PlayerAction{Kind: Call})
	require.NoError(t, err)
	_, err = gs.PerformAction(a, PlayerAction{Kind: Check})
	require.NoError(t, err)
	require.Equal(t, Flop, gs.Phase)
	require.Equal(t, c, gs.CurrentPlayerID())

	_, err = gs.PerformAction(c, PlayerAction{Kind: Check})
	require.NoError(t, err)
	require.Equal(t, a, gs.CurrentPlayerID())
	gs.MarkOffline(a)
	events, ok = gs.Tick()
	require.True(t, ok)
	require.NotEmpty(t, events)
	acted, isActed = events[0].(PlayerActedEvent)
	require.True(t, isActed)
	assert.Equal(t, Check, acted.Action.Kind)

	// A connected actor stops the tick loop.
	_, ok = gs.Tick()
	require.False(t, ok)
}

func TestSeatInsertion_PreservesCircularOrder(t *testing.T) {
	gs := NewGameState("room-6", 10, 20, 10)
	// The anchor is the first-seated player's seat, so the list wraps
	// around it: 5, 8, then the seats below 5.
	require.NoError(t, gs.Seat("p5", 5, 100))
	require.NoError(t, gs.Seat("p2", 2, 100))
	require.NoError(t, gs.Seat("p8", 8, 100))
	require.NoError(t, gs.Seat("p0", 0, 100))
	require.Equal(t, []PlayerID{"p5", "p8", "p0", "p2"}, gs.SeatedPlayers)

	// Rotate the anchor mid-list, then insert: the circular invariant
	// must hold under the rotated anchor too.
	gs.rotateButton()
	gs.rotateButton()
	require.Equal(t, []PlayerID{"p0", "p2", "p5", "p8"}, gs.SeatedPlayers)
	require.NoError(t, gs.Seat("p7", 7, 100))
	require.Equal(t, []PlayerID{"p0", "p2", "p5", "p7", "p8"}, gs.SeatedPlayers)
	require.NoError(t, gs.Seat("p1", 1, 100))
	require.Equal(t, []PlayerID{"p0", "p1", "p2", "p5", "p7", "p8"}, gs.SeatedPlayers)
}

func TestSeatValidation(t *testing.T) {
	gs := NewGameState("room-7", 10, 20, 4)
	require.NoError(t, gs.Seat("a", 0, 100))
	require.Error(t, gs.Seat("b", 0, 100), "occupied seat")
	require.Error(t, gs.Seat("b", 4, 100), "seat out of range")
	require.NoError(t, gs.Seat("b", 3, 100))

	require.NoError(t, gs.LeaveSeat("a"))
	require.Nil(t, gs.Players["a"].Seat)
	require.Equal(t, []PlayerID{"b"}, gs.SeatedPlayers)
	require.Error(t, gs.LeaveSeat("a"), "already unseated")
}

func TestNotYourTurn_RejectedWithoutStateChange(t *testing.T) {
	gs, a, _, _ := seatThree(t)
	_, err := gs.StartHand()
	require.NoError(t, err)

	potBefore := gs.Pot
	_, err = gs.PerformAction(a, PlayerAction{Kind: Call})
	require.Error(t, err)
	var violation *RuleViolation
	require.ErrorAs(t, err, &violation)
	require.Equal(t, potBefore, gs.Pot)
}

func TestMinimumRaiseEnforced(t *testing.T) {
	gs, _, b, _ := seatThree(t)
	_, err := gs.StartHand()
	require.NoError(t, err)

	// b owes 20 to a 20 max bet; a raise must reach 40 total.
	_, err = gs.PerformAction(b, PlayerAction{Kind: BetOrRaise, Delta: 30})
	require.Error(t, err, "raise to 30 is under the minimum of 40")
	_, err = gs.PerformAction(b, PlayerAction{Kind: BetOrRaise, Delta: 40})
	require.NoError(t, err)
	require.Equal(t, 40, gs.MaxBet)
	require.Equal(t, 20, gs.LastRaiseAmount)
}

// A chopped pot with an odd chip: the remainder goes to the earliest
// winner in hand order.
func TestSplitPot_OddChipGoesToFirstWinnerInHandOrder(t *testing.T) {
	gs := NewGameState("room-9", 5, 20, 3)
	require.NoError(t, gs.Seat("a", 0, 1000))
	require.NoError(t, gs.Seat("b", 1, 1000))
	require.NoError(t, gs.Seat("c", 2, 1000))
	// Order [b, c, a]. The board is a royal flush, so every live hand
	// plays the board and ties.
	stackDeck(gs, "2h3h4h2d3d4d"+"9s"+"AsKsQs"+"9h"+"Js"+"9c"+"Ts")
	_, err := gs.StartHand()
	require.NoError(t, err)

	// b limps, c (SB, 5 posted) folds, a checks: a 45-chip pot between
	// b and a.
	_, err = gs.PerformAction("b", PlayerAction{Kind: Call})
	require.NoError(t, err)
	_, err = gs.PerformAction("c", PlayerAction{Kind: Fold})
	require.NoError(t, err)
	_, err = gs.PerformAction("a", PlayerAction{Kind: Check})
	require.NoError(t, err)

	var events []Event
	for gs.Phase != Showdown {
		evs, err := gs.PerformAction(gs.CurrentPlayerID(), PlayerAction{Kind: Check})
		require.NoError(t, err)
		events = append(events, evs...)
	}

	sd := showdownOf(t, events)
	winnings := make(map[PlayerID]int)
	for _, r := range sd.Results {
		winnings[r.PlayerID] = r.Winnings
	}
	assert.Equal(t, 23, winnings["b"], "dealer is first in hand order and takes the odd chip")
	assert.Equal(t, 22, winnings["a"])
	assert.Equal(t, 1, gs.Players["a"].Wins)
	assert.Equal(t, 1, gs.Players["b"].Wins)
	totalChipsInvariant(t, gs, 3000)
}

// Replaying the same actions against the same stacked deck reproduces
// the same event sequence.
func TestReplay_SameDeckSameActionsSameEvents(t *testing.T) {
	script := []struct {
		id     PlayerID
		action PlayerAction
	}{
		{"b", PlayerAction{Kind: Call}},
		{"c", PlayerAction{Kind: Call}},
		{"a", PlayerAction{Kind: Check}},
		// Flop onward: checked around each street.
		{"c", PlayerAction{Kind: Check}},
		{"a", PlayerAction{Kind: Check}},
		{"b", PlayerAction{Kind: Check}},
		{"c", PlayerAction{Kind: Check}},
		{"a", PlayerAction{Kind: Check}},
		{"b", PlayerAction{Kind: Check}},
		{"c", PlayerAction{Kind: Check}},
		{"a", PlayerAction{Kind: Check}},
		{"b", PlayerAction{Kind: Check}},
	}

	run := func() []Event {
		gs := NewGameState("room-8", 10, 20, 3)
		require.NoError(t, gs.Seat("a", 0, 1000))
		require.NoError(t, gs.Seat("b", 1, 1000))
		require.NoError(t, gs.Seat("c", 2, 1000))
		stackDeck(gs, "QsKsAsQdKdAd"+"9s"+"2c7hJh"+"9h"+"3d"+"9c"+"4d")

		events, err := gs.StartHand()
		require.NoError(t, err)
		for _, step := range script {
			evs, err := gs.PerformAction(step.id, step.action)
			require.NoError(t, err)
			events = append(events, evs...)
		}
		require.Equal(t, Showdown, gs.Phase)
		return events
	}

	require.Equal(t, run(), run())
}
