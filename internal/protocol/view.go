package protocol

import (
	"fmt"

	"github.com/lox/holdem-rooms/internal/deck"
	"github.com/lox/holdem-rooms/internal/evaluator"
	"github.com/lox/holdem-rooms/internal/game"
)

// PlayerView is the outward-facing projection of a Player record.
type PlayerView struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Stack    int    `json:"stack"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Seat     *int   `json:"seat,omitempty"`
	State    string `json:"state"`
}

// GameStateView is the per-recipient projection of GameState: the
// server-private deck is never present, and hole cards are redacted
// per the visibility rules in ProjectGameState.
type GameStateView struct {
	RoomID     string `json:"roomId"`
	SmallBlind int    `json:"smallBlind"`
	BigBlind   int    `json:"bigBlind"`
	Seats      int    `json:"seats"`

	Players         map[string]PlayerView `json:"players"`
	SeatedPlayers   []string              `json:"seatedPlayers"`
	HandPlayerOrder []string              `json:"handPlayerOrder"`

	Phase string `json:"phase"`
	Pot   int    `json:"pot"`

	// CommunityCards always has 5 slots; nil means not yet dealt.
	CommunityCards [5]*deck.Card `json:"communityCards"`

	// PlayerCards is index-aligned with HandPlayerOrder; nil means the
	// recipient may not see (or the hand has not dealt) those cards.
	PlayerCards []*[2]deck.Card `json:"playerCards,omitempty"`

	Bets            []int  `json:"bets,omitempty"`
	PlayerHasActed  []bool `json:"playerHasActed,omitempty"`
	CurPlayerIdx    int    `json:"curPlayerIdx"`
	MaxBet          int    `json:"maxBet"`
	LastRaiseAmount int    `json:"lastRaiseAmount"`
}

// NewPlayerView projects a Player record.
func NewPlayerView(p *game.Player) PlayerView {
	v := PlayerView{
		ID:       string(p.ID),
		Nickname: p.Nickname,
		Stack:    p.Stack,
		Wins:     p.Wins,
		Losses:   p.Losses,
		State:    p.State.String(),
	}
	if p.Seat != nil {
		seat := *p.Seat
		v.Seat = &seat
	}
	return v
}

// ProjectGameState computes viewer's view of the authoritative state.
// The viewer always sees their own hole cards; during Showdown they
// additionally see the cards of every hand-player who has not folded;
// at all other phases every other player's cards appear unset. The
// projection copies every value it exposes, so the returned view stays
// valid after the room lock is released.
func ProjectGameState(gs *game.GameState, viewer game.PlayerID) GameStateView {
	view := GameStateView{
		RoomID:          gs.RoomID,
		SmallBlind:      gs.SmallBlind,
		BigBlind:        gs.BigBlind,
		Seats:           gs.Seats,
		Players:         make(map[string]PlayerView, len(gs.Players)),
		Phase:           gs.Phase.String(),
		Pot:             gs.Pot,
		CurPlayerIdx:    gs.CurPlayerIdx,
		MaxBet:          gs.MaxBet,
		LastRaiseAmount: gs.LastRaiseAmount,
	}

	for id, p := range gs.Players {
		view.Players[string(id)] = NewPlayerView(p)
	}
	for _, id := range gs.SeatedPlayers {
		view.SeatedPlayers = append(view.SeatedPlayers, string(id))
	}
	for _, id := range gs.HandPlayerOrder {
		view.HandPlayerOrder = append(view.HandPlayerOrder, string(id))
	}

	for i, c := range gs.CommunityCards {
		if c.Rank != 0 {
			card := c
			view.CommunityCards[i] = &card
		}
	}

	if n := len(gs.PlayerCards); n > 0 {
		view.PlayerCards = make([]*[2]deck.Card, n)
		for i, id := range gs.HandPlayerOrder {
			if !cardsVisibleTo(gs, viewer, id) {
				continue
			}
			cards := gs.PlayerCards[i]
			if cards[0].Rank == 0 {
				continue
			}
			view.PlayerCards[i] = &cards
		}
	}

	view.Bets = append([]int{}, gs.Bets...)
	view.PlayerHasActed = append([]bool{}, gs.PlayerHasActed...)
	return view
}

func cardsVisibleTo(gs *game.GameState, viewer, owner game.PlayerID) bool {
	if viewer == owner {
		return true
	}
	if gs.Phase != game.Showdown {
		return false
	}
	p, ok := gs.Players[owner]
	return ok && p.State != game.Folded
}

// Action kind strings on the wire.
const (
	ActionKindFold       = "fold"
	ActionKindCheck      = "check"
	ActionKindCall       = "call"
	ActionKindBetOrRaise = "bet_or_raise"
)

// NewActionData converts an engine action to its wire form.
func NewActionData(a game.PlayerAction) ActionData {
	d := ActionData{Kind: a.Kind.String()}
	if a.Kind == game.BetOrRaise || a.Kind == game.Call {
		d.Amount = a.Delta
	}
	return d
}

// ParseAction converts a wire action to the engine form.
func ParseAction(d ActionData) (game.PlayerAction, error) {
	switch d.Kind {
	case ActionKindFold:
		return game.PlayerAction{Kind: game.Fold}, nil
	case ActionKindCheck:
		return game.PlayerAction{Kind: game.Check}, nil
	case ActionKindCall:
		return game.PlayerAction{Kind: game.Call}, nil
	case ActionKindBetOrRaise:
		return game.PlayerAction{Kind: game.BetOrRaise, Delta: d.Amount}, nil
	default:
		return game.PlayerAction{}, fmt.Errorf("unknown action kind %q", d.Kind)
	}
}

// NewValidActionData converts an advertised legal action to wire form.
func NewValidActionData(v game.ValidAction) ValidActionData {
	return ValidActionData{Kind: v.Kind.String(), Amount: v.Amount}
}

// NewShowdownResultData converts one showdown outcome, resolving the
// packed hand rank to its category name for display.
func NewShowdownResultData(r game.ShowdownResult) ShowdownResultData {
	d := ShowdownResultData{
		PlayerID: string(r.PlayerID),
		Winnings: r.Winnings,
	}
	if r.HandRank != nil {
		score := *r.HandRank
		d.HandRank = &score
		d.HandName = evaluator.HandRank(score).String()
	}
	if len(r.Cards) > 0 {
		d.Cards = append([]deck.Card{}, r.Cards...)
	}
	return d
}
