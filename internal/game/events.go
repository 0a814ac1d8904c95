package game

import "github.com/lox/holdem-rooms/internal/deck"

// EventType identifies the kind of Event an engine operation produced.
type EventType string

const (
	EventHandStarted        EventType = "hand_started"
	EventPlayerActed        EventType = "player_acted"
	EventNextToAct          EventType = "next_to_act"
	EventCommunityCardsDeal EventType = "community_cards_dealt"
	EventBetReturned        EventType = "bet_returned"
	EventShowdown           EventType = "showdown"
)

// Event is any of the ordered event records an engine operation returns.
// Events carry no references into GameState — every field is a copied
// value, safe to hand to the session layer after the room lock releases.
type Event interface {
	EventType() EventType
}

// HandStartedEvent announces the hand ordering and dealer for a new hand.
type HandStartedEvent struct {
	HandPlayerOrder []PlayerID
	DealerID        PlayerID
}

func (HandStartedEvent) EventType() EventType { return EventHandStarted }

// PlayerActedEvent reports one applied action (including forced blind
// posts and engine-synthesized offline actions).
type PlayerActedEvent struct {
	PlayerID          PlayerID
	Action            PlayerAction
	TotalBetThisRound int
	NewStack          int
	NewPot            int
}

func (PlayerActedEvent) EventType() EventType { return EventPlayerActed }

// NextToActEvent names the player up next and the actions available.
type NextToActEvent struct {
	PlayerID     PlayerID
	ValidActions []ValidAction
}

func (NextToActEvent) EventType() EventType { return EventNextToAct }

// CommunityCardsDealtEvent reports newly revealed board cards for a phase.
type CommunityCardsDealtEvent struct {
	Phase Phase
	Cards []deck.Card
}

func (CommunityCardsDealtEvent) EventType() EventType { return EventCommunityCardsDeal }

// BetReturnedEvent reports the single highest uncalled bet handed back
// to its owner before pot distribution.
type BetReturnedEvent struct {
	PlayerID PlayerID
	Amount   int
	NewStack int
}

func (BetReturnedEvent) EventType() EventType { return EventBetReturned }

// ShowdownResult is one player's outcome at showdown.
type ShowdownResult struct {
	PlayerID PlayerID
	// HandRank and Cards are unset (nil / zero) when the player never
	// had their cards revealed, e.g. the walkover case where everyone
	// folds to one remaining player.
	HandRank *int // ordinal HandRank score, nil if not revealed
	Cards    []deck.Card
	Winnings int
}

// ShowdownEvent is the terminal event of a hand: every hand-player's
// outcome, in HandPlayerOrder.
type ShowdownEvent struct {
	Results []ShowdownResult
}

func (ShowdownEvent) EventType() EventType { return EventShowdown }
