// Package protocol defines the JSON wire messages exchanged between
// clients and the server, and the per-recipient view projection of the
// authoritative game state. Every frame on the wire is a Message
// envelope: a type tag plus a raw payload decoded by the handler that
// recognizes the tag.
package protocol

import (
	"encoding/json"

	"github.com/lox/holdem-rooms/internal/deck"
)

// MessageType tags a Message payload.
type MessageType string

const (
	// Client to server messages
	MessageTypeCreateRoom    MessageType = "create_room"
	MessageTypeJoinRoom      MessageType = "join_room"
	MessageTypeSetNickname   MessageType = "set_nickname"
	MessageTypeRequestSeat   MessageType = "request_seat"
	MessageTypeLeaveSeat     MessageType = "leave_seat"
	MessageTypeStartHand     MessageType = "start_hand"
	MessageTypePerformAction MessageType = "perform_action"
	MessageTypeGetMyHand     MessageType = "get_my_hand"

	// Server to client messages
	MessageTypeRoomJoined          MessageType = "room_joined"
	MessageTypeGameStateSnapshot   MessageType = "game_state_snapshot"
	MessageTypePlayerJoined        MessageType = "player_joined"
	MessageTypePlayerLeft          MessageType = "player_left"
	MessageTypePlayerUpdated       MessageType = "player_updated"
	MessageTypeHandStarted         MessageType = "hand_started"
	MessageTypePlayerActed         MessageType = "player_acted"
	MessageTypeNextToAct           MessageType = "next_to_act"
	MessageTypeCommunityCardsDealt MessageType = "community_cards_dealt"
	MessageTypeBetReturned         MessageType = "bet_returned"
	MessageTypeShowdown            MessageType = "showdown"
	MessageTypePlayerHand          MessageType = "player_hand"
	MessageTypeInfo                MessageType = "info"
	MessageTypeError               MessageType = "error"
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	return string(mt)
}

// Message is the envelope for every frame in both directions.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewMessage builds a Message with the payload marshalled in place.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	if data == nil {
		return &Message{Type: messageType}, nil
	}
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{Type: messageType, Data: dataBytes}, nil
}

// DecodeData unmarshals the payload into v. A message with no payload
// decodes into the zero value.
func (m *Message) DecodeData(v interface{}) error {
	if len(m.Data) == 0 {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Client → Server payloads

type CreateRoomData struct {
	Nickname string `json:"nickname"`
}

type JoinRoomData struct {
	RoomID   string `json:"roomId"`
	Nickname string `json:"nickname"`
}

type SetNicknameData struct {
	Nickname string `json:"nickname"`
}

type RequestSeatData struct {
	SeatID int `json:"seatId"`
	Stack  int `json:"stack"`
}

// ActionData is the wire form of a player action. For bet_or_raise,
// Amount is the chip increment the action adds to the player's
// committed chips this round. Outbound call actions carry the chips
// actually committed; inbound, Amount is ignored for every kind but
// bet_or_raise.
type ActionData struct {
	Kind   string `json:"kind"`
	Amount int    `json:"amount,omitempty"`
}

type PerformActionData struct {
	Action ActionData `json:"action"`
}

// Server → Client payloads

type RoomJoinedData struct {
	YourID     string        `json:"yourId"`
	YourSecret string        `json:"yourSecret"`
	GameState  GameStateView `json:"gameState"`
	HostID     string        `json:"hostId"`
}

type GameStateSnapshotData struct {
	GameState GameStateView `json:"gameState"`
}

type PlayerJoinedData struct {
	Player PlayerView `json:"player"`
}

type PlayerLeftData struct {
	PlayerID string `json:"playerId"`
}

type PlayerUpdatedData struct {
	Player PlayerView `json:"player"`
}

type HandStartedData struct {
	HandPlayerOrder []string `json:"handPlayerOrder"`
	DealerID        string   `json:"dealerId"`
}

type PlayerActedData struct {
	PlayerID          string     `json:"playerId"`
	Action            ActionData `json:"action"`
	TotalBetThisRound int        `json:"totalBetThisRound"`
	NewStack          int        `json:"newStack"`
	NewPot            int        `json:"newPot"`
}

// ValidActionData advertises one legal action: amount owed for call,
// minimum open for bet, minimum total for raise.
type ValidActionData struct {
	Kind   string `json:"kind"`
	Amount int    `json:"amount,omitempty"`
}

type NextToActData struct {
	PlayerID     string            `json:"playerId"`
	ValidActions []ValidActionData `json:"validActions"`
}

type CommunityCardsDealtData struct {
	Phase string      `json:"phase"`
	Cards []deck.Card `json:"cards"`
}

type BetReturnedData struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
	NewStack int    `json:"newStack"`
}

// ShowdownResultData carries one player's outcome. HandRank and Cards
// are omitted when the player's cards were never revealed (walkover).
type ShowdownResultData struct {
	PlayerID string      `json:"playerId"`
	HandRank *int        `json:"handRank,omitempty"`
	HandName string      `json:"handName,omitempty"`
	Cards    []deck.Card `json:"cards,omitempty"`
	Winnings int         `json:"winnings"`
}

type ShowdownData struct {
	Results []ShowdownResultData `json:"results"`
}

type PlayerHandData struct {
	Cards [2]deck.Card `json:"cards"`
}

type InfoData struct {
	Message string `json:"message"`
}

// ErrorCode classifies an Error payload for programmatic handling.
type ErrorCode string

const (
	ErrCodeParse         ErrorCode = "parse_error"
	ErrCodeAuthState     ErrorCode = "auth_state"
	ErrCodeNotFound      ErrorCode = "not_found"
	ErrCodeRuleViolation ErrorCode = "rule_violation"
	ErrCodeHostOnly      ErrorCode = "host_only"
)

type ErrorData struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}
