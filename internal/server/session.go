package server

import (
	"errors"

	"github.com/lox/holdem-rooms/internal/deck"
	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/protocol"
)

// handleMessage is the per-connection state machine: CreateRoom and
// JoinRoom move the connection from unauthenticated to bound, every
// other message requires the binding. Validation failures surface as
// Error events to this sender only and never mutate shared state.
func (c *Connection) handleMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MessageTypeCreateRoom:
		c.handleCreateRoom(msg)
	case protocol.MessageTypeJoinRoom:
		c.handleJoinRoom(msg)
	case protocol.MessageTypeSetNickname:
		c.handleSetNickname(msg)
	case protocol.MessageTypeRequestSeat:
		c.handleRequestSeat(msg)
	case protocol.MessageTypeLeaveSeat:
		c.handleLeaveSeat()
	case protocol.MessageTypeStartHand:
		c.handleStartHand()
	case protocol.MessageTypePerformAction:
		c.handlePerformAction(msg)
	case protocol.MessageTypeGetMyHand:
		c.handleGetMyHand()
	default:
		c.sendError(protocol.ErrCodeParse, "unknown message type")
	}
}

func (c *Connection) handleCreateRoom(msg *protocol.Message) {
	if c.room != nil {
		c.sendError(protocol.ErrCodeAuthState, "already in a room")
		return
	}
	var data protocol.CreateRoomData
	if err := msg.DecodeData(&data); err != nil {
		c.sendError(protocol.ErrCodeParse, "invalid create_room payload")
		return
	}

	room := c.registry.Create()
	id, secret, err := room.Join(data.Nickname, c)
	if err != nil {
		c.sendError(protocol.ErrCodeNotFound, err.Error())
		return
	}
	c.room, c.playerID, c.secret = room, id, secret
}

func (c *Connection) handleJoinRoom(msg *protocol.Message) {
	if c.room != nil {
		c.sendError(protocol.ErrCodeAuthState, "already in a room")
		return
	}
	var data protocol.JoinRoomData
	if err := msg.DecodeData(&data); err != nil {
		c.sendError(protocol.ErrCodeParse, "invalid join_room payload")
		return
	}

	room, ok := c.registry.Lookup(data.RoomID)
	if !ok {
		c.sendError(protocol.ErrCodeNotFound, "unknown room")
		return
	}
	id, secret, err := room.Join(data.Nickname, c)
	if err != nil {
		c.sendError(protocol.ErrCodeNotFound, err.Error())
		return
	}
	c.room, c.playerID, c.secret = room, id, secret
}

func (c *Connection) handleSetNickname(msg *protocol.Message) {
	room, ok := c.boundRoom()
	if !ok {
		return
	}
	var data protocol.SetNicknameData
	if err := msg.DecodeData(&data); err != nil {
		c.sendError(protocol.ErrCodeParse, "invalid set_nickname payload")
		return
	}

	_ = room.Update(func(gs *game.GameState) ([]game.Event, error) {
		if p, ok := gs.Players[c.playerID]; ok {
			p.Nickname = data.Nickname
		}
		return nil, nil
	}, room.playerUpdatedDeliveries(c.playerID))
}

func (c *Connection) handleRequestSeat(msg *protocol.Message) {
	room, ok := c.boundRoom()
	if !ok {
		return
	}
	var data protocol.RequestSeatData
	if err := msg.DecodeData(&data); err != nil {
		c.sendError(protocol.ErrCodeParse, "invalid request_seat payload")
		return
	}
	if data.Stack <= 0 {
		c.sendError(protocol.ErrCodeRuleViolation, "stack must be positive")
		return
	}

	err := room.Update(func(gs *game.GameState) ([]game.Event, error) {
		return nil, gs.Seat(c.playerID, data.SeatID, data.Stack)
	}, room.seatChangeDeliveries(c.playerID))
	if err != nil {
		c.sendError(protocol.ErrCodeRuleViolation, err.Error())
	}
}

func (c *Connection) handleLeaveSeat() {
	room, ok := c.boundRoom()
	if !ok {
		return
	}
	err := room.Update(func(gs *game.GameState) ([]game.Event, error) {
		return nil, gs.LeaveSeat(c.playerID)
	}, room.seatChangeDeliveries(c.playerID))
	if err != nil {
		c.sendError(protocol.ErrCodeRuleViolation, err.Error())
	}
}

func (c *Connection) handleStartHand() {
	room, ok := c.boundRoom()
	if !ok {
		return
	}
	if !room.IsHost(c.playerID) {
		c.sendError(protocol.ErrCodeHostOnly, "only the host can start a hand")
		return
	}
	if err := room.StartHand(); err != nil {
		c.sendError(protocol.ErrCodeRuleViolation, err.Error())
	}
}

func (c *Connection) handlePerformAction(msg *protocol.Message) {
	room, ok := c.boundRoom()
	if !ok {
		return
	}
	var data protocol.PerformActionData
	if err := msg.DecodeData(&data); err != nil {
		c.sendError(protocol.ErrCodeParse, "invalid perform_action payload")
		return
	}
	action, err := protocol.ParseAction(data.Action)
	if err != nil {
		c.sendError(protocol.ErrCodeParse, err.Error())
		return
	}

	err = room.Update(func(gs *game.GameState) ([]game.Event, error) {
		return gs.PerformAction(c.playerID, action)
	}, nil)
	if err != nil {
		var violation *game.RuleViolation
		if errors.As(err, &violation) {
			c.sendError(protocol.ErrCodeRuleViolation, violation.Message)
			return
		}
		c.sendError(protocol.ErrCodeRuleViolation, err.Error())
	}
}

func (c *Connection) handleGetMyHand() {
	room, ok := c.boundRoom()
	if !ok {
		return
	}
	var cards [2]deck.Card
	var dealt bool
	room.ReadState(func(gs *game.GameState) {
		cards, dealt = gs.HoleCardsOf(c.playerID)
	})
	if !dealt || cards[0].Rank == 0 {
		c.sendError(protocol.ErrCodeRuleViolation, "no cards have been dealt to you")
		return
	}
	if msg, err := protocol.NewMessage(protocol.MessageTypePlayerHand, protocol.PlayerHandData{Cards: cards}); err == nil {
		c.Enqueue(msg)
	}
}

// boundRoom returns the connection's room, or sends an AuthState error
// if the connection has not joined one yet.
func (c *Connection) boundRoom() (*Room, bool) {
	if c.room == nil {
		c.sendError(protocol.ErrCodeAuthState, "not in a room")
		return nil, false
	}
	return c.room, true
}

func (c *Connection) sendError(code protocol.ErrorCode, message string) {
	msg, err := protocol.NewMessage(protocol.MessageTypeError, protocol.ErrorData{Code: code, Message: message})
	if err != nil {
		return
	}
	c.Enqueue(msg)
}
