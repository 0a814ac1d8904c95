package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Outbound queue depth per connection. A consumer that falls this
	// far behind is closed rather than allowed to stall broadcasts.
	sendQueueSize = 256
)

// Connection wraps one WebSocket client: a reader pump that parses and
// dispatches inbound messages, and a writer pump that drains the send
// queue and keeps the connection alive with pings. The binding to a
// (room, player) is only ever touched from the reader pump, so it needs
// no lock.
type Connection struct {
	conn     *websocket.Conn
	send     chan *protocol.Message
	logger   *log.Logger
	clock    quartz.Clock
	registry *Registry

	// Bound after a successful CreateRoom/JoinRoom.
	room     *Room
	playerID game.PlayerID
	secret   string

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection creates a connection wrapper around an accepted socket.
func NewConnection(conn *websocket.Conn, registry *Registry, clock quartz.Clock, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:     conn,
		send:     make(chan *protocol.Message, sendQueueSize),
		logger:   logger.WithPrefix("conn"),
		clock:    clock,
		registry: registry,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Serve runs the reader and writer pumps until either exits, then runs
// the disconnect path. The first pump error cancels the other.
func (c *Connection) Serve() {
	g, ctx := errgroup.WithContext(c.ctx)
	g.Go(func() error {
		// Closing on exit unblocks the other pump's socket I/O.
		defer c.Close()
		return c.readPump(ctx)
	})
	g.Go(func() error {
		defer c.Close()
		return c.writePump(ctx)
	})
	err := g.Wait()
	if c.room != nil {
		c.room.Disconnect(c.playerID)
	}
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		c.logger.Debug("connection ended", "player", c.playerID, "error", err)
	}
}

// Close tears the socket down once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		_ = c.conn.Close()
	})
}

// Enqueue appends a message to the connection's send queue without
// blocking on network I/O. A full queue means the consumer is too slow
// to keep: the connection closes and the enqueue reports failure.
func (c *Connection) Enqueue(msg *protocol.Message) (ok bool) {
	defer func() {
		if recover() != nil {
			// Send queue already closed by a concurrent shutdown.
			ok = false
		}
	}()

	select {
	case c.send <- msg:
		return true
	case <-c.ctx.Done():
		return false
	default:
		c.logger.Warn("send queue full, closing connection", "player", c.playerID)
		c.Close()
		return false
	}
}

// readPump consumes inbound frames, surviving malformed JSON (logged,
// Error event to sender) and exiting on socket failure.
func (c *Connection) readPump(ctx context.Context) error {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("malformed inbound frame", "error", err)
			c.sendError(protocol.ErrCodeParse, "malformed message")
			continue
		}
		c.handleMessage(&msg)
	}
}

// writePump drains the send queue onto the socket and pings on the
// keepalive ticker. The ticker comes from the injected clock so tests
// drive it without waiting out real intervals.
func (c *Connection) writePump(ctx context.Context) error {
	ticker := c.clock.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return nil
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return err
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}
