package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// Server accepts WebSocket connections and wires each one into the
// session layer against a shared room registry.
type Server struct {
	registry   *Registry
	logger     *log.Logger
	clock      quartz.Clock
	upgrader   websocket.Upgrader
	httpServer *http.Server
}

// New creates a server bound to addr with the given room defaults.
func New(addr string, defaults RoomDefaults, logger *log.Logger, clock quartz.Clock) *Server {
	s := &Server{
		registry: NewRegistry(logger, defaults),
		logger:   logger.WithPrefix("server"),
		clock:    clock,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Registry exposes the room directory, mainly for tests.
func (s *Server) Registry() *Registry {
	return s.registry
}

// handleWebSocket upgrades an HTTP request and hands the socket to a
// new connection's pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	conn := NewConnection(ws, s.registry, s.clock, s.logger)
	go conn.Serve()
}

// ListenAndServe serves until ctx is cancelled, then drains with a
// graceful shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
