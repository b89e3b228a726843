// Package server exposes the room registry over WebSockets. Each socket is
// one player connection; the server routes room events to sockets and
// turns inbound frames into registry calls.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lox/pokerrooms/internal/protocol"
	"github.com/lox/pokerrooms/internal/room"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Server represents the WebSocket server
type Server struct {
	logger    zerolog.Logger
	registry  *room.Registry
	validator *protocol.Validator
	upgrader  websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]*Connection

	shutdownOnce sync.Once
}

// NewServer creates a server for registry and installs itself as the
// registry's publisher.
func NewServer(logger zerolog.Logger, registry *room.Registry) (*Server, error) {
	validator, err := protocol.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("load schemas: %w", err)
	}

	s := &Server{
		logger:    logger.With().Str("component", "server").Logger(),
		registry:  registry,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		conns: make(map[string]*Connection),
	}
	registry.SetPublisher(s)
	return s, nil
}

// Registry returns the rooms served by s
func (s *Server) Registry() *room.Registry { return s.registry }

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/rooms", s.handleRooms)
	return mux
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts the
// server down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Server listening")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info().Msg("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.Shutdown()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Shutdown stops the registry timers and closes every connection.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.registry.Close()

		s.mu.RLock()
		conns := make([]*Connection, 0, len(s.conns))
		for _, c := range s.conns {
			conns = append(conns, c)
		}
		s.mu.RUnlock()

		for _, c := range conns {
			c.Close()
		}
		s.logger.Info().Int("connections", len(conns)).Msg("Connections closed")
	})
}

// Publish implements room.Publisher. Each message is encoded at most
// once per frame format and queued without blocking.
func (s *Server) Publish(connIDs []string, msg protocol.Message) {
	var encoded [2][]byte

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range connIDs {
		c, ok := s.conns[id]
		if !ok {
			continue
		}
		format := c.Format()
		if encoded[format] == nil {
			data, err := protocol.Encode(msg, format)
			if err != nil {
				s.logger.Error().Err(err).Str("event", msg.Event()).Msg("Failed to encode message")
				return
			}
			encoded[format] = data
		}
		c.enqueue(frame{kind: messageType(format), data: encoded[format]})
	}
}

// ConnectionCount returns the number of open sockets
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	c := newConnection(ws, s)

	s.mu.Lock()
	s.conns[c.id] = c
	total := len(s.conns)
	s.mu.Unlock()

	c.logger.Info().Str("remote", r.RemoteAddr).Int("total", total).Msg("Client connected")

	go c.writePump()
	go c.readPump()
}

// unregister forgets c and gives up its seat, if any.
func (s *Server) unregister(c *Connection) {
	s.mu.Lock()
	_, ok := s.conns[c.id]
	delete(s.conns, c.id)
	total := len(s.conns)
	s.mu.Unlock()

	if !ok {
		return
	}

	if err := s.registry.Leave(c.id); err != nil && !errors.Is(err, room.ErrUnknownPlayer) {
		c.logger.Warn().Err(err).Msg("Failed to release seat")
	}
	c.logger.Info().Int("total", total).Msg("Client disconnected")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.registry.List()); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode room list")
	}
}
