package server

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lox/pokerrooms/internal/protocol"
	"github.com/lox/pokerrooms/internal/room"
	"github.com/rs/zerolog"
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

	sendBufferSize = 256
)

type frame struct {
	kind int
	data []byte
}

// Connection is one client socket. The connection id doubles as the
// player id once the client joins a room.
type Connection struct {
	id     string
	ws     *websocket.Conn
	server *Server
	logger zerolog.Logger

	send      chan frame
	done      chan struct{}
	closeOnce sync.Once

	// Frame format of the last inbound frame; replies use the same.
	format atomic.Int32
}

func newConnection(ws *websocket.Conn, s *Server) *Connection {
	id := uuid.NewString()
	return &Connection{
		id:     id,
		ws:     ws,
		server: s,
		logger: s.logger.With().Str("component", "conn").Str("conn", id).Logger(),
		send:   make(chan frame, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the connection id
func (c *Connection) ID() string { return c.id }

// Format returns the encoding used for frames sent to this client
func (c *Connection) Format() protocol.Format {
	return protocol.Format(c.format.Load())
}

// Close closes the socket. The read pump notices and unregisters the
// connection.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// Send encodes msg in the client's format and queues it.
func (c *Connection) Send(msg protocol.Message) {
	format := c.Format()
	data, err := protocol.Encode(msg, format)
	if err != nil {
		c.logger.Error().Err(err).Str("event", msg.Event()).Msg("Failed to encode message")
		return
	}
	c.enqueue(frame{kind: messageType(format), data: data})
}

// enqueue never blocks. A client that cannot keep up is disconnected.
func (c *Connection) enqueue(f frame) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- f:
	case <-c.done:
	default:
		c.logger.Warn().Msg("Send buffer full, closing connection")
		c.Close()
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.Close()
		c.server.unregister(c)
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("Unexpected WebSocket close")
			}
			return
		}
		c.handleFrame(kind, data)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case f := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(f.kind, f.data); err != nil {
				c.logger.Debug().Err(err).Msg("Write failed")
				c.Close()
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}

		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (c *Connection) handleFrame(kind int, data []byte) {
	format := protocol.FormatJSON
	if kind == websocket.BinaryMessage {
		format = protocol.FormatMsgpack
	}
	c.format.Store(int32(format))

	req, err := protocol.Decode(data, format)
	if err != nil {
		c.rejectFrame(err)
		return
	}
	if format == protocol.FormatJSON {
		if err := c.server.validator.Validate(data); err != nil {
			c.logger.Debug().Err(err).Str("event", req.Event()).Msg("Frame failed validation")
			c.Send(protocol.Error{Code: protocol.CodeInvalid, Message: err.Error()})
			return
		}
	}

	c.logger.Debug().Str("event", req.Event()).Str("format", format.String()).Msg("Received message")

	switch r := req.(type) {
	case protocol.JoinGame:
		c.handleJoin(r)
	case protocol.PlayerAction:
		c.handleAction(r)
	case protocol.LeaveGame:
		c.handleLeave()
	}
}

func (c *Connection) rejectFrame(err error) {
	code := protocol.CodeBadFrame
	if errors.Is(err, protocol.ErrUnknownEvent) {
		code = protocol.CodeUnknownEvent
	}
	c.logger.Debug().Err(err).Str("code", code).Msg("Frame rejected")
	c.Send(protocol.Error{Code: code, Message: err.Error()})
}

func (c *Connection) handleJoin(req protocol.JoinGame) {
	// On success the room itself sends joinedGame to this connection.
	if _, err := c.server.registry.Join(req.RoomID, c.id, req.PlayerName, req.BuyIn); err != nil {
		c.logger.Info().Err(err).Str("room", req.RoomID).Msg("Join rejected")
		c.Send(protocol.JoinedGame{Success: false, Error: err.Error()})
	}
}

func (c *Connection) handleAction(req protocol.PlayerAction) {
	err := c.server.registry.DispatchWire(c.id, req.Action, req.Amount)
	if err != nil && !room.IsValidationError(err) {
		c.logger.Warn().Err(err).Str("action", req.Action).Msg("Action failed")
	}
}

func (c *Connection) handleLeave() {
	err := c.server.registry.Leave(c.id)
	switch {
	case errors.Is(err, room.ErrUnknownPlayer):
		c.Send(protocol.Error{Code: protocol.CodeNotSeated, Message: "not seated in any room"})
	case err != nil:
		c.logger.Warn().Err(err).Msg("Leave failed")
	}
}

func messageType(f protocol.Format) int {
	if f == protocol.FormatMsgpack {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}
