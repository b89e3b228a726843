// Package protocol defines the WebSocket event envelope exchanged with
// clients. Every frame is {"event": name, "data": payload}; text frames
// carry JSON and binary frames carry the same envelope as MessagePack.
package protocol

import (
	"github.com/lox/pokerrooms/internal/deck"
	"github.com/lox/pokerrooms/internal/game"
)

// Client -> Server events
const (
	EventJoinGame     = "joinGame"
	EventPlayerAction = "playerAction"
	EventLeaveGame    = "leaveGame"
)

// Server -> Client events
const (
	EventJoinedGame   = "joinedGame"
	EventPlayerJoined = "playerJoined"
	EventGameUpdate   = "gameUpdate"
	EventNewHand      = "newHand"
	EventHoleCards    = "holeCards"
	EventHandEnd      = "handEnd"
	EventPlayerLeft   = "playerLeft"
	EventError        = "error"
)

// Error codes sent in Error events
const (
	CodeBadFrame     = "bad_frame"
	CodeInvalid      = "invalid_message"
	CodeUnknownEvent = "unknown_event"
	CodeNotSeated    = "not_seated"
)

// Request is an inbound event payload
type Request interface {
	Event() string
}

// Message is an outbound event payload
type Message interface {
	Event() string
	MarshalMsg([]byte) ([]byte, error)
}

// JoinGame asks to be seated in a room. A blank RoomID joins the default
// room and a zero BuyIn takes the room's default stack.
type JoinGame struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	BuyIn      int    `json:"buyIn,omitempty"`
}

// PlayerAction is a betting decision; Amount is only read for raises.
type PlayerAction struct {
	Action string `json:"action"` // fold, check, call, raise, allin
	Amount int    `json:"amount,omitempty"`
}

// LeaveGame gives up the seat without closing the connection.
type LeaveGame struct{}

func (JoinGame) Event() string     { return EventJoinGame }
func (PlayerAction) Event() string { return EventPlayerAction }
func (LeaveGame) Event() string    { return EventLeaveGame }

// JoinedGame answers a JoinGame request.
type JoinedGame struct {
	Success   bool           `json:"success"`
	PlayerID  string         `json:"playerId,omitempty"`
	GameState *game.Snapshot `json:"gameState,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// PlayerJoined tells existing members about a new seat.
type PlayerJoined struct {
	Player game.PlayerView `json:"player"`
}

// GameUpdate is the full public table state.
type GameUpdate struct {
	game.Snapshot
}

// NewHand is the table state right after a deal.
type NewHand struct {
	game.Snapshot
}

// HoleCards is sent privately to each dealt-in player.
type HoleCards struct {
	HandID string      `json:"handId"`
	Cards  []deck.Card `json:"cards"`
}

// Winner identifies the player awarded the pot
type Winner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HandEnd announces the pot award.
type HandEnd struct {
	HandID   string            `json:"handId"`
	Winner   Winner            `json:"winner"`
	Amount   int               `json:"amount"`
	Showdown bool              `json:"showdown"`
	Players  []game.PlayerView `json:"players"`
}

// PlayerLeft tells remaining members a seat was vacated.
type PlayerLeft struct {
	Player game.PlayerView `json:"player"`
}

// Error reports a frame the server could not process.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (JoinedGame) Event() string   { return EventJoinedGame }
func (PlayerJoined) Event() string { return EventPlayerJoined }
func (GameUpdate) Event() string   { return EventGameUpdate }
func (NewHand) Event() string      { return EventNewHand }
func (HoleCards) Event() string    { return EventHoleCards }
func (HandEnd) Event() string      { return EventHandEnd }
func (PlayerLeft) Event() string   { return EventPlayerLeft }
func (Error) Event() string        { return EventError }
