package room

import (
	"fmt"
	rand "math/rand/v2"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/coder/quartz"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/gameid"
	"github.com/lox/pokerrooms/internal/protocol"
	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/rs/zerolog"
)

var roomIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Summary holds lightweight room metadata for the admin endpoint.
type Summary struct {
	ID          string `json:"id"`
	Players     int    `json:"players"`
	MaxSeats    int    `json:"max_seats"`
	SmallBlind  int    `json:"small_blind"`
	BigBlind    int    `json:"big_blind"`
	State       string `json:"state"`
	Round       string `json:"round"`
	Pot         int    `json:"pot"`
	HandsPlayed uint64 `json:"hands_played"`
}

// Registry maps room ids to rooms and connections to the room they sit in.
// Lock order is registry then room.
type Registry struct {
	logger    zerolog.Logger
	rng       *rand.Rand
	clock     quartz.Clock
	settings  Settings
	publisher Publisher
	monitor   HandMonitor

	mu      sync.RWMutex
	rooms   map[string]*Room
	members map[string]string // connection id -> room id
	closed  bool
}

// NewRegistry creates an empty registry. Rooms derive their shuffles from
// rng, so a seeded rng makes every room reproducible.
func NewRegistry(logger zerolog.Logger, rng *rand.Rand, clock quartz.Clock, settings Settings) *Registry {
	if settings.DefaultRoom == "" {
		settings.DefaultRoom = DefaultSettings().DefaultRoom
	}
	if settings.NextHandDelay <= 0 {
		settings.NextHandDelay = DefaultSettings().NextHandDelay
	}
	return &Registry{
		logger:    logger.With().Str("component", "registry").Logger(),
		rng:       rng,
		clock:     clock,
		settings:  settings,
		publisher: nopPublisher{},
		monitor:   NullHandMonitor{},
		rooms:     make(map[string]*Room),
		members:   make(map[string]string),
	}
}

// SetPublisher sets where room events are delivered. Call before any join.
func (r *Registry) SetPublisher(p Publisher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p == nil {
		p = nopPublisher{}
	}
	r.publisher = p
}

// SetHandMonitor sets the observer of hand progress. Call before any join.
func (r *Registry) SetHandMonitor(m HandMonitor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m == nil {
		m = NullHandMonitor{}
	}
	r.monitor = m
}

// DefaultRoom returns the id used for joins that name no room
func (r *Registry) DefaultRoom() string {
	return r.settings.DefaultRoom
}

// GetOrCreate returns the room with id, creating it if needed.
func (r *Registry) GetOrCreate(roomID string) (*Room, error) {
	roomID, err := r.normalize(roomID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}
	return r.getOrCreateLocked(roomID), nil
}

func (r *Registry) getOrCreateLocked(roomID string) *Room {
	if room, ok := r.rooms[roomID]; ok {
		return room
	}

	cfg := r.settings.config(roomID)
	ids := gameid.FromRand(randutil.Child(r.rng))
	room := &Room{
		id:        roomID,
		config:    cfg,
		delay:     r.settings.NextHandDelay,
		clock:     r.clock,
		logger:    r.logger.With().Str("component", "room").Str("room", roomID).Logger(),
		publisher: r.publisher,
		monitor:   r.monitor,
		createdAt: r.clock.Now(),
		table:     game.NewTable(roomID, cfg.settings(), randutil.Child(r.rng), game.WithHandIDs(ids.Generate)),
	}
	r.rooms[roomID] = room

	r.logger.Info().
		Str("room", roomID).
		Int("small_blind", cfg.SmallBlind).
		Int("big_blind", cfg.BigBlind).
		Int("max_seats", cfg.MaxSeats).
		Msg("Room created")
	return room
}

// Join seats connID in roomID with the requested buy-in (0 for the room
// default) and returns the table state after seating.
func (r *Registry) Join(roomID, connID, name string, buyIn int) (game.Snapshot, error) {
	roomID, err := r.normalize(roomID)
	if err != nil {
		return game.Snapshot{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return game.Snapshot{}, ErrRegistryClosed
	}
	if current, ok := r.members[connID]; ok {
		return game.Snapshot{}, fmt.Errorf("%w: in room %s", ErrAlreadySeated, current)
	}

	stack, err := r.settings.config(roomID).stack(buyIn)
	if err != nil {
		return game.Snapshot{}, err
	}

	_, existed := r.rooms[roomID]
	room := r.getOrCreateLocked(roomID)
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Player"
	}
	snap, err := room.join(connID, name, stack)
	if err != nil {
		if !existed {
			room.close()
			delete(r.rooms, roomID)
		}
		return game.Snapshot{}, fmt.Errorf("join %s: %w", roomID, err)
	}

	r.members[connID] = roomID
	return snap, nil
}

// Leave unseats connID. An emptied room is removed and its timer stopped.
func (r *Registry) Leave(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.members[connID]
	if !ok {
		return ErrUnknownPlayer
	}
	delete(r.members, connID)

	room, ok := r.rooms[roomID]
	if !ok {
		return ErrNotFound
	}

	empty, err := room.leave(connID)
	if empty {
		room.close()
		delete(r.rooms, roomID)
		r.logger.Info().Str("room", roomID).Msg("Room removed")
	}
	return err
}

// Lookup resolves the room a connection sits in.
func (r *Registry) Lookup(connID string) (string, *Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomID, ok := r.members[connID]
	if !ok {
		return "", nil, ErrNotFound
	}
	room, ok := r.rooms[roomID]
	if !ok {
		return "", nil, ErrNotFound
	}
	return roomID, room, nil
}

// Room returns the room with id, if it exists.
func (r *Registry) Room(roomID string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	return room, ok
}

// List returns a summary of every live room sorted by id.
func (r *Registry) List() []Summary {
	r.mu.RLock()
	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	r.mu.RUnlock()

	summaries := make([]Summary, 0, len(rooms))
	for _, room := range rooms {
		room.mu.Lock()
		summaries = append(summaries, Summary{
			ID:          room.id,
			Players:     room.table.Seats(),
			MaxSeats:    room.config.MaxSeats,
			SmallBlind:  room.config.SmallBlind,
			BigBlind:    room.config.BigBlind,
			State:       room.table.State().String(),
			Round:       room.table.Phase().String(),
			Pot:         room.table.Pot(),
			HandsPlayed: room.handsCompleted,
		})
		room.mu.Unlock()
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries
}

// Close stops every pending timer and rejects further joins.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for _, room := range r.rooms {
		room.close()
	}
	r.logger.Info().Int("rooms", len(r.rooms)).Msg("Registry closed")
}

func (r *Registry) normalize(roomID string) (string, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return r.settings.DefaultRoom, nil
	}
	if !roomIDPattern.MatchString(roomID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRoomID, roomID)
	}
	return roomID, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish([]string, protocol.Message) {}
