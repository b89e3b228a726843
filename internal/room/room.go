package room

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/protocol"
	"github.com/rs/zerolog"
)

// Publisher delivers events to connections. Publish is called with a room
// lock held and must not block.
type Publisher interface {
	Publish(connIDs []string, msg protocol.Message)
}

// Room is one table and its players. Every table mutation happens under mu.
type Room struct {
	id        string
	config    Config
	delay     time.Duration
	clock     quartz.Clock
	logger    zerolog.Logger
	publisher Publisher
	monitor   HandMonitor
	createdAt time.Time

	mu             sync.Mutex
	table          *game.Table
	timer          *quartz.Timer
	generation     uint64
	closed         bool
	handsCompleted uint64
}

// ID returns the room id
func (r *Room) ID() string { return r.id }

// Config returns the room stakes
func (r *Room) Config() Config { return r.config }

// Snapshot returns the public table state
func (r *Room) Snapshot() game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table.Snapshot()
}

// HandsCompleted returns the number of pots awarded in this room
func (r *Room) HandsCompleted() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handsCompleted
}

func (r *Room) join(connID, name string, stack int) (game.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return game.Snapshot{}, ErrNotFound
	}

	player, err := r.table.Seat(connID, name, stack)
	if err != nil {
		return game.Snapshot{}, err
	}

	r.logger.Info().
		Str("player", name).
		Str("conn", connID).
		Int("chips", stack).
		Int("seats", r.table.Seats()).
		Msg("Player joined")

	snap := r.table.Snapshot()
	r.publisher.Publish([]string{connID}, protocol.JoinedGame{Success: true, PlayerID: connID, GameState: &snap})
	r.publisher.Publish(r.members(connID), protocol.PlayerJoined{Player: player.View()})

	if r.table.State() == game.Waiting && r.table.Funded() >= 2 {
		r.startHand()
	}
	r.broadcastUpdate()
	return r.table.Snapshot(), nil
}

// leave unseats connID and reports whether the room is now empty.
func (r *Room) leave(connID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, res, err := r.table.Remove(connID)
	if err != nil {
		if errors.Is(err, game.ErrPlayerNotSeated) {
			return r.table.Seats() == 0, ErrUnknownPlayer
		}
		return false, err
	}

	r.logger.Info().
		Str("player", player.Name).
		Str("conn", connID).
		Int("chips", player.Chips).
		Int("seats", r.table.Seats()).
		Msg("Player left")

	r.publisher.Publish(r.members(), protocol.PlayerLeft{Player: player.View()})
	r.handleResult(res)

	if r.table.Seats() < 2 {
		r.cancelTimer()
		r.table.Pause()
	}
	if r.table.Seats() == 0 {
		r.closed = true
		return true, nil
	}

	r.broadcastUpdate()
	return false, nil
}

func (r *Room) act(connID string, d game.Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.table.Apply(connID, d)
	if err != nil {
		if errors.Is(err, game.ErrPlayerNotSeated) {
			return ErrUnknownPlayer
		}
		return err
	}
	if res.Ignored != nil {
		r.logger.Debug().Err(res.Ignored).Str("conn", connID).Msg("Action consumed without effect")
	}

	r.handleResult(res)
	r.broadcastUpdate()
	return nil
}

// startHand deals a new hand. The caller holds mu.
func (r *Room) startHand() {
	res, err := r.table.StartNewHand()
	if err != nil {
		r.logger.Debug().Err(err).Msg("Cannot start hand")
		r.table.Pause()
		return
	}

	r.logger.Info().
		Str("hand_id", res.HandID).
		Int("hand", res.Deal.HandNumber).
		Int("players", len(res.Deal.Seats)).
		Msg("Hand started")

	r.monitor.OnHandStart(HandStart{RoomID: r.id, Time: r.clock.Now(), Deal: *res.Deal})
	r.publisher.Publish(r.members(), protocol.NewHand{Snapshot: r.table.Snapshot()})
	for _, seat := range res.Deal.Seats {
		r.publisher.Publish([]string{seat.ID}, protocol.HoleCards{HandID: res.HandID, Cards: seat.Hand})
	}
	r.handleResult(res)
}

// handleResult reports a table result to the monitor and, when the hand
// ended, announces the winner and arranges the next deal.
func (r *Room) handleResult(res game.Result) {
	for _, ev := range res.Actions {
		r.monitor.OnPlayerAction(PlayerAction{RoomID: r.id, HandID: res.HandID, Phase: r.table.Phase(), ActionEvent: ev})
	}
	for _, st := range res.Streets {
		r.monitor.OnStreetChange(StreetChange{RoomID: r.id, HandID: res.HandID, Phase: st.Phase, Cards: st.Cards, Board: st.Board})
	}
	if res.Award == nil {
		return
	}

	r.handsCompleted++
	players := r.table.Players()
	stacks := make(map[string]int, len(players))
	views := make([]game.PlayerView, len(players))
	for i := range players {
		stacks[players[i].ID] = players[i].Chips
		views[i] = players[i].View()
	}

	r.logger.Info().
		Str("hand_id", res.Award.HandID).
		Str("winner", res.Award.WinnerName).
		Int("amount", res.Award.Amount).
		Bool("showdown", res.Award.Showdown).
		Msg("Hand complete")

	r.monitor.OnHandComplete(HandOutcome{
		RoomID:         r.id,
		Time:           r.clock.Now(),
		HandsCompleted: r.handsCompleted,
		Stacks:         stacks,
		Award:          *res.Award,
	})
	r.publisher.Publish(r.members(), protocol.HandEnd{
		HandID:   res.Award.HandID,
		Winner:   protocol.Winner{ID: res.Award.WinnerID, Name: res.Award.WinnerName},
		Amount:   res.Award.Amount,
		Showdown: res.Award.Showdown,
		Players:  views,
	})

	r.scheduleNextHand()
}

func (r *Room) scheduleNextHand() {
	r.cancelTimer()
	if r.table.Funded() < 2 {
		r.table.Pause()
		return
	}

	gen := r.generation
	r.timer = r.clock.AfterFunc(r.delay, func() { r.onTimer(gen) }, "room", r.id)
	r.logger.Debug().Dur("delay", r.delay).Msg("Next hand scheduled")
}

// cancelTimer stops any pending deal and invalidates its callback.
func (r *Room) cancelTimer() {
	r.generation++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Room) onTimer(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || gen != r.generation {
		return
	}
	r.timer = nil
	if r.table.State() != game.Finished {
		return
	}

	r.startHand()
	r.broadcastUpdate()
}

func (r *Room) broadcastUpdate() {
	r.publisher.Publish(r.members(), protocol.GameUpdate{Snapshot: r.table.Snapshot()})
}

// members returns the connection ids seated in the room, minus except.
func (r *Room) members(except ...string) []string {
	players := r.table.Players()
	ids := make([]string, 0, len(players))
	for _, p := range players {
		if !slices.Contains(except, p.ID) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (r *Room) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelTimer()
	r.closed = true
}
