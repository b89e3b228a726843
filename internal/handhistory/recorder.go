// Package handhistory records completed hands as PHH files, one file per
// hand under <dir>/<room>/<hand id>.phh.
package handhistory

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/coder/quartz"
	"github.com/lox/pokerrooms/internal/fileutil"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/phh"
	"github.com/lox/pokerrooms/internal/room"
	"github.com/rs/zerolog"
)

const maxConsecutiveFailures = 3

// Config configures a Recorder
type Config struct {
	BaseDir          string
	IncludeHoleCards bool
	QueueSize        int // Completed hands buffered for the writer
}

// Recorder is a room.HandMonitor that builds a PHH history for each hand
// and writes it from a background goroutine, so no file I/O happens under
// a room lock.
type Recorder struct {
	cfg    Config
	logger zerolog.Logger
	clock  quartz.Clock

	mu     sync.Mutex
	hands  map[string]*handState // room id -> hand in progress
	closed bool

	queue    chan job
	wg       sync.WaitGroup
	written  atomic.Uint64
	dropped  atomic.Uint64
	disabled atomic.Bool
}

type job struct {
	path    string
	history *phh.HandHistory
}

type handState struct {
	history     *phh.HandHistory
	ids         []string       // PHH order
	index       map[string]int // player id -> PHH index
	holeCards   map[string]string
	contributed []int
	folded      []bool
}

// NewRecorder starts a recorder writing below cfg.BaseDir.
func NewRecorder(logger zerolog.Logger, clock quartz.Clock, cfg Config) (*Recorder, error) {
	if cfg.BaseDir == "" {
		return nil, errors.New("handhistory: BaseDir is required")
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}

	r := &Recorder{
		cfg:    cfg,
		logger: logger.With().Str("component", "handhistory").Logger(),
		clock:  clock,
		hands:  make(map[string]*handState),
		queue:  make(chan job, cfg.QueueSize),
	}
	r.wg.Add(1)
	go r.run()
	return r, nil
}

// OnHandStart begins a history for the hand.
func (r *Recorder) OnHandStart(start room.HandStart) {
	if r.disabled.Load() {
		return
	}

	seats := positionOrder(start.Seats, start.Dealer)
	n := len(seats)
	hist := &phh.HandHistory{
		Variant:           phh.VariantNoLimitHoldem,
		Table:             start.RoomID,
		SeatCount:         n,
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            start.BigBlind,
		StartingStacks:    make([]int, n),
		FinishingStacks:   make([]int, n),
		Winnings:          make([]int, n),
		Actions:           make([]string, 0, n+16),
		Players:           make([]string, n),
		HandID:            start.HandID,
	}
	hist.SetTimestamp(start.Time)

	state := &handState{
		history:     hist,
		ids:         make([]string, n),
		index:       make(map[string]int, n),
		holeCards:   make(map[string]string, n),
		contributed: make([]int, n),
		folded:      make([]bool, n),
	}
	for i, seat := range seats {
		hist.Seats[i] = seat.Index + 1
		hist.StartingStacks[i] = seat.Chips
		hist.Players[i] = seat.Name
		state.ids[i] = seat.ID
		state.index[seat.ID] = i

		cards := "????"
		if r.cfg.IncludeHoleCards {
			cards = phh.Cards(seat.Hand)
		}
		state.holeCards[seat.ID] = cards
		hist.Actions = append(hist.Actions, fmt.Sprintf("d dh p%d %s", i+1, cards))
	}

	r.mu.Lock()
	r.hands[start.RoomID] = state
	r.mu.Unlock()
}

// OnPlayerAction appends a betting action.
func (r *Recorder) OnPlayerAction(action room.PlayerAction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.current(action.RoomID, action.HandID)
	if state == nil {
		return
	}
	idx, ok := state.index[action.PlayerID]
	if !ok {
		return
	}

	state.contributed[idx] += action.Amount
	switch action.Kind {
	case game.EventSmallBlind, game.EventBigBlind:
		state.history.BlindsOrStraddles[idx] = action.Amount
	case game.EventFold:
		state.folded[idx] = true
	}
	if formatted, ok := phh.FormatAction(idx, action.Kind, action.Bet); ok {
		state.history.Actions = append(state.history.Actions, formatted)
	}
}

// OnStreetChange appends a board deal.
func (r *Recorder) OnStreetChange(street room.StreetChange) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.current(street.RoomID, street.HandID)
	if state == nil || len(street.Cards) == 0 {
		return
	}
	state.history.Actions = append(state.history.Actions, phh.DealBoard(street.Cards))
}

// OnHandComplete settles stacks and queues the history for writing. When
// the queue is full the hand is dropped rather than blocking the room.
func (r *Recorder) OnHandComplete(outcome room.HandOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.current(outcome.RoomID, outcome.HandID)
	delete(r.hands, outcome.RoomID)
	if state == nil || r.closed {
		return
	}

	hist := state.history
	for idx, id := range state.ids {
		hist.FinishingStacks[idx] = hist.StartingStacks[idx] - state.contributed[idx]
		if id == outcome.WinnerID {
			hist.Winnings[idx] = outcome.Amount
			hist.FinishingStacks[idx] += outcome.Amount
		}
	}
	if outcome.Showdown {
		for idx, id := range state.ids {
			if !state.folded[idx] {
				hist.Actions = append(hist.Actions, fmt.Sprintf("p%d sm %s", idx+1, state.holeCards[id]))
			}
		}
	}

	path := filepath.Join(r.cfg.BaseDir, outcome.RoomID, outcome.HandID+".phh")
	select {
	case r.queue <- job{path: path, history: hist}:
	default:
		r.dropped.Add(1)
		r.logger.Warn().Str("hand_id", outcome.HandID).Msg("Hand history queue full, dropping hand")
	}
}

// Close stops accepting hands and waits for queued writes.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	close(r.queue)
	r.wg.Wait()
	r.logger.Info().
		Uint64("written", r.written.Load()).
		Uint64("dropped", r.dropped.Load()).
		Msg("Hand history recorder stopped")
}

// Written returns the number of hands written to disk
func (r *Recorder) Written() uint64 { return r.written.Load() }

// Disabled reports whether recording stopped after repeated failures
func (r *Recorder) Disabled() bool { return r.disabled.Load() }

func (r *Recorder) run() {
	defer r.wg.Done()

	failures := 0
	for j := range r.queue {
		if r.disabled.Load() {
			r.dropped.Add(1)
			continue
		}

		err := r.write(j)
		if err == nil {
			failures = 0
			r.written.Add(1)
			continue
		}

		failures++
		r.logger.Error().Err(err).Str("path", j.path).Msg("Hand history write failed")
		if failures >= maxConsecutiveFailures {
			r.disabled.Store(true)
			r.logger.Error().Int("failures", failures).Msg("Hand history recording disabled after repeated failures")
		}
	}
}

func (r *Recorder) write(j job) error {
	data, err := phh.EncodeToBytes(j.history)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(j.path, data, 0o644)
}

func (r *Recorder) current(roomID, handID string) *handState {
	state := r.hands[roomID]
	if state == nil || state.history.HandID != handID {
		return nil
	}
	return state
}

// positionOrder returns seats starting left of the dealer, so the small
// blind is p1 and the dealer is last.
func positionOrder(seats []game.Seat, dealer int) []game.Seat {
	order := make([]game.Seat, 0, len(seats))
	for _, s := range seats {
		if s.Index > dealer {
			order = append(order, s)
		}
	}
	for _, s := range seats {
		if s.Index <= dealer {
			order = append(order, s)
		}
	}
	return order
}
