package game

import (
	"fmt"
	rand "math/rand/v2"
	"slices"
	"strconv"

	"github.com/lox/pokerrooms/internal/deck"
)

// MaxSeats is the hard seat cap of a table.
const MaxSeats = 9

// Settings are the fixed stakes and size of a table
type Settings struct {
	SmallBlind int
	BigBlind   int
	MaxSeats   int
}

// Seat describes a player dealt into the current hand.
type Seat struct {
	Index int
	ID    string
	Name  string
	Chips int // Stack before blinds
	Hand  []deck.Card
}

// Deal describes a freshly started hand.
type Deal struct {
	HandID     string
	HandNumber int
	Dealer     int
	Seats      []Seat
	SmallBlind int
	BigBlind   int
}

// Table is the authoritative state of one room's game
type Table struct {
	roomID   string
	settings Settings
	rng      *rand.Rand
	nextID   func() string
	newDeck  func() *deck.Deck

	players    []*Player // Seat order is turn order
	deck       *deck.Deck
	community  []deck.Card
	pot        int
	currentBet int
	dealer     int
	turn       int
	phase      Phase
	state      State
	handNumber int
	handID     string
	dealt      []Seat
}

// Option configures a Table during creation.
type Option func(*Table)

// WithHandIDs sets the generator used for hand ids.
func WithHandIDs(next func() string) Option {
	return func(t *Table) { t.nextID = next }
}

// WithDeckSource replaces the shuffled deck used for every deal.
func WithDeckSource(src func() *deck.Deck) Option {
	return func(t *Table) { t.newDeck = src }
}

// NewTable creates an empty table in the waiting state. The rng is
// required so shuffles stay reproducible under a seed.
func NewTable(roomID string, settings Settings, rng *rand.Rand, opts ...Option) *Table {
	if rng == nil {
		panic("rng is required for table creation")
	}
	if settings.MaxSeats <= 0 || settings.MaxSeats > MaxSeats {
		settings.MaxSeats = MaxSeats
	}

	t := &Table{
		roomID:   roomID,
		settings: settings,
		rng:      rng,
		dealer:   -1,
		turn:     -1,
	}
	t.nextID = func() string {
		return roomID + "-" + strconv.Itoa(t.handNumber)
	}
	t.newDeck = func() *deck.Deck {
		d := deck.NewDeck()
		d.Shuffle(t.rng)
		return d
	}

	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Seat adds a player at the end of the seat order. A player seated while
// a hand is running sits it out folded and is dealt in at the next hand.
func (t *Table) Seat(id, name string, chips int) (*Player, error) {
	if len(t.players) >= t.settings.MaxSeats {
		return nil, ErrTableFull
	}
	if t.seatOf(id) >= 0 {
		return nil, ErrPlayerExists
	}

	p := NewPlayer(id, name, chips)
	if t.state == Playing {
		p.Folded = true
	}
	t.players = append(t.players, p)
	return p, nil
}

// Remove unseats a player. Chips the player already committed stay in the
// pot; if the departure leaves one contender the pot is awarded at once.
func (t *Table) Remove(id string) (*Player, Result, error) {
	idx := t.seatOf(id)
	if idx < 0 {
		return nil, Result{}, ErrPlayerNotSeated
	}

	p := t.players[idx]
	t.players = slices.Delete(t.players, idx, idx+1)
	if idx <= t.dealer {
		t.dealer--
	}

	res := Result{HandID: t.handID}
	if t.state != Playing {
		return p, res, nil
	}

	wasTurn := idx == t.turn
	if idx < t.turn {
		t.turn--
	}
	if wasTurn {
		t.turn = t.nextEligible(idx - 1)
	}
	if !p.Folded {
		res.Actions = append(res.Actions, ActionEvent{
			PlayerID: p.ID,
			Name:     p.Name,
			Seat:     idx,
			Kind:     EventFold,
			Bet:      p.CurrentBet,
		})
	}

	t.settle(&res)
	return p, res, nil
}

// StartNewHand rotates the dealer, shuffles a fresh deck, deals two cards
// to every funded player and posts the blinds.
func (t *Table) StartNewHand() (Result, error) {
	if t.state == Playing {
		return Result{}, ErrHandInProgress
	}
	if t.Funded() < 2 {
		return Result{}, ErrNotEnoughPlayers
	}

	n := len(t.players)
	t.dealer = (t.dealer + 1) % n
	t.pot = 0
	t.currentBet = 0
	t.community = nil
	t.deck = t.newDeck()

	t.dealt = t.dealt[:0]
	for _, p := range t.players {
		p.ResetForHand()
		if p.Chips == 0 {
			p.Folded = true
		}
	}
	for range 2 {
		for i := 1; i <= n; i++ {
			if p := t.players[(t.dealer+i)%n]; p.Chips > 0 {
				p.Hand = append(p.Hand, t.mustDraw())
			}
		}
	}

	t.handNumber++
	t.handID = t.nextID()
	t.phase = Preflop
	t.state = Playing

	for i, p := range t.players {
		if len(p.Hand) > 0 {
			t.dealt = append(t.dealt, Seat{Index: i, ID: p.ID, Name: p.Name, Chips: p.Chips, Hand: slices.Clone(p.Hand)})
		}
	}

	res := Result{
		HandID: t.handID,
		Deal: &Deal{
			HandID:     t.handID,
			HandNumber: t.handNumber,
			Dealer:     t.dealer,
			Seats:      slices.Clone(t.dealt),
			SmallBlind: t.settings.SmallBlind,
			BigBlind:   t.settings.BigBlind,
		},
	}

	sb := t.nextDealtIn(t.dealer)
	bb := t.nextDealtIn(sb)
	res.Actions = append(res.Actions,
		t.postBlind(sb, t.settings.SmallBlind, EventSmallBlind),
		t.postBlind(bb, t.settings.BigBlind, EventBigBlind),
	)
	t.currentBet = t.settings.BigBlind
	t.turn = t.nextEligible(bb)

	t.settle(&res)
	return res, nil
}

// Pause returns a table between hands to the waiting state.
func (t *Table) Pause() {
	if t.state == Playing {
		return
	}
	t.state = Waiting
	t.phase = PhaseWaiting
	t.turn = -1
	t.currentBet = 0
	t.community = nil
}

func (t *Table) postBlind(seat, amount int, kind EventKind) ActionEvent {
	p := t.players[seat]
	paid := p.applyBet(amount)
	t.pot += paid
	return ActionEvent{
		PlayerID: p.ID,
		Name:     p.Name,
		Seat:     seat,
		Kind:     kind,
		Amount:   paid,
		Bet:      p.CurrentBet,
		AllIn:    p.AllIn,
	}
}

// settle resolves everything that follows from the last state change:
// a walkover award, street advances, and the showdown.
func (t *Table) settle(res *Result) {
	for t.state == Playing {
		if t.contenders() <= 1 {
			t.award(res, false)
			return
		}
		if !t.roundComplete() {
			return
		}
		t.advancePhase(res)
		if t.phase == Showdown {
			t.award(res, true)
			return
		}
	}
}

// roundComplete reports whether every player still able to act has matched
// the current bet and acted since the round began.
func (t *Table) roundComplete() bool {
	eligible := 0
	allActed := true
	for _, p := range t.players {
		if !p.CanAct() {
			continue
		}
		if p.CurrentBet != t.currentBet {
			return false
		}
		eligible++
		allActed = allActed && p.acted
	}
	return eligible <= 1 || allActed
}

func (t *Table) advancePhase(res *Result) {
	for _, p := range t.players {
		p.CurrentBet = 0
		p.acted = false
	}
	t.currentBet = 0
	t.phase++

	var dealt []deck.Card
	switch t.phase {
	case Flop:
		dealt = []deck.Card{t.mustDraw(), t.mustDraw(), t.mustDraw()}
	case Turn, River:
		dealt = []deck.Card{t.mustDraw()}
	}
	t.community = append(t.community, dealt...)
	res.Streets = append(res.Streets, Street{
		Phase: t.phase,
		Cards: dealt,
		Board: slices.Clone(t.community),
	})

	t.turn = t.nextEligible(t.dealer)
}

// award pays the whole pot to the first non-folded player in seat order.
func (t *Table) award(res *Result, showdown bool) {
	t.state = Finished
	t.turn = -1

	for i, p := range t.players {
		if p.Folded {
			continue
		}
		amount := t.pot
		p.Chips += amount
		t.pot = 0
		res.Award = &Award{
			HandID:     t.handID,
			WinnerID:   p.ID,
			WinnerName: p.Name,
			Seat:       i,
			Amount:     amount,
			Showdown:   showdown,
			Board:      slices.Clone(t.community),
		}
		return
	}
}

func (t *Table) mustDraw() deck.Card {
	c, err := t.deck.Draw()
	if err != nil {
		panic(fmt.Sprintf("table %s: %v", t.roomID, err))
	}
	return c
}

// nextEligible returns the first seat after from that can still act, or -1.
func (t *Table) nextEligible(from int) int {
	n := len(t.players)
	for i := 1; i <= n; i++ {
		idx := ((from+i)%n + n) % n
		if t.players[idx].CanAct() {
			return idx
		}
	}
	return -1
}

func (t *Table) nextDealtIn(from int) int {
	n := len(t.players)
	for i := 1; i <= n; i++ {
		idx := ((from+i)%n + n) % n
		if len(t.players[idx].Hand) > 0 {
			return idx
		}
	}
	return -1
}

func (t *Table) contenders() int {
	count := 0
	for _, p := range t.players {
		if !p.Folded {
			count++
		}
	}
	return count
}

func (t *Table) seatOf(id string) int {
	return slices.IndexFunc(t.players, func(p *Player) bool { return p.ID == id })
}

// RoomID returns the id of the room owning this table
func (t *Table) RoomID() string { return t.roomID }

// Settings returns the table stakes
func (t *Table) Settings() Settings { return t.settings }

// State returns the session state
func (t *Table) State() State { return t.state }

// Phase returns the betting round of the current or last hand
func (t *Table) Phase() Phase { return t.phase }

// Pot returns the chips committed and not yet awarded
func (t *Table) Pot() int { return t.pot }

// CurrentBet returns the amount to match in the current round
func (t *Table) CurrentBet() int { return t.currentBet }

// Turn returns the seat to act, or -1
func (t *Table) Turn() int { return t.turn }

// Dealer returns the dealer seat, or -1 before the first hand
func (t *Table) Dealer() int { return t.dealer }

// HandID returns the id of the current or last hand
func (t *Table) HandID() string { return t.handID }

// HandNumber returns how many hands have been dealt
func (t *Table) HandNumber() int { return t.handNumber }

// Seats returns the number of seated players
func (t *Table) Seats() int { return len(t.players) }

// Funded returns the number of seated players with chips
func (t *Table) Funded() int {
	count := 0
	for _, p := range t.players {
		if p.Chips > 0 {
			count++
		}
	}
	return count
}

// CommunityCards returns a copy of the board
func (t *Table) CommunityCards() []deck.Card {
	return slices.Clone(t.community)
}

// Player returns a copy of the seated player with id.
func (t *Table) Player(id string) (Player, bool) {
	idx := t.seatOf(id)
	if idx < 0 {
		return Player{}, false
	}
	p := *t.players[idx]
	p.Hand = slices.Clone(p.Hand)
	return p, true
}

// Players returns copies of every seated player in seat order.
func (t *Table) Players() []Player {
	out := make([]Player, len(t.players))
	for i, p := range t.players {
		out[i] = *p
		out[i].Hand = slices.Clone(p.Hand)
	}
	return out
}

// Dealt returns the seats dealt into the current or last hand.
func (t *Table) Dealt() []Seat {
	return slices.Clone(t.dealt)
}

// TotalChips returns every stack plus the pot.
func (t *Table) TotalChips() int {
	total := t.pot
	for _, p := range t.players {
		total += p.Chips
	}
	return total
}
