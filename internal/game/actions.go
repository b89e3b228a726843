package game

import (
	"fmt"

	"github.com/lox/pokerrooms/internal/deck"
)

// EventKind names a step recorded in a hand.
type EventKind string

const (
	EventSmallBlind EventKind = "post_small_blind"
	EventBigBlind   EventKind = "post_big_blind"
	EventFold       EventKind = "fold"
	EventCheck      EventKind = "check"
	EventCall       EventKind = "call"
	EventRaise      EventKind = "raise"
	EventAllIn      EventKind = "allin"
)

// ActionEvent records one betting step. Amount is what actually moved
// into the pot; Bet is the player's round bet afterwards.
type ActionEvent struct {
	PlayerID string
	Name     string
	Seat     int
	Kind     EventKind
	Amount   int
	Bet      int
	AllIn    bool
}

// Street records community cards dealt on a phase advance.
type Street struct {
	Phase Phase
	Cards []deck.Card // Newly dealt
	Board []deck.Card // Whole board afterwards
}

// Award records the end of a hand.
type Award struct {
	HandID     string
	WinnerID   string
	WinnerName string
	Seat       int
	Amount     int
	Showdown   bool
	Board      []deck.Card
}

// Result collects everything a single table call changed, in order.
type Result struct {
	HandID  string
	Deal    *Deal
	Actions []ActionEvent
	Streets []Street
	Award   *Award

	// Ignored is set when an action was consumed without moving chips.
	Ignored error
}

// HandEnded reports whether the call finished the hand.
func (r Result) HandEnded() bool { return r.Award != nil }

// Apply validates and applies a decision for the player with id. Errors
// leave the table untouched.
func (t *Table) Apply(id string, d Decision) (Result, error) {
	idx := t.seatOf(id)
	if idx < 0 {
		return Result{}, ErrPlayerNotSeated
	}
	if t.state != Playing {
		return Result{}, ErrHandNotRunning
	}
	p := t.players[idx]
	if !p.CanAct() {
		return Result{}, ErrCannotAct
	}
	if idx != t.turn {
		return Result{}, fmt.Errorf("%w: seat %d to act", ErrNotYourTurn, t.turn)
	}

	res := Result{HandID: t.handID}
	ev := ActionEvent{PlayerID: p.ID, Name: p.Name, Seat: idx}

	switch d.Action {
	case Fold:
		p.Folded = true
		ev.Kind = EventFold

	case Call:
		owed := max(0, t.currentBet-p.CurrentBet)
		ev.Kind = EventCall
		if owed == 0 {
			ev.Kind = EventCheck
		}
		ev.Amount = p.applyBet(owed)

	case Raise:
		amount := max(d.Amount, t.settings.BigBlind)
		ev.Kind = EventRaise
		if amount > p.Chips {
			res.Ignored = fmt.Errorf("%w: raise of %d with %d behind", ErrInsufficientChips, amount, p.Chips)
			break
		}
		ev.Amount = p.applyBet(amount)

	case AllIn:
		ev.Kind = EventAllIn
		ev.Amount = p.applyBet(p.Chips)

	default:
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownAction, d.Action)
	}

	t.pot += ev.Amount
	if p.CurrentBet > t.currentBet {
		t.currentBet = p.CurrentBet
	}
	p.acted = true
	ev.Bet = p.CurrentBet
	ev.AllIn = p.AllIn
	if res.Ignored == nil {
		res.Actions = append(res.Actions, ev)
	}

	t.turn = t.nextEligible(idx)
	t.settle(&res)
	return res, nil
}
