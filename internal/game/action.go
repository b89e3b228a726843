package game

import (
	"fmt"
	"strings"
)

// Phase is the betting round within a hand
type Phase int

const (
	PhaseWaiting Phase = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	if p < PhaseWaiting || p > Showdown {
		return "unknown"
	}
	return [...]string{"waiting", "preflop", "flop", "turn", "river", "showdown"}[p]
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is the session state of a table
type State int

const (
	Waiting State = iota
	Playing
	Finished
)

func (s State) String() string {
	if s < Waiting || s > Finished {
		return "unknown"
	}
	return [...]string{"waiting", "playing", "finished"}[s]
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Call
	Raise
	AllIn
)

func (a Action) String() string {
	if a < Fold || a > AllIn {
		return "unknown"
	}
	return [...]string{"fold", "call", "raise", "allin"}[a]
}

// ParseAction maps a wire action name to an Action. "check" is a call of
// nothing.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return Fold, nil
	case "call", "check":
		return Call, nil
	case "raise", "bet":
		return Raise, nil
	case "allin", "all-in", "all_in":
		return AllIn, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Decision is an action together with its amount; Amount is only read for
// Raise.
type Decision struct {
	Action Action
	Amount int
}

func (d Decision) String() string {
	if d.Action == Raise {
		return fmt.Sprintf("raise %d", d.Amount)
	}
	return d.Action.String()
}
