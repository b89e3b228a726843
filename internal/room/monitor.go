package room

import (
	"time"

	"github.com/lox/pokerrooms/internal/deck"
	"github.com/lox/pokerrooms/internal/game"
)

// HandMonitor receives notifications about hand progress in every room.
// Calls for one room arrive in order, under that room's lock, so
// implementations must not block or call back into the registry.
type HandMonitor interface {
	// OnHandStart is called after cards are dealt, before blinds are posted.
	OnHandStart(start HandStart)

	// OnPlayerAction is called for every blind post and accepted action.
	OnPlayerAction(action PlayerAction)

	// OnStreetChange is called when community cards are dealt.
	OnStreetChange(street StreetChange)

	// OnHandComplete is called after the pot is awarded.
	OnHandComplete(outcome HandOutcome)
}

// HandStart describes a freshly dealt hand.
type HandStart struct {
	RoomID string
	Time   time.Time
	game.Deal
}

// PlayerAction describes one betting step.
type PlayerAction struct {
	RoomID string
	HandID string
	Phase  game.Phase
	game.ActionEvent
}

// StreetChange describes community cards dealt on a phase advance.
type StreetChange struct {
	RoomID string
	HandID string
	Phase  game.Phase
	Cards  []deck.Card
	Board  []deck.Card
}

// HandOutcome describes a completed hand.
type HandOutcome struct {
	RoomID         string
	Time           time.Time
	HandsCompleted uint64
	Stacks         map[string]int // Final stacks by player id
	game.Award
}

// NullHandMonitor is a no-op implementation.
type NullHandMonitor struct{}

func (NullHandMonitor) OnHandStart(HandStart)       {}
func (NullHandMonitor) OnPlayerAction(PlayerAction) {}
func (NullHandMonitor) OnStreetChange(StreetChange) {}
func (NullHandMonitor) OnHandComplete(HandOutcome)  {}

// MultiHandMonitor fans events out to several monitors.
type MultiHandMonitor struct {
	monitors []HandMonitor
}

// NewMultiHandMonitor builds a composite monitor, dropping nil entries and
// returning a NullHandMonitor when nothing is left.
func NewMultiHandMonitor(monitors ...HandMonitor) HandMonitor {
	filtered := make([]HandMonitor, 0, len(monitors))
	for _, m := range monitors {
		if m != nil {
			filtered = append(filtered, m)
		}
	}

	switch len(filtered) {
	case 0:
		return NullHandMonitor{}
	case 1:
		return filtered[0]
	default:
		return MultiHandMonitor{monitors: filtered}
	}
}

func (m MultiHandMonitor) OnHandStart(start HandStart) {
	for _, monitor := range m.monitors {
		monitor.OnHandStart(start)
	}
}

func (m MultiHandMonitor) OnPlayerAction(action PlayerAction) {
	for _, monitor := range m.monitors {
		monitor.OnPlayerAction(action)
	}
}

func (m MultiHandMonitor) OnStreetChange(street StreetChange) {
	for _, monitor := range m.monitors {
		monitor.OnStreetChange(street)
	}
}

func (m MultiHandMonitor) OnHandComplete(outcome HandOutcome) {
	for _, monitor := range m.monitors {
		monitor.OnHandComplete(outcome)
	}
}
