package game

import "github.com/lox/pokerrooms/internal/deck"

// Player represents one seat at a table
type Player struct {
	ID         string
	Name       string
	Chips      int
	Hand       []deck.Card
	CurrentBet int // Bet in the current round
	TotalBet   int // Total committed this hand
	Folded     bool
	AllIn      bool

	acted bool
}

// NewPlayer creates a player holding chips
func NewPlayer(id, name string, chips int) *Player {
	return &Player{ID: id, Name: name, Chips: chips}
}

// ResetForHand clears per-hand state, leaving chips untouched
func (p *Player) ResetForHand() {
	p.Hand = nil
	p.CurrentBet = 0
	p.TotalBet = 0
	p.Folded = false
	p.AllIn = false
	p.acted = false
}

// CanAct returns true if the player can still act this hand
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// applyBet moves up to amount from the stack into the current bet and
// returns what was actually paid. The caller adds the same amount to the pot.
func (p *Player) applyBet(amount int) int {
	if amount <= 0 {
		return 0
	}
	paid := min(amount, p.Chips)
	p.Chips -= paid
	p.CurrentBet += paid
	p.TotalBet += paid
	if p.Chips == 0 {
		p.AllIn = true
	}
	return paid
}
