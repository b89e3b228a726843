package deck

import (
	"errors"
	rand "math/rand/v2"
)

// Size is the number of cards in a standard deck.
const Size = 52

// ErrEmptyDeck is returned when drawing from a deck with no cards left.
var ErrEmptyDeck = errors.New("deck: no cards left")

// Deck represents an ordered pile of cards. The top of the deck is the
// end of the slice.
type Deck struct {
	cards []Card
}

// NewDeck creates a new standard 52-card deck in canonical order
func NewDeck() *Deck {
	d := &Deck{cards: make([]Card, 0, Size)}
	d.fill()
	return d
}

// FromCards builds a deck whose next draws return cards in the given
// order. Used for stacked decks in tests and replays.
func FromCards(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	for i, c := range cards {
		d.cards[len(cards)-1-i] = c
	}
	return d
}

func (d *Deck) fill() {
	d.cards = d.cards[:0]
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
}

// Shuffle applies a Fisher–Yates shuffle using rng
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Reset restores the full 52 cards and shuffles them
func (d *Deck) Reset(rng *rand.Rand) {
	d.fill()
	d.Shuffle(rng)
}

// Draw removes and returns the top card
func (d *Deck) Draw() (Card, error) {
	n := len(d.cards)
	if n == 0 {
		return Card{}, ErrEmptyDeck
	}
	c := d.cards[n-1]
	d.cards = d.cards[:n-1]
	return c, nil
}

// DrawN draws n cards, failing without removing anything if fewer remain.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrEmptyDeck
	}
	out := make([]Card, n)
	for i := range out {
		out[i], _ = d.Draw()
	}
	return out, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, bottom first.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
