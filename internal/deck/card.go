package deck

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

var suitNames = [...]string{"spades", "hearts", "diamonds", "clubs"}

// String returns the symbol for a suit (e.g. "♠")
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Name returns the wire name of the suit ("spades", "hearts", ...)
func (s Suit) Name() string {
	if s < Spades || s > Clubs {
		return "unknown"
	}
	return suitNames[s]
}

// Letter returns the single-letter suit notation used in hand histories.
func (s Suit) Letter() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Rank represents a card rank, Ace high
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the short notation of a rank ("T" for ten)
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return string(rune('0' + int(r)))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Label returns the rank as shown to clients ("10" for ten).
func (r Rank) Label() string {
	if r == Ten {
		return "10"
	}
	return r.String()
}

// Card represents a playing card. Cards are values; two cards are equal
// when suit and rank match.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Notation returns the two-character notation of a card (e.g., "Th").
func (c Card) Notation() string {
	return c.Rank.String() + c.Suit.Letter()
}

// Valid reports whether the card is one of the 52 standard cards.
func (c Card) Valid() bool {
	return c.Suit >= Spades && c.Suit <= Clubs && c.Rank >= Two && c.Rank <= Ace
}

type wireCard struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

// MarshalJSON encodes the card as {"suit":"hearts","rank":"10"}.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCard{Suit: c.Suit.Name(), Rank: c.Rank.Label()})
}

// UnmarshalJSON decodes the {"suit","rank"} wire form.
func (c *Card) UnmarshalJSON(data []byte) error {
	var w wireCard
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	suit, err := parseSuit(w.Suit)
	if err != nil {
		return err
	}
	rank, err := parseRank(w.Rank)
	if err != nil {
		return err
	}
	*c = Card{Suit: suit, Rank: rank}
	return nil
}

// ParseCard parses two-character notation such as "As" or "Th".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rank, err := parseRank(s[:len(s)-1])
	if err != nil {
		return Card{}, err
	}
	suit, err := parseSuit(s[len(s)-1:])
	if err != nil {
		return Card{}, err
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseCards parses a run of concatenated two-character cards ("AsKd").
func ParseCards(s string) ([]Card, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string %q", s)
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func parseSuit(s string) (Suit, error) {
	switch strings.ToLower(s) {
	case "s", "spades", "♠":
		return Spades, nil
	case "h", "hearts", "♥":
		return Hearts, nil
	case "d", "diamonds", "♦":
		return Diamonds, nil
	case "c", "clubs", "♣":
		return Clubs, nil
	}
	return 0, fmt.Errorf("invalid suit %q", s)
}

func parseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "A":
		return Ace, nil
	case "K":
		return King, nil
	case "Q":
		return Queen, nil
	case "J":
		return Jack, nil
	case "T", "10":
		return Ten, nil
	}
	if len(s) == 1 && s[0] >= '2' && s[0] <= '9' {
		return Rank(s[0] - '0'), nil
	}
	return 0, fmt.Errorf("invalid rank %q", s)
}
