package phh

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lox/pokerrooms/internal/deck"
	"github.com/lox/pokerrooms/internal/game"
)

// Encode writes the hand history to w in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return errors.New("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes hand and returns the document.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a PHH document.
func Decode(r io.Reader) (*HandHistory, error) {
	var hand HandHistory
	if _, err := toml.NewDecoder(r).Decode(&hand); err != nil {
		return nil, fmt.Errorf("phh: %w", err)
	}
	return &hand, nil
}

// Cards renders cards in concatenated notation ("AhKd").
func Cards(cards []deck.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.Notation())
	}
	return b.String()
}

// DealHole returns the hole card dealing action for player index i.
func DealHole(i int, cards []deck.Card) string {
	return fmt.Sprintf("d dh p%d %s", i+1, Cards(cards))
}

// DealBoard returns the board dealing action for newly dealt cards.
func DealBoard(cards []deck.Card) string {
	return "d db " + Cards(cards)
}

// FormatAction converts a table event for player index i to a PHH action.
// It returns false for events PHH records elsewhere, such as blind posts.
func FormatAction(i int, kind game.EventKind, bet int) (string, bool) {
	player := fmt.Sprintf("p%d", i+1)
	switch kind {
	case game.EventFold:
		return player + " f", true
	case game.EventCheck, game.EventCall:
		return player + " cc", true
	case game.EventRaise, game.EventAllIn:
		if bet <= 0 {
			return "", false
		}
		return fmt.Sprintf("%s cbr %d", player, bet), true
	case game.EventSmallBlind, game.EventBigBlind:
		return "", false
	default:
		return fmt.Sprintf("# %s %s %d", player, kind, bet), true
	}
}
