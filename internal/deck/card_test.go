package deck

import (
	"encoding/json"
	"testing"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "mixed suits",
			input: "AhKdQcJs9s",
			expected: []Card{
				{Suit: Hearts, Rank: Ace},
				{Suit: Diamonds, Rank: King},
				{Suit: Clubs, Rank: Queen},
				{Suit: Spades, Rank: Jack},
				{Suit: Spades, Rank: Nine},
			},
		},
		{
			name:  "case insensitive",
			input: "asKHtD",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
				{Suit: Diamonds, Rank: Ten},
			},
		},
		{name: "invalid rank", input: "XsKs", wantErr: true},
		{name: "invalid suit", input: "AxKs", wantErr: true},
		{name: "odd length", input: "AsK", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := ParseCards(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cards) != len(tt.expected) {
				t.Fatalf("got %d cards, want %d", len(cards), len(tt.expected))
			}
			for i := range cards {
				if cards[i] != tt.expected[i] {
					t.Errorf("card %d: got %v, want %v", i, cards[i], tt.expected[i])
				}
			}
		})
	}
}

func TestCardWireFormat(t *testing.T) {
	c := NewCard(Hearts, Ten)

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"suit":"hearts","rank":"10"}` {
		t.Fatalf("unexpected wire form %s", data)
	}

	var decoded Card
	if err := json.Unmarshal([]byte(`{"suit":"spades","rank":"A"}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != NewCard(Spades, Ace) {
		t.Errorf("got %v, want A♠", decoded)
	}

	if err := json.Unmarshal([]byte(`{"suit":"stars","rank":"A"}`), &decoded); err == nil {
		t.Error("expected error for unknown suit")
	}
}

func TestCardNotation(t *testing.T) {
	if got := NewCard(Clubs, Ten).Notation(); got != "Tc" {
		t.Errorf("Notation() = %q, want Tc", got)
	}
	if got := NewCard(Spades, Ace).String(); got != "A♠" {
		t.Errorf("String() = %q, want A♠", got)
	}
	if got := Seven.String(); got != "7" {
		t.Errorf("Seven.String() = %q", got)
	}
}
