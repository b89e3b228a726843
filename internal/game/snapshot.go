package game

import "github.com/lox/pokerrooms/internal/deck"

// PlayerView is the public view of a seat. Hole cards are never included.
type PlayerView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Chips           int    `json:"chips"`
	CurrentBet      int    `json:"currentBet"`
	Folded          bool   `json:"folded"`
	AllIn           bool   `json:"allIn"`
	IsDealer        bool   `json:"isDealer"`
	IsCurrentPlayer bool   `json:"isCurrentPlayer"`
}

// Snapshot is the full public state of a table broadcast to its room.
type Snapshot struct {
	RoomID         string       `json:"roomId"`
	HandID         string       `json:"handId,omitempty"`
	HandNumber     int          `json:"handNumber"`
	Players        []PlayerView `json:"players"`
	CommunityCards []deck.Card  `json:"communityCards"`
	Pot            int          `json:"pot"`
	CurrentBet     int          `json:"currentBet"`
	Round          Phase        `json:"round"`
	GameState      State        `json:"gameState"`
}

// Snapshot captures the public state of the table
func (t *Table) Snapshot() Snapshot {
	s := Snapshot{
		RoomID:         t.roomID,
		HandID:         t.handID,
		HandNumber:     t.handNumber,
		Players:        make([]PlayerView, len(t.players)),
		CommunityCards: t.CommunityCards(),
		Pot:            t.pot,
		CurrentBet:     t.currentBet,
		Round:          t.phase,
		GameState:      t.state,
	}
	if s.CommunityCards == nil {
		s.CommunityCards = []deck.Card{}
	}
	for i, p := range t.players {
		s.Players[i] = p.View()
		s.Players[i].IsDealer = i == t.dealer
		s.Players[i].IsCurrentPlayer = i == t.turn
	}
	return s
}

// View returns the public view of the player
func (p *Player) View() PlayerView {
	return PlayerView{
		ID:         p.ID,
		Name:       p.Name,
		Chips:      p.Chips,
		CurrentBet: p.CurrentBet,
		Folded:     p.Folded,
		AllIn:      p.AllIn,
	}
}
