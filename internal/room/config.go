package room

import (
	"fmt"
	"time"

	"github.com/lox/pokerrooms/internal/game"
)

// Config holds the stakes and limits of one room
type Config struct {
	SmallBlind int
	BigBlind   int
	MaxSeats   int
	BuyIn      int // Default stack when a join names none
	MinBuyIn   int
	MaxBuyIn   int
}

// DefaultConfig returns the stakes every room gets unless configured
func DefaultConfig() Config {
	return Config{
		SmallBlind: 10,
		BigBlind:   20,
		MaxSeats:   game.MaxSeats,
		BuyIn:      1000,
		MinBuyIn:   1000,
		MaxBuyIn:   1000,
	}
}

// Validate checks that the config describes a playable table.
func (c Config) Validate() error {
	switch {
	case c.SmallBlind <= 0:
		return fmt.Errorf("small blind must be positive, got %d", c.SmallBlind)
	case c.BigBlind <= c.SmallBlind:
		return fmt.Errorf("big blind %d must exceed small blind %d", c.BigBlind, c.SmallBlind)
	case c.MaxSeats < 2 || c.MaxSeats > game.MaxSeats:
		return fmt.Errorf("max seats must be between 2 and %d, got %d", game.MaxSeats, c.MaxSeats)
	case c.MinBuyIn <= 0 || c.MinBuyIn > c.BuyIn || c.BuyIn > c.MaxBuyIn:
		return fmt.Errorf("buy-in range must satisfy 0 < %d <= %d <= %d", c.MinBuyIn, c.BuyIn, c.MaxBuyIn)
	}
	return nil
}

func (c Config) settings() game.Settings {
	return game.Settings{SmallBlind: c.SmallBlind, BigBlind: c.BigBlind, MaxSeats: c.MaxSeats}
}

// stack resolves a requested buy-in; zero means the default.
func (c Config) stack(requested int) (int, error) {
	if requested == 0 {
		return c.BuyIn, nil
	}
	if requested < c.MinBuyIn || requested > c.MaxBuyIn {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBuyIn, requested, c.MinBuyIn, c.MaxBuyIn)
	}
	return requested, nil
}

// Settings configure a Registry
type Settings struct {
	Defaults      Config
	Rooms         map[string]Config // Per-room overrides
	DefaultRoom   string
	NextHandDelay time.Duration
}

// DefaultSettings returns registry settings with a three second pause
// between hands.
func DefaultSettings() Settings {
	return Settings{
		Defaults:      DefaultConfig(),
		DefaultRoom:   "main",
		NextHandDelay: 3 * time.Second,
	}
}

func (s Settings) config(roomID string) Config {
	if c, ok := s.Rooms[roomID]; ok {
		return c
	}
	return s.Defaults
}
