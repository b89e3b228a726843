package main

import (
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/pokerrooms/cmd/pokerrooms/shared"
	"github.com/lox/pokerrooms/internal/handhistory"
	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/lox/pokerrooms/internal/room"
	"github.com/lox/pokerrooms/internal/server"
)

// ServerCmd runs the WebSocket server. Flags left at zero keep the value
// from --config, which in turn falls back to the built-in defaults.
type ServerCmd struct {
	Addr             string        `kong:"help='Server address (default :8080)'"`
	Config           string        `kong:"type='path',help='HCL file with server and room settings'"`
	SmallBlind       int           `kong:"help='Small blind amount (default 10)'"`
	BigBlind         int           `kong:"help='Big blind amount (default 20)'"`
	BuyIn            int           `kong:"help='Stack given to each joining player (default 1000)'"`
	MaxSeats         int           `kong:"help='Seats per room (default 9)'"`
	DefaultRoom      string        `kong:"help='Room joined when a client names none (default main)'"`
	NextHandDelay    time.Duration `kong:"help='Pause between hands (default 3s)'"`
	Seed             *int64        `kong:"help='Deterministic RNG seed for the server (optional)'"`
	HandHistoryDir   string        `kong:"type='path',help='Write a PHH file per completed hand under this directory'"`
	IncludeHoleCards bool          `kong:"help='Record every player hole cards in hand histories'"`
	Debug            bool          `kong:"help='Enable debug logging'"`
	JSON             bool          `kong:"help='Log JSON lines instead of console output'"`
}

func (c *ServerCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, c.JSON)

	cfg, err := c.config()
	if err != nil {
		return err
	}

	seed := randutil.Seed(cfg.Seed)
	logger.Info().Int64("seed", seed).Bool("deterministic", cfg.Seed != 0).Msg("Seeded shuffles")

	clock := quartz.NewReal()
	registry := room.NewRegistry(logger, randutil.New(seed), clock, cfg.RoomSettings())

	if cfg.HandHistoryDir != "" {
		recorder, err := handhistory.NewRecorder(logger, clock, handhistory.Config{
			BaseDir:          cfg.HandHistoryDir,
			IncludeHoleCards: cfg.IncludeHoleCards,
		})
		if err != nil {
			return fmt.Errorf("hand history: %w", err)
		}
		defer recorder.Close()
		registry.SetHandMonitor(recorder)
	}

	s, err := server.NewServer(logger, registry)
	if err != nil {
		return err
	}

	logger.Info().
		Str("address", cfg.Addr).
		Str("default_room", cfg.DefaultRoom).
		Int("small_blind", cfg.Room.SmallBlind).
		Int("big_blind", cfg.Room.BigBlind).
		Int("buy_in", cfg.Room.BuyIn).
		Int("max_seats", cfg.Room.MaxSeats).
		Int("configured_rooms", len(cfg.Rooms)).
		Dur("next_hand_delay", cfg.NextHandDelay).
		Str("hand_history_dir", cfg.HandHistoryDir).
		Msg("Starting pokerrooms server")

	ctx := shared.SetupSignalHandler(logger)
	return s.Run(ctx, cfg.Addr)
}

// config layers defaults, the config file and explicit flags.
func (c *ServerCmd) config() (server.Config, error) {
	cfg := server.DefaultConfig()

	if c.Config != "" {
		var err error
		cfg, err = server.LoadConfig(c.Config, cfg)
		if err != nil {
			return server.Config{}, err
		}
	}

	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if c.DefaultRoom != "" {
		cfg.DefaultRoom = c.DefaultRoom
	}
	if c.NextHandDelay != 0 {
		cfg.NextHandDelay = c.NextHandDelay
	}
	if c.SmallBlind != 0 {
		cfg.Room.SmallBlind = c.SmallBlind
	}
	if c.BigBlind != 0 {
		cfg.Room.BigBlind = c.BigBlind
	}
	if c.MaxSeats != 0 {
		cfg.Room.MaxSeats = c.MaxSeats
	}
	if c.BuyIn != 0 {
		cfg.Room.BuyIn = c.BuyIn
		cfg.Room.MinBuyIn = min(cfg.Room.MinBuyIn, c.BuyIn)
		cfg.Room.MaxBuyIn = max(cfg.Room.MaxBuyIn, c.BuyIn)
	}
	if c.Seed != nil {
		cfg.Seed = *c.Seed
	}
	if c.HandHistoryDir != "" {
		cfg.HandHistoryDir = c.HandHistoryDir
	}
	if c.IncludeHoleCards {
		cfg.IncludeHoleCards = true
	}

	if err := cfg.Validate(); err != nil {
		return server.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
