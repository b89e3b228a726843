package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/pokerrooms/internal/room"
)

// Config contains server configuration
type Config struct {
	Addr             string
	DefaultRoom      string
	NextHandDelay    time.Duration
	Room             room.Config            // Stakes for rooms without an override
	Rooms            map[string]room.Config // Per-room overrides keyed by room id
	HandHistoryDir   string                 // Empty disables hand history
	IncludeHoleCards bool
	Seed             int64 // Zero picks a time-based seed
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	settings := room.DefaultSettings()
	return Config{
		Addr:          ":8080",
		DefaultRoom:   settings.DefaultRoom,
		NextHandDelay: settings.NextHandDelay,
		Room:          settings.Defaults,
	}
}

// Validate validates the server configuration
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("address must not be empty")
	}
	if c.DefaultRoom == "" {
		return errors.New("default room must not be empty")
	}
	if c.NextHandDelay <= 0 {
		return fmt.Errorf("next hand delay must be positive, got %s", c.NextHandDelay)
	}
	if err := c.Room.Validate(); err != nil {
		return fmt.Errorf("default room config: %w", err)
	}
	for id, rc := range c.Rooms {
		if err := rc.Validate(); err != nil {
			return fmt.Errorf("room %s: %w", id, err)
		}
	}
	return nil
}

// RoomSettings converts the config into registry settings.
func (c Config) RoomSettings() room.Settings {
	return room.Settings{
		Defaults:      c.Room,
		Rooms:         c.Rooms,
		DefaultRoom:   c.DefaultRoom,
		NextHandDelay: c.NextHandDelay,
	}
}

// fileConfig is the HCL layout of a configuration file:
//
//	server {
//	  addr            = ":8080"
//	  next_hand_delay = "3s"
//	  small_blind     = 10
//	  big_blind       = 20
//	}
//
//	room "highstakes" {
//	  small_blind = 50
//	  big_blind   = 100
//	  max_seats   = 6
//	}
type fileConfig struct {
	Server *serverBlock `hcl:"server,block"`
	Rooms  []roomBlock  `hcl:"room,block"`
}

type serverBlock struct {
	Addr             string `hcl:"addr,optional"`
	DefaultRoom      string `hcl:"default_room,optional"`
	NextHandDelay    string `hcl:"next_hand_delay,optional"`
	HandHistoryDir   string `hcl:"hand_history_dir,optional"`
	IncludeHoleCards bool   `hcl:"include_hole_cards,optional"`
	Seed             int64  `hcl:"seed,optional"`
	SmallBlind       int    `hcl:"small_blind,optional"`
	BigBlind         int    `hcl:"big_blind,optional"`
	MaxSeats         int    `hcl:"max_seats,optional"`
	BuyIn            int    `hcl:"buy_in,optional"`
	MinBuyIn         int    `hcl:"min_buy_in,optional"`
	MaxBuyIn         int    `hcl:"max_buy_in,optional"`
}

func (b serverBlock) stakes() stakes {
	return stakes{b.SmallBlind, b.BigBlind, b.MaxSeats, b.BuyIn, b.MinBuyIn, b.MaxBuyIn}
}

type roomBlock struct {
	ID         string `hcl:"id,label"`
	SmallBlind int    `hcl:"small_blind,optional"`
	BigBlind   int    `hcl:"big_blind,optional"`
	MaxSeats   int    `hcl:"max_seats,optional"`
	BuyIn      int    `hcl:"buy_in,optional"`
	MinBuyIn   int    `hcl:"min_buy_in,optional"`
	MaxBuyIn   int    `hcl:"max_buy_in,optional"`
}

func (b roomBlock) stakes() stakes {
	return stakes{b.SmallBlind, b.BigBlind, b.MaxSeats, b.BuyIn, b.MinBuyIn, b.MaxBuyIn}
}

// stakes are the per-room overrides shared by both block kinds; zero
// fields keep the inherited value.
type stakes struct {
	SmallBlind, BigBlind, MaxSeats int
	BuyIn, MinBuyIn, MaxBuyIn      int
}

// apply overlays the non-zero stakes onto base. A buy-in without an
// explicit range pins the range to it.
func (s stakes) apply(base room.Config) room.Config {
	if s.SmallBlind != 0 {
		base.SmallBlind = s.SmallBlind
	}
	if s.BigBlind != 0 {
		base.BigBlind = s.BigBlind
	}
	if s.MaxSeats != 0 {
		base.MaxSeats = s.MaxSeats
	}
	if s.BuyIn != 0 {
		base.BuyIn = s.BuyIn
		if s.MinBuyIn == 0 && base.MinBuyIn > s.BuyIn {
			base.MinBuyIn = s.BuyIn
		}
		if s.MaxBuyIn == 0 && base.MaxBuyIn < s.BuyIn {
			base.MaxBuyIn = s.BuyIn
		}
	}
	if s.MinBuyIn != 0 {
		base.MinBuyIn = s.MinBuyIn
	}
	if s.MaxBuyIn != 0 {
		base.MaxBuyIn = s.MaxBuyIn
	}
	return base
}

// LoadConfig reads an HCL configuration file and overlays it onto base.
// A missing file leaves base unchanged.
func LoadConfig(filename string, base Config) (Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(src, filename, base)
}

// ParseConfig decodes HCL source and overlays it onto base.
func ParseConfig(src []byte, filename string, base Config) (Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := base
	if s := fc.Server; s != nil {
		if s.Addr != "" {
			cfg.Addr = s.Addr
		}
		if s.DefaultRoom != "" {
			cfg.DefaultRoom = s.DefaultRoom
		}
		if s.NextHandDelay != "" {
			d, err := time.ParseDuration(s.NextHandDelay)
			if err != nil {
				return Config{}, fmt.Errorf("next_hand_delay: %w", err)
			}
			cfg.NextHandDelay = d
		}
		if s.HandHistoryDir != "" {
			cfg.HandHistoryDir = s.HandHistoryDir
		}
		if s.IncludeHoleCards {
			cfg.IncludeHoleCards = true
		}
		if s.Seed != 0 {
			cfg.Seed = s.Seed
		}
		cfg.Room = s.stakes().apply(cfg.Room)
	}

	if len(fc.Rooms) > 0 {
		rooms := make(map[string]room.Config, len(cfg.Rooms)+len(fc.Rooms))
		for id, rc := range cfg.Rooms {
			rooms[id] = rc
		}
		seen := make(map[string]bool, len(fc.Rooms))
		for _, rb := range fc.Rooms {
			if seen[rb.ID] {
				return Config{}, fmt.Errorf("room %q configured twice", rb.ID)
			}
			seen[rb.ID] = true
			rooms[rb.ID] = rb.stakes().apply(cfg.Room)
		}
		cfg.Rooms = rooms
	}

	return cfg, nil
}
