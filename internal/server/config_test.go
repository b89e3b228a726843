package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "main", cfg.DefaultRoom)
	assert.Equal(t, 3*time.Second, cfg.NextHandDelay)
	assert.Equal(t, 10, cfg.Room.SmallBlind)
	assert.Equal(t, 20, cfg.Room.BigBlind)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no delay", func(c *Config) { c.NextHandDelay = 0 }},
		{"no default room", func(c *Config) { c.DefaultRoom = "" }},
		{"big blind not above small", func(c *Config) { c.Room.BigBlind = c.Room.SmallBlind }},
		{"too many seats", func(c *Config) { c.Room.MaxSeats = 10 }},
		{"buy-in outside range", func(c *Config) { c.Room.BuyIn = c.Room.MaxBuyIn + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseConfig(t *testing.T) {
	src := `
server {
  addr             = ":9000"
  next_hand_delay  = "500ms"
  hand_history_dir = "hands"
  small_blind      = 5
  big_blind        = 10
}

room "highstakes" {
  small_blind = 50
  big_blind   = 100
  max_seats   = 6
  buy_in      = 5000
}
`
	cfg, err := ParseConfig([]byte(src), "test.hcl", DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 500*time.Millisecond, cfg.NextHandDelay)
	assert.Equal(t, "hands", cfg.HandHistoryDir)
	assert.Equal(t, 5, cfg.Room.SmallBlind)
	assert.Equal(t, 10, cfg.Room.BigBlind)
	assert.Equal(t, 9, cfg.Room.MaxSeats)

	high, ok := cfg.Rooms["highstakes"]
	require.True(t, ok)
	assert.Equal(t, 50, high.SmallBlind)
	assert.Equal(t, 100, high.BigBlind)
	assert.Equal(t, 6, high.MaxSeats)
	assert.Equal(t, 5000, high.BuyIn)
	assert.Equal(t, 1000, high.MinBuyIn)
	assert.Equal(t, 5000, high.MaxBuyIn)

	settings := cfg.RoomSettings()
	assert.Equal(t, cfg.Rooms, settings.Rooms)
	assert.Equal(t, cfg.NextHandDelay, settings.NextHandDelay)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `server {`},
		{"bad duration", `server { next_hand_delay = "soon" }`},
		{"unknown attribute", `server { colour = "red" }`},
		{"duplicate room", "room \"a\" {}\nroom \"a\" {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.src), "test.hcl", DefaultConfig())
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(filepath.Join(dir, "missing.hcl"), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	path := filepath.Join(dir, "rooms.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`server { default_room = "lobby" }`), 0o644))

	cfg, err = LoadConfig(path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "lobby", cfg.DefaultRoom)
}
