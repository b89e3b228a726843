package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/pokerrooms/internal/room"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	roomStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	playingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// RoomsCmd lists the rooms of a running server
type RoomsCmd struct {
	Server  string        `kong:"default='http://localhost:8080',help='Base URL of the server'"`
	Timeout time.Duration `kong:"default='5s',help='Request timeout'"`
	JSON    bool          `kong:"help='Print the raw JSON list'"`
}

func (c *RoomsCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	rooms, raw, err := fetchRooms(ctx, c.Server)
	if err != nil {
		return err
	}
	if c.JSON {
		_, err := os.Stdout.Write(raw)
		return err
	}
	fmt.Print(renderRooms(rooms))
	return nil
}

func fetchRooms(ctx context.Context, base string) ([]room.Summary, []byte, error) {
	url := strings.TrimRight(base, "/") + "/rooms"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}

	var rooms []room.Summary
	if err := json.Unmarshal(raw, &rooms); err != nil {
		return nil, nil, fmt.Errorf("decode room list: %w", err)
	}
	return rooms, raw, nil
}

func renderRooms(rooms []room.Summary) string {
	if len(rooms) == 0 {
		return idleStyle.Render("No live rooms") + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-20s %7s %9s %-9s %-9s %7s %6s",
		"ROOM", "SEATS", "BLINDS", "STATE", "ROUND", "POT", "HANDS")))
	b.WriteString("\n")

	for _, r := range rooms {
		state := idleStyle
		if r.State == "playing" {
			state = playingStyle
		}
		b.WriteString(roomStyle.Render(fmt.Sprintf("%-20s", r.ID)))
		fmt.Fprintf(&b, " %7s %9s ",
			fmt.Sprintf("%d/%d", r.Players, r.MaxSeats),
			fmt.Sprintf("%d/%d", r.SmallBlind, r.BigBlind))
		b.WriteString(state.Render(fmt.Sprintf("%-9s", r.State)))
		fmt.Fprintf(&b, " %-9s %7d %6d\n", r.Round, r.Pot, r.HandsPlayed)
	}
	return b.String()
}
