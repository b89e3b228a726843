package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lox/pokerrooms/internal/room"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAndRenderRooms(t *testing.T) {
	summaries := []room.Summary{
		{ID: "main", Players: 3, MaxSeats: 9, SmallBlind: 10, BigBlind: 20, State: "playing", Round: "flop", Pot: 120, HandsPlayed: 7},
		{ID: "quiet", Players: 1, MaxSeats: 6, SmallBlind: 5, BigBlind: 10, State: "waiting", Round: "waiting"},
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms", r.URL.Path)
		_ = json.NewEncoder(w).Encode(summaries)
	}))
	defer ts.Close()

	rooms, raw, err := fetchRooms(context.Background(), ts.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, summaries, rooms)
	assert.NotEmpty(t, raw)

	out := renderRooms(rooms)
	assert.Contains(t, out, "main")
	assert.Contains(t, out, "3/9")
	assert.Contains(t, out, "10/20")
	assert.Contains(t, out, "playing")
	assert.Contains(t, out, "quiet")
}

func TestFetchRoomsErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, _, err := fetchRooms(context.Background(), ts.URL)
	assert.Error(t, err)
}

func TestRenderNoRooms(t *testing.T) {
	assert.Contains(t, renderRooms(nil), "No live rooms")
}
