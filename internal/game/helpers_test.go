package game

import (
	"fmt"
	"testing"

	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, stacks ...int) *Table {
	t.Helper()
	table := NewTable("R1", Settings{SmallBlind: 10, BigBlind: 20, MaxSeats: MaxSeats}, randutil.New(42))
	for i, chips := range stacks {
		_, err := table.Seat(fmt.Sprintf("p%d", i), fmt.Sprintf("Player%d", i), chips)
		require.NoError(t, err)
	}
	return table
}

func startHand(t *testing.T, table *Table) Result {
	t.Helper()
	res, err := table.StartNewHand()
	require.NoError(t, err)
	return res
}

func act(t *testing.T, table *Table, id string, d Decision) Result {
	t.Helper()
	res, err := table.Apply(id, d)
	require.NoError(t, err)
	return res
}

func currentID(table *Table) string {
	if table.Turn() < 0 {
		return ""
	}
	return table.players[table.Turn()].ID
}

func committed(table *Table) int {
	total := 0
	for _, p := range table.players {
		total += p.TotalBet
	}
	return total
}
