package game

import (
	"encoding/json"
	"testing"

	"github.com/lox/pokerrooms/internal/deck"
	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartNewHandPostsBlinds(t *testing.T) {
	table := newTestTable(t, 1000, 1000)

	res := startHand(t, table)

	require.NotNil(t, res.Deal)
	assert.Equal(t, 0, table.Dealer())
	assert.Equal(t, Playing, table.State())
	assert.Equal(t, Preflop, table.Phase())
	assert.Equal(t, 1, table.HandNumber())

	sb, _ := table.Player("p1")
	bb, _ := table.Player("p0")
	assert.Equal(t, 990, sb.Chips)
	assert.Equal(t, 10, sb.CurrentBet)
	assert.Equal(t, 980, bb.Chips)
	assert.Equal(t, 20, bb.CurrentBet)
	assert.Equal(t, 30, table.Pot())
	assert.Equal(t, 20, table.CurrentBet())
	assert.Equal(t, "p1", currentID(table))

	require.Len(t, res.Actions, 2)
	assert.Equal(t, EventSmallBlind, res.Actions[0].Kind)
	assert.Equal(t, EventBigBlind, res.Actions[1].Kind)
	assert.Len(t, sb.Hand, 2)
	assert.Len(t, bb.Hand, 2)
	assert.Empty(t, table.CommunityCards())
}

func TestStartNewHandRequiresTwoFundedPlayers(t *testing.T) {
	table := newTestTable(t, 1000)
	_, err := table.StartNewHand()
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	_, err = table.Seat("broke", "Broke", 0)
	require.NoError(t, err)
	_, err = table.StartNewHand()
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestStartNewHandWhilePlaying(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	startHand(t, table)

	_, err := table.StartNewHand()
	assert.ErrorIs(t, err, ErrHandInProgress)
}

func TestFoldAwardsPotToLastContender(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	startHand(t, table)

	res := act(t, table, "p1", Decision{Action: Fold})

	require.True(t, res.HandEnded())
	assert.Equal(t, "p0", res.Award.WinnerID)
	assert.Equal(t, 30, res.Award.Amount)
	assert.False(t, res.Award.Showdown)
	assert.Equal(t, 0, table.Pot())
	assert.Equal(t, Finished, table.State())
	assert.Equal(t, -1, table.Turn())

	winner, _ := table.Player("p0")
	loser, _ := table.Player("p1")
	assert.Equal(t, 1010, winner.Chips)
	assert.Equal(t, 990, loser.Chips)
}

func TestRaiseAboveStackIsIgnored(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	startHand(t, table)

	res := act(t, table, "p1", Decision{Action: Raise, Amount: 5000})

	assert.ErrorIs(t, res.Ignored, ErrInsufficientChips)
	assert.Empty(t, res.Actions)
	assert.Equal(t, 30, table.Pot())
	assert.Equal(t, 20, table.CurrentBet())
	assert.Equal(t, "p0", currentID(table))

	p, _ := table.Player("p1")
	assert.Equal(t, 990, p.Chips)
}

func TestRaiseBelowBigBlindIsRaisedToBigBlind(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	startHand(t, table)

	res := act(t, table, "p1", Decision{Action: Raise, Amount: 5})

	require.Len(t, res.Actions, 1)
	assert.Equal(t, 20, res.Actions[0].Amount)
	assert.Equal(t, 30, table.CurrentBet())
	assert.Equal(t, 50, table.Pot())
	assert.Equal(t, "p0", currentID(table))
}

func TestOutOfTurnActionRejected(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	startHand(t, table)

	_, err := table.Apply("p0", Decision{Action: Call})
	assert.ErrorIs(t, err, ErrNotYourTurn)
	assert.Equal(t, 30, table.Pot())
	assert.Equal(t, "p1", currentID(table))
}

func TestApplyValidation(t *testing.T) {
	table := newTestTable(t, 1000, 1000)

	_, err := table.Apply("p0", Decision{Action: Call})
	assert.ErrorIs(t, err, ErrHandNotRunning)

	_, err = table.Apply("ghost", Decision{Action: Call})
	assert.ErrorIs(t, err, ErrPlayerNotSeated)

	startHand(t, table)
	act(t, table, "p1", Decision{Action: AllIn})
	// p1 is all-in; p0 must respond
	_, err = table.Apply("p1", Decision{Action: Call})
	assert.ErrorIs(t, err, ErrCannotAct)
}

func TestCheckDownToShowdown(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	startHand(t, table)

	act(t, table, "p1", Decision{Action: Call})
	assert.Equal(t, Preflop, table.Phase(), "big blind still has the option")
	assert.Equal(t, "p0", currentID(table))

	res := act(t, table, "p0", Decision{Action: Call})
	require.Len(t, res.Streets, 1)
	assert.Equal(t, Flop, table.Phase())
	assert.Len(t, table.CommunityCards(), 3)
	assert.Equal(t, 0, table.CurrentBet())
	assert.Equal(t, "p1", currentID(table))

	expected := map[Phase]int{Turn: 4, River: 5}
	for _, phase := range []Phase{Turn, River} {
		act(t, table, "p1", Decision{Action: Call})
		act(t, table, "p0", Decision{Action: Call})
		assert.Equal(t, phase, table.Phase())
		assert.Len(t, table.CommunityCards(), expected[phase])
	}

	act(t, table, "p1", Decision{Action: Call})
	res = act(t, table, "p0", Decision{Action: Call})

	require.True(t, res.HandEnded())
	assert.True(t, res.Award.Showdown)
	assert.Equal(t, "p0", res.Award.WinnerID, "first non-folded seat wins")
	assert.Equal(t, 40, res.Award.Amount)
	assert.Equal(t, Showdown, table.Phase())
	assert.Len(t, table.CommunityCards(), 5)
	assert.Equal(t, Finished, table.State())
}

func TestAllInRunsOutBoard(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	startHand(t, table)

	act(t, table, "p1", Decision{Action: AllIn})
	assert.Equal(t, 1000, table.CurrentBet())
	res := act(t, table, "p0", Decision{Action: Call})

	require.True(t, res.HandEnded())
	assert.Len(t, res.Streets, 4)
	assert.Len(t, table.CommunityCards(), 5)
	assert.Equal(t, 2000, res.Award.Amount)
	assert.Equal(t, "p0", res.Award.WinnerID)
}

func TestPartialCallGoesAllIn(t *testing.T) {
	table := newTestTable(t, 1000, 300)
	startHand(t, table)

	// p1 is small blind with 300 behind 10
	act(t, table, "p1", Decision{Action: Raise, Amount: 100})
	act(t, table, "p0", Decision{Action: AllIn})
	res := act(t, table, "p1", Decision{Action: Call})

	require.True(t, res.HandEnded())
	p1, _ := table.Player("p1")
	assert.True(t, p1.AllIn || res.Award.WinnerID == "p1")
	assert.Equal(t, 1300, table.TotalChips())
}

func TestShortStackBlindGoesAllIn(t *testing.T) {
	table := newTestTable(t, 15, 1000, 1000)
	// Dealer seat 0, small blind seat 1, big blind seat 2
	startHand(t, table)
	assert.Equal(t, 30, table.Pot())

	table2 := newTestTable(t, 1000, 1000, 15)
	startHand(t, table2)
	bb, _ := table2.Player("p2")
	assert.True(t, bb.AllIn)
	assert.Equal(t, 15, bb.CurrentBet)
	assert.Equal(t, 25, table2.Pot())
	assert.Equal(t, 20, table2.CurrentBet())
	assert.Equal(t, "p0", currentID(table2))
}

func TestMidHandJoinSitsOut(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	startHand(t, table)

	_, err := table.Seat("late", "Late", 1000)
	require.NoError(t, err)

	late, _ := table.Player("late")
	assert.True(t, late.Folded)
	assert.Empty(t, late.Hand)
	assert.NotEqual(t, "late", currentID(table))

	act(t, table, "p1", Decision{Action: Fold})
	assert.Equal(t, Finished, table.State())

	startHand(t, table)
	late, _ = table.Player("late")
	assert.False(t, late.Folded)
	assert.Len(t, late.Hand, 2)
}

func TestDealerRotates(t *testing.T) {
	table := newTestTable(t, 1000, 1000, 1000)

	for want := range 5 {
		startHand(t, table)
		assert.Equal(t, want%3, table.Dealer())
		act(t, table, currentID(table), Decision{Action: Fold})
		act(t, table, currentID(table), Decision{Action: Fold})
		require.Equal(t, Finished, table.State())
	}
}

func TestSeatCap(t *testing.T) {
	table := NewTable("R1", Settings{SmallBlind: 1, BigBlind: 2, MaxSeats: 2}, randutil.New(1))
	_, err := table.Seat("a", "A", 100)
	require.NoError(t, err)
	_, err = table.Seat("a", "A", 100)
	assert.ErrorIs(t, err, ErrPlayerExists)
	_, err = table.Seat("b", "B", 100)
	require.NoError(t, err)
	_, err = table.Seat("c", "C", 100)
	assert.ErrorIs(t, err, ErrTableFull)
}

func TestRemoveCurrentPlayerPassesTurn(t *testing.T) {
	table := newTestTable(t, 1000, 1000, 1000)
	startHand(t, table)
	// Dealer 0, SB 1, BB 2, first to act seat 0
	require.Equal(t, "p0", currentID(table))

	_, res, err := table.Remove("p0")
	require.NoError(t, err)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, EventFold, res.Actions[0].Kind)
	assert.False(t, res.HandEnded())
	assert.Equal(t, "p1", currentID(table))
	assert.Equal(t, 30, table.Pot())
}

func TestRemoveLeavingOneContenderAwardsPot(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	startHand(t, table)

	p, res, err := table.Remove("p1")
	require.NoError(t, err)
	assert.Equal(t, 990, p.Chips)
	require.True(t, res.HandEnded())
	assert.Equal(t, "p0", res.Award.WinnerID)
	assert.Equal(t, 30, res.Award.Amount)

	remaining, _ := table.Player("p0")
	assert.Equal(t, 1010, remaining.Chips)
	assert.Equal(t, Finished, table.State())
}

func TestPauseReturnsToWaiting(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	startHand(t, table)
	act(t, table, "p1", Decision{Action: Fold})

	table.Pause()
	assert.Equal(t, Waiting, table.State())
	assert.Equal(t, PhaseWaiting, table.Phase())
	assert.Empty(t, table.CommunityCards())
}

func TestStackedDeckDealOrder(t *testing.T) {
	cards, err := deck.ParseCards("AsKsQsJsTs9s8s7s6s")
	require.NoError(t, err)

	table := NewTable("R1", Settings{SmallBlind: 10, BigBlind: 20, MaxSeats: 9}, randutil.New(1),
		WithDeckSource(func() *deck.Deck { return deck.FromCards(cards...) }),
		WithHandIDs(func() string { return "hand-1" }),
	)
	_, err = table.Seat("a", "A", 1000)
	require.NoError(t, err)
	_, err = table.Seat("b", "B", 1000)
	require.NoError(t, err)

	res := startHand(t, table)
	assert.Equal(t, "hand-1", res.HandID)

	// Dealing starts left of the dealer
	a, _ := table.Player("a")
	b, _ := table.Player("b")
	assert.Equal(t, []deck.Card{cards[1], cards[3]}, a.Hand)
	assert.Equal(t, []deck.Card{cards[0], cards[2]}, b.Hand)

	act(t, table, "b", Decision{Action: Call})
	act(t, table, "a", Decision{Action: Call})
	assert.Equal(t, cards[4:7], table.CommunityCards())
}

func TestSnapshotHidesHoleCards(t *testing.T) {
	table := newTestTable(t, 1000, 1000)
	startHand(t, table)

	snap := table.Snapshot()
	assert.Equal(t, "R1", snap.RoomID)
	require.Len(t, snap.Players, 2)
	assert.True(t, snap.Players[0].IsDealer)
	assert.True(t, snap.Players[1].IsCurrentPlayer)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "preflop", decoded["round"])
	assert.Equal(t, "playing", decoded["gameState"])
	assert.Equal(t, []any{}, decoded["communityCards"])
	for _, p := range decoded["players"].([]any) {
		assert.NotContains(t, p.(map[string]any), "hand")
	}
	assert.NotContains(t, string(data), "suit")
}

func TestRandomPlayConservesChips(t *testing.T) {
	rng := randutil.New(7)
	table := newTestTable(t, 500, 800, 1000, 1200)
	total := table.TotalChips()

	for step := 0; step < 5000; step++ {
		if table.State() != Playing {
			if _, err := table.StartNewHand(); err != nil {
				require.ErrorIs(t, err, ErrNotEnoughPlayers)
				break
			}
			require.Equal(t, total, table.TotalChips())
			continue
		}

		require.GreaterOrEqual(t, table.Turn(), 0)
		p := table.players[table.Turn()]
		require.True(t, p.CanAct(), "turn on folded or all-in seat")

		var d Decision
		switch rng.IntN(10) {
		case 0:
			d = Decision{Action: Fold}
		case 1:
			d = Decision{Action: AllIn}
		case 2, 3:
			d = Decision{Action: Raise, Amount: rng.IntN(300)}
		default:
			d = Decision{Action: Call}
		}
		act(t, table, p.ID, d)

		require.Equal(t, total, table.TotalChips())
		if table.State() == Playing {
			require.Equal(t, committed(table), table.Pot())
			n := len(table.CommunityCards())
			switch table.Phase() {
			case Preflop:
				require.Equal(t, 0, n)
			case Flop:
				require.Equal(t, 3, n)
			case Turn:
				require.Equal(t, 4, n)
			case River:
				require.Equal(t, 5, n)
			}
		} else {
			require.Equal(t, 0, table.Pot())
		}
	}
}
