package deck

import (
	"testing"

	"github.com/lox/pokerrooms/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHasEveryCardOnce(t *testing.T) {
	d := NewDeck()
	require.Equal(t, Size, d.Remaining())

	seen := make(map[Card]bool, Size)
	for _, c := range d.Cards() {
		require.True(t, c.Valid(), "invalid card %v", c)
		require.False(t, seen[c], "duplicate card %v", c)
		seen[c] = true
	}
	assert.Len(t, seen, Size)
}

func TestShuffleIsPermutation(t *testing.T) {
	rng := randutil.New(1)
	canonical := NewDeck().Cards()

	for range 20 {
		d := NewDeck()
		d.Shuffle(rng)
		assert.ElementsMatch(t, canonical, d.Cards())
	}
}

func TestShuffleIsSeeded(t *testing.T) {
	a, b := NewDeck(), NewDeck()
	a.Shuffle(randutil.New(9))
	b.Shuffle(randutil.New(9))
	assert.Equal(t, a.Cards(), b.Cards())

	c := NewDeck()
	c.Shuffle(randutil.New(10))
	assert.NotEqual(t, a.Cards(), c.Cards())
}

func TestDrawRemovesFromTop(t *testing.T) {
	d := NewDeck()
	top := d.Cards()[Size-1]

	c, err := d.Draw()
	require.NoError(t, err)
	assert.Equal(t, top, c)
	assert.Equal(t, Size-1, d.Remaining())
	assert.NotContains(t, d.Cards(), c)
}

func TestDrawPastEmpty(t *testing.T) {
	d := NewDeck()
	for range Size {
		_, err := d.Draw()
		require.NoError(t, err)
	}
	_, err := d.Draw()
	assert.ErrorIs(t, err, ErrEmptyDeck)

	_, err = NewDeck().DrawN(Size + 1)
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestResetRestoresFullDeck(t *testing.T) {
	rng := randutil.New(3)
	d := NewDeck()
	_, err := d.DrawN(30)
	require.NoError(t, err)

	d.Reset(rng)
	assert.Equal(t, Size, d.Remaining())
	assert.ElementsMatch(t, NewDeck().Cards(), d.Cards())
}

func TestFromCardsDrawOrder(t *testing.T) {
	cards, err := ParseCards("AsKsQs")
	require.NoError(t, err)

	d := FromCards(cards...)
	for _, want := range cards {
		got, err := d.Draw()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
