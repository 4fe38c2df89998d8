package catalog

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caracaca/caracaca-client/pkg/types"
)

func testCards() []types.Card {
	return []types.Card{
		{ID: "1", Rank: "A", Suit: "spades"},
		{ID: "2", Rank: "2", Suit: "spades"},
		{ID: "53", Rank: "joker", Suit: ""},
	}
}

func TestNew_RejectsEmpty(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestLookup(t *testing.T) {
	c, err := New(testCards())
	require.NoError(t, err)

	card, ok := c.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, "A", card.Rank)

	_, ok = c.Lookup("99")
	assert.False(t, ok)
}

func TestStandardDeck_ExcludesSpecials(t *testing.T) {
	c, err := New(testCards())
	require.NoError(t, err)

	deck := c.StandardDeck()
	assert.Len(t, deck, 2)
	for _, card := range deck {
		assert.NotEqual(t, "joker", card.Rank)
	}
}

func TestShuffle_PreservesInputAndContents(t *testing.T) {
	c, err := New(testCards())
	require.NoError(t, err)

	deck := c.StandardDeck()
	before := append([]types.Card(nil), deck...)
	out := Shuffle(deck, rand.New(rand.NewSource(1)))

	assert.Equal(t, before, deck, "input deck must not be mutated")
	assert.ElementsMatch(t, before, out)
}
