// Package catalog holds the immutable card catalog, loaded once at startup.
package catalog

import (
	"errors"
	"math/rand"

	"github.com/caracaca/caracaca-client/pkg/types"
)

var ErrEmptyCatalog = errors.New("empty card catalog")

// Catalog indexes cards by id for quick lookup. Lookups tolerate ids arriving
// as text or numbers because FlexID normalizes them.
type Catalog struct {
	byID  map[types.FlexID]types.Card
	cards []types.Card
}

func New(cards []types.Card) (*Catalog, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		byID:  make(map[types.FlexID]types.Card, len(cards)),
		cards: append([]types.Card(nil), cards...),
	}
	for _, card := range cards {
		c.byID[card.ID] = card
	}
	return c, nil
}

// Lookup returns the full card data for an id seen on the wire.
func (c *Catalog) Lookup(id types.FlexID) (types.Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

func (c *Catalog) Len() int { return len(c.byID) }

// StandardDeck returns the 52 standard cards (catalog ids 1 through 52),
// excluding any special entries. Display use only — real dealing happens
// server-side.
func (c *Catalog) StandardDeck() []types.Card {
	deck := make([]types.Card, 0, 52)
	for _, card := range c.cards {
		if n, ok := card.ID.Int64(); ok && n >= 1 && n <= 52 {
			deck = append(deck, card)
		}
	}
	return deck
}

// Shuffle is a Fisher-Yates shuffle over a copy of the given deck.
func Shuffle(deck []types.Card, rng *rand.Rand) []types.Card {
	out := append([]types.Card(nil), deck...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
