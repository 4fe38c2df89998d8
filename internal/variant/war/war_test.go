package war

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/caracaca/caracaca-client/internal/engine"
	"github.com/caracaca/caracaca-client/pkg/types"
)

func twoPlayers() []engine.Player {
	return []engine.Player{
		{ID: "1", Username: "alice", Connected: true},
		{ID: "2", Username: "bob", Connected: true},
	}
}

func TestValidateStart(t *testing.T) {
	v := New(zaptest.NewLogger(t))
	hooks := v.Hooks()

	t.Run("two connected players", func(t *testing.T) {
		assert.NoError(t, hooks.CheckStart(twoPlayers()))
	})
	t.Run("one player", func(t *testing.T) {
		assert.ErrorIs(t, hooks.CheckStart(twoPlayers()[:1]), ErrNeedTwoPlayers)
	})
	t.Run("disconnected seat does not count", func(t *testing.T) {
		players := twoPlayers()
		players[1].Connected = false
		assert.ErrorIs(t, hooks.CheckStart(players), ErrNeedTwoPlayers)
	})
	t.Run("three players", func(t *testing.T) {
		players := append(twoPlayers(), engine.Player{ID: "3", Username: "eve", Connected: true})
		assert.ErrorIs(t, hooks.CheckStart(players), ErrNeedTwoPlayers)
	})
}

func TestSides_StableAcrossRosterUpdates(t *testing.T) {
	v := New(zaptest.NewLogger(t))
	hooks := v.Hooks()

	// First roster only has one player; the second arrives later.
	hooks.Roster(twoPlayers()[:1])
	assert.Equal(t, "left", v.Side("1"))

	hooks.Roster(twoPlayers())
	assert.Equal(t, "left", v.Side("1"))
	assert.Equal(t, "right", v.Side("2"))

	// Reconnect does not reshuffle sides.
	hooks.Roster(twoPlayers())
	assert.Equal(t, "left", v.Side("1"))
	assert.Equal(t, "right", v.Side("2"))
}

func TestSides_NumericAndTextIDsMatch(t *testing.T) {
	v := New(zaptest.NewLogger(t))
	v.Hooks().Roster(twoPlayers())

	// A slot broadcast may carry the id in a different textual form.
	v.renderSlot(types.FlexID("01"), types.Card{ID: "10"})
	assert.Equal(t, "left", v.Side("01"))
}

func TestOnWar_TracksSubPhase(t *testing.T) {
	v := New(zaptest.NewLogger(t))
	hooks := v.Hooks()

	assert.Equal(t, 0, v.WarRound())
	hooks.War(1, "")
	assert.Equal(t, 1, v.WarRound())
	hooks.War(0, "both played sevens")
	assert.Equal(t, 1, v.WarRound())
	hooks.War(2, "")
	assert.Equal(t, 2, v.WarRound())
}
