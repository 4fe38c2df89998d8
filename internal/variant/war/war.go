// Package war is the two-player elimination ruleset. It supplies a face-off
// layout (one side per player) and follows the forced-equal-value
// continuation sub-phase; all protocol handling stays in the generic session.
package war

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/caracaca/caracaca-client/internal/engine"
	"github.com/caracaca/caracaca-client/internal/variant"
	"github.com/caracaca/caracaca-client/pkg/types"
)

var ErrNeedTwoPlayers = errors.New("war needs exactly two connected players")

type side string

const (
	sideLeft    side = "left"
	sideRight   side = "right"
	sideUnknown side = "?"
)

// Variant holds the layout assignment and the current sub-phase. Sides are
// assigned in roster order and stay stable across reconnects because the
// roster never drops players.
type Variant struct {
	log *zap.Logger

	mu       sync.Mutex
	sides    map[string]side // keyed by canonical id text
	slots    map[side]types.Card
	warRound int
}

func New(log *zap.Logger) *Variant {
	return &Variant{
		log:   log,
		sides: make(map[string]side),
		slots: make(map[side]types.Card),
	}
}

// Hooks adapts the variant to the generic session's capability set.
func (v *Variant) Hooks() variant.Hooks {
	return variant.Hooks{
		Name:          "war",
		RenderRoster:  v.renderRoster,
		RenderSlot:    v.renderSlot,
		ClearSlots:    v.clearSlots,
		HighlightTurn: v.highlightTurn,
		ValidateStart: v.validateStart,
		OnWar:         v.onWar,
	}
}

// WarRound reports the current continuation round, 0 outside a war.
func (v *Variant) WarRound() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.warRound
}

// Side reports the layout side assigned to a player.
func (v *Variant) Side(playerID types.FlexID) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return string(v.sideFor(playerID))
}

func (v *Variant) validateStart(players []engine.Player) error {
	connected := 0
	for _, p := range players {
		if p.Connected {
			connected++
		}
	}
	if connected != 2 {
		return ErrNeedTwoPlayers
	}
	return nil
}

func (v *Variant) renderRoster(players []engine.Player) {
	v.mu.Lock()
	defer v.mu.Unlock()

	used := make(map[side]bool, 2)
	for _, s := range v.sides {
		used[s] = true
	}
	for _, p := range players {
		key := p.ID.String()
		if _, assigned := v.sides[key]; assigned {
			continue
		}
		switch {
		case !used[sideLeft]:
			v.sides[key] = sideLeft
			used[sideLeft] = true
		case !used[sideRight]:
			v.sides[key] = sideRight
			used[sideRight] = true
		default:
			// Anyone past two players spectates; war is a two-seat game.
			v.sides[key] = sideUnknown
		}
	}

	for _, p := range players {
		v.log.Info("war roster",
			zap.String("side", string(v.sides[p.ID.String()])),
			zap.String("player", p.Username),
			zap.Bool("connected", p.Connected))
	}
}

func (v *Variant) renderSlot(playerID types.FlexID, card types.Card) {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.sideFor(playerID)
	if s != sideUnknown {
		v.slots[s] = card
	}
	v.log.Info("war slot",
		zap.String("side", string(s)),
		zap.String("card", card.ID.String()),
		zap.String("rank", card.Rank))
}

func (v *Variant) clearSlots() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.slots = make(map[side]types.Card)
	v.log.Info("war slots cleared")
}

func (v *Variant) highlightTurn(playerID types.FlexID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.log.Info("war turn", zap.String("side", string(v.sideFor(playerID))))
}

func (v *Variant) onWar(warRound int, progress string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if warRound > 0 {
		v.warRound = warRound
	}
	if progress == "" {
		v.log.Info("war started", zap.Int("warRound", v.warRound))
		return
	}
	v.log.Info("war progress", zap.Int("warRound", v.warRound), zap.String("detail", progress))
}

// sideFor must be called with the lock held.
func (v *Variant) sideFor(playerID types.FlexID) side {
	if s, ok := v.sides[playerID.String()]; ok {
		return s
	}
	// Tolerate text/numeric drift in ids the same way turn checks do.
	for key, s := range v.sides {
		if types.FlexID(key).EqualNumeric(playerID) {
			return s
		}
	}
	return sideUnknown
}
