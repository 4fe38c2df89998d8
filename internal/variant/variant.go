// Package variant defines the capability set a ruleset supplies to
// specialize presentation without touching protocol logic. The session calls
// hooks at fixed points (after roster reconciliation, after turn change,
// after round result); unset hooks fall through to the generic presenter.
package variant

import (
	"github.com/caracaca/caracaca-client/internal/engine"
	"github.com/caracaca/caracaca-client/pkg/types"
)

// Hooks is injected into one generic session instance. All fields are
// optional.
type Hooks struct {
	Name string

	RenderSlot    func(playerID types.FlexID, card types.Card)
	ClearSlots    func()
	HighlightTurn func(playerID types.FlexID)
	RenderRoster  func(players []engine.Player)

	// ValidateStart vetoes a start request before it reaches the backend,
	// for rulesets with player-count constraints.
	ValidateStart func(players []engine.Player) error

	// OnWar observes the forced-equal-value continuation sub-phase. Rulesets
	// without one leave it unset.
	OnWar func(warRound int, progress string)
}

// Slot invokes RenderSlot when set and reports whether it handled the call.
func (h Hooks) Slot(playerID types.FlexID, card types.Card) bool {
	if h.RenderSlot == nil {
		return false
	}
	h.RenderSlot(playerID, card)
	return true
}

func (h Hooks) Clear() bool {
	if h.ClearSlots == nil {
		return false
	}
	h.ClearSlots()
	return true
}

func (h Hooks) Turn(playerID types.FlexID) bool {
	if h.HighlightTurn == nil {
		return false
	}
	h.HighlightTurn(playerID)
	return true
}

func (h Hooks) Roster(players []engine.Player) bool {
	if h.RenderRoster == nil {
		return false
	}
	h.RenderRoster(players)
	return true
}

func (h Hooks) CheckStart(players []engine.Player) error {
	if h.ValidateStart == nil {
		return nil
	}
	return h.ValidateStart(players)
}

func (h Hooks) War(warRound int, progress string) {
	if h.OnWar != nil {
		h.OnWar(warRound, progress)
	}
}
