package session

import (
	"github.com/caracaca/caracaca-client/internal/engine"
	"github.com/caracaca/caracaca-client/pkg/types"
)

// Presenter is the observer port the surrounding application implements. The
// session calls it from its own loop; implementations must not call back into
// the session synchronously.
type Presenter interface {
	RenderRoster(players []engine.Player)
	RenderHand(cards []types.Card)
	RenderSlot(playerID types.FlexID, card types.Card)
	ClearSlots()
	HighlightTurn(playerID types.FlexID)
	PlayCardEffect(playerID types.FlexID, card types.Card, war bool)
	AnnounceRoundResult(winner string, cardCount, round int)
	AnnounceGameEnd(winner string)
	AnnounceWar(warRound int)
	ShowChat(owner, text, avatar string)
	ShowNotice(text string)
	RedirectToLobby()
}

// NopPresenter implements Presenter with no-ops. Embed it to override only
// the callbacks a test or surface cares about.
type NopPresenter struct{}

func (NopPresenter) RenderRoster([]engine.Player)                  {}
func (NopPresenter) RenderHand([]types.Card)                       {}
func (NopPresenter) RenderSlot(types.FlexID, types.Card)           {}
func (NopPresenter) ClearSlots()                                   {}
func (NopPresenter) HighlightTurn(types.FlexID)                    {}
func (NopPresenter) PlayCardEffect(types.FlexID, types.Card, bool) {}
func (NopPresenter) AnnounceRoundResult(string, int, int)          {}
func (NopPresenter) AnnounceGameEnd(string)                        {}
func (NopPresenter) AnnounceWar(int)                               {}
func (NopPresenter) ShowChat(string, string, string)               {}
func (NopPresenter) ShowNotice(string)                             {}
func (NopPresenter) RedirectToLobby()                              {}
