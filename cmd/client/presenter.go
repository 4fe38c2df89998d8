package main

import (
	"fmt"

	"github.com/caracaca/caracaca-client/internal/engine"
	"github.com/caracaca/caracaca-client/pkg/types"
)

// consolePresenter renders the session to stdout. It is the default
// presentation port; the war variant's hooks take over slot/roster/turn
// rendering when that ruleset is active.
type consolePresenter struct{}

func (consolePresenter) RenderRoster(players []engine.Player) {
	fmt.Println("players:")
	for _, p := range players {
		status := "online"
		if !p.Connected {
			status = "offline"
		}
		fmt.Printf("  %s (%s) %s\n", p.Username, p.ID, status)
	}
}

func (consolePresenter) RenderHand(cards []types.Card) {
	fmt.Printf("hand (%d):", len(cards))
	for _, c := range cards {
		fmt.Printf(" [%s %s%s]", c.ID, c.Rank, suitGlyph(c.Suit))
	}
	fmt.Println()
}

func (consolePresenter) RenderSlot(playerID types.FlexID, card types.Card) {
	fmt.Printf("player %s plays %s%s\n", playerID, card.Rank, suitGlyph(card.Suit))
}

func (consolePresenter) ClearSlots() {
	fmt.Println("--- table cleared ---")
}

func (consolePresenter) HighlightTurn(playerID types.FlexID) {
	fmt.Printf(">> turn: player %s\n", playerID)
}

func (consolePresenter) PlayCardEffect(playerID types.FlexID, card types.Card, war bool) {
	if war {
		fmt.Printf("player %s throws %s%s into the war!\n", playerID, card.Rank, suitGlyph(card.Suit))
		return
	}
	fmt.Printf("player %s plays %s%s\n", playerID, card.Rank, suitGlyph(card.Suit))
}

func (consolePresenter) AnnounceRoundResult(winner string, cardCount, round int) {
	fmt.Printf("%s wins the round (%d cards), round %d begins\n", winner, cardCount, round)
}

func (consolePresenter) AnnounceGameEnd(winner string) {
	fmt.Printf("=== game over, %s wins ===\n", winner)
}

func (consolePresenter) AnnounceWar(warRound int) {
	fmt.Printf("!!! WAR (round %d) !!!\n", warRound)
}

func (consolePresenter) ShowChat(owner, text, _ string) {
	fmt.Printf("<%s> %s\n", owner, text)
}

func (consolePresenter) ShowNotice(text string) {
	fmt.Printf("* %s\n", text)
}

func (consolePresenter) RedirectToLobby() {
	fmt.Println("* returning to lobby")
}

func suitGlyph(suit string) string {
	switch suit {
	case "hearts":
		return "♥"
	case "diamonds":
		return "♦"
	case "clubs":
		return "♣"
	case "spades":
		return "♠"
	default:
		return suit
	}
}
