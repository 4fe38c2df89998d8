package engine

import (
	"errors"

	"github.com/caracaca/caracaca-client/pkg/types"
)

var ErrUnknownKind = errors.New("unknown message kind")
var ErrEmptySnapshot = errors.New("game_state frame without snapshot")

type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseSetup    Phase = "setup"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// Player is one tracked participant. Players are never removed from the
// roster, only marked disconnected, so a reconnecting player keeps their
// identity.
type Player struct {
	ID        types.FlexID
	Username  string
	Connected bool
	PPPath    string
}

// State is the local mirror of server-authoritative session state. It has a
// single writer (the session loop); hands and played slots are replaceable
// snapshots — the client holds no independent source of truth for them.
type State struct {
	GameID       types.FlexID
	SelfUsername string
	SelfID       types.FlexID // established only by roster reconciliation
	Phase        Phase
	Round        int
	CurrentTurn  types.FlexID
	Players      []Player
	Hands        map[types.FlexID][]types.Card
	Played       map[types.FlexID]types.Card
	War          types.WarState
}

type EventType string

const (
	EvtJoined        EventType = "Joined"
	EvtRosterUpdated EventType = "RosterUpdated"
	EvtPhaseChanged  EventType = "PhaseChanged"
	EvtRoundChanged  EventType = "RoundChanged"
	EvtTurnChanged   EventType = "TurnChanged"
	EvtHandUpdated   EventType = "HandUpdated"
	EvtSlotUpdated   EventType = "SlotUpdated"
	EvtSlotsCleared  EventType = "SlotsCleared"
	EvtCardPlayed    EventType = "CardPlayed"
	EvtCardDrawn     EventType = "CardDrawn"
	EvtRoundWon      EventType = "RoundWon"
	EvtRestarted     EventType = "Restarted"
	EvtGameEnded     EventType = "GameEnded"
	EvtRedirect      EventType = "Redirect"
	EvtNotice        EventType = "Notice"
	EvtChat          EventType = "Chat"
	EvtWarStarted    EventType = "WarStarted"
	EvtWarProgress   EventType = "WarProgress"
)

// Event is a presentation-facing fact derived from applying one inbound
// frame. Events carry just enough to drive the presentation port; handlers
// read the new State for everything else.
type Event struct {
	Type      EventType
	PlayerID  types.FlexID
	Username  string
	CardID    types.FlexID
	Text      string
	PPPath    string
	Round     int
	CardCount int
	War       bool
	WarRound  int
}

// Apply interprets one inbound frame against the current state. It returns
// the presentation events the frame produced and the new state. Out-of-order
// delivery is tolerated because snapshot kinds replace state wholesale and
// reapplying the same snapshot is a no-op.
func Apply(s State, f types.Frame) ([]Event, State, error) {
	switch f.Type {
	case types.KindJoinGameSuccess:
		return []Event{{Type: EvtJoined}}, s, nil

	case types.KindConnectedUsers:
		return applyRoster(s, f.Users)

	case types.KindGameState:
		return applySnapshot(s, f.GameState)

	case types.KindPlayerAction:
		return applyPlayerAction(s, f)

	case types.KindTurnChange:
		newState := s
		newState.CurrentTurn = f.PlayerID
		return []Event{{Type: EvtTurnChanged, PlayerID: f.PlayerID, Username: f.Username}}, newState, nil

	case types.KindRoundResult:
		newState := s
		if f.NewRound > 0 {
			newState.Round = f.NewRound
		}
		newState.Played = map[types.FlexID]types.Card{}
		events := []Event{
			{Type: EvtRoundWon, PlayerID: f.WinnerID, Username: f.WinnerName, CardCount: f.CardCount, Round: newState.Round},
			{Type: EvtSlotsCleared},
		}
		return events, newState, nil

	case types.KindGameRestart:
		newState := s
		newState.Phase = PhaseWaiting
		newState.Round = 1
		newState.CurrentTurn = ""
		newState.Hands = map[types.FlexID][]types.Card{}
		newState.Played = map[types.FlexID]types.Card{}
		newState.War = types.WarState{}
		return []Event{{Type: EvtRestarted}, {Type: EvtSlotsCleared}}, newState, nil

	case types.KindGameEnd:
		newState := s
		newState.Phase = PhaseFinished
		return []Event{{Type: EvtGameEnded, PlayerID: f.WinnerID, Username: f.WinnerName}}, newState, nil

	case types.KindRedirectToLobby:
		return []Event{{Type: EvtRedirect}}, s, nil

	case types.KindError:
		return []Event{{Type: EvtNotice, Text: f.Message}}, s, nil

	case types.KindMessage, types.KindChatMessage:
		return []Event{{Type: EvtChat, Username: f.Owner, Text: f.Message, PPPath: f.UserPP}}, s, nil

	case types.KindWarStart:
		newState := s
		newState.War = types.WarState{InWar: true, WarRound: f.WarRound}
		return []Event{{Type: EvtWarStarted, WarRound: f.WarRound}}, newState, nil

	case types.KindWarProgress:
		return []Event{{Type: EvtWarProgress, Text: f.Message}}, s, nil

	default:
		return nil, s, ErrUnknownKind
	}
}

// applySnapshot replaces phase/round/turn/hands/played wholesale, then diffs
// against the previous state to decide which side effects to fire. Round and
// turn effects only fire on an actual change, which is what makes duplicate
// snapshots harmless.
func applySnapshot(s State, snap *types.GameState) ([]Event, State, error) {
	if snap == nil {
		return nil, s, ErrEmptySnapshot
	}

	prevRound := s.Round
	prevTurn := s.CurrentTurn
	prevPhase := s.Phase

	newState := s
	newState.Phase = Phase(snap.Phase)
	if snap.Round > 0 {
		newState.Round = snap.Round
	}
	newState.CurrentTurn = snap.CurrentTurn
	if snap.PlayerHands != nil {
		newState.Hands = snap.PlayerHands
	}
	if snap.PlayedCards != nil {
		newState.Played = make(map[types.FlexID]types.Card, len(snap.PlayedCards))
		for pid, card := range snap.PlayedCards {
			if card != nil {
				newState.Played[pid] = *card
			}
		}
	}
	if snap.WarState != nil {
		newState.War = *snap.WarState
	}

	var events []Event
	if snap.PlayerHands != nil {
		events = append(events, Event{Type: EvtHandUpdated})
	}
	for pid, card := range newState.Played {
		events = append(events, Event{Type: EvtSlotUpdated, PlayerID: pid, CardID: card.ID})
	}
	if prevRound != 0 && newState.Round != prevRound {
		events = append(events, Event{Type: EvtRoundChanged, Round: newState.Round}, Event{Type: EvtSlotsCleared})
	}
	if !sameID(prevTurn, newState.CurrentTurn) {
		events = append(events, Event{Type: EvtTurnChanged, PlayerID: newState.CurrentTurn})
	}
	if prevPhase != newState.Phase {
		events = append(events, Event{Type: EvtPhaseChanged})
	}
	return events, newState, nil
}

// applyPlayerAction re-derives a presentation event from a peer's move. It
// never touches hand truth for other players — that arrives via the next
// game_state. The played slot is only filled when empty, which suppresses a
// second effect for a card this client already rendered.
func applyPlayerAction(s State, f types.Frame) ([]Event, State, error) {
	if f.Action == nil {
		return nil, s, nil
	}

	switch f.Action.Type {
	case types.ActionDrawCard:
		return []Event{{Type: EvtCardDrawn, PlayerID: f.PlayerID, Username: f.Username}}, s, nil

	case types.ActionPlayCard, types.ActionPlayWarCard:
		if _, taken := s.Played[f.PlayerID]; taken {
			// Duplicate broadcast for a slot we already filled.
			return nil, s, nil
		}

		newState := s
		newState.Played = clonePlayed(s.Played)
		newState.Played[f.PlayerID] = types.Card{ID: f.Action.CardID}

		war := f.Action.WarMode || f.Action.Type == types.ActionPlayWarCard || s.War.InWar

		// Our own play echoed back: drop the card from the local hand if the
		// snapshot hasn't already done so.
		if f.PlayerID.EqualNumeric(s.SelfID) {
			if hand, ok := s.Hands[s.SelfID]; ok {
				trimmed := removeCard(hand, f.Action.CardID)
				if len(trimmed) != len(hand) {
					newState.Hands = cloneHands(s.Hands)
					newState.Hands[s.SelfID] = trimmed
				}
			}
		}

		events := []Event{
			{Type: EvtCardPlayed, PlayerID: f.PlayerID, Username: f.Username, CardID: f.Action.CardID, War: war},
			{Type: EvtSlotUpdated, PlayerID: f.PlayerID, CardID: f.Action.CardID},
		}
		return events, newState, nil

	default:
		return nil, s, nil
	}
}

// sameID treats ids as equal when they coerce to the same number, with a raw
// fallback for the unset case. Guards the class of bugs where "3" vs 3
// falsely triggers or suppresses turn UI.
func sameID(a, b types.FlexID) bool {
	if a.IsZero() && b.IsZero() {
		return true
	}
	if a.EqualNumeric(b) {
		return true
	}
	return a == b
}

func removeCard(hand []types.Card, cardID types.FlexID) []types.Card {
	out := make([]types.Card, 0, len(hand))
	removed := false
	for _, c := range hand {
		if !removed && c.ID.EqualNumeric(cardID) {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out
}

func clonePlayed(m map[types.FlexID]types.Card) map[types.FlexID]types.Card {
	out := make(map[types.FlexID]types.Card, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneHands(m map[types.FlexID][]types.Card) map[types.FlexID][]types.Card {
	out := make(map[types.FlexID][]types.Card, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
