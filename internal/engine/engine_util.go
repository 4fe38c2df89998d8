package engine

import "github.com/caracaca/caracaca-client/pkg/types"

// NewState seeds the mirror for a freshly joined session. Everything real
// arrives via snapshots.
func NewState(gameID types.FlexID, username string) State {
	return State{
		GameID:       gameID,
		SelfUsername: username,
		Phase:        PhaseWaiting,
		Round:        1,
		Players:      []Player{},
		Hands:        map[types.FlexID][]types.Card{},
		Played:       map[types.FlexID]types.Card{},
	}
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// SelfHand returns the local player's hand, or nil before the id is known.
func SelfHand(s State) []types.Card {
	if s.SelfID.IsZero() {
		return nil
	}
	return s.Hands[s.SelfID]
}

// Clone deep-copies the state so readers on other goroutines never alias the
// session loop's maps.
func (s State) Clone() State {
	out := s
	out.Players = make([]Player, len(s.Players))
	copy(out.Players, s.Players)
	out.Hands = make(map[types.FlexID][]types.Card, len(s.Hands))
	for k, v := range s.Hands {
		hand := make([]types.Card, len(v))
		copy(hand, v)
		out.Hands[k] = hand
	}
	out.Played = make(map[types.FlexID]types.Card, len(s.Played))
	for k, v := range s.Played {
		out.Played[k] = v
	}
	return out
}
