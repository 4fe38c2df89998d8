package engine

import "github.com/caracaca/caracaca-client/pkg/types"

// applyRoster reconciles an incoming connected_users list into the tracked
// roster. Known players (matched by username) are merged in place and keep
// their locally assigned id; unknown players are appended; players missing
// from the incoming list are marked disconnected but never removed, because
// disconnection is reversible.
//
// This is also the only place the local player's id is established: after
// merging, the stored username is matched against the roster.
func applyRoster(s State, users []types.User) ([]Event, State, error) {
	merged := make([]Player, len(s.Players))
	copy(merged, s.Players)

	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[p.Username] = i
	}

	seen := make(map[string]bool, len(users))
	for _, u := range users {
		seen[u.Username] = true
		if i, ok := index[u.Username]; ok {
			p := &merged[i]
			if p.ID.IsZero() && !u.ID.IsZero() {
				p.ID = u.ID
			}
			p.Connected = u.IsConnected()
			if u.PPPath != "" {
				p.PPPath = u.PPPath
			}
		} else {
			index[u.Username] = len(merged)
			merged = append(merged, Player{
				ID:        u.ID,
				Username:  u.Username,
				Connected: u.IsConnected(),
				PPPath:    u.PPPath,
			})
		}
	}

	for i := range merged {
		if !seen[merged[i].Username] {
			merged[i].Connected = false
		}
	}

	newState := s
	newState.Players = merged
	for _, p := range merged {
		if p.Username == s.SelfUsername && !p.ID.IsZero() {
			newState.SelfID = p.ID
			break
		}
	}

	return []Event{{Type: EvtRosterUpdated}}, newState, nil
}

// FindPlayer looks a roster entry up by id using numeric coercion.
func FindPlayer(s State, id types.FlexID) (Player, bool) {
	for _, p := range s.Players {
		if p.ID.EqualNumeric(id) {
			return p, true
		}
	}
	return Player{}, false
}
