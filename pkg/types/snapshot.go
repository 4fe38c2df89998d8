package types

// Card is a static catalog entry. The catalog is fetched once at startup and
// never changes; Picture is a server-relative image path.
type Card struct {
	ID      FlexID `json:"id"`
	Rank    string `json:"rank"`
	Suit    string `json:"suit"`
	Picture string `json:"picture,omitempty"`
}

// User is one roster entry as the server reports it. Connected defaults to
// true when the field is absent: presence in a connected_users list means the
// player is online unless the server says otherwise.
type User struct {
	ID        FlexID `json:"id,omitempty"`
	Username  string `json:"username"`
	Connected *bool  `json:"connected,omitempty"`
	PPPath    string `json:"pp_path,omitempty"`
}

// IsConnected resolves the tri-state Connected field.
func (u User) IsConnected() bool {
	return u.Connected == nil || *u.Connected
}

// GameState is the authoritative snapshot broadcast by the server. Hands and
// played cards are full replacements, never deltas; reapplying the same
// snapshot twice must be a no-op.
type GameState struct {
	Phase       string            `json:"phase"`
	Round       int               `json:"round"`
	CurrentTurn FlexID            `json:"currentTurn"`
	PlayerHands map[FlexID][]Card `json:"playerHands,omitempty"`
	PlayedCards map[FlexID]*Card  `json:"playedCards,omitempty"`
	WarState    *WarState         `json:"warState,omitempty"`
}

// WarState is the forced-equal-value continuation sub-phase of the two-player
// elimination variant. Only present in snapshots while a war is unresolved.
type WarState struct {
	InWar    bool `json:"inWar"`
	WarRound int  `json:"warRound,omitempty"`
}
