package types

import "encoding/json"

// Message kinds. Every frame carries one of these in its "type" field plus a
// gameId and credential echo for server-side authorization.
const (
	// Client -> Server
	KindJoinGame         = "join_game"
	KindGameStateRequest = "game_state_request"
	KindDisconnect       = "disconnect"
	KindPlayerHandUpdate = "player_hand_update"
	KindChatMessage      = "chat_message"

	// Server -> Client
	KindJoinGameSuccess = "join_game_success"
	KindGameState       = "game_state"
	KindTurnChange      = "turn_change"
	KindRoundResult     = "round_result"
	KindGameRestart     = "game_restart"
	KindGameEnd         = "game_end"
	KindError           = "error"
	KindMessage         = "message"
	KindWarStart        = "war_start"
	KindWarProgress     = "war_progress"

	// Both directions
	KindConnectedUsers  = "connected_users"
	KindPlayerAction    = "player_action"
	KindRedirectToLobby = "redirect_to_lobby"
)

// Action kinds carried inside player_action frames.
const (
	ActionPlayCard    = "play_card"
	ActionPlayWarCard = "play_war_card"
	ActionDrawCard    = "draw_card"
)

// Action is a player move, nested inside a player_action frame. It describes
// the move for presentation purposes only; hand truth arrives via the next
// game_state snapshot.
type Action struct {
	Type    string `json:"type"`
	CardID  FlexID `json:"cardId,omitempty"`
	WarMode bool   `json:"warMode,omitempty"`
}

// Frame is the wire envelope. All protocol messages are flat JSON objects
// discriminated by Type; fields not relevant to a given kind are simply
// absent.
type Frame struct {
	Type      string `json:"type"`
	GameID    FlexID `json:"gameId,omitempty"`
	AuthToken string `json:"auth_token,omitempty"`

	// connected_users
	Users []User `json:"users,omitempty"`

	// game_state
	GameState *GameState `json:"gameState,omitempty"`

	// player_action / turn_change
	PlayerID FlexID  `json:"playerId,omitempty"`
	Username string  `json:"username,omitempty"`
	Action   *Action `json:"action,omitempty"`

	// chat / error. For chat frames Message is the text and Owner the sender;
	// for error frames Message is the human-readable failure.
	Message string `json:"message,omitempty"`
	Owner   string `json:"owner,omitempty"`
	UserPP  string `json:"user_pp_path,omitempty"`

	// round_result / game_end
	WinnerID   FlexID `json:"winnerId,omitempty"`
	WinnerName string `json:"winnerName,omitempty"`
	CardCount  int    `json:"cardCount,omitempty"`
	NewRound   int    `json:"newRound,omitempty"`

	// war_start
	WarRound int `json:"warRound,omitempty"`
}

// Decode parses a raw websocket frame. Malformed payloads are reported to the
// caller, which drops them and keeps processing.
func Decode(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// Encode marshals a frame for sending.
func Encode(f Frame) ([]byte, error) {
	return json.Marshal(f)
}
