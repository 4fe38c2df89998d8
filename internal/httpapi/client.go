// Package httpapi is the request/response side of the backend contract:
// session lookup/creation/join/start/restart, the debug forced-finish, the
// card catalog fetch, and the fire-and-forget disconnect beacon.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/caracaca/caracaca-client/internal/config"
	"github.com/caracaca/caracaca-client/pkg/types"
)

var ErrNoActiveGame = errors.New("no active game")

// Game is a session as the lobby endpoints describe it.
type Game struct {
	ID          types.FlexID `json:"idGame"`
	Name        string       `json:"name,omitempty"`
	GameType    string       `json:"gameType,omitempty"`
	PlayerCount int          `json:"playerCount,omitempty"`
}

// Client talks to the backend REST endpoints. The credential token is read
// per request so a refreshed login is picked up without rebuilding the
// client.
type Client struct {
	cfg   config.Config
	http  *http.Client
	token func() string
	log   *zap.Logger
}

func NewClient(cfg config.Config, token func() string, log *zap.Logger) *Client {
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: 10 * time.Second},
		token: token,
		log:   log,
	}
}

// ActiveGame asks whether this user is currently in a game.
func (c *Client) ActiveGame(ctx context.Context) (Game, error) {
	var out struct {
		Game *Game `json:"game"`
	}
	err := c.do(ctx, http.MethodGet, "/active-game", nil, &out)
	if err != nil {
		return Game{}, err
	}
	if out.Game == nil || out.Game.ID.IsZero() {
		return Game{}, ErrNoActiveGame
	}
	return *out.Game, nil
}

// Games lists joinable sessions.
func (c *Client) Games(ctx context.Context) ([]Game, error) {
	var out struct {
		Games []Game `json:"games"`
	}
	if err := c.do(ctx, http.MethodGet, "/games", nil, &out); err != nil {
		return nil, err
	}
	return out.Games, nil
}

// CreateGame creates a session and returns it.
func (c *Client) CreateGame(ctx context.Context, gameType string) (Game, error) {
	var out struct {
		Game *Game `json:"game"`
	}
	body := map[string]any{"gameType": gameType}
	if err := c.do(ctx, http.MethodPost, "/create-game", body, &out); err != nil {
		return Game{}, err
	}
	if out.Game == nil {
		return Game{}, fmt.Errorf("create-game: malformed response")
	}
	return *out.Game, nil
}

func (c *Client) JoinGame(ctx context.Context, gameID types.FlexID) error {
	return c.do(ctx, http.MethodPost, "/join-game", map[string]any{"gameId": gameID}, nil)
}

func (c *Client) StartGame(ctx context.Context, gameID types.FlexID) error {
	return c.do(ctx, http.MethodPost, "/start-game", map[string]any{"gameId": gameID}, nil)
}

func (c *Client) RestartGame(ctx context.Context, gameID types.FlexID) error {
	return c.do(ctx, http.MethodPost, "/restart-game", map[string]any{"gameId": gameID}, nil)
}

// FinishGame is the debug forced-finish.
func (c *Client) FinishGame(ctx context.Context, gameID types.FlexID) error {
	return c.do(ctx, http.MethodPost, "/finish-game", map[string]any{"gameId": gameID}, nil)
}

// Cards fetches the card catalog: an ordered collection of static entries.
func (c *Client) Cards(ctx context.Context) ([]types.Card, error) {
	var out struct {
		Cards []types.Card `json:"cards"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/cards", nil, &out); err != nil {
		return nil, err
	}
	return out.Cards, nil
}

// DisconnectBeacon is the best-effort out-of-band disconnect notice sent on
// ungraceful teardown. It runs on its own short deadline, ignores the
// response body, and never reports failure to the caller.
func (c *Client) DisconnectBeacon() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	endpoint := c.cfg.APIEndpoint("/disconnect-from-game") + "?auth_token=" + url.QueryEscape(c.token())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("disconnect beacon failed", zap.Error(err))
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIEndpoint(path), reader)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %s", method, path, apiError(resp))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// apiError pulls the backend's {"error": "..."} message out of a failure
// response, falling back to the HTTP status.
func apiError(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return body.Error
	}
	return resp.Status
}
