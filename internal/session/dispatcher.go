package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/caracaca/caracaca-client/internal/anim"
	"github.com/caracaca/caracaca-client/internal/config"
	"github.com/caracaca/caracaca-client/internal/engine"
	"github.com/caracaca/caracaca-client/pkg/types"
)

var (
	ErrNotYourTurn       = errors.New("not your turn")
	ErrDuplicateDispatch = errors.New("card already submitted")
)

// LobbyAPI is the request/response side of game lifecycle control. The
// httpapi client satisfies it.
type LobbyAPI interface {
	StartGame(ctx context.Context, gameID types.FlexID) error
	RestartGame(ctx context.Context, gameID types.FlexID) error
	FinishGame(ctx context.Context, gameID types.FlexID) error
}

// Dispatcher encodes and sends client-initiated actions. Every send is
// guarded by current state: turn ownership for plays, duplicate-submission
// windows for repeat clicks. Sends are fire-and-forget; outcomes arrive later
// as independent inbound frames.
type Dispatcher struct {
	sess  *Session
	api   LobbyAPI
	guard time.Duration
}

func NewDispatcher(sess *Session, api LobbyAPI, guard time.Duration) *Dispatcher {
	if guard <= 0 {
		guard = config.DefaultDispatchGuard
	}
	return &Dispatcher{sess: sess, api: api, guard: guard}
}

// PlayCard submits one card. Repeat submissions of the same card inside the
// guard window collapse to a single outbound send. The local play effect runs
// immediately; the echoed broadcast is suppressed through the in-flight
// registry.
func (d *Dispatcher) PlayCard(ctx context.Context, cardID types.FlexID) error {
	st := d.sess.State()
	if !engine.IsMyTurn(st) {
		return ErrNotYourTurn
	}

	reg := d.sess.anim
	if reg != nil {
		key := anim.DispatchKey(cardID)
		if reg.InFlight(key) {
			return ErrDuplicateDispatch
		}
		reg.MarkInFlight(key, d.guard)
		reg.MarkInFlight(anim.PlayKey(st.SelfID, cardID), anim.DefaultTTL)
	}

	action := &types.Action{Type: types.ActionPlayCard, CardID: cardID}
	if st.War.InWar {
		action.Type = types.ActionPlayWarCard
		action.WarMode = true
	}

	f := types.Frame{
		Type:     types.KindPlayerAction,
		GameID:   st.GameID,
		PlayerID: st.SelfID,
		Username: st.SelfUsername,
		Action:   action,
	}
	if d.sess.store != nil {
		f.AuthToken = d.sess.store.Token()
	}

	d.sess.presenter.PlayCardEffect(st.SelfID, d.sess.resolveCard(cardID), st.War.InWar)
	if err := d.sess.sender.Send(ctx, f); err != nil {
		d.sess.log.Warn("play send failed", zap.Error(err))
		return err
	}
	return nil
}

// SendChat broadcasts a chat line.
func (d *Dispatcher) SendChat(ctx context.Context, text string) error {
	st := d.sess.State()
	f := types.Frame{
		Type:    types.KindChatMessage,
		GameID:  st.GameID,
		Message: text,
		Owner:   st.SelfUsername,
	}
	if d.sess.store != nil {
		f.AuthToken = d.sess.store.Token()
	}
	return d.sess.sender.Send(ctx, f)
}

// StartGame asks the backend to deal and begin. A variant with a player-count
// constraint can veto before the request goes out.
func (d *Dispatcher) StartGame(ctx context.Context) error {
	st := d.sess.State()
	if err := d.sess.hooks.CheckStart(st.Players); err != nil {
		return err
	}
	return d.api.StartGame(ctx, st.GameID)
}

func (d *Dispatcher) RestartGame(ctx context.Context) error {
	return d.api.RestartGame(ctx, d.sess.State().GameID)
}

// FinishGame forces the game to a finished state. Debug tooling only.
func (d *Dispatcher) FinishGame(ctx context.Context) error {
	return d.api.FinishGame(ctx, d.sess.State().GameID)
}

// ReturnToLobby performs an intentional exit: it sets the navigation flags
// first so teardown stays quiet, and when the game is over it tells the other
// players to leave too.
func (d *Dispatcher) ReturnToLobby(ctx context.Context) {
	st := d.sess.State()
	if d.sess.store != nil {
		d.sess.store.MarkNavigation()
	}
	if st.Phase == engine.PhaseFinished {
		f := types.Frame{Type: types.KindRedirectToLobby, GameID: st.GameID}
		if d.sess.store != nil {
			f.AuthToken = d.sess.store.Token()
		}
		if err := d.sess.sender.Send(ctx, f); err != nil {
			d.sess.log.Debug("redirect broadcast failed", zap.Error(err))
		}
	}
	if d.sess.store != nil {
		d.sess.store.ClearGameID()
	}
}
