// Package session runs the per-game actor: it is the single writer of the
// local state mirror, applying inbound frames through the pure engine and
// translating the resulting events into presenter and variant-hook calls.
package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/caracaca/caracaca-client/internal/anim"
	"github.com/caracaca/caracaca-client/internal/catalog"
	"github.com/caracaca/caracaca-client/internal/engine"
	"github.com/caracaca/caracaca-client/internal/store"
	"github.com/caracaca/caracaca-client/internal/variant"
	"github.com/caracaca/caracaca-client/pkg/types"
)

// Sender writes outbound frames. The channel manager satisfies it.
type Sender interface {
	Send(ctx context.Context, f types.Frame) error
}

type Msg interface{ isSessionMsg() }

type RawFrame struct {
	Frame types.Frame
}

func (RawFrame) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// View reflects the actor's state without data races.
type View struct {
	Version int
	State   engine.State
}

// Deps are the collaborators a session needs. Presenter must be set; Hooks,
// Anim, and Catalog are optional.
type Deps struct {
	Sender    Sender
	Presenter Presenter
	Hooks     variant.Hooks
	Anim      *anim.Registry
	Store     *store.Store
	Catalog   *catalog.Catalog
	Log       *zap.Logger
}

type Session struct {
	inbox   chan Msg
	state   engine.State
	version int

	sender    Sender
	presenter Presenter
	hooks     variant.Hooks
	anim      *anim.Registry
	store     *store.Store
	catalog   *catalog.Catalog
	log       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, initial engine.State, deps Deps) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:     make(chan Msg, 64),
		state:     initial,
		sender:    deps.Sender,
		presenter: deps.Presenter,
		hooks:     deps.Hooks,
		anim:      deps.Anim,
		store:     deps.Store,
		catalog:   deps.Catalog,
		log:       deps.Log,
		ctx:       ctx,
		cancel:    cancel,
	}
	go s.loop()
	return s
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Attach forwards decoded channel frames into the actor until the channel or
// the session closes.
func (s *Session) Attach(frames <-chan types.Frame) {
	go func() {
		for {
			select {
			case <-s.ctx.Done():
				return
			case f, ok := <-frames:
				if !ok {
					return
				}
				select {
				case s.inbox <- RawFrame{Frame: f}:
				case <-s.ctx.Done():
					return
				}
			}
		}
	}()
}

// State is a synchronous snapshot of the actor's state.
func (s *Session) State() engine.State {
	reply := make(chan View, 1)
	select {
	case s.inbox <- GetState{Reply: reply}:
	case <-s.ctx.Done():
		return engine.State{}
	}
	select {
	case v := <-reply:
		return v.State
	case <-s.ctx.Done():
		return engine.State{}
	}
}

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case RawFrame:
				s.handleFrame(msg.Frame)

			case GetState:
				msg.Reply <- View{Version: s.version, State: s.state.Clone()}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) shutdown() {
	if s.anim != nil {
		s.anim.Clear()
	}
	s.cancel()
}

func (s *Session) handleFrame(f types.Frame) {
	events, newState, err := engine.Apply(s.state, f)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownKind) {
			s.log.Debug("ignoring unknown frame", zap.String("type", f.Type))
		} else {
			s.log.Warn("dropping frame", zap.String("type", f.Type), zap.Error(err))
		}
		return
	}
	s.state = newState
	s.version++

	for _, e := range events {
		s.handleEvent(e)
	}
}

// handleEvent turns one engine event into its side effects. Protocol state is
// already updated by the time this runs; everything here is presentation or
// follow-up traffic.
func (s *Session) handleEvent(e engine.Event) {
	switch e.Type {
	case engine.EvtJoined, engine.EvtRestarted:
		// Joining (or a restart) invalidates everything we mirror, so pull a
		// fresh snapshot and roster.
		s.request(types.KindGameStateRequest)
		s.request(types.KindConnectedUsers)
		if e.Type == engine.EvtRestarted {
			s.presenter.ShowNotice("game restarted")
		}

	case engine.EvtRosterUpdated:
		if !s.hooks.Roster(s.state.Players) {
			s.presenter.RenderRoster(s.state.Players)
		}

	case engine.EvtHandUpdated:
		hand := engine.SelfHand(s.state)
		s.presenter.RenderHand(hand)
		s.sendHandTelemetry(len(hand))

	case engine.EvtSlotUpdated:
		card := s.resolveCard(e.CardID)
		if !s.hooks.Slot(e.PlayerID, card) {
			s.presenter.RenderSlot(e.PlayerID, card)
		}

	case engine.EvtSlotsCleared:
		if !s.hooks.Clear() {
			s.presenter.ClearSlots()
		}

	case engine.EvtTurnChanged:
		if !s.hooks.Turn(e.PlayerID) {
			s.presenter.HighlightTurn(e.PlayerID)
		}

	case engine.EvtCardPlayed:
		key := anim.PlayKey(e.PlayerID, e.CardID)
		if s.anim != nil && s.anim.InFlight(key) {
			// Already rendered through the optimistic local path.
			return
		}
		if s.anim != nil {
			s.anim.MarkInFlight(key, anim.DefaultTTL)
		}
		s.presenter.PlayCardEffect(e.PlayerID, s.resolveCard(e.CardID), e.War)

	case engine.EvtCardDrawn:
		s.presenter.ShowNotice(fmt.Sprintf("%s drew a card", e.Username))

	case engine.EvtRoundWon:
		s.presenter.AnnounceRoundResult(e.Username, e.CardCount, e.Round)
		// The result broadcast carries no hands; re-request the snapshot.
		s.request(types.KindGameStateRequest)

	case engine.EvtRoundChanged, engine.EvtPhaseChanged:
		// State-only transitions; the snapshot that caused them already fired
		// the render events.

	case engine.EvtGameEnded:
		s.presenter.AnnounceGameEnd(e.Username)

	case engine.EvtRedirect:
		// A redirect can be broadcast to every player including the one who
		// initiated it; the navigation flags make the repeat a no-op.
		if s.store != nil && s.store.IntentionalNavigation() {
			return
		}
		if s.store != nil {
			s.store.MarkNavigation()
		}
		s.presenter.RedirectToLobby()

	case engine.EvtNotice:
		s.presenter.ShowNotice(e.Text)

	case engine.EvtChat:
		s.presenter.ShowChat(e.Username, e.Text, e.PPPath)

	case engine.EvtWarStarted:
		s.hooks.War(e.WarRound, "")
		s.presenter.AnnounceWar(e.WarRound)

	case engine.EvtWarProgress:
		s.hooks.War(s.state.War.WarRound, e.Text)
		s.presenter.ShowNotice(e.Text)
	}
}

// request sends a bare query frame for the current game.
func (s *Session) request(kind string) {
	f := types.Frame{Type: kind, GameID: s.state.GameID}
	if s.store != nil {
		f.AuthToken = s.store.Token()
	}
	if err := s.sender.Send(s.ctx, f); err != nil {
		s.log.Warn("request send failed", zap.String("kind", kind), zap.Error(err))
	}
}

// sendHandTelemetry reports the local hand size so the server can render
// card-count badges for the other players.
func (s *Session) sendHandTelemetry(count int) {
	f := types.Frame{Type: types.KindPlayerHandUpdate, GameID: s.state.GameID, CardCount: count}
	if s.store != nil {
		f.AuthToken = s.store.Token()
	}
	if err := s.sender.Send(s.ctx, f); err != nil {
		s.log.Debug("hand telemetry send failed", zap.Error(err))
	}
}

// resolveCard fills in rank/suit/picture from the catalog when available.
// Frames often carry bare ids; the catalog is the static side of the card.
func (s *Session) resolveCard(id types.FlexID) types.Card {
	if s.catalog != nil {
		if card, ok := s.catalog.Lookup(id); ok {
			return card
		}
	}
	return types.Card{ID: id}
}
