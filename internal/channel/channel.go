// Package channel owns the websocket session channel: opening it with the
// stored credential, decoding inbound frames, probing liveness, reconnecting
// after unexpected drops, and tearing down with the right disconnect
// semantics for intentional versus ungraceful exits.
package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/caracaca/caracaca-client/internal/auth"
	"github.com/caracaca/caracaca-client/internal/config"
	"github.com/caracaca/caracaca-client/internal/store"
	"github.com/caracaca/caracaca-client/pkg/types"
)

var ErrNotOpen = errors.New("channel not open")

type State int

const (
	StateClosed State = iota
	StateConnecting
	StateOpen
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "closed"
	}
}

// DisconnectNotifier is the out-of-band disconnect notice, fired on
// ungraceful teardown alongside the in-band disconnect frame.
type DisconnectNotifier interface {
	DisconnectBeacon()
}

// Manager is the single owner of the websocket connection. Inbound frames are
// decoded and delivered on Frames(); malformed payloads are logged and
// dropped. One Manager survives across reconnects, so consumers keep reading
// the same channel.
type Manager struct {
	cfg      config.Config
	store    *store.Store
	notifier DisconnectNotifier
	ready    func() bool
	log      *zap.Logger

	frames chan types.Frame
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	conn     *websocket.Conn
	state    State
	attempts int
}

// NewManager builds a manager. The ready callback gates the automatic
// join_game send after each successful dial; nil means always ready.
func NewManager(parent context.Context, cfg config.Config, st *store.Store, notifier DisconnectNotifier, ready func() bool, log *zap.Logger) *Manager {
	if ready == nil {
		ready = func() bool { return true }
	}
	ctx, cancel := context.WithCancel(parent)
	return &Manager{
		cfg:      cfg,
		store:    st,
		notifier: notifier,
		ready:    ready,
		log:      log,
		frames:   make(chan types.Frame, 32),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Frames delivers decoded inbound frames in arrival order.
func (m *Manager) Frames() <-chan types.Frame { return m.frames }

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Open validates the stored credential, dials the channel, and starts the
// liveness probe. A missing or expired token fails before any dial happens.
func (m *Manager) Open(ctx context.Context) error {
	if err := auth.Check(m.store.Token(), time.Now()); err != nil {
		return err
	}
	if err := m.dial(ctx); err != nil {
		return err
	}
	go m.probeLoop()
	return nil
}

// Send writes a frame. Fails with ErrNotOpen when the channel is down; the
// caller decides whether that matters (the probe will bring it back).
func (m *Manager) Send(ctx context.Context, f types.Frame) error {
	m.mu.Lock()
	conn, state := m.conn, m.state
	m.mu.Unlock()
	if state != StateOpen || conn == nil {
		return ErrNotOpen
	}

	data, err := types.Encode(f)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", f.Type, err)
	}
	wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return conn.Write(wctx, websocket.MessageText, data)
}

// Close tears the channel down. An intentional navigation closes quietly;
// anything else sends a best-effort in-band disconnect frame and fires the
// out-of-band beacon so the server does not wait out a timeout.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.state == StateClosing || (m.state == StateClosed && m.conn == nil) {
		m.mu.Unlock()
		m.cancel()
		return
	}
	m.state = StateClosing
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn != nil && !m.store.IntentionalNavigation() {
		notice := types.Frame{
			Type:      types.KindDisconnect,
			GameID:    m.store.GameID(),
			AuthToken: m.store.Token(),
			Username:  m.store.Username(),
		}
		if data, err := types.Encode(notice); err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			_ = conn.Write(ctx, websocket.MessageText, data)
			cancel()
		}
		if m.notifier != nil {
			m.notifier.DisconnectBeacon()
		}
	}
	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "bye")
	}
	m.cancel()

	m.mu.Lock()
	m.state = StateClosed
	m.mu.Unlock()
}

func (m *Manager) dial(ctx context.Context) error {
	m.setState(StateConnecting)

	dctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(dctx, m.cfg.ChannelEndpoint(m.store.Token()), nil)
	if err != nil {
		m.setState(StateClosed)
		return fmt.Errorf("dial channel: %w", err)
	}

	m.mu.Lock()
	m.conn = conn
	m.state = StateOpen
	m.attempts = 0
	m.mu.Unlock()
	m.log.Info("channel open", zap.String("game", m.store.GameID().String()))

	go m.readLoop(conn)
	go m.joinWhenReady(conn)
	return nil
}

// joinWhenReady sends the join_game frame once per connection, polling until
// local bookkeeping reports ready. A reconnect gets its own fresh join.
func (m *Manager) joinWhenReady(conn *websocket.Conn) {
	for !m.ready() {
		select {
		case <-m.ctx.Done():
			return
		case <-time.After(m.cfg.ReadyPollInterval):
		}
	}

	m.mu.Lock()
	current := m.conn == conn && m.state == StateOpen
	m.mu.Unlock()
	if !current {
		return
	}

	join := types.Frame{
		Type:      types.KindJoinGame,
		GameID:    m.store.GameID(),
		AuthToken: m.store.Token(),
		Username:  m.store.Username(),
	}
	if err := m.Send(m.ctx, join); err != nil {
		m.log.Warn("join send failed", zap.Error(err))
	}
}

func (m *Manager) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(m.ctx)
		if err != nil {
			m.mu.Lock()
			if m.conn == conn {
				m.conn = nil
				if m.state != StateClosing {
					m.state = StateClosed
				}
			}
			state := m.state
			m.mu.Unlock()
			if state != StateClosing {
				m.log.Warn("channel dropped", zap.Error(err))
			}
			return
		}

		f, err := types.Decode(data)
		if err != nil {
			m.log.Warn("dropping malformed frame", zap.Error(err))
			continue
		}
		select {
		case m.frames <- f:
		case <-m.ctx.Done():
			return
		}
	}
}

// probeLoop checks the channel on a fixed interval and redials when it is
// down, unless the drop was part of an intentional navigation. Zero
// MaxReconnectAttempts means keep trying forever.
func (m *Manager) probeLoop() {
	ticker := time.NewTicker(m.cfg.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
		}

		if m.State() != StateClosed {
			continue
		}
		if m.store.IntentionalNavigation() {
			m.log.Debug("channel closed by navigation, not reconnecting")
			continue
		}

		m.mu.Lock()
		m.attempts++
		attempt := m.attempts
		m.mu.Unlock()
		if m.cfg.MaxReconnectAttempts > 0 && attempt > m.cfg.MaxReconnectAttempts {
			m.log.Warn("reconnect attempts exhausted", zap.Int("attempts", attempt-1))
			return
		}

		m.log.Info("reconnecting", zap.Int("attempt", attempt))
		if err := m.dial(m.ctx); err != nil {
			m.log.Warn("reconnect failed", zap.Error(err))
		}
	}
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}
