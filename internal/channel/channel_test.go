package channel

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/caracaca/caracaca-client/internal/auth"
	"github.com/caracaca/caracaca-client/internal/config"
	"github.com/caracaca/caracaca-client/internal/relay"
	"github.com/caracaca/caracaca-client/internal/store"
	"github.com/caracaca/caracaca-client/pkg/types"
)

type fakeNotifier struct{ fired atomic.Int32 }

func (n *fakeNotifier) DisconnectBeacon() { n.fired.Add(1) }

func startRelay(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := relay.NewHub(ctx, zaptest.NewLogger(t))
	srv := httptest.NewServer(relay.Routes(h, zaptest.NewLogger(t)))
	t.Cleanup(srv.Close)
	return srv
}

func testToken(t *testing.T, username string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"userName": username, "exp": exp.Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func testConfig(srv *httptest.Server) config.Config {
	return config.Config{
		WebSocketURL:      strings.Replace(srv.URL, "http", "ws", 1),
		ProbeInterval:     50 * time.Millisecond,
		ReadyPollInterval: 10 * time.Millisecond,
	}
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	st.SetToken(testToken(t, "alice", time.Now().Add(time.Hour)))
	st.SetUsername("alice")
	st.SetGameID("7")
	return st
}

func recvFrame(t *testing.T, m *Manager) types.Frame {
	t.Helper()
	select {
	case f := <-m.Frames():
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return types.Frame{}
	}
}

func TestOpen_RejectsMissingAndExpiredCredential(t *testing.T) {
	srv := startRelay(t)
	st := store.New()
	m := NewManager(context.Background(), testConfig(srv), st, nil, nil, zaptest.NewLogger(t))
	assert.ErrorIs(t, m.Open(context.Background()), auth.ErrNoToken)

	st.SetToken(testToken(t, "alice", time.Now().Add(-time.Minute)))
	assert.ErrorIs(t, m.Open(context.Background()), auth.ErrTokenExpired)
}

func TestOpen_SendsJoinOnceReady(t *testing.T) {
	srv := startRelay(t)
	st := testStore(t)

	var ready atomic.Bool
	m := NewManager(context.Background(), testConfig(srv), st, nil, ready.Load, zaptest.NewLogger(t))
	t.Cleanup(m.Close)

	require.NoError(t, m.Open(context.Background()))
	assert.Equal(t, StateOpen, m.State())

	// Nothing until the readiness gate opens.
	select {
	case f := <-m.Frames():
		t.Fatalf("unexpected frame before ready: %s", f.Type)
	case <-time.After(100 * time.Millisecond):
	}

	ready.Store(true)
	// The relay echoes broadcasts back to the sender.
	f := recvFrame(t, m)
	assert.Equal(t, types.KindJoinGame, f.Type)
	assert.Equal(t, "7", f.GameID.String())
	assert.Equal(t, "alice", f.Username)
}

func TestSend_FailsWhenClosed(t *testing.T) {
	srv := startRelay(t)
	m := NewManager(context.Background(), testConfig(srv), testStore(t), nil, nil, zaptest.NewLogger(t))
	err := m.Send(context.Background(), types.Frame{Type: types.KindChatMessage})
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestClose_UngracefulSendsDisconnectAndBeacon(t *testing.T) {
	srv := startRelay(t)
	st := testStore(t)
	notifier := &fakeNotifier{}

	m := NewManager(context.Background(), testConfig(srv), st, notifier, nil, zaptest.NewLogger(t))
	require.NoError(t, m.Open(context.Background()))
	recvFrame(t, m) // own join echo

	// A second raw connection observes the broadcast disconnect notice.
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	watcher, _, err := websocket.Dial(ctx, testConfig(srv).WebSocketURL+"/ws?token=watcher", nil)
	require.NoError(t, err)
	defer watcher.Close(websocket.StatusNormalClosure, "test done")

	m.Close()
	assert.Equal(t, int32(1), notifier.fired.Load())

	_, data, err := watcher.Read(ctx)
	require.NoError(t, err)
	f, err := types.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, types.KindDisconnect, f.Type)
	assert.Equal(t, "7", f.GameID.String())
}

func TestClose_IntentionalNavigationIsQuiet(t *testing.T) {
	srv := startRelay(t)
	st := testStore(t)
	notifier := &fakeNotifier{}

	m := NewManager(context.Background(), testConfig(srv), st, notifier, nil, zaptest.NewLogger(t))
	require.NoError(t, m.Open(context.Background()))
	recvFrame(t, m)

	st.MarkNavigation()
	m.Close()
	assert.Equal(t, int32(0), notifier.fired.Load())
	assert.Equal(t, StateClosed, m.State())
}

func TestProbe_ReconnectsAfterDrop(t *testing.T) {
	srv := startRelay(t)
	st := testStore(t)

	m := NewManager(context.Background(), testConfig(srv), st, nil, nil, zaptest.NewLogger(t))
	t.Cleanup(m.Close)
	require.NoError(t, m.Open(context.Background()))
	recvFrame(t, m) // first join echo

	// Kill the connection out from under the manager.
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	require.NotNil(t, conn)
	_ = conn.Close(websocket.StatusGoingAway, "dropped")

	// The probe redials and a fresh join goes out.
	f := recvFrame(t, m)
	assert.Equal(t, types.KindJoinGame, f.Type)
	assert.Eventually(t, func() bool { return m.State() == StateOpen }, 2*time.Second, 20*time.Millisecond)
}

func TestProbe_StaysDownDuringNavigation(t *testing.T) {
	srv := startRelay(t)
	st := testStore(t)

	m := NewManager(context.Background(), testConfig(srv), st, nil, nil, zaptest.NewLogger(t))
	t.Cleanup(m.Close)
	require.NoError(t, m.Open(context.Background()))
	recvFrame(t, m)

	st.MarkNavigation()
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	_ = conn.Close(websocket.StatusGoingAway, "navigating")

	// Several probe intervals pass without a redial.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, StateClosed, m.State())
}
