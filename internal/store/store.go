// Package store holds the externally owned session bookkeeping: credential
// token, cached username, current game id, and the two navigation-intent
// flags that gate reconnect and disconnect behavior.
package store

import (
	"sync"

	"github.com/caracaca/caracaca-client/pkg/types"
)

// Store is the session-scoped equivalent of the browser's session storage.
// Components share one instance; there is no ambient global lookup.
type Store struct {
	mu       sync.RWMutex
	token    string
	username string
	gameID   types.FlexID

	// intentionalNav marks an in-app navigation: suppresses both the
	// reconnect loop and the teardown disconnect notice.
	intentionalNav bool
	// channelWasOpen records that the channel was already open going into a
	// navigation, so a close during it is expected.
	channelWasOpen bool
}

func New() *Store { return &Store{} }

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

func (s *Store) SetUsername(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
}

func (s *Store) GameID() types.FlexID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameID
}

func (s *Store) SetGameID(id types.FlexID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameID = id
}

func (s *Store) ClearGameID() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameID = ""
}

func (s *Store) IntentionalNavigation() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.intentionalNav
}

func (s *Store) ChannelWasOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channelWasOpen
}

// MarkNavigation sets both intent flags ahead of an in-app navigation.
func (s *Store) MarkNavigation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intentionalNav = true
	s.channelWasOpen = true
}

// ClearNavigation resets the intent flags once the new page has taken over.
func (s *Store) ClearNavigation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intentionalNav = false
	s.channelWasOpen = false
}
