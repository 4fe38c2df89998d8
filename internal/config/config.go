// Package config derives the client's endpoints. The websocket URL follows
// the backend URL's scheme (http→ws, https→wss) unless set explicitly.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBackendURL = "http://localhost:3000"

	// DefaultProbeInterval is how often the channel liveness check runs.
	DefaultProbeInterval = 5 * time.Second
	// DefaultReadyPollInterval is how often a pending join retries while
	// local bookkeeping (catalog, presentation) is still loading.
	DefaultReadyPollInterval = 200 * time.Millisecond
	// DefaultDispatchGuard is the double-submission window for playCard.
	DefaultDispatchGuard = 500 * time.Millisecond
)

type Config struct {
	BackendURL   string
	WebSocketURL string

	ProbeInterval     time.Duration
	ReadyPollInterval time.Duration
	DispatchGuard     time.Duration

	// MaxReconnectAttempts caps the reconnect loop. 0 means unbounded, which
	// matches the original behavior and is the documented availability/risk
	// trade-off.
	MaxReconnectAttempts int
}

// FromEnv reads CARACACA_* variables. Call godotenv.Load beforehand if a
// .env file should participate.
func FromEnv() (Config, error) {
	cfg := Config{
		BackendURL:           strings.TrimSuffix(envOr("CARACACA_BACKEND_URL", defaultBackendURL), "/"),
		WebSocketURL:         strings.TrimSuffix(os.Getenv("CARACACA_WS_URL"), "/"),
		ProbeInterval:        DefaultProbeInterval,
		ReadyPollInterval:    DefaultReadyPollInterval,
		DispatchGuard:        DefaultDispatchGuard,
		MaxReconnectAttempts: 0,
	}

	if v := os.Getenv("CARACACA_MAX_RECONNECT_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid CARACACA_MAX_RECONNECT_ATTEMPTS %q", v)
		}
		cfg.MaxReconnectAttempts = n
	}

	if cfg.WebSocketURL == "" {
		derived, err := deriveWebSocketURL(cfg.BackendURL)
		if err != nil {
			return Config{}, err
		}
		cfg.WebSocketURL = derived
	}
	return cfg, nil
}

// APIEndpoint builds a backend URL for a request/response call.
func (c Config) APIEndpoint(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BackendURL + path
}

// ChannelEndpoint builds the session channel URL with the credential token
// appended as a query parameter.
func (c Config) ChannelEndpoint(token string) string {
	return fmt.Sprintf("%s/ws?token=%s", c.WebSocketURL, url.QueryEscape(token))
}

func deriveWebSocketURL(backendURL string) (string, error) {
	u, err := url.Parse(backendURL)
	if err != nil {
		return "", fmt.Errorf("parse backend url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// already a channel scheme
	default:
		return "", fmt.Errorf("cannot derive ws url from scheme %q", u.Scheme)
	}
	return strings.TrimSuffix(u.String(), "/"), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
