package config

import "testing"

func TestFromEnv_DerivesWebSocketScheme(t *testing.T) {
	cases := []struct {
		name    string
		backend string
		want    string
	}{
		{"http to ws", "http://localhost:3000", "ws://localhost:3000"},
		{"https to wss", "https://example.com", "wss://example.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CARACACA_BACKEND_URL", tc.backend)
			t.Setenv("CARACACA_WS_URL", "")

			cfg, err := FromEnv()
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if cfg.WebSocketURL != tc.want {
				t.Fatalf("got %q, want %q", cfg.WebSocketURL, tc.want)
			}
		})
	}
}

func TestFromEnv_ExplicitWebSocketURLWins(t *testing.T) {
	t.Setenv("CARACACA_BACKEND_URL", "https://example.com")
	t.Setenv("CARACACA_WS_URL", "wss://rt.example.com")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.WebSocketURL != "wss://rt.example.com" {
		t.Fatalf("explicit ws url overridden: %q", cfg.WebSocketURL)
	}
}

func TestChannelEndpoint_EscapesToken(t *testing.T) {
	cfg := Config{WebSocketURL: "ws://localhost:3000"}
	got := cfg.ChannelEndpoint("a b+c")
	want := "ws://localhost:3000/ws?token=a+b%2Bc"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAPIEndpoint(t *testing.T) {
	cfg := Config{BackendURL: "http://localhost:3000"}
	if got := cfg.APIEndpoint("active-game"); got != "http://localhost:3000/active-game" {
		t.Fatalf("got %q", got)
	}
	if got := cfg.APIEndpoint("/api/cards"); got != "http://localhost:3000/api/cards" {
		t.Fatalf("got %q", got)
	}
}
