package types

import (
	"encoding/json"
	"testing"
)

func TestFlexID_DecodeNormalizes(t *testing.T) {
	cases := []struct {
		in   string
		want FlexID
	}{
		{`3`, "3"},
		{`"3"`, "3"},
		{`"07"`, "7"},
		{`null`, ""},
		{`"abc-123"`, "abc-123"},
	}
	for _, tc := range cases {
		var id FlexID
		if err := json.Unmarshal([]byte(tc.in), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if id != tc.want {
			t.Errorf("unmarshal %s = %q, want %q", tc.in, id, tc.want)
		}
	}
}

func TestFlexID_EqualNumeric(t *testing.T) {
	cases := []struct {
		a, b FlexID
		want bool
	}{
		{"3", "3", true},
		{"3", "03", true},
		{"3", "4", false},
		{"", "", false},
		{"3", "", false},
		{"abc", "abc", false}, // both must coerce to numbers
	}
	for _, tc := range cases {
		if got := tc.a.EqualNumeric(tc.b); got != tc.want {
			t.Errorf("EqualNumeric(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestFlexID_SharedMapKeyAcrossEncodings(t *testing.T) {
	// A hand keyed by a numeric id must be found when the same id later
	// arrives quoted.
	var snap GameState
	payload := []byte(`{"playerHands":{"7":[{"id":1}]},"currentTurn":"07"}`)
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatal(err)
	}
	if _, ok := snap.PlayerHands[snap.CurrentTurn]; !ok {
		t.Errorf("hand lookup by normalized turn id failed; keys=%v turn=%q", snap.PlayerHands, snap.CurrentTurn)
	}
}

func TestFlexID_MarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal(struct {
		ID FlexID `json:"id"`
	}{ID: "3"})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"id":3}` {
		t.Errorf("numeric ids marshal as numbers, got %s", data)
	}
}
