package types

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexID is an identifier that the server may encode as either a JSON string
// or a JSON number, sometimes both for the same field within one session.
// It normalizes numeric values on decode so "3" and 3 compare equal and can
// share map keys.
type FlexID string

func (id FlexID) String() string { return string(id) }

// IsZero reports whether the id is unset. The server uses null/absent for
// "no current turn".
func (id FlexID) IsZero() bool { return id == "" }

// Int64 parses the id as a number. The second return is false when the id is
// unset or not numeric.
func (id FlexID) Int64() (int64, bool) {
	if id == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// EqualNumeric compares two ids after numeric coercion. Both sides must parse
// as numbers; anything else is not equal. This mirrors the turn-ownership
// check, which must never pass on a string/number representation mismatch and
// must never pass on garbage either.
func (id FlexID) EqualNumeric(other FlexID) bool {
	a, ok := id.Int64()
	if !ok {
		return false
	}
	b, ok := other.Int64()
	if !ok {
		return false
	}
	return a == b
}

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = normalize(s)
		return nil
	}
	// Raw number token. Keep integer text as-is; anything fancier (floats,
	// exponents) is preserved verbatim and will simply fail numeric coercion.
	*id = normalize(string(data))
	return nil
}

func (id FlexID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int64(); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalText normalizes ids used as JSON map keys (hands, played slots),
// which bypass UnmarshalJSON.
func (id *FlexID) UnmarshalText(data []byte) error {
	*id = normalize(string(data))
	return nil
}

func (id FlexID) MarshalText() ([]byte, error) {
	return []byte(id), nil
}

// normalize collapses numeric representations ("07", "7") to one canonical
// form so FlexIDs are usable as map keys.
func normalize(s string) FlexID {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return FlexID(strconv.FormatInt(n, 10))
	}
	return FlexID(s)
}
