package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexUint64 is a uint64 that unmarshals from either a JSON number or a JSON
// string. The portal frontend shuttles entity ids and levels through form
// state, so "3" and 3 both arrive in request bodies.
type FlexUint64 uint64

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexUint64) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "" || raw == "null" {
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("FlexUint64: %w", err)
		}
		raw = s
	}

	val, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("FlexUint64: %q is not an unsigned integer: %w", raw, err)
	}

	*f = FlexUint64(val)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexUint64) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint64(f))
}

// Uint64 converts FlexUint64 back to uint64.
func (f FlexUint64) Uint64() uint64 {
	return uint64(f)
}
