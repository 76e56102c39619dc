package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

// Bit is a flag encoded as the integer 0 or 1. Decoding also accepts JSON
// booleans and null (false).
type Bit bool

// MarshalJSON implements json.Marshaler.
func (b Bit) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bit) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", "false", "0":
		*b = false
		return nil
	case "true", "1":
		*b = true
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("bit must be 0, 1 or a boolean, got %s", data)
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("bit must be 0, 1 or a boolean, got %s", data)
	}
	*b = f != 0
	return nil
}

// Schema implements huma.SchemaProvider.
func (Bit) Schema(huma.Registry) *huma.Schema {
	lo, hi := 0.0, 1.0
	integer := &huma.Schema{Type: huma.TypeInteger, Minimum: &lo, Maximum: &hi}
	boolean := &huma.Schema{Type: huma.TypeBoolean}
	integer.PrecomputeMessages()
	boolean.PrecomputeMessages()

	return &huma.Schema{OneOf: []*huma.Schema{integer, boolean}}
}
