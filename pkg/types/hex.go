// Package types defines core primitive types for the Meridian chain.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// HexString wraps a byte buffer with a canonical hex text form.
// The canonical rendering is "0x" followed by lowercase, even-length hex.
// Parsing accepts both prefixed and bare forms, uppercase digits, and
// odd-length input (a leading zero is added), so that every accepted
// representation round-trips back to the same bytes.
type HexString struct {
	data []byte
}

// NewHexString parses a hex text form into a HexString.
func NewHexString(s string) (HexString, error) {
	b, err := ParseHex(s)
	if err != nil {
		return HexString{}, err
	}
	return HexString{data: b}, nil
}

// HexFromBytes wraps a byte buffer in a HexString. The buffer is copied.
func HexFromBytes(b []byte) HexString {
	data := make([]byte, len(b))
	copy(data, b)
	return HexString{data: data}
}

// Bytes returns a copy of the underlying bytes.
func (h HexString) Bytes() []byte {
	b := make([]byte, len(h.data))
	copy(b, h.data)
	return b
}

// Hex returns the canonical "0x"-prefixed lowercase rendering.
func (h HexString) Hex() string {
	return "0x" + hex.EncodeToString(h.data)
}

// NoPrefix returns the lowercase hex rendering without the "0x" prefix.
func (h HexString) NoPrefix() string {
	return hex.EncodeToString(h.data)
}

// Short returns the canonical short form: "0x" followed by the hex digits
// with leading zeros trimmed. The zero value renders as "0x0".
func (h HexString) Short() string {
	s := strings.TrimLeft(hex.EncodeToString(h.data), "0")
	if s == "" {
		s = "0"
	}
	return "0x" + s
}

// String returns the canonical hex rendering.
func (h HexString) String() string {
	return h.Hex()
}

// MarshalJSON encodes the value as a canonical hex string.
func (h HexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

// UnmarshalJSON decodes a hex string in any accepted form.
func (h *HexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := ParseHex(s)
	if err != nil {
		return err
	}
	h.data = b
	return nil
}

// ParseHex decodes hex text into bytes. The "0x" prefix is optional,
// digits may be upper or lower case, and odd-length input is padded
// with a leading zero.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex %q: %w", s, err)
	}
	return b, nil
}
