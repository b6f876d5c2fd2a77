package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// AddressSize is the length of an account address in bytes.
const AddressSize = 32

// Address represents a 256-bit account address. On first use it equals the
// account's authentication key; after an on-chain key rotation the two may
// differ.
type Address [AddressSize]byte

// AddressFromHex parses an address from hex text. The "0x" prefix is
// optional and short forms (leading zeros trimmed) are accepted; the value
// is left-padded to the full 32 bytes.
func AddressFromHex(s string) (Address, error) {
	b, err := ParseHex(s)
	if err != nil {
		return Address{}, fmt.Errorf("parse address: %w", err)
	}
	if len(b) > AddressSize {
		return Address{}, fmt.Errorf("address too long: %d bytes, max %d", len(b), AddressSize)
	}
	var addr Address
	copy(addr[AddressSize-len(b):], b)
	return addr, nil
}

// AddressFromBytes converts a full-length byte slice into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressSize {
		return Address{}, fmt.Errorf("address must be %d bytes, got %d", AddressSize, len(b))
	}
	var addr Address
	copy(addr[:], b)
	return addr, nil
}

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Hex returns the canonical full-length rendering: "0x" + 64 hex digits.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Short returns the short-form rendering with leading zeros trimmed.
func (a Address) Short() string {
	return HexFromBytes(a[:]).Short()
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// String returns the canonical hex rendering.
func (a Address) String() string {
	return a.Hex()
}

// MarshalJSON encodes the address as a canonical hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Hex())
}

// UnmarshalJSON decodes an address from a hex string in any accepted form.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	addr, err := AddressFromHex(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
