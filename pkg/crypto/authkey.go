package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/meridian-chain/meridian-go/pkg/types"
)

// SchemeEd25519 is the signature-scheme byte for single-signature ed25519
// accounts. It is appended to the public key before hashing; the chain's
// verifier computes the same hash.
const SchemeEd25519 byte = 0x00

// AuthenticationKey is the 256-bit key the chain checks signatures against.
// A fresh account's address equals its authentication key.
type AuthenticationKey [32]byte

// AuthKeyFromPublicKey computes SHA3-256(publicKey || scheme byte) for a
// single-signature ed25519 account.
func AuthKeyFromPublicKey(publicKey []byte) AuthenticationKey {
	buf := make([]byte, 0, len(publicKey)+1)
	buf = append(buf, publicKey...)
	buf = append(buf, SchemeEd25519)
	return AuthenticationKey(sha3.Sum256(buf))
}

// Address returns the authentication key as an account address.
func (ak AuthenticationKey) Address() types.Address {
	return types.Address(ak)
}

// Hex returns the canonical hex rendering.
func (ak AuthenticationKey) Hex() string {
	return types.HexFromBytes(ak[:]).Hex()
}

// Sha3256 computes a SHA3-256 hash of the input data.
func Sha3256(data []byte) [32]byte {
	return sha3.Sum256(data)
}
