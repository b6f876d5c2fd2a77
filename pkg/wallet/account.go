package wallet

import (
	"errors"
	"fmt"

	"github.com/tyler-smith/go-bip39"

	"github.com/meridian-chain/meridian-go/pkg/crypto"
	"github.com/meridian-chain/meridian-go/pkg/types"
)

// ErrInvalidMnemonic is returned when a mnemonic fails BIP-39 validation.
// The caller must supply a corrected mnemonic; nothing is derived from
// invalid input.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// Account holds the key material and on-chain address of a Meridian
// account. Signing always uses the mnemonic-derived key pair; the address
// may be overridden for accounts rotated on chain.
type Account struct {
	key     *crypto.PrivateKey
	authKey crypto.AuthenticationKey
	address types.Address
}

// NewAccountFromMnemonic derives an account deterministically from a
// BIP-39 mnemonic. The mnemonic is checksum-validated before any seed is
// computed. Only the first 32 bytes of the 64-byte BIP-39 seed feed the
// signing key; this truncation is fixed for compatibility with existing
// accounts. The address defaults to the authentication key.
func NewAccountFromMnemonic(mnemonic string) (*Account, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("derive seed: %w", err)
	}
	key, err := crypto.PrivateKeyFromSeed(seed[:crypto.SeedSize])
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	authKey := crypto.AuthKeyFromPublicKey(key.PublicKeyBytes())
	return &Account{
		key:     key,
		authKey: authKey,
		address: authKey.Address(),
	}, nil
}

// NewAccountFromMnemonicWithAddress derives an account whose on-chain
// address differs from its authentication key (after a key rotation).
// The supplied address is used for fetches; signing still uses the
// mnemonic-derived key.
func NewAccountFromMnemonicWithAddress(mnemonic string, address types.Address) (*Account, error) {
	acct, err := NewAccountFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	if address.IsZero() {
		return nil, fmt.Errorf("address override must not be zero")
	}
	acct.address = address
	return acct, nil
}

// GenerateAccount creates a fresh mnemonic and the account derived from it.
func GenerateAccount() (string, *Account, error) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		return "", nil, err
	}
	acct, err := NewAccountFromMnemonic(mnemonic)
	if err != nil {
		return "", nil, err
	}
	return mnemonic, acct, nil
}

// Address returns the account's on-chain address.
func (a *Account) Address() types.Address {
	return a.address
}

// AuthKey returns the authentication key derived from the public key.
func (a *Account) AuthKey() crypto.AuthenticationKey {
	return a.authKey
}

// PublicKeyBytes returns the 32-byte public key.
func (a *Account) PublicKeyBytes() []byte {
	return a.key.PublicKeyBytes()
}

// Sign signs a message with the account's private key.
func (a *Account) Sign(message []byte) ([]byte, error) {
	return a.key.Sign(message)
}
