// Package tx builds and signs Meridian transactions.
package tx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/meridian-chain/meridian-go/pkg/types"
)

// ErrInvalidArgument is returned when a payload argument fails validation.
var ErrInvalidArgument = errors.New("invalid argument")

// Entry-function identifiers of the framework modules the typed
// constructors target.
const (
	transferFunction         = "0x1::coin::transfer"
	createCollectionFunction = "0x3::token::create_collection_script"
	createTokenFunction      = "0x3::token::create_token_script"
	offerTokenFunction       = "0x3::token_transfers::offer_script"
	cancelOfferFunction      = "0x3::token_transfers::cancel_offer_script"
	claimTokenFunction       = "0x3::token_transfers::claim_script"

	// MeridianCoinType is the type tag of the native coin.
	MeridianCoinType = "0x1::meridian_coin::MeridianCoin"
)

// Payload is an entry-function call: a fully-qualified function
// identifier plus ordered type arguments and ordered string-encoded
// arguments. Integer arguments are rendered as decimal strings because
// the wire format requires textual integers for 64-bit-range values.
// A Payload is immutable once built.
type Payload struct {
	Function string   `json:"function"`
	TypeArgs []string `json:"type_arguments"`
	Args     []string `json:"arguments"`
}

// TransferPayload builds a coin transfer to a recipient.
func TransferPayload(recipient types.Address, amount uint64) (Payload, error) {
	if recipient.IsZero() {
		return Payload{}, fmt.Errorf("%w: recipient address is empty", ErrInvalidArgument)
	}
	return Payload{
		Function: transferFunction,
		TypeArgs: []string{MeridianCoinType},
		Args:     []string{recipient.Hex(), formatAmount(amount)},
	}, nil
}

// CreateCollectionPayload builds a create-collection call. Maximum is the
// cap on tokens in the collection; zero means unbounded.
func CreateCollectionPayload(name, description, uri string, maximum uint64) (Payload, error) {
	if strings.TrimSpace(name) == "" {
		return Payload{}, fmt.Errorf("%w: collection name is empty", ErrInvalidArgument)
	}
	return Payload{
		Function: createCollectionFunction,
		TypeArgs: []string{},
		Args:     []string{name, description, uri, formatAmount(maximum)},
	}, nil
}

// CreateTokenPayload builds a create-token call within an existing
// collection. Supply must be at least 1.
func CreateTokenPayload(collection, name, description string, supply uint64, uri string) (Payload, error) {
	if strings.TrimSpace(collection) == "" {
		return Payload{}, fmt.Errorf("%w: collection name is empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(name) == "" {
		return Payload{}, fmt.Errorf("%w: token name is empty", ErrInvalidArgument)
	}
	if supply == 0 {
		return Payload{}, fmt.Errorf("%w: token supply must be at least 1", ErrInvalidArgument)
	}
	return Payload{
		Function: createTokenFunction,
		TypeArgs: []string{},
		Args:     []string{collection, name, description, formatAmount(supply), uri},
	}, nil
}

// OfferTokenPayload builds an offer of a token to a receiver. The token is
// identified by its natural key (creator, collection, name).
func OfferTokenPayload(receiver types.Address, id types.TokenID, amount uint64) (Payload, error) {
	if receiver.IsZero() {
		return Payload{}, fmt.Errorf("%w: receiver address is empty", ErrInvalidArgument)
	}
	if err := validateTokenID(id); err != nil {
		return Payload{}, err
	}
	if amount == 0 {
		return Payload{}, fmt.Errorf("%w: offer amount must be at least 1", ErrInvalidArgument)
	}
	return Payload{
		Function: offerTokenFunction,
		TypeArgs: []string{},
		Args:     []string{receiver.Hex(), id.Creator.Hex(), id.Collection, id.Name, formatAmount(amount)},
	}, nil
}

// CancelOfferPayload builds a cancellation of a pending token offer.
func CancelOfferPayload(receiver types.Address, id types.TokenID) (Payload, error) {
	if receiver.IsZero() {
		return Payload{}, fmt.Errorf("%w: receiver address is empty", ErrInvalidArgument)
	}
	if err := validateTokenID(id); err != nil {
		return Payload{}, err
	}
	return Payload{
		Function: cancelOfferFunction,
		TypeArgs: []string{},
		Args:     []string{receiver.Hex(), id.Creator.Hex(), id.Collection, id.Name},
	}, nil
}

// ClaimTokenPayload builds a claim of a token offered by sender.
func ClaimTokenPayload(sender types.Address, id types.TokenID) (Payload, error) {
	if sender.IsZero() {
		return Payload{}, fmt.Errorf("%w: sender address is empty", ErrInvalidArgument)
	}
	if err := validateTokenID(id); err != nil {
		return Payload{}, err
	}
	return Payload{
		Function: claimTokenFunction,
		TypeArgs: []string{},
		Args:     []string{sender.Hex(), id.Creator.Hex(), id.Collection, id.Name},
	}, nil
}

// EntryFunctionPayload builds a generic entry-function call. The function
// identifier must be fully qualified: address::module::name.
func EntryFunctionPayload(function string, typeArgs, args []string) (Payload, error) {
	parts := strings.Split(function, "::")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Payload{}, fmt.Errorf("%w: function %q is not address::module::name", ErrInvalidArgument, function)
	}
	if _, err := types.AddressFromHex(parts[0]); err != nil {
		return Payload{}, fmt.Errorf("%w: function address: %v", ErrInvalidArgument, err)
	}
	if typeArgs == nil {
		typeArgs = []string{}
	}
	if args == nil {
		args = []string{}
	}
	return Payload{Function: function, TypeArgs: typeArgs, Args: args}, nil
}

func validateTokenID(id types.TokenID) error {
	if id.Creator.IsZero() {
		return fmt.Errorf("%w: token creator address is empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(id.Collection) == "" {
		return fmt.Errorf("%w: collection name is empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(id.Name) == "" {
		return fmt.Errorf("%w: token name is empty", ErrInvalidArgument)
	}
	return nil
}

func formatAmount(v uint64) string {
	return strconv.FormatUint(v, 10)
}
