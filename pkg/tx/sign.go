package tx

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/meridian-chain/meridian-go/pkg/crypto"
	"github.com/meridian-chain/meridian-go/pkg/types"
)

// ErrMissingField is returned when a required envelope field is absent at
// signing time. Signing never fails due to network state.
var ErrMissingField = errors.New("missing required field")

// SignedTransaction is an immutable, single-use signed envelope. The chain
// rejects resubmission with the same sequence number; this package never
// retries it.
type SignedTransaction struct {
	Raw       RawTransaction
	PublicKey []byte
	Signature []byte
}

// Sign signs the canonical byte serialization of the envelope. The result
// is deterministic: the same (key, envelope) pair always yields identical
// signature bytes.
func Sign(raw *RawTransaction, signer crypto.Signer) (*SignedTransaction, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: transaction", ErrMissingField)
	}
	if raw.Sender.IsZero() {
		return nil, fmt.Errorf("%w: sender", ErrMissingField)
	}
	if raw.Payload.Function == "" {
		return nil, fmt.Errorf("%w: payload function", ErrMissingField)
	}
	if raw.MaxGasAmount == 0 {
		return nil, fmt.Errorf("%w: max gas amount", ErrMissingField)
	}
	if raw.ExpirationTimestamp == 0 {
		return nil, fmt.Errorf("%w: expiration timestamp", ErrMissingField)
	}
	if raw.ChainID == 0 {
		return nil, fmt.Errorf("%w: chain id", ErrMissingField)
	}
	sig, err := signer.Sign(raw.SigningBytes())
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return &SignedTransaction{
		Raw:       *raw,
		PublicKey: signer.PublicKeyBytes(),
		Signature: sig,
	}, nil
}

// wire forms: u64 fields are textual on the wire.
type signedTransactionJSON struct {
	Sender              types.Address    `json:"sender"`
	SequenceNumber      string           `json:"sequence_number"`
	MaxGasAmount        string           `json:"max_gas_amount"`
	GasUnitPrice        string           `json:"gas_unit_price"`
	ExpirationTimestamp string           `json:"expiration_timestamp_secs"`
	ChainID             uint8            `json:"chain_id"`
	Payload             payloadJSON      `json:"payload"`
	Signature           accSignatureJSON `json:"signature"`
}

type payloadJSON struct {
	Type     string   `json:"type"`
	Function string   `json:"function"`
	TypeArgs []string `json:"type_arguments"`
	Args     []string `json:"arguments"`
}

type accSignatureJSON struct {
	Type      string `json:"type"`
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

// MarshalJSON encodes the signed envelope in the node submit format.
func (st *SignedTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(signedTransactionJSON{
		Sender:              st.Raw.Sender,
		SequenceNumber:      strconv.FormatUint(st.Raw.SequenceNumber, 10),
		MaxGasAmount:        strconv.FormatUint(st.Raw.MaxGasAmount, 10),
		GasUnitPrice:        strconv.FormatUint(st.Raw.GasUnitPrice, 10),
		ExpirationTimestamp: strconv.FormatUint(st.Raw.ExpirationTimestamp, 10),
		ChainID:             st.Raw.ChainID,
		Payload: payloadJSON{
			Type:     "entry_function_payload",
			Function: st.Raw.Payload.Function,
			TypeArgs: st.Raw.Payload.TypeArgs,
			Args:     st.Raw.Payload.Args,
		},
		Signature: accSignatureJSON{
			Type:      "ed25519_signature",
			PublicKey: types.HexFromBytes(st.PublicKey).Hex(),
			Signature: types.HexFromBytes(st.Signature).Hex(),
		},
	})
}
