package tx

import (
	"encoding/binary"
	"time"

	"github.com/meridian-chain/meridian-go/pkg/crypto"
	"github.com/meridian-chain/meridian-go/pkg/types"
)

// Gas and expiration defaults applied by New when the caller leaves the
// corresponding GasParams fields zero.
const (
	DefaultMaxGasAmount  = 100_000
	DefaultGasUnitPrice  = 100
	DefaultExpirySeconds = 300
)

// GasParams carries the caller-tunable envelope fields. Zero fields take
// the package defaults.
type GasParams struct {
	MaxGasAmount        uint64
	GasUnitPrice        uint64
	ExpirationTimestamp uint64 // unix seconds; 0 means now + DefaultExpirySeconds
}

// RawTransaction is the unsigned transaction envelope. The sequence number
// must be read from the chain immediately before building; stale or reused
// sequence numbers are rejected by the chain.
type RawTransaction struct {
	Sender              types.Address
	SequenceNumber      uint64
	Payload             Payload
	MaxGasAmount        uint64
	GasUnitPrice        uint64
	ExpirationTimestamp uint64
	ChainID             uint8
}

// New assembles a raw transaction envelope. Building is pure given its
// inputs apart from the default expiration clock read.
func New(sender types.Address, sequenceNumber uint64, payload Payload, gas GasParams, chainID uint8) *RawTransaction {
	if gas.MaxGasAmount == 0 {
		gas.MaxGasAmount = DefaultMaxGasAmount
	}
	if gas.GasUnitPrice == 0 {
		gas.GasUnitPrice = DefaultGasUnitPrice
	}
	if gas.ExpirationTimestamp == 0 {
		gas.ExpirationTimestamp = uint64(time.Now().Unix()) + DefaultExpirySeconds
	}
	return &RawTransaction{
		Sender:              sender,
		SequenceNumber:      sequenceNumber,
		Payload:             payload,
		MaxGasAmount:        gas.MaxGasAmount,
		GasUnitPrice:        gas.GasUnitPrice,
		ExpirationTimestamp: gas.ExpirationTimestamp,
		ChainID:             chainID,
	}
}

// signingSalt is the domain separator prepended to every signing message
// so envelope bytes can never collide with another signed structure.
var signingSalt = crypto.Sha3256([]byte("MERIDIAN::RawTransaction"))

// SigningBytes returns the canonical byte serialization the signature
// covers. The chain's verifier computes the same bytes, so field order and
// encoding are fixed.
// Format: salt(32) | sender(32) | sequence_number(8 LE) | function(str) |
// type_args(vec<str>) | args(vec<str>) | max_gas(8 LE) | gas_price(8 LE) |
// expiration(8 LE) | chain_id(1), where str = len(4 LE) + bytes and
// vec = count(4 LE) + items.
func (t *RawTransaction) SigningBytes() []byte {
	var buf []byte
	buf = append(buf, signingSalt[:]...)
	buf = append(buf, t.Sender[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, t.SequenceNumber)

	buf = appendString(buf, t.Payload.Function)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.Payload.TypeArgs)))
	for _, ta := range t.Payload.TypeArgs {
		buf = appendString(buf, ta)
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.Payload.Args)))
	for _, a := range t.Payload.Args {
		buf = appendString(buf, a)
	}

	buf = binary.LittleEndian.AppendUint64(buf, t.MaxGasAmount)
	buf = binary.LittleEndian.AppendUint64(buf, t.GasUnitPrice)
	buf = binary.LittleEndian.AppendUint64(buf, t.ExpirationTimestamp)
	buf = append(buf, t.ChainID)
	return buf
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}
