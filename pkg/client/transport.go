// Package client exposes the public operations of the Meridian SDK:
// wallet creation, transaction submission with bounded confirmation, and
// token-ownership queries reconstructed from event streams.
package client

import (
	"context"
	"encoding/json"

	"github.com/meridian-chain/meridian-go/pkg/tx"
	"github.com/meridian-chain/meridian-go/pkg/types"
)

// TxStatus is the node-reported state of a submitted transaction.
type TxStatus int

const (
	StatusPending TxStatus = iota
	StatusConfirmed
	StatusRejected
)

// Confirmation is the outcome of a status poll. Reason carries the chain's
// rejection reason verbatim when Status is StatusRejected.
type Confirmation struct {
	Status TxStatus
	Reason string
}

// Resource is one typed account resource as returned by the node.
type Resource struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Transport is the external collaborator the core consumes. Its main
// implementation is restclient.Client; tests substitute a deterministic
// fake. Every method is a suspension point and honors context
// cancellation.
type Transport interface {
	// SequenceNumber reads the account's current sequence number. It must
	// be called immediately before building a transaction; the value is
	// never cached.
	SequenceNumber(ctx context.Context, address types.Address) (uint64, error)

	// ChainID reads the chain id of the connected network.
	ChainID(ctx context.Context) (uint8, error)

	// Submit sends a signed envelope and returns the transaction hash.
	// Submission is never retried by the core: the same signed bytes may
	// already be in flight after a transient failure.
	Submit(ctx context.Context, signed *tx.SignedTransaction) (string, error)

	// TransactionStatus reports the current state of a transaction.
	TransactionStatus(ctx context.Context, hash string) (Confirmation, error)

	// AccountResources lists the account's resources in node order.
	AccountResources(ctx context.Context, address types.Address) ([]Resource, error)

	// EventPage fetches one page of an event stream, events in ascending
	// sequence-number order. A nil cursor starts from the beginning; the
	// returned page's Next is nil when the stream is exhausted.
	EventPage(ctx context.Context, address types.Address, handle, field string, cursor *types.Cursor) (types.EventPage, error)

	// Fund requests dev-network faucet coins for an address. Best effort.
	Fund(ctx context.Context, address types.Address, amount uint64) error
}
