// Package token reconstructs token ownership from an account's deposit
// and withdrawal event streams.
//
// Reconciliation is set-membership over token identities, not a balance
// ledger: a deposit and a withdrawal pair iff their TokenID triples are
// equal, regardless of quantity or the relative order of the two streams.
// For token types with supply > 1 this cannot distinguish a full from a
// partial withdrawal; that limitation is part of the chain's event model.
package token

import "github.com/meridian-chain/meridian-go/pkg/types"

// Event handle and field names of the on-chain token store.
const (
	StoreHandle   = "0x3::token::TokenStore"
	DepositField  = "deposit_events"
	WithdrawField = "withdraw_events"
)

// Owned returns every token identity appearing in the deposit stream with
// no identity-equal counterpart in the withdrawal stream. Order follows
// first appearance in the deposit stream.
func Owned(deposits, withdrawals []types.Event) []types.TokenID {
	withdrawn := make(map[types.TokenID]struct{}, len(withdrawals))
	for _, ev := range withdrawals {
		withdrawn[ev.Data.ID] = struct{}{}
	}

	var owned []types.TokenID
	seen := make(map[types.TokenID]struct{}, len(deposits))
	for _, ev := range deposits {
		id := ev.Data.ID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, out := withdrawn[id]; !out {
			owned = append(owned, id)
		}
	}
	return owned
}

// Minted returns the identities from the deposit stream whose creator
// equals the given address, i.e. tokens the address minted itself.
func Minted(deposits []types.Event, creator types.Address) []types.TokenID {
	var minted []types.TokenID
	seen := make(map[types.TokenID]struct{}, len(deposits))
	for _, ev := range deposits {
		id := ev.Data.ID
		if id.Creator != creator {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		minted = append(minted, id)
	}
	return minted
}

// Received returns every identity ever deposited, irrespective of later
// withdrawal.
func Received(deposits []types.Event) []types.TokenID {
	var received []types.TokenID
	seen := make(map[types.TokenID]struct{}, len(deposits))
	for _, ev := range deposits {
		id := ev.Data.ID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		received = append(received, id)
	}
	return received
}

// Dedupe removes events whose sequence number was already seen, keeping
// the first occurrence. Pages fetched across a moving stream may overlap
// at their boundaries; sequence numbers are monotonic per handle, so they
// identify duplicates exactly.
func Dedupe(events []types.Event) []types.Event {
	seen := make(map[uint64]struct{}, len(events))
	out := events[:0:0]
	for _, ev := range events {
		if _, dup := seen[ev.SequenceNumber]; dup {
			continue
		}
		seen[ev.SequenceNumber] = struct{}{}
		out = append(out, ev)
	}
	return out
}
