package client

import (
	"context"
	"strings"
	"testing"

	"github.com/meridian-chain/meridian-go/pkg/types"
)

// seedTokenHistory gives the address three distinct tokens and then
// removes the second one again.
func seedTokenHistory(chain *fakeChain, owner, creator types.Address) []types.TokenID {
	ids := []types.TokenID{
		{Creator: creator, Collection: "gallery", Name: "one"},
		{Creator: creator, Collection: "gallery", Name: "two"},
		{Creator: creator, Collection: "gallery", Name: "three"},
	}
	for _, id := range ids {
		chain.appendDeposit(owner, id)
	}
	chain.appendWithdrawal(owner, ids[1])
	return ids
}

func TestOwnedTokens_PageSizeInvariant(t *testing.T) {
	creator, _ := types.AddressFromHex("0xc0ffee")
	owner, _ := types.AddressFromHex("0xbeef")

	for _, pageSize := range []int{0, 1, 2, 100} {
		chain := newFakeChain()
		chain.pageSize = pageSize
		ids := seedTokenHistory(chain, owner, creator)

		got, err := testClient(chain).OwnedTokens(context.Background(), owner)
		if err != nil {
			t.Fatalf("pageSize %d: OwnedTokens error: %v", pageSize, err)
		}
		if len(got) != 2 || got[0] != ids[0] || got[1] != ids[2] {
			t.Fatalf("pageSize %d: owned = %v, want [%v %v]", pageSize, got, ids[0], ids[2])
		}
	}
}

func TestOwnedTokens_RetriesTransientPageErrors(t *testing.T) {
	creator, _ := types.AddressFromHex("0xc0ffee")
	owner, _ := types.AddressFromHex("0xbeef")

	chain := newFakeChain()
	chain.eventErrs = 2
	ids := seedTokenHistory(chain, owner, creator)

	got, err := testClient(chain).OwnedTokens(context.Background(), owner)
	if err != nil {
		t.Fatalf("OwnedTokens error: %v, transient page failures should be retried", err)
	}
	if len(got) != 2 || got[0] != ids[0] || got[1] != ids[2] {
		t.Errorf("owned = %v, want [%v %v]", got, ids[0], ids[2])
	}
}

func TestOwnedTokens_GivesUpAfterRepeatedErrors(t *testing.T) {
	owner, _ := types.AddressFromHex("0xbeef")

	chain := newFakeChain()
	chain.eventErrs = 100

	_, err := testClient(chain).OwnedTokens(context.Background(), owner)
	if err == nil {
		t.Fatal("expected an error once retries are exhausted")
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("error = %v, want the transport failure preserved", err)
	}
}

func TestMintedTokens_FiltersByCreator(t *testing.T) {
	creator, _ := types.AddressFromHex("0xc0ffee")
	other, _ := types.AddressFromHex("0xdead")
	owner, _ := types.AddressFromHex("0xbeef")

	chain := newFakeChain()
	mine := types.TokenID{Creator: owner, Collection: "mine", Name: "self"}
	chain.appendDeposit(owner, mine)
	chain.appendDeposit(owner, types.TokenID{Creator: creator, Collection: "gallery", Name: "one"})
	chain.appendDeposit(owner, types.TokenID{Creator: other, Collection: "other", Name: "two"})

	got, err := testClient(chain).MintedTokens(context.Background(), owner)
	if err != nil {
		t.Fatalf("MintedTokens error: %v", err)
	}
	if len(got) != 1 || got[0] != mine {
		t.Errorf("minted = %v, want [%v]", got, mine)
	}
}

func TestAllReceivedTokens_EmptyHistory(t *testing.T) {
	owner, _ := types.AddressFromHex("0xbeef")

	got, err := testClient(newFakeChain()).AllReceivedTokens(context.Background(), owner)
	if err != nil {
		t.Fatalf("AllReceivedTokens error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("received = %v, want empty", got)
	}
}
