package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/meridian-chain/meridian-go/pkg/tx"
	"github.com/meridian-chain/meridian-go/pkg/types"
	"github.com/meridian-chain/meridian-go/pkg/wallet"
)

// fakeChain is a deterministic in-memory Transport. It executes the
// token and transfer entry functions far enough to emit the deposit and
// withdrawal events a real node would.
type fakeChain struct {
	mu sync.Mutex

	chainID     uint8
	sequences   map[types.Address]uint64
	balances    map[types.Address]uint64
	deposits    map[types.Address][]types.Event
	withdrawals map[types.Address][]types.Event
	eventSeqs   map[string]uint64

	submitted   []*tx.SignedTransaction
	submitCount int

	// pageSize > 0 splits event streams into pages of that size.
	pageSize int

	// pending forces every status poll to report pending.
	pending bool
	// rejectReason, when set, rejects every submitted transaction.
	rejectReason string
	// statusErrs fails the first n status polls with a transport error.
	statusErrs int
	// eventErrs fails the first n event page fetches.
	eventErrs int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		chainID:     4,
		sequences:   make(map[types.Address]uint64),
		balances:    make(map[types.Address]uint64),
		deposits:    make(map[types.Address][]types.Event),
		withdrawals: make(map[types.Address][]types.Event),
		eventSeqs:   make(map[string]uint64),
	}
}

func (f *fakeChain) SequenceNumber(_ context.Context, address types.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sequences[address], nil
}

func (f *fakeChain) ChainID(context.Context) (uint8, error) {
	return f.chainID, nil
}

func (f *fakeChain) Submit(_ context.Context, signed *tx.SignedTransaction) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sender := signed.Raw.Sender
	if signed.Raw.SequenceNumber != f.sequences[sender] {
		return "", fmt.Errorf("sequence number %d does not match %d", signed.Raw.SequenceNumber, f.sequences[sender])
	}
	f.sequences[sender]++
	f.submitCount++
	f.submitted = append(f.submitted, signed)
	hash := fmt.Sprintf("0xtx%04d", f.submitCount)

	if !f.pending && f.rejectReason == "" {
		f.execute(signed)
	}
	return hash, nil
}

// execute applies the payload's observable effects: balances and events.
func (f *fakeChain) execute(signed *tx.SignedTransaction) {
	payload := signed.Raw.Payload
	sender := signed.Raw.Sender
	args := payload.Args

	switch {
	case strings.HasSuffix(payload.Function, "::coin::transfer"):
		recipient, _ := types.AddressFromHex(args[0])
		var amount uint64
		fmt.Sscanf(args[1], "%d", &amount)
		f.balances[sender] -= amount
		f.balances[recipient] += amount

	case strings.HasSuffix(payload.Function, "::token::create_token_script"):
		id := types.TokenID{Creator: sender, Collection: args[0], Name: args[1]}
		f.appendDeposit(sender, id)

	case strings.HasSuffix(payload.Function, "::token_transfers::offer_script"):
		creator, _ := types.AddressFromHex(args[1])
		id := types.TokenID{Creator: creator, Collection: args[2], Name: args[3]}
		f.appendWithdrawal(sender, id)

	case strings.HasSuffix(payload.Function, "::token_transfers::cancel_offer_script"):
		creator, _ := types.AddressFromHex(args[1])
		id := types.TokenID{Creator: creator, Collection: args[2], Name: args[3]}
		f.appendDeposit(sender, id)

	case strings.HasSuffix(payload.Function, "::token_transfers::claim_script"):
		creator, _ := types.AddressFromHex(args[1])
		id := types.TokenID{Creator: creator, Collection: args[2], Name: args[3]}
		f.appendDeposit(sender, id)
	}
}

func (f *fakeChain) appendDeposit(address types.Address, id types.TokenID) {
	key := address.Hex() + "/deposit"
	seq := f.eventSeqs[key]
	f.eventSeqs[key]++
	f.deposits[address] = append(f.deposits[address], types.Event{
		SequenceNumber: seq,
		Type:           "0x3::token::DepositEvent",
		Data:           types.EventData{ID: id, Amount: 1},
	})
}

func (f *fakeChain) appendWithdrawal(address types.Address, id types.TokenID) {
	key := address.Hex() + "/withdraw"
	seq := f.eventSeqs[key]
	f.eventSeqs[key]++
	f.withdrawals[address] = append(f.withdrawals[address], types.Event{
		SequenceNumber: seq,
		Type:           "0x3::token::WithdrawEvent",
		Data:           types.EventData{ID: id, Amount: 1},
	})
}

func (f *fakeChain) TransactionStatus(_ context.Context, hash string) (Confirmation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErrs > 0 {
		f.statusErrs--
		return Confirmation{}, errors.New("connection reset")
	}
	if f.pending {
		return Confirmation{Status: StatusPending}, nil
	}
	if f.rejectReason != "" {
		return Confirmation{Status: StatusRejected, Reason: f.rejectReason}, nil
	}
	return Confirmation{Status: StatusConfirmed}, nil
}

func (f *fakeChain) AccountResources(_ context.Context, address types.Address) ([]Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, _ := json.Marshal(map[string]any{
		"coin": map[string]string{"value": fmt.Sprintf("%d", f.balances[address])},
	})
	return []Resource{{Type: coinStoreResource, Data: data}}, nil
}

func (f *fakeChain) EventPage(_ context.Context, address types.Address, _, field string, cursor *types.Cursor) (types.EventPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.eventErrs > 0 {
		f.eventErrs--
		return types.EventPage{}, errors.New("connection reset")
	}

	var stream []types.Event
	switch field {
	case "deposit_events":
		stream = f.deposits[address]
	case "withdraw_events":
		stream = f.withdrawals[address]
	default:
		return types.EventPage{}, fmt.Errorf("unknown field %q", field)
	}

	start := 0
	if cursor != nil {
		fmt.Sscanf(string(*cursor), "%d", &start)
	}
	if start >= len(stream) {
		return types.EventPage{}, nil
	}

	end := len(stream)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}
	page := types.EventPage{Events: append([]types.Event{}, stream[start:end]...)}
	if end < len(stream) {
		next := types.Cursor(fmt.Sprintf("%d", end))
		page.Next = &next
	}
	return page, nil
}

func (f *fakeChain) Fund(_ context.Context, address types.Address, amount uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[address] += amount
	return nil
}

func testClient(chain *fakeChain) *Client {
	return New(chain,
		WithPollPeriod(5*time.Millisecond),
		WithPollTimeout(200*time.Millisecond),
	)
}

func mustImport(t *testing.T, c *Client, mnemonic string) *wallet.Account {
	t.Helper()
	acct, err := c.ImportWallet(mnemonic)
	if err != nil {
		t.Fatalf("ImportWallet error: %v", err)
	}
	return acct
}

const (
	mnemonicA = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	mnemonicB = "legal winner thank year wave sausage worth useful legal winner thank yellow"
)

func TestCreateWallet(t *testing.T) {
	c := testClient(newFakeChain())
	mnemonic, acct, err := c.CreateWallet()
	if err != nil {
		t.Fatalf("CreateWallet error: %v", err)
	}
	reimported, err := c.ImportWallet(mnemonic)
	if err != nil {
		t.Fatalf("ImportWallet error: %v", err)
	}
	if reimported.Address() != acct.Address() {
		t.Error("re-imported wallet should have the same address")
	}
}

func TestImportWallet_InvalidMnemonicPropagates(t *testing.T) {
	c := testClient(newFakeChain())
	if _, err := c.ImportWallet("definitely not a mnemonic"); !errors.Is(err, wallet.ErrInvalidMnemonic) {
		t.Errorf("error = %v, want wallet.ErrInvalidMnemonic unchanged", err)
	}
}

func TestTransfer_FundAndBalance(t *testing.T) {
	chain := newFakeChain()
	c := testClient(chain)
	ctx := context.Background()

	sender := mustImport(t, c, mnemonicA)
	receiver := mustImport(t, c, mnemonicB)

	if err := c.Fund(ctx, sender.Address(), 10000); err != nil {
		t.Fatalf("Fund error: %v", err)
	}

	hash, err := c.Transfer(ctx, sender, receiver.Address(), 1000)
	if err != nil {
		t.Fatalf("Transfer error: %v", err)
	}
	if hash == "" {
		t.Error("Transfer should return a transaction hash")
	}

	senderBalance, err := c.Balance(ctx, sender.Address())
	if err != nil {
		t.Fatalf("Balance error: %v", err)
	}
	receiverBalance, err := c.Balance(ctx, receiver.Address())
	if err != nil {
		t.Fatalf("Balance error: %v", err)
	}
	if senderBalance != 9000 || receiverBalance != 1000 {
		t.Errorf("balances = %d/%d, want 9000/1000", senderBalance, receiverBalance)
	}
}

func TestTransfer_InvalidArgumentPropagates(t *testing.T) {
	chain := newFakeChain()
	c := testClient(chain)
	sender := mustImport(t, c, mnemonicA)

	_, err := c.Transfer(context.Background(), sender, types.Address{}, 1)
	if !errors.Is(err, tx.ErrInvalidArgument) {
		t.Errorf("error = %v, want tx.ErrInvalidArgument unchanged", err)
	}
	if chain.submitCount != 0 {
		t.Error("nothing should be submitted for an invalid payload")
	}
}

func TestEndToEnd_TokenOfferAndClaim(t *testing.T) {
	chain := newFakeChain()
	c := testClient(chain)
	ctx := context.Background()

	alice := mustImport(t, c, mnemonicA)
	bob := mustImport(t, c, mnemonicB)

	if err := c.Fund(ctx, alice.Address(), 10000); err != nil {
		t.Fatalf("Fund error: %v", err)
	}
	if _, err := c.CreateCollection(ctx, alice, "AliceCollection", "collection", "https://example.net", 0); err != nil {
		t.Fatalf("CreateCollection error: %v", err)
	}
	if _, err := c.CreateToken(ctx, alice, "AliceCollection", "AliceToken", "token", 1, "https://example.net/t"); err != nil {
		t.Fatalf("CreateToken error: %v", err)
	}

	id := types.TokenID{Creator: alice.Address(), Collection: "AliceCollection", Name: "AliceToken"}

	owned, err := c.OwnedTokens(ctx, alice.Address())
	if err != nil {
		t.Fatalf("OwnedTokens error: %v", err)
	}
	if len(owned) != 1 || owned[0] != id {
		t.Fatalf("alice owned = %v, want [%v]", owned, id)
	}

	minted, err := c.MintedTokens(ctx, alice.Address())
	if err != nil {
		t.Fatalf("MintedTokens error: %v", err)
	}
	if len(minted) != 1 || minted[0] != id {
		t.Errorf("alice minted = %v, want [%v]", minted, id)
	}

	if _, err := c.OfferToken(ctx, alice, bob.Address(), id, 1); err != nil {
		t.Fatalf("OfferToken error: %v", err)
	}
	if _, err := c.ClaimToken(ctx, bob, alice.Address(), id); err != nil {
		t.Fatalf("ClaimToken error: %v", err)
	}

	bobOwned, err := c.OwnedTokens(ctx, bob.Address())
	if err != nil {
		t.Fatalf("OwnedTokens error: %v", err)
	}
	if len(bobOwned) != 1 || bobOwned[0] != id {
		t.Errorf("bob owned = %v, want [%v]", bobOwned, id)
	}

	aliceOwned, err := c.OwnedTokens(ctx, alice.Address())
	if err != nil {
		t.Fatalf("OwnedTokens error: %v", err)
	}
	if len(aliceOwned) != 0 {
		t.Errorf("alice owned = %v, want empty after offer", aliceOwned)
	}

	// The token stays in alice's all-received history.
	received, err := c.AllReceivedTokens(ctx, alice.Address())
	if err != nil {
		t.Fatalf("AllReceivedTokens error: %v", err)
	}
	if len(received) != 1 || received[0] != id {
		t.Errorf("alice received = %v, want [%v]", received, id)
	}
}

func TestCancelOffer(t *testing.T) {
	chain := newFakeChain()
	c := testClient(chain)
	ctx := context.Background()

	alice := mustImport(t, c, mnemonicA)
	bob := mustImport(t, c, mnemonicB)

	if _, err := c.CreateToken(ctx, alice, "AliceCollection", "AliceToken", "token", 1, "uri"); err != nil {
		t.Fatalf("CreateToken error: %v", err)
	}
	id := types.TokenID{Creator: alice.Address(), Collection: "AliceCollection", Name: "AliceToken"}

	if _, err := c.OfferToken(ctx, alice, bob.Address(), id, 1); err != nil {
		t.Fatalf("OfferToken error: %v", err)
	}
	if _, err := c.CancelOffer(ctx, alice, bob.Address(), id); err != nil {
		t.Fatalf("CancelOffer error: %v", err)
	}

	// The cancel deposit lands in the received history. Identity-based
	// reconciliation still pairs the offer's withdrawal against the
	// identity, so the owned set stays empty.
	received, err := c.AllReceivedTokens(ctx, alice.Address())
	if err != nil {
		t.Fatalf("AllReceivedTokens error: %v", err)
	}
	if len(received) != 1 || received[0] != id {
		t.Errorf("alice received = %v, want [%v]", received, id)
	}

	bobOwned, err := c.OwnedTokens(ctx, bob.Address())
	if err != nil {
		t.Fatalf("OwnedTokens error: %v", err)
	}
	if len(bobOwned) != 0 {
		t.Errorf("bob owned = %v, want empty after cancel", bobOwned)
	}
}

func TestSubmitPayload_SerializesPerAccount(t *testing.T) {
	chain := newFakeChain()
	c := testClient(chain)
	ctx := context.Background()

	sender := mustImport(t, c, mnemonicA)
	receiver := mustImport(t, c, mnemonicB)
	if err := c.Fund(ctx, sender.Address(), 10000); err != nil {
		t.Fatalf("Fund error: %v", err)
	}

	// The fake rejects a submission whose sequence number is stale, so
	// concurrent transfers only succeed if the critical section holds.
	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Transfer(ctx, sender, receiver.Address(), 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent transfer error: %v", err)
		}
	}
	if chain.submitCount != workers {
		t.Errorf("submit count = %d, want %d", chain.submitCount, workers)
	}

	// Every sequence number was used exactly once.
	seen := make(map[uint64]bool)
	for _, signed := range chain.submitted {
		if seen[signed.Raw.SequenceNumber] {
			t.Errorf("sequence number %d reused", signed.Raw.SequenceNumber)
		}
		seen[signed.Raw.SequenceNumber] = true
	}
}

func TestSubmitEntryFunction_Generic(t *testing.T) {
	chain := newFakeChain()
	c := testClient(chain)
	sender := mustImport(t, c, mnemonicA)

	hash, err := c.SubmitEntryFunction(context.Background(), sender, "0x1::message::set_message", nil, []string{"hello"})
	if err != nil {
		t.Fatalf("SubmitEntryFunction error: %v", err)
	}
	if hash == "" {
		t.Error("expected a transaction hash")
	}
	if got := chain.submitted[0].Raw.Payload.Function; got != "0x1::message::set_message" {
		t.Errorf("submitted function = %q", got)
	}
}
