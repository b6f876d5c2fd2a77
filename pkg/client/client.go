package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridian-chain/meridian-go/pkg/tx"
	"github.com/meridian-chain/meridian-go/pkg/types"
	"github.com/meridian-chain/meridian-go/pkg/wallet"
)

// Polling defaults for transaction confirmation.
const (
	DefaultPollPeriod  = 500 * time.Millisecond
	DefaultPollTimeout = 10 * time.Second
)

// coinStoreResource is the resource type holding the native coin balance.
const coinStoreResource = "0x1::coin::CoinStore<" + tx.MeridianCoinType + ">"

// Client orchestrates key derivation, transaction building, signing,
// submission, and event reconciliation over an injected Transport. It
// holds no persistent state; the chain is the sole source of truth.
type Client struct {
	transport   Transport
	gas         tx.GasParams
	pollPeriod  time.Duration
	pollTimeout time.Duration
	log         zerolog.Logger

	mu      sync.Mutex
	chainID uint8
	// Per-account lock serializing read-sequence-number -> build -> sign
	// -> submit, so two operations on the same account never race for one
	// sequence number. Operations on different accounts proceed in
	// parallel.
	accounts map[types.Address]*sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithGasParams sets default gas parameters for built transactions.
func WithGasParams(gas tx.GasParams) Option {
	return func(c *Client) { c.gas = gas }
}

// WithPollPeriod sets the confirmation polling interval.
func WithPollPeriod(d time.Duration) Option {
	return func(c *Client) { c.pollPeriod = d }
}

// WithPollTimeout sets the bounded confirmation wait.
func WithPollTimeout(d time.Duration) Option {
	return func(c *Client) { c.pollTimeout = d }
}

// WithChainID pins the chain id, skipping the on-chain lookup.
func WithChainID(id uint8) Option {
	return func(c *Client) { c.chainID = id }
}

// WithLogger sets the logger. Defaults to a disabled logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client over the given transport.
func New(transport Transport, opts ...Option) *Client {
	c := &Client{
		transport:   transport,
		pollPeriod:  DefaultPollPeriod,
		pollTimeout: DefaultPollTimeout,
		log:         zerolog.Nop(),
		accounts:    make(map[types.Address]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateWallet generates a fresh mnemonic and its derived account. The
// mnemonic is returned to the caller and never persisted here.
func (c *Client) CreateWallet() (string, *wallet.Account, error) {
	return wallet.GenerateAccount()
}

// ImportWallet derives the account for an existing mnemonic.
func (c *Client) ImportWallet(mnemonic string) (*wallet.Account, error) {
	return wallet.NewAccountFromMnemonic(mnemonic)
}

// ImportWalletWithAddress derives the account for an existing mnemonic
// whose on-chain address was changed by a key rotation.
func (c *Client) ImportWalletWithAddress(mnemonic string, address types.Address) (*wallet.Account, error) {
	return wallet.NewAccountFromMnemonicWithAddress(mnemonic, address)
}

// Fund requests faucet coins for an address (dev networks only).
func (c *Client) Fund(ctx context.Context, address types.Address, amount uint64) error {
	return c.transport.Fund(ctx, address, amount)
}

// Balance reads the account's native coin balance from its coin store
// resource. A missing coin store reads as zero.
func (c *Client) Balance(ctx context.Context, address types.Address) (uint64, error) {
	resources, err := c.transport.AccountResources(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("fetch resources: %w", err)
	}
	for _, res := range resources {
		if res.Type != coinStoreResource {
			continue
		}
		var store struct {
			Coin struct {
				Value string `json:"value"`
			} `json:"coin"`
		}
		if err := json.Unmarshal(res.Data, &store); err != nil {
			return 0, fmt.Errorf("decode coin store: %w", err)
		}
		value, err := strconv.ParseUint(store.Coin.Value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse balance %q: %w", store.Coin.Value, err)
		}
		return value, nil
	}
	return 0, nil
}

// Transfer sends coins to a recipient and waits for confirmation.
// Returns the transaction hash, which stays valid for later re-query
// even when the wait times out.
func (c *Client) Transfer(ctx context.Context, sender *wallet.Account, recipient types.Address, amount uint64) (string, error) {
	payload, err := tx.TransferPayload(recipient, amount)
	if err != nil {
		return "", err
	}
	return c.submitPayload(ctx, sender, payload)
}

// CreateCollection creates an NFT collection owned by sender.
func (c *Client) CreateCollection(ctx context.Context, sender *wallet.Account, name, description, uri string, maximum uint64) (string, error) {
	payload, err := tx.CreateCollectionPayload(name, description, uri, maximum)
	if err != nil {
		return "", err
	}
	return c.submitPayload(ctx, sender, payload)
}

// CreateToken mints a token type inside one of sender's collections.
func (c *Client) CreateToken(ctx context.Context, sender *wallet.Account, collection, name, description string, supply uint64, uri string) (string, error) {
	payload, err := tx.CreateTokenPayload(collection, name, description, supply, uri)
	if err != nil {
		return "", err
	}
	return c.submitPayload(ctx, sender, payload)
}

// OfferToken offers a token to a receiver, who must claim it to take
// ownership.
func (c *Client) OfferToken(ctx context.Context, sender *wallet.Account, receiver types.Address, id types.TokenID, amount uint64) (string, error) {
	payload, err := tx.OfferTokenPayload(receiver, id, amount)
	if err != nil {
		return "", err
	}
	return c.submitPayload(ctx, sender, payload)
}

// CancelOffer cancels a pending token offer made by sender.
func (c *Client) CancelOffer(ctx context.Context, sender *wallet.Account, receiver types.Address, id types.TokenID) (string, error) {
	payload, err := tx.CancelOfferPayload(receiver, id)
	if err != nil {
		return "", err
	}
	return c.submitPayload(ctx, sender, payload)
}

// ClaimToken claims a token offered to sender by offerer.
func (c *Client) ClaimToken(ctx context.Context, sender *wallet.Account, offerer types.Address, id types.TokenID) (string, error) {
	payload, err := tx.ClaimTokenPayload(offerer, id)
	if err != nil {
		return "", err
	}
	return c.submitPayload(ctx, sender, payload)
}

// SubmitEntryFunction builds, signs, and submits a generic entry-function
// call.
func (c *Client) SubmitEntryFunction(ctx context.Context, sender *wallet.Account, function string, typeArgs, args []string) (string, error) {
	payload, err := tx.EntryFunctionPayload(function, typeArgs, args)
	if err != nil {
		return "", err
	}
	return c.submitPayload(ctx, sender, payload)
}

// submitPayload runs the per-account critical section: read the current
// sequence number, build, sign, and submit. Confirmation is awaited
// outside the lock. Hash is returned even when the wait fails so the
// caller can re-query later.
func (c *Client) submitPayload(ctx context.Context, sender *wallet.Account, payload tx.Payload) (string, error) {
	chainID, err := c.resolveChainID(ctx)
	if err != nil {
		return "", err
	}

	lock := c.accountLock(sender.Address())
	lock.Lock()
	hash, err := func() (string, error) {
		sequence, err := c.transport.SequenceNumber(ctx, sender.Address())
		if err != nil {
			return "", fmt.Errorf("fetch sequence number: %w", err)
		}
		raw := tx.New(sender.Address(), sequence, payload, c.gas, chainID)
		signed, err := tx.Sign(raw, sender)
		if err != nil {
			return "", err
		}
		return c.transport.Submit(ctx, signed)
	}()
	lock.Unlock()
	if err != nil {
		return "", err
	}

	c.log.Debug().Str("hash", hash).Str("function", payload.Function).Msg("transaction submitted")
	return hash, c.WaitForTransaction(ctx, hash)
}

// resolveChainID returns the pinned chain id, fetching and caching it on
// first use.
func (c *Client) resolveChainID(ctx context.Context) (uint8, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chainID != 0 {
		return c.chainID, nil
	}
	id, err := c.transport.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch chain id: %w", err)
	}
	c.chainID = id
	return id, nil
}

func (c *Client) accountLock(address types.Address) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.accounts[address]
	if !ok {
		lock = &sync.Mutex{}
		c.accounts[address] = lock
	}
	return lock
}
