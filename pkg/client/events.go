package client

import (
	"context"
	"fmt"
	"time"

	"github.com/meridian-chain/meridian-go/pkg/token"
	"github.com/meridian-chain/meridian-go/pkg/types"
)

// pageAttempts bounds transient-failure retries per event page. Event
// fetches are read-only, so retrying is safe.
const pageAttempts = 3

// OwnedTokens returns the token identities the address currently owns:
// every identity deposited with no identity-equal withdrawal. Both
// streams are exhausted before reconciliation; a partially fetched stream
// would report tokens as owned that were withdrawn on an unfetched page.
func (c *Client) OwnedTokens(ctx context.Context, address types.Address) ([]types.TokenID, error) {
	deposits, err := c.fetchAllEvents(ctx, address, token.DepositField)
	if err != nil {
		return nil, err
	}
	withdrawals, err := c.fetchAllEvents(ctx, address, token.WithdrawField)
	if err != nil {
		return nil, err
	}
	return token.Owned(deposits, withdrawals), nil
}

// MintedTokens returns the identities deposited to the address whose
// creator is the address itself.
func (c *Client) MintedTokens(ctx context.Context, address types.Address) ([]types.TokenID, error) {
	deposits, err := c.fetchAllEvents(ctx, address, token.DepositField)
	if err != nil {
		return nil, err
	}
	return token.Minted(deposits, address), nil
}

// AllReceivedTokens returns every identity ever deposited to the address,
// irrespective of later withdrawal.
func (c *Client) AllReceivedTokens(ctx context.Context, address types.Address) ([]types.TokenID, error) {
	deposits, err := c.fetchAllEvents(ctx, address, token.DepositField)
	if err != nil {
		return nil, err
	}
	return token.Received(deposits), nil
}

// fetchAllEvents follows pagination cursors until the stream reports no
// next cursor, concatenating events in stream order and dropping
// page-boundary duplicates by sequence number.
func (c *Client) fetchAllEvents(ctx context.Context, address types.Address, field string) ([]types.Event, error) {
	var all []types.Event
	var cursor *types.Cursor
	for {
		page, err := c.fetchPage(ctx, address, field, cursor)
		if err != nil {
			return nil, fmt.Errorf("fetch %s events: %w", field, err)
		}
		all = append(all, page.Events...)
		if page.Next == nil {
			return token.Dedupe(all), nil
		}
		cursor = page.Next
	}
}

func (c *Client) fetchPage(ctx context.Context, address types.Address, field string, cursor *types.Cursor) (types.EventPage, error) {
	var lastErr error
	for attempt := 0; attempt < pageAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return types.EventPage{}, ctx.Err()
			case <-time.After(c.pollPeriod):
			}
		}
		page, err := c.transport.EventPage(ctx, address, token.StoreHandle, field, cursor)
		if err == nil {
			return page, nil
		}
		if ctx.Err() != nil {
			return types.EventPage{}, ctx.Err()
		}
		lastErr = err
		c.log.Debug().Err(err).Int("attempt", attempt+1).Msg("event page fetch failed")
	}
	return types.EventPage{}, lastErr
}
