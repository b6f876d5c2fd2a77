package client

import (
	"context"
	"fmt"
	"time"
)

// WaitForTransaction polls the transaction's status at the configured
// period until it is confirmed or rejected, or the configured timeout
// elapses. Transport failures during polling are retried on the next
// tick; the submission itself is never repeated. Cancelling the context
// abandons the wait without any resubmission.
func (c *Client) WaitForTransaction(ctx context.Context, hash string) error {
	deadline := time.Now().Add(c.pollTimeout)
	ticker := time.NewTicker(c.pollPeriod)
	defer ticker.Stop()

	for {
		confirmation, err := c.transport.TransactionStatus(ctx, hash)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Read-only poll; transient failures just wait for the next tick.
			c.log.Debug().Err(err).Str("hash", hash).Msg("status poll failed")
		} else {
			switch confirmation.Status {
			case StatusConfirmed:
				return nil
			case StatusRejected:
				return &RejectedError{Hash: hash, Reason: confirmation.Reason}
			}
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: transaction %s still pending after %s", ErrTimeout, hash, c.pollTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
