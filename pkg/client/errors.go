package client

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when confirmation was not observed within the
// polling bound. The transaction may still commit later; callers can
// re-query with WaitForTransaction using the returned hash.
var ErrTimeout = errors.New("confirmation timed out")

// RejectedError is a terminal chain-side rejection. Reason is the chain's
// reason string, unmodified. A rejected transaction is never retried.
type RejectedError struct {
	Hash   string
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transaction %s rejected: %s", e.Hash, e.Reason)
}
