package provider

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotInitialized is returned by operations that require a
	// successful Init first.
	ErrNotInitialized = errors.New("wallet provider is not initialized; call Init first")

	// ErrAccountNotConnected is returned by SignMessage when no account
	// is logged in or the extension is absent.
	ErrAccountNotConnected = errors.New("account is not connected; call Login first")

	// ErrCannotSignSingle is returned by SignTransaction when the batch
	// call does not yield exactly one signed transaction.
	ErrCannotSignSingle = errors.New("batch signing did not return exactly one transaction")
)

// TransactionCancelledError normalizes every failure during batch signing,
// including the user rejecting the request in the wallet UI. The cause is
// kept as context for logs; callers must not branch on it — the outward
// kind is deliberately the only signal.
type TransactionCancelledError struct {
	Err error
}

func (e *TransactionCancelledError) Error() string {
	if e.Err == nil {
		return "transaction cancelled"
	}
	return fmt.Sprintf("transaction cancelled: %v", e.Err)
}

func (e *TransactionCancelledError) Unwrap() error {
	return e.Err
}
