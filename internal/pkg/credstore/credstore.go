package credstore

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound indicates no secret exists for the account.
	ErrNotFound = errors.New("credstore: account not found")

	// ErrUnavailable indicates the backing store cannot serve requests on
	// this platform.
	ErrUnavailable = errors.New("credstore: store unavailable")
)

// Store abstracts a secure credential store keyed by account name.
//
// Implementations must be safe for concurrent use. Put overwrites any
// existing secret for the account; Delete of a missing account is not an
// error. List order is store-defined and not guaranteed stable.
type Store interface {
	io.Closer

	// Put stores secret under account, overwriting any prior value.
	Put(ctx context.Context, account, secret string) error
	// Get returns the secret for account, or ErrNotFound.
	Get(ctx context.Context, account string) (string, error)
	// Has reports whether a secret exists for account.
	Has(ctx context.Context, account string) (bool, error)
	// List returns all account names known to the store.
	List(ctx context.Context) ([]string, error)
	// Delete removes the secret for account. Missing accounts are a no-op.
	Delete(ctx context.Context, account string) error
}
