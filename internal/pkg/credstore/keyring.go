package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

// indexAccount is the reserved account holding the list of known account
// names. OS keyrings cannot enumerate entries belonging to a service, so the
// store keeps its own index alongside the secrets.
const indexAccount = "__kavela_index__"

// setEntry is a seam over keyring.Set so tests can fail individual writes.
var setEntry = keyring.Set

// KeyringOptions configures the OS keyring backend.
type KeyringOptions struct {
	// Service is the keyring service name all entries are filed under.
	Service string
}

// Keyring is a Store backed by the operating system keyring via
// github.com/zalando/go-keyring (Credential Manager on Windows, Keychain on
// macOS, Secret Service / libsecret on Linux).
type Keyring struct {
	service string
	mu      sync.Mutex // serializes index read-modify-write
}

// NewKeyring probes the OS keyring and returns a Keyring store.
//
// The probe writes and removes a canary entry; platforms without a usable
// keyring (or headless sessions without a Secret Service) fail here with
// ErrUnavailable so callers can fall back or run degraded.
func NewKeyring(opts KeyringOptions) (*Keyring, error) {
	if opts.Service == "" {
		return nil, fmt.Errorf("%w: service name is required", ErrUnavailable)
	}

	const probe = "__kavela_probe__"
	if err := keyring.Set(opts.Service, probe, "probe"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := keyring.Delete(opts.Service, probe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return &Keyring{service: opts.Service}, nil
}

// Put stores secret under account and records the account in the index.
//
// Secret and index are written back to back; if the index write fails the
// secret is rolled back so Get, Has and List never disagree about an account.
func (k *Keyring) Put(_ context.Context, account, secret string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := setEntry(k.service, account, secret); err != nil {
		return err
	}

	err := k.updateIndex(func(idx map[string]struct{}) {
		idx[account] = struct{}{}
	})
	if err != nil {
		//nolint:errcheck // best effort rollback, the Put already failed
		keyring.Delete(k.service, account)

		return err
	}

	return nil
}

// Get returns the secret for account, or ErrNotFound.
func (k *Keyring) Get(_ context.Context, account string) (string, error) {
	secret, err := keyring.Get(k.service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return secret, nil
}

// Has reports whether a secret exists for account.
func (k *Keyring) Has(ctx context.Context, account string) (bool, error) {
	_, err := k.Get(ctx, account)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns the account names recorded in the index.
func (k *Keyring) List(_ context.Context) ([]string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	idx, err := k.readIndex()
	if err != nil {
		return nil, err
	}

	accounts := make([]string, 0, len(idx))
	for account := range idx {
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// Delete removes the secret for account. Missing accounts are a no-op.
func (k *Keyring) Delete(_ context.Context, account string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := keyring.Delete(k.service, account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}

	return k.updateIndex(func(idx map[string]struct{}) {
		delete(idx, account)
	})
}

// Close implements io.Closer; the OS keyring needs no teardown.
func (k *Keyring) Close() error {
	return nil
}

func (k *Keyring) readIndex() (map[string]struct{}, error) {
	raw, err := keyring.Get(k.service, indexAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}

	var accounts []string
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		// A corrupt index loses enumeration but not the secrets themselves.
		return map[string]struct{}{}, nil
	}

	idx := make(map[string]struct{}, len(accounts))
	for _, account := range accounts {
		idx[account] = struct{}{}
	}
	return idx, nil
}

func (k *Keyring) updateIndex(mutate func(map[string]struct{})) error {
	idx, err := k.readIndex()
	if err != nil {
		return err
	}

	mutate(idx)

	accounts := make([]string, 0, len(idx))
	for account := range idx {
		accounts = append(accounts, account)
	}

	raw, err := json.Marshal(accounts)
	if err != nil {
		return err
	}

	return setEntry(k.service, indexAccount, string(raw))
}
