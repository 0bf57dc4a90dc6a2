package credstore

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverKeyring selects the OS-native secure store (Credential Manager,
	// Keychain, Secret Service).
	DriverKeyring = "keyring"
	// DriverFile selects the encrypted-file fallback store.
	DriverFile = "file"
	// DriverMemory selects the in-process store used in tests.
	DriverMemory = "memory"
)

// ErrUnknownDriver indicates an unsupported credstore driver.
var ErrUnknownDriver = errors.New("credstore: unknown driver")

// FactoryOptions groups configuration for credstore drivers.
type FactoryOptions struct {
	// Keyring configures the OS keyring backend.
	Keyring KeyringOptions
	// File configures the encrypted-file backend.
	File FileOptions
}

// NewFromDriver constructs a Store implementation by driver name.
//
// Construction probes the backend once; a store that cannot initialize
// returns an error here rather than failing on first use.
func NewFromDriver(driver string, opts FactoryOptions) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverKeyring:
		return NewKeyring(opts.Keyring)
	case DriverFile:
		return NewFile(opts.File)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
