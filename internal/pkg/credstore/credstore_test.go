package credstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// backends returns every Store implementation under test. The keyring backend
// runs against the library's in-memory mock.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	keyring.MockInit()
	kr, err := NewKeyring(KeyringOptions{Service: "kavela-test-" + t.Name()})
	require.NoError(t, err)

	file, err := NewFile(FileOptions{
		Path: filepath.Join(t.TempDir(), "credentials.bin"),
		Key:  []byte("machine secret"),
	})
	require.NoError(t, err)

	return map[string]Store{
		"keyring": kr,
		"file":    file,
		"memory":  NewMemory(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "alice@example.com", "hunter2"))

			secret, err := store.Get(ctx, "alice@example.com")
			require.NoError(t, err)
			assert.Equal(t, "hunter2", secret)

			exists, err := store.Has(ctx, "alice@example.com")
			require.NoError(t, err)
			assert.True(t, exists)

			require.NoError(t, store.Close())
		})
	}
}

func TestStoreOverwrite(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "alice@example.com", "first"))
			require.NoError(t, store.Put(ctx, "alice@example.com", "second"))

			secret, err := store.Get(ctx, "alice@example.com")
			require.NoError(t, err)
			assert.Equal(t, "second", secret)

			accounts, err := store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"alice@example.com"}, accounts)
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "nobody@example.com")
			assert.ErrorIs(t, err, ErrNotFound)

			exists, err := store.Has(ctx, "nobody@example.com")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "alice@example.com", "hunter2"))
			require.NoError(t, store.Delete(ctx, "alice@example.com"))

			exists, err := store.Has(ctx, "alice@example.com")
			require.NoError(t, err)
			assert.False(t, exists)

			// Deleting again, and deleting never-stored accounts, succeeds.
			require.NoError(t, store.Delete(ctx, "alice@example.com"))
			require.NoError(t, store.Delete(ctx, "nobody@example.com"))
		})
	}
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			accounts, err := store.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, accounts)

			require.NoError(t, store.Put(ctx, "alice@example.com", "one"))
			require.NoError(t, store.Put(ctx, "bob@example.com", "two"))

			accounts, err = store.List(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"alice@example.com", "bob@example.com"}, accounts)
		})
	}
}

func TestNewFromDriver(t *testing.T) {
	keyring.MockInit()

	opts := FactoryOptions{
		Keyring: KeyringOptions{Service: "kavela-test-factory"},
		File: FileOptions{
			Path: filepath.Join(t.TempDir(), "credentials.bin"),
			Key:  []byte("machine secret"),
		},
	}

	for _, driver := range []string{DriverKeyring, DriverFile, DriverMemory, " Memory "} {
		store, err := NewFromDriver(driver, opts)
		require.NoError(t, err, driver)
		require.NotNil(t, store, driver)
	}

	_, err := NewFromDriver("etcd", opts)
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestKeyringPutRollsBackOnIndexFailure(t *testing.T) {
	keyring.MockInit()
	kr, err := NewKeyring(KeyringOptions{Service: "kavela-test-" + t.Name()})
	require.NoError(t, err)

	orig := setEntry
	setEntry = func(service, account, secret string) error {
		if account == indexAccount {
			return errors.New("index write failed")
		}
		return keyring.Set(service, account, secret)
	}
	t.Cleanup(func() { setEntry = orig })

	ctx := context.Background()
	require.Error(t, kr.Put(ctx, "alice@example.com", "hunter2"))

	// The secret must not linger half-written: Get and Has agree with List.
	_, err = kr.Get(ctx, "alice@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := kr.Has(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	setEntry = orig
	accounts, err := kr.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}
