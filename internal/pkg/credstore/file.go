package credstore

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
)

// File format (binary):
// [0..1]    uint16 version (currently 1)
// [2..17]   16-byte argon2 salt
// [18..29]  12-byte GCM nonce
// [30..]    gcm.Seal output over the JSON record map
const fileVersion uint16 = 1

const (
	fileSaltSize  = 16
	fileNonceSize = 12
	fileKeyLen    = 32
)

var (
	// ErrMissingFileKey indicates the file backend has no key material.
	ErrMissingFileKey = errors.New("credstore: file store key is required")
	// ErrCorruptFile indicates the store file cannot be parsed or decrypted.
	ErrCorruptFile = errors.New("credstore: store file is corrupt")
)

// FileOptions configures the encrypted-file backend.
type FileOptions struct {
	// Path is the location of the encrypted store file.
	Path string
	// Key is the machine secret the sealing key is derived from.
	Key []byte
}

// File is a Store backed by a single AES-256-GCM sealed file. It is the
// fallback for platforms without a native keyring. The sealing key is derived
// from the configured machine secret with argon2id.
type File struct {
	path string
	key  []byte
	mu   sync.Mutex
}

// NewFile validates options and probes the store file.
//
// An existing file must decrypt with the configured key; construction fails
// otherwise so a wrong key surfaces at startup, not on first read.
func NewFile(opts FileOptions) (*File, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: path is required", ErrUnavailable)
	}
	if len(opts.Key) == 0 {
		return nil, ErrMissingFileKey
	}

	f := &File{path: opts.Path, key: opts.Key}

	if _, err := os.Stat(opts.Path); err == nil {
		if _, err := f.load(); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return f, nil
}

// Put stores secret under account, overwriting any prior value.
func (f *File) Put(_ context.Context, account, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return err
	}

	records[account] = secret
	return f.save(records)
}

// Get returns the secret for account, or ErrNotFound.
func (f *File) Get(_ context.Context, account string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return "", err
	}

	secret, ok := records[account]
	if !ok {
		return "", ErrNotFound
	}
	return secret, nil
}

// Has reports whether a secret exists for account.
func (f *File) Has(ctx context.Context, account string) (bool, error) {
	_, err := f.Get(ctx, account)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns all account names in the store.
func (f *File) List(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return nil, err
	}

	accounts := make([]string, 0, len(records))
	for account := range records {
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// Delete removes the secret for account. Missing accounts are a no-op.
func (f *File) Delete(_ context.Context, account string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return err
	}

	if _, ok := records[account]; !ok {
		return nil
	}

	delete(records, account)
	return f.save(records)
}

// Close implements io.Closer; all writes are flushed synchronously.
func (f *File) Close() error {
	return nil
}

func (f *File) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	if len(raw) < 2+fileSaltSize+fileNonceSize+1 {
		return nil, ErrCorruptFile
	}

	version := binary.BigEndian.Uint16(raw[0:2])
	if version != fileVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptFile, version)
	}

	salt := raw[2 : 2+fileSaltSize]
	nonce := raw[2+fileSaltSize : 2+fileSaltSize+fileNonceSize]
	sealed := raw[2+fileSaltSize+fileNonceSize:]

	gcm, err := f.aead(salt)
	if err != nil {
		return nil, err
	}

	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		// Do not leak whether the key was wrong or the file tampered with.
		return nil, ErrCorruptFile
	}

	var records map[string]string
	if err := json.Unmarshal(plain, &records); err != nil {
		return nil, ErrCorruptFile
	}
	return records, nil
}

func (f *File) save(records map[string]string) error {
	plain, err := json.Marshal(records)
	if err != nil {
		return err
	}

	salt := make([]byte, fileSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return err
	}
	nonce := make([]byte, fileNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}

	gcm, err := f.aead(salt)
	if err != nil {
		return err
	}

	sealed := gcm.Seal(nil, nonce, plain, nil)

	out := make([]byte, 2+fileSaltSize+fileNonceSize+len(sealed))
	binary.BigEndian.PutUint16(out[0:2], fileVersion)
	copy(out[2:2+fileSaltSize], salt)
	copy(out[2+fileSaltSize:2+fileSaltSize+fileNonceSize], nonce)
	copy(out[2+fileSaltSize+fileNonceSize:], sealed)

	// Write-then-rename keeps the previous store intact if the process dies
	// mid-write.
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".kavela-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), f.path)
}

func (f *File) aead(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(f.key, salt, 1, 64*1024, 4, fileKeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if gcm.NonceSize() != fileNonceSize {
		return nil, fmt.Errorf("credstore: unexpected nonce size %d (want %d)", gcm.NonceSize(), fileNonceSize)
	}
	return gcm, nil
}
