package credstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and local development.
type Memory struct {
	mu      sync.RWMutex
	records map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]string)}
}

func (m *Memory) Put(_ context.Context, account, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[account] = secret
	return nil
}

func (m *Memory) Get(_ context.Context, account string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	secret, ok := m.records[account]
	if !ok {
		return "", ErrNotFound
	}
	return secret, nil
}

func (m *Memory) Has(_ context.Context, account string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.records[account]
	return ok, nil
}

func (m *Memory) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	accounts := make([]string, 0, len(m.records))
	for account := range m.records {
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (m *Memory) Delete(_ context.Context, account string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, account)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
