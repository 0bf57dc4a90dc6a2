package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerRunsTasksAndCollectsErrors(t *testing.T) {
	m := NewManager(4)

	var ran atomic.Int32
	m.Go(context.Background(), func(context.Context) error {
		ran.Add(1)
		return nil
	})
	m.Go(context.Background(), func(context.Context) error {
		ran.Add(1)
		return errors.New("task failed")
	})

	err := m.Wait()

	assert.Equal(t, int32(2), ran.Load())
	assert.ErrorContains(t, err, "task failed")
}

func TestManagerRecoversPanic(t *testing.T) {
	m := NewManager(1)

	m.Go(context.Background(), func(context.Context) error {
		panic("boom")
	})

	assert.NoError(t, m.Wait())
}

func TestManagerClosedSkipsNewWork(t *testing.T) {
	m := NewManager(1)
	assert.NoError(t, m.Wait())

	var ran atomic.Bool
	m.Go(context.Background(), func(context.Context) error {
		ran.Store(true)
		return nil
	})

	assert.NoError(t, m.Wait())
	assert.False(t, ran.Load())
}

func TestManagerNilSafe(t *testing.T) {
	var m *Manager

	m.Go(context.Background(), func(context.Context) error { return nil })
	assert.NoError(t, m.Wait())
}
