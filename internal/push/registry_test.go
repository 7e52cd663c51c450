package push_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkhurst/casetrack-api/internal/push"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubChannel is a minimal push.Channel counting closes.
type stubChannel struct {
	closed atomic.Int32
}

func (c *stubChannel) Send(ctx context.Context, payload any) error { return nil }

func (c *stubChannel) Close() error {
	c.closed.Add(1)
	return nil
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	t.Run("registers and looks up a channel", func(t *testing.T) {
		t.Parallel()

		registry := push.NewRegistry(newTestLogger())
		recipient := uuid.New()
		ch := &stubChannel{}

		registry.Register(recipient, ch)

		got, ok := registry.Lookup(recipient)
		require.True(t, ok)
		assert.Same(t, push.Channel(ch), got)
		assert.Equal(t, 1, registry.Count())
	})

	t.Run("last registration wins and closes the superseded channel", func(t *testing.T) {
		t.Parallel()

		registry := push.NewRegistry(newTestLogger())
		recipient := uuid.New()
		first := &stubChannel{}
		second := &stubChannel{}

		registry.Register(recipient, first)
		registry.Register(recipient, second)

		got, ok := registry.Lookup(recipient)
		require.True(t, ok)
		assert.Same(t, push.Channel(second), got)
		assert.Equal(t, int32(1), first.closed.Load(),
			"the superseded channel must be closed, not leaked")
		assert.Equal(t, int32(0), second.closed.Load())
		assert.Equal(t, 1, registry.Count())
	})

	t.Run("missing recipient has no channel", func(t *testing.T) {
		t.Parallel()

		registry := push.NewRegistry(newTestLogger())

		_, ok := registry.Lookup(uuid.New())
		assert.False(t, ok)
	})
}

func TestRegistryDeregister(t *testing.T) {
	t.Parallel()

	t.Run("removes the channel", func(t *testing.T) {
		t.Parallel()

		registry := push.NewRegistry(newTestLogger())
		recipient := uuid.New()
		ch := &stubChannel{}
		registry.Register(recipient, ch)

		registry.Deregister(ch)

		_, ok := registry.Lookup(recipient)
		assert.False(t, ok)
		assert.Equal(t, 0, registry.Count())
	})

	t.Run("stale deregister cannot evict a newer connection", func(t *testing.T) {
		t.Parallel()

		registry := push.NewRegistry(newTestLogger())
		recipient := uuid.New()
		old := &stubChannel{}
		current := &stubChannel{}
		registry.Register(recipient, old)
		registry.Register(recipient, current)

		// The old connection's read loop exits late and deregisters itself.
		registry.Deregister(old)

		got, ok := registry.Lookup(recipient)
		require.True(t, ok)
		assert.Same(t, push.Channel(current), got)
	})

	t.Run("unknown channel is a no-op", func(t *testing.T) {
		t.Parallel()

		registry := push.NewRegistry(newTestLogger())
		registry.Deregister(&stubChannel{})
		assert.Equal(t, 0, registry.Count())
	})
}

func TestRegistryCloseAll(t *testing.T) {
	t.Parallel()

	registry := push.NewRegistry(newTestLogger())
	channels := make([]*stubChannel, 3)
	for i := range channels {
		channels[i] = &stubChannel{}
		registry.Register(uuid.New(), channels[i])
	}

	registry.CloseAll()

	assert.Equal(t, 0, registry.Count())
	for i, ch := range channels {
		assert.Equal(t, int32(1), ch.closed.Load(), fmt.Sprintf("channel %d", i))
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := push.NewRegistry(newTestLogger())
	recipients := make([]uuid.UUID, 8)
	for i := range recipients {
		recipients[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		recipient := recipients[i%len(recipients)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := &stubChannel{}
			registry.Register(recipient, ch)
			registry.Lookup(recipient)
			registry.Deregister(ch)
		}()
	}
	wg.Wait()

	// Every goroutine deregistered its own channel; whatever interleaving
	// happened, nothing may survive.
	assert.Equal(t, 0, registry.Count())
}
