// Package push maintains the live push channels used to deliver
// notifications to connected clients in real time. Delivery over a channel
// is always best-effort; the durable notification record is the fallback for
// recipients that are offline or whose push fails.
package push

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Channel is an open push connection to a single recipient.
type Channel interface {
	// Send delivers a payload over the channel. Implementations must bound
	// the write with a deadline so a stalled client cannot block a dispatch.
	Send(ctx context.Context, payload any) error

	// Close shuts the channel down.
	Close() error
}

// Registry is the process-wide map of recipient identity to active push
// channel. At most one channel per recipient is authoritative at a time: a
// later registration supersedes the previous one, and the superseded channel
// is closed so it does not leak.
//
// Registrations and deregistrations arrive from connection lifecycle events
// concurrent with dispatcher lookups, so every operation takes the mutex.
// The critical sections are map operations only; channel closes happen
// outside the lock.
type Registry struct {
	mu       sync.Mutex
	channels map[uuid.UUID]Channel
	logger   *slog.Logger
}

// NewRegistry creates an empty Registry.
// If logger is nil, a default logger will be used.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		channels: make(map[uuid.UUID]Channel),
		logger:   logger.With(slog.String("component", "connection_registry")),
	}
}

// Register associates the channel with the recipient, replacing and closing
// any channel the recipient had before. Last registration wins.
func (r *Registry) Register(recipient uuid.UUID, ch Channel) {
	r.mu.Lock()
	previous := r.channels[recipient]
	r.channels[recipient] = ch
	r.mu.Unlock()

	if previous != nil && previous != ch {
		if err := previous.Close(); err != nil {
			r.logger.Debug("failed to close superseded channel",
				slog.String("recipient", recipient.String()),
				slog.String("error", err.Error()))
		}
		r.logger.Info("superseded existing push channel",
			slog.String("recipient", recipient.String()))
	} else {
		r.logger.Info("push channel registered",
			slog.String("recipient", recipient.String()))
	}
}

// Deregister removes the entry holding exactly this channel. It is a no-op
// when the channel is unknown or when its recipient has already
// re-registered with a different handle, so a late close event can never
// evict a newer connection.
func (r *Registry) Deregister(ch Channel) {
	r.mu.Lock()
	var removed *uuid.UUID
	for recipient, registered := range r.channels {
		if registered == ch {
			delete(r.channels, recipient)
			recipient := recipient
			removed = &recipient
			break
		}
	}
	r.mu.Unlock()

	if removed != nil {
		r.logger.Info("push channel deregistered",
			slog.String("recipient", removed.String()))
	}
}

// Lookup returns the recipient's active channel, if any.
func (r *Registry) Lookup(recipient uuid.UUID) (Channel, bool) {
	r.mu.Lock()
	ch, ok := r.channels[recipient]
	r.mu.Unlock()
	return ch, ok
}

// Count returns the number of active channels.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels)
}

// CloseAll closes every registered channel and empties the registry.
// Used during shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	channels := make([]Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		channels = append(channels, ch)
	}
	r.channels = make(map[uuid.UUID]Channel)
	r.mu.Unlock()

	for _, ch := range channels {
		_ = ch.Close()
	}
}
