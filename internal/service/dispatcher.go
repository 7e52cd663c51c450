package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/parkhurst/casetrack-api/internal/domain"
	"github.com/parkhurst/casetrack-api/internal/push"
	"github.com/parkhurst/casetrack-api/internal/store"
)

// ConnectionLookup is the slice of the push registry the dispatcher needs:
// finding the active channel for a recipient, if any.
type ConnectionLookup interface {
	Lookup(recipient uuid.UUID) (push.Channel, bool)
}

// Dispatcher fans an event out to its recipients: one durable notification
// record per recipient, plus a best-effort push to every recipient with an
// active channel. Record persistence is mandatory: any write failure aborts
// the whole dispatch. Push failures are logged and absorbed, since the
// persisted record remains available for later retrieval.
type Dispatcher struct {
	notifications store.NotificationStore
	connections   ConnectionLookup
	logger        *slog.Logger
}

// NewDispatcher creates a new Dispatcher.
// If logger is nil, a default logger will be used.
func NewDispatcher(
	notifications store.NotificationStore,
	connections ConnectionLookup,
	logger *slog.Logger,
) *Dispatcher {
	if notifications == nil {
		panic("notification store cannot be nil")
	}
	if connections == nil {
		panic("connection lookup cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		notifications: notifications,
		connections:   connections,
		logger:        logger.With(slog.String("component", "dispatcher")),
	}
}

// DispatchParams describes one event to fan out.
type DispatchParams struct {
	Type       domain.NotificationType
	Message    string
	TaskID     *uuid.UUID
	CaseID     *uuid.UUID
	Recipients []uuid.UUID
}

// Dispatch persists one notification record per recipient and pushes to each
// recipient currently connected. Every member of the recipient set receives
// exactly one persisted record per call; push delivery is best-effort.
func (d *Dispatcher) Dispatch(ctx context.Context, params DispatchParams) error {
	recipients := normalizeRecipients(params.Recipients)
	if len(recipients) == 0 {
		return ErrNoRecipients
	}

	records := make([]*domain.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		n, err := domain.NewNotification(params.Type, params.Message, recipient)
		if err != nil {
			return fmt.Errorf("invalid notification for recipient %s: %w", recipient, err)
		}
		n.TaskID = params.TaskID
		n.CaseID = params.CaseID
		records = append(records, n)
	}

	// Durable records first: if any write fails the dispatch fails, because
	// the record is the only delivery guarantee for offline recipients.
	for _, n := range records {
		if err := d.notifications.Create(ctx, n); err != nil {
			return fmt.Errorf("%w: recipient %s: %w", ErrPersistFailed, n.Recipient, err)
		}
	}

	d.pushAll(ctx, "notification", records)

	d.logger.Info("notification dispatched",
		slog.String("type", string(params.Type)),
		slog.Int("recipients", len(records)))
	return nil
}

// DispatchAnnouncement fans an announcement out to its recipients with the
// same mechanics as Dispatch, the announcement id taking the place of the
// task/case references and its title carried as the message.
func (d *Dispatcher) DispatchAnnouncement(
	ctx context.Context,
	announcement *domain.Announcement,
	recipientIDs []uuid.UUID,
) error {
	recipients := normalizeRecipients(recipientIDs)
	if len(recipients) == 0 {
		return ErrNoRecipients
	}

	records := make([]*domain.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		n, err := domain.NewNotification(
			domain.NotificationTypeDetailUpdate, announcement.Title, recipient)
		if err != nil {
			return fmt.Errorf("invalid notification for recipient %s: %w", recipient, err)
		}
		id := announcement.ID
		n.AnnouncementID = &id
		records = append(records, n)
	}

	for _, n := range records {
		if err := d.notifications.Create(ctx, n); err != nil {
			return fmt.Errorf("%w: recipient %s: %w", ErrPersistFailed, n.Recipient, err)
		}
	}

	d.pushAll(ctx, "announcement", records)

	d.logger.Info("announcement dispatched",
		slog.String("announcement_id", announcement.ID.String()),
		slog.Int("recipients", len(records)))
	return nil
}

// pushAll sends each persisted record to its recipient's channel if one is
// registered. Push failures never propagate: the record already exists and
// the client will see it on its next fetch.
func (d *Dispatcher) pushAll(ctx context.Context, event string, records []*domain.Notification) {
	for _, n := range records {
		ch, ok := d.connections.Lookup(n.Recipient)
		if !ok {
			continue
		}

		if err := ch.Send(ctx, push.Envelope{Event: event, Data: n}); err != nil {
			d.logger.Warn("push delivery failed, record remains as fallback",
				slog.String("recipient", n.Recipient.String()),
				slog.String("notification_id", n.ID.String()),
				slog.String("error", err.Error()))
		}
	}
}

// normalizeRecipients deduplicates the recipient set and drops unset ids.
func normalizeRecipients(recipients []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(recipients))
	normalized := make([]uuid.UUID, 0, len(recipients))
	for _, id := range recipients {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		normalized = append(normalized, id)
	}
	return normalized
}
