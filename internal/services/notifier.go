package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/messaging"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/metrics"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/repositories"
)

// Notification event types
const (
	EventLeadCreated        = "lead.created"
	EventLeadUpdated        = "lead.updated"
	EventLeadOwnershipMoved = "lead.ownership_changed"
	EventLeadDeleted        = "lead.deleted"
	EventApplicationCreated = "application.created"
	EventApplicationDecided = "application.decided"
)

const publishTimeout = 10 * time.Second

// Notifier records notification events in the outbox and publishes them to
// the service bus on a best-effort basis. Publish failures never propagate
// to the operation that raised the event; the unpublished row stays behind
// for the worker to retry.
type Notifier struct {
	repo      repositories.Repository
	bus       messaging.ServiceBusClient
	collector *metrics.Metrics
}

// NewNotifier creates a notifier. bus may be nil, in which case events are
// recorded in the outbox only.
func NewNotifier(repo repositories.Repository, bus messaging.ServiceBusClient, collector *metrics.Metrics) *Notifier {
	return &Notifier{repo: repo, bus: bus, collector: collector}
}

// Notify records the event and kicks off an async publish. The outbox
// insert itself is best-effort too; a failed insert is logged and dropped.
func (n *Notifier) Notify(eventType, entityType string, entityID uuid.UUID, recipientID *uuid.UUID, payload interface{}) {
	if n == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("failed to marshal notification payload")
		return
	}

	notification := &models.Notification{
		Model:       models.Model{ID: uuid.New()},
		EventType:   eventType,
		EntityType:  entityType,
		EntityID:    entityID,
		RecipientID: recipientID,
		Payload:     data,
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := n.repo.InsertNotification(ctx, notification); err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("failed to record notification")
		return
	}

	go n.publish(notification)
}

// Flush publishes up to limit unpublished outbox rows. Called by the
// worker on a schedule; per-row failures increment the attempt counter and
// move on.
func (n *Notifier) Flush(ctx context.Context, limit int) (int, error) {
	notifications, err := n.repo.ListUnpublishedNotifications(ctx, limit)
	if err != nil {
		return 0, errors.Wrap(err, "failed to load unpublished notifications")
	}

	published := 0
	for _, notification := range notifications {
		if err := n.send(ctx, notification); err != nil {
			log.Warn().Err(err).
				Str("notification_id", notification.ID.String()).
				Msg("notification publish failed")
			continue
		}
		published++
	}
	return published, nil
}

func (n *Notifier) publish(notification *models.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := n.send(ctx, notification); err != nil {
		log.Warn().Err(err).
			Str("event", notification.EventType).
			Str("notification_id", notification.ID.String()).
			Msg("notification publish failed, left for worker retry")
	}
}

func (n *Notifier) send(ctx context.Context, notification *models.Notification) error {
	if n.bus == nil {
		return errors.New("service bus is not configured")
	}

	busErr := n.bus.SendMessage(ctx, map[string]interface{}{
		"id":           notification.ID.String(),
		"event_type":   notification.EventType,
		"entity_type":  notification.EntityType,
		"entity_id":    notification.EntityID.String(),
		"payload":      json.RawMessage(notification.Payload),
		"published_at": time.Now().UTC().Format(time.RFC3339),
	})
	if busErr != nil {
		n.collector.IncrCounter(metrics.NotificationsFailed)
		if err := n.repo.MarkNotificationFailed(ctx, notification.ID, busErr.Error()); err != nil {
			log.Error().Err(err).Msg("failed to record notification failure")
		}
		return busErr
	}

	n.collector.IncrCounter(metrics.NotificationsSent)
	if err := n.repo.MarkNotificationPublished(ctx, notification.ID); err != nil {
		log.Error().Err(err).Msg("failed to mark notification as published")
	}
	return nil
}
