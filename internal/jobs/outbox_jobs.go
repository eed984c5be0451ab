package jobs

import (
	"context"
	"errors"
	"fmt"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/logger"
	"campuslink-backend/internal/push"
	"campuslink-backend/internal/repository"
)

// OutboxDispatcher delivers pending outbox messages: each one becomes a
// persisted notification plus, when the recipient registered a device token,
// an FCM push. Failures are recorded per message and retried on the next run
// until the attempt cap is reached.
type OutboxDispatcher struct {
	store       repository.Store
	pusher      push.Sender
	batchSize   int32
	maxAttempts int32
}

func NewOutboxDispatcher(store repository.Store, pusher push.Sender, batchSize, maxAttempts int32) *OutboxDispatcher {
	return &OutboxDispatcher{
		store:       store,
		pusher:      pusher,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
	}
}

// Dispatch processes one batch. A single bad message never blocks the rest.
func (d *OutboxDispatcher) Dispatch(ctx context.Context) error {
	msgs, err := d.store.Repos().Outbox.ListPending(ctx, d.batchSize, d.maxAttempts)
	if err != nil {
		return fmt.Errorf("failed to list pending outbox messages: %w", err)
	}

	var failed int
	for i := range msgs {
		if err := d.deliver(ctx, &msgs[i]); err != nil {
			failed++
			logger.Warn("Outbox delivery failed", "message_id", msgs[i].ID, "attempts", msgs[i].Attempts+1, "error", err)
			if recErr := d.store.Repos().Outbox.RecordFailure(ctx, msgs[i].ID, err.Error(), d.maxAttempts); recErr != nil {
				logger.Error("Failed to record outbox failure", "message_id", msgs[i].ID, "error", recErr)
			}
			continue
		}
		if err := d.store.Repos().Outbox.MarkDelivered(ctx, msgs[i].ID); err != nil {
			logger.Error("Failed to mark outbox message delivered", "message_id", msgs[i].ID, "error", err)
		}
	}

	if len(msgs) > 0 {
		logger.Info("Outbox batch dispatched", "total", len(msgs), "failed", failed)
	}
	return nil
}

func (d *OutboxDispatcher) deliver(ctx context.Context, msg *domain.OutboxMessage) error {
	repos := d.store.Repos()

	note := &domain.Notification{
		RecipientType: msg.RecipientType,
		RecipientID:   msg.RecipientID,
		Title:         msg.Title,
		Message:       msg.Message,
		Attributes:    msg.Attributes,
	}
	if err := repos.Notifications.Create(ctx, note); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	token, err := d.deviceToken(ctx, msg.RecipientType, msg.RecipientID)
	if errors.Is(err, repository.ErrNotFound) {
		// Recipient deleted since enqueue; the persisted notification is moot
		// but harmless
		return nil
	}
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	// A push error retries the whole message, so a retried delivery can write
	// a second notification row. Accepted: retries are rare and the inbox
	// tolerates duplicates.
	if err := d.pusher.Send(ctx, token, msg.Title, msg.Message, msg.Attributes); err != nil {
		return fmt.Errorf("push delivery failed: %w", err)
	}
	return nil
}

func (d *OutboxDispatcher) deviceToken(ctx context.Context, rt domain.RecipientType, id int32) (string, error) {
	repos := d.store.Repos()
	if rt == domain.RecipientOrganization {
		org, err := repos.Organizations.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return org.DeviceToken, nil
	}
	student, err := repos.Students.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return student.DeviceToken, nil
}
