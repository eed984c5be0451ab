package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"
)

type outboxRepository struct {
	db DBTX
}

func NewOutboxRepository(db DBTX) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Enqueue(ctx context.Context, msgs ...*domain.OutboxMessage) error {
	query := `INSERT INTO outbox
		(recipient_type, recipient_id, title, message, attributes, status, attempts, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7) RETURNING id`
	now := time.Now().UTC()
	for _, msg := range msgs {
		attrs, err := json.Marshal(msg.Attributes)
		if err != nil {
			return fmt.Errorf("failed to marshal attributes: %w", err)
		}
		msg.Status = domain.OutboxStatusPending
		msg.CreatedOn = now
		if err := r.db.QueryRowContext(ctx, query,
			msg.RecipientType, msg.RecipientID, msg.Title, msg.Message,
			attrs, msg.Status, now,
		).Scan(&msg.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int32, maxAttempts int32) ([]domain.OutboxMessage, error) {
	query := `SELECT id, recipient_type, recipient_id, title, message, attributes,
		status, attempts, last_error, created_on, delivered_on
		FROM outbox WHERE status = 'pending' AND attempts < $1
		ORDER BY id LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.OutboxMessage
	for rows.Next() {
		var m domain.OutboxMessage
		var attrs []byte
		if err := rows.Scan(&m.ID, &m.RecipientType, &m.RecipientID, &m.Title,
			&m.Message, &attrs, &m.Status, &m.Attempts, &m.LastError,
			&m.CreatedOn, &m.DeliveredOn); err != nil {
			return nil, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &m.Attributes); err != nil {
				return nil, fmt.Errorf("failed to unmarshal attributes: %w", err)
			}
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *outboxRepository) MarkDelivered(ctx context.Context, id int64) error {
	query := `UPDATE outbox SET status = 'delivered', delivered_on = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

// RecordFailure bumps the attempt counter; the message flips to failed once
// attempts reach maxAttempts.
func (r *outboxRepository) RecordFailure(ctx context.Context, id int64, lastError string, maxAttempts int32) error {
	query := `UPDATE outbox SET
		attempts = attempts + 1,
		last_error = $1,
		status = CASE WHEN attempts + 1 >= $2 THEN 'failed' ELSE status END
		WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, lastError, maxAttempts, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}
