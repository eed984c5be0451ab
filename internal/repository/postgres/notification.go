package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	attrs, err := json.Marshal(note.Attributes)
	if err != nil {
		return fmt.Errorf("failed to marshal attributes: %w", err)
	}
	query := `INSERT INTO notifications
		(recipient_type, recipient_id, title, message, is_read, attributes, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		note.RecipientType, note.RecipientID, note.Title, note.Message,
		note.IsRead, attrs, time.Now().UTC(),
	).Scan(&note.ID)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, rt domain.RecipientType, recipientID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var total int32
	countQuery := `SELECT COUNT(*) FROM notifications WHERE recipient_type = $1 AND recipient_id = $2`
	if err := r.db.QueryRowContext(ctx, countQuery, rt, recipientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, recipient_type, recipient_id, title, message, is_read, attributes, created_on
		FROM notifications WHERE recipient_type = $1 AND recipient_id = $2
		ORDER BY id DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, rt, recipientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.RecipientType, &n.RecipientID, &n.Title,
			&n.Message, &n.IsRead, &attrs, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal attributes: %w", err)
			}
		}
		notes = append(notes, n)
	}
	return notes, total, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id int32, rt domain.RecipientType, recipientID int32) error {
	query := `UPDATE notifications SET is_read = true
		WHERE id = $1 AND recipient_type = $2 AND recipient_id = $3`
	res, err := r.db.ExecContext(ctx, query, id, rt, recipientID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}
