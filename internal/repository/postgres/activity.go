package postgres

import (
	"context"
	"time"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"
)

type activityRepository struct {
	db DBTX
}

func NewActivityRepository(db DBTX) repository.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, activity *domain.Activity) error {
	query := `INSERT INTO activities (actor, action, target_type, target_id, detail, created_on)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		activity.Actor, activity.Action, activity.TargetType, activity.TargetID,
		activity.Detail, time.Now().UTC(),
	).Scan(&activity.ID)
}

func (r *activityRepository) List(ctx context.Context, limit, offset int32) ([]domain.Activity, error) {
	query := `SELECT id, actor, action, target_type, target_id, detail, created_on
		FROM activities ORDER BY id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.Actor, &a.Action, &a.TargetType, &a.TargetID,
			&a.Detail, &a.CreatedOn); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
