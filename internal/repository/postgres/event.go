package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"

	"github.com/lib/pq"
)

type eventRepository struct {
	db DBTX
}

func NewEventRepository(db DBTX) repository.EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, org_id, title, description, location, start_time, end_time,
	capacity, registered, participants, status, created_on`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `INSERT INTO events
		(org_id, title, description, location, start_time, end_time, capacity,
		 registered, participants, status, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		event.OrgID, event.Title, event.Description, event.Location,
		event.StartTime, event.EndTime, event.Capacity, event.Registered,
		pq.Array(event.Participants), event.Status, time.Now().UTC(),
	).Scan(&event.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int32) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e := &domain.Event{}
	var participants pq.Int32Array
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.OrgID, &e.Title, &e.Description, &e.Location, &e.StartTime,
		&e.EndTime, &e.Capacity, &e.Registered, &participants, &e.Status, &e.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Participants = participants
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	query := `UPDATE events SET
		title = $1, description = $2, location = $3, start_time = $4, end_time = $5,
		capacity = $6, status = $7
		WHERE id = $8`
	res, err := r.db.ExecContext(ctx, query,
		event.Title, event.Description, event.Location, event.StartTime,
		event.EndTime, event.Capacity, event.Status, event.ID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *eventRepository) ListByOrg(ctx context.Context, orgID int32) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE org_id = $1 ORDER BY start_time`
	return r.queryEvents(ctx, query, orgID)
}

func (r *eventRepository) ListUpcoming(ctx context.Context, limit, offset int32) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE status = 'scheduled' AND start_time > NOW()
		ORDER BY start_time LIMIT $1 OFFSET $2`
	return r.queryEvents(ctx, query, limit, offset)
}

// AddParticipant appends the student and bumps the counter in one statement;
// the WHERE clause enforces capacity and rejects duplicates.
func (r *eventRepository) AddParticipant(ctx context.Context, eventID, studentID int32) error {
	query := `UPDATE events SET
		participants = array_append(participants, $1), registered = registered + 1
		WHERE id = $2 AND registered < capacity AND NOT ($1 = ANY(participants))`
	res, err := r.db.ExecContext(ctx, query, studentID, eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a full event from a missing one
		var registered, capacity int32
		err := r.db.QueryRowContext(ctx,
			`SELECT registered, capacity FROM events WHERE id = $1`, eventID,
		).Scan(&registered, &capacity)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}
		if registered >= capacity {
			return repository.ErrCapacityReached
		}
		return repository.ErrNotFound
	}
	return nil
}

func (r *eventRepository) RemoveParticipant(ctx context.Context, eventID, studentID int32) error {
	query := `UPDATE events SET
		participants = array_remove(participants, $1), registered = registered - 1
		WHERE id = $2 AND $1 = ANY(participants)`
	res, err := r.db.ExecContext(ctx, query, studentID, eventID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var participants pq.Int32Array
		if err := rows.Scan(&e.ID, &e.OrgID, &e.Title, &e.Description, &e.Location,
			&e.StartTime, &e.EndTime, &e.Capacity, &e.Registered, &participants,
			&e.Status, &e.CreatedOn); err != nil {
			return nil, err
		}
		e.Participants = participants
		events = append(events, e)
	}
	return events, rows.Err()
}
