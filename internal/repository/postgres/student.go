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

type studentRepository struct {
	db DBTX
}

func NewStudentRepository(db DBTX) repository.StudentRepository {
	return &studentRepository{db: db}
}

const studentColumns = `id, email, name, status, followed_orgs, joined_events,
	provider, password_hash, google_id, device_token, created_on`

func (r *studentRepository) Create(ctx context.Context, student *domain.Student) error {
	query := `INSERT INTO students
		(email, name, status, followed_orgs, joined_events, provider, password_hash, google_id, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		student.Email, student.Name, student.Status,
		pq.Array(student.FollowedOrgs), pq.Array(student.JoinedEvents),
		student.Provider, student.PasswordHash, student.GoogleID, time.Now().UTC(),
	).Scan(&student.ID)
}

func (r *studentRepository) scanStudent(row *sql.Row) (*domain.Student, error) {
	s := &domain.Student{}
	var followed, joined pq.Int32Array
	err := row.Scan(&s.ID, &s.Email, &s.Name, &s.Status, &followed, &joined,
		&s.Provider, &s.PasswordHash, &s.GoogleID, &s.DeviceToken, &s.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.FollowedOrgs = followed
	s.JoinedEvents = joined
	return s, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id int32) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return r.scanStudent(r.db.QueryRowContext(ctx, query, id))
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE email = $1`
	return r.scanStudent(r.db.QueryRowContext(ctx, query, email))
}

// AddFollowedOrg is a no-op if the org is already followed
func (r *studentRepository) AddFollowedOrg(ctx context.Context, studentID, orgID int32) error {
	query := `UPDATE students SET followed_orgs = array_append(followed_orgs, $1)
		WHERE id = $2 AND NOT ($1 = ANY(followed_orgs))`
	res, err := r.db.ExecContext(ctx, query, orgID, studentID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *studentRepository) RemoveFollowedOrg(ctx context.Context, studentID, orgID int32) error {
	query := `UPDATE students SET followed_orgs = array_remove(followed_orgs, $1)
		WHERE id = $2 AND $1 = ANY(followed_orgs)`
	res, err := r.db.ExecContext(ctx, query, orgID, studentID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *studentRepository) AddJoinedEvent(ctx context.Context, studentID, eventID int32) error {
	query := `UPDATE students SET joined_events = array_append(joined_events, $1)
		WHERE id = $2 AND NOT ($1 = ANY(joined_events))`
	res, err := r.db.ExecContext(ctx, query, eventID, studentID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *studentRepository) RemoveJoinedEvent(ctx context.Context, studentID, eventID int32) error {
	query := `UPDATE students SET joined_events = array_remove(joined_events, $1)
		WHERE id = $2 AND $1 = ANY(joined_events)`
	res, err := r.db.ExecContext(ctx, query, eventID, studentID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *studentRepository) ListFollowers(ctx context.Context, orgID int32) ([]domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students
		WHERE $1 = ANY(followed_orgs) AND status = 'active' ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		var s domain.Student
		var followed, joined pq.Int32Array
		if err := rows.Scan(&s.ID, &s.Email, &s.Name, &s.Status, &followed, &joined,
			&s.Provider, &s.PasswordHash, &s.GoogleID, &s.DeviceToken, &s.CreatedOn); err != nil {
			return nil, err
		}
		s.FollowedOrgs = followed
		s.JoinedEvents = joined
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *studentRepository) SetDeviceToken(ctx context.Context, id int32, token string) error {
	query := `UPDATE students SET device_token = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, token, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}
