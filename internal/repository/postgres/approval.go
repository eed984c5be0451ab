package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"
)

type approvalRepository struct {
	db DBTX
}

func NewApprovalRepository(db DBTX) repository.ApprovalRepository {
	return &approvalRepository{db: db}
}

const approvalColumns = `id, type, status, email, org_id, registration_data,
	verification_file, rejection_details, submitted_on, updated_on`

func (r *approvalRepository) Create(ctx context.Context, approval *domain.Approval) error {
	regData, err := json.Marshal(approval.RegistrationData)
	if err != nil {
		return fmt.Errorf("failed to marshal registration data: %w", err)
	}
	file, err := marshalNullable(approval.VerificationFile)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	approval.SubmittedOn = now
	approval.UpdatedOn = now

	query := `INSERT INTO approvals
		(type, status, email, org_id, registration_data, verification_file, submitted_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		approval.Type, approval.Status, approval.Email, approval.OrgID,
		regData, file, now, now,
	).Scan(&approval.ID)
}

func (r *approvalRepository) GetByID(ctx context.Context, id int32) (*domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE id = $1`
	return scanApprovalRow(r.db.QueryRowContext(ctx, query, id))
}

func (r *approvalRepository) GetLatestByEmail(ctx context.Context, email string) (*domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals
		WHERE email = $1 ORDER BY submitted_on DESC LIMIT 1`
	return scanApprovalRow(r.db.QueryRowContext(ctx, query, email))
}

func (r *approvalRepository) Update(ctx context.Context, approval *domain.Approval) error {
	return r.update(ctx, approval, "")
}

// UpdateFromStatus guards the write with the expected current status so two
// concurrent decisions on the same ticket cannot both commit; the loser sees
// zero rows and gets ErrNotFound.
func (r *approvalRepository) UpdateFromStatus(ctx context.Context, approval *domain.Approval, from domain.ApprovalStatus) error {
	return r.update(ctx, approval, from)
}

func (r *approvalRepository) update(ctx context.Context, approval *domain.Approval, from domain.ApprovalStatus) error {
	regData, err := json.Marshal(approval.RegistrationData)
	if err != nil {
		return fmt.Errorf("failed to marshal registration data: %w", err)
	}
	file, err := marshalNullable(approval.VerificationFile)
	if err != nil {
		return err
	}
	rejection, err := marshalNullable(approval.RejectionDetails)
	if err != nil {
		return err
	}

	approval.UpdatedOn = time.Now().UTC()

	query := `UPDATE approvals SET
		status = $1, org_id = $2, registration_data = $3, verification_file = $4,
		rejection_details = $5, updated_on = $6
		WHERE id = $7`
	args := []any{approval.Status, approval.OrgID, regData, file, rejection,
		approval.UpdatedOn, approval.ID}
	if from != "" {
		query += ` AND status = $8`
		args = append(args, from)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *approvalRepository) ListByStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE status = $1 ORDER BY submitted_on`
	return r.queryApprovals(ctx, query, status)
}

func (r *approvalRepository) CountByStatus(ctx context.Context, status domain.ApprovalStatus) (int32, error) {
	var count int32
	query := `SELECT COUNT(*) FROM approvals WHERE status = $1`
	err := r.db.QueryRowContext(ctx, query, status).Scan(&count)
	return count, err
}

// ListExpiredRejections returns rejected approvals whose resubmission window
// has lapsed without a resubmission.
func (r *approvalRepository) ListExpiredRejections(ctx context.Context, now time.Time) ([]domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals
		WHERE status = 'rejected'
		  AND (rejection_details->>'allow_resubmission')::boolean = true
		  AND (rejection_details->>'resubmission_deadline')::timestamptz < $1`
	return r.queryApprovals(ctx, query, now)
}

func (r *approvalRepository) queryApprovals(ctx context.Context, query string, args ...any) ([]domain.Approval, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var approvals []domain.Approval
	for rows.Next() {
		approval, err := scanApproval(rows.Scan)
		if err != nil {
			return nil, err
		}
		approvals = append(approvals, *approval)
	}
	return approvals, rows.Err()
}

func scanApprovalRow(row *sql.Row) (*domain.Approval, error) {
	approval, err := scanApproval(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return approval, err
}

func scanApproval(scan func(...any) error) (*domain.Approval, error) {
	a := &domain.Approval{}
	var regData []byte
	var file, rejection sql.Null[[]byte]
	if err := scan(&a.ID, &a.Type, &a.Status, &a.Email, &a.OrgID,
		&regData, &file, &rejection, &a.SubmittedOn, &a.UpdatedOn); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(regData, &a.RegistrationData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registration data: %w", err)
	}
	if file.Valid {
		a.VerificationFile = &domain.VerificationFile{}
		if err := json.Unmarshal(file.V, a.VerificationFile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal verification file: %w", err)
		}
	}
	if rejection.Valid {
		a.RejectionDetails = &domain.RejectionDetails{}
		if err := json.Unmarshal(rejection.V, a.RejectionDetails); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rejection details: %w", err)
		}
	}
	return a, nil
}

// marshalNullable marshals v to JSON, passing nil pointers through as SQL NULL
func marshalNullable(v any) (any, error) {
	switch x := v.(type) {
	case *domain.VerificationFile:
		if x == nil {
			return nil, nil
		}
	case *domain.RejectionDetails:
		if x == nil {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json column: %w", err)
	}
	return data, nil
}
