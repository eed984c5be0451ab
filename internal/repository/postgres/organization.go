package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"
)

type organizationRepository struct {
	db DBTX
}

func NewOrganizationRepository(db DBTX) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

const orgColumns = `id, email, name, type, description, president, founded, members,
	website, social_media, status, followers, file_url, provider, password_hash,
	google_id, device_token, created_on`

func (r *organizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	query := `INSERT INTO organizations
		(email, name, type, description, president, founded, members, website,
		 social_media, status, followers, file_url, provider, password_hash, google_id, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		org.Email, org.Name, org.Type, org.Description, org.President, org.Founded,
		org.Members, org.Website, org.SocialMedia, org.Status, org.Followers,
		org.FileURL, org.Provider, org.PasswordHash, org.GoogleID, time.Now().UTC(),
	).Scan(&org.ID)
}

func (r *organizationRepository) scanOrg(row *sql.Row) (*domain.Organization, error) {
	org := &domain.Organization{}
	err := row.Scan(&org.ID, &org.Email, &org.Name, &org.Type, &org.Description,
		&org.President, &org.Founded, &org.Members, &org.Website, &org.SocialMedia,
		&org.Status, &org.Followers, &org.FileURL, &org.Provider, &org.PasswordHash,
		&org.GoogleID, &org.DeviceToken, &org.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (r *organizationRepository) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	return r.scanOrg(r.db.QueryRowContext(ctx, query, id))
}

func (r *organizationRepository) GetByEmail(ctx context.Context, email string) (*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE email = $1`
	return r.scanOrg(r.db.QueryRowContext(ctx, query, email))
}

func (r *organizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	query := `UPDATE organizations SET
		name = $1, type = $2, description = $3, president = $4, founded = $5,
		members = $6, website = $7, social_media = $8, status = $9, file_url = $10
		WHERE id = $11`
	res, err := r.db.ExecContext(ctx, query,
		org.Name, org.Type, org.Description, org.President, org.Founded,
		org.Members, org.Website, org.SocialMedia, org.Status, org.FileURL, org.ID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *organizationRepository) UpdateStatus(ctx context.Context, id int32, status domain.OrgStatus) error {
	query := `UPDATE organizations SET status = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *organizationRepository) ListByStatus(ctx context.Context, status domain.OrgStatus) ([]domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE status = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		var org domain.Organization
		if err := rows.Scan(&org.ID, &org.Email, &org.Name, &org.Type, &org.Description,
			&org.President, &org.Founded, &org.Members, &org.Website, &org.SocialMedia,
			&org.Status, &org.Followers, &org.FileURL, &org.Provider, &org.PasswordHash,
			&org.GoogleID, &org.DeviceToken, &org.CreatedOn); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (r *organizationRepository) CountByStatus(ctx context.Context, status domain.OrgStatus) (int32, error) {
	var count int32
	query := `SELECT COUNT(*) FROM organizations WHERE status = $1`
	err := r.db.QueryRowContext(ctx, query, status).Scan(&count)
	return count, err
}

func (r *organizationRepository) AdjustFollowers(ctx context.Context, id int32, delta int32) error {
	query := `UPDATE organizations SET followers = followers + $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, delta, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *organizationRepository) SetDeviceToken(ctx context.Context, id int32, token string) error {
	query := `UPDATE organizations SET device_token = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, token, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

// requireRowsAffected maps zero-row updates to ErrNotFound
func requireRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
