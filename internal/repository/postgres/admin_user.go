package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"
)

type adminUserRepository struct {
	db DBTX
}

func NewAdminUserRepository(db DBTX) repository.AdminUserRepository {
	return &adminUserRepository{db: db}
}

func (r *adminUserRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	query := `INSERT INTO admin_users (email, name, password_hash, created_on)
		VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		admin.Email, admin.Name, admin.PasswordHash, time.Now().UTC(),
	).Scan(&admin.ID)
}

func (r *adminUserRepository) GetByID(ctx context.Context, id int32) (*domain.AdminUser, error) {
	query := `SELECT id, email, name, password_hash, created_on FROM admin_users WHERE id = $1`
	return r.scanAdmin(r.db.QueryRowContext(ctx, query, id))
}

func (r *adminUserRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	query := `SELECT id, email, name, password_hash, created_on FROM admin_users WHERE email = $1`
	return r.scanAdmin(r.db.QueryRowContext(ctx, query, email))
}

func (r *adminUserRepository) scanAdmin(row *sql.Row) (*domain.AdminUser, error) {
	admin := &domain.AdminUser{}
	err := row.Scan(&admin.ID, &admin.Email, &admin.Name, &admin.PasswordHash, &admin.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}
