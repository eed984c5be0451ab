package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"
)

type settingsRepository struct {
	db DBTX
}

func NewSettingsRepository(db DBTX) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// The settings table holds a single row keyed by a constant id.

func (r *settingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	s := &domain.Settings{}
	query := `SELECT allow_registration, require_approval, maintenance_mode,
		max_file_size_mb, updated_on FROM settings WHERE id = 1`
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.AllowRegistration, &s.RequireApproval, &s.MaintenanceMode,
		&s.MaxFileSizeMB, &s.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings *domain.Settings) error {
	settings.UpdatedOn = time.Now().UTC()
	query := `INSERT INTO settings (id, allow_registration, require_approval, maintenance_mode, max_file_size_mb, updated_on)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			allow_registration = EXCLUDED.allow_registration,
			require_approval = EXCLUDED.require_approval,
			maintenance_mode = EXCLUDED.maintenance_mode,
			max_file_size_mb = EXCLUDED.max_file_size_mb,
			updated_on = EXCLUDED.updated_on`
	_, err := r.db.ExecContext(ctx, query,
		settings.AllowRegistration, settings.RequireApproval,
		settings.MaintenanceMode, settings.MaxFileSizeMB, settings.UpdatedOn)
	return err
}
