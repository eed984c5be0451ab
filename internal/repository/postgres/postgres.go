package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"campuslink-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// against the pool or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db    *sql.DB
	repos repository.Repos
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		repos: newRepos(db),
	}
}

func newRepos(q DBTX) repository.Repos {
	return repository.Repos{
		Organizations: NewOrganizationRepository(q),
		Students:      NewStudentRepository(q),
		Admins:        NewAdminUserRepository(q),
		Approvals:     NewApprovalRepository(q),
		Events:        NewEventRepository(q),
		Activities:    NewActivityRepository(q),
		Notifications: NewNotificationRepository(q),
		Outbox:        NewOutboxRepository(q),
		Settings:      NewSettingsRepository(q),
	}
}

func (s *Store) Repos() repository.Repos {
	return s.repos
}

// Transact runs fn with transaction-bound repositories and commits iff fn
// returns nil.
func (s *Store) Transact(ctx context.Context, fn func(repository.Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(newRepos(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}
