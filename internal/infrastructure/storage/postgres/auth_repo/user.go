// Package auth_repo provides PostgreSQL implementations for auth
// repositories. All queries are scoped by tenant_id.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	appctx "fieldops/internal/core/context"
	"fieldops/internal/core/apperror"
	"fieldops/internal/core/id"
	"fieldops/internal/domain/auth"
	"fieldops/internal/infrastructure/storage/postgres"
)

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txm *postgres.TxManager
}

var _ auth.UserRepository = (*UserRepo)(nil)

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{txm: txm}
}

func tenantID(ctx context.Context) id.ID {
	tid, err := id.Parse(appctx.GetTenantID(ctx))
	if err != nil {
		return id.Nil()
	}
	return tid
}

// Create creates a new user. Roles are stored as a text[] column.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	const query = `
		INSERT INTO users (
			id, tenant_id, email, password_hash, first_name, last_name,
			roles, is_active, is_admin, last_login_at,
			failed_login_attempts, locked_until, created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.txm.GetQuerier(ctx).Exec(ctx, query,
		user.ID, user.TenantID, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.Roles,
		user.IsActive, user.IsAdmin, user.LastLoginAt,
		user.FailedLoginAttempts, user.LockedUntil,
		user.CreatedAt, user.UpdatedAt, user.Version,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	const query = `
		SELECT id, tenant_id, email, password_hash, first_name, last_name,
			   roles, is_active, is_admin, last_login_at,
			   failed_login_attempts, locked_until, created_at, updated_at, version
		FROM users
		WHERE tenant_id = $1 AND id = $2`

	var user auth.User
	err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &user, query, tenantID(ctx), userID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", userID.String())
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves user by email within the tenant.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	const query = `
		SELECT id, tenant_id, email, password_hash, first_name, last_name,
			   roles, is_active, is_admin, last_login_at,
			   failed_login_attempts, locked_until, created_at, updated_at, version
		FROM users
		WHERE tenant_id = $1 AND lower(email) = lower($2)`

	var user auth.User
	err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &user, query, tenantID(ctx), email)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", email)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

// Update updates user data with optimistic locking.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	const query = `
		UPDATE users
		SET email = $3, password_hash = $4, first_name = $5, last_name = $6,
			roles = $7, is_active = $8, is_admin = $9, last_login_at = $10,
			failed_login_attempts = $11, locked_until = $12,
			updated_at = $13, version = version + 1
		WHERE tenant_id = $1 AND id = $2 AND version = $14`

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, query,
		user.TenantID, user.ID,
		user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Roles, user.IsActive, user.IsAdmin, user.LastLoginAt,
		user.FailedLoginAttempts, user.LockedUntil,
		user.UpdatedAt, user.Version,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConflict("user was modified concurrently").
			WithDetail("id", user.ID.String())
	}
	user.Version++
	return nil
}

// Exists checks if email exists within the tenant.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 FROM users WHERE tenant_id = $1 AND lower(email) = lower($2) LIMIT 1`

	var exists int
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, query, tenantID(ctx), email).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return true, nil
}
