package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Account is a subscriber with a plan and a lead quota.
type Account struct {
	ID             uuid.UUID
	Email          string
	FullName       *string
	Plan           string
	LeadsUsed      int
	LeadsLimit     int
	IsSuspended    bool
	SuspendedAt    *time.Time
	BillingRef     *string
	CycleStartedAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const accountColumns = `id, email, full_name, plan, leads_used, leads_limit,
	is_suspended, suspended_at, billing_ref, cycle_started_at, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.FullName,
		&a.Plan,
		&a.LeadsUsed,
		&a.LeadsLimit,
		&a.IsSuspended,
		&a.SuspendedAt,
		&a.BillingRef,
		&a.CycleStartedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return a, err
}

// GetByID loads a single account.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts WHERE id = $1
	`, id))
}

// Ensure creates the account row on first authenticated contact and returns
// the current state. Existing rows are left untouched.
func (r *Repository) Ensure(ctx context.Context, id uuid.UUID, email string, fullName *string, defaultLimit int) (Account, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, email, full_name, leads_limit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, id, strings.ToLower(email), fullName, defaultLimit)
	if err != nil {
		return Account{}, err
	}
	return r.GetByID(ctx, id)
}

// SetPlan updates plan and quota and mirrors the change into subscriptions.
func (r *Repository) SetPlan(ctx context.Context, id uuid.UUID, plan string, limit int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `
		UPDATE accounts SET plan = $2, leads_limit = $3, updated_at = now()
		WHERE id = $1
	`, id, plan, limit); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO subscriptions (account_id, plan)
		VALUES ($1, $2)
		ON CONFLICT (account_id) DO UPDATE SET plan = EXCLUDED.plan, updated_at = now()
	`, id, plan); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SetSuspended flips the suspension flag; suspending also stamps suspended_at.
func (r *Repository) SetSuspended(ctx context.Context, id uuid.UUID, suspended bool) error {
	if suspended {
		_, err := r.pool.Exec(ctx, `
			UPDATE accounts SET is_suspended = true, suspended_at = now(), updated_at = now()
			WHERE id = $1
		`, id)
		return err
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE accounts SET is_suspended = false, suspended_at = NULL, updated_at = now()
		WHERE id = $1
	`, id)
	return err
}

// Delete removes the account and its subscription mirror row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM subscriptions WHERE account_id = $1`, id); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// List returns the newest accounts up to limit.
func (r *Repository) List(ctx context.Context, limit int) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// ResetExpiredCycles zeroes leads_used for accounts whose quota cycle is at
// least one month old and advances the cycle anchor. Returns the number of
// accounts reset.
func (r *Repository) ResetExpiredCycles(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET leads_used = 0, cycle_started_at = now(), updated_at = now()
		WHERE cycle_started_at <= now() - interval '1 month'
	`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
