package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/repositories"
	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	sqlStateUniqueViolation      = "23505"
	sqlStateForeignKeyViolation  = "23503"
	sqlStateCheckViolation       = "23514"
	sqlStateNumericOutOfRange    = "22003"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"

	maxSerializableAttempts = 5
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
	// OnRetry is called each time a serializable transaction is retried.
	OnRetry func()
}

var _ portsrepo.SerializableRunner = (*BaseRepository)(nil)

// isRetryable reports whether PostgreSQL aborted the transaction because of a concurrent writer.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlStateSerializationFailure || pgErr.Code == sqlStateDeadlockDetected
}

// translateError maps constraint violations onto the application error taxonomy.
func translateError(err error, what string) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	for _, sentinel := range []error{apperrors.ErrValidation, apperrors.ErrNotFound, apperrors.ErrInvalidState, apperrors.ErrImbalance, apperrors.ErrDuplicate} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUniqueViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrDuplicate, what, pgErr.ConstraintName)
		case sqlStateForeignKeyViolation:
			return apperrors.NewValidationError("%s references a missing row (%s)", what, pgErr.ConstraintName)
		case sqlStateCheckViolation:
			return apperrors.NewValidationError("%s violates %s", what, pgErr.ConstraintName)
		case sqlStateNumericOutOfRange:
			return apperrors.NewValidationError("%s: amount out of range", what)
		}
	}
	return apperrors.NewStorageError("failed to "+what, err)
}

// RunSerializable runs fn in a SERIALIZABLE transaction, retrying with exponential
// backoff when PostgreSQL reports a serialization failure or deadlock.
func (r *BaseRepository) RunSerializable(ctx context.Context, what string, fn func(tx pgx.Tx) error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = 5 * time.Second

	attempt := func() error {
		tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		if err != nil {
			return backoff.Permanent(apperrors.NewStorageError("failed to begin transaction", err))
		}
		defer func() { _ = tx.Rollback(ctx) }() // no-op after commit

		if err := fn(tx); err != nil {
			if isRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		if err := tx.Commit(ctx); err != nil {
			if isRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	notify := func(error, time.Duration) {
		if r.OnRetry != nil {
			r.OnRetry()
		}
	}

	policyWithLimits := backoff.WithContext(backoff.WithMaxRetries(policy, maxSerializableAttempts-1), ctx)
	err := backoff.RetryNotify(attempt, policyWithLimits, notify)
	if err == nil {
		return nil
	}
	if isRetryable(err) {
		return fmt.Errorf("%w: %s kept conflicting with concurrent writers", apperrors.ErrConflict, what)
	}
	return translateError(err, what)
}
