package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// SerializableRunner executes a unit of work in one SERIALIZABLE transaction.
type SerializableRunner interface {
	// RunSerializable commits fn's writes atomically. On a serialization failure or
	// deadlock the whole unit is retried, so fn must be safe to run more than once.
	RunSerializable(ctx context.Context, what string, fn func(tx pgx.Tx) error) error
}
