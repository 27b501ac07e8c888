package pgsql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&pgconn.PgError{Code: sqlStateSerializationFailure}))
	assert.True(t, isRetryable(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: sqlStateDeadlockDetected})))
	assert.False(t, isRetryable(&pgconn.PgError{Code: sqlStateUniqueViolation}))
	assert.False(t, isRetryable(errors.New("plain")))
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"unique", &pgconn.PgError{Code: sqlStateUniqueViolation, ConstraintName: "vouchers_voucher_number_key"}, apperrors.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: sqlStateForeignKeyViolation}, apperrors.ErrValidation},
		{"check", &pgconn.PgError{Code: sqlStateCheckViolation}, apperrors.ErrValidation},
		{"numeric overflow", &pgconn.PgError{Code: sqlStateNumericOutOfRange, Message: "numeric field overflow"}, apperrors.ErrValidation},
		{"driver", errors.New("connection refused"), apperrors.ErrStorage},
		{"domain error passes through", apperrors.NewInvalidStateError("nope"), apperrors.ErrInvalidState},
		{"imbalance passes through", &apperrors.ImbalanceError{VoucherID: "v1"}, apperrors.ErrImbalance},
		{"cancelled", context.Canceled, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError(tt.in, "do thing"), tt.want)
		})
	}
	assert.NoError(t, translateError(nil, "noop"))
}
