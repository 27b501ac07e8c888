package accounting_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/SscSPs/ngo_fund_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(voucherID, accountID, debit, credit string) domain.JournalEntry {
	return domain.JournalEntry{VoucherID: voucherID, AccountID: accountID, Debit: d(debit), Credit: d(credit)}
}

func TestSignedBalance(t *testing.T) {
	tests := []struct {
		name        string
		accountType domain.AccountType
		debit       string
		credit      string
		want        string
	}{
		{"asset grows with debits", domain.Asset, "100", "30", "70"},
		{"expense grows with debits", domain.Expense, "450000", "0", "450000"},
		{"liability grows with credits", domain.Liability, "10", "50", "40"},
		{"equity grows with credits", domain.Equity, "0", "5", "5"},
		{"revenue debit goes negative", domain.Revenue, "20", "0", "-20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.SignedBalance(tt.accountType, d(tt.debit), d(tt.credit))
			assert.True(t, d(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, accounting.ValidateAmount(d("450000")))
	assert.NoError(t, accounting.ValidateAmount(d("0.01")))

	assert.NoError(t, accounting.ValidateAmount(d("9999999999999999.99")))

	for _, bad := range []string{"0", "-1", "10.005", "10000000000000000", "1e20"} {
		err := accounting.ValidateAmount(d(bad))
		assert.ErrorIs(t, err, apperrors.ErrValidation, bad)
	}
}

func TestValidateBudget(t *testing.T) {
	assert.NoError(t, accounting.ValidateBudget(d("0")))
	assert.NoError(t, accounting.ValidateBudget(d("1200000.50")))

	for _, bad := range []string{"-1", "0.001", "10000000000000000"} {
		err := accounting.ValidateBudget(d(bad))
		assert.ErrorIs(t, err, apperrors.ErrValidation, bad)
	}
}

func TestValidateBatch(t *testing.T) {
	t.Run("balanced batch", func(t *testing.T) {
		err := accounting.ValidateBatch([]domain.JournalEntry{
			line("v1", "exp", "450000", "0"),
			line("v1", "cash", "0", "450000"),
		})
		assert.NoError(t, err)
	})

	t.Run("split lines still balance", func(t *testing.T) {
		err := accounting.ValidateBatch([]domain.JournalEntry{
			line("v1", "exp", "100", "0"),
			line("v1", "exp2", "50.50", "0"),
			line("v1", "cash", "0", "150.50"),
		})
		assert.NoError(t, err)
	})

	t.Run("imbalance is reported per voucher", func(t *testing.T) {
		err := accounting.ValidateBatch([]domain.JournalEntry{
			line("v1", "exp", "100", "0"),
			line("v1", "cash", "0", "100"),
			line("v2", "exp", "100", "0"),
			line("v2", "cash", "0", "99.99"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrImbalance)
		var imb *apperrors.ImbalanceError
		require.True(t, errors.As(err, &imb))
		assert.Equal(t, "v2", imb.VoucherID)
	})

	t.Run("both sides set", func(t *testing.T) {
		err := accounting.ValidateBatch([]domain.JournalEntry{
			line("v1", "exp", "10", "10"),
			line("v1", "cash", "0", "0"),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("negative amount", func(t *testing.T) {
		err := accounting.ValidateBatch([]domain.JournalEntry{
			line("v1", "exp", "-10", "0"),
			line("v1", "cash", "0", "-10"),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("single line", func(t *testing.T) {
		err := accounting.ValidateBatch([]domain.JournalEntry{line("v1", "exp", "10", "0")})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("empty batch", func(t *testing.T) {
		assert.ErrorIs(t, accounting.ValidateBatch(nil), apperrors.ErrValidation)
	})
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, accounting.WithinTolerance(d("100.00"), d("100.009")))
	assert.False(t, accounting.WithinTolerance(d("100.00"), d("100.01")))
}
