package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalService(t *testing.T) {
	ctx := context.Background()
	store := seedLedger(t)
	vouchers := services.NewVoucherService(store, store, store, store, services.WithClock(fixedClock))
	journal := services.NewJournalService(store, store, store)

	v, err := vouchers.CreateVoucher(ctx, dto.CreateVoucherRequest{
		Department: "Health", Description: "Gloves", Amount: decimal.NewFromInt(800), Type: domain.VoucherExpense,
	}, "maker")
	require.NoError(t, err)

	entries, err := journal.EntriesForVoucher(ctx, v.VoucherID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = journal.EntriesForVoucher(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	seq, err := journal.EntriesForAccount(ctx, "E-100", domain.DateRange{})
	require.NoError(t, err)
	var lines []domain.PostedEntry
	for e, err := range seq {
		require.NoError(t, err)
		lines = append(lines, e)
	}
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Debit.Equal(decimal.NewFromInt(800)))

	_, err = journal.EntriesForAccount(ctx, "X-404", domain.DateRange{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	from := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	_, err = journal.EntriesForAccount(ctx, "E-100", domain.DateRange{From: &from, To: &to})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
