package services

import (
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerObserver receives voucher workflow and report events, e.g. for metrics.
type LedgerObserver interface {
	VoucherCreated(voucherType domain.VoucherType)
	VoucherTransitioned(status domain.VoucherStatus)
	TrialBalanceComputed(difference decimal.Decimal)
}
