package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
)

// ReversalBuilder produces the reversing batch for a voucher's existing entries.
// It runs inside the transition's transaction.
type ReversalBuilder func(original []domain.JournalEntry) ([]domain.JournalEntry, error)

// VoucherTransition describes a status change on one voucher.
type VoucherTransition struct {
	VoucherID string
	To        domain.VoucherStatus
	By        string
	At        time.Time
	// Reverse, when set, appends a reversing batch in the same transaction.
	Reverse ReversalBuilder
}

// VoucherReader defines read operations for vouchers
type VoucherReader interface {
	// FindVoucherByID retrieves a voucher with its department name.
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// ListVouchers returns vouchers ordered by date desc then sequence desc, with a token for the next page.
	ListVouchers(ctx context.Context, params domain.VoucherListParams) ([]domain.Voucher, *string, error)

	// CountVouchers counts vouchers matching the filter.
	CountVouchers(ctx context.Context, filter domain.Filter) (int, error)
}

// VoucherWriter defines the voucher write paths. Each call is one atomic unit.
type VoucherWriter interface {
	// CreateVoucher allocates the next number in series, inserts the voucher and appends its
	// entries. Nothing is visible to readers until all of it commits.
	CreateVoucher(ctx context.Context, series domain.VoucherSeries, voucher domain.Voucher, entries []domain.JournalEntry) (*domain.Voucher, error)

	// TransitionVoucher locks the voucher, checks the transition is legal and applies it.
	TransitionVoucher(ctx context.Context, t VoucherTransition) (*domain.Voucher, error)
}

// VoucherRepositoryFacade combines all voucher-related repository interfaces
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
}
