package services

import (
	"context"
	"iter"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
)

// JournalReaderSvc exposes the journal store for drill-down and audit.
type JournalReaderSvc interface {
	// EntriesForAccount yields an account's entries in journal order. Ranging twice re-reads the store.
	EntriesForAccount(ctx context.Context, accountCode string, rng domain.DateRange) (iter.Seq2[domain.PostedEntry, error], error)

	// EntriesForVoucher returns all lines of one voucher.
	EntriesForVoucher(ctx context.Context, voucherID string) ([]domain.PostedEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
}
