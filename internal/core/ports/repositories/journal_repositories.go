package repositories

import (
	"context"
	"iter"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
)

// JournalReader defines read operations over the append-only journal
type JournalReader interface {
	// EntriesForVoucher returns every line of one voucher in insertion order.
	EntriesForVoucher(ctx context.Context, voucherID string) ([]domain.PostedEntry, error)

	// Entries yields the entries matching filter ordered by entry date, then insertion order.
	// The sequence is lazy and each range over it re-reads the store.
	Entries(ctx context.Context, filter domain.Filter) iter.Seq2[domain.PostedEntry, error]

	// AccountTotals sums debits and credits per account over the entries matching filter.
	// Accounts without activity are omitted.
	AccountTotals(ctx context.Context, filter domain.Filter) ([]domain.AccountTotal, error)
}

// JournalWriter defines write operations over the journal
type JournalWriter interface {
	// AppendBatch stores entries atomically. Unbalanced batches are rejected with an ImbalanceError.
	AppendBatch(ctx context.Context, entries []domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
