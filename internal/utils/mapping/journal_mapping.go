package mapping

import (
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/SscSPs/ngo_fund_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:     d.EntryID,
		EntrySeq:    d.Seq,
		VoucherID:   d.VoucherID,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: d.Description,
		EntryDate:   domain.TruncateToDate(d.EntryDate),
		IsReversal:  d.IsReversal,
		CreatedAt:   d.CreatedAt,
		CreatedBy:   d.CreatedBy,
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     m.EntryID,
		Seq:         m.EntrySeq,
		VoucherID:   m.VoucherID,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		EntryDate:   domain.TruncateToDate(m.EntryDate),
		IsReversal:  m.IsReversal,
		CreatedAt:   m.CreatedAt,
		CreatedBy:   m.CreatedBy,
	}
}

// ToDomainPostedEntry converts a joined journal row to a domain PostedEntry
func ToDomainPostedEntry(m models.PostedEntry) domain.PostedEntry {
	return domain.PostedEntry{
		JournalEntry:   ToDomainJournalEntry(m.JournalEntry),
		AccountCode:    m.AccountCode,
		AccountName:    m.AccountName,
		AccountType:    domain.AccountType(m.AccountType),
		IsCash:         m.IsCash,
		VoucherNumber:  m.VoucherNumber,
		VoucherType:    domain.VoucherType(m.VoucherType),
		VoucherStatus:  domain.VoucherStatus(m.VoucherStatus),
		DepartmentID:   m.DepartmentID,
		DepartmentName: m.DepartmentName,
	}
}

// ToDomainPostedEntrySlice converts joined journal rows to domain PostedEntries
func ToDomainPostedEntrySlice(ms []models.PostedEntry) []domain.PostedEntry {
	ds := make([]domain.PostedEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPostedEntry(m)
	}
	return ds
}
