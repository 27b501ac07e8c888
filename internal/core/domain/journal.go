package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is one debit-or-credit line against one account. Entries are
// immutable once stored and always belong to a voucher.
type JournalEntry struct {
	EntryID     string          `json:"entryID"`
	VoucherID   string          `json:"voucherID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	EntryDate   time.Time       `json:"entryDate"`
	IsReversal  bool            `json:"isReversal"`
	// Seq is the store-assigned insertion order, used as the tie-break after EntryDate.
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// IsDebit reports whether the line is on the debit side.
func (e JournalEntry) IsDebit() bool {
	return e.Debit.IsPositive()
}

// Amount returns the nonzero side of the line.
func (e JournalEntry) Amount() decimal.Decimal {
	if e.IsDebit() {
		return e.Debit
	}
	return e.Credit
}

// Reversed returns the mirror of e dated on date, with fresh identity left to the caller.
func (e JournalEntry) Reversed(date time.Time) JournalEntry {
	r := e
	r.EntryID = ""
	r.Seq = 0
	r.Debit, r.Credit = e.Credit, e.Debit
	r.EntryDate = date
	r.IsReversal = true
	return r
}

// PostedEntry is a journal entry joined with its account and owning voucher.
// It is the unit every aggregation folds over.
type PostedEntry struct {
	JournalEntry
	AccountCode    string        `json:"accountCode"`
	AccountName    string        `json:"accountName"`
	AccountType    AccountType   `json:"accountType"`
	IsCash         bool          `json:"isCash"`
	VoucherNumber  string        `json:"voucherNumber"`
	VoucherType    VoucherType   `json:"voucherType"`
	VoucherStatus  VoucherStatus `json:"voucherStatus"`
	DepartmentID   string        `json:"departmentID"`
	DepartmentName string        `json:"departmentName"`
}

// EntryLess is the canonical journal order: entry date ascending, then insertion order.
func EntryLess(a, b JournalEntry) bool {
	if !a.EntryDate.Equal(b.EntryDate) {
		return a.EntryDate.Before(b.EntryDate)
	}
	return a.Seq < b.Seq
}

// AccountTotal is the summed activity of one account.
type AccountTotal struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}
