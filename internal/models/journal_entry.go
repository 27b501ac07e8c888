package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the append-only journal_entries table.
type JournalEntry struct {
	EntryID     string          `db:"entry_id"`
	EntrySeq    int64           `db:"entry_seq"`
	VoucherID   string          `db:"voucher_id"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
	EntryDate   time.Time       `db:"entry_date"`
	IsReversal  bool            `db:"is_reversal"`
	CreatedAt   time.Time       `db:"created_at"`
	CreatedBy   string          `db:"created_by"`
}

// PostedEntry is a journal entry joined with its account, voucher and department.
type PostedEntry struct {
	JournalEntry
	AccountCode    string `db:"account_code"`
	AccountName    string `db:"account_name"`
	AccountType    string `db:"account_type"`
	IsCash         bool   `db:"is_cash"`
	VoucherNumber  string `db:"voucher_number"`
	VoucherType    string `db:"voucher_type"`
	VoucherStatus  string `db:"voucher_status"`
	DepartmentID   string `db:"department_id"`
	DepartmentName string `db:"department_name"`
}
