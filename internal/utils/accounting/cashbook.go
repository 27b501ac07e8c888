package accounting

import (
	"iter"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BuildCashbook folds cash and bank movements into running-balance rows.
// The balance starts at zero and follows the order of entries exactly, so
// callers must pass entries in journal order. Non-cash entries are skipped.
func BuildCashbook(entries iter.Seq2[domain.PostedEntry, error]) (*domain.Cashbook, error) {
	book := &domain.Cashbook{
		Rows:     []domain.CashbookRow{},
		TotalIn:  decimal.Zero,
		TotalOut: decimal.Zero,
		Closing:  decimal.Zero,
	}
	balance := decimal.Zero

	for e, err := range entries {
		if err != nil {
			return nil, err
		}
		if !e.IsCash {
			continue
		}
		balance = balance.Add(e.Debit).Sub(e.Credit)
		book.TotalIn = book.TotalIn.Add(e.Debit)
		book.TotalOut = book.TotalOut.Add(e.Credit)
		book.Rows = append(book.Rows, domain.CashbookRow{
			EntryID:        e.EntryID,
			Date:           e.EntryDate,
			VoucherID:      e.VoucherID,
			VoucherNumber:  e.VoucherNumber,
			Description:    e.Description,
			DepartmentName: e.DepartmentName,
			AccountCode:    e.AccountCode,
			Type:           e.VoucherType,
			Status:         e.VoucherStatus,
			CashIn:         e.Debit,
			CashOut:        e.Credit,
			Balance:        balance,
		})
	}
	book.Closing = balance
	return book, nil
}
