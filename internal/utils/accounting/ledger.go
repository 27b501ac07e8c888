package accounting

import (
	"iter"
	"sort"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SortAccounts orders accounts by type (Asset first) then code.
func SortAccounts(accounts []domain.Account) {
	sort.SliceStable(accounts, func(i, j int) bool {
		ri, rj := accounts[i].AccountType.Rank(), accounts[j].AccountType.Rank()
		if ri != rj {
			return ri < rj
		}
		return accounts[i].Code < accounts[j].Code
	})
}

// BuildGeneralLedger groups entries by account in chart order. Within an account,
// rows keep the journal order and carry a running balance on the normal side.
func BuildGeneralLedger(accounts []domain.Account, entries iter.Seq2[domain.PostedEntry, error]) (*domain.GeneralLedger, error) {
	rowsByAccount := make(map[string][]domain.LedgerRow)
	balances := make(map[string]decimal.Decimal)
	summaries := make(map[string]*domain.LedgerAccountSummary)

	for e, err := range entries {
		if err != nil {
			return nil, err
		}
		bal, ok := balances[e.AccountID]
		if !ok {
			bal = decimal.Zero
			summaries[e.AccountID] = &domain.LedgerAccountSummary{
				AccountCode: e.AccountCode,
				AccountName: e.AccountName,
				AccountType: e.AccountType,
				TotalDebit:  decimal.Zero,
				TotalCredit: decimal.Zero,
			}
		}
		bal = bal.Add(SignedBalance(e.AccountType, e.Debit, e.Credit))
		balances[e.AccountID] = bal

		s := summaries[e.AccountID]
		s.TotalDebit = s.TotalDebit.Add(e.Debit)
		s.TotalCredit = s.TotalCredit.Add(e.Credit)
		s.ClosingBalance = bal

		rowsByAccount[e.AccountID] = append(rowsByAccount[e.AccountID], domain.LedgerRow{
			EntryID:        e.EntryID,
			AccountCode:    e.AccountCode,
			AccountName:    e.AccountName,
			AccountType:    e.AccountType,
			VoucherID:      e.VoucherID,
			VoucherNumber:  e.VoucherNumber,
			Date:           e.EntryDate,
			Description:    e.Description,
			DepartmentName: e.DepartmentName,
			Status:         e.VoucherStatus,
			Debit:          e.Debit,
			Credit:         e.Credit,
			Balance:        bal,
		})
	}

	ordered := make([]domain.Account, len(accounts))
	copy(ordered, accounts)
	SortAccounts(ordered)

	gl := &domain.GeneralLedger{Rows: []domain.LedgerRow{}, Accounts: []domain.LedgerAccountSummary{}}
	seen := make(map[string]bool, len(ordered))
	for _, acc := range ordered {
		seen[acc.AccountID] = true
		if rows, ok := rowsByAccount[acc.AccountID]; ok {
			gl.Rows = append(gl.Rows, rows...)
			gl.Accounts = append(gl.Accounts, *summaries[acc.AccountID])
		}
	}

	// Entries on accounts missing from the chart snapshot still have to show up.
	var stray []string
	for id := range rowsByAccount {
		if !seen[id] {
			stray = append(stray, id)
		}
	}
	sort.Slice(stray, func(i, j int) bool {
		return summaries[stray[i]].AccountCode < summaries[stray[j]].AccountCode
	})
	for _, id := range stray {
		gl.Rows = append(gl.Rows, rowsByAccount[id]...)
		gl.Accounts = append(gl.Accounts, *summaries[id])
	}
	return gl, nil
}
