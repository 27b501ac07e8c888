package accounting

import (
	"fmt"
	"iter"
	"sort"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SurplusLineName labels the equity line carrying current net income on the balance sheet.
const SurplusLineName = "Accumulated surplus (deficit)"

// SumByAccount folds entries into per-account debit and credit totals, ordered by account ID.
func SumByAccount(entries iter.Seq2[domain.PostedEntry, error]) ([]domain.AccountTotal, error) {
	byID := make(map[string]*domain.AccountTotal)
	for e, err := range entries {
		if err != nil {
			return nil, err
		}
		t, ok := byID[e.AccountID]
		if !ok {
			t = &domain.AccountTotal{AccountID: e.AccountID, Debit: decimal.Zero, Credit: decimal.Zero}
			byID[e.AccountID] = t
		}
		t.Debit = t.Debit.Add(e.Debit)
		t.Credit = t.Credit.Add(e.Credit)
	}

	totals := make([]domain.AccountTotal, 0, len(byID))
	for _, t := range byID {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].AccountID < totals[j].AccountID })
	return totals, nil
}

func indexTotals(totals []domain.AccountTotal) map[string]domain.AccountTotal {
	m := make(map[string]domain.AccountTotal, len(totals))
	for _, t := range totals {
		m[t.AccountID] = t
	}
	return m
}

func totalFor(m map[string]domain.AccountTotal, accountID string) (decimal.Decimal, decimal.Decimal) {
	t, ok := m[accountID]
	if !ok {
		return decimal.Zero, decimal.Zero
	}
	return t.Debit, t.Credit
}

func sortedCopy(accounts []domain.Account) []domain.Account {
	ordered := make([]domain.Account, len(accounts))
	copy(ordered, accounts)
	SortAccounts(ordered)
	return ordered
}

// BuildTrialBalance lists every chart account with its totals, zero-activity accounts included.
// Grand totals must match exactly; a difference is reported as a warning, never hidden.
func BuildTrialBalance(accounts []domain.Account, totals []domain.AccountTotal) *domain.TrialBalance {
	m := indexTotals(totals)
	tb := &domain.TrialBalance{
		Rows:        make([]domain.AccountBalance, 0, len(accounts)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, acc := range sortedCopy(accounts) {
		debit, credit := totalFor(m, acc.AccountID)
		tb.TotalDebit = tb.TotalDebit.Add(debit)
		tb.TotalCredit = tb.TotalCredit.Add(credit)
		tb.Rows = append(tb.Rows, domain.AccountBalance{
			AccountCode: acc.Code,
			AccountName: acc.Name,
			AccountType: acc.AccountType,
			Debit:       debit,
			Credit:      credit,
			Balance:     SignedBalance(acc.AccountType, debit, credit),
		})
	}
	tb.Difference = tb.TotalDebit.Sub(tb.TotalCredit)
	tb.IsBalanced = tb.Difference.IsZero()
	if !tb.IsBalanced {
		tb.Warning = fmt.Sprintf("trial balance is out of balance by %s", tb.Difference.StringFixed(2))
	}
	return tb
}

// BuildIncomeStatement lists revenue and expense accounts with their normal-side balances.
func BuildIncomeStatement(accounts []domain.Account, totals []domain.AccountTotal) *domain.IncomeStatement {
	m := indexTotals(totals)
	is := &domain.IncomeStatement{
		Revenue:       []domain.AccountAmount{},
		Expenses:      []domain.AccountAmount{},
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, acc := range sortedCopy(accounts) {
		debit, credit := totalFor(m, acc.AccountID)
		amount := SignedBalance(acc.AccountType, debit, credit)
		line := domain.AccountAmount{AccountCode: acc.Code, Name: acc.Name, Amount: amount}
		switch acc.AccountType {
		case domain.Revenue:
			is.Revenue = append(is.Revenue, line)
			is.TotalRevenue = is.TotalRevenue.Add(amount)
		case domain.Expense:
			is.Expenses = append(is.Expenses, line)
			is.TotalExpenses = is.TotalExpenses.Add(amount)
		}
	}
	is.NetIncome = is.TotalRevenue.Sub(is.TotalExpenses)
	return is
}

// BuildBalanceSheet lists asset, liability and equity accounts with normal-side balances.
// Net income from revenue and expense accounts is carried as an equity line, so that
// assets equal liabilities plus equity whenever the journal balances.
func BuildBalanceSheet(accounts []domain.Account, totals []domain.AccountTotal) *domain.BalanceSheet {
	m := indexTotals(totals)
	bs := &domain.BalanceSheet{
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, acc := range sortedCopy(accounts) {
		debit, credit := totalFor(m, acc.AccountID)
		amount := SignedBalance(acc.AccountType, debit, credit)
		line := domain.AccountAmount{AccountCode: acc.Code, Name: acc.Name, Amount: amount}
		switch acc.AccountType {
		case domain.Asset:
			bs.Assets = append(bs.Assets, line)
			bs.TotalAssets = bs.TotalAssets.Add(amount)
		case domain.Liability:
			bs.Liabilities = append(bs.Liabilities, line)
			bs.TotalLiabilities = bs.TotalLiabilities.Add(amount)
		case domain.Equity:
			bs.Equity = append(bs.Equity, line)
			bs.TotalEquity = bs.TotalEquity.Add(amount)
		}
	}

	surplus := BuildIncomeStatement(accounts, totals).NetIncome
	if !surplus.IsZero() {
		bs.Equity = append(bs.Equity, domain.AccountAmount{Name: SurplusLineName, Amount: surplus})
		bs.TotalEquity = bs.TotalEquity.Add(surplus)
	}

	bs.Difference = bs.TotalAssets.Sub(bs.TotalLiabilities.Add(bs.TotalEquity))
	bs.IsBalanced = WithinTolerance(bs.TotalAssets, bs.TotalLiabilities.Add(bs.TotalEquity))
	if !bs.IsBalanced {
		bs.Warning = fmt.Sprintf("balance sheet is out of balance by %s", bs.Difference.StringFixed(2))
	}
	return bs
}

// BuildFinancialSummary condenses the statements into headline figures.
// Cash received and disbursed are the debit and credit totals of cash accounts.
func BuildFinancialSummary(accounts []domain.Account, totals []domain.AccountTotal, pending int) *domain.FinancialSummary {
	bs := BuildBalanceSheet(accounts, totals)
	is := BuildIncomeStatement(accounts, totals)

	m := indexTotals(totals)
	cashIn, cashOut := decimal.Zero, decimal.Zero
	for _, acc := range accounts {
		if !acc.IsCash {
			continue
		}
		debit, credit := totalFor(m, acc.AccountID)
		cashIn = cashIn.Add(debit)
		cashOut = cashOut.Add(credit)
	}

	return &domain.FinancialSummary{
		TotalAssets:      bs.TotalAssets,
		TotalLiabilities: bs.TotalLiabilities,
		TotalEquity:      bs.TotalEquity,
		TotalRevenue:     is.TotalRevenue,
		TotalExpenses:    is.TotalExpenses,
		NetIncome:        is.NetIncome,
		CashReceived:     cashIn,
		CashDisbursed:    cashOut,
		PendingVouchers:  pending,
	}
}
