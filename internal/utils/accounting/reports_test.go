package accounting_test

import (
	"errors"
	"fmt"
	"iter"
	"math/rand"
	"testing"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/SscSPs/ngo_fund_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cash    = domain.Account{AccountID: "a-cash", Code: "C-001", Name: "Cash", AccountType: domain.Asset, IsCash: true, IsActive: true}
	bank    = domain.Account{AccountID: "a-bank", Code: "B-001", Name: "Bank", AccountType: domain.Asset, IsCash: true, IsActive: true}
	payable = domain.Account{AccountID: "a-pay", Code: "L-100", Name: "Payables", AccountType: domain.Liability, IsActive: true}
	fund    = domain.Account{AccountID: "a-fund", Code: "Q-100", Name: "Fund Balance", AccountType: domain.Equity, IsActive: true}
	grants  = domain.Account{AccountID: "a-rev", Code: "R-200", Name: "Grants", AccountType: domain.Revenue, IsActive: true}
	medical = domain.Account{AccountID: "a-exp", Code: "E-100", Name: "Medical Supplies", AccountType: domain.Expense, IsActive: true}

	chart = []domain.Account{medical, grants, fund, payable, bank, cash}
)

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func seqOf(entries []domain.PostedEntry) iter.Seq2[domain.PostedEntry, error] {
	return func(yield func(domain.PostedEntry, error) bool) {
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
	}
}

func failingSeq(err error) iter.Seq2[domain.PostedEntry, error] {
	return func(yield func(domain.PostedEntry, error) bool) {
		yield(domain.PostedEntry{}, err)
	}
}

type posting struct {
	voucherID string
	date      string
	status    domain.VoucherStatus
	deptID    string
	debit     domain.Account
	credit    domain.Account
	amount    string
}

// post expands postings into journal order, assigning Seq as a store would.
func post(ps ...posting) []domain.PostedEntry {
	var out []domain.PostedEntry
	var seq int64
	for _, p := range ps {
		for _, side := range []struct {
			acc           domain.Account
			debit, credit decimal.Decimal
		}{
			{p.debit, d(p.amount), decimal.Zero},
			{p.credit, decimal.Zero, d(p.amount)},
		} {
			seq++
			out = append(out, domain.PostedEntry{
				JournalEntry: domain.JournalEntry{
					EntryID:   fmt.Sprintf("e%d", seq),
					VoucherID: p.voucherID,
					AccountID: side.acc.AccountID,
					Debit:     side.debit,
					Credit:    side.credit,
					EntryDate: day(p.date),
					Seq:       seq,
				},
				AccountCode:   side.acc.Code,
				AccountName:   side.acc.Name,
				AccountType:   side.acc.AccountType,
				IsCash:        side.acc.IsCash,
				VoucherNumber: p.voucherID,
				VoucherStatus: p.status,
				DepartmentID:  p.deptID,
			})
		}
	}
	return out
}

func TestBuildCashbook(t *testing.T) {
	entries := post(
		posting{"V1", "2025-01-10", domain.VoucherPending, "health", cash, grants, "1500000"},
		posting{"V2", "2025-01-15", domain.VoucherPending, "health", medical, cash, "450000"},
		posting{"V3", "2025-01-16", domain.VoucherApproved, "health", bank, cash, "50000"},
	)

	book, err := accounting.BuildCashbook(seqOf(entries))
	require.NoError(t, err)

	// The transfer touches two cash accounts and shows up twice.
	require.Len(t, book.Rows, 4)
	assert.True(t, d("1500000").Equal(book.Rows[0].Balance))
	assert.True(t, d("1050000").Equal(book.Rows[1].Balance))
	assert.True(t, d("1100000").Equal(book.Rows[2].Balance))
	assert.True(t, d("1050000").Equal(book.Rows[3].Balance))
	assert.True(t, d("1050000").Equal(book.Closing))
	assert.True(t, book.TotalIn.Sub(book.TotalOut).Equal(book.Closing))
}

func TestBuildCashbook_Empty(t *testing.T) {
	book, err := accounting.BuildCashbook(seqOf(nil))
	require.NoError(t, err)
	assert.Empty(t, book.Rows)
	assert.True(t, book.Closing.IsZero())
}

func TestBuildCashbook_PropagatesSourceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := accounting.BuildCashbook(failingSeq(boom))
	assert.ErrorIs(t, err, boom)
}

func TestBuildGeneralLedger(t *testing.T) {
	entries := post(
		posting{"V1", "2025-01-10", domain.VoucherApproved, "health", cash, grants, "1000"},
		posting{"V2", "2025-01-11", domain.VoucherApproved, "health", medical, cash, "300"},
		posting{"V3", "2025-01-12", domain.VoucherApproved, "health", medical, cash, "200"},
	)

	gl, err := accounting.BuildGeneralLedger(chart, seqOf(entries))
	require.NoError(t, err)

	require.Len(t, gl.Accounts, 3)
	assert.Equal(t, "C-001", gl.Accounts[0].AccountCode)
	assert.Equal(t, "R-200", gl.Accounts[1].AccountCode)
	assert.Equal(t, "E-100", gl.Accounts[2].AccountCode)

	assert.True(t, d("500").Equal(gl.Accounts[0].ClosingBalance))
	assert.True(t, d("1000").Equal(gl.Accounts[1].ClosingBalance))
	assert.True(t, d("500").Equal(gl.Accounts[2].ClosingBalance))

	require.Len(t, gl.Rows, 6)
	assert.Equal(t, "C-001", gl.Rows[0].AccountCode)
	assert.True(t, d("700").Equal(gl.Rows[1].Balance))
	assert.True(t, d("300").Equal(gl.Rows[4].Balance))
}

func TestBuildTrialBalance_ScenarioExpense(t *testing.T) {
	entries := post(posting{"V-2024-00001", "2025-01-15", domain.VoucherPending, "health", medical, cash, "450000"})
	totals, err := accounting.SumByAccount(seqOf(entries))
	require.NoError(t, err)

	tb := accounting.BuildTrialBalance(chart, totals)
	assert.True(t, tb.IsBalanced)
	assert.Empty(t, tb.Warning)
	assert.True(t, d("450000").Equal(tb.TotalDebit))
	assert.True(t, d("450000").Equal(tb.TotalCredit))
	require.Len(t, tb.Rows, len(chart))

	rows := map[string]domain.AccountBalance{}
	for _, r := range tb.Rows {
		rows[r.AccountCode] = r
	}
	assert.True(t, d("450000").Equal(rows["E-100"].Debit))
	assert.True(t, d("450000").Equal(rows["C-001"].Credit))
	assert.True(t, d("-450000").Equal(rows["C-001"].Balance))
	assert.True(t, rows["B-001"].Debit.IsZero())
}

func TestBuildTrialBalance_Empty(t *testing.T) {
	tb := accounting.BuildTrialBalance(chart, nil)
	assert.True(t, tb.IsBalanced)
	assert.True(t, tb.TotalDebit.IsZero())
	assert.True(t, tb.TotalCredit.IsZero())
	assert.Len(t, tb.Rows, len(chart))
}

func TestBuildTrialBalance_ReportsDifference(t *testing.T) {
	totals := []domain.AccountTotal{
		{AccountID: cash.AccountID, Debit: d("100"), Credit: decimal.Zero},
		{AccountID: grants.AccountID, Debit: decimal.Zero, Credit: d("90")},
	}
	tb := accounting.BuildTrialBalance(chart, totals)
	assert.False(t, tb.IsBalanced)
	assert.True(t, d("10").Equal(tb.Difference))
	assert.Contains(t, tb.Warning, "10.00")
}

func TestBuildBalanceSheet(t *testing.T) {
	entries := post(
		posting{"V1", "2025-01-10", domain.VoucherApproved, "health", cash, grants, "1500000"},
		posting{"V2", "2025-01-15", domain.VoucherApproved, "health", medical, cash, "450000"},
		posting{"V3", "2025-01-16", domain.VoucherApproved, "health", cash, payable, "1000"},
		posting{"V4", "2025-01-17", domain.VoucherApproved, "health", bank, fund, "500"},
	)
	totals, err := accounting.SumByAccount(seqOf(entries))
	require.NoError(t, err)

	bs := accounting.BuildBalanceSheet(chart, totals)
	assert.True(t, bs.IsBalanced)
	assert.True(t, d("1051500").Equal(bs.TotalAssets))
	assert.True(t, d("1000").Equal(bs.TotalLiabilities))
	assert.True(t, d("1050500").Equal(bs.TotalEquity))

	last := bs.Equity[len(bs.Equity)-1]
	assert.Equal(t, accounting.SurplusLineName, last.Name)
	assert.True(t, d("1050000").Equal(last.Amount))
}

func TestBuildIncomeStatement(t *testing.T) {
	entries := post(
		posting{"V1", "2025-01-10", domain.VoucherApproved, "health", cash, grants, "1500000"},
		posting{"V2", "2025-01-15", domain.VoucherApproved, "health", medical, cash, "450000"},
	)
	totals, err := accounting.SumByAccount(seqOf(entries))
	require.NoError(t, err)

	is := accounting.BuildIncomeStatement(chart, totals)
	assert.True(t, d("1500000").Equal(is.TotalRevenue))
	assert.True(t, d("450000").Equal(is.TotalExpenses))
	assert.True(t, d("1050000").Equal(is.NetIncome))
	assert.Len(t, is.Revenue, 1)
	assert.Len(t, is.Expenses, 1)
}

func TestBuildFinancialSummary(t *testing.T) {
	entries := post(
		posting{"V1", "2025-01-10", domain.VoucherApproved, "health", cash, grants, "1000"},
		posting{"V2", "2025-01-15", domain.VoucherPending, "health", medical, cash, "400"},
	)
	totals, err := accounting.SumByAccount(seqOf(entries))
	require.NoError(t, err)

	s := accounting.BuildFinancialSummary(chart, totals, 1)
	assert.True(t, d("1000").Equal(s.CashReceived))
	assert.True(t, d("400").Equal(s.CashDisbursed))
	assert.True(t, d("600").Equal(s.NetIncome))
	assert.True(t, d("600").Equal(s.TotalAssets))
	assert.Equal(t, 1, s.PendingVouchers)
}

func TestBuildDepartmentSpending(t *testing.T) {
	health := domain.Department{DepartmentID: "health", Name: "Health", Budget: d("1200000"), Status: domain.DepartmentActive}
	education := domain.Department{DepartmentID: "edu", Name: "Education", Budget: decimal.Zero, Status: domain.DepartmentActive}

	entries := post(
		posting{"V1", "2025-01-10", domain.VoucherApproved, "health", medical, cash, "300000"},
		posting{"V2", "2025-01-11", domain.VoucherApproved, "health", medical, cash, "150000"},
		posting{"V3", "2025-01-12", domain.VoucherPending, "health", medical, cash, "999"},
		posting{"V4", "2025-01-13", domain.VoucherRejected, "health", medical, cash, "999"},
		posting{"V5", "2025-01-14", domain.VoucherApproved, "edu", medical, cash, "100"},
		posting{"V6", "2025-01-15", domain.VoucherApproved, "health", cash, grants, "5000"},
	)

	spend, err := accounting.BuildDepartmentSpending([]domain.Department{health, education}, seqOf(entries))
	require.NoError(t, err)
	require.Len(t, spend, 2)

	assert.True(t, d("450000").Equal(spend[0].Spent))
	assert.True(t, d("750000").Equal(spend[0].Remaining))
	assert.True(t, d("0.375").Equal(spend[0].Utilization))
	assert.Equal(t, 2, spend[0].VoucherCount)

	assert.True(t, d("100").Equal(spend[1].Spent))
	assert.True(t, spend[1].Utilization.IsZero())
	assert.Equal(t, 1, spend[1].VoucherCount)
}

// Any journal built only from balanced vouchers must produce a balanced
// trial balance and balance sheet, whatever the mix of accounts.
func TestReportsStayBalancedForRandomPostings(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	statuses := []domain.VoucherStatus{domain.VoucherPending, domain.VoucherApproved, domain.VoucherRejected}

	for round := 0; round < 25; round++ {
		var ps []posting
		n := rnd.Intn(40)
		for i := 0; i < n; i++ {
			debit := chart[rnd.Intn(len(chart))]
			credit := chart[rnd.Intn(len(chart))]
			if debit.AccountID == credit.AccountID {
				continue
			}
			amount := decimal.New(rnd.Int63n(10_000_000)+1, -2)
			ps = append(ps, posting{
				voucherID: fmt.Sprintf("V%d", i),
				date:      "2025-02-01",
				status:    statuses[rnd.Intn(len(statuses))],
				deptID:    "health",
				debit:     debit,
				credit:    credit,
				amount:    amount.String(),
			})
		}

		totals, err := accounting.SumByAccount(seqOf(post(ps...)))
		require.NoError(t, err)

		tb := accounting.BuildTrialBalance(chart, totals)
		assert.True(t, tb.IsBalanced, "round %d: %s", round, tb.Warning)

		bs := accounting.BuildBalanceSheet(chart, totals)
		assert.True(t, bs.IsBalanced, "round %d: %s", round, bs.Warning)
	}
}
