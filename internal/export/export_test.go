package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/SscSPs/ngo_fund_ledger/internal/export"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleHeader() export.Header {
	from := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 10, 31, 0, 0, 0, 0, time.UTC)
	return export.Header{
		Organization: "KENYA COMMUNITY NGO",
		Title:        "Trial Balance",
		Currency:     "KSh",
		GeneratedAt:  time.Date(2024, 10, 15, 9, 30, 0, 0, time.UTC),
		Period:       domain.DateRange{From: &from, To: &to},
	}
}

func sampleTrialBalance() *domain.TrialBalance {
	return &domain.TrialBalance{
		Rows: []domain.AccountBalance{
			{AccountCode: "C-001", AccountName: "Cash on Hand", AccountType: domain.Asset,
				Debit: decimal.NewFromInt(1500000), Credit: decimal.NewFromInt(450000), Balance: decimal.NewFromInt(1050000)},
			{AccountCode: "R-200", AccountName: "Grants", AccountType: domain.Revenue,
				Debit: decimal.Zero, Credit: decimal.NewFromInt(1500000), Balance: decimal.NewFromInt(1500000)},
			{AccountCode: "E-100", AccountName: "Medical Supplies", AccountType: domain.Expense,
				Debit: decimal.NewFromInt(450000), Credit: decimal.Zero, Balance: decimal.NewFromInt(450000)},
		},
		TotalDebit:  decimal.NewFromInt(1950000),
		TotalCredit: decimal.NewFromInt(1950000),
		Difference:  decimal.Zero,
		IsBalanced:  true,
	}
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, f)

	f, err = export.ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, export.FormatXLSX, f)

	_, err = export.ParseFormat("pdf")
	assert.Error(t, err)

	assert.Equal(t, "cashbook_20241015.xlsx", export.FormatXLSX.FileName("cashbook", time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC)))
}

func TestWriteCSV_TrialBalance(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleHeader(), export.TrialBalanceTable(sampleTrialBalance())))
	assert.Contains(t, buf.String(), "Currency: KSh\n\nCode,Account,Type,Debit,Credit,Balance\n")

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, "KENYA COMMUNITY NGO", records[0][0])
	assert.Equal(t, "Trial Balance", records[1][0])
	assert.Equal(t, "Generated: 2024-10-15 09:30", records[2][0])
	assert.Equal(t, "Period: 2024-07-01 to 2024-10-31", records[3][0])
	assert.Equal(t, "Currency: KSh", records[4][0])
	// csv.Reader skips the blank separator line, so the columns follow the header directly.
	assert.Equal(t, []string{"Code", "Account", "Type", "Debit", "Credit", "Balance"}, records[5])
	assert.Equal(t, []string{"C-001", "Cash on Hand", "ASSET", "1500000.00", "450000.00", "1050000.00"}, records[6])

	last := records[len(records)-1]
	assert.Equal(t, []string{"", "Totals", "", "1950000.00", "1950000.00", "0.00"}, last)
}

func TestWriteCSV_CashbookKeepsRowOrder(t *testing.T) {
	book := &domain.Cashbook{
		Rows: []domain.CashbookRow{
			{Date: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), VoucherNumber: "V-2024-00001", CashIn: decimal.NewFromInt(100), CashOut: decimal.Zero, Balance: decimal.NewFromInt(100)},
			{Date: time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC), VoucherNumber: "V-2024-00002", CashIn: decimal.Zero, CashOut: decimal.NewFromInt(40), Balance: decimal.NewFromInt(60)},
		},
		TotalIn:  decimal.NewFromInt(100),
		TotalOut: decimal.NewFromInt(40),
		Closing:  decimal.NewFromInt(60),
	}
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, export.Header{Organization: "Org", Title: "Cashbook", Currency: "KSh"}, export.CashbookTable(book)))

	out := buf.String()
	first := strings.Index(out, "V-2024-00001")
	second := strings.Index(out, "V-2024-00002")
	assert.True(t, first > 0 && second > first)
	assert.Contains(t, out, ",60.00\n")
	assert.NotContains(t, out, "Period:")
}

func TestDepartmentSpendingTable(t *testing.T) {
	table := export.DepartmentSpendingTable([]domain.DepartmentSpend{
		{DepartmentName: "Health", Status: domain.DepartmentActive, Budget: decimal.NewFromInt(1200000),
			Spent: decimal.NewFromInt(450000), Remaining: decimal.NewFromInt(750000), Utilization: decimal.RequireFromString("0.375"), VoucherCount: 1},
	})
	require.Len(t, table.Rows, 1)
	util := table.Rows[0][5].(decimal.Decimal)
	assert.True(t, util.Equal(decimal.RequireFromString("37.5")))
	assert.True(t, table.Footer[4].(decimal.Decimal).Equal(decimal.NewFromInt(750000)))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatXLSX, sampleHeader(), export.TrialBalanceTable(sampleTrialBalance())))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Report", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Trial Balance", title)

	// Five header lines, a blank row, then the column row on row 7.
	col, err := f.GetCellValue("Report", "D7")
	require.NoError(t, err)
	assert.Equal(t, "Debit", col)

	code, err := f.GetCellValue("Report", "A8")
	require.NoError(t, err)
	assert.Equal(t, "C-001", code)

	rows, err := f.GetRows("Report")
	require.NoError(t, err)
	assert.Len(t, rows, 11)
}

func TestAccountsRoundTrip(t *testing.T) {
	accounts := []domain.Account{
		{AccountID: "a1", Code: "E-100", Name: "Programme Costs", AccountType: domain.Expense, IsActive: true},
		{AccountID: "a2", Code: "E-110", Name: "Medical, Supplies", AccountType: domain.Expense, ParentAccountID: "a1", IsActive: true},
		{AccountID: "a3", Code: "C-001", Name: "Cash", AccountType: domain.Asset, IsCash: true, IsActive: true},
	}
	var buf bytes.Buffer
	require.NoError(t, export.WriteAccounts(&buf, accounts))

	reqs, err := export.ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, reqs, 3)
	assert.Equal(t, "Medical, Supplies", reqs[1].Name)
	require.NotNil(t, reqs[1].ParentAccountCode)
	assert.Equal(t, "E-100", *reqs[1].ParentAccountCode)
	assert.Nil(t, reqs[0].ParentAccountCode)
	assert.True(t, reqs[2].IsCash)
}

func TestReadAccounts_Errors(t *testing.T) {
	_, err := export.ReadAccounts(strings.NewReader("code,name,type,parent_code,is_cash,description\nC-001,Cash,asset,,maybe,\n"))
	assert.ErrorContains(t, err, "row 2")

	_, err = export.ReadAccounts(strings.NewReader("code,name\nC-001,Cash\n"))
	assert.Error(t, err)

	reqs, err := export.ReadAccounts(strings.NewReader("code,name,type,parent_code,is_cash,description\nC-001,Cash,asset,,true,\n"))
	require.NoError(t, err)
	assert.Equal(t, domain.Asset, reqs[0].AccountType)
}
