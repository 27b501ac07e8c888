// Package export renders report values as CSV and XLSX documents.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Format is an export document format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx", case-insensitively. Empty means CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName builds a download name such as "trial-balance_20241015.csv".
func (f Format) FileName(slug string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", slug, at.Format("20060102"), f)
}

// Header is printed above the table in every document.
type Header struct {
	Organization string
	Title        string
	Currency     string
	GeneratedAt  time.Time
	Period       domain.DateRange
}

// Lines returns the header rows in print order.
func (h Header) Lines() []string {
	lines := []string{h.Organization, h.Title, "Generated: " + h.GeneratedAt.Format("2006-01-02 15:04")}
	if p := periodLabel(h.Period); p != "" {
		lines = append(lines, "Period: "+p)
	}
	lines = append(lines, "Currency: "+h.Currency)
	return lines
}

func periodLabel(r domain.DateRange) string {
	switch {
	case r.From != nil && r.To != nil:
		return r.From.Format(domain.DateLayout) + " to " + r.To.Format(domain.DateLayout)
	case r.From != nil:
		return "from " + r.From.Format(domain.DateLayout)
	case r.To != nil:
		return "up to " + r.To.Format(domain.DateLayout)
	}
	return ""
}

// Table is a rectangular report body. Cells are string, int or decimal.Decimal.
type Table struct {
	Columns []string
	Rows    [][]any
	// Footer is an optional totals row.
	Footer []any
}

// CashbookTable lays out a cashbook with its running balance.
func CashbookTable(book *domain.Cashbook) Table {
	t := Table{Columns: []string{"Date", "Voucher", "Description", "Department", "Account", "Status", "Cash In", "Cash Out", "Balance"}}
	for _, r := range book.Rows {
		t.Rows = append(t.Rows, []any{
			r.Date.Format(domain.DateLayout), r.VoucherNumber, r.Description, r.DepartmentName,
			r.AccountCode, string(r.Status), r.CashIn, r.CashOut, r.Balance,
		})
	}
	t.Footer = []any{"", "", "Totals", "", "", "", book.TotalIn, book.TotalOut, book.Closing}
	return t
}

// TrialBalanceTable lists every account with its debit and credit totals.
func TrialBalanceTable(tb *domain.TrialBalance) Table {
	t := Table{Columns: []string{"Code", "Account", "Type", "Debit", "Credit", "Balance"}}
	for _, r := range tb.Rows {
		t.Rows = append(t.Rows, []any{r.AccountCode, r.AccountName, string(r.AccountType), r.Debit, r.Credit, r.Balance})
	}
	t.Footer = []any{"", "Totals", "", tb.TotalDebit, tb.TotalCredit, tb.Difference}
	return t
}

// DepartmentSpendingTable lists budget utilization per department.
func DepartmentSpendingTable(spend []domain.DepartmentSpend) Table {
	t := Table{Columns: []string{"Department", "Status", "Budget", "Spent", "Remaining", "Utilization %", "Vouchers"}}
	budget, spent := decimal.Zero, decimal.Zero
	for _, s := range spend {
		t.Rows = append(t.Rows, []any{
			s.DepartmentName, string(s.Status), s.Budget, s.Spent, s.Remaining,
			s.Utilization.Mul(decimal.NewFromInt(100)), s.VoucherCount,
		})
		budget = budget.Add(s.Budget)
		spent = spent.Add(s.Spent)
	}
	t.Footer = []any{"Totals", "", budget, spent, budget.Sub(spent), "", ""}
	return t
}

// formatCell renders a cell for text output. Amounts keep two decimals.
func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case decimal.Decimal:
		return c.StringFixed(2)
	case int:
		return fmt.Sprintf("%d", c)
	default:
		return fmt.Sprint(c)
	}
}
