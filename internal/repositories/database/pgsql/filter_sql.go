package pgsql

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
)

// whereBuilder accumulates AND-ed predicates with positional arguments.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) addRaw(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func statusStrings(statuses []domain.VoucherStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// entryWhere renders f against the joined journal query (je, a, v aliases).
func entryWhere(f domain.Filter) *whereBuilder {
	w := &whereBuilder{}
	if f.DateRange.From != nil {
		w.add("je.entry_date >= ?", domain.TruncateToDate(*f.DateRange.From))
	}
	if f.DateRange.To != nil {
		w.add("je.entry_date <= ?", domain.TruncateToDate(*f.DateRange.To))
	}
	if f.DepartmentID != "" {
		w.add("v.department_id = ?", f.DepartmentID)
	}
	if f.AccountCode != "" {
		w.add("a.code = ?", f.AccountCode)
	}
	if len(f.Statuses) > 0 {
		w.add("v.status = ANY(?)", statusStrings(f.Statuses))
	}
	if f.VoucherType != "" {
		w.add("v.voucher_type = ?", string(f.VoucherType))
	}
	if f.CashOnly {
		w.addRaw("a.is_cash")
	}
	return w
}

// voucherWhere renders the voucher-level predicates of f (v alias). AccountCode and CashOnly do not apply.
func voucherWhere(f domain.Filter) *whereBuilder {
	w := &whereBuilder{}
	if f.DateRange.From != nil {
		w.add("v.voucher_date >= ?", domain.TruncateToDate(*f.DateRange.From))
	}
	if f.DateRange.To != nil {
		w.add("v.voucher_date <= ?", domain.TruncateToDate(*f.DateRange.To))
	}
	if f.DepartmentID != "" {
		w.add("v.department_id = ?", f.DepartmentID)
	}
	if len(f.Statuses) > 0 {
		w.add("v.status = ANY(?)", statusStrings(f.Statuses))
	}
	if f.VoucherType != "" {
		w.add("v.voucher_type = ?", string(f.VoucherType))
	}
	return w
}
