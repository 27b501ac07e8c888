package accounting

import (
	"iter"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UtilizationPlaces is the precision of the spent/budget ratio.
const UtilizationPlaces = 4

// BuildDepartmentSpending derives each department's spend from debits to EXPENSE accounts
// on approved vouchers. Departments keep the order they are given in. Entries of unknown
// departments are ignored.
func BuildDepartmentSpending(departments []domain.Department, entries iter.Seq2[domain.PostedEntry, error]) ([]domain.DepartmentSpend, error) {
	spent := make(map[string]decimal.Decimal, len(departments))
	vouchers := make(map[string]map[string]struct{}, len(departments))
	for _, d := range departments {
		spent[d.DepartmentID] = decimal.Zero
		vouchers[d.DepartmentID] = map[string]struct{}{}
	}

	for e, err := range entries {
		if err != nil {
			return nil, err
		}
		if e.VoucherStatus != domain.VoucherApproved || e.AccountType != domain.Expense || !e.Debit.IsPositive() {
			continue
		}
		total, ok := spent[e.DepartmentID]
		if !ok {
			continue
		}
		spent[e.DepartmentID] = total.Add(e.Debit)
		vouchers[e.DepartmentID][e.VoucherID] = struct{}{}
	}

	out := make([]domain.DepartmentSpend, 0, len(departments))
	for _, d := range departments {
		s := spent[d.DepartmentID]
		utilization := decimal.Zero
		if d.Budget.IsPositive() {
			utilization = s.DivRound(d.Budget, UtilizationPlaces)
		}
		out = append(out, domain.DepartmentSpend{
			DepartmentID:   d.DepartmentID,
			DepartmentName: d.Name,
			Status:         d.Status,
			Budget:         d.Budget,
			Spent:          s,
			Remaining:      d.Budget.Sub(s),
			Utilization:    utilization,
			VoucherCount:   len(vouchers[d.DepartmentID]),
		})
	}
	return out, nil
}
