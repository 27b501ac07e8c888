package accounting

import (
	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MaxAmountPlaces is the number of decimal places money may carry.
const MaxAmountPlaces = 2

// MaxAmount is the exclusive upper bound of a NUMERIC(18,2) money column.
var MaxAmount = decimal.New(1, 16)

// SignedBalance returns the balance of debit and credit totals on the account type's normal side.
// DEBIT-normal (ASSET, EXPENSE): debit - credit
// CREDIT-normal (LIABILITY, EQUITY, REVENUE): credit - debit
func SignedBalance(accountType domain.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if accountType.IsDebitNormal() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// ValidateAmount checks a voucher or line amount is positive with at most two decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationError("amount must be greater than zero, got %s", amount.String())
	}
	return validateMoney("amount", amount)
}

// ValidateBudget checks a department budget is non-negative and fits a money column.
func ValidateBudget(budget decimal.Decimal) error {
	if budget.IsNegative() {
		return apperrors.NewValidationError("budget cannot be negative")
	}
	return validateMoney("budget", budget)
}

func validateMoney(what string, v decimal.Decimal) error {
	if !v.Equal(v.Truncate(MaxAmountPlaces)) {
		return apperrors.NewValidationError("%s %s has more than %d decimal places", what, v.String(), MaxAmountPlaces)
	}
	if v.Abs().GreaterThanOrEqual(MaxAmount) {
		return apperrors.NewValidationError("%s %s must be less than %s", what, v.String(), MaxAmount.String())
	}
	return nil
}

// ValidateBatch checks the row-level and balancing invariants of a batch of journal entries.
// Rows must carry exactly one nonzero, non-negative side. Per voucher, debits must equal credits.
func ValidateBatch(entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return apperrors.NewValidationError("journal batch is empty")
	}

	type totals struct {
		debit, credit decimal.Decimal
		lines         int
	}
	byVoucher := make(map[string]*totals)
	var order []string

	for i, e := range entries {
		if e.VoucherID == "" {
			return apperrors.NewValidationError("entry %d has no voucher", i)
		}
		if e.AccountID == "" {
			return apperrors.NewValidationError("entry %d has no account", i)
		}
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return apperrors.NewValidationError("entry %d has a negative amount", i)
		}
		if e.Debit.IsZero() == e.Credit.IsZero() {
			return apperrors.NewValidationError("entry %d must have exactly one of debit or credit", i)
		}
		t, ok := byVoucher[e.VoucherID]
		if !ok {
			t = &totals{debit: decimal.Zero, credit: decimal.Zero}
			byVoucher[e.VoucherID] = t
			order = append(order, e.VoucherID)
		}
		t.lines++
		t.debit = t.debit.Add(e.Debit)
		t.credit = t.credit.Add(e.Credit)
	}

	for _, id := range order {
		t := byVoucher[id]
		if t.lines < 2 {
			return apperrors.NewValidationError("voucher %s must have at least two journal entries", id)
		}
		if !t.debit.Equal(t.credit) {
			return &apperrors.ImbalanceError{VoucherID: id, Debit: t.debit, Credit: t.credit}
		}
	}
	return nil
}

// WithinTolerance reports whether a and b differ by less than one cent.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(domain.BalanceTolerance)
}
