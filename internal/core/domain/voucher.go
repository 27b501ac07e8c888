package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType classifies the business event a voucher records.
type VoucherType string

const (
	VoucherIncome   VoucherType = "income"
	VoucherExpense  VoucherType = "expense"
	VoucherTransfer VoucherType = "transfer"
)

// IsValid reports whether t is a known voucher type.
func (t VoucherType) IsValid() bool {
	switch t {
	case VoucherIncome, VoucherExpense, VoucherTransfer:
		return true
	}
	return false
}

// VoucherStatus is the approval workflow state of a voucher.
type VoucherStatus string

const (
	VoucherPending  VoucherStatus = "pending"
	VoucherApproved VoucherStatus = "approved"
	VoucherRejected VoucherStatus = "rejected"
)

// IsValid reports whether s is a known voucher status.
func (s VoucherStatus) IsValid() bool {
	switch s {
	case VoucherPending, VoucherApproved, VoucherRejected:
		return true
	}
	return false
}

// CanTransitionTo enforces pending -> approved|rejected. Approved and rejected are terminal.
func (s VoucherStatus) CanTransitionTo(next VoucherStatus) bool {
	return s == VoucherPending && (next == VoucherApproved || next == VoucherRejected)
}

// Voucher is a single business transaction request and its approval state.
type Voucher struct {
	VoucherID     string          `json:"voucherID"`
	VoucherNumber string          `json:"voucherNumber"`
	FiscalYear    int             `json:"fiscalYear"`
	Sequence      int             `json:"sequence"`
	Date          time.Time       `json:"date"`
	DepartmentID  string          `json:"departmentID"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          VoucherType     `json:"type"`
	Status        VoucherStatus   `json:"status"`
	CreatedBy     string          `json:"createdBy"`
	CreatedAt     time.Time       `json:"createdAt"`
	ApprovedBy    *string         `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time      `json:"approvedAt,omitempty"`

	// Populated on reads that join the department.
	DepartmentName string `json:"departmentName,omitempty"`
}

// VoucherWithEntries is the drill-down view of one voucher.
type VoucherWithEntries struct {
	Voucher
	Entries []PostedEntry `json:"entries"`
}

// VoucherSeries identifies one gap-free numbering scope.
type VoucherSeries struct {
	Prefix     string
	FiscalYear int
}

// Key is the persisted identifier of the series.
func (s VoucherSeries) Key() string {
	return fmt.Sprintf("%s-%d", s.Prefix, s.FiscalYear)
}

// Format renders the voucher number for a sequence value, e.g. V-2025-00042.
func (s VoucherSeries) Format(seq int) string {
	return fmt.Sprintf("%s-%d-%05d", s.Prefix, s.FiscalYear, seq)
}

// FiscalYearOf returns the fiscal year label for a date, where the fiscal year
// starts on the first day of startMonth and is labelled by its starting year.
func FiscalYearOf(date time.Time, startMonth time.Month) int {
	if startMonth < time.January || startMonth > time.December {
		startMonth = time.January
	}
	if date.Month() < startMonth {
		return date.Year() - 1
	}
	return date.Year()
}

// VoucherListParams drives the paginated voucher listing.
type VoucherListParams struct {
	Filter    Filter
	Limit     int
	NextToken *string
}
