package domain

import "github.com/shopspring/decimal"

// DepartmentStatus is the operational state of a department.
type DepartmentStatus string

const (
	DepartmentActive   DepartmentStatus = "active"
	DepartmentInactive DepartmentStatus = "inactive"
)

// Department is a budget holder that vouchers are raised against.
// Budget consumption is derived from the journal, never stored.
type Department struct {
	DepartmentID string           `json:"departmentID"`
	Name         string           `json:"name"`
	Head         string           `json:"head"`
	Budget       decimal.Decimal  `json:"budget"`
	Description  string           `json:"description,omitempty"`
	Status       DepartmentStatus `json:"status"`
	// ExpenseAccountCode is used for expense vouchers that do not name an account.
	ExpenseAccountCode string `json:"expenseAccountCode,omitempty"`
	AuditFields
}

// IsActive reports whether vouchers may be raised against the department.
func (d Department) IsActive() bool {
	return d.Status == DepartmentActive
}
