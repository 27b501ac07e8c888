package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Department is a row of the departments table.
type Department struct {
	DepartmentID       string          `db:"department_id"`
	Name               string          `db:"name"`
	Head               string          `db:"head"`
	Budget             decimal.Decimal `db:"budget"`
	Description        string          `db:"description"`
	Status             string          `db:"status"`
	ExpenseAccountCode sql.NullString  `db:"expense_account_code"`
	AuditFields
}
