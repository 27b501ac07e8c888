package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Voucher is a row of the vouchers table, optionally joined with its department name.
type Voucher struct {
	VoucherID      string          `db:"voucher_id"`
	VoucherNumber  string          `db:"voucher_number"`
	FiscalYear     int             `db:"fiscal_year"`
	Sequence       int             `db:"sequence"`
	VoucherDate    time.Time       `db:"voucher_date"`
	DepartmentID   string          `db:"department_id"`
	Description    string          `db:"description"`
	Amount         decimal.Decimal `db:"amount"`
	VoucherType    string          `db:"voucher_type"`
	Status         string          `db:"status"`
	CreatedAt      time.Time       `db:"created_at"`
	CreatedBy      string          `db:"created_by"`
	ApprovedAt     sql.NullTime    `db:"approved_at"`
	ApprovedBy     sql.NullString  `db:"approved_by"`
	DepartmentName sql.NullString  `db:"department_name"`
}
