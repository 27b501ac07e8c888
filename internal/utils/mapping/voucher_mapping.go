package mapping

import (
	"database/sql"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/SscSPs/ngo_fund_ledger/internal/models"
)

// ToModelVoucher converts a domain Voucher to a model Voucher
func ToModelVoucher(d domain.Voucher) models.Voucher {
	m := models.Voucher{
		VoucherID:      d.VoucherID,
		VoucherNumber:  d.VoucherNumber,
		FiscalYear:     d.FiscalYear,
		Sequence:       d.Sequence,
		VoucherDate:    domain.TruncateToDate(d.Date),
		DepartmentID:   d.DepartmentID,
		Description:    d.Description,
		Amount:         d.Amount,
		VoucherType:    string(d.Type),
		Status:         string(d.Status),
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
		DepartmentName: nullString(d.DepartmentName),
	}
	if d.ApprovedBy != nil {
		m.ApprovedBy = sql.NullString{String: *d.ApprovedBy, Valid: true}
	}
	if d.ApprovedAt != nil {
		m.ApprovedAt = sql.NullTime{Time: *d.ApprovedAt, Valid: true}
	}
	return m
}

// ToDomainVoucher converts a model Voucher to a domain Voucher
func ToDomainVoucher(m models.Voucher) domain.Voucher {
	d := domain.Voucher{
		VoucherID:      m.VoucherID,
		VoucherNumber:  m.VoucherNumber,
		FiscalYear:     m.FiscalYear,
		Sequence:       m.Sequence,
		Date:           domain.TruncateToDate(m.VoucherDate),
		DepartmentID:   m.DepartmentID,
		Description:    m.Description,
		Amount:         m.Amount,
		Type:           domain.VoucherType(m.VoucherType),
		Status:         domain.VoucherStatus(m.Status),
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
		DepartmentName: m.DepartmentName.String,
	}
	if m.ApprovedBy.Valid {
		by := m.ApprovedBy.String
		d.ApprovedBy = &by
	}
	if m.ApprovedAt.Valid {
		at := m.ApprovedAt.Time
		d.ApprovedAt = &at
	}
	return d
}

// ToDomainVoucherSlice converts a slice of model Vouchers to a slice of domain Vouchers
func ToDomainVoucherSlice(ms []models.Voucher) []domain.Voucher {
	ds := make([]domain.Voucher, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainVoucher(m)
	}
	return ds
}
