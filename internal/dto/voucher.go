package dto

import (
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateVoucherRequest is the submission of one business event.
type CreateVoucherRequest struct {
	// Department accepts either the department ID or its name.
	Department  string             `json:"department" binding:"required"`
	Description string             `json:"description" binding:"required,max=500"`
	Amount      decimal.Decimal    `json:"amount"`
	Type        domain.VoucherType `json:"type" binding:"required,voucher_type"`
	// Date defaults to today in the reporting timezone. Format YYYY-MM-DD.
	Date *string `json:"date" binding:"omitempty,datetime=2006-01-02"`

	// ExpenseAccountCode is the debited account of an expense voucher.
	ExpenseAccountCode *string `json:"expenseAccountCode"`
	// RevenueAccountCode overrides the credited account of an income voucher.
	RevenueAccountCode *string `json:"revenueAccountCode"`
	// SourceAccountCode and DestinationAccountCode drive transfers. The source defaults to cash.
	SourceAccountCode      *string `json:"sourceAccountCode"`
	DestinationAccountCode *string `json:"destinationAccountCode"`

	// IdempotencyKey is taken from the Idempotency-Key header.
	IdempotencyKey string `json:"-"`
}

// ListVouchersParams defines query parameters for listing vouchers.
type ListVouchersParams struct {
	ReportQuery
	Limit     int     `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken *string `form:"nextToken"`
}

// JournalEntryResponse is one journal line.
type JournalEntryResponse struct {
	EntryID     string          `json:"entryID"`
	VoucherID   string          `json:"voucherID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	EntryDate   string          `json:"entryDate"`
	IsReversal  bool            `json:"isReversal"`
}

// VoucherResponse is the voucher as returned to clients.
type VoucherResponse struct {
	VoucherID      string                 `json:"voucherID"`
	VoucherNumber  string                 `json:"voucherNumber"`
	Date           string                 `json:"date"`
	DepartmentID   string                 `json:"departmentID"`
	DepartmentName string                 `json:"departmentName,omitempty"`
	Description    string                 `json:"description"`
	Amount         decimal.Decimal        `json:"amount"`
	Type           domain.VoucherType     `json:"type"`
	Status         domain.VoucherStatus   `json:"status"`
	CreatedBy      string                 `json:"createdBy"`
	CreatedAt      time.Time              `json:"createdAt"`
	ApprovedBy     *string                `json:"approvedBy,omitempty"`
	ApprovedAt     *time.Time             `json:"approvedAt,omitempty"`
	Entries        []JournalEntryResponse `json:"entries,omitempty"`
}

// ListVouchersResponse wraps one page of vouchers.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToVoucherResponse converts a domain.Voucher to its DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	return VoucherResponse{
		VoucherID:      v.VoucherID,
		VoucherNumber:  v.VoucherNumber,
		Date:           v.Date.Format(domain.DateLayout),
		DepartmentID:   v.DepartmentID,
		DepartmentName: v.DepartmentName,
		Description:    v.Description,
		Amount:         v.Amount,
		Type:           v.Type,
		Status:         v.Status,
		CreatedBy:      v.CreatedBy,
		CreatedAt:      v.CreatedAt,
		ApprovedBy:     v.ApprovedBy,
		ApprovedAt:     v.ApprovedAt,
	}
}

// ToVoucherDetailResponse includes the voucher's journal lines.
func ToVoucherDetailResponse(v *domain.VoucherWithEntries) VoucherResponse {
	res := ToVoucherResponse(&v.Voucher)
	res.Entries = ToPostedEntryResponses(v.Entries)
	return res
}

// ToPostedEntryResponses converts joined journal lines.
func ToPostedEntryResponses(entries []domain.PostedEntry) []JournalEntryResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = JournalEntryResponse{
			EntryID:     e.EntryID,
			VoucherID:   e.VoucherID,
			AccountCode: e.AccountCode,
			AccountName: e.AccountName,
			Debit:       e.Debit,
			Credit:      e.Credit,
			Description: e.Description,
			EntryDate:   e.EntryDate.Format(domain.DateLayout),
			IsReversal:  e.IsReversal,
		}
	}
	return res
}
