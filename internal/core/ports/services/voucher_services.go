package services

import (
	"context"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/SscSPs/ngo_fund_ledger/internal/dto"
)

// VoucherReaderSvc defines read operations for vouchers
type VoucherReaderSvc interface {
	// GetVoucher returns a voucher with its journal lines.
	GetVoucher(ctx context.Context, voucherID string) (*domain.VoucherWithEntries, error)

	// ListVouchers returns one page of vouchers, newest first.
	ListVouchers(ctx context.Context, params domain.VoucherListParams) ([]domain.Voucher, *string, error)
}

// VoucherWriterSvc defines the voucher workflow
type VoucherWriterSvc interface {
	// CreateVoucher validates the request, numbers the voucher and posts its balanced entries atomically.
	CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, userID string) (*domain.VoucherWithEntries, error)

	// ApproveVoucher moves a pending voucher to approved.
	ApproveVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error)

	// RejectVoucher moves a pending voucher to rejected and posts its reversal.
	RejectVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error)
}

// VoucherSvcFacade combines all voucher-related service interfaces
type VoucherSvcFacade interface {
	VoucherReaderSvc
	VoucherWriterSvc
}
