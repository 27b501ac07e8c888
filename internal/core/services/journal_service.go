package services

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"strings"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
)

// journalService exposes the journal store for drill-down and audit.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalReader
	accountRepo portsrepo.AccountReader
	voucherRepo portsrepo.VoucherReader
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalReader, accountRepo portsrepo.AccountReader, voucherRepo portsrepo.VoucherReader) portssvc.JournalSvcFacade {
	return &journalService{
		BaseService: newBaseService("journal"),
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		voucherRepo: voucherRepo,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) EntriesForAccount(ctx context.Context, accountCode string, rng domain.DateRange) (iter.Seq2[domain.PostedEntry, error], error) {
	code := strings.TrimSpace(accountCode)
	if code == "" {
		return nil, apperrors.NewValidationError("account code is required")
	}
	if err := rng.Validate(); err != nil {
		return nil, apperrors.NewValidationError("%s", err.Error())
	}
	if _, err := s.accountRepo.FindAccountByCode(ctx, code); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("code", code))
		}
		return nil, err
	}
	return s.journalRepo.Entries(ctx, domain.Filter{DateRange: rng, AccountCode: code}), nil
}

func (s *journalService) EntriesForVoucher(ctx context.Context, voucherID string) ([]domain.PostedEntry, error) {
	if _, err := s.voucherRepo.FindVoucherByID(ctx, voucherID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find voucher", slog.String("voucher_id", voucherID))
		}
		return nil, err
	}
	entries, err := s.journalRepo.EntriesForVoucher(ctx, voucherID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load voucher entries", slog.String("voucher_id", voucherID))
		return nil, err
	}
	return entries, nil
}
