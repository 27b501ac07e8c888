package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/dto"
	"github.com/SscSPs/ngo_fund_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultCashAccountCode    = "C-001"
	DefaultRevenueAccountCode = "R-200"
	DefaultVoucherPrefix      = "V"
	DefaultFiscalYearStart    = time.July
	DefaultListLimit          = 50
)

// voucherService is the voucher engine: it turns one business event into a
// numbered voucher and a balanced journal batch, and runs the approval workflow.
type voucherService struct {
	BaseService
	voucherRepo    portsrepo.VoucherRepositoryFacade
	accountRepo    portsrepo.AccountReader
	departmentRepo portsrepo.DepartmentReader
	journalRepo    portsrepo.JournalReader
	idempotency    portsrepo.IdempotencyStore

	cashAccountCode    string
	revenueAccountCode string
	prefix             string
	fiscalYearStart    time.Month
	location           *time.Location
}

// VoucherServiceOption is a functional option for configuring the voucher service
type VoucherServiceOption func(*voucherService)

// WithCashAccountCode sets the central cash account used by income and expense vouchers.
func WithCashAccountCode(code string) VoucherServiceOption {
	return func(s *voucherService) {
		if code != "" {
			s.cashAccountCode = code
		}
	}
}

// WithRevenueAccountCode sets the account credited by income vouchers that name none.
func WithRevenueAccountCode(code string) VoucherServiceOption {
	return func(s *voucherService) {
		if code != "" {
			s.revenueAccountCode = code
		}
	}
}

// WithVoucherPrefix sets the voucher number prefix.
func WithVoucherPrefix(prefix string) VoucherServiceOption {
	return func(s *voucherService) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithFiscalYearStart sets the first month of the fiscal year.
func WithFiscalYearStart(m time.Month) VoucherServiceOption {
	return func(s *voucherService) {
		if m >= time.January && m <= time.December {
			s.fiscalYearStart = m
		}
	}
}

// WithLocation sets the reporting timezone that decides "today".
func WithLocation(loc *time.Location) VoucherServiceOption {
	return func(s *voucherService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithIdempotencyStore enables Idempotency-Key handling.
func WithIdempotencyStore(store portsrepo.IdempotencyStore) VoucherServiceOption {
	return func(s *voucherService) {
		s.idempotency = store
	}
}

// WithVoucherObserver sets the event observer.
func WithVoucherObserver(o portssvc.LedgerObserver) VoucherServiceOption {
	return func(s *voucherService) {
		if o != nil {
			s.Observer = o
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) VoucherServiceOption {
	return func(s *voucherService) {
		if now != nil {
			s.Now = now
		}
	}
}

// NewVoucherService creates a new voucher service with the provided options
func NewVoucherService(
	voucherRepo portsrepo.VoucherRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	departmentRepo portsrepo.DepartmentReader,
	journalRepo portsrepo.JournalReader,
	options ...VoucherServiceOption,
) portssvc.VoucherSvcFacade {
	svc := &voucherService{
		BaseService:        newBaseService("voucher"),
		voucherRepo:        voucherRepo,
		accountRepo:        accountRepo,
		departmentRepo:     departmentRepo,
		journalRepo:        journalRepo,
		cashAccountCode:    DefaultCashAccountCode,
		revenueAccountCode: DefaultRevenueAccountCode,
		prefix:             DefaultVoucherPrefix,
		fiscalYearStart:    DefaultFiscalYearStart,
		location:           time.UTC,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure voucherService implements the VoucherSvcFacade interface
var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

// today is the current calendar date in the reporting timezone.
func (s *voucherService) today() time.Time {
	return domain.TruncateToDate(s.Now().In(s.location))
}

func (s *voucherService) CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, userID string) (*domain.VoucherWithEntries, error) {
	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		return s.createVoucher(ctx, req, userID)
	}

	// Keys are scoped per user; two users may pick the same key.
	scoped := userID + ":" + key
	fingerprint, err := requestFingerprint(req)
	if err != nil {
		return nil, err
	}

	existing, reserved, err := s.idempotency.Reserve(ctx, scoped, fingerprint)
	if err != nil {
		s.LogError(ctx, err, "Failed to reserve idempotency key", slog.String("idempotency_key", key))
		return nil, err
	}
	if !reserved {
		if existing.Fingerprint != "" && existing.Fingerprint != fingerprint {
			return nil, fmt.Errorf("%w: idempotency key %s was already used with a different request", apperrors.ErrConflict, key)
		}
		if existing.VoucherID == "" {
			return nil, fmt.Errorf("%w: request with idempotency key %s is still being processed", apperrors.ErrConflict, key)
		}
		s.LogInfo(ctx, "Replaying voucher for idempotency key",
			slog.String("idempotency_key", key),
			slog.String("voucher_id", existing.VoucherID))
		return s.GetVoucher(ctx, existing.VoucherID)
	}

	created, err := s.createVoucher(ctx, req, userID)
	if err != nil {
		if relErr := s.idempotency.Release(ctx, scoped); relErr != nil {
			s.LogError(ctx, relErr, "Failed to release idempotency key", slog.String("idempotency_key", key))
		}
		return nil, err
	}
	record := portsrepo.IdempotencyRecord{Fingerprint: fingerprint, VoucherID: created.VoucherID}
	if err := s.idempotency.Complete(ctx, scoped, record); err != nil {
		// The voucher is committed; a lost key only means a retry could post twice.
		s.LogError(ctx, err, "Failed to record idempotency key", slog.String("idempotency_key", key))
	}
	return created, nil
}

// requestFingerprint hashes the fields that define a voucher request, normalized
// so that "100" and "100.00" or surrounding spaces do not count as different.
func requestFingerprint(req dto.CreateVoucherRequest) (string, error) {
	trimmed := func(p *string) string {
		if p == nil {
			return ""
		}
		return strings.TrimSpace(*p)
	}
	canonical := struct {
		Department  string `json:"department"`
		Description string `json:"description"`
		Amount      string `json:"amount"`
		Type        string `json:"type"`
		Date        string `json:"date"`
		Expense     string `json:"expense"`
		Revenue     string `json:"revenue"`
		Source      string `json:"source"`
		Destination string `json:"destination"`
	}{
		Department:  strings.ToLower(strings.TrimSpace(req.Department)),
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount.String(),
		Type:        string(req.Type),
		Date:        trimmed(req.Date),
		Expense:     trimmed(req.ExpenseAccountCode),
		Revenue:     trimmed(req.RevenueAccountCode),
		Source:      trimmed(req.SourceAccountCode),
		Destination: trimmed(req.DestinationAccountCode),
	}
	raw, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("fingerprinting voucher request: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func (s *voucherService) createVoucher(ctx context.Context, req dto.CreateVoucherRequest, userID string) (*domain.VoucherWithEntries, error) {
	if !req.Type.IsValid() {
		return nil, apperrors.NewValidationError("unknown voucher type %q", req.Type)
	}
	if err := accounting.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, apperrors.NewValidationError("description is required")
	}

	dept, err := resolveDepartment(ctx, s.departmentRepo, req.Department)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("department %q does not exist", req.Department)
		}
		return nil, err
	}
	if !dept.IsActive() {
		return nil, apperrors.NewValidationError("department %s is inactive", dept.Name)
	}

	date := s.today()
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse(domain.DateLayout, *req.Date)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid voucher date %q", *req.Date)
		}
		date = domain.TruncateToDate(parsed)
	}

	debit, credit, err := s.resolveAccounts(ctx, req, dept)
	if err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	voucher := domain.Voucher{
		VoucherID:    uuid.NewString(),
		Date:         date,
		DepartmentID: dept.DepartmentID,
		Description:  description,
		Amount:       req.Amount,
		Type:         req.Type,
		Status:       domain.VoucherPending,
		CreatedBy:    userID,
		CreatedAt:    now,
	}
	entries := []domain.JournalEntry{
		s.newEntry(voucher, debit.AccountID, req.Amount, decimal.Zero, now),
		s.newEntry(voucher, credit.AccountID, decimal.Zero, req.Amount, now),
	}
	if err := accounting.ValidateBatch(entries); err != nil {
		s.LogError(ctx, err, "Voucher produced an invalid journal batch", slog.String("voucher_id", voucher.VoucherID))
		return nil, err
	}

	series := domain.VoucherSeries{Prefix: s.prefix, FiscalYear: domain.FiscalYearOf(date, s.fiscalYearStart)}
	created, err := s.voucherRepo.CreateVoucher(ctx, series, voucher, entries)
	if err != nil {
		if errors.Is(err, apperrors.ErrImbalance) {
			s.LogError(ctx, err, "DEFECT: imbalanced voucher reached the journal store", slog.String("voucher_id", voucher.VoucherID))
		} else {
			s.LogError(ctx, err, "Failed to create voucher", slog.String("voucher_id", voucher.VoucherID))
		}
		return nil, err
	}
	created.DepartmentName = dept.Name

	s.Observer.VoucherCreated(created.Type)
	s.LogInfo(ctx, "Voucher created",
		slog.String("voucher_id", created.VoucherID),
		slog.String("voucher_number", created.VoucherNumber),
		slog.String("type", string(created.Type)),
		slog.String("amount", created.Amount.String()))

	posted, err := s.journalRepo.EntriesForVoucher(ctx, created.VoucherID)
	if err != nil {
		return nil, err
	}
	return &domain.VoucherWithEntries{Voucher: *created, Entries: posted}, nil
}

func (s *voucherService) newEntry(v domain.Voucher, accountID string, debit, credit decimal.Decimal, now time.Time) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     uuid.NewString(),
		VoucherID:   v.VoucherID,
		AccountID:   accountID,
		Debit:       debit,
		Credit:      credit,
		Description: v.Description,
		EntryDate:   v.Date,
		CreatedAt:   now,
		CreatedBy:   v.CreatedBy,
	}
}

// resolveAccounts picks the debit and credit accounts for a voucher type.
//
//	expense:  Dr expense account   Cr cash
//	income:   Dr cash              Cr revenue account
//	transfer: Dr destination       Cr source (cash by default)
func (s *voucherService) resolveAccounts(ctx context.Context, req dto.CreateVoucherRequest, dept *domain.Department) (*domain.Account, *domain.Account, error) {
	switch req.Type {
	case domain.VoucherExpense:
		code := optional(req.ExpenseAccountCode)
		if code == "" {
			code = dept.ExpenseAccountCode
		}
		if code == "" {
			return nil, nil, apperrors.NewValidationError("expense vouchers need an expense account code")
		}
		expense, err := requirePostable(ctx, s.accountRepo, code, domain.Expense)
		if err != nil {
			return nil, nil, err
		}
		cash, err := requirePostable(ctx, s.accountRepo, s.cashAccountCode, "")
		if err != nil {
			return nil, nil, err
		}
		return expense, cash, nil

	case domain.VoucherIncome:
		code := optional(req.RevenueAccountCode)
		if code == "" {
			code = s.revenueAccountCode
		}
		revenue, err := requirePostable(ctx, s.accountRepo, code, domain.Revenue)
		if err != nil {
			return nil, nil, err
		}
		cash, err := requirePostable(ctx, s.accountRepo, s.cashAccountCode, "")
		if err != nil {
			return nil, nil, err
		}
		return cash, revenue, nil

	case domain.VoucherTransfer:
		destCode := optional(req.DestinationAccountCode)
		if destCode == "" {
			return nil, nil, apperrors.NewValidationError("transfer vouchers need a destination account code")
		}
		srcCode := optional(req.SourceAccountCode)
		if srcCode == "" {
			srcCode = s.cashAccountCode
		}
		if srcCode == destCode {
			return nil, nil, apperrors.NewValidationError("transfer source and destination must differ")
		}
		dest, err := requirePostable(ctx, s.accountRepo, destCode, "")
		if err != nil {
			return nil, nil, err
		}
		src, err := requirePostable(ctx, s.accountRepo, srcCode, "")
		if err != nil {
			return nil, nil, err
		}
		return dest, src, nil
	}
	return nil, nil, apperrors.NewValidationError("unknown voucher type %q", req.Type)
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func (s *voucherService) ApproveVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error) {
	return s.transition(ctx, portsrepo.VoucherTransition{
		VoucherID: voucherID,
		To:        domain.VoucherApproved,
		By:        userID,
		At:        s.Now().UTC(),
	})
}

// RejectVoucher closes a pending voucher and appends the mirror of its entries,
// dated on the rejection date, so the voucher nets to zero in every view.
func (s *voucherService) RejectVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error) {
	now := s.Now().UTC()
	rejectedOn := s.today()

	return s.transition(ctx, portsrepo.VoucherTransition{
		VoucherID: voucherID,
		To:        domain.VoucherRejected,
		By:        userID,
		At:        now,
		Reverse: func(original []domain.JournalEntry) ([]domain.JournalEntry, error) {
			reversal := make([]domain.JournalEntry, 0, len(original))
			for _, e := range original {
				if e.IsReversal {
					continue
				}
				date := rejectedOn
				if date.Before(e.EntryDate) {
					date = e.EntryDate
				}
				r := e.Reversed(date)
				r.EntryID = uuid.NewString()
				r.CreatedAt = now
				r.CreatedBy = userID
				reversal = append(reversal, r)
			}
			if err := accounting.ValidateBatch(reversal); err != nil {
				return nil, err
			}
			return reversal, nil
		},
	})
}

func (s *voucherService) transition(ctx context.Context, t portsrepo.VoucherTransition) (*domain.Voucher, error) {
	v, err := s.voucherRepo.TransitionVoucher(ctx, t)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrInvalidState):
			s.LogDebug(ctx, "Voucher transition refused",
				slog.String("voucher_id", t.VoucherID),
				slog.String("to", string(t.To)),
				slog.String("reason", err.Error()))
		case errors.Is(err, apperrors.ErrImbalance):
			s.LogError(ctx, err, "DEFECT: reversal batch did not balance", slog.String("voucher_id", t.VoucherID))
		default:
			s.LogError(ctx, err, "Failed to transition voucher",
				slog.String("voucher_id", t.VoucherID),
				slog.String("to", string(t.To)))
		}
		return nil, err
	}

	s.Observer.VoucherTransitioned(v.Status)
	s.LogInfo(ctx, "Voucher status changed",
		slog.String("voucher_id", v.VoucherID),
		slog.String("voucher_number", v.VoucherNumber),
		slog.String("status", string(v.Status)),
		slog.String("by", t.By))
	return v, nil
}

func (s *voucherService) GetVoucher(ctx context.Context, voucherID string) (*domain.VoucherWithEntries, error) {
	v, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
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
	return &domain.VoucherWithEntries{Voucher: *v, Entries: entries}, nil
}

func (s *voucherService) ListVouchers(ctx context.Context, params domain.VoucherListParams) ([]domain.Voucher, *string, error) {
	filter, err := normalizeFilter(ctx, s.departmentRepo, params.Filter)
	if err != nil {
		return nil, nil, err
	}
	params.Filter = filter
	if params.Limit <= 0 {
		params.Limit = DefaultListLimit
	}

	vouchers, next, err := s.voucherRepo.ListVouchers(ctx, params)
	if err != nil {
		s.LogError(ctx, err, "Failed to list vouchers")
		return nil, nil, err
	}
	if vouchers == nil {
		vouchers = []domain.Voucher{}
	}
	return vouchers, next, nil
}
