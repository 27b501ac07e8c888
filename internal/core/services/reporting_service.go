package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/utils/accounting"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	accountRepo    portsrepo.AccountReader
	departmentRepo portsrepo.DepartmentReader
	journalRepo    portsrepo.JournalReader
	voucherRepo    portsrepo.VoucherReader
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingObserver sets the event observer.
func WithReportingObserver(o portssvc.LedgerObserver) ReportingServiceOption {
	return func(s *reportingService) {
		if o != nil {
			s.Observer = o
		}
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repos portsrepo.RepositoryProvider, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		BaseService:    newBaseService("reporting"),
		accountRepo:    repos.AccountRepo,
		departmentRepo: repos.DepartmentRepo,
		journalRepo:    repos.JournalRepo,
		voucherRepo:    repos.VoucherRepo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// statementFilter drops the per-entry predicates that would break a whole-chart statement.
// Voucher-level predicates keep each voucher whole, so totals still balance.
func statementFilter(f domain.Filter) domain.Filter {
	f.AccountCode = ""
	f.CashOnly = false
	return f
}

func (s *reportingService) Cashbook(ctx context.Context, filter domain.Filter) (*domain.Cashbook, error) {
	f, err := normalizeFilter(ctx, s.departmentRepo, filter)
	if err != nil {
		return nil, err
	}
	f.CashOnly = true

	book, err := accounting.BuildCashbook(s.journalRepo.Entries(ctx, f))
	if err != nil {
		s.LogError(ctx, err, "Failed to build cashbook")
		return nil, err
	}
	s.LogDebug(ctx, "Cashbook generated", slog.Int("row_count", len(book.Rows)))
	return book, nil
}

func (s *reportingService) GeneralLedger(ctx context.Context, filter domain.Filter) (*domain.GeneralLedger, error) {
	f, err := normalizeFilter(ctx, s.departmentRepo, filter)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for ledger")
		return nil, err
	}

	gl, err := accounting.BuildGeneralLedger(accounts, s.journalRepo.Entries(ctx, f))
	if err != nil {
		s.LogError(ctx, err, "Failed to build general ledger")
		return nil, err
	}
	s.LogDebug(ctx, "General ledger generated", slog.Int("row_count", len(gl.Rows)))
	return gl, nil
}

// chartAndTotals loads the full chart and the per-account totals for a statement.
func (s *reportingService) chartAndTotals(ctx context.Context, filter domain.Filter) ([]domain.Account, []domain.AccountTotal, domain.Filter, error) {
	f, err := normalizeFilter(ctx, s.departmentRepo, filter)
	if err != nil {
		return nil, nil, f, err
	}
	f = statementFilter(f)

	accounts, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for statement")
		return nil, nil, f, err
	}
	totals, err := s.journalRepo.AccountTotals(ctx, f)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account totals")
		return nil, nil, f, err
	}
	return accounts, totals, f, nil
}

func (s *reportingService) TrialBalance(ctx context.Context, filter domain.Filter) (*domain.TrialBalance, error) {
	accounts, totals, _, err := s.chartAndTotals(ctx, filter)
	if err != nil {
		return nil, err
	}

	tb := accounting.BuildTrialBalance(accounts, totals)
	s.Observer.TrialBalanceComputed(tb.Difference)
	if !tb.IsBalanced {
		s.GetLogger(ctx).Error("DEFECT: trial balance does not balance",
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()),
			slog.String("difference", tb.Difference.String()))
	}
	s.LogDebug(ctx, "Trial balance generated", slog.Int("row_count", len(tb.Rows)))
	return tb, nil
}

func (s *reportingService) BalanceSheet(ctx context.Context, filter domain.Filter) (*domain.BalanceSheet, error) {
	accounts, totals, _, err := s.chartAndTotals(ctx, filter)
	if err != nil {
		return nil, err
	}

	bs := accounting.BuildBalanceSheet(accounts, totals)
	if !bs.IsBalanced {
		s.GetLogger(ctx).Error("DEFECT: balance sheet does not balance",
			slog.String("total_assets", bs.TotalAssets.String()),
			slog.String("total_liabilities", bs.TotalLiabilities.String()),
			slog.String("total_equity", bs.TotalEquity.String()))
	}
	return bs, nil
}

func (s *reportingService) IncomeStatement(ctx context.Context, filter domain.Filter) (*domain.IncomeStatement, error) {
	accounts, totals, _, err := s.chartAndTotals(ctx, filter)
	if err != nil {
		return nil, err
	}
	return accounting.BuildIncomeStatement(accounts, totals), nil
}

func (s *reportingService) DepartmentSpending(ctx context.Context, filter domain.Filter) ([]domain.DepartmentSpend, error) {
	f, err := normalizeFilter(ctx, s.departmentRepo, filter)
	if err != nil {
		return nil, err
	}
	f = f.WithStatuses(domain.VoucherApproved)
	f.CashOnly = false

	depts, err := s.departmentRepo.ListDepartments(ctx, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to list departments for spending")
		return nil, err
	}
	if f.DepartmentID != "" {
		selected := depts[:0:0]
		for _, d := range depts {
			if d.DepartmentID == f.DepartmentID {
				selected = append(selected, d)
			}
		}
		depts = selected
	}

	spend, err := accounting.BuildDepartmentSpending(depts, s.journalRepo.Entries(ctx, f))
	if err != nil {
		s.LogError(ctx, err, "Failed to build department spending")
		return nil, err
	}
	return spend, nil
}

func (s *reportingService) FinancialSummary(ctx context.Context, filter domain.Filter) (*domain.FinancialSummary, error) {
	accounts, totals, f, err := s.chartAndTotals(ctx, filter)
	if err != nil {
		return nil, err
	}
	pending, err := s.voucherRepo.CountVouchers(ctx, f.WithStatuses(domain.VoucherPending))
	if err != nil {
		s.LogError(ctx, err, "Failed to count pending vouchers")
		return nil, err
	}
	return accounting.BuildFinancialSummary(accounts, totals, pending), nil
}
