package services

import (
	"context"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
)

// ReportingService derives read-only views from the journal.
// Every method treats an empty journal as valid input.
type ReportingService interface {
	Cashbook(ctx context.Context, filter domain.Filter) (*domain.Cashbook, error)
	GeneralLedger(ctx context.Context, filter domain.Filter) (*domain.GeneralLedger, error)
	TrialBalance(ctx context.Context, filter domain.Filter) (*domain.TrialBalance, error)
	BalanceSheet(ctx context.Context, filter domain.Filter) (*domain.BalanceSheet, error)
	IncomeStatement(ctx context.Context, filter domain.Filter) (*domain.IncomeStatement, error)

	// DepartmentSpending counts approved vouchers only, whatever statuses filter names.
	DepartmentSpending(ctx context.Context, filter domain.Filter) ([]domain.DepartmentSpend, error)

	FinancialSummary(ctx context.Context, filter domain.Filter) (*domain.FinancialSummary, error)
}
