package services

import (
	"context"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/SscSPs/ngo_fund_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// GetAccountByCode retrieves an account by its natural key.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts returns the chart ordered by type then code.
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount renames or re-describes an account. Type and code never change.
	UpdateAccount(ctx context.Context, code string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount stops new postings to an account. History is untouched.
	DeactivateAccount(ctx context.Context, code string, userID string) error

	// ActivateAccount re-enables postings to an account.
	ActivateAccount(ctx context.Context, code string, userID string) error

	// ImportAccounts creates the accounts that do not exist yet, parents first.
	ImportAccounts(ctx context.Context, reqs []dto.CreateAccountRequest, userID string) (int, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
