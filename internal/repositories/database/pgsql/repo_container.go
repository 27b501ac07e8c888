package pgsql

import (
	portsrepo "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProviderOption configures NewRepositoryProvider.
type ProviderOption func(*providerConfig)

type providerConfig struct {
	onRetry func()
}

// WithRetryHook is called every time a serializable write is retried.
func WithRetryHook(fn func()) ProviderOption {
	return func(c *providerConfig) {
		c.onRetry = fn
	}
}

func NewRepositoryProvider(dbPool *pgxpool.Pool, opts ...ProviderOption) portsrepo.RepositoryProvider {
	cfg := &providerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return portsrepo.RepositoryProvider{
		AccountRepo:    newPgxAccountRepository(dbPool),
		DepartmentRepo: newPgxDepartmentRepository(dbPool),
		VoucherRepo:    newPgxVoucherRepository(dbPool, cfg.onRetry),
		JournalRepo:    newPgxJournalRepository(dbPool, cfg.onRetry),
	}
}
