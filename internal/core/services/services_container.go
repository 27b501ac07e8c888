package services

import (
	"time"

	portsrepo "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/platform/config"
)

// ContainerOption tunes services beyond what the config carries.
type ContainerOption func(*containerDeps)

type containerDeps struct {
	idempotency portsrepo.IdempotencyStore
	observer    portssvc.LedgerObserver
	clock       func() time.Time
}

// WithIdempotency wires the idempotency-key store into voucher creation.
func WithIdempotency(store portsrepo.IdempotencyStore) ContainerOption {
	return func(d *containerDeps) { d.idempotency = store }
}

// WithObserver wires an event observer, typically the metrics recorder.
func WithObserver(o portssvc.LedgerObserver) ContainerOption {
	return func(d *containerDeps) { d.observer = o }
}

// WithContainerClock overrides time.Now for every service.
func WithContainerClock(now func() time.Time) ContainerOption {
	return func(d *containerDeps) { d.clock = now }
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, opts ...ContainerOption) *portssvc.ServiceContainer {
	deps := &containerDeps{observer: noopObserver{}, clock: time.Now}
	for _, opt := range opts {
		opt(deps)
	}

	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, WithAccountObserver(deps.observer))
	container.Department = NewDepartmentService(repos.DepartmentRepo, repos.AccountRepo)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.VoucherRepo)
	container.Reporting = NewReportingService(repos, WithReportingObserver(deps.observer))

	voucherOpts := []VoucherServiceOption{
		WithCashAccountCode(cfg.CashAccountCode),
		WithRevenueAccountCode(cfg.DefaultRevenueAccountCode),
		WithVoucherPrefix(cfg.VoucherPrefix),
		WithFiscalYearStart(cfg.FiscalYearStartMonth),
		WithLocation(cfg.Location),
		WithVoucherObserver(deps.observer),
		WithClock(deps.clock),
	}
	if deps.idempotency != nil {
		voucherOpts = append(voucherOpts, WithIdempotencyStore(deps.idempotency))
	}
	container.Voucher = NewVoucherService(repos.VoucherRepo, repos.AccountRepo, repos.DepartmentRepo, repos.JournalRepo, voucherOpts...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade    = (*accountService)(nil)
	_ portssvc.DepartmentSvcFacade = (*departmentService)(nil)
	_ portssvc.VoucherSvcFacade    = (*voucherService)(nil)
	_ portssvc.JournalSvcFacade    = (*journalService)(nil)
	_ portssvc.ReportingService    = (*reportingService)(nil)
)
