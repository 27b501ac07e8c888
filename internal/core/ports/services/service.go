package services

// ServiceContainer holds instances of all the application services.
// It is the entry point handlers and CLI commands use to reach the core.
type ServiceContainer struct {
	Account    AccountSvcFacade
	Department DepartmentSvcFacade
	Voucher    VoucherSvcFacade
	Journal    JournalSvcFacade
	Reporting  ReportingService
}
