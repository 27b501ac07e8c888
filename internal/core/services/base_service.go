package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/middleware"
	"github.com/shopspring/decimal"
)

// BaseService carries what every ledger service shares: a component name for logs,
// an event observer and a replaceable clock.
type BaseService struct {
	Component string
	Observer  portssvc.LedgerObserver
	Now       func() time.Time
}

func newBaseService(component string) BaseService {
	return BaseService{Component: component, Observer: noopObserver{}, Now: time.Now}
}

// GetLogger returns the request-scoped logger tagged with the service component.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		logger = slog.Default()
	}
	if s.Component == "" {
		return logger
	}
	return logger.With(slog.String("component", s.Component))
}

// LogError logs err under msg with the extra attributes.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := append([]any{slog.String("error", err.Error())}, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

type noopObserver struct{}

func (noopObserver) VoucherCreated(domain.VoucherType) {}
func (noopObserver) VoucherTransitioned(domain.VoucherStatus) {}
func (noopObserver) TrialBalanceComputed(decimal.Decimal) {}
