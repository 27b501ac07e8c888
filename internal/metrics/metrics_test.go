package metrics

import (
	"testing"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.VoucherCreated(domain.VoucherExpense)
	r.VoucherCreated(domain.VoucherExpense)
	r.VoucherCreated(domain.VoucherIncome)
	r.VoucherTransitioned(domain.VoucherApproved)
	r.VoucherTxRetried()
	r.TrialBalanceComputed(decimal.RequireFromString("0.50"))
	r.ObserveHTTP("GET", "/api/v1/reports/trial-balance", "200", 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.vouchersCreated.WithLabelValues("expense")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.vouchersCreated.WithLabelValues("income")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.voucherTransitions.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.voucherRetries))
	assert.Equal(t, 0.5, testutil.ToFloat64(r.trialBalanceDiff))
	assert.Equal(t, 1, testutil.CollectAndCount(r.httpRequestDuration))
}
